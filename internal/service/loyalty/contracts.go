package loyalty

import (
	"context"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/booking"
)

// BookingRepository агрегаты завершенных бронирований
type BookingRepository interface {
	CountCompletedByEmail(ctx context.Context, email string) (int, error)
	CompletedCounts(ctx context.Context, limit int) ([]bookingRepo.CustomerCount, error)
}

// CounterRepository счетчик бронирований клиента (serviceCount)
type CounterRepository interface {
	GetServiceCount(ctx context.Context, email string) (int, error)
}

// ProfileRepository профили провайдера аутентификации (только чтение)
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*domain.Profile, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
