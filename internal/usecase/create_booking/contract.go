package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// CounterRepository счетчик бронирований клиента
type CounterRepository interface {
	NextServiceCount(ctx context.Context, email string) (int, error)
}

// SlotRegistry реестр слотов: авторитетная проверка и сброс кэша
type SlotRegistry interface {
	IsSlotTaken(ctx context.Context, date types.DateString, hour types.TimeString) (bool, error)
	Invalidate(ctx context.Context, date types.DateString)
	Catalog() *domain.Catalog
	Location() *time.Location
}

// Notifier уведомления после коммита (best-effort)
type Notifier interface {
	BookingCreated(b *domain.Booking, actor *domain.AuthUser)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
