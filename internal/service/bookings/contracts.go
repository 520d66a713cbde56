package bookings

import (
	"context"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetByCustomerEmail(ctx context.Context, email string) ([]*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	MarkCompleted(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}

// SlotRegistry сброс advisory кэша занятых часов
type SlotRegistry interface {
	Invalidate(ctx context.Context, date types.DateString)
}

// Notifier уведомления после коммита (best-effort)
type Notifier interface {
	BookingCancelled(b *domain.Booking, actor *domain.AuthUser, notifyCustomer bool)
	BookingCompleted(b *domain.Booking, actor *domain.AuthUser)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
