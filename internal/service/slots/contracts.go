package slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	IsSlotTaken(ctx context.Context, date types.DateString, hour types.TimeString) (bool, error)
	OccupiedHours(ctx context.Context, date types.DateString) ([]types.TimeString, error)
}

// Cache advisory кэш занятых часов (может отсутствовать)
type Cache interface {
	GetOccupiedHours(ctx context.Context, date types.DateString) ([]types.TimeString, bool, error)
	SetOccupiedHours(ctx context.Context, date types.DateString, hours []types.TimeString) error
	Invalidate(ctx context.Context, date types.DateString) error
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
