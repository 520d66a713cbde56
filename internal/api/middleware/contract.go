package middleware

import (
	"context"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

// ProfileRepository источник флага администратора
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*domain.Profile, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
