package notifications

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/integrations/mailer"
)

// Mailer клиент отправки писем
type Mailer interface {
	Send(ctx context.Context, msg mailer.Message) (string, error)
}

// EventPublisher публикация событий бронирований
type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
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
