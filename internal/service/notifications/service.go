package notifications

import (
	"context"
	"fmt"
	"html/template"
	"sync"
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/infra/events"
	"github.com/m04kA/SMC-BarberBooking/internal/integrations/mailer"
	"github.com/m04kA/SMC-BarberBooking/pkg/metrics"
)

const (
	channelEmail  = "email"
	channelEvents = "events"

	kindConfirmation = "confirmation"
	kindCancellation = "cancellation"
	kindCompletion   = "completion"
	kindReminder     = "reminder"

	defaultSendTimeout = 10 * time.Second
)

// Service best-effort уведомления клиента и события бронирований.
// Письма и события отправляются после коммита в отдельной горутине;
// сбой доставки логируется и учитывается в метриках, но не меняет
// результат операции.
type Service struct {
	mailer       Mailer
	publisher    EventPublisher
	shopName     string
	timeout      time.Duration
	metrics      *metrics.Metrics
	timeProvider TimeProvider
	logger       Logger

	wg sync.WaitGroup
}

// NewService создает сервис уведомлений. mailer, publisher и m могут быть nil.
func NewService(
	mailClient Mailer,
	publisher EventPublisher,
	shopName string,
	timeout time.Duration,
	m *metrics.Metrics,
	logger Logger,
) *Service {
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	return &Service{
		mailer:       mailClient,
		publisher:    publisher,
		shopName:     shopName,
		timeout:      timeout,
		metrics:      m,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// BookingCreated письмо-подтверждение и событие booking.created
func (s *Service) BookingCreated(b *domain.Booking, actor *domain.AuthUser) {
	snapshot := *b
	s.dispatch(kindConfirmation, func(ctx context.Context) {
		s.publish(ctx, domain.EventBookingCreated, &snapshot, actor)
		_ = s.sendMail(ctx, kindConfirmation, confirmationTmpl, "Confirmación de tu reserva", &snapshot)
	})
}

// BookingCancelled событие booking.cancelled и, если notifyCustomer, письмо клиенту
func (s *Service) BookingCancelled(b *domain.Booking, actor *domain.AuthUser, notifyCustomer bool) {
	snapshot := *b
	s.dispatch(kindCancellation, func(ctx context.Context) {
		s.publish(ctx, domain.EventBookingCancelled, &snapshot, actor)
		if notifyCustomer {
			_ = s.sendMail(ctx, kindCancellation, cancellationTmpl, "Tu reserva ha sido cancelada", &snapshot)
		}
	})
}

// BookingCompleted событие booking.completed (письмо не отправляется)
func (s *Service) BookingCompleted(b *domain.Booking, actor *domain.AuthUser) {
	snapshot := *b
	s.dispatch(kindCompletion, func(ctx context.Context) {
		s.publish(ctx, domain.EventBookingCompleted, &snapshot, actor)
	})
}

// SendReminder синхронно отправляет напоминание о визите
func (s *Service) SendReminder(ctx context.Context, b *domain.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.sendMail(ctx, kindReminder, reminderTmpl, "Recordatorio de tu cita", b)
}

// Wait дожидается отправки всех уведомлений (graceful shutdown, тесты)
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) dispatch(kind string, fn func(ctx context.Context)) {
	if s.mailer == nil && s.publisher == nil {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("Notifications: %s panicked: %v", kind, r)
			}
		}()

		// контекст запроса к этому моменту уже отменен
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		fn(ctx)
	}()
}

func (s *Service) publish(ctx context.Context, event string, b *domain.Booking, actor *domain.AuthUser) {
	if s.publisher == nil {
		return
	}

	payload := events.NewBookingEvent(event, b, actor, s.timeProvider.Now())
	if err := s.publisher.PublishJSON(ctx, event, payload); err != nil {
		s.metrics.IncNotificationFailure(channelEvents, event)
		s.logger.Warn("Notifications: failed to publish %s for booking %s: %v", event, b.ID, err)
	}
}

func (s *Service) sendMail(ctx context.Context, kind string, tmpl *template.Template, subject string, b *domain.Booking) error {
	if s.mailer == nil {
		return nil
	}

	body, err := render(tmpl, newBookingMailData(b, s.shopName))
	if err != nil {
		s.metrics.IncNotificationFailure(channelEmail, kind)
		s.logger.Error("Notifications: %s for booking %s: %v", kind, b.ID, err)
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	msg := mailer.Message{
		To:      b.CustomerEmail,
		ToName:  b.CustomerName,
		Subject: fmt.Sprintf("%s - %s", subject, s.shopName),
		HTML:    body,
	}

	messageID, err := s.mailer.Send(ctx, msg)
	if err != nil {
		s.metrics.IncNotificationFailure(channelEmail, kind)
		s.logger.Error("Notifications: %s for booking %s not delivered to %s: %v", kind, b.ID, b.CustomerEmail, err)
		return fmt.Errorf("%w: %s: %v", ErrDeliveryFailed, kind, err)
	}

	s.logger.Info("Notifications: %s for booking %s sent, message_id=%s", kind, b.ID, messageID)
	return nil
}
