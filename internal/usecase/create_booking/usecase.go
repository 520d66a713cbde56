package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-BarberBooking/pkg/metrics"
	"github.com/m04kA/SMC-BarberBooking/pkg/txmanager"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	counterRepo  CounterRepository
	slots        SlotRegistry
	notifier     Notifier
	txManager    TransactionManager
	metrics      *metrics.Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case. m может быть nil.
func NewUseCase(
	bookingRepo BookingRepository,
	counterRepo CounterRepository,
	slots SlotRegistry,
	notifier Notifier,
	txManager TransactionManager,
	m *metrics.Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		counterRepo:  counterRepo,
		slots:        slots,
		notifier:     notifier,
		txManager:    txManager,
		metrics:      m,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания бронирования.
// Проверка слота и вставка выполняются в одной сериализуемой транзакции;
// уникальный индекс (дата, час) - последний арбитр при гонке.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Нормализация и валидация (до любых обращений к хранилищу)
	normalizeRequest(req)

	uc.logger.Info("CreateBooking: date=%s, hour=%s, service=%q, customer=%s",
		req.Date, req.Hour, req.Service, req.CustomerEmail)

	date, hour, err := validateRequest(req, uc.slots.Catalog(), uc.timeProvider.Now(), uc.slots.Location())
	if err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	var result *domain.Booking

	// 2. Сериализуемая транзакция: проверка слота, счетчик, вставка
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Авторитетная проверка слота (FOR UPDATE)
		taken, err := uc.slots.IsSlotTaken(txCtx, date, hour)
		if err != nil {
			return fmt.Errorf("%w: check slot: %w", ErrInternal, err)
		}
		if taken {
			uc.metrics.IncSlotConflict("check")
			return ErrSlotTaken
		}

		// 2.2. Порядковый номер бронирования клиента
		serviceCount, err := uc.counterRepo.NextServiceCount(txCtx, req.CustomerEmail)
		if err != nil {
			return fmt.Errorf("%w: next service count: %w", ErrInternal, err)
		}

		// 2.3. Вставка
		booking := &domain.Booking{
			ID:            uuid.NewString(),
			Date:          date,
			Hour:          hour,
			CustomerName:  req.CustomerName,
			CustomerEmail: req.CustomerEmail,
			CustomerPhone: req.CustomerPhone,
			Service:       req.Service,
			Status:        domain.StatusPending,
			ServiceCount:  &serviceCount,
			SchemaVersion: domain.SchemaVersion,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotTaken) {
				uc.metrics.IncSlotConflict("insert")
				return ErrSlotTaken
			}
			return fmt.Errorf("%w: create booking: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, uc.translateTxError(date, hour, err)
	}

	// 3. После коммита: сброс кэша, метрики, уведомления
	uc.slots.Invalidate(ctx, date)
	uc.metrics.IncBooking("created")
	uc.notifier.BookingCreated(result, req.Actor)

	uc.logger.Info("CreateBooking: created booking id=%s for slot %s, serviceCount=%d",
		result.ID, result.Slot(), *result.ServiceCount)

	return fromDomainBooking(result), nil
}

// translateTxError сводит ошибки транзакции к ErrSlotTaken или ErrInternal.
// Ошибка сериализации после исчерпания повторов означает, что слот занял
// конкурирующий запрос.
func (uc *UseCase) translateTxError(date, hour fmt.Stringer, err error) error {
	switch {
	case errors.Is(err, ErrSlotTaken):
		uc.logger.Warn("CreateBooking: slot %s %s already taken", date, hour)
		return ErrSlotTaken
	case txmanager.IsSerializationFailure(err), errors.Is(err, bookingRepo.ErrSerialization):
		uc.metrics.IncSlotConflict("serialization")
		uc.logger.Warn("CreateBooking: slot %s %s lost to a concurrent booking: %v", date, hour, err)
		return ErrSlotTaken
	case errors.Is(err, ErrInternal):
		uc.logger.Error("CreateBooking: %v", err)
		return err
	default:
		uc.logger.Error("CreateBooking: transaction failed: %v", err)
		return fmt.Errorf("%w: transaction: %v", ErrInternal, err)
	}
}
