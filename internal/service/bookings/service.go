package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-BarberBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-BarberBooking/pkg/metrics"
)

// CancelPolicy когда клиенту отправляется письмо об отмене
type CancelPolicy struct {
	NotifyOnAdminCancel bool
	NotifyOnOwnerCancel bool
}

// Service сервис жизненного цикла бронирований
type Service struct {
	bookingRepo BookingRepository
	txManager   TransactionManager
	slots       SlotRegistry
	notifier    Notifier
	policy      CancelPolicy
	metrics     *metrics.Metrics
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований. m может быть nil.
func NewService(
	bookingRepo BookingRepository,
	txManager TransactionManager,
	slots SlotRegistry,
	notifier Notifier,
	policy CancelPolicy,
	m *metrics.Metrics,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		txManager:   txManager,
		slots:       slots,
		notifier:    notifier,
		policy:      policy,
		metrics:     m,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID.
// Клиент видит только свои бронирования, администратор - любые.
func (s *Service) GetByID(ctx context.Context, id string, user *domain.AuthUser) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s for user=%s", id, userID(user))

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.translateRepoError("GetByID", id, err)
	}

	if !user.CanAccess(booking) {
		s.logger.Warn("GetByID: access denied for user=%s to booking id=%s", userID(user), id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainBooking(booking), nil
}

// GetMyBookings бронирования вызывающего пользователя (по e-mail)
func (s *Service) GetMyBookings(ctx context.Context, user *domain.AuthUser) (*models.BookingListResponse, error) {
	if user == nil || user.Email == "" {
		return nil, fmt.Errorf("%w: caller has no e-mail", ErrInvalidInput)
	}
	s.logger.Info("GetMyBookings: fetching bookings for user=%s", user.ID)

	bookings, err := s.bookingRepo.GetByCustomerEmail(ctx, user.Email)
	if err != nil {
		s.logger.Error("GetMyBookings: repository error for user=%s: %v", user.ID, err)
		return nil, fmt.Errorf("%w: GetMyBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetMyBookings: fetched %d bookings for user=%s", len(bookings), user.ID)
	return models.FromDomainBookingList(bookings), nil
}

// ListBookings все бронирования с фильтрацией. Только для администратора.
func (s *Service) ListBookings(ctx context.Context, user *domain.AuthUser, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	if user == nil || !user.IsAdmin {
		s.logger.Warn("ListBookings: access denied for user=%s", userID(user))
		return nil, ErrAccessDenied
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ListBookings: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ListBookings: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListBookings: fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование (удаляет запись и освобождает слот).
// Отменить может владелец или администратор; завершенное бронирование
// отменить нельзя. Возвращает данные удаленного бронирования.
func (s *Service) Cancel(ctx context.Context, id string, user *domain.AuthUser) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%s by user=%s", id, userID(user))

	var cancelled *domain.Booking

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Читаем бронирование с блокировкой строки
		booking, err := s.bookingRepo.GetByID(txCtx, id)
		if err != nil {
			return s.translateRepoError("Cancel", id, err)
		}

		// 2. Проверяем права доступа
		if !user.CanAccess(booking) {
			s.logger.Warn("Cancel: access denied for user=%s to booking id=%s", userID(user), id)
			return ErrAccessDenied
		}

		// 3. Завершенное бронирование неизменно
		if !booking.CanBeCancelled() {
			s.logger.Warn("Cancel: booking id=%s cannot be cancelled, status=%s", id, booking.Status)
			return ErrCannotCancel
		}

		// 4. Удаляем
		if err := s.bookingRepo.Delete(txCtx, id); err != nil {
			return s.translateRepoError("Cancel", id, err)
		}

		cancelled = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 5. После коммита: слот свободен, уведомления
	s.slots.Invalidate(ctx, cancelled.Date)
	s.metrics.IncBooking("cancelled")
	s.notifier.BookingCancelled(cancelled, user, s.shouldNotifyOnCancel(cancelled, user))

	s.logger.Info("Cancel: booking id=%s cancelled, slot %s released", id, cancelled.Slot())
	return models.FromDomainBooking(cancelled), nil
}

// Complete переводит бронирование в completed. Только для администратора.
// Повторное завершение - успешная no-op операция.
func (s *Service) Complete(ctx context.Context, id string, user *domain.AuthUser) (*models.BookingResponse, error) {
	s.logger.Info("Complete: completing booking id=%s by user=%s", id, userID(user))

	if user == nil || !user.IsAdmin {
		s.logger.Warn("Complete: access denied for user=%s", userID(user))
		return nil, ErrAccessDenied
	}

	var (
		result  *domain.Booking
		changed bool
	)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Читаем бронирование с блокировкой строки
		booking, err := s.bookingRepo.GetByID(txCtx, id)
		if err != nil {
			return s.translateRepoError("Complete", id, err)
		}

		// 2. Уже завершено - ничего не делаем
		if booking.IsCompleted() {
			result = booking
			return nil
		}

		// 3. pending -> completed
		changed, err = s.bookingRepo.MarkCompleted(txCtx, id)
		if err != nil {
			return s.translateRepoError("Complete", id, err)
		}
		if !changed {
			// строку успели изменить между чтением и обновлением
			current, err := s.bookingRepo.GetByID(txCtx, id)
			if err != nil {
				return s.translateRepoError("Complete", id, err)
			}
			result = current
			return nil
		}

		booking.Status = domain.StatusCompleted
		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.metrics.IncBooking("completed")
		s.notifier.BookingCompleted(result, user)
		s.logger.Info("Complete: booking id=%s completed", id)
	} else {
		s.logger.Info("Complete: booking id=%s already completed", id)
	}

	return models.FromDomainBooking(result), nil
}

// shouldNotifyOnCancel решает, отправлять ли письмо клиенту об отмене
func (s *Service) shouldNotifyOnCancel(b *domain.Booking, user *domain.AuthUser) bool {
	if user != nil && user.IsAdmin && !b.IsOwnedBy(user.Email) {
		return s.policy.NotifyOnAdminCancel
	}
	return s.policy.NotifyOnOwnerCancel
}

func (s *Service) translateRepoError(op, id string, err error) error {
	if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		s.logger.Warn("%s: booking id=%s not found", op, id)
		return ErrBookingNotFound
	}
	s.logger.Error("%s: repository error for booking id=%s: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}

func userID(u *domain.AuthUser) string {
	if u == nil {
		return "anonymous"
	}
	return u.ID
}
