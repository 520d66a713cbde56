package loyalty

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	profileRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/profile"
	"github.com/m04kA/SMC-BarberBooking/internal/service/loyalty/models"
)

const (
	DefaultRankingLimit = 50
	MaxRankingLimit     = 200
)

// Service уровни лояльности и рейтинг клиентов
type Service struct {
	bookingRepo BookingRepository
	counterRepo CounterRepository
	profileRepo ProfileRepository
	logger      Logger
}

// NewService создает сервис лояльности. counterRepo и profileRepo могут быть nil.
func NewService(
	bookingRepo BookingRepository,
	counterRepo CounterRepository,
	profileRepo ProfileRepository,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		counterRepo: counterRepo,
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// TierFor уровень по числу завершенных визитов
func (s *Service) TierFor(completedCount int) models.TierResponse {
	return models.FromDomainTier(domain.TierFor(completedCount))
}

// GetMyLoyalty уровень лояльности вызывающего пользователя
func (s *Service) GetMyLoyalty(ctx context.Context, user *domain.AuthUser) (*models.LoyaltyResponse, error) {
	if user == nil || user.Email == "" {
		return nil, fmt.Errorf("%w: caller has no e-mail", ErrInvalidInput)
	}
	email := domain.NormalizeEmail(user.Email)
	s.logger.Info("GetMyLoyalty: user=%s", user.ID)

	// 1. Завершенные визиты
	completed, err := s.bookingRepo.CountCompletedByEmail(ctx, email)
	if err != nil {
		s.logger.Error("GetMyLoyalty: repository error for user=%s: %v", user.ID, err)
		return nil, fmt.Errorf("%w: GetMyLoyalty - count completed: %v", ErrInternal, err)
	}

	resp := &models.LoyaltyResponse{
		CustomerEmail:  email,
		CompletedCount: completed,
		Tier:           models.FromDomainTier(domain.TierFor(completed)),
	}

	if next, remaining, ok := domain.NextTier(completed); ok {
		nextResp := models.FromDomainTier(next)
		resp.NextTier = &nextResp
		resp.RemainingToNext = remaining
	}

	// 2. Всего бронирований (счетчик serviceCount)
	if s.counterRepo != nil {
		total, err := s.counterRepo.GetServiceCount(ctx, email)
		if err != nil {
			s.logger.Error("GetMyLoyalty: counter error for user=%s: %v", user.ID, err)
			return nil, fmt.Errorf("%w: GetMyLoyalty - service count: %v", ErrInternal, err)
		}
		resp.TotalBookings = total
	}

	// 3. Флаг первого визита из профиля; профиль может отсутствовать
	if s.profileRepo != nil {
		profile, err := s.profileRepo.GetByUserID(ctx, user.ID)
		switch {
		case err == nil:
			resp.IsFirstTime = &profile.IsFirstTime
		case errors.Is(err, profileRepo.ErrProfileNotFound):
		default:
			s.logger.Warn("GetMyLoyalty: profile lookup failed for user=%s: %v", user.ID, err)
		}
	}

	// 4. Скидка на первый визит
	resp.FirstVisitDiscount = domain.FirstVisitDiscount(completed, resp.IsFirstTime)

	s.logger.Info("GetMyLoyalty: user=%s completed=%d tier=%s discount=%d%%",
		user.ID, completed, resp.Tier.Label, resp.FirstVisitDiscount)
	return resp, nil
}

// GetRanking рейтинг клиентов по завершенным визитам.
// Порядок: по убыванию числа визитов, при равенстве по e-mail.
func (s *Service) GetRanking(ctx context.Context, limit int) (*models.RankingResponse, error) {
	switch {
	case limit < 0:
		return nil, fmt.Errorf("%w: negative limit", ErrInvalidInput)
	case limit == 0:
		limit = DefaultRankingLimit
	case limit > MaxRankingLimit:
		limit = MaxRankingLimit
	}

	counts, err := s.bookingRepo.CompletedCounts(ctx, limit)
	if err != nil {
		s.logger.Error("GetRanking: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetRanking - repository error: %v", ErrInternal, err)
	}

	entries := make([]domain.RankingEntry, 0, len(counts))
	for i, c := range counts {
		entries = append(entries, domain.RankingEntry{
			Position:       i + 1,
			CustomerEmail:  c.Email,
			CustomerName:   c.Name,
			CompletedCount: c.Completed,
			Tier:           domain.TierFor(c.Completed),
		})
	}

	s.logger.Info("GetRanking: %d entries", len(entries))
	return models.FromDomainRanking(entries), nil
}
