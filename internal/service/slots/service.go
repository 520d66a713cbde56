package slots

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/service/slots/models"
	"github.com/m04kA/SMC-BarberBooking/pkg/metrics"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// Registry реестр слотов.
// Два уровня проверки:
//   - IsSlotTaken - авторитетная проверка, всегда идет в БД (внутри транзакции записи);
//   - OccupiedHoursForDate / ListOpenHours - advisory чтение для UI, может идти через кэш.
type Registry struct {
	bookingRepo  BookingRepository
	cache        Cache
	catalog      *domain.Catalog
	location     *time.Location
	metrics      *metrics.Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewRegistry создает реестр слотов. cache и m могут быть nil.
func NewRegistry(
	bookingRepo BookingRepository,
	cache Cache,
	catalog *domain.Catalog,
	location *time.Location,
	m *metrics.Metrics,
	logger Logger,
) *Registry {
	if location == nil {
		location = time.UTC
	}
	return &Registry{
		bookingRepo:  bookingRepo,
		cache:        cache,
		catalog:      catalog,
		location:     location,
		metrics:      m,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (r *Registry) WithTimeProvider(tp TimeProvider) *Registry {
	r.timeProvider = tp
	return r
}

// Catalog каталог услуг и часов
func (r *Registry) Catalog() *domain.Catalog {
	return r.catalog
}

// Location часовой пояс барбершопа
func (r *Registry) Location() *time.Location {
	return r.location
}

// IsSlotTaken авторитетная проверка слота. Кэш не используется.
// Ошибки БД возвращаются с сохранением цепочки, чтобы менеджер транзакций
// мог распознать ошибку сериализации.
func (r *Registry) IsSlotTaken(ctx context.Context, date types.DateString, hour types.TimeString) (bool, error) {
	taken, err := r.bookingRepo.IsSlotTaken(ctx, date, hour)
	if err != nil {
		r.logger.Error("IsSlotTaken: repository error for %s %s: %v", date, hour, err)
		return false, fmt.Errorf("%w: IsSlotTaken: %w", ErrInternal, err)
	}
	return taken, nil
}

// OccupiedHoursForDate занятые часы на дату (advisory).
// Ошибки кэша не фатальны: при сбое Redis данные читаются из БД.
func (r *Registry) OccupiedHoursForDate(ctx context.Context, date types.DateString) ([]types.TimeString, error) {
	if err := date.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}

	if r.cache != nil {
		hours, ok, err := r.cache.GetOccupiedHours(ctx, date)
		switch {
		case err != nil:
			r.metrics.IncCache("error")
			r.logger.Warn("OccupiedHoursForDate: cache read failed for %s, falling back to database: %v", date, err)
		case ok:
			r.metrics.IncCache("hit")
			return hours, nil
		default:
			r.metrics.IncCache("miss")
		}
	}

	hours, err := r.bookingRepo.OccupiedHours(ctx, date)
	if err != nil {
		r.logger.Error("OccupiedHoursForDate: repository error for %s: %v", date, err)
		return nil, fmt.Errorf("%w: OccupiedHoursForDate - repository error: %v", ErrInternal, err)
	}

	if r.cache != nil {
		if err := r.cache.SetOccupiedHours(ctx, date, hours); err != nil {
			r.logger.Warn("OccupiedHoursForDate: cache write failed for %s: %v", date, err)
		}
	}

	return hours, nil
}

// ListOpenHours каталог часов на дату с отметкой доступности.
// Занятые и уже начавшиеся слоты недоступны.
func (r *Registry) ListOpenHours(ctx context.Context, date types.DateString) (*models.AvailabilityResponse, error) {
	r.logger.Info("ListOpenHours: date=%s", date)

	occupied, err := r.OccupiedHoursForDate(ctx, date)
	if err != nil {
		return nil, err
	}

	occupiedSet := make(map[types.TimeString]struct{}, len(occupied))
	for _, h := range occupied {
		occupiedSet[h] = struct{}{}
	}

	now := r.timeProvider.Now()
	catalogHours := r.catalog.Hours()

	day := &domain.DayAvailability{
		Date:     date,
		Hours:    make([]domain.HourAvailability, 0, len(catalogHours)),
		Occupied: occupied,
	}

	for _, h := range catalogHours {
		_, taken := occupiedSet[h]

		started, err := domain.Slot{Date: date, Hour: h}.HasStarted(now, r.location)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
		}

		day.Hours = append(day.Hours, domain.HourAvailability{
			Hour:      h,
			Available: !taken && !started,
		})
	}

	r.logger.Info("ListOpenHours: date=%s, open=%d/%d", date, len(day.OpenHours()), len(catalogHours))
	return models.FromDomainDayAvailability(day), nil
}

// Invalidate сбрасывает кэш даты после создания или отмены бронирования.
// Ошибка только логируется: запись TTL истечет сама.
func (r *Registry) Invalidate(ctx context.Context, date types.DateString) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Invalidate(ctx, date); err != nil {
		r.logger.Warn("Invalidate: failed to drop cache for %s: %v", date, err)
	}
}

// Today текущая дата в часовом поясе барбершопа
func (r *Registry) Today() types.DateString {
	return types.NewDateString(r.timeProvider.Now(), r.location)
}
