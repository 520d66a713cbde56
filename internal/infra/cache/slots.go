package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

var (
	// ErrCacheUnavailable возвращается при ошибке обращения к Redis
	ErrCacheUnavailable = errors.New("cache: unavailable")

	// ErrCorruptedEntry возвращается, когда значение в кэше не разбирается
	ErrCorruptedEntry = errors.New("cache: corrupted entry")
)

// Store хранилище байтов с TTL (реализуется RedisCache)
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// SlotsCache кэш занятых часов по дате.
// Используется только для advisory чтения: запись бронирования всегда
// проверяет слот в БД внутри транзакции.
type SlotsCache struct {
	store  Store
	ttl    time.Duration
	prefix string
}

// NewSlotsCache создает кэш занятых часов
func NewSlotsCache(store Store, ttl time.Duration, prefix string) *SlotsCache {
	return &SlotsCache{store: store, ttl: ttl, prefix: prefix}
}

// GetOccupiedHours возвращает занятые часы из кэша; ok=false при промахе
func (c *SlotsCache) GetOccupiedHours(ctx context.Context, date types.DateString) ([]types.TimeString, bool, error) {
	raw, ok, err := c.store.Get(ctx, c.key(date))
	if err != nil {
		return nil, false, fmt.Errorf("%w: get %s: %v", ErrCacheUnavailable, date, err)
	}
	if !ok {
		return nil, false, nil
	}

	var hours []types.TimeString
	if err := json.Unmarshal(raw, &hours); err != nil {
		return nil, false, fmt.Errorf("%w: %s: %v", ErrCorruptedEntry, date, err)
	}
	return hours, true, nil
}

// SetOccupiedHours сохраняет занятые часы на дату
func (c *SlotsCache) SetOccupiedHours(ctx context.Context, date types.DateString, hours []types.TimeString) error {
	if hours == nil {
		hours = []types.TimeString{}
	}
	raw, err := json.Marshal(hours)
	if err != nil {
		return fmt.Errorf("%w: marshal %s: %v", ErrCorruptedEntry, date, err)
	}
	if err := c.store.Set(ctx, c.key(date), raw, c.ttl); err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrCacheUnavailable, date, err)
	}
	return nil
}

// Invalidate удаляет запись для даты (после создания или отмены бронирования)
func (c *SlotsCache) Invalidate(ctx context.Context, date types.DateString) error {
	if err := c.store.Delete(ctx, c.key(date)); err != nil {
		return fmt.Errorf("%w: delete %s: %v", ErrCacheUnavailable, date, err)
	}
	return nil
}

func (c *SlotsCache) key(date types.DateString) string {
	return c.prefix + date.String()
}
