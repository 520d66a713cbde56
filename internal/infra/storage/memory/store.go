// Package memory хранилище бронирований в памяти с теми же гарантиями,
// что и схема PostgreSQL: уникальность (дата, час) проверяется при вставке.
// Используется в тестах сервисов и use case.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-BarberBooking/internal/infra/storage/profile"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// Store in-memory реализация репозиториев booking, customer и profile
type Store struct {
	mu       sync.Mutex
	bookings map[string]*domain.Booking
	slots    map[domain.Slot]string
	counters map[string]int
	profiles map[string]domain.Profile
	now      func() time.Time

	// BeforeInsert вызывается перед вставкой (вне блокировки); позволяет
	// тестам свести конкурирующие запросы в одну точку
	BeforeInsert func()

	// FailNext, если задана, возвращается следующим вызовом любого метода
	FailNext error
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		bookings: make(map[string]*domain.Booking),
		slots:    make(map[domain.Slot]string),
		counters: make(map[string]int),
		profiles: make(map[string]domain.Profile),
		now:      time.Now,
	}
}

// Create вставляет бронирование; занятый слот - booking.ErrSlotTaken
func (s *Store) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	if s.BeforeInsert != nil {
		s.BeforeInsert()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return nil, err
	}

	slot := b.Slot()
	if _, taken := s.slots[slot]; taken {
		return nil, booking.ErrSlotTaken
	}

	now := s.now()
	stored := *b
	stored.CreatedAt = now
	stored.UpdatedAt = now

	s.bookings[stored.ID] = &stored
	s.slots[slot] = stored.ID

	if j := journalFrom(ctx); j != nil {
		j.inserted = append(j.inserted, stored.ID)
	}

	b.CreatedAt = now
	b.UpdatedAt = now
	return b, nil
}

// GetByID возвращает копию бронирования
func (s *Store) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return nil, err
	}

	b, ok := s.bookings[id]
	if !ok {
		return nil, booking.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

// IsSlotTaken проверяет занятость слота
func (s *Store) IsSlotTaken(_ context.Context, date types.DateString, hour types.TimeString) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return false, err
	}

	_, taken := s.slots[domain.Slot{Date: date, Hour: hour}]
	return taken, nil
}

// OccupiedHours занятые часы на дату по возрастанию
func (s *Store) OccupiedHours(_ context.Context, date types.DateString) ([]types.TimeString, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return nil, err
	}

	hours := make([]types.TimeString, 0)
	for slot := range s.slots {
		if slot.Date == date {
			hours = append(hours, slot.Hour)
		}
	}
	sort.Slice(hours, func(i, j int) bool { return hours[i] < hours[j] })
	return hours, nil
}

// GetByCustomerEmail бронирования клиента
func (s *Store) GetByCustomerEmail(ctx context.Context, email string) ([]*domain.Booking, error) {
	return s.List(ctx, domain.BookingsFilter{CustomerEmail: &email})
}

// List бронирования по фильтру, порядок как в PostgreSQL репозитории
func (s *Store) List(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return nil, err
	}

	out := make([]*domain.Booking, 0)
	for _, b := range s.bookings {
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		if filter.Date != nil && b.Date != *filter.Date {
			continue
		}
		if filter.DateFrom != nil && b.Date < *filter.DateFrom {
			continue
		}
		if filter.DateTo != nil && b.Date > *filter.DateTo {
			continue
		}
		if filter.CustomerEmail != nil && !b.IsOwnedBy(*filter.CustomerEmail) {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}

	if filter.Date != nil {
		sort.Slice(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	} else {
		sort.Slice(out, func(i, j int) bool {
			if out[i].Date != out[j].Date {
				return out[i].Date > out[j].Date
			}
			return out[i].Hour > out[j].Hour
		})
	}
	return out, nil
}

// MarkCompleted pending -> completed
func (s *Store) MarkCompleted(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return false, err
	}

	b, ok := s.bookings[id]
	if !ok || b.Status != domain.StatusPending {
		return false, nil
	}
	b.Status = domain.StatusCompleted
	b.UpdatedAt = s.now()
	return true, nil
}

// Delete удаляет бронирование и освобождает слот
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return err
	}

	b, ok := s.bookings[id]
	if !ok {
		return booking.ErrBookingNotFound
	}
	delete(s.slots, b.Slot())
	delete(s.bookings, id)
	return nil
}

// CountCompletedByEmail число завершенных бронирований клиента
func (s *Store) CountCompletedByEmail(_ context.Context, email string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return 0, err
	}

	n := 0
	for _, b := range s.bookings {
		if b.Status == domain.StatusCompleted && b.IsOwnedBy(email) {
			n++
		}
	}
	return n, nil
}

// CompletedCounts агрегат для рейтинга
func (s *Store) CompletedCounts(_ context.Context, limit int) ([]booking.CustomerCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return nil, err
	}

	type agg struct {
		count  int
		name   string
		latest domain.Slot
	}
	byEmail := make(map[string]*agg)
	for _, b := range s.bookings {
		if b.Status != domain.StatusCompleted {
			continue
		}
		email := domain.NormalizeEmail(b.CustomerEmail)
		a, ok := byEmail[email]
		if !ok {
			a = &agg{}
			byEmail[email] = a
		}
		a.count++
		if b.Slot().String() > a.latest.String() {
			a.latest = b.Slot()
			a.name = b.CustomerName
		}
	}

	out := make([]booking.CustomerCount, 0, len(byEmail))
	for email, a := range byEmail {
		out = append(out, booking.CustomerCount{Email: email, Name: a.name, Completed: a.count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Completed != out[j].Completed {
			return out[i].Completed > out[j].Completed
		}
		return out[i].Email < out[j].Email
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// NextServiceCount увеличивает счетчик клиента
func (s *Store) NextServiceCount(ctx context.Context, email string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return 0, err
	}

	email = domain.NormalizeEmail(email)
	s.counters[email]++

	if j := journalFrom(ctx); j != nil {
		j.counted = append(j.counted, email)
	}
	return s.counters[email], nil
}

// GetServiceCount текущее значение счетчика
func (s *Store) GetServiceCount(_ context.Context, email string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return 0, err
	}
	return s.counters[domain.NormalizeEmail(email)], nil
}

// PutProfile добавляет профиль
func (s *Store) PutProfile(p domain.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.UserID] = p
}

// GetByUserID профиль пользователя
func (s *Store) GetByUserID(_ context.Context, userID string) (*domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return nil, err
	}

	p, ok := s.profiles[userID]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	return &p, nil
}

// Put кладет бронирование как есть (подготовка данных в тестах)
func (s *Store) Put(b domain.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := b
	s.bookings[b.ID] = &cp
	s.slots[b.Slot()] = b.ID
}

// Len число бронирований
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

func (s *Store) takeFailure() error {
	if s.FailNext == nil {
		return nil
	}
	err := s.FailNext
	s.FailNext = nil
	return err
}

// rollback отменяет изменения транзакции
func (s *Store) rollback(j *journal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, email := range j.counted {
		s.counters[email]--
	}
	for _, id := range j.inserted {
		if b, ok := s.bookings[id]; ok {
			delete(s.slots, b.Slot())
			delete(s.bookings, id)
		}
	}
}
