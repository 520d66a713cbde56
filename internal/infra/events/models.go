package events

import (
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

// BookingEvent тело событий booking.created, booking.cancelled, booking.completed
type BookingEvent struct {
	Event         string    `json:"event"`
	BookingID     string    `json:"booking_id"`
	Date          string    `json:"date"`
	Hour          string    `json:"hour"`
	Service       string    `json:"service"`
	Status        string    `json:"status"`
	CustomerEmail string    `json:"customer_email"`
	ServiceCount  *int      `json:"service_count,omitempty"`
	ActorID       string    `json:"actor_id,omitempty"`
	ByAdmin       bool      `json:"by_admin"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NewBookingEvent собирает событие из бронирования
func NewBookingEvent(event string, b *domain.Booking, actor *domain.AuthUser, at time.Time) BookingEvent {
	e := BookingEvent{
		Event:         event,
		BookingID:     b.ID,
		Date:          b.Date.String(),
		Hour:          b.Hour.String(),
		Service:       b.Service,
		Status:        string(b.Status),
		CustomerEmail: b.CustomerEmail,
		ServiceCount:  b.ServiceCount,
		OccurredAt:    at.UTC(),
	}
	if actor != nil {
		e.ActorID = actor.ID
		e.ByAdmin = actor.IsAdmin
	}
	return e
}
