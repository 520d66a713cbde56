package domain

import (
	"strings"
	"time"

	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// SchemaVersion is the version of the Booking record shape written by this service.
// Version 1 carries ServiceCount as an explicit optional field.
const SchemaVersion = 1

// BookingStatus represents the status of a booking.
// Cancellation deletes the record, so there is no cancelled status.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusCompleted BookingStatus = "completed"
)

// IsValid returns true for a known status
func (s BookingStatus) IsValid() bool {
	return s == StatusPending || s == StatusCompleted
}

// Booking is a customer's claim on a slot
type Booking struct {
	ID   string
	Date types.DateString
	Hour types.TimeString

	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	Service string
	Status  BookingStatus

	// ServiceCount is the customer's running total of bookings, including this one.
	// nil for records written before counters existed.
	ServiceCount  *int
	SchemaVersion int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Slot returns the (date, hour) pair the booking occupies
func (b *Booking) Slot() Slot {
	return Slot{Date: b.Date, Hour: b.Hour}
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending
}

// CanBeCompleted returns true if the booking can move to completed
func (b *Booking) CanBeCompleted() bool {
	return b.Status == StatusPending
}

// IsCompleted returns true if the booking is completed
func (b *Booking) IsCompleted() bool {
	return b.Status == StatusCompleted
}

// IsFirstService returns true if this is the customer's first booking
func (b *Booking) IsFirstService() bool {
	return b.ServiceCount != nil && *b.ServiceCount == 1
}

// IsOwnedBy returns true if the booking was made with the given e-mail
func (b *Booking) IsOwnedBy(email string) bool {
	return NormalizeEmail(b.CustomerEmail) == NormalizeEmail(email)
}

// NormalizeEmail is the canonical form of the customer identity key
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// BookingsFilter фильтр для списка бронирований (админка)
type BookingsFilter struct {
	Status        *BookingStatus    // nil - все статусы
	Date          *types.DateString // конкретная дата
	DateFrom      *types.DateString // начало периода (включительно)
	DateTo        *types.DateString // конец периода (включительно)
	CustomerEmail *string
}
