package domain

import "github.com/m04kA/SMC-BarberBooking/pkg/types"

// Default catalog values
const (
	DefaultFirstSlot       types.TimeString = "15:00"
	DefaultLastSlot        types.TimeString = "19:00"
	DefaultSlotStepMinutes                  = 30
)

// DefaultServices список услуг барбершопа по умолчанию
var DefaultServices = []string{
	"Corte clásico",
	"Arreglo de barba",
	"Afeitado tradicional con navaja",
	"Coloración de cabello o barba",
	"Planchado o alisado capilar",
	"Servicio de niños",
}

// Business validation constants
const (
	MinSlotStepMinutes = 5
	MaxSlotStepMinutes = 240

	MaxCustomerNameLength  = 100
	MaxCustomerEmailLength = 254
	MinCustomerPhoneLength = 6
	MaxCustomerPhoneLength = 20
)

// Loyalty tier thresholds (inclusive lower bounds)
const (
	FrequentThreshold = 5
	StarThreshold     = 10
	VIPThreshold      = 15
)

// Booking lifecycle events
const (
	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"
	EventBookingCompleted = "booking.completed"
)
