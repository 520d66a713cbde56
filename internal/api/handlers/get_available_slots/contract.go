package get_available_slots

import (
	"context"

	"github.com/m04kA/SMC-BarberBooking/internal/service/slots/models"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

type SlotRegistry interface {
	ListOpenHours(ctx context.Context, date types.DateString) (*models.AvailabilityResponse, error)
	Today() types.DateString
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
