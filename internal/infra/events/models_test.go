package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/pkg/ptr"
)

func TestNewBookingEvent(t *testing.T) {
	at := time.Date(2025, 3, 10, 18, 0, 0, 0, time.FixedZone("CLT", -3*60*60))
	b := &domain.Booking{
		ID:            "b-1",
		Date:          "2025-03-10",
		Hour:          "15:00",
		Service:       "Corte clásico",
		Status:        domain.StatusPending,
		CustomerEmail: "ana@example.com",
		ServiceCount:  ptr.Ptr(3),
	}
	admin := &domain.AuthUser{ID: "u-9", IsAdmin: true}

	e := NewBookingEvent(domain.EventBookingCancelled, b, admin, at)

	assert.Equal(t, "booking.cancelled", e.Event)
	assert.Equal(t, "2025-03-10", e.Date)
	assert.Equal(t, "15:00", e.Hour)
	assert.Equal(t, "u-9", e.ActorID)
	assert.True(t, e.ByAdmin)
	assert.Equal(t, time.UTC, e.OccurredAt.Location())

	raw, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"service_count":3`)
}

func TestNewBookingEvent_NoActor(t *testing.T) {
	e := NewBookingEvent(domain.EventBookingCreated, &domain.Booking{ID: "b-2"}, nil, time.Now())

	assert.Empty(t, e.ActorID)
	assert.False(t, e.ByAdmin)

	raw, err := json.Marshal(e)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "service_count")
}
