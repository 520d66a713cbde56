package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/pkg/ptr"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

func TestTierFor_Boundaries(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{count: 0, want: "New"},
		{count: 4, want: "New"},
		{count: 5, want: "Frequent"},
		{count: 9, want: "Frequent"},
		{count: 10, want: "Star"},
		{count: 14, want: "Star"},
		{count: 15, want: "VIP"},
		{count: 100, want: "VIP"},
		{count: -3, want: "New"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TierFor(tt.count).Label, "count %d", tt.count)
	}
}

func TestTierFor_Monotonic(t *testing.T) {
	rank := map[string]int{"New": 0, "Frequent": 1, "Star": 2, "VIP": 3}

	prev := rank[TierFor(0).Label]
	for n := 1; n <= 40; n++ {
		cur := rank[TierFor(n).Label]
		assert.GreaterOrEqual(t, cur, prev, "tier decreased at %d", n)
		prev = cur
	}
}

func TestTierFor_VisualKeys(t *testing.T) {
	assert.Equal(t, "novato", TierFor(0).VisualKey)
	assert.Equal(t, "frecuente", TierFor(5).VisualKey)
	assert.Equal(t, "estrella", TierFor(10).VisualKey)
	assert.Equal(t, "vip", TierFor(15).VisualKey)
}

func TestNextTier(t *testing.T) {
	next, remaining, ok := NextTier(3)
	require.True(t, ok)
	assert.Equal(t, TierFrequent, next)
	assert.Equal(t, 2, remaining)

	next, remaining, ok = NextTier(12)
	require.True(t, ok)
	assert.Equal(t, TierVIP, next)
	assert.Equal(t, 3, remaining)

	_, _, ok = NextTier(15)
	assert.False(t, ok)
}

func TestFirstVisitDiscount(t *testing.T) {
	tests := []struct {
		name        string
		completed   int
		isFirstTime *bool
		want        int
	}{
		{name: "new customer without profile", completed: 0, isFirstTime: nil, want: FirstVisitDiscountPercent},
		{name: "profile marks first time", completed: 0, isFirstTime: ptr.Ptr(true), want: 10},
		{name: "profile withdraws discount", completed: 0, isFirstTime: ptr.Ptr(false), want: 0},
		{name: "already visited", completed: 1, isFirstTime: nil, want: 0},
		{name: "stale first-time flag", completed: 3, isFirstTime: ptr.Ptr(true), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FirstVisitDiscount(tt.completed, tt.isFirstTime))
		})
	}
}

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()

	assert.Equal(t, []types.TimeString{
		"15:00", "15:30", "16:00", "16:30", "17:00", "17:30", "18:00", "18:30", "19:00",
	}, c.Hours())
	assert.Len(t, c.Services(), 6)
	assert.True(t, c.HasService("Corte clásico"))
	assert.False(t, c.HasService("Manicura"))
	assert.True(t, c.HasHour("19:00"))
	assert.False(t, c.HasHour("19:30"))
	assert.False(t, c.HasHour("15:15"))
}

func TestNewCatalog_Invalid(t *testing.T) {
	_, err := NewCatalog(nil, "15:00", "19:00", 30)
	assert.ErrorIs(t, err, ErrInvalidCatalog)

	_, err = NewCatalog([]string{"Corte"}, "19:00", "15:00", 30)
	assert.ErrorIs(t, err, ErrInvalidCatalog)

	_, err = NewCatalog([]string{"Corte"}, "15:00", "19:00", 0)
	assert.ErrorIs(t, err, ErrInvalidCatalog)

	_, err = NewCatalog([]string{"Corte"}, "3pm", "19:00", 30)
	assert.ErrorIs(t, err, ErrInvalidCatalog)
}

func TestCatalog_ReturnsCopies(t *testing.T) {
	c := DefaultCatalog()
	hours := c.Hours()
	hours[0] = "00:00"
	assert.Equal(t, types.TimeString("15:00"), c.Hours()[0])
}

func TestBooking_Ownership(t *testing.T) {
	b := &Booking{CustomerEmail: "Ana@Example.com", Status: StatusPending}

	assert.True(t, b.IsOwnedBy(" ana@example.com"))
	assert.False(t, b.IsOwnedBy("luis@example.com"))

	owner := &AuthUser{Email: "ana@example.com"}
	other := &AuthUser{Email: "luis@example.com"}
	admin := &AuthUser{Email: "admin@example.com", IsAdmin: true}

	assert.True(t, owner.CanAccess(b))
	assert.False(t, other.CanAccess(b))
	assert.True(t, admin.CanAccess(b))

	var nobody *AuthUser
	assert.False(t, nobody.CanAccess(b))
}

func TestBooking_StatusTransitions(t *testing.T) {
	pending := &Booking{Status: StatusPending}
	completed := &Booking{Status: StatusCompleted}

	assert.True(t, pending.CanBeCancelled())
	assert.True(t, pending.CanBeCompleted())
	assert.False(t, completed.CanBeCancelled())
	assert.False(t, completed.CanBeCompleted())
	assert.False(t, BookingStatus("cancelled").IsValid())
}

func TestBooking_IsFirstService(t *testing.T) {
	assert.True(t, (&Booking{ServiceCount: ptr.Ptr(1)}).IsFirstService())
	assert.False(t, (&Booking{ServiceCount: ptr.Ptr(2)}).IsFirstService())
	assert.False(t, (&Booking{}).IsFirstService())
}

func TestDayAvailability_OpenHours(t *testing.T) {
	d := &DayAvailability{
		Hours: []HourAvailability{
			{Hour: "15:00", Available: false},
			{Hour: "15:30", Available: true},
		},
	}
	assert.Equal(t, []types.TimeString{"15:30"}, d.OpenHours())
	assert.False(t, d.IsFull())

	d.Hours[1].Available = false
	assert.True(t, d.IsFull())
}

func TestSlot_HasStarted(t *testing.T) {
	loc := time.FixedZone("CLT", -3*60*60)
	slot := Slot{Date: "2025-03-10", Hour: "15:00"}

	before := time.Date(2025, 3, 10, 14, 59, 0, 0, loc)
	exact := time.Date(2025, 3, 10, 15, 0, 0, 0, loc)

	started, err := slot.HasStarted(before, loc)
	require.NoError(t, err)
	assert.False(t, started)

	started, err = slot.HasStarted(exact, loc)
	require.NoError(t, err)
	assert.True(t, started)

	// 17:59 UTC is 14:59 at UTC-3
	started, err = slot.HasStarted(time.Date(2025, 3, 10, 17, 59, 0, 0, time.UTC), loc)
	require.NoError(t, err)
	assert.False(t, started)
}
