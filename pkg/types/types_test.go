package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeString_Validate(t *testing.T) {
	tests := []struct {
		name    string
		value   TimeString
		wantErr bool
	}{
		{name: "canonical", value: "15:30"},
		{name: "midnight", value: "00:00"},
		{name: "not padded", value: "9:00", wantErr: true},
		{name: "out of range", value: "25:00", wantErr: true},
		{name: "garbage", value: "quince", wantErr: true},
		{name: "empty", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.value.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	next, err := TimeString("15:30").AddMinutes(30)
	require.NoError(t, err)
	assert.Equal(t, TimeString("16:00"), next)

	_, err = TimeString("23:45").AddMinutes(30)
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestTimeString_Ordering(t *testing.T) {
	assert.True(t, TimeString("09:30").IsBefore("15:00"))
	assert.True(t, TimeString("19:00").IsAfter("18:30"))
	assert.False(t, TimeString("15:00").IsBefore("15:00"))
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan("15:00:00"))
	assert.Equal(t, TimeString("15:00"), ts)

	require.NoError(t, ts.Scan([]byte("18:30")))
	assert.Equal(t, TimeString("18:30"), ts)

	assert.Error(t, ts.Scan(42))
}

func TestDateString_Validate(t *testing.T) {
	_, err := NewDateStringFromString("2025-03-10")
	assert.NoError(t, err)

	_, err = NewDateStringFromString("2025-3-10")
	assert.ErrorIs(t, err, ErrInvalidDateString)

	_, err = NewDateStringFromString("2025-02-30")
	assert.ErrorIs(t, err, ErrInvalidDateString)
}

func TestDateString_NewDateStringUsesLocation(t *testing.T) {
	santiago := time.FixedZone("CLT", -3*60*60)
	// 01:30 UTC on the 11th is still the evening of the 10th at UTC-3
	instant := time.Date(2025, 3, 11, 1, 30, 0, 0, time.UTC)

	assert.Equal(t, DateString("2025-03-10"), NewDateString(instant, santiago))
	assert.Equal(t, DateString("2025-03-11"), NewDateString(instant, time.UTC))
}

func TestDateString_ScanKeepsCalendarDay(t *testing.T) {
	var d DateString

	require.NoError(t, d.Scan(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, DateString("2025-03-10"), d)

	require.NoError(t, d.Scan("2025-03-10T00:00:00Z"))
	assert.Equal(t, DateString("2025-03-10"), d)
}

func TestDateString_AddDays(t *testing.T) {
	next, err := DateString("2025-02-28").AddDays(1)
	require.NoError(t, err)
	assert.Equal(t, DateString("2025-03-01"), next)
}
