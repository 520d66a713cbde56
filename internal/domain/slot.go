package domain

import (
	"time"

	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// Slot is one bookable (date, hour) appointment unit
type Slot struct {
	Date types.DateString
	Hour types.TimeString
}

// String returns "YYYY-MM-DD HH:MM"
func (s Slot) String() string {
	return s.Date.String() + " " + s.Hour.String()
}

// StartsAt returns the instant the slot begins in the shop's location
func (s Slot) StartsAt(loc *time.Location) (time.Time, error) {
	day, err := s.Date.Time(loc)
	if err != nil {
		return time.Time{}, err
	}
	minutes, err := s.Hour.Minutes()
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), minutes/60, minutes%60, 0, 0, day.Location()), nil
}

// HasStarted reports whether the slot start is at or before now
func (s Slot) HasStarted(now time.Time, loc *time.Location) (bool, error) {
	start, err := s.StartsAt(loc)
	if err != nil {
		return false, err
	}
	return !start.After(now), nil
}

// HourAvailability represents one catalog hour on a given date
type HourAvailability struct {
	Hour      types.TimeString
	Available bool
}

// DayAvailability is the advisory view of a date: which catalog hours are still open
type DayAvailability struct {
	Date     types.DateString
	Hours    []HourAvailability
	Occupied []types.TimeString
}

// OpenHours returns only the available hours, in catalog order
func (d *DayAvailability) OpenHours() []types.TimeString {
	open := make([]types.TimeString, 0, len(d.Hours))
	for _, h := range d.Hours {
		if h.Available {
			open = append(open, h.Hour)
		}
	}
	return open
}

// IsFull returns true if no hour is open on the date
func (d *DayAvailability) IsFull() bool {
	return len(d.OpenHours()) == 0
}
