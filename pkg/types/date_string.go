package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

// DateFormat is the canonical calendar date layout (YYYY-MM-DD)
const DateFormat = "2006-01-02"

// ErrInvalidDateString is returned when a value is not a valid YYYY-MM-DD date
var ErrInvalidDateString = errors.New("invalid date string format")

// DateString is a calendar day with no time and no zone.
// Both the write path and the read path go through this type, so two
// bookings for the same day always compare equal as plain strings.
type DateString string

// NewDateString takes the calendar day of t as seen in loc.
// A nil loc keeps t's own location.
func NewDateString(t time.Time, loc *time.Location) DateString {
	if loc != nil {
		t = t.In(loc)
	}
	return DateString(t.Format(DateFormat))
}

// NewDateStringFromString parses and validates s
func NewDateStringFromString(s string) (DateString, error) {
	d := DateString(s)
	if err := d.Validate(); err != nil {
		return "", err
	}
	return d, nil
}

// Validate checks that the value is a canonical YYYY-MM-DD date
func (d DateString) Validate() error {
	parsed, err := time.Parse(DateFormat, string(d))
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDateString, string(d))
	}
	if parsed.Format(DateFormat) != string(d) {
		return fmt.Errorf("%w: %q is not canonical", ErrInvalidDateString, string(d))
	}
	return nil
}

// IsZero returns true if the value is empty
func (d DateString) IsZero() bool {
	return d == ""
}

// String implements fmt.Stringer
func (d DateString) String() string {
	return string(d)
}

// Time returns midnight of the day in loc (UTC if loc is nil)
func (d DateString) Time(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	parsed, err := time.ParseInLocation(DateFormat, string(d), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateString, string(d))
	}
	return parsed, nil
}

// AddDays shifts the date by n calendar days
func (d DateString) AddDays(n int) (DateString, error) {
	t, err := d.Time(time.UTC)
	if err != nil {
		return "", err
	}
	return NewDateString(t.AddDate(0, 0, n), time.UTC), nil
}

// IsBefore reports whether d is strictly earlier than other
func (d DateString) IsBefore(other DateString) bool {
	return d < other
}

// Scan implements sql.Scanner.
// DATE columns arrive from lib/pq as time.Time at UTC midnight; the
// calendar day is taken from the value as-is, never converted.
func (d *DateString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = ""
	case time.Time:
		*d = DateString(v.Format(DateFormat))
	case string:
		*d = DateString(firstDateChars(v))
	case []byte:
		*d = DateString(firstDateChars(string(v)))
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidDateString, src)
	}
	return nil
}

// Value implements driver.Valuer
func (d DateString) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return string(d), nil
}

func firstDateChars(s string) string {
	if len(s) > len(DateFormat) {
		return s[:len(DateFormat)]
	}
	return s
}
