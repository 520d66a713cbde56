package domain

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// ErrInvalidCatalog is returned when the hour range or the service list is unusable
var ErrInvalidCatalog = errors.New("domain: invalid catalog")

// Catalog holds the enumerated sets a booking must draw from
type Catalog struct {
	services []string
	hours    []types.TimeString

	serviceSet map[string]struct{}
	hourSet    map[types.TimeString]struct{}
}

// NewCatalog builds the hour catalog from first to last (inclusive) every stepMinutes
func NewCatalog(services []string, first, last types.TimeString, stepMinutes int) (*Catalog, error) {
	if len(services) == 0 {
		return nil, fmt.Errorf("%w: empty service list", ErrInvalidCatalog)
	}
	if stepMinutes < MinSlotStepMinutes || stepMinutes > MaxSlotStepMinutes {
		return nil, fmt.Errorf("%w: step %d minutes out of range", ErrInvalidCatalog, stepMinutes)
	}

	start, err := first.Minutes()
	if err != nil {
		return nil, fmt.Errorf("%w: first slot: %v", ErrInvalidCatalog, err)
	}
	end, err := last.Minutes()
	if err != nil {
		return nil, fmt.Errorf("%w: last slot: %v", ErrInvalidCatalog, err)
	}
	if end < start {
		return nil, fmt.Errorf("%w: last slot %s before first slot %s", ErrInvalidCatalog, last, first)
	}

	c := &Catalog{
		serviceSet: make(map[string]struct{}, len(services)),
		hourSet:    make(map[types.TimeString]struct{}),
	}

	for _, s := range services {
		if s == "" {
			return nil, fmt.Errorf("%w: empty service name", ErrInvalidCatalog)
		}
		if _, dup := c.serviceSet[s]; dup {
			continue
		}
		c.serviceSet[s] = struct{}{}
		c.services = append(c.services, s)
	}

	for m := start; m <= end; m += stepMinutes {
		h, err := types.NewTimeStringFromMinutes(m)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
		}
		c.hours = append(c.hours, h)
		c.hourSet[h] = struct{}{}
	}

	return c, nil
}

// DefaultCatalog is the shop's standard offer: six services, 15:00 to 19:00 every 30 minutes
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultServices, DefaultFirstSlot, DefaultLastSlot, DefaultSlotStepMinutes)
	if err != nil {
		panic(err)
	}
	return c
}

// Services returns the service catalog in display order
func (c *Catalog) Services() []string {
	out := make([]string, len(c.services))
	copy(out, c.services)
	return out
}

// Hours returns the hour catalog in ascending order
func (c *Catalog) Hours() []types.TimeString {
	out := make([]types.TimeString, len(c.hours))
	copy(out, c.hours)
	return out
}

// HasService reports whether s is an offered service
func (c *Catalog) HasService(s string) bool {
	_, ok := c.serviceSet[s]
	return ok
}

// HasHour reports whether h is a bookable hour
func (c *Catalog) HasHour(h types.TimeString) bool {
	_, ok := c.hourSet[h]
	return ok
}
