package models

import "github.com/m04kA/SMC-BarberBooking/internal/domain"

// HourResponse один час каталога
type HourResponse struct {
	Hour      string `json:"hour"`
	Available bool   `json:"available"`
}

// AvailabilityResponse доступность часов на дату
type AvailabilityResponse struct {
	Date      string         `json:"date"`
	OpenHours []string       `json:"openHours"`
	Occupied  []string       `json:"occupiedHours"`
	Hours     []HourResponse `json:"hours"`
}

// FromDomainDayAvailability конвертирует domain модель в DTO
func FromDomainDayAvailability(d *domain.DayAvailability) *AvailabilityResponse {
	resp := &AvailabilityResponse{
		Date:      d.Date.String(),
		OpenHours: make([]string, 0, len(d.Hours)),
		Occupied:  make([]string, 0, len(d.Occupied)),
		Hours:     make([]HourResponse, 0, len(d.Hours)),
	}

	for _, h := range d.Hours {
		resp.Hours = append(resp.Hours, HourResponse{Hour: h.Hour.String(), Available: h.Available})
	}
	for _, h := range d.OpenHours() {
		resp.OpenHours = append(resp.OpenHours, h.String())
	}
	for _, h := range d.Occupied {
		resp.Occupied = append(resp.Occupied, h.String())
	}

	return resp
}
