package list_bookings

import (
	"net/url"

	"github.com/m04kA/SMC-BarberBooking/internal/service/bookings/models"
)

// ToServiceRequest формирует фильтр из query параметров; пустые параметры не фильтруют
func ToServiceRequest(query url.Values) *models.ListBookingsRequest {
	return &models.ListBookingsRequest{
		Status:   optional(query, "status"),
		Date:     optional(query, "date"),
		DateFrom: optional(query, "dateFrom"),
		DateTo:   optional(query, "dateTo"),
		Email:    optional(query, "email"),
	}
}

func optional(query url.Values, key string) *string {
	v := query.Get(key)
	if v == "" {
		return nil
	}
	return &v
}
