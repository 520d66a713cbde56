package get_catalog

import (
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

// CatalogResponse HTTP response model
type CatalogResponse struct {
	Services []string `json:"services"`
	Hours    []string `json:"hours"`
	Timezone string   `json:"timezone"`
}

// FromDomainCatalog конвертирует каталог в HTTP response
func FromDomainCatalog(c *domain.Catalog, loc *time.Location) *CatalogResponse {
	hours := c.Hours()
	resp := &CatalogResponse{
		Services: c.Services(),
		Hours:    make([]string, 0, len(hours)),
		Timezone: loc.String(),
	}
	for _, h := range hours {
		resp.Hours = append(resp.Hours, h.String())
	}
	return resp
}
