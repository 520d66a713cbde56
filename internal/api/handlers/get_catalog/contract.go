package get_catalog

import (
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

type CatalogProvider interface {
	Catalog() *domain.Catalog
	Location() *time.Location
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
