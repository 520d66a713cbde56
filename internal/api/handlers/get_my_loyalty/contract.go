package get_my_loyalty

import (
	"context"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/service/loyalty/models"
)

type LoyaltyService interface {
	GetMyLoyalty(ctx context.Context, user *domain.AuthUser) (*models.LoyaltyResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
