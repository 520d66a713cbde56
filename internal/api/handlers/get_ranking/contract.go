package get_ranking

import (
	"context"

	"github.com/m04kA/SMC-BarberBooking/internal/service/loyalty/models"
)

type LoyaltyService interface {
	GetRanking(ctx context.Context, limit int) (*models.RankingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
