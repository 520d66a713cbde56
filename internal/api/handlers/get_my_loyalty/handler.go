package get_my_loyalty

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBooking/internal/api/middleware"
	"github.com/m04kA/SMC-BarberBooking/internal/service/loyalty"
)

const (
	msgMissingUser = "требуется авторизация"
	msgNoEmail     = "в токене нет e-mail"
)

type Handler struct {
	service LoyaltyService
	logger  Logger
}

func NewHandler(service LoyaltyService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/me/loyalty
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetAuthUser(r.Context())
	if !ok {
		h.logger.Warn("GET /me/loyalty - Missing user")
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	result, err := h.service.GetMyLoyalty(r.Context(), user)
	if err != nil {
		if errors.Is(err, loyalty.ErrInvalidInput) {
			h.logger.Warn("GET /me/loyalty - Invalid caller: user_id=%s, error=%v", user.ID, err)
			handlers.RespondBadRequest(w, msgNoEmail)
			return
		}
		h.logger.Error("GET /me/loyalty - Failed to get loyalty: user_id=%s, error=%v", user.ID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /me/loyalty - Loyalty retrieved: user_id=%s, completed=%d, tier=%s",
		user.ID, result.CompletedCount, result.Tier.Label)
	handlers.RespondJSON(w, http.StatusOK, result)
}
