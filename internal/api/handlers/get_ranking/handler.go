package get_ranking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBooking/internal/service/loyalty"
)

const (
	msgInvalidLimit = "некорректный limit"
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

// Handle GET /api/v1/ranking
// Query params: limit (опционально, по умолчанию 50, максимум 200)
// Публичный endpoint - без авторизации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			h.logger.Warn("GET /ranking - Invalid limit: %v", err)
			handlers.RespondBadRequest(w, msgInvalidLimit)
			return
		}
		limit = parsed
	}

	result, err := h.service.GetRanking(r.Context(), limit)
	if err != nil {
		if errors.Is(err, loyalty.ErrInvalidInput) {
			h.logger.Warn("GET /ranking - Invalid limit: %v", err)
			handlers.RespondBadRequest(w, msgInvalidLimit)
			return
		}
		h.logger.Error("GET /ranking - Failed to get ranking: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /ranking - Ranking retrieved: entries=%d", len(result.Entries))
	handlers.RespondJSON(w, http.StatusOK, result)
}
