package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBooking/internal/service/slots"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

const (
	msgInvalidDate = "некорректный формат даты, ожидается YYYY-MM-DD"
)

type Handler struct {
	registry SlotRegistry
	logger   Logger
}

func NewHandler(registry SlotRegistry, logger Logger) *Handler {
	return &Handler{
		registry: registry,
		logger:   logger,
	}
}

// Handle GET /api/v1/slots
// Query params: date (YYYY-MM-DD, по умолчанию сегодня в часовом поясе барбершопа)
// Публичный endpoint - без авторизации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	date := types.DateString(r.URL.Query().Get("date"))
	if date == "" {
		date = h.registry.Today()
	}

	result, err := h.registry.ListOpenHours(r.Context(), date)
	if err != nil {
		if errors.Is(err, slots.ErrInvalidDate) {
			h.logger.Warn("GET /slots - Invalid date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		h.logger.Error("GET /slots - Failed to list open hours: date=%s, error=%v", date, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /slots - Open hours retrieved: date=%s, open=%d", date, len(result.OpenHours))
	handlers.RespondJSON(w, http.StatusOK, result)
}
