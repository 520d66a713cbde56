package get_user_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBooking/internal/api/middleware"
	"github.com/m04kA/SMC-BarberBooking/internal/service/bookings"
)

const (
	msgMissingUser = "требуется авторизация"
	msgNoEmail     = "в токене нет e-mail"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/me/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetAuthUser(r.Context())
	if !ok {
		h.logger.Warn("GET /me/bookings - Missing user")
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	// Получаем бронирования пользователя по e-mail
	result, err := h.service.GetMyBookings(r.Context(), user)
	if err != nil {
		if errors.Is(err, bookings.ErrInvalidInput) {
			h.logger.Warn("GET /me/bookings - Invalid caller: user_id=%s, error=%v", user.ID, err)
			handlers.RespondBadRequest(w, msgNoEmail)
			return
		}
		h.logger.Error("GET /me/bookings - Failed to get bookings: user_id=%s, error=%v", user.ID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /me/bookings - Bookings retrieved successfully: user_id=%s, count=%d",
		user.ID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result.Bookings)
}
