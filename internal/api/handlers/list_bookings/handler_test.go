package list_bookings

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/internal/api/middleware"
	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-BarberBooking/internal/service/bookings"
	"github.com/m04kA/SMC-BarberBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-BarberBooking/pkg/logger"
)

func newHandler(store *memory.Store) *Handler {
	log := logger.NewNop()
	svc := bookings.NewService(store, memory.NewTxManager(store), nil, nil, bookings.CancelPolicy{}, nil, log)
	return NewHandler(svc, log)
}

func list(h *Handler, query string, user *domain.AuthUser) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/bookings"+query, nil)
	if user != nil {
		req = req.WithContext(middleware.WithAuthUser(req.Context(), user))
	}
	w := httptest.NewRecorder()
	h.Handle(w, req)
	return w
}

var admin = &domain.AuthUser{ID: "u-adm", Email: "adm@barberia.cl", IsAdmin: true}

func TestHandler_Filters(t *testing.T) {
	store := memory.NewStore()
	store.Put(domain.Booking{ID: "a", Date: "2025-03-10", Hour: "16:00", CustomerEmail: "ana@example.com", Status: domain.StatusPending})
	store.Put(domain.Booking{ID: "b", Date: "2025-03-10", Hour: "15:00", CustomerEmail: "luis@example.com", Status: domain.StatusCompleted})
	store.Put(domain.Booking{ID: "c", Date: "2025-03-11", Hour: "15:00", CustomerEmail: "ana@example.com", Status: domain.StatusPending})
	h := newHandler(store)

	w := list(h, "?date=2025-03-10", admin)
	require.Equal(t, http.StatusOK, w.Code)
	var day []models.BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &day))
	require.Len(t, day, 2)
	assert.Equal(t, "b", day[0].ID)
	assert.Equal(t, "a", day[1].ID)

	w = list(h, "?status=pending&email=ANA@example.com", admin)
	require.Equal(t, http.StatusOK, w.Code)
	var pending []models.BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pending))
	assert.Len(t, pending, 2)
}

func TestHandler_Rejections(t *testing.T) {
	h := newHandler(memory.NewStore())
	customer := &domain.AuthUser{ID: "u-ana", Email: "ana@example.com"}

	assert.Equal(t, http.StatusUnauthorized, list(h, "", nil).Code)
	assert.Equal(t, http.StatusForbidden, list(h, "", customer).Code)
	assert.Equal(t, http.StatusBadRequest, list(h, "?status=cancelled", admin).Code)
	assert.Equal(t, http.StatusBadRequest, list(h, "?date=10-03-2025", admin).Code)
}

func TestToServiceRequest_SkipsEmpty(t *testing.T) {
	req := ToServiceRequest(map[string][]string{"status": {""}, "date": {"2025-03-10"}})
	assert.Nil(t, req.Status)
	require.NotNil(t, req.Date)
	assert.Equal(t, "2025-03-10", *req.Date)
}
