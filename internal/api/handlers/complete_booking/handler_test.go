package complete_booking

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/internal/api/middleware"
	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-BarberBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-BarberBooking/internal/service/bookings"
	"github.com/m04kA/SMC-BarberBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-BarberBooking/internal/service/notifications"
	"github.com/m04kA/SMC-BarberBooking/internal/service/slots"
	"github.com/m04kA/SMC-BarberBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-BarberBooking/pkg/logger"
	"github.com/m04kA/SMC-BarberBooking/pkg/txmanager"
)

func newRouter(t *testing.T, store *memory.Store) *mux.Router {
	t.Helper()
	log := logger.NewNop()
	registry := slots.NewRegistry(store, nil, domain.DefaultCatalog(), nil, nil, log)
	notifier := notifications.NewService(nil, nil, "Barbería", 0, nil, log)
	svc := bookings.NewService(store, memory.NewTxManager(store), registry, notifier, bookings.CancelPolicy{}, nil, log)

	r := mux.NewRouter()
	r.HandleFunc("/api/v1/bookings/{bookingId}/complete", NewHandler(svc, log).Handle).Methods(http.MethodPatch)
	return r
}

func complete(r http.Handler, id string, user *domain.AuthUser) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/"+id+"/complete", nil)
	if user != nil {
		req = req.WithContext(middleware.WithAuthUser(req.Context(), user))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

var admin = &domain.AuthUser{ID: "u-adm", Email: "adm@barberia.cl", IsAdmin: true}

func TestHandler_CompleteIsIdempotent(t *testing.T) {
	store := memory.NewStore()
	store.Put(domain.Booking{
		ID:            "b-1",
		Date:          "2025-03-10",
		Hour:          "15:00",
		CustomerEmail: "ana@example.com",
		Status:        domain.StatusPending,
	})
	r := newRouter(t, store)

	for i := 0; i < 2; i++ {
		w := complete(r, "b-1", admin)
		require.Equal(t, http.StatusOK, w.Code)

		var resp models.BookingResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "completed", resp.Status)
	}
}

func TestHandler_Rejections(t *testing.T) {
	store := memory.NewStore()
	store.Put(domain.Booking{ID: "b-1", Date: "2025-03-10", Hour: "15:00", CustomerEmail: "ana@example.com", Status: domain.StatusPending})
	r := newRouter(t, store)

	owner := &domain.AuthUser{ID: "u-ana", Email: "ana@example.com"}

	assert.Equal(t, http.StatusUnauthorized, complete(r, "b-1", nil).Code)
	assert.Equal(t, http.StatusForbidden, complete(r, "b-1", owner).Code)
	assert.Equal(t, http.StatusNotFound, complete(r, "missing", admin).Code)
}

// newPostgresRouter тот же обработчик поверх репозитория PostgreSQL (sqlmock)
func newPostgresRouter(t *testing.T) (*mux.Router, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := logger.NewNop()
	wrapped := dbmetrics.Wrap(db, nil, "test")
	repo := bookingRepo.NewRepository(wrapped)
	registry := slots.NewRegistry(repo, nil, domain.DefaultCatalog(), nil, nil, log)
	notifier := notifications.NewService(nil, nil, "Barbería", 0, nil, log)
	svc := bookings.NewService(repo, txmanager.NewTransactionManager(wrapped), registry, notifier, bookings.CancelPolicy{}, nil, log)

	r := mux.NewRouter()
	r.HandleFunc("/api/v1/bookings/{bookingId}/complete", NewHandler(svc, log).Handle).Methods(http.MethodPatch)
	return r, mock
}

func TestHandler_MalformedIDIsNotFound(t *testing.T) {
	r, mock := newPostgresRouter(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	w := complete(r, "abc", admin)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
