package cancel_booking

import (
	"encoding/json"
	"errors"
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
	r.HandleFunc("/api/v1/bookings/{bookingId}", NewHandler(svc, log).Handle).Methods(http.MethodDelete)
	return r
}

func cancel(r http.Handler, id string, user *domain.AuthUser) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/bookings/"+id, nil)
	if user != nil {
		req = req.WithContext(middleware.WithAuthUser(req.Context(), user))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seed(store *memory.Store, id string, status domain.BookingStatus) {
	store.Put(domain.Booking{
		ID:            id,
		Date:          "2025-03-10",
		Hour:          domain.DefaultFirstSlot,
		CustomerName:  "Ana",
		CustomerEmail: "ana@example.com",
		Service:       "Corte clásico",
		Status:        status,
	})
}

var (
	owner    = &domain.AuthUser{ID: "u-ana", Email: "ana@example.com"}
	stranger = &domain.AuthUser{ID: "u-luis", Email: "luis@example.com"}
)

func TestHandler_OwnerCancels(t *testing.T) {
	store := memory.NewStore()
	seed(store, "b-1", domain.StatusPending)
	r := newRouter(t, store)

	w := cancel(r, "b-1", owner)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "b-1", resp.ID)
	assert.Zero(t, store.Len())

	// повторная отмена - записи уже нет
	assert.Equal(t, http.StatusNotFound, cancel(r, "b-1", owner).Code)
}

func TestHandler_Rejections(t *testing.T) {
	store := memory.NewStore()
	seed(store, "b-1", domain.StatusCompleted)
	r := newRouter(t, store)

	assert.Equal(t, http.StatusUnauthorized, cancel(r, "b-1", nil).Code)
	assert.Equal(t, http.StatusForbidden, cancel(r, "b-1", stranger).Code)
	assert.Equal(t, http.StatusConflict, cancel(r, "b-1", owner).Code)
	assert.Equal(t, 1, store.Len())
}

func TestHandler_StoreFailure(t *testing.T) {
	store := memory.NewStore()
	seed(store, "b-1", domain.StatusPending)
	r := newRouter(t, store)

	store.FailNext = errors.New("connection reset")
	assert.Equal(t, http.StatusInternalServerError, cancel(r, "b-1", owner).Code)
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
	r.HandleFunc("/api/v1/bookings/{bookingId}", NewHandler(svc, log).Handle).Methods(http.MethodDelete)
	return r, mock
}

func TestHandler_MalformedIDIsNotFound(t *testing.T) {
	r, mock := newPostgresRouter(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	w := cancel(r, "abc", owner)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
