package create_booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBooking/internal/api/middleware"
	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	createBooking "github.com/m04kA/SMC-BarberBooking/internal/usecase/create_booking"
	"github.com/m04kA/SMC-BarberBooking/pkg/logger"
)

type fakeUseCase struct {
	got  *createBooking.Request
	resp *createBooking.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	f.got = req
	return f.resp, f.err
}

var ana = &domain.AuthUser{ID: "u-ana", Email: "ana@example.com", DisplayName: "Ana"}

func doRequest(h *Handler, user *domain.AuthUser, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	if user != nil {
		req = req.WithContext(middleware.WithAuthUser(req.Context(), user))
	}
	w := httptest.NewRecorder()
	h.Handle(w, req)
	return w
}

func TestHandler_Created(t *testing.T) {
	count := 3
	uc := &fakeUseCase{resp: &createBooking.Response{
		ID:            "b-1",
		Date:          "2025-03-10",
		Hour:          "15:00",
		CustomerName:  "Ana",
		CustomerEmail: "ana@example.com",
		Service:       "Corte clásico",
		Status:        "pending",
		ServiceCount:  &count,
		SchemaVersion: 1,
		CreatedAt:     time.Date(2025, 3, 9, 15, 0, 0, 0, time.UTC),
	}}
	h := NewHandler(uc, logger.NewNop())

	w := doRequest(h, ana, `{"date":"2025-03-10","hour":"15:00","customerPhone":"+56 9 1234 5678","service":"Corte clásico"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Same(t, ana, uc.got.Actor)
	assert.Equal(t, "15:00", uc.got.Hour)

	var resp BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "b-1", resp.ID)
	require.NotNil(t, resp.ServiceCount)
	assert.Equal(t, 3, *resp.ServiceCount)
	assert.Equal(t, "2025-03-09T15:00:00Z", resp.CreatedAt)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name     string
		user     *domain.AuthUser
		body     string
		err      error
		wantCode int
	}{
		{name: "no user", user: nil, body: `{}`, wantCode: http.StatusUnauthorized},
		{name: "bad json", user: ana, body: `{"date":`, wantCode: http.StatusBadRequest},
		{name: "unknown field", user: ana, body: `{"status":"completed"}`, wantCode: http.StatusBadRequest},
		{
			name:     "validation",
			user:     ana,
			body:     `{}`,
			err:      &createBooking.ValidationError{Fields: map[string]string{"hour": "not an offered hour"}},
			wantCode: http.StatusBadRequest,
		},
		{name: "slot taken", user: ana, body: `{}`, err: createBooking.ErrSlotTaken, wantCode: http.StatusConflict},
		{name: "internal", user: ana, body: `{}`, err: errors.New("boom"), wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeUseCase{err: tt.err}, logger.NewNop())
			w := doRequest(h, tt.user, tt.body)
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestHandler_ValidationFields(t *testing.T) {
	uc := &fakeUseCase{err: &createBooking.ValidationError{Fields: map[string]string{
		"hour":    "not an offered hour",
		"service": "unknown service",
	}}}
	h := NewHandler(uc, logger.NewNop())

	w := doRequest(h, ana, `{"hour":"14:00","service":"Tatuaje"}`)

	var resp handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "not an offered hour", resp.Fields["hour"])
	assert.Equal(t, "unknown service", resp.Fields["service"])
}
