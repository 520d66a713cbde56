package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-BarberBooking/pkg/logger"
	"github.com/m04kA/SMC-BarberBooking/pkg/metrics"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, method jwt.SigningMethod, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func validClaims() Claims {
	return Claims{
		Email: " Ana@Example.com ",
		Name:  "Ana Pérez",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u-ana",
			Issuer:    "auth.barberia",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

// captureUser обработчик, запоминающий пользователя из контекста
func captureUser(got **domain.AuthUser) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := GetAuthUser(r.Context())
		if ok {
			*got = user
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuth_ValidToken(t *testing.T) {
	store := memory.NewStore()
	store.PutProfile(domain.Profile{UserID: "u-ana", IsAdmin: true})
	auth := NewAuthenticator(testSecret, "auth.barberia", "", store, logger.NewNop())

	var user *domain.AuthUser
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, jwt.SigningMethodHS256, validClaims()))
	w := httptest.NewRecorder()

	auth.Auth(captureUser(&user)).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, user)
	assert.Equal(t, "u-ana", user.ID)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, "Ana Pérez", user.DisplayName)
	assert.True(t, user.IsAdmin)
}

func TestAuth_NoProfileIsNotAdmin(t *testing.T) {
	auth := NewAuthenticator(testSecret, "", "", memory.NewStore(), logger.NewNop())

	var user *domain.AuthUser
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, jwt.SigningMethodHS256, validClaims()))
	w := httptest.NewRecorder()

	auth.Auth(captureUser(&user)).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, user)
	assert.False(t, user.IsAdmin)
}

func TestAuth_Rejects(t *testing.T) {
	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	noEmail := validClaims()
	noEmail.Email = ""

	wrongIssuer := validClaims()
	wrongIssuer.Issuer = "someone.else"

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "not bearer", header: "Basic dXNlcjpwYXNz"},
		{name: "garbage", header: "Bearer not-a-jwt"},
		{name: "wrong secret", header: "Bearer " + signToken(t, "other", jwt.SigningMethodHS256, validClaims())},
		{name: "wrong algorithm", header: "Bearer " + signToken(t, testSecret, jwt.SigningMethodHS512, validClaims())},
		{name: "expired", header: "Bearer " + signToken(t, testSecret, jwt.SigningMethodHS256, expired)},
		{name: "no email", header: "Bearer " + signToken(t, testSecret, jwt.SigningMethodHS256, noEmail)},
		{name: "wrong issuer", header: "Bearer " + signToken(t, testSecret, jwt.SigningMethodHS256, wrongIssuer)},
	}

	auth := NewAuthenticator(testSecret, "auth.barberia", "", nil, logger.NewNop())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			auth.Auth(next).ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.False(t, called)
		})
	}
}

func TestAuth_ProfileStoreFailure(t *testing.T) {
	store := memory.NewStore()
	store.FailNext = errors.New("db down")
	auth := NewAuthenticator(testSecret, "", "", store, logger.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, jwt.SigningMethodHS256, validClaims()))
	w := httptest.NewRecorder()

	auth.Auth(http.NotFoundHandler()).ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	tests := []struct {
		name string
		user *domain.AuthUser
		want int
	}{
		{name: "anonymous", user: nil, want: http.StatusUnauthorized},
		{name: "customer", user: &domain.AuthUser{ID: "u", Email: "a@b.cl"}, want: http.StatusForbidden},
		{name: "admin", user: &domain.AuthUser{ID: "adm", Email: "adm@b.cl", IsAdmin: true}, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.user != nil {
				req = req.WithContext(WithAuthUser(req.Context(), tt.user))
			}
			w := httptest.NewRecorder()

			RequireAdmin(ok).ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) { seen = GetRequestID(r.Context()) })

	w := httptest.NewRecorder()
	RequestID(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	RequestID(next).ServeHTTP(w, req)
	assert.Equal(t, "abc-123", seen)
}

func TestRecover(t *testing.T) {
	panicky := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })

	w := httptest.NewRecorder()
	Recover(logger.NewNop())(panicky).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	m := metrics.New("test")

	r := mux.NewRouter()
	r.Use(MetricsMiddleware(m, "barber"))
	r.HandleFunc("/api/v1/bookings/{bookingId}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	for _, id := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/bookings/"+id, nil))
	}

	got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("barber", http.MethodGet, "/api/v1/bookings/{bookingId}", "404"))
	assert.Equal(t, float64(3), got)
}
