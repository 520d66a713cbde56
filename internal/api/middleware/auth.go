package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	profileRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/profile"
)

const (
	msgMissingToken  = "требуется авторизация"
	msgInvalidToken  = "недействительный токен"
	msgAdminRequired = "доступно только администратору"
)

var (
	// ErrMissingToken заголовок Authorization отсутствует или не Bearer
	ErrMissingToken = errors.New("auth: missing bearer token")

	// ErrInvalidToken подпись, срок действия или claims не прошли проверку
	ErrInvalidToken = errors.New("auth: invalid token")
)

type authUserKey struct{}

// Claims claims токена провайдера аутентификации
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Authenticator проверяет HS256 токены и определяет права администратора по профилю
type Authenticator struct {
	secret   []byte
	issuer   string
	audience string
	profiles ProfileRepository
	logger   Logger
}

// NewAuthenticator создает проверку токенов. issuer и audience проверяются, если заданы.
// profiles может быть nil: тогда администраторов нет.
func NewAuthenticator(secret, issuer, audience string, profiles ProfileRepository, logger Logger) *Authenticator {
	return &Authenticator{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		profiles: profiles,
		logger:   logger,
	}
}

// Auth требует валидный Bearer токен и кладет domain.AuthUser в контекст запроса
func (a *Authenticator) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 1. Токен из заголовка
		token, err := bearerToken(r)
		if err != nil {
			a.logger.Warn("Auth: %s %s - %v", r.Method, r.URL.Path, err)
			handlers.RespondUnauthorized(w, msgMissingToken)
			return
		}

		// 2. Подпись и claims
		claims, err := a.ParseToken(token)
		if err != nil {
			a.logger.Warn("Auth: %s %s - %v", r.Method, r.URL.Path, err)
			handlers.RespondUnauthorized(w, msgInvalidToken)
			return
		}

		user := &domain.AuthUser{
			ID:          claims.Subject,
			Email:       domain.NormalizeEmail(claims.Email),
			DisplayName: strings.TrimSpace(claims.Name),
		}

		// 3. Флаг администратора из профиля
		isAdmin, err := a.isAdmin(r.Context(), user.ID)
		if err != nil {
			a.logger.Error("Auth: profile lookup failed for user=%s: %v", user.ID, err)
			handlers.RespondInternalError(w)
			return
		}
		user.IsAdmin = isAdmin

		next.ServeHTTP(w, r.WithContext(WithAuthUser(r.Context(), user)))
	})
}

// ParseToken проверяет подпись (только HS256), срок действия, issuer и audience
func (a *Authenticator) ParseToken(tokenStr string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}
	if a.audience != "" {
		opts = append(opts, jwt.WithAudience(a.audience))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || claims.Email == "" {
		return nil, fmt.Errorf("%w: sub and email claims are required", ErrInvalidToken)
	}

	return claims, nil
}

func (a *Authenticator) isAdmin(ctx context.Context, userID string) (bool, error) {
	if a.profiles == nil {
		return false, nil
	}
	profile, err := a.profiles.GetByUserID(ctx, userID)
	if errors.Is(err, profileRepo.ErrProfileNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return profile.IsAdmin, nil
}

// RequireAdmin пропускает только администраторов. Ставится после Auth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := GetAuthUser(r.Context())
		if !ok {
			handlers.RespondUnauthorized(w, msgMissingToken)
			return
		}
		if !user.IsAdmin {
			handlers.RespondForbidden(w, msgAdminRequired)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithAuthUser кладет пользователя в контекст
func WithAuthUser(ctx context.Context, user *domain.AuthUser) context.Context {
	return context.WithValue(ctx, authUserKey{}, user)
}

// GetAuthUser достает пользователя, положенного Auth
func GetAuthUser(ctx context.Context) (*domain.AuthUser, bool) {
	user, ok := ctx.Value(authUserKey{}).(*domain.AuthUser)
	return user, ok && user != nil
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrMissingToken
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}
