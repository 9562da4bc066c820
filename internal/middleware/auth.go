package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	authCookieName    = "session"
	defaultSessionTTL = 24 * time.Hour
)

// ErrUnauthorized — нет сессии или она принадлежит другому пользователю.
var ErrUnauthorized = errors.New("unauthorized")

type ctxKey struct{}

// Claims содержимое подписанной cookie сессии.
type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

type cookieOptions struct {
	ttl    time.Duration
	secure bool
}

// CookieOption настройка cookie сессии.
type CookieOption func(*cookieOptions)

// WithTTL срок жизни сессии.
func WithTTL(ttl time.Duration) CookieOption {
	return func(o *cookieOptions) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// WithSecure выставляет флаг Secure (сервер за HTTPS).
func WithSecure(secure bool) CookieOption {
	return func(o *cookieOptions) { o.secure = secure }
}

func buildOptions(opts []CookieOption) cookieOptions {
	o := cookieOptions{ttl: defaultSessionTTL}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// SetLoginCookie подписывает сессию пользователя и кладёт её в cookie.
func SetLoginCookie(w http.ResponseWriter, userID int64, secret string, opts ...CookieOption) error {
	o := buildOptions(opts)
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(o.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		Expires:  now.Add(o.ttl),
		HttpOnly: true,
		Secure:   o.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearLoginCookie завершает сессию. Повторный вызов не ошибка.
func ClearLoginCookie(w http.ResponseWriter, opts ...CookieOption) {
	o := buildOptions(opts)
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   o.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// WithAuth разбирает cookie сессии и кладёт user_id в контекст запроса.
// Нет cookie или подпись неверна — запрос идёт дальше анонимным.
func WithAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(authCookieName)
			if err != nil || c.Value == "" {
				next.ServeHTTP(w, r)
				return
			}
			userID, err := parseToken(c.Value, secret)
			if err != nil {
				if logger != nil {
					logger.Debugw("WithAuth: invalid session", "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func parseToken(value, secret string) (int64, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(value, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return 0, err
	}
	if claims.UserID <= 0 {
		return 0, errors.New("session without user id")
	}
	return claims.UserID, nil
}

// WithUserID кладёт id пользователя в контекст.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// GetUserIDFromContext возвращает id пользователя текущей сессии.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ctxKey{}).(int64)
	return id, ok
}

// RequireOwner проверяет, что ресурс принадлежит пользователю сессии.
// Вызывается до любого чтения данных ресурса.
func RequireOwner(r *http.Request, resourceUserID int64) error {
	id, ok := GetUserIDFromContext(r.Context())
	if !ok || id != resourceUserID {
		return ErrUnauthorized
	}
	return nil
}
