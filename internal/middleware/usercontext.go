package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ActiveUserCookie names the cookie that remembers the selected profile.
const ActiveUserCookie = "active_user"

type contextKey string

const userIDKey contextKey = "user_id"

// UserIDFromContext returns the active user set by UserContext, or false
// when no profile is selected.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	userID, ok := ctx.Value(userIDKey).(uint)
	return userID, ok
}

// WithUserID is used by tests to inject an active user.
func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserContext resolves the signed active-user cookie into the request
// context. Requests without a valid cookie pass through with no user
// set; handlers that need one respond 401 themselves.
func UserContext(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(ActiveUserCookie)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			userID, err := ParseUserToken(cookie.Value, secret)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// NewUserToken signs a token naming the active user.
func NewUserToken(userID uint, secret string) (string, error) {
	claims := jwt.MapClaims{
		"uid": float64(userID),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseUserToken validates a token and extracts the user ID.
func ParseUserToken(raw, secret string) (uint, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return 0, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, jwt.ErrTokenInvalidClaims
	}
	uid, ok := claims["uid"].(float64)
	if !ok || uid <= 0 {
		return 0, jwt.ErrTokenInvalidClaims
	}
	return uint(uid), nil
}

// SetActiveUserCookie issues the cookie for the selected profile.
func SetActiveUserCookie(w http.ResponseWriter, userID uint, secret string) error {
	token, err := NewUserToken(userID, secret)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     ActiveUserCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
	})
	return nil
}

// ClearActiveUserCookie removes the profile cookie.
func ClearActiveUserCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     ActiveUserCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
