package middleware

import (
	"context"
	"net/http"

	"CardForge/internal/auth"
)

type ctxKey struct{}

// WithAuth puts the user of a valid auth cookie into the request context.
// Requests without a valid cookie pass through anonymously.
func WithAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(auth.CookieName)
			if err == nil && c.Value != "" {
				if u, err := auth.ParseToken(c.Value, secret); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), ctxKey{}, u))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireUser отвечает 401, если WithAuth не нашёл пользователя.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUserFromContext(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUserFromContext returns the user set by WithAuth.
func GetUserFromContext(ctx context.Context) (*auth.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(*auth.User)
	return u, ok && u != nil
}

// SetLoginCookie выпускает токен для u и ставит его в auth-cookie.
func SetLoginCookie(w http.ResponseWriter, u auth.User, secret string) error {
	token, err := auth.IssueToken(u, secret, auth.TokenTTL)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(auth.TokenTTL.Seconds()),
	})
	return nil
}

// ClearLoginCookie expires the auth cookie.
func ClearLoginCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
