package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	// CartCookieName holds the cart id for browser clients
	CartCookieName = "cart_id"
	// CartHeader lets non-browser clients pass the cart id explicitly
	CartHeader = "X-Cart-ID"
)

type cartIDKey struct{}

// CartSession resolves the cart id for the request from the X-Cart-ID header
// or the cart_id cookie. Missing or malformed ids are replaced by a fresh
// UUID, which is returned in both the cookie and the header.
func CartSession(ttl time.Duration) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cartID := requestCartID(r)
			if cartID == "" {
				cartID = uuid.NewString()
			}

			cookie := &http.Cookie{
				Name:     CartCookieName,
				Value:    cartID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				Secure:   r.TLS != nil,
			}
			if ttl > 0 {
				cookie.MaxAge = int(ttl / time.Second)
				cookie.Expires = time.Now().Add(ttl)
			}
			http.SetCookie(w, cookie)
			w.Header().Set(CartHeader, cartID)

			next.ServeHTTP(w, r.WithContext(WithCartID(r.Context(), cartID)))
		})
	}
}

// CartIDFromContext returns the cart id set by CartSession, or ""
func CartIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(cartIDKey{}).(string)
	return id
}

// WithCartID stores cartID in ctx the way CartSession does
func WithCartID(ctx context.Context, cartID string) context.Context {
	return context.WithValue(ctx, cartIDKey{}, cartID)
}

func requestCartID(r *http.Request) string {
	if id := validCartID(r.Header.Get(CartHeader)); id != "" {
		return id
	}
	if c, err := r.Cookie(CartCookieName); err == nil {
		return validCartID(c.Value)
	}
	return ""
}

func validCartID(raw string) string {
	if raw == "" {
		return ""
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return ""
	}
	return id.String()
}
