package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vegthaliclub/catering-backend/pkg/logger"
)

const (
	ClientCookieName = "catering_client"
	ClientIDHeader   = "X-Client-Id"
	clientCookieTTL  = 30 * 24 * time.Hour
	maxClientIDLen   = 64
)

// ClientID resolves the browsing client from the X-Client-Id header or the
// catering_client cookie. Unknown clients get a fresh identifier, returned
// both as a cookie and in the response header.
func ClientID(secureCookie bool, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(ClientIDHeader))
			if id == "" {
				if c, err := r.Cookie(ClientCookieName); err == nil {
					id = strings.TrimSpace(c.Value)
				}
			}
			if !validClientID(id) {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     ClientCookieName,
					Value:    id,
					Path:     "/",
					MaxAge:   int(clientCookieTTL.Seconds()),
					HttpOnly: true,
					Secure:   secureCookie,
					SameSite: http.SameSiteLaxMode,
				})
			}
			w.Header().Set(ClientIDHeader, id)

			ctx := WithClientID(r.Context(), id)
			if logg != nil {
				ctx = logg.WithClientID(ctx, id)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func validClientID(id string) bool {
	if id == "" || len(id) > maxClientIDLen {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
