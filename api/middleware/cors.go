package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

var defaultCORSOrigins = []string{
	"http://localhost:3000",
	"https://vegthaliclub.com",
	"https://www.vegthaliclub.com",
}

// CORS applies the site's allowed-origin policy. An empty list falls back
// to the public site and local development origins.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = defaultCORSOrigins
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Idempotency-Key", "X-Client-Id", "X-Request-Id", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Client-Id", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
