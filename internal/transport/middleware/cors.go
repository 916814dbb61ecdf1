package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows the configured browser origins to call the API with a bearer
// token. No origins means same-origin only.
func CORS(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", TraceHeader},
		ExposedHeaders:   []string{TraceHeader},
		AllowCredentials: false,
		MaxAge:           300,
	})
}
