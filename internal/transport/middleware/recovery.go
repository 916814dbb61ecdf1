package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/frahmantamala/sakti/internal"
	"github.com/frahmantamala/sakti/internal/transport"
)

// RecoveryMiddleware turns a panic into a 500 envelope. The panic value is
// logged, never echoed to the client.
func RecoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	base := transport.NewBaseHandler(logger)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					logger.Error("panic recovered",
						"error", err,
						"method", r.Method,
						"url", r.URL.String(),
						"stack", string(debug.Stack()))

					base.WriteError(w, http.StatusInternalServerError, internal.ErrCodeInternal, "Internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
