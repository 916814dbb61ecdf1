package middleware

import (
	"net/http"

	"github.com/frahmantamala/sakti/internal"
	"github.com/frahmantamala/sakti/internal/authz"
	"github.com/frahmantamala/sakti/internal/transport"
	"github.com/frahmantamala/sakti/pkg/logger"
)

// RequireAction lets the request through only when the authenticated user's
// role may perform act on obj. It must run after the auth middleware.
func RequireAction(base *transport.BaseHandler, checker authz.Checker, obj, act string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := internal.UserFromContext(r.Context())
			if !ok {
				base.WriteAppError(w, internal.ErrInvalidToken)
				return
			}

			if !checker.Can(u.Role, obj, act) {
				logger.From(r.Context()).Warn("access denied",
					"user_id", u.ID,
					"role", u.Role,
					"object", obj,
					"action", act)
				base.WriteAppError(w, internal.ErrForbiddenRole)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
