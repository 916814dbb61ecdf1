package auth

import (
	"context"
	"net/http"

	"github.com/frahmantamala/sakti/internal"
	"github.com/frahmantamala/sakti/internal/transport"
	"github.com/frahmantamala/sakti/pkg/logger"
)

type claimsKey struct{}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, internal.ErrInvalidCredentials)
		return
	}

	result, err := h.Service.Login(r.Context(), dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, result)
}

// Logout handles POST /auth/logout. It sits behind AuthMiddleware.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, _ := r.Context().Value(claimsKey{}).(*Claims)
	if err := h.Service.Logout(r.Context(), claims); err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// Profile handles GET /auth/profile.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	u, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, internal.ErrInvalidToken)
		return
	}
	h.WriteSuccess(w, http.StatusOK, u)
}

// AuthMiddleware requires a valid, unrevoked bearer token and puts the token
// subject on the request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteAppError(w, internal.NewUnauthorizedError("missing authorization token", internal.ErrCodeInvalidToken))
			return
		}

		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			h.WriteAppError(w, err)
			return
		}

		u, err := h.Service.Profile(r.Context(), claims.UserID)
		if err != nil {
			h.WriteAppError(w, err)
			return
		}

		ctx := internal.ContextWithUser(r.Context(), u)
		ctx = internal.ContextWithTokenID(ctx, claims.ID)
		ctx = context.WithValue(ctx, claimsKey{}, claims)
		ctx = logger.With(ctx, "userID", u.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
