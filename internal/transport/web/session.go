package web

import (
	"context"
	"net/http"
	"strings"

	"github.com/frahmantamala/sakti/internal"
	"github.com/frahmantamala/sakti/internal/auth"
	"github.com/frahmantamala/sakti/internal/core/user"
	"github.com/frahmantamala/sakti/internal/session"
	"github.com/frahmantamala/sakti/pkg/logger"
)

type claimsKey struct{}

func (h *Handler) store(w http.ResponseWriter, r *http.Request) *session.Store {
	return session.NewStore(h.deps.Cookies.Storage(w, r))
}

// RequireSession sends visitors without a usable session to /login. A cookie
// whose token no longer validates is cleared on the way.
func (h *Handler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store := h.store(w, r)
		if !store.IsAuthenticated() {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		claims, err := h.deps.Auth.ValidateAccessToken(store.GetToken())
		if err != nil {
			logger.From(r.Context()).Debug("dropping web session", "error", err)
			_ = store.Logout()
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		u := store.GetUser()
		ctx := internal.ContextWithUser(r.Context(), u)
		ctx = internal.ContextWithTokenID(ctx, claims.ID)
		ctx = context.WithValue(ctx, claimsKey{}, claims)
		ctx = logger.With(ctx, "userID", u.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireView renders the forbidden page for routes outside the user's menu.
func (h *Handler) RequireView(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, _ := internal.UserFromContext(r.Context())
		path := strings.TrimSuffix(r.URL.Path, "/approve")
		path = strings.TrimSuffix(path, "/reject")
		if !h.deps.Checker.CanView(u.Role, path) {
			h.render(w, r, http.StatusForbidden, "forbidden.html", "Akses Ditolak", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func currentUser(r *http.Request) *user.User {
	u, _ := internal.UserFromContext(r.Context())
	return u
}

type loginPage struct {
	Username string
	Flash    string
}

func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if h.store(w, r).IsAuthenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.renderBare(w, http.StatusOK, "login.html", loginPage{})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderBare(w, http.StatusBadRequest, "login.html", loginPage{Flash: "Login failed. Please check your credentials."})
		return
	}

	dto := auth.LoginDTO{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}
	result, err := h.deps.Auth.Login(r.Context(), dto)
	if err != nil {
		logger.From(r.Context()).Info("web login failed", "username", dto.Username, "error", err)
		h.renderBare(w, http.StatusUnauthorized, "login.html", loginPage{
			Username: dto.Username,
			Flash:    "Login failed. Please check your credentials.",
		})
		return
	}

	if err := h.store(w, r).Save(session.Session{Token: result.Token, User: result.User}); err != nil {
		h.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout revokes the token and wipes the cookie even when revocation fails.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, _ := r.Context().Value(claimsKey{}).(*auth.Claims)
	if err := h.deps.Auth.Logout(r.Context(), claims); err != nil {
		logger.From(r.Context()).Warn("token revocation failed", "error", err)
	}
	_ = h.store(w, r).Logout()
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
