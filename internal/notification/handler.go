package notification

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/sakti/internal"
	"github.com/frahmantamala/sakti/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// List handles GET /notifications for the caller.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == "" {
		h.WriteAppError(w, internal.ErrInvalidToken)
		return
	}

	items, err := h.Service.List(r.Context(), userID, ListQueryFromURL(r.URL.Query()))
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, items)
}

// MarkRead handles PUT /notifications/{id}/read.
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == "" {
		h.WriteAppError(w, internal.ErrInvalidToken)
		return
	}

	n, err := h.Service.MarkRead(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, n)
}
