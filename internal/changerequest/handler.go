package changerequest

import (
	"bytes"
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

// List handles GET /change-requests.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context(), ListQueryFromURL(r.URL.Query()))
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, items)
}

// Get handles GET /change-requests/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, detail)
}

// Create handles POST /change-requests.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, internal.ErrInvalidToken)
		return
	}

	var dto CreateDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, err)
		return
	}

	detail, err := h.Service.Create(r.Context(), actor, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.Logger.Info("change request created", "id", detail.ID, "user_id", actor.ID)
	h.WriteSuccess(w, http.StatusCreated, detail)
}

// Export handles GET /change-requests/export.xlsx.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.Service.Export(r.Context(), ListQueryFromURL(r.URL.Query()), &buf); err != nil {
		h.WriteAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="change-requests.xlsx"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.Logger.Error("failed to write export", "error", err)
	}
}
