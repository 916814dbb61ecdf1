package approval

import (
	"net/http"
	"strconv"

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

// approvalID reads {id}; anything that is not a number cannot name an approval.
func approvalID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, internal.ErrApprovalNotFound
	}
	return id, nil
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context(), ListQueryFromURL(r.URL.Query()))
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, items)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := approvalID(r)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	a, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, a)
}

// Approve handles POST /approvals/{id}/approve.
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, internal.ErrInvalidToken)
		return
	}
	id, err := approvalID(r)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	a, err := h.Service.Approve(r.Context(), actor, id)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, a)
}

// Reject handles POST /approvals/{id}/reject with body {"reason": "..."}.
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, internal.ErrInvalidToken)
		return
	}
	id, err := approvalID(r)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	var dto RejectDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, err)
		return
	}

	a, err := h.Service.Reject(r.Context(), actor, id, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, a)
}
