package dashboard

import (
	"net/http"

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

// Summary handles GET /dashboard/summary.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.Summary(r.Context())
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, summary)
}

// WeeklyTrend handles GET /dashboard/weekly-trend?week_start=YYYY-MM-DD.
func (h *Handler) WeeklyTrend(w http.ResponseWriter, r *http.Request) {
	trend, err := h.Service.WeeklyTrend(r.Context(), r.URL.Query().Get("week_start"))
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, trend)
}
