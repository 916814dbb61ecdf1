package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/sakti/internal"
	"github.com/frahmantamala/sakti/internal/approval"
	"github.com/frahmantamala/sakti/internal/authz"
	"github.com/frahmantamala/sakti/internal/changerequest"
	"github.com/frahmantamala/sakti/internal/dashboard"
	"github.com/frahmantamala/sakti/pkg/logger"
)

// flashFor turns client facing errors into a message for the page; anything
// else is reported as a server error by the caller.
func flashFor(err error) (string, bool) {
	var appErr *internal.AppError
	if errors.As(err, &appErr) && appErr.StatusCode < http.StatusInternalServerError {
		return appErr.GetDetailedMessage(), true
	}
	return "", false
}

type dashboardPage struct {
	Cards []dashboard.Card
	Trend *dashboard.WeeklyTrend
	Flash string
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.deps.Dashboard.Summary(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	data := dashboardPage{Cards: summary.Cards()}
	data.Trend, err = h.deps.Dashboard.WeeklyTrend(r.Context(), r.URL.Query().Get("week_start"))
	if err != nil {
		msg, ok := flashFor(err)
		if !ok {
			h.serverError(w, r, err)
			return
		}
		data.Flash = msg
	}

	h.render(w, r, http.StatusOK, "dashboard.html", "Dashboard", data)
}

type listPage[T any] struct {
	Items  []T
	Search string
	Status string
	Type   string
	Flash  string
}

func (h *Handler) ChangeRequests(w http.ResponseWriter, r *http.Request) {
	q := changerequest.ListQueryFromURL(r.URL.Query())
	data := listPage[changerequest.ChangeRequest]{Search: q.Search, Status: q.Status, Type: q.Type}

	items, err := h.deps.ChangeRequests.List(r.Context(), q)
	if err != nil {
		msg, ok := flashFor(err)
		if !ok {
			h.serverError(w, r, err)
			return
		}
		data.Flash = msg
	}
	data.Items = items

	h.render(w, r, http.StatusOK, "change_requests.html", "Change Request", data)
}

type changeRequestPage struct {
	ID     string
	Detail *changerequest.Detail
}

func (h *Handler) ChangeRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	detail, err := h.deps.ChangeRequests.Get(r.Context(), id)
	switch {
	case errors.Is(err, internal.ErrChangeRequestNotFound):
		h.render(w, r, http.StatusNotFound, "change_request.html", "Change Request", changeRequestPage{ID: id})
		return
	case err != nil:
		h.serverError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "change_request.html", "Change Request "+id, changeRequestPage{ID: id, Detail: detail})
}

func (h *Handler) Approvals(w http.ResponseWriter, r *http.Request) {
	q := approval.ListQueryFromURL(r.URL.Query())
	data := listPage[approval.Approval]{Search: q.Search, Status: q.Status, Type: q.Type}

	items, err := h.deps.Approvals.List(r.Context(), q)
	if err != nil {
		msg, ok := flashFor(err)
		if !ok {
			h.serverError(w, r, err)
			return
		}
		data.Flash = msg
	}
	data.Items = items

	h.render(w, r, http.StatusOK, "approvals.html", "Approval", data)
}

type approvalPage struct {
	Approval  *approval.Approval
	CanDecide bool
	Flash     string
}

func approvalID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

func (h *Handler) Approval(w http.ResponseWriter, r *http.Request) {
	h.showApproval(w, r, http.StatusOK, r.URL.Query().Get("flash"))
}

func (h *Handler) showApproval(w http.ResponseWriter, r *http.Request, status int, flash string) {
	id, ok := approvalID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	a, err := h.deps.Approvals.Get(r.Context(), id)
	switch {
	case errors.Is(err, internal.ErrApprovalNotFound):
		h.NotFound(w, r)
		return
	case err != nil:
		h.serverError(w, r, err)
		return
	}

	u := currentUser(r)
	h.render(w, r, status, "approval.html", "Approval "+a.CRID, approvalPage{
		Approval:  a,
		CanDecide: a.Pending() && h.deps.Checker.Can(u.Role, authz.ObjApproval, authz.ActDecide),
		Flash:     flash,
	})
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, func(id int64) error {
		_, err := h.deps.Approvals.Approve(r.Context(), currentUser(r), id)
		return err
	})
}

func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, func(id int64) error {
		dto := approval.RejectDTO{Reason: r.PostFormValue("reason")}
		_, err := h.deps.Approvals.Reject(r.Context(), currentUser(r), id, dto)
		return err
	})
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, apply func(id int64) error) {
	u := currentUser(r)
	if !h.deps.Checker.Can(u.Role, authz.ObjApproval, authz.ActDecide) {
		h.render(w, r, http.StatusForbidden, "forbidden.html", "Akses Ditolak", nil)
		return
	}

	id, ok := approvalID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	if err := apply(id); err != nil {
		if errors.Is(err, internal.ErrApprovalNotFound) {
			h.NotFound(w, r)
			return
		}
		msg, ok := flashFor(err)
		if !ok {
			h.serverError(w, r, err)
			return
		}
		var appErr *internal.AppError
		errors.As(err, &appErr)
		h.showApproval(w, r, appErr.StatusCode, msg)
		return
	}

	http.Redirect(w, r, "/approval/"+chi.URLParam(r, "id"), http.StatusSeeOther)
}

func (h *Handler) Placeholder(title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.render(w, r, http.StatusOK, "placeholder.html", title, nil)
	}
}

// MarkNotificationRead marks one notification read and follows its link.
// A failure is logged and the user still lands on the link.
func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	id := chi.URLParam(r, "id")

	target := "/"
	n, err := h.deps.Notifications.MarkRead(r.Context(), u.ID, id)
	if err != nil {
		logger.From(r.Context()).Debug("mark notification read failed", "id", id, "error", err)
	} else if n.Link != "" {
		target = n.Link
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
