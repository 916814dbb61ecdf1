package web

import (
	"bytes"
	"context"
	"net/http"
	"net/url"

	"github.com/frahmantamala/sakti/internal/core/user"
	"github.com/frahmantamala/sakti/internal/header"
	"github.com/frahmantamala/sakti/internal/navigation"
	"github.com/frahmantamala/sakti/internal/notification"
	"github.com/frahmantamala/sakti/pkg/logger"
)

// view is what layout.html renders around every signed-in page.
type view struct {
	Title string
	Path  string
	User  *user.User
	Menu  []navigation.MenuEntry

	Panels            header.Panels
	Notifications     []notification.Notification
	Unread            int
	NotificationsHref string
	UserMenuHref      string
	LogoutHref        string
	CloseHref         string

	Data any
}

// feedSource serves the signed-in user's notifications to the header feed.
type feedSource struct {
	svc    notification.ServiceAPI
	userID string
}

func (s feedSource) Notifications(ctx context.Context) ([]notification.Notification, error) {
	return s.svc.List(ctx, s.userID, notification.ListQuery{})
}

func (s feedSource) MarkNotificationRead(ctx context.Context, id string) error {
	_, err := s.svc.MarkRead(ctx, s.userID, id)
	return err
}

func panelHref(path string, p header.Panels) string {
	if q := p.Query(); q != "" {
		return path + "?" + url.Values{"panel": {q}}.Encode()
	}
	return path
}

func (h *Handler) newView(r *http.Request, title string, data any) view {
	u := currentUser(r)
	path := r.URL.Path

	v := view{
		Title:     title,
		Path:      path,
		User:      u,
		Menu:      navigation.Highlight(navigation.MenuItemsByRole(u.Role), path, r.URL.Query().Get("expand")),
		Panels:    header.ParsePanels(r.URL.Query().Get("panel")),
		CloseHref: path,
		Data:      data,
	}

	feed := header.NewNotificationFeed(feedSource{svc: h.deps.Notifications, userID: u.ID}, logger.From(r.Context()))
	defer feed.Close()
	feed.Refresh(r.Context())
	v.Notifications = feed.Items()
	v.Unread = feed.UnreadCount()

	next := v.Panels
	next.ToggleNotifications()
	v.NotificationsHref = panelHref(path, next)

	next = v.Panels
	next.ToggleUserMenu()
	v.UserMenuHref = panelHref(path, next)

	next = v.Panels
	next.OpenLogoutConfirm()
	v.LogoutHref = panelHref(path, next)

	return v
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page, title string, data any) {
	v := h.newView(r, title, data)
	h.write(w, r, status, page, &v)
}

// renderBare renders a page without the signed-in chrome.
func (h *Handler) renderBare(w http.ResponseWriter, status int, page string, data any) {
	h.write(w, nil, status, page, data)
}

func (h *Handler) write(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	var buf bytes.Buffer
	if err := h.pages[page].Execute(&buf, data); err != nil {
		lg := h.deps.Logger
		if r != nil {
			lg = logger.From(r.Context())
		}
		lg.Error("template render failed", "page", page, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	logger.From(r.Context()).Error("web request failed", "path", r.URL.Path, "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (h *Handler) NotFound(w http.ResponseWriter, _ *http.Request) {
	h.renderBare(w, http.StatusNotFound, "not_found.html", nil)
}
