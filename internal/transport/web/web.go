// Package web serves the server rendered SAKTI dashboard. It shares the
// domain services with the JSON API and keeps its session in a signed cookie.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/url"
	"time"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/sakti/internal/approval"
	"github.com/frahmantamala/sakti/internal/auth"
	"github.com/frahmantamala/sakti/internal/authz"
	"github.com/frahmantamala/sakti/internal/changerequest"
	"github.com/frahmantamala/sakti/internal/dashboard"
	"github.com/frahmantamala/sakti/internal/navigation"
	"github.com/frahmantamala/sakti/internal/notification"
	"github.com/frahmantamala/sakti/internal/role"
	"github.com/frahmantamala/sakti/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// ViewChecker is the part of the policy enforcer the pages need.
type ViewChecker interface {
	authz.Checker
	CanView(r role.Role, path string) bool
}

type Deps struct {
	Auth           auth.ServiceAPI
	ChangeRequests changerequest.ServiceAPI
	Approvals      approval.ServiceAPI
	Notifications  notification.ServiceAPI
	Dashboard      dashboard.ServiceAPI
	Checker        ViewChecker
	Cookies        *session.CookieCodec
	Logger         *slog.Logger
}

type Handler struct {
	deps  Deps
	pages map[string]*template.Template
}

var pageFiles = []string{
	"dashboard.html",
	"change_requests.html",
	"change_request.html",
	"approvals.html",
	"approval.html",
	"placeholder.html",
	"forbidden.html",
}

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Format("02 Jan 2006")
	},
	"datePtr": func(t *time.Time) string {
		if t == nil {
			return "-"
		}
		return t.Format("02 Jan 2006 15:04")
	},
	"expandHref": func(path, group string, expanded bool) string {
		if expanded {
			return path
		}
		return path + "?" + url.Values{"expand": {group}}.Encode()
	},
	"crStatuses":       func() []changerequest.Status { return changerequest.Statuses },
	"crTypes":          func() []changerequest.Type { return changerequest.Types },
	"approvalStatuses": func() []approval.Status { return approval.Statuses },
	"approvalTypes":    func() []approval.Type { return approval.Types },
}

func NewHandler(deps Deps) (*Handler, error) {
	h := &Handler{deps: deps, pages: map[string]*template.Template{}}

	for _, name := range pageFiles {
		tpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		h.pages[name] = tpl
	}

	// rendered without the signed-in chrome
	for _, name := range []string{"login.html", "not_found.html"} {
		tpl, err := template.New(name).ParseFS(templateFS, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		h.pages[name] = tpl
	}

	return h, nil
}

type placeholder struct {
	Path  string
	Title string
}

var placeholders = []placeholder{
	{navigation.PathChangeSched, "Change Schedule"},
	{navigation.PathChangeResults, "Change Results"},
	{navigation.PathPatchJob, "Patch Job"},
	{navigation.PathPatchSched, "Patch Schedule"},
	{navigation.PathPatchResults, "Patch Results"},
	{navigation.PathEmergency, "Emergency"},
	{navigation.PathCMDB, "CMDB"},
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/login", h.LoginForm)
	r.Post("/login", h.Login)

	r.Group(func(pr chi.Router) {
		pr.Use(h.RequireSession)

		pr.Post("/logout", h.Logout)
		pr.Post("/notifications/{id}/read", h.MarkNotificationRead)

		pr.Group(func(vr chi.Router) {
			vr.Use(h.RequireView)

			vr.Get("/", h.Dashboard)
			vr.Get("/change-request", h.ChangeRequests)
			vr.Get("/change-request/{id}", h.ChangeRequest)
			vr.Get("/approval", h.Approvals)
			vr.Get("/approval/{id}", h.Approval)
			vr.Post("/approval/{id}/approve", h.Approve)
			vr.Post("/approval/{id}/reject", h.Reject)

			for _, p := range placeholders {
				vr.Get(p.Path, h.Placeholder(p.Title))
			}
		})
	})

	r.NotFound(h.NotFound)
}
