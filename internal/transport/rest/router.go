package rest

import (
	"log/slog"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/sakti/internal/approval"
	"github.com/frahmantamala/sakti/internal/auth"
	"github.com/frahmantamala/sakti/internal/authz"
	"github.com/frahmantamala/sakti/internal/changerequest"
	"github.com/frahmantamala/sakti/internal/dashboard"
	"github.com/frahmantamala/sakti/internal/notification"
	"github.com/frahmantamala/sakti/internal/transport"
	"github.com/frahmantamala/sakti/internal/transport/middleware"
	"github.com/frahmantamala/sakti/internal/transport/swagger"
)

// Handlers groups everything mounted under /api/v1.
type Handlers struct {
	Health        *HealthHandler
	Auth          *auth.Handler
	ChangeRequest *changerequest.Handler
	Approval      *approval.Handler
	Notification  *notification.Handler
	Dashboard     *dashboard.Handler
}

func RegisterAllRoutes(router chi.Router, h Handlers, checker authz.Checker, origins []string, logger *slog.Logger) {
	base := transport.NewBaseHandler(logger)

	router.Get(swagger.SpecPath, swagger.SpecHandler)
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.CORS(origins))
		r.Use(middleware.LoggingMiddleware(logger))

		r.Get("/health", h.Health.Health)
		r.Get("/ping", h.Health.Ping)

		r.Post("/auth/login", h.Auth.Login)

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Post("/auth/logout", h.Auth.Logout)
			pr.Get("/auth/profile", h.Auth.Profile)

			pr.Route("/change-requests", func(cr chi.Router) {
				cr.Get("/", h.ChangeRequest.List)
				cr.Get("/export.xlsx", h.ChangeRequest.Export)
				cr.Get("/{id}", h.ChangeRequest.Get)
				cr.With(middleware.RequireAction(base, checker, authz.ObjChangeRequest, authz.ActCreate)).
					Post("/", h.ChangeRequest.Create)
			})

			pr.Route("/approvals", func(ar chi.Router) {
				ar.Get("/", h.Approval.List)
				ar.Get("/{id}", h.Approval.Get)
				ar.Group(func(dr chi.Router) {
					dr.Use(middleware.RequireAction(base, checker, authz.ObjApproval, authz.ActDecide))
					dr.Post("/{id}/approve", h.Approval.Approve)
					dr.Post("/{id}/reject", h.Approval.Reject)
				})
			})

			pr.Get("/notifications", h.Notification.List)
			pr.Put("/notifications/{id}/read", h.Notification.MarkRead)

			pr.Get("/dashboard/summary", h.Dashboard.Summary)
			pr.Get("/dashboard/weekly-trend", h.Dashboard.WeeklyTrend)
		})
	})
}
