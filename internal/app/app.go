// Package app wires configuration, storage, the event bus and every domain
// service into the HTTP handler served by the server command.
package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/sakti/internal"
	"github.com/frahmantamala/sakti/internal/approval"
	approvalPostgres "github.com/frahmantamala/sakti/internal/approval/postgres"
	"github.com/frahmantamala/sakti/internal/auth"
	"github.com/frahmantamala/sakti/internal/authz"
	"github.com/frahmantamala/sakti/internal/changerequest"
	crPostgres "github.com/frahmantamala/sakti/internal/changerequest/postgres"
	"github.com/frahmantamala/sakti/internal/core/database"
	"github.com/frahmantamala/sakti/internal/core/events"
	"github.com/frahmantamala/sakti/internal/dashboard"
	dashboardPostgres "github.com/frahmantamala/sakti/internal/dashboard/postgres"
	"github.com/frahmantamala/sakti/internal/notification"
	notificationPostgres "github.com/frahmantamala/sakti/internal/notification/postgres"
	"github.com/frahmantamala/sakti/internal/session"
	"github.com/frahmantamala/sakti/internal/transport"
	"github.com/frahmantamala/sakti/internal/transport/middleware"
	"github.com/frahmantamala/sakti/internal/transport/rest"
	"github.com/frahmantamala/sakti/internal/transport/web"
	userDir "github.com/frahmantamala/sakti/internal/user"
	userPostgres "github.com/frahmantamala/sakti/internal/user/postgres"
	"github.com/frahmantamala/sakti/pkg/logger"
)

type Option func(*options)

type options struct {
	syncEvents bool
}

// WithSyncEvents runs event handlers inline with the publishing request.
func WithSyncEvents() Option {
	return func(o *options) { o.syncEvents = true }
}

// App holds the wired services. Close waits for in-flight event handlers
// before releasing the database.
type App struct {
	Config *internal.Config
	DB     *database.DB
	Logger *slog.Logger
	Bus    *events.EventBus

	Users          *userDir.Service
	Auth           *auth.Service
	ChangeRequests *changerequest.Service
	Approvals      *approval.Service
	Notifications  *notification.Service
	Dashboard      *dashboard.Service
	Enforcer       *authz.Enforcer

	web *web.Handler
}

func New(cfg *internal.Config, db *database.DB, logger *slog.Logger, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	enforcer, err := authz.New()
	if err != nil {
		return nil, err
	}

	bus := events.NewEventBus(logger)
	var publisher events.Publisher = bus
	if o.syncEvents {
		publisher = events.SyncPublisher{Bus: bus}
	}

	userRepo := userPostgres.NewUserRepository(db.Gorm)
	users := userDir.NewService(userRepo, cfg.Security.BCryptCost, logger)

	var authenticator auth.Authenticator
	switch cfg.Auth.Mode {
	case internal.AuthModeMock:
		logger.Warn("mock authentication enabled")
		authenticator = auth.NewMockAuthenticator()
	case internal.AuthModeBackend:
		authenticator = auth.NewBackendAuthenticator(userRepo)
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Auth.Mode)
	}

	tokens := auth.NewJWTTokenGenerator(cfg.Security.JWTSecret, cfg.Security.AccessTokenDuration)
	revoked := auth.NewRevocationList(cfg.Security.RevocationCacheSize, cfg.Security.AccessTokenDuration)

	a := &App{
		Config:         cfg,
		DB:             db,
		Logger:         logger,
		Bus:            bus,
		Users:          users,
		Auth:           auth.NewService(authenticator, tokens, revoked, logger),
		ChangeRequests: changerequest.NewService(crPostgres.NewChangeRequestRepository(db.Gorm), publisher, logger),
		Approvals:      approval.NewService(approvalPostgres.NewApprovalRepository(db.Gorm), publisher, logger),
		Notifications:  notification.NewService(notificationPostgres.NewNotificationRepository(db.Gorm), users, logger),
		Dashboard:      dashboard.NewService(dashboardPostgres.NewDashboardRepository(db.SQLX), logger),
		Enforcer:       enforcer,
	}
	a.subscribe()

	a.web, err = web.NewHandler(web.Deps{
		Auth:           a.Auth,
		ChangeRequests: a.ChangeRequests,
		Approvals:      a.Approvals,
		Notifications:  a.Notifications,
		Dashboard:      a.Dashboard,
		Checker:        enforcer,
		Cookies: session.NewCookieCodec(
			[]byte(cfg.Security.CookieHashKey),
			[]byte(cfg.Security.CookieBlockKey),
			cfg.Security.CookieSecure,
			cfg.Security.AccessTokenDuration,
		),
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}

	return a, nil
}

// subscribe connects the workflow: a submitted change request opens an
// approval and notifies the approvers, a decision moves the change request
// and notifies its requester.
func (a *App) subscribe() {
	a.Bus.Subscribe(events.EventTypeChangeRequestSubmitted, a.Approvals.HandleChangeRequestSubmitted)
	a.Bus.Subscribe(events.EventTypeChangeRequestSubmitted, a.Notifications.HandleChangeRequestSubmitted)
	a.Bus.Subscribe(events.EventTypeApprovalDecided, a.ChangeRequests.HandleApprovalDecided)
	a.Bus.Subscribe(events.EventTypeApprovalDecided, a.Notifications.HandleApprovalDecided)
}

// Router builds the full handler: the JSON API under /api/v1, the API docs
// and the server rendered pages.
func (a *App) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(chiMiddleware.RequestID)
	router.Use(logger.Middleware(a.Logger))
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(a.Logger))

	base := transport.NewBaseHandler(a.Logger)
	rest.RegisterAllRoutes(router, rest.Handlers{
		Health:        rest.NewHealthHandler(a.DB.SQLX.DB, "sakti"),
		Auth:          auth.NewHandler(base, a.Auth),
		ChangeRequest: changerequest.NewHandler(base, a.ChangeRequests),
		Approval:      approval.NewHandler(base, a.Approvals),
		Notification:  notification.NewHandler(base, a.Notifications),
		Dashboard:     dashboard.NewHandler(base, a.Dashboard),
	}, a.Enforcer, a.Config.Server.Origins(), a.Logger)

	a.web.Routes(router)

	return router
}

func (a *App) Close() error {
	a.Bus.Wait()
	return a.DB.Close()
}
