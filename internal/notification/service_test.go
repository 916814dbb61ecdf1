package notification_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/sakti/internal"
	"github.com/frahmantamala/sakti/internal/approval"
	approvalPostgres "github.com/frahmantamala/sakti/internal/approval/postgres"
	"github.com/frahmantamala/sakti/internal/changerequest"
	crPostgres "github.com/frahmantamala/sakti/internal/changerequest/postgres"
	"github.com/frahmantamala/sakti/internal/core/database"
	notificationDatamodel "github.com/frahmantamala/sakti/internal/core/datamodel/notification"
	"github.com/frahmantamala/sakti/internal/core/events"
	"github.com/frahmantamala/sakti/internal/core/user"
	"github.com/frahmantamala/sakti/internal/notification"
	notificationPostgres "github.com/frahmantamala/sakti/internal/notification/postgres"
	"github.com/frahmantamala/sakti/internal/role"
	"github.com/frahmantamala/sakti/internal/seed"
	"github.com/frahmantamala/sakti/internal/transport"
	userDir "github.com/frahmantamala/sakti/internal/user"
	userPostgres "github.com/frahmantamala/sakti/internal/user/postgres"
	"github.com/frahmantamala/sakti/pkg/logger"
)

func TestNotification(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Notification Suite")
}

var _ = Describe("Notification Service", func() {
	var (
		db      *database.DB
		repo    notification.RepositoryAPI
		users   *userDir.Service
		service *notification.Service
		ctx     context.Context
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		db, err = database.OpenInMemory()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(db.Close)

		users = userDir.NewService(userPostgres.NewUserRepository(db.Gorm), 4, logger.Discard())
		Expect(seed.NewSeeder(db.Gorm, users, logger.Discard()).Run(ctx)).To(Succeed())

		repo = notificationPostgres.NewNotificationRepository(db.Gorm)
		service = notification.NewService(repo, users, logger.Discard())
	})

	Describe("List and MarkRead", func() {
		BeforeEach(func() {
			base := time.Date(2024, 1, 20, 8, 0, 0, 0, time.UTC)
			Expect(repo.CreateBatch(ctx, []*notificationDatamodel.Notification{
				{ID: "n-1", UserID: "usr-kasi", Message: "CR-001 menunggu persetujuan", CreatedAt: base},
				{ID: "n-2", UserID: "usr-kasi", Message: "CR-002 menunggu persetujuan", CreatedAt: base.Add(time.Hour)},
				{ID: "n-3", UserID: "usr-kabid", Message: "CR-003 menunggu persetujuan", CreatedAt: base},
			})).To(Succeed())
		})

		It("should list only the user's notifications, newest first", func() {
			items, err := service.List(ctx, "usr-kasi", notification.ListQuery{})
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(2))
			Expect(items[0].ID).To(Equal("n-2"))
			Expect(items[1].ID).To(Equal("n-1"))
			Expect(notification.UnreadCount(items)).To(Equal(2))
		})

		It("should mark read idempotently", func() {
			n, err := service.MarkRead(ctx, "usr-kasi", "n-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(n.Read).To(BeTrue())

			n, err = service.MarkRead(ctx, "usr-kasi", "n-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(n.Read).To(BeTrue())

			items, err := service.List(ctx, "usr-kasi", notification.ListQuery{Status: "unread"})
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(1))
			Expect(items[0].ID).To(Equal("n-2"))
		})

		It("should not let a user mark someone else's notification", func() {
			_, err := service.MarkRead(ctx, "usr-kasi", "n-3")
			Expect(err).To(MatchError(internal.ErrNotificationNotFound))

			_, err = service.MarkRead(ctx, "usr-kasi", "missing")
			Expect(err).To(MatchError(internal.ErrNotificationNotFound))
		})

		It("should serve the handler routes", func() {
			handler := notification.NewHandler(transport.NewBaseHandler(logger.Discard()), service)
			router := chi.NewRouter()
			router.Use(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					kasi := &user.User{ID: "usr-kasi", Username: "kasi", Role: role.Kasi}
					next.ServeHTTP(w, r.WithContext(internal.ContextWithUser(r.Context(), kasi)))
				})
			})
			router.Get("/notifications", handler.List)
			router.Put("/notifications/{id}/read", handler.MarkRead)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/notifications/n-3/read", nil))
			Expect(rec.Code).To(Equal(http.StatusNotFound))

			rec = httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/notifications/n-2/read", nil))
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring(`"read":true`))

			rec = httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/notifications", nil))
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring(`"id":"n-1"`))
			Expect(rec.Body.String()).NotTo(ContainSubstring(`"id":"n-3"`))
		})
	})

	Describe("change workflow", func() {
		It("should notify approvers on submission and the requester on decision", func() {
			bus := events.NewEventBus(logger.Discard())
			publisher := events.SyncPublisher{Bus: bus}

			crs := changerequest.NewService(crPostgres.NewChangeRequestRepository(db.Gorm), publisher, logger.Discard())
			approvals := approval.NewService(approvalPostgres.NewApprovalRepository(db.Gorm), publisher, logger.Discard())

			bus.Subscribe(events.EventTypeChangeRequestSubmitted, approvals.HandleChangeRequestSubmitted)
			bus.Subscribe(events.EventTypeChangeRequestSubmitted, service.HandleChangeRequestSubmitted)
			bus.Subscribe(events.EventTypeApprovalDecided, crs.HandleApprovalDecided)
			bus.Subscribe(events.EventTypeApprovalDecided, service.HandleApprovalDecided)

			teknisi := &user.User{ID: "usr-teknisi", Username: "teknisi", Name: "Teknisi Lapangan", Role: role.Teknisi}
			kabid := &user.User{ID: "usr-kabid", Username: "kabid", Name: "Kepala Bidang", Role: role.Kabid}

			detail, err := crs.Create(ctx, teknisi, changerequest.CreateDTO{Title: "Ganti Router Core", Dinas: "Network"})
			Expect(err).NotTo(HaveOccurred())

			for _, approver := range []string{"usr-kasi", "usr-kabid", "usr-diskominfo"} {
				items, err := service.List(ctx, approver, notification.ListQuery{})
				Expect(err).NotTo(HaveOccurred())
				Expect(items).To(HaveLen(1))
				Expect(items[0].Message).To(ContainSubstring(detail.ID))
			}
			items, err := service.List(ctx, "usr-teknisi", notification.ListQuery{})
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(BeEmpty())

			pending, err := approvals.List(ctx, approval.ListQuery{Search: detail.ID})
			Expect(err).NotTo(HaveOccurred())
			Expect(pending).To(HaveLen(1))

			_, err = approvals.Approve(ctx, kabid, pending[0].ID)
			Expect(err).NotTo(HaveOccurred())

			items, err = service.List(ctx, "usr-teknisi", notification.ListQuery{})
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(1))
			Expect(items[0].Message).To(ContainSubstring("disetujui oleh Kepala Bidang"))
			Expect(items[0].Link).To(Equal("/change-request/" + detail.ID))

			updated, err := crs.Get(ctx, detail.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(changerequest.StatusApproved))
		})
	})
})
