package changerequest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"

	"github.com/frahmantamala/sakti/internal"
	"github.com/frahmantamala/sakti/internal/changerequest"
	crPostgres "github.com/frahmantamala/sakti/internal/changerequest/postgres"
	"github.com/frahmantamala/sakti/internal/core/database"
	"github.com/frahmantamala/sakti/internal/core/events"
	"github.com/frahmantamala/sakti/internal/core/user"
	"github.com/frahmantamala/sakti/internal/role"
	"github.com/frahmantamala/sakti/internal/seed"
	"github.com/frahmantamala/sakti/internal/transport"
	userDir "github.com/frahmantamala/sakti/internal/user"
	userPostgres "github.com/frahmantamala/sakti/internal/user/postgres"
	"github.com/frahmantamala/sakti/pkg/logger"
)

func TestChangeRequest(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Change Request Suite")
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func ids(items []changerequest.ChangeRequest) []string {
	out := make([]string, len(items))
	for i, c := range items {
		out[i] = c.ID
	}
	return out
}

var _ = Describe("Change Request Service", func() {
	var (
		db        *database.DB
		service   *changerequest.Service
		publisher *recordingPublisher
		ctx       context.Context
		teknisi   *user.User
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		db, err = database.OpenInMemory()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(db.Close)

		users := userDir.NewService(userPostgres.NewUserRepository(db.Gorm), 4, logger.Discard())
		Expect(seed.NewSeeder(db.Gorm, users, logger.Discard()).Run(ctx)).To(Succeed())

		publisher = &recordingPublisher{}
		service = changerequest.NewService(crPostgres.NewChangeRequestRepository(db.Gorm), publisher, logger.Discard())
		teknisi = &user.User{ID: "usr-teknisi", Username: "teknisi", Name: "Teknisi Lapangan", Role: role.Teknisi}
	})

	Describe("List", func() {
		It("should return every seeded record in id order", func() {
			items, err := service.List(ctx, changerequest.ListQuery{})
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(items)).To(Equal([]string{"CR-001", "CR-002", "CR-003", "CR-004"}))
		})

		It("should match only CR-002 when searching for network", func() {
			items, err := service.List(ctx, changerequest.ListQuery{Search: "network", Status: "all", Type: "all"})
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(items)).To(Equal([]string{"CR-002"}))
			Expect(items[0].Dinas).To(Equal("Network"))
		})

		It("should filter by status and type", func() {
			items, err := service.List(ctx, changerequest.ListQuery{Type: "standard"})
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(items)).To(Equal([]string{"CR-001", "CR-003"}))

			items, err = service.List(ctx, changerequest.ListQuery{Status: "Submitted"})
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(items)).To(Equal([]string{"CR-004"}))
		})

		It("should apply filter expressions", func() {
			items, err := service.List(ctx, changerequest.ListQuery{Expr: `type == "major" or dinas == "Application"`})
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(items)).To(Equal([]string{"CR-003", "CR-004"}))
		})

		It("should reject a malformed expression", func() {
			_, err := service.List(ctx, changerequest.ListQuery{Expr: `status ==`})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidFilter))
			Expect(appErr.StatusCode).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("Get", func() {
		It("should return the full detail", func() {
			detail, err := service.Get(ctx, "CR-001")
			Expect(err).NotTo(HaveOccurred())
			Expect(detail.AffectedAssets).To(HaveLen(3))
			Expect(detail.Inspection.RiskScore).To(Equal(42))
			Expect(detail.Inspection.RiskLevel()).To(Equal(changerequest.RiskMedium))
			Expect(detail.ImplementationSchedule.Implementer).To(Equal("Tim Infrastruktur"))
			Expect(detail.StatusTracking).To(HaveLen(4))
			Expect(detail.StatusTracking[0].Status).To(Equal(changerequest.StatusSubmitted))
		})

		It("should leave the schedule empty when none exists", func() {
			detail, err := service.Get(ctx, "CR-004")
			Expect(err).NotTo(HaveOccurred())
			Expect(detail.ImplementationSchedule).To(BeNil())
			Expect(detail.Inspection.RiskLevel()).To(Equal(changerequest.RiskHigh))
		})

		It("should report unknown ids as not found", func() {
			_, err := service.Get(ctx, "CR-999")
			Expect(err).To(MatchError(internal.ErrChangeRequestNotFound))
		})
	})

	Describe("Create", func() {
		It("should store a submitted request with the next id and announce it", func() {
			detail, err := service.Create(ctx, teknisi, changerequest.CreateDTO{
				Title: "Ganti UPS Ruang Server",
				Dinas: "Infrastructure",
				Type:  changerequest.TypeMinor,
				AffectedAssets: []changerequest.AssetDTO{
					{BMDID: "BMD-300", AssetName: "UPS APC 10kVA"},
				},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(detail.ID).To(Equal("CR-005"))
			Expect(detail.Status).To(Equal(changerequest.StatusSubmitted))
			Expect(detail.StatusTracking).To(HaveLen(1))

			stored, err := service.Get(ctx, "CR-005")
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.AffectedAssets).To(HaveLen(1))

			Expect(publisher.events).To(HaveLen(1))
			evt := publisher.events[0].(*events.ChangeRequestSubmittedEvent)
			Expect(evt.ChangeRequestID).To(Equal("CR-005"))
			Expect(evt.RequesterID).To(Equal("usr-teknisi"))
		})

		It("should default the type to standard", func() {
			detail, err := service.Create(ctx, teknisi, changerequest.CreateDTO{Title: "x", Dinas: "Network"})
			Expect(err).NotTo(HaveOccurred())
			Expect(detail.Type).To(Equal(changerequest.TypeStandard))
		})

		DescribeTable("should validate input",
			func(dto changerequest.CreateDTO) {
				_, err := service.Create(ctx, teknisi, dto)
				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.StatusCode).To(Equal(http.StatusBadRequest))
				Expect(publisher.events).To(BeEmpty())
			},
			Entry("missing title", changerequest.CreateDTO{Dinas: "Network"}),
			Entry("missing dinas", changerequest.CreateDTO{Title: "x"}),
			Entry("unknown type", changerequest.CreateDTO{Title: "x", Dinas: "Network", Type: "urgent"}),
			Entry("incomplete asset", changerequest.CreateDTO{Title: "x", Dinas: "Network", AffectedAssets: []changerequest.AssetDTO{{BMDID: "BMD-1"}}}),
		)
	})

	Describe("HandleApprovalDecided", func() {
		It("should approve the linked change request and extend its tracking", func() {
			evt := events.NewApprovalDecidedEvent(7, "CR-004", "CR-004", "Database Migration & Optimization", "APPROVED", "Kepala Seksi", "usr-teknisi", "")
			Expect(service.HandleApprovalDecided(ctx, evt)).To(Succeed())

			detail, err := service.Get(ctx, "CR-004")
			Expect(err).NotTo(HaveOccurred())
			Expect(detail.Status).To(Equal(changerequest.StatusApproved))
			Expect(detail.StatusTracking).To(HaveLen(2))
			Expect(detail.StatusTracking[1].By).To(Equal("Kepala Seksi"))
		})

		It("should mark rejections", func() {
			evt := events.NewApprovalDecidedEvent(7, "CR-004", "CR-004", "x", "REJECTED", "Kepala Bidang", "usr-teknisi", "no budget")
			Expect(service.HandleApprovalDecided(ctx, evt)).To(Succeed())

			detail, _ := service.Get(ctx, "CR-004")
			Expect(detail.Status).To(Equal(changerequest.StatusRejected))
		})

		It("should ignore approvals without a change request", func() {
			evt := events.NewApprovalDecidedEvent(1, "TCK-STD-0006", "", "Check AC", "APPROVED", "x", "", "")
			Expect(service.HandleApprovalDecided(ctx, evt)).To(Succeed())
		})
	})

	Describe("Export", func() {
		It("should write the filtered list as a workbook", func() {
			var buf bytes.Buffer
			Expect(service.Export(ctx, changerequest.ListQuery{Type: "standard"}, &buf)).To(Succeed())

			f, err := excelize.OpenReader(&buf)
			Expect(err).NotTo(HaveOccurred())
			defer f.Close()

			rows, err := f.GetRows("Change Requests")
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(3))
			Expect(rows[0][0]).To(Equal("CR ID"))
			Expect(rows[1][0]).To(Equal("CR-001"))
			Expect(rows[2][0]).To(Equal("CR-003"))
			Expect(rows[2][8]).To(Equal("56"))
		})
	})

	Describe("Handler", func() {
		var router *chi.Mux

		BeforeEach(func() {
			handler := changerequest.NewHandler(transport.NewBaseHandler(logger.Discard()), service)
			router = chi.NewRouter()
			router.Get("/change-requests", handler.List)
			router.Get("/change-requests/{id}", handler.Get)
			router.Post("/change-requests", func(w http.ResponseWriter, r *http.Request) {
				handler.Create(w, r.WithContext(internal.ContextWithUser(r.Context(), teknisi)))
			})
		})

		It("should answer list requests inside the envelope", func() {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/change-requests?search=network", nil))

			Expect(rec.Code).To(Equal(http.StatusOK))
			var body struct {
				Success bool                          `json:"success"`
				Data    []changerequest.ChangeRequest `json:"data"`
			}
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body.Success).To(BeTrue())
			Expect(ids(body.Data)).To(Equal([]string{"CR-002"}))
		})

		It("should answer an empty list with an empty array", func() {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/change-requests?search=zzz", nil))
			Expect(rec.Body.String()).To(ContainSubstring(`"data":[]`))
		})

		It("should answer 404 for an unknown id", func() {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/change-requests/CR-404", nil))

			Expect(rec.Code).To(Equal(http.StatusNotFound))
			Expect(rec.Body.String()).To(ContainSubstring(`"success":false`))
			Expect(rec.Body.String()).To(ContainSubstring("CHANGE_REQUEST_NOT_FOUND"))
		})

		It("should create from a JSON body", func() {
			rec := httptest.NewRecorder()
			body := bytes.NewBufferString(`{"title":"Patch Firewall","dinas":"Network","type":"emergency"}`)
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/change-requests", body))

			Expect(rec.Code).To(Equal(http.StatusCreated))
			Expect(rec.Body.String()).To(ContainSubstring(`"id":"CR-005"`))
		})
	})
})
