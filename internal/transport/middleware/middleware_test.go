package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/sakti/internal"
	"github.com/frahmantamala/sakti/internal/authz"
	"github.com/frahmantamala/sakti/internal/core/user"
	"github.com/frahmantamala/sakti/internal/role"
	"github.com/frahmantamala/sakti/internal/transport"
	"github.com/frahmantamala/sakti/pkg/logger"
)

func TestMiddleware(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Middleware Suite")
}

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

var _ = Describe("RecoveryMiddleware", func() {
	It("should answer a panic with a 500 envelope", func() {
		h := RecoveryMiddleware(logger.Discard())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		Expect(rec.Body.String()).To(ContainSubstring(`"success":false`))
		Expect(rec.Body.String()).To(ContainSubstring(`"code":"INTERNAL_ERROR"`))
		Expect(rec.Body.String()).NotTo(ContainSubstring("boom"))
	})
})

var _ = Describe("RequireAction", func() {
	var guarded http.Handler

	BeforeEach(func() {
		enforcer, err := authz.New()
		Expect(err).NotTo(HaveOccurred())
		guarded = RequireAction(transport.NewBaseHandler(logger.Discard()), enforcer, authz.ObjApproval, authz.ActDecide)(ok)
	})

	serve := func(u *user.User) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/approvals/1/approve", nil)
		if u != nil {
			req = req.WithContext(internal.ContextWithUser(req.Context(), u))
		}
		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, req)
		return rec
	}

	It("should let approvers through", func() {
		Expect(serve(&user.User{ID: "usr-kabid", Role: role.Kabid}).Code).To(Equal(http.StatusNoContent))
	})

	It("should forbid teknisi", func() {
		rec := serve(&user.User{ID: "usr-teknisi", Role: role.Teknisi})
		Expect(rec.Code).To(Equal(http.StatusForbidden))
		Expect(rec.Body.String()).To(ContainSubstring(string(internal.ErrCodeForbiddenRole)))
	})

	It("should reject anonymous requests", func() {
		Expect(serve(nil).Code).To(Equal(http.StatusUnauthorized))
	})
})

var _ = Describe("RequestID", func() {
	It("should echo an incoming trace id", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(TraceHeader, "trace-123")
		rec := httptest.NewRecorder()
		RequestID(ok).ServeHTTP(rec, req)
		Expect(rec.Header().Get(TraceHeader)).To(Equal("trace-123"))
	})

	It("should mint one when absent", func() {
		rec := httptest.NewRecorder()
		RequestID(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		Expect(rec.Header().Get(TraceHeader)).To(HaveLen(36))
	})
})

var _ = Describe("LoggingMiddleware", func() {
	It("should never write credentials to the log", func() {
		var buf bytes.Buffer
		lg := slog.New(slog.NewJSONHandler(&buf, nil))

		h := LoggingMiddleware(lg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"success":true,"data":{"token":"jwt-value","user":{"username":"kasi"}}}`))
		}))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(`{"username":"kasi","password":"123456"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer abc")
		h.ServeHTTP(httptest.NewRecorder(), req)

		out := buf.String()
		Expect(out).To(ContainSubstring("kasi"))
		Expect(out).NotTo(ContainSubstring("123456"))
		Expect(out).NotTo(ContainSubstring("jwt-value"))
		Expect(out).NotTo(ContainSubstring("Bearer abc"))
	})

	It("should filter nested keys", func() {
		out := filterSensitiveBody([]byte(`{"items":[{"access_token":"x","name":"y"}]}`))
		Expect(out).To(Equal(`{"items":[{"access_token":"[FILTERED]","name":"y"}]}`))
	})
})
