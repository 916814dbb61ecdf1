package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/sakti/pkg/logger"
)

func TestLogger(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Logger Suite")
}

var _ = Describe("context logger", func() {
	var (
		buf  *bytes.Buffer
		base *slog.Logger
	)

	BeforeEach(func() {
		buf = &bytes.Buffer{}
		base = slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	})

	It("should fall back to the process logger", func() {
		Expect(logger.From(context.Background())).To(BeIdenticalTo(logger.LoggerWrapper()))
	})

	It("should accumulate attributes on the attached logger", func() {
		ctx := logger.Into(context.Background(), base)
		ctx = logger.With(ctx, "traceID", "t-1")
		ctx = logger.With(ctx, "userID", "usr-kasi")

		logger.From(ctx).Info("approved")

		Expect(buf.String()).To(ContainSubstring("traceID=t-1"))
		Expect(buf.String()).To(ContainSubstring("userID=usr-kasi"))
	})

	It("should seed every request with the given logger", func() {
		h := logger.Middleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.From(logger.With(r.Context(), "path", r.URL.Path)).Warn("handled")
			w.WriteHeader(http.StatusNoContent)
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/approval", nil))

		Expect(rec.Code).To(Equal(http.StatusNoContent))
		Expect(buf.String()).To(ContainSubstring("msg=handled"))
		Expect(buf.String()).To(ContainSubstring("path=/approval"))
	})
})
