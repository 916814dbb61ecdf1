package transport_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/sakti/internal"
	"github.com/frahmantamala/sakti/internal/core/common/validation"
	"github.com/frahmantamala/sakti/internal/transport"
	"github.com/frahmantamala/sakti/pkg/logger"
)

func TestTransport(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Transport Suite")
}

func decode(rec *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
	return body
}

var _ = Describe("BaseHandler", func() {
	var (
		base *transport.BaseHandler
		rec  *httptest.ResponseRecorder
	)

	BeforeEach(func() {
		base = transport.NewBaseHandler(logger.Discard())
		rec = httptest.NewRecorder()
	})

	It("should list every validation message in the envelope", func() {
		v := validation.NewValidator()
		v.Field("title", "").Required()
		v.Field("dinas", "").Required()

		base.WriteAppError(rec, v.Validate())

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		body := decode(rec)
		Expect(body["success"]).To(BeFalse())
		Expect(body["code"]).To(Equal("VALIDATION_FAILED"))
		Expect(body["message"]).To(Equal("title is required; dinas is required"))
		Expect(body["details"]).To(HaveKey("errors"))
	})

	It("should keep the plain message of other application errors", func() {
		base.WriteAppError(rec, internal.ErrApprovalAlreadyDecided)

		Expect(rec.Code).To(Equal(http.StatusConflict))
		body := decode(rec)
		Expect(body["message"]).To(Equal("Approval has already been decided"))
		Expect(body["code"]).To(Equal("APPROVAL_ALREADY_DECIDED"))
	})

	It("should hide the text of unknown errors", func() {
		base.WriteAppError(rec, errors.New("dial tcp: connection refused"))

		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		body := decode(rec)
		Expect(body["code"]).To(Equal("INTERNAL_ERROR"))
		Expect(body["message"]).To(Equal("Internal server error"))
		Expect(rec.Body.String()).NotTo(ContainSubstring("connection refused"))
	})

	It("should write a plain failure envelope", func() {
		base.WriteError(rec, http.StatusServiceUnavailable, internal.ErrCodeInternal, "database unavailable")

		Expect(rec.Code).To(Equal(http.StatusServiceUnavailable))
		Expect(rec.Header().Get("Content-Type")).To(Equal("application/json"))
		body := decode(rec)
		Expect(body["message"]).To(Equal("database unavailable"))
	})
})
