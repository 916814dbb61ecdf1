package validation_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/sakti/internal"
	"github.com/frahmantamala/sakti/internal/core/common/validation"
)

func TestValidation(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Validation Suite")
}

func details(err error) []internal.ValidationError {
	appErr, ok := internal.IsAppError(err)
	Expect(ok).To(BeTrue())
	d, ok := appErr.Details.(internal.ValidationErrors)
	Expect(ok).To(BeTrue())
	return d.Errors
}

var _ = Describe("ValidationBuilder", func() {
	It("should pass when every rule holds", func() {
		v := validation.NewValidator()
		v.Field("title", "Patch firewall").Required().MaxLength(50)
		v.Field("type", "minor").OneOf("minor", "major")
		Expect(v.Validate()).To(Succeed())
	})

	It("should treat whitespace as missing", func() {
		v := validation.NewValidator()
		v.Field("reason", "   ").Required()
		errs := details(v.Validate())
		Expect(errs).To(HaveLen(1))
		Expect(errs[0].Field).To(Equal("reason"))
		Expect(errs[0].Message).To(Equal("reason is required"))
	})

	It("should report the first failure of every field", func() {
		v := validation.NewValidator()
		v.Field("title", "").Required().MaxLength(3)
		v.Field("dinas", "Infrastructure").MaxLength(5)
		v.Field("type", "urgent").OneOf("minor", "major")

		errs := details(v.Validate())
		Expect(errs).To(HaveLen(3))
		Expect(errs[0].Message).To(Equal("title is required"))
		Expect(errs[1].Message).To(Equal("dinas must not exceed 5 characters"))
		Expect(errs[2].Message).To(Equal("type must be one of minor, major"))
	})

	It("should keep the field name of custom field errors", func() {
		v := validation.NewValidator()
		v.Field("assets", 0).Custom(func(interface{}) *internal.AppError {
			return internal.NewValidationFieldError("assets", "asset list is malformed", internal.ErrCodeValidationFailed)
		})
		err := v.Validate()
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(Equal("asset list is malformed"))

		appErr, _ := internal.IsAppError(err)
		Expect(appErr.StatusCode).To(Equal(400))
		Expect(appErr.Code).To(Equal(internal.ErrCodeValidationFailed))
	})
})
