package filter_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/sakti/internal/filter"
)

func TestFilter(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Filter Suite")
}

type record struct {
	ID     string
	Title  string
	Dinas  string
	Status string
	Type   string
}

var records = []record{
	{ID: "CR-001", Title: "Update Server Configuration", Dinas: "Infrastructure", Status: "Approved", Type: "standard"},
	{ID: "CR-002", Title: "Network Switch Upgrade", Dinas: "Network", Status: "Scheduled", Type: "minor"},
	{ID: "CR-003", Title: "Deploy New Application", Dinas: "Application", Status: "Implementing", Type: "standard"},
	{ID: "CR-004", Title: "Database Migration & Optimization", Dinas: "Database", Status: "Submitted", Type: "major"},
}

func query(search, status, typ string) filter.Query[record] {
	return filter.Query[record]{
		Search: search,
		SearchFields: []func(record) string{
			func(r record) string { return r.ID },
			func(r record) string { return r.Title },
			func(r record) string { return r.Dinas },
		},
		Equals: []filter.Equals[record]{
			{Value: status, Field: func(r record) string { return r.Status }},
			{Value: typ, Field: func(r record) string { return r.Type }},
		},
		Fields: func(r record) map[string]any {
			return map[string]any{"id": r.ID, "status": r.Status, "type": r.Type}
		},
	}
}

func ids(rs []record) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

var _ = Describe("Apply", func() {
	It("should match only CR-002 when searching for network", func() {
		Expect(ids(filter.Apply(records, query("network", filter.All, filter.All)))).To(Equal([]string{"CR-002"}))
	})

	It("should search case-insensitively across every field", func() {
		Expect(ids(filter.Apply(records, query("cr-00", "", "")))).To(HaveLen(4))
		Expect(ids(filter.Apply(records, query("DATABASE", "", "")))).To(Equal([]string{"CR-004"}))
	})

	It("should be the identity with an empty search and all sentinels", func() {
		Expect(filter.Apply(records, query("", filter.All, filter.All))).To(Equal(records))
		Expect(filter.Apply(records, query("  ", "", ""))).To(Equal(records))
	})

	It("should combine equality predicates", func() {
		Expect(ids(filter.Apply(records, query("", filter.All, "standard")))).To(Equal([]string{"CR-001", "CR-003"}))
		Expect(ids(filter.Apply(records, query("", "Approved", "standard")))).To(Equal([]string{"CR-001"}))
	})

	It("should be idempotent", func() {
		q := query("a", filter.All, "standard")
		once := filter.Apply(records, q)
		Expect(filter.Apply(once, q)).To(Equal(once))
	})

	It("should return an empty, non-nil slice when nothing matches", func() {
		result := filter.Apply(records, query("zzz", "", ""))
		Expect(result).NotTo(BeNil())
		Expect(result).To(BeEmpty())
		Expect(filter.Apply[record](nil, query("", "", ""))).NotTo(BeNil())
	})

	Context("with an expression", func() {
		It("should narrow by the compiled predicate", func() {
			expr, err := filter.Compile(`status == "Approved" or type == "major"`)
			Expect(err).NotTo(HaveOccurred())

			q := query("", "", "")
			q.Expr = expr
			Expect(ids(filter.Apply(records, q))).To(Equal([]string{"CR-001", "CR-004"}))
		})

		It("should not match records missing the selected field", func() {
			expr, err := filter.Compile(`owner == "x"`)
			Expect(err).NotTo(HaveOccurred())

			q := query("", "", "")
			q.Expr = expr
			Expect(filter.Apply(records, q)).To(BeEmpty())
		})
	})
})

var _ = Describe("Compile", func() {
	It("should reject malformed expressions", func() {
		_, err := filter.Compile(`status ==`)
		Expect(err).To(MatchError(filter.ErrInvalidExpression))
	})

	It("should compile a blank expression to a match-all nil", func() {
		expr, err := filter.Compile("   ")
		Expect(err).NotTo(HaveOccurred())
		Expect(expr).To(BeNil())
		Expect(expr.Match(map[string]any{})).To(BeTrue())
	})

	It("should reuse cached evaluators", func() {
		first, err := filter.Compile(`type != "major"`)
		Expect(err).NotTo(HaveOccurred())
		second, err := filter.Compile(`type != "major"`)
		Expect(err).NotTo(HaveOccurred())
		Expect(second.String()).To(Equal(first.String()))
		Expect(second.Match(map[string]any{"type": "minor"})).To(BeTrue())
	})
})
