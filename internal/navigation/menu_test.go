package navigation_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/sakti/internal/navigation"
	"github.com/frahmantamala/sakti/internal/role"
)

func TestNavigation(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Navigation Suite")
}

func names(entries []navigation.MenuEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

var _ = Describe("MenuItemsByRole", func() {
	It("should have a non-empty menu headed by Dashboard for every role", func() {
		for _, r := range role.All {
			entries := navigation.MenuItemsByRole(r)
			Expect(entries).NotTo(BeEmpty(), "role %s", r)
			Expect(entries[0].Name).To(Equal("Dashboard"))
			Expect(entries[0].Path).To(Equal("/"))
		}
	})

	It("should return five entries for teknisi", func() {
		entries := navigation.MenuItemsByRole(role.Teknisi)
		Expect(names(entries)).To(Equal([]string{
			"Dashboard", "Change Management", "Patch Management", "Emergency", "CMDB",
		}))
		Expect(entries[1].IsGroup()).To(BeTrue())
		Expect(entries[1].SubItems[0].Path).To(Equal("/change-request"))
	})

	It("should give approval tiers the approval page", func() {
		Expect(names(navigation.MenuItemsByRole(role.Kasi))).To(Equal([]string{"Dashboard", "Approval", "CMDB"}))
		Expect(names(navigation.MenuItemsByRole(role.Kabid))).To(Equal([]string{"Dashboard", "Approval", "CMDB"}))
		Expect(names(navigation.MenuItemsByRole(role.Diskominfo))).To(Equal([]string{"Dashboard", "Approval", "Patch Job", "CMDB"}))
	})

	It("should return an empty menu for an unknown role", func() {
		entries := navigation.MenuItemsByRole(role.Role("admin"))
		Expect(entries).NotTo(BeNil())
		Expect(entries).To(BeEmpty())
	})

	It("should be deterministic", func() {
		Expect(navigation.MenuItemsByRole(role.Teknisi)).To(Equal(navigation.MenuItemsByRole(role.Teknisi)))
	})

	It("should not let callers mutate the table", func() {
		entries := navigation.MenuItemsByRole(role.Teknisi)
		entries[1].SubItems[0].Name = "changed"
		Expect(navigation.MenuItemsByRole(role.Teknisi)[1].SubItems[0].Name).To(Equal("Change Request"))
	})

	It("should never nest more than one level", func() {
		for _, r := range role.All {
			for _, e := range navigation.MenuItemsByRole(r) {
				if e.IsGroup() {
					Expect(e.Path).To(BeEmpty())
				} else {
					Expect(e.Path).NotTo(BeEmpty())
				}
			}
		}
	})
})

var _ = Describe("Paths", func() {
	It("should flatten groups in order", func() {
		Expect(navigation.Paths(role.Teknisi)).To(Equal([]string{
			"/", "/change-request", "/change-schedule", "/change-results",
			"/patch-job", "/patch-schedule", "/patch-results", "/emergency", "/cmdb",
		}))
	})
})

var _ = Describe("Highlight", func() {
	It("should expand the group owning the current detail route", func() {
		entries := navigation.Highlight(navigation.MenuItemsByRole(role.Teknisi), "/change-request/CR-002", "")
		Expect(entries[0].Active).To(BeFalse())
		Expect(entries[1].Active).To(BeTrue())
		Expect(entries[1].Expanded).To(BeTrue())
		Expect(entries[1].SubItems[0].Active).To(BeTrue())
		Expect(entries[2].Expanded).To(BeFalse())
	})

	It("should only mark the dashboard on the root path", func() {
		entries := navigation.Highlight(navigation.MenuItemsByRole(role.Kasi), "/", "")
		Expect(entries[0].Active).To(BeTrue())
		Expect(entries[1].Active).To(BeFalse())
	})

	It("should expand a group explicitly requested", func() {
		entries := navigation.Highlight(navigation.MenuItemsByRole(role.Teknisi), "/", "Patch Management")
		Expect(entries[2].Expanded).To(BeTrue())
		Expect(entries[2].Active).To(BeFalse())
	})
})
