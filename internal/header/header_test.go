package header_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/sakti/internal/header"
	"github.com/frahmantamala/sakti/internal/notification"
	"github.com/frahmantamala/sakti/pkg/logger"
)

func TestHeader(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Header Suite")
}

var _ = Describe("Panels", func() {
	var p header.Panels

	BeforeEach(func() {
		p = header.Panels{}
	})

	It("should ask for a fetch only when opening", func() {
		Expect(p.ToggleNotifications()).To(BeTrue())
		Expect(p.NotificationsOpen()).To(BeTrue())
		Expect(p.ToggleNotifications()).To(BeFalse())
		Expect(p.Open()).To(Equal(header.PanelNone))
	})

	It("should close one panel when the other opens", func() {
		p.ToggleNotifications()
		Expect(p.ToggleUserMenu()).To(BeTrue())
		Expect(p.NotificationsOpen()).To(BeFalse())
		Expect(p.UserMenuOpen()).To(BeTrue())
	})

	It("should close on a click outside the open panel only", func() {
		p.ToggleUserMenu()
		p.ClickOutside(header.RegionUserMenu)
		Expect(p.UserMenuOpen()).To(BeTrue())

		p.ClickOutside(header.RegionNotifications)
		Expect(p.UserMenuOpen()).To(BeFalse())

		p.ToggleNotifications()
		p.ClickOutside(header.RegionElsewhere)
		Expect(p.Open()).To(Equal(header.PanelNone))
	})

	It("should move from the user menu to the logout dialog", func() {
		p.ToggleUserMenu()
		p.OpenLogoutConfirm()
		Expect(p.UserMenuOpen()).To(BeFalse())
		Expect(p.LogoutConfirmOpen()).To(BeTrue())
		p.CancelLogout()
		Expect(p.LogoutConfirmOpen()).To(BeFalse())
	})

	It("should restore from a query value", func() {
		restored := header.ParsePanels("notifications")
		Expect(restored.NotificationsOpen()).To(BeTrue())
		restored = header.ParsePanels("logout")
		Expect(restored.LogoutConfirmOpen()).To(BeTrue())
		Expect(restored.Query()).To(Equal("logout"))
		restored = header.ParsePanels("bogus")
		Expect(restored.Open()).To(Equal(header.PanelNone))
	})
})

type fakeSource struct {
	mu      sync.Mutex
	items   []notification.Notification
	listErr error
	markErr error
	block   chan struct{}
	calls   int
}

func (s *fakeSource) Notifications(ctx context.Context) ([]notification.Notification, error) {
	s.mu.Lock()
	s.calls++
	call := s.calls
	items := append([]notification.Notification{}, s.items...)
	err := s.listErr
	block := s.block
	s.mu.Unlock()

	if call == 1 && block != nil {
		select {
		case <-block:
		case <-ctx.Done():
		}
		return []notification.Notification{{ID: "stale"}}, nil
	}
	return items, err
}

func (s *fakeSource) MarkNotificationRead(_ context.Context, _ string) error {
	return s.markErr
}

var _ = Describe("NotificationFeed", func() {
	var (
		source *fakeSource
		feed   *header.NotificationFeed
		ctx    context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		source = &fakeSource{items: []notification.Notification{
			{ID: "a", Message: "one"},
			{ID: "b", Message: "two", Read: true},
		}}
		feed = header.NewNotificationFeed(source, logger.Discard())
		DeferCleanup(feed.Close)
	})

	It("should load and count unread", func() {
		feed.Refresh(ctx)
		Expect(feed.Items()).To(HaveLen(2))
		Expect(feed.UnreadCount()).To(Equal(1))
	})

	It("should keep the previous list when a refresh fails", func() {
		feed.Refresh(ctx)
		source.listErr = errors.New("offline")
		feed.Refresh(ctx)
		Expect(feed.Items()).To(HaveLen(2))
	})

	It("should mark read locally only after the server accepted", func() {
		feed.Refresh(ctx)
		source.markErr = errors.New("offline")
		feed.MarkRead(ctx, "a")
		Expect(feed.UnreadCount()).To(Equal(1))

		source.markErr = nil
		feed.MarkRead(ctx, "a")
		Expect(feed.UnreadCount()).To(Equal(0))
	})

	It("should drop a response overtaken by a newer refresh", func() {
		source.block = make(chan struct{})
		done := make(chan struct{})
		go func() {
			defer close(done)
			feed.Refresh(ctx)
		}()

		Eventually(func() int {
			source.mu.Lock()
			defer source.mu.Unlock()
			return source.calls
		}).Should(Equal(1))

		feed.Refresh(ctx)
		close(source.block)
		Eventually(done, time.Second).Should(BeClosed())

		ids := []string{}
		for _, n := range feed.Items() {
			ids = append(ids, n.ID)
		}
		Expect(ids).To(Equal([]string{"a", "b"}))
	})
})
