package header

import (
	"context"
	"log/slog"
	"sync"

	"github.com/frahmantamala/sakti/internal/client"
	"github.com/frahmantamala/sakti/internal/notification"
)

type NotificationSource interface {
	Notifications(ctx context.Context) ([]notification.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
}

// NotificationFeed is the list behind the bell. Failed fetches and failed
// mark-read calls are logged and leave the list as it was.
type NotificationFeed struct {
	source NotificationSource
	loader *client.Latest[[]notification.Notification]
	logger *slog.Logger

	mu    sync.RWMutex
	items []notification.Notification
}

func NewNotificationFeed(source NotificationSource, logger *slog.Logger) *NotificationFeed {
	return &NotificationFeed{
		source: source,
		loader: client.NewLatest[[]notification.Notification](),
		logger: logger,
		items:  []notification.Notification{},
	}
}

// Refresh reloads the list. A refresh overtaken by a newer one is dropped,
// and the store happens under the loader's generation lock.
func (f *NotificationFeed) Refresh(ctx context.Context) {
	_, err := f.loader.LoadInto(ctx, f.source.Notifications, func(items []notification.Notification) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.items = items
	})
	if err != nil {
		f.logger.Debug("notification refresh failed", "error", err)
	}
}

// MarkRead flips the local copy only after the server accepted the change.
func (f *NotificationFeed) MarkRead(ctx context.Context, id string) {
	if err := f.source.MarkNotificationRead(ctx, id); err != nil {
		f.logger.Debug("mark notification read failed", "id", id, "error", err)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Read = true
		}
	}
}

func (f *NotificationFeed) Items() []notification.Notification {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]notification.Notification{}, f.items...)
}

func (f *NotificationFeed) UnreadCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return notification.UnreadCount(f.items)
}

// Close cancels a refresh still in flight.
func (f *NotificationFeed) Close() {
	f.loader.Close()
}
