package notification

import (
	"time"

	notificationDatamodel "github.com/frahmantamala/sakti/internal/core/datamodel/notification"
)

type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Link      string    `json:"link,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReadState is the value the list "status" filter compares against.
func (n Notification) ReadState() string {
	if n.Read {
		return "read"
	}
	return "unread"
}

func (n Notification) Fields() map[string]any {
	return map[string]any{
		"id":      n.ID,
		"message": n.Message,
		"read":    n.Read,
	}
}

func FromDataModel(m *notificationDatamodel.Notification) Notification {
	return Notification{
		ID:        m.ID,
		Message:   m.Message,
		Link:      m.Link,
		Read:      m.Read,
		CreatedAt: m.CreatedAt,
	}
}

// UnreadCount is the badge number shown on the bell.
func UnreadCount(items []Notification) int {
	n := 0
	for _, item := range items {
		if !item.Read {
			n++
		}
	}
	return n
}
