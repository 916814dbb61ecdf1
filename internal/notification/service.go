package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/frahmantamala/sakti/internal"
	notificationDatamodel "github.com/frahmantamala/sakti/internal/core/datamodel/notification"
	"github.com/frahmantamala/sakti/internal/core/events"
	"github.com/frahmantamala/sakti/internal/filter"
	"github.com/frahmantamala/sakti/internal/navigation"
	"github.com/frahmantamala/sakti/internal/role"
)

var ErrNotFound = errors.New("notification not found")

type RepositoryAPI interface {
	// ListByUser returns the user's notifications, newest first.
	ListByUser(ctx context.Context, userID string) ([]*notificationDatamodel.Notification, error)
	CreateBatch(ctx context.Context, items []*notificationDatamodel.Notification) error
	// MarkRead returns ErrNotFound unless id belongs to userID.
	MarkRead(ctx context.Context, userID, id string) (*notificationDatamodel.Notification, error)
}

// RecipientDirectory resolves who holds a role.
type RecipientDirectory interface {
	RecipientIDs(ctx context.Context, roles ...role.Role) ([]string, error)
}

type ServiceAPI interface {
	List(ctx context.Context, userID string, q ListQuery) ([]Notification, error)
	MarkRead(ctx context.Context, userID, id string) (*Notification, error)
}

type Service struct {
	repo       RepositoryAPI
	recipients RecipientDirectory
	logger     *slog.Logger
	now        func() time.Time
}

func NewService(repo RepositoryAPI, recipients RecipientDirectory, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		recipients: recipients,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *Service) List(ctx context.Context, userID string, q ListQuery) ([]Notification, error) {
	expr, err := filter.Compile(q.Expr)
	if err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeInvalidFilter)
	}

	records, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list notifications", "user_id", userID, "error", err)
		return nil, internal.NewInternalError("failed to list notifications", err)
	}

	items := make([]Notification, 0, len(records))
	for _, r := range records {
		items = append(items, FromDataModel(r))
	}
	return filter.Apply(items, filter.Query[Notification]{
		Search:       q.Search,
		SearchFields: []func(Notification) string{func(n Notification) string { return n.Message }},
		Equals:       []filter.Equals[Notification]{{Value: q.Status, Field: Notification.ReadState}},
		Expr:         expr,
		Fields:       Notification.Fields,
	}), nil
}

// MarkRead is idempotent; marking an already read notification succeeds.
func (s *Service) MarkRead(ctx context.Context, userID, id string) (*Notification, error) {
	record, err := s.repo.MarkRead(ctx, userID, id)
	if errors.Is(err, ErrNotFound) {
		return nil, internal.ErrNotificationNotFound
	}
	if err != nil {
		s.logger.Error("failed to mark notification read", "id", id, "error", err)
		return nil, internal.NewInternalError("failed to mark notification read", err)
	}
	n := FromDataModel(record)
	return &n, nil
}

// Notify stores one notification per recipient.
func (s *Service) Notify(ctx context.Context, userIDs []string, message, link string) error {
	if len(userIDs) == 0 {
		return nil
	}
	now := s.now()
	items := make([]*notificationDatamodel.Notification, 0, len(userIDs))
	for _, id := range userIDs {
		items = append(items, &notificationDatamodel.Notification{
			ID:        uuid.New().String(),
			UserID:    id,
			Message:   message,
			Link:      link,
			CreatedAt: now,
		})
	}
	if err := s.repo.CreateBatch(ctx, items); err != nil {
		return fmt.Errorf("failed to store notifications: %w", err)
	}
	s.logger.Debug("notifications stored", "count", len(items))
	return nil
}

// HandleChangeRequestSubmitted tells every approver that a request waits.
func (s *Service) HandleChangeRequestSubmitted(ctx context.Context, event events.Event) error {
	evt, ok := event.(*events.ChangeRequestSubmittedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", event)
	}

	recipients, err := s.recipients.RecipientIDs(ctx, role.Kasi, role.Kabid, role.Diskominfo)
	if err != nil {
		return err
	}

	msg := fmt.Sprintf("Change request %s \"%s\" dari %s menunggu persetujuan", evt.ChangeRequestID, evt.Title, evt.RequesterName)
	return s.Notify(ctx, recipients, msg, navigation.PathApproval)
}

// HandleApprovalDecided tells the requester about the outcome.
func (s *Service) HandleApprovalDecided(ctx context.Context, event events.Event) error {
	evt, ok := event.(*events.ApprovalDecidedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", event)
	}
	if evt.RequesterID == "" {
		return nil
	}

	var msg string
	if evt.Status == "REJECTED" {
		msg = fmt.Sprintf("%s \"%s\" ditolak oleh %s: %s", evt.CRID, evt.Title, evt.DecidedBy, evt.Reason)
	} else {
		msg = fmt.Sprintf("%s \"%s\" disetujui oleh %s", evt.CRID, evt.Title, evt.DecidedBy)
	}

	link := fmt.Sprintf("%s/%d", navigation.PathApproval, evt.ApprovalID)
	if evt.ChangeRequestID != "" {
		link = navigation.PathChangeRequest + "/" + evt.ChangeRequestID
	}
	return s.Notify(ctx, []string{evt.RequesterID}, msg, link)
}
