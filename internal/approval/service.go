package approval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/sakti/internal"
	approvalDatamodel "github.com/frahmantamala/sakti/internal/core/datamodel/approval"
	"github.com/frahmantamala/sakti/internal/core/events"
	"github.com/frahmantamala/sakti/internal/core/user"
	"github.com/frahmantamala/sakti/internal/filter"
)

var (
	ErrNotFound       = errors.New("approval not found")
	ErrAlreadyDecided = errors.New("approval already decided")
)

// Decision is a status transition out of NEED APPROVAL.
type Decision struct {
	Status    Status
	DecidedBy string
	Reason    string
	At        time.Time
}

type RepositoryAPI interface {
	List(ctx context.Context) ([]*approvalDatamodel.Approval, error)
	GetByID(ctx context.Context, id int64) (*approvalDatamodel.Approval, error)
	Create(ctx context.Context, a *approvalDatamodel.Approval) error
	// Decide applies d only while the approval is pending and returns the
	// updated record. It returns ErrAlreadyDecided otherwise.
	Decide(ctx context.Context, id int64, d Decision) (*approvalDatamodel.Approval, error)
}

type ServiceAPI interface {
	List(ctx context.Context, q ListQuery) ([]Approval, error)
	Get(ctx context.Context, id int64) (*Approval, error)
	Approve(ctx context.Context, actor *user.User, id int64) (*Approval, error)
	Reject(ctx context.Context, actor *user.User, id int64, dto RejectDTO) (*Approval, error)
}

type Service struct {
	repo      RepositoryAPI
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo RepositoryAPI, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) List(ctx context.Context, q ListQuery) ([]Approval, error) {
	expr, err := filter.Compile(q.Expr)
	if err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeInvalidFilter)
	}

	records, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list approvals", "error", err)
		return nil, internal.NewInternalError("failed to list approvals", err)
	}

	items := make([]Approval, 0, len(records))
	for _, r := range records {
		items = append(items, FromDataModel(r))
	}

	return filter.Apply(items, filter.Query[Approval]{
		Search: q.Search,
		SearchFields: []func(Approval) string{
			func(a Approval) string { return a.CRID },
			func(a Approval) string { return a.Title },
		},
		Equals: []filter.Equals[Approval]{
			{Value: q.Status, Field: func(a Approval) string { return string(a.Status) }},
			{Value: q.Type, Field: func(a Approval) string { return string(a.Type) }},
		},
		Expr:   expr,
		Fields: Approval.Fields,
	}), nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Approval, error) {
	record, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, internal.ErrApprovalNotFound
	}
	if err != nil {
		s.logger.Error("failed to get approval", "id", id, "error", err)
		return nil, internal.NewInternalError("failed to get approval", err)
	}
	a := FromDataModel(record)
	return &a, nil
}

func (s *Service) Approve(ctx context.Context, actor *user.User, id int64) (*Approval, error) {
	return s.decide(ctx, actor, id, Decision{Status: StatusApproved})
}

// Reject requires a reason; it is stored and forwarded to the requester.
func (s *Service) Reject(ctx context.Context, actor *user.User, id int64, dto RejectDTO) (*Approval, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	return s.decide(ctx, actor, id, Decision{Status: StatusRejected, Reason: dto.Reason})
}

func (s *Service) decide(ctx context.Context, actor *user.User, id int64, d Decision) (*Approval, error) {
	d.DecidedBy = actor.ID
	d.At = s.now()

	record, err := s.repo.Decide(ctx, id, d)
	switch {
	case errors.Is(err, ErrNotFound):
		return nil, internal.ErrApprovalNotFound
	case errors.Is(err, ErrAlreadyDecided):
		return nil, internal.ErrApprovalAlreadyDecided
	case err != nil:
		s.logger.Error("failed to decide approval", "id", id, "error", err)
		return nil, internal.NewInternalError("failed to decide approval", err)
	}

	a := FromDataModel(record)
	s.logger.Info("approval decided", "id", a.ID, "cr_id", a.CRID, "status", a.Status, "decided_by", actor.ID)

	evt := events.NewApprovalDecidedEvent(a.ID, a.CRID, a.ChangeRequestID, a.Title, string(a.Status),
		actor.DisplayName(), deref(record.RequesterID), a.Reason)
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.Error("failed to publish approval event", "id", a.ID, "error", err)
	}
	return &a, nil
}

// HandleChangeRequestSubmitted opens a pending approval for a new change
// request.
func (s *Service) HandleChangeRequestSubmitted(ctx context.Context, event events.Event) error {
	evt, ok := event.(*events.ChangeRequestSubmittedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", event)
	}

	crID := evt.ChangeRequestID
	requesterID := evt.RequesterID
	record := &approvalDatamodel.Approval{
		CRID:            crID,
		ChangeRequestID: &crID,
		Title:           evt.Title,
		Status:          string(StatusNeedApproval),
		Type:            string(TypeForChangeRequest(evt.Type)),
		Description:     evt.Description,
		RequestedBy:     evt.RequesterName,
		RequesterID:     &requesterID,
		RequestedDate:   evt.OccurredAt(),
		Department:      evt.Dinas,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return fmt.Errorf("failed to open approval for %s: %w", crID, err)
	}
	s.logger.Info("approval opened", "id", record.ID, "cr_id", crID)
	return nil
}
