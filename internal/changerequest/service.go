package changerequest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/frahmantamala/sakti/internal"
	crDatamodel "github.com/frahmantamala/sakti/internal/core/datamodel/changerequest"
	"github.com/frahmantamala/sakti/internal/core/events"
	"github.com/frahmantamala/sakti/internal/core/user"
	"github.com/frahmantamala/sakti/internal/filter"
)

// ErrNotFound is returned by repositories for unknown ids.
var ErrNotFound = errors.New("change request not found")

type RepositoryAPI interface {
	List(ctx context.Context) ([]*crDatamodel.ChangeRequest, error)
	GetByID(ctx context.Context, id string) (*crDatamodel.ChangeRequest, error)
	// Create assigns the next CR-NNN id to cr and stores it with its children.
	Create(ctx context.Context, cr *crDatamodel.ChangeRequest) error
	UpdateStatus(ctx context.Context, id string, status string, actor string, at time.Time) error
}

type ServiceAPI interface {
	List(ctx context.Context, q ListQuery) ([]ChangeRequest, error)
	Get(ctx context.Context, id string) (*Detail, error)
	Create(ctx context.Context, actor *user.User, dto CreateDTO) (*Detail, error)
	Export(ctx context.Context, q ListQuery, w io.Writer) error
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

func (s *Service) List(ctx context.Context, q ListQuery) ([]ChangeRequest, error) {
	query, err := buildQuery(q)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list change requests", "error", err)
		return nil, internal.NewInternalError("failed to list change requests", err)
	}

	items := make([]ChangeRequest, 0, len(records))
	for _, r := range records {
		items = append(items, FromDataModel(r))
	}
	return filter.Apply(items, query), nil
}

func buildQuery(q ListQuery) (filter.Query[ChangeRequest], error) {
	expr, err := filter.Compile(q.Expr)
	if err != nil {
		return filter.Query[ChangeRequest]{}, internal.NewValidationError(err.Error(), internal.ErrCodeInvalidFilter)
	}
	return filter.Query[ChangeRequest]{
		Search: q.Search,
		SearchFields: []func(ChangeRequest) string{
			func(c ChangeRequest) string { return c.ID },
			func(c ChangeRequest) string { return c.Title },
			func(c ChangeRequest) string { return c.Dinas },
		},
		Equals: []filter.Equals[ChangeRequest]{
			{Value: q.Status, Field: func(c ChangeRequest) string { return string(c.Status) }},
			{Value: q.Type, Field: func(c ChangeRequest) string { return string(c.Type) }},
		},
		Expr:   expr,
		Fields: ChangeRequest.Fields,
	}, nil
}

// Get returns the detail of id. Unknown ids are an error, never a substitute
// record.
func (s *Service) Get(ctx context.Context, id string) (*Detail, error) {
	record, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, internal.ErrChangeRequestNotFound
	}
	if err != nil {
		s.logger.Error("failed to get change request", "id", id, "error", err)
		return nil, internal.NewInternalError("failed to get change request", err)
	}
	return DetailFromDataModel(record), nil
}

// Create stores a new Submitted change request and announces it so an
// approval item can be opened for it.
func (s *Service) Create(ctx context.Context, actor *user.User, dto CreateDTO) (*Detail, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	record := &crDatamodel.ChangeRequest{
		Title:       dto.Title,
		Dinas:       dto.Dinas,
		Catalog:     dto.Catalog,
		SubCatalog:  dto.SubCatalog,
		BMDID:       dto.BMDID,
		Status:      string(StatusSubmitted),
		Type:        string(dto.Type),
		Notes:       dto.Notes,
		RequestedBy: actor.ID,
		CreatedAt:   now,
		Tracking: []crDatamodel.StatusEvent{
			{Status: string(StatusSubmitted), Actor: actor.DisplayName(), OccurredAt: now},
		},
	}
	for _, a := range dto.AffectedAssets {
		record.AffectedAssets = append(record.AffectedAssets, crDatamodel.AffectedAsset{BMDID: a.BMDID, AssetName: a.AssetName})
	}

	if err := s.repo.Create(ctx, record); err != nil {
		s.logger.Error("failed to create change request", "error", err)
		return nil, internal.NewInternalError("failed to create change request", err)
	}

	s.logger.Info("change request submitted", "id", record.ID, "requested_by", actor.ID)

	evt := events.NewChangeRequestSubmittedEvent(record.ID, record.Title, record.Type, record.Notes, record.Dinas, actor.ID, actor.DisplayName())
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.Error("failed to publish change request event", "id", record.ID, "error", err)
	}

	return DetailFromDataModel(record), nil
}

// HandleApprovalDecided moves the change request behind a decided approval to
// Approved or Rejected. Approvals without a change request are ignored.
func (s *Service) HandleApprovalDecided(ctx context.Context, event events.Event) error {
	evt, ok := event.(*events.ApprovalDecidedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", event)
	}
	if evt.ChangeRequestID == "" {
		return nil
	}

	status := StatusApproved
	if evt.Status == "REJECTED" {
		status = StatusRejected
	}

	if err := s.repo.UpdateStatus(ctx, evt.ChangeRequestID, string(status), evt.DecidedBy, evt.OccurredAt()); err != nil {
		return fmt.Errorf("failed to update change request %s: %w", evt.ChangeRequestID, err)
	}
	s.logger.Info("change request status updated", "id", evt.ChangeRequestID, "status", status)
	return nil
}
