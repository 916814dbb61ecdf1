package dashboard

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/sakti/internal"
)

type RepositoryAPI interface {
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error)
	CountByStatus(ctx context.Context, statuses ...string) (int, error)
	CountPatchJobsByStatus(ctx context.Context, status string) (int, error)
	StatusEventsBetween(ctx context.Context, from, to time.Time) ([]StatusEvent, error)
}

type ServiceAPI interface {
	Summary(ctx context.Context) (*Summary, error)
	WeeklyTrend(ctx context.Context, weekStart string) (*WeeklyTrend, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock replaces the time source used for "this month" and the default
// week.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	var (
		summary Summary
		err     error
	)
	if summary.ChangeReportsThisMonth, err = s.repo.CountCreatedBetween(ctx, monthStart, monthStart.AddDate(0, 1, 0)); err != nil {
		return nil, s.internal("change reports", err)
	}
	if summary.InspectionsInProgress, err = s.repo.CountByStatus(ctx, "Submitted", "Inspected"); err != nil {
		return nil, s.internal("inspections", err)
	}
	if summary.ChangeSchedules, err = s.repo.CountByStatus(ctx, "Scheduled"); err != nil {
		return nil, s.internal("change schedules", err)
	}
	if summary.PatchSchedules, err = s.repo.CountPatchJobsByStatus(ctx, "Scheduled"); err != nil {
		return nil, s.internal("patch schedules", err)
	}
	return &summary, nil
}

// WeeklyTrend reports the seven days of the week containing weekStart
// (YYYY-MM-DD). An empty weekStart means the current week.
func (s *Service) WeeklyTrend(ctx context.Context, weekStart string) (*WeeklyTrend, error) {
	var start time.Time
	if weekStart = strings.TrimSpace(weekStart); weekStart == "" {
		start = MondayOf(s.now())
	} else {
		parsed, err := time.ParseInLocation(dateLayout, weekStart, time.UTC)
		if err != nil {
			return nil, internal.NewValidationError("week_start must be a date in YYYY-MM-DD format", internal.ErrCodeInvalidWeekStart)
		}
		start = MondayOf(parsed)
	}

	evts, err := s.repo.StatusEventsBetween(ctx, start, start.AddDate(0, 0, 7))
	if err != nil {
		return nil, s.internal("weekly trend", err)
	}

	return &WeeklyTrend{
		WeekStart: start.Format(dateLayout),
		Points:    Bucket(start, evts),
	}, nil
}

func (s *Service) internal(what string, err error) error {
	s.logger.Error("dashboard query failed", "query", what, "error", err)
	return internal.NewInternalError("failed to load dashboard", err)
}
