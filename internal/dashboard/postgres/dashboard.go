package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/frahmantamala/sakti/internal/dashboard"
)

// DashboardRepository runs the aggregate queries with sqlx. Date ranges are
// passed as bounds so the SQL stays portable between postgres and sqlite.
type DashboardRepository struct {
	db *sqlx.DB
}

func NewDashboardRepository(db *sqlx.DB) dashboard.RepositoryAPI {
	return &DashboardRepository{db: db}
}

func (r *DashboardRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error) {
	var n int
	query := r.db.Rebind(`SELECT COUNT(*) FROM change_requests WHERE created_at >= ? AND created_at < ?`)
	err := r.db.GetContext(ctx, &n, query, from, to)
	return n, err
}

func (r *DashboardRepository) CountByStatus(ctx context.Context, statuses ...string) (int, error) {
	if len(statuses) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`SELECT COUNT(*) FROM change_requests WHERE status IN (?)`, statuses)
	if err != nil {
		return 0, err
	}
	var n int
	err = r.db.GetContext(ctx, &n, r.db.Rebind(query), args...)
	return n, err
}

func (r *DashboardRepository) CountPatchJobsByStatus(ctx context.Context, status string) (int, error) {
	var n int
	query := r.db.Rebind(`SELECT COUNT(*) FROM patch_jobs WHERE status = ?`)
	err := r.db.GetContext(ctx, &n, query, status)
	return n, err
}

func (r *DashboardRepository) StatusEventsBetween(ctx context.Context, from, to time.Time) ([]dashboard.StatusEvent, error) {
	evts := []dashboard.StatusEvent{}
	query := r.db.Rebind(`
		SELECT status, occurred_at
		FROM change_request_events
		WHERE occurred_at >= ? AND occurred_at < ?
		ORDER BY occurred_at ASC`)
	err := r.db.SelectContext(ctx, &evts, query, from, to)
	return evts, err
}
