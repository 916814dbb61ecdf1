// Package seed loads the reference data set used for demos and tests.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	approvalDatamodel "github.com/frahmantamala/sakti/internal/core/datamodel/approval"
	crDatamodel "github.com/frahmantamala/sakti/internal/core/datamodel/changerequest"
	notificationDatamodel "github.com/frahmantamala/sakti/internal/core/datamodel/notification"
	"github.com/frahmantamala/sakti/internal/user"
)

type Seeder struct {
	db     *gorm.DB
	users  *user.Service
	logger *slog.Logger
}

func NewSeeder(db *gorm.DB, users *user.Service, logger *slog.Logger) *Seeder {
	return &Seeder{db: db, users: users, logger: logger}
}

// Run provisions the accounts and inserts the reference records. Records that
// already exist are left untouched, so running it twice is harmless.
func (s *Seeder) Run(ctx context.Context) error {
	if err := s.users.Provision(ctx, Accounts()); err != nil {
		return err
	}

	db := s.db.WithContext(ctx)
	for _, cr := range ChangeRequests() {
		var count int64
		if err := db.Model(&crDatamodel.ChangeRequest{}).Where("id = ?", cr.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check %s: %w", cr.ID, err)
		}
		if count > 0 {
			s.logger.Info("change request already seeded", "id", cr.ID)
			continue
		}
		if err := db.Create(cr).Error; err != nil {
			return fmt.Errorf("failed to seed %s: %w", cr.ID, err)
		}
		s.logger.Info("seeded change request", "id", cr.ID)
	}

	approvals := Approvals()
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&approvals).Error; err != nil {
		return fmt.Errorf("failed to seed approvals: %w", err)
	}
	s.logger.Info("seeded approvals", "count", len(approvals))

	// explicit ids do not advance a postgres serial
	if s.db.Dialector.Name() == "postgres" {
		if err := db.Exec("SELECT setval(pg_get_serial_sequence('approvals', 'id'), (SELECT COALESCE(MAX(id), 1) FROM approvals))").Error; err != nil {
			return fmt.Errorf("failed to reset approval sequence: %w", err)
		}
	}

	return nil
}

// Clear deletes every domain row, children first.
func (s *Seeder) Clear(ctx context.Context) error {
	db := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range []interface{}{
		&notificationDatamodel.Notification{},
		&approvalDatamodel.Approval{},
		&crDatamodel.StatusEvent{},
		&crDatamodel.Schedule{},
		&crDatamodel.Inspection{},
		&crDatamodel.AffectedAsset{},
		&crDatamodel.ChangeRequest{},
		&crDatamodel.PatchJob{},
	} {
		if err := db.Delete(model).Error; err != nil {
			return fmt.Errorf("failed to clear %T: %w", model, err)
		}
	}
	s.logger.Info("cleared seeded data")
	return nil
}
