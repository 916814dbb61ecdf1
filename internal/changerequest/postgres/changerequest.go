package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/sakti/internal/changerequest"
	crDatamodel "github.com/frahmantamala/sakti/internal/core/datamodel/changerequest"
)

const (
	idPrefix = "CR-"

	// idAttempts bounds retries when a concurrent create takes the same id.
	idAttempts = 5
)

type ChangeRequestRepository struct {
	db *gorm.DB
}

func NewChangeRequestRepository(db *gorm.DB) changerequest.RepositoryAPI {
	return &ChangeRequestRepository{db: db}
}

func (r *ChangeRequestRepository) List(ctx context.Context) ([]*crDatamodel.ChangeRequest, error) {
	var records []*crDatamodel.ChangeRequest
	err := r.db.WithContext(ctx).
		Preload("Inspection").
		Order("created_at ASC, id ASC").
		Find(&records).Error
	return records, err
}

func (r *ChangeRequestRepository) GetByID(ctx context.Context, id string) (*crDatamodel.ChangeRequest, error) {
	var record crDatamodel.ChangeRequest
	err := r.db.WithContext(ctx).
		Preload("AffectedAssets", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Inspection").
		Preload("Schedule").
		Preload("Tracking", func(db *gorm.DB) *gorm.DB { return db.Order("occurred_at ASC, id ASC") }).
		Where("id = ?", id).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, changerequest.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Create stores cr. Without an id it allocates the next CR-NNN and tries
// again with a fresh one if another writer claimed it first.
func (r *ChangeRequestRepository) Create(ctx context.Context, cr *crDatamodel.ChangeRequest) error {
	if cr.ID != "" {
		return r.db.WithContext(ctx).Create(cr).Error
	}

	var err error
	for attempt := 0; attempt < idAttempts; attempt++ {
		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			id, err := nextID(tx)
			if err != nil {
				return err
			}
			cr.ID = id
			return tx.Create(cr).Error
		})
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		cr.ID = ""
	}
	return fmt.Errorf("failed to allocate a change request id: %w", err)
}

// nextID returns CR-NNN one past the highest numeric suffix in use.
func nextID(tx *gorm.DB) (string, error) {
	var ids []string
	if err := tx.Model(&crDatamodel.ChangeRequest{}).Where("id LIKE ?", idPrefix+"%").Pluck("id", &ids).Error; err != nil {
		return "", fmt.Errorf("failed to read change request ids: %w", err)
	}

	highest := 0
	for _, id := range ids {
		n, err := strconv.Atoi(strings.TrimPrefix(id, idPrefix))
		if err == nil && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s%03d", idPrefix, highest+1), nil
}

func (r *ChangeRequestRepository) UpdateStatus(ctx context.Context, id string, status string, actor string, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&crDatamodel.ChangeRequest{}).Where("id = ?", id).Update("status", status)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return changerequest.ErrNotFound
		}
		return tx.Create(&crDatamodel.StatusEvent{
			ChangeRequestID: id,
			Status:          status,
			Actor:           actor,
			OccurredAt:      at,
		}).Error
	})
}
