package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/sakti/internal/approval"
	approvalDatamodel "github.com/frahmantamala/sakti/internal/core/datamodel/approval"
)

type ApprovalRepository struct {
	db *gorm.DB
}

func NewApprovalRepository(db *gorm.DB) approval.RepositoryAPI {
	return &ApprovalRepository{db: db}
}

func (r *ApprovalRepository) List(ctx context.Context) ([]*approvalDatamodel.Approval, error) {
	var records []*approvalDatamodel.Approval
	err := r.db.WithContext(ctx).Order("id ASC").Find(&records).Error
	return records, err
}

func (r *ApprovalRepository) GetByID(ctx context.Context, id int64) (*approvalDatamodel.Approval, error) {
	var record approvalDatamodel.Approval
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, approval.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *ApprovalRepository) Create(ctx context.Context, a *approvalDatamodel.Approval) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *ApprovalRepository) Decide(ctx context.Context, id int64, d approval.Decision) (*approvalDatamodel.Approval, error) {
	var record approvalDatamodel.Approval
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":     string(d.Status),
			"decided_by": d.DecidedBy,
			"decided_at": d.At,
		}
		if d.Reason != "" {
			updates["reason"] = d.Reason
		}

		// only pending rows transition
		res := tx.Model(&approvalDatamodel.Approval{}).
			Where("id = ? AND status = ?", id, string(approval.StatusNeedApproval)).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}

		if err := tx.Where("id = ?", id).First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return approval.ErrNotFound
			}
			return err
		}
		if res.RowsAffected == 0 {
			return approval.ErrAlreadyDecided
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}
