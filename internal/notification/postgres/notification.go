package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	notificationDatamodel "github.com/frahmantamala/sakti/internal/core/datamodel/notification"
	"github.com/frahmantamala/sakti/internal/notification"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) notification.RepositoryAPI {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID string) ([]*notificationDatamodel.Notification, error) {
	var records []*notificationDatamodel.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id ASC").
		Find(&records).Error
	return records, err
}

func (r *NotificationRepository) CreateBatch(ctx context.Context, items []*notificationDatamodel.Notification) error {
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *NotificationRepository) MarkRead(ctx context.Context, userID, id string) (*notificationDatamodel.Notification, error) {
	var record notificationDatamodel.Notification
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notification.ErrNotFound
			}
			return err
		}
		if record.Read {
			return nil
		}
		record.Read = true
		return tx.Model(&record).Update("is_read", true).Error
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}
