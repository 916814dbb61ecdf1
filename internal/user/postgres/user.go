package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	userDatamodel "github.com/frahmantamala/sakti/internal/core/datamodel/user"
	"github.com/frahmantamala/sakti/internal/user"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) IDsByRole(ctx context.Context, roles ...string) ([]string, error) {
	ids := []string{}
	if len(roles) == 0 {
		return ids, nil
	}
	err := r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("role IN ? AND is_active = ?", roles, true).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}

// Upsert inserts u or, when the id exists, overwrites its mutable columns.
func (r *UserRepository) Upsert(ctx context.Context, u *userDatamodel.User) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "email", "name", "password_hash", "role", "instansi", "is_active", "updated_at"}),
	}).Create(u).Error
}
