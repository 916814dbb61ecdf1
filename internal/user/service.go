package user

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	userDatamodel "github.com/frahmantamala/sakti/internal/core/datamodel/user"
	"github.com/frahmantamala/sakti/internal/role"
)

type Repository interface {
	FindByUsername(ctx context.Context, username string) (*userDatamodel.User, error)
	FindByID(ctx context.Context, id string) (*userDatamodel.User, error)
	IDsByRole(ctx context.Context, roles ...string) ([]string, error)
	Upsert(ctx context.Context, u *userDatamodel.User) error
}

type Service struct {
	repo       Repository
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// RecipientIDs returns the ids of active users holding any of roles.
func (s *Service) RecipientIDs(ctx context.Context, roles ...role.Role) ([]string, error) {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.String()
	}
	ids, err := s.repo.IDsByRole(ctx, names...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users by role: %w", err)
	}
	return ids, nil
}

// Provision creates or refreshes accounts, hashing their passwords.
func (s *Service) Provision(ctx context.Context, accounts []Account) error {
	for _, a := range accounts {
		if !a.Role.Valid() {
			return fmt.Errorf("account %s: invalid role %q", a.Username, a.Role)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), s.bcryptCost)
		if err != nil {
			return fmt.Errorf("failed to hash password for %s: %w", a.Username, err)
		}
		if err := s.repo.Upsert(ctx, ToDataModel(&a.User, string(hash))); err != nil {
			return fmt.Errorf("failed to save %s: %w", a.Username, err)
		}
		s.logger.Info("user provisioned", "username", a.Username, "role", a.Role)
	}
	return nil
}
