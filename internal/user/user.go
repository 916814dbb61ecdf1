// Package user is the directory of SAKTI accounts backing the backend
// authenticator and notification fan-out.
package user

import (
	"errors"
	"fmt"

	userDatamodel "github.com/frahmantamala/sakti/internal/core/datamodel/user"
	coreUser "github.com/frahmantamala/sakti/internal/core/user"
	"github.com/frahmantamala/sakti/internal/role"
)

var ErrNotFound = errors.New("user not found")

// Account is a user together with the secret the seeder provisions.
type Account struct {
	coreUser.User
	Password string
}

func FromDataModel(u *userDatamodel.User) (*coreUser.User, error) {
	r, err := role.Parse(u.Role)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", u.ID, err)
	}
	return &coreUser.User{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Email:    u.Email,
		Role:     r,
		Instansi: u.Instansi,
	}, nil
}

func ToDataModel(u *coreUser.User, passwordHash string) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: passwordHash,
		Role:         u.Role.String(),
		Instansi:     u.Instansi,
		IsActive:     true,
	}
}
