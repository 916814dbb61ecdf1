package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/sakti/internal"
	userDatamodel "github.com/frahmantamala/sakti/internal/core/datamodel/user"
	"github.com/frahmantamala/sakti/internal/core/user"
	"github.com/frahmantamala/sakti/internal/role"
	userDir "github.com/frahmantamala/sakti/internal/user"
)

type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*userDatamodel.User, error)
	FindByID(ctx context.Context, id string) (*userDatamodel.User, error)
}

// BackendAuthenticator checks credentials against the users table. The
// repository reports unknown ids and usernames as user.ErrNotFound.
type BackendAuthenticator struct {
	repo UserRepository
}

func NewBackendAuthenticator(repo UserRepository) *BackendAuthenticator {
	return &BackendAuthenticator{repo: repo}
}

// compared when the username is unknown so both failure paths cost a bcrypt run
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("sakti-dummy-password"), bcrypt.MinCost)

func (a *BackendAuthenticator) Authenticate(ctx context.Context, username, password string) (*user.User, error) {
	record, err := a.repo.FindByUsername(ctx, username)
	if errors.Is(err, userDir.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, internal.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(password)); err != nil {
		return nil, internal.ErrInvalidCredentials
	}
	if !record.IsActive {
		return nil, internal.ErrInvalidCredentials
	}

	return userDir.FromDataModel(record)
}

func (a *BackendAuthenticator) Lookup(ctx context.Context, userID string) (*user.User, error) {
	record, err := a.repo.FindByID(ctx, userID)
	if errors.Is(err, userDir.ErrNotFound) {
		return nil, internal.ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !record.IsActive {
		return nil, internal.ErrInvalidToken
	}
	return userDir.FromDataModel(record)
}

const MockPassword = "123456"

type mockCredential struct {
	user     user.User
	password string
}

// MockAuthenticator serves a fixed credential table, one account per role.
// It is only active when configured and never acts as a fallback.
type MockAuthenticator struct {
	byUsername map[string]mockCredential
	byID       map[string]mockCredential
}

// MockUsers are the accounts of the mock credential table. The seeder writes
// the same accounts to the database.
func MockUsers() []user.User {
	return []user.User{
		{ID: "usr-teknisi", Username: "teknisi", Name: "Teknisi Lapangan", Email: "teknisi@sakti.go.id", Role: role.Teknisi, Instansi: "Dinas Komunikasi dan Informatika"},
		{ID: "usr-kasi", Username: "kasi", Name: "Kepala Seksi Infrastruktur", Email: "kasi@sakti.go.id", Role: role.Kasi, Instansi: "Dinas Komunikasi dan Informatika"},
		{ID: "usr-kabid", Username: "kabid", Name: "Kepala Bidang TIK", Email: "kabid@sakti.go.id", Role: role.Kabid, Instansi: "Dinas Komunikasi dan Informatika"},
		{ID: "usr-diskominfo", Username: "diskominfo", Name: "Admin Diskominfo", Email: "admin@sakti.go.id", Role: role.Diskominfo, Instansi: "Diskominfo"},
	}
}

func NewMockAuthenticator() *MockAuthenticator {
	a := &MockAuthenticator{
		byUsername: map[string]mockCredential{},
		byID:       map[string]mockCredential{},
	}
	for _, u := range MockUsers() {
		cred := mockCredential{user: u, password: MockPassword}
		a.byUsername[u.Username] = cred
		a.byID[u.ID] = cred
	}
	return a
}

func (a *MockAuthenticator) Authenticate(_ context.Context, username, password string) (*user.User, error) {
	cred, ok := a.byUsername[username]
	if !ok || cred.password != password {
		return nil, internal.ErrInvalidCredentials
	}
	u := cred.user
	return &u, nil
}

func (a *MockAuthenticator) Lookup(_ context.Context, userID string) (*user.User, error) {
	cred, ok := a.byID[userID]
	if !ok {
		return nil, internal.ErrInvalidToken
	}
	u := cred.user
	return &u, nil
}
