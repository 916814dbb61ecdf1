package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/frahmantamala/sakti/internal/core/user"
	"github.com/frahmantamala/sakti/internal/role"
)

// Authenticator is the credential source behind login. Exactly one is active,
// chosen by configuration.
type Authenticator interface {
	// Authenticate returns internal.ErrInvalidCredentials for any credential
	// mismatch. Other errors mean the source itself failed.
	Authenticate(ctx context.Context, username, password string) (*user.User, error)
	// Lookup resolves the subject of an access token.
	Lookup(ctx context.Context, userID string) (*user.User, error)
}

// TokenGenerator creates and validates access tokens.
type TokenGenerator interface {
	GenerateAccessToken(u *user.User) (token string, claims *Claims, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Claims represents JWT token claims
type Claims struct {
	UserID   string    `json:"user_id"`
	Username string    `json:"username"`
	Role     role.Role `json:"role"`
	jwt.RegisteredClaims
}

// LoginResult is the data of a successful login response.
type LoginResult struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      *user.User `json:"user"`
}

type ServiceAPI interface {
	Login(ctx context.Context, dto LoginDTO) (*LoginResult, error)
	Logout(ctx context.Context, claims *Claims) error
	Profile(ctx context.Context, userID string) (*user.User, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
}
