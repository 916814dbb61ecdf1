package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/sakti/internal"
	"github.com/frahmantamala/sakti/internal/core/user"
)

// Service is the main auth service with dependencies
type Service struct {
	authenticator  Authenticator
	tokenGenerator TokenGenerator
	revoked        *RevocationList
	logger         *slog.Logger
}

// NewService creates a new auth service
func NewService(authenticator Authenticator, tokenGen TokenGenerator, revoked *RevocationList, logger *slog.Logger) *Service {
	return &Service{
		authenticator:  authenticator,
		tokenGenerator: tokenGen,
		revoked:        revoked,
		logger:         logger,
	}
}

// Login checks the credentials and issues an access token. Every credential
// problem, including a malformed request, surfaces as ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*LoginResult, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Info("login rejected", "reason", err.Error())
		return nil, internal.ErrInvalidCredentials
	}

	u, err := s.authenticator.Authenticate(ctx, dto.Username, dto.Password)
	if err != nil {
		if errors.Is(err, internal.ErrInvalidCredentials) {
			s.logger.Info("login failed", "username", dto.Username)
			return nil, internal.ErrInvalidCredentials
		}
		return nil, internal.NewInternalError("authentication unavailable", err)
	}

	token, claims, err := s.tokenGenerator.GenerateAccessToken(u)
	if err != nil {
		return nil, internal.NewInternalError("failed to issue token", err)
	}

	s.logger.Info("login succeeded", "user_id", u.ID, "role", u.Role)
	return &LoginResult{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      u,
	}, nil
}

// Logout revokes the token described by claims.
func (s *Service) Logout(_ context.Context, claims *Claims) error {
	if claims == nil {
		return internal.ErrInvalidToken
	}
	s.revoked.Revoke(claims.ID, claims.ExpiresAt.Time)
	s.logger.Info("token revoked", "user_id", claims.UserID, "jti", claims.ID)
	return nil
}

func (s *Service) Profile(ctx context.Context, userID string) (*user.User, error) {
	u, err := s.authenticator.Lookup(ctx, userID)
	if err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		return nil, internal.NewInternalError("failed to load profile", err)
	}
	return u, nil
}

// ValidateAccessToken validates access token and returns claims
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims, err := s.tokenGenerator.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if s.revoked.IsRevoked(claims.ID) {
		return nil, internal.ErrTokenRevoked
	}
	return claims, nil
}
