package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/frahmantamala/sakti/internal"
	"github.com/frahmantamala/sakti/internal/core/user"
)

const issuer = "sakti"

type JWTTokenGenerator struct {
	Secret         []byte
	AccessTokenTTL time.Duration
	now            func() time.Time
}

// NewJWTTokenGenerator creates a new JWT token generator
func NewJWTTokenGenerator(secret string, ttl time.Duration) *JWTTokenGenerator {
	return &JWTTokenGenerator{
		Secret:         []byte(secret),
		AccessTokenTTL: ttl,
		now:            time.Now,
	}
}

// GenerateAccessToken signs an HS256 token carrying the user id, username and
// role. Every token gets its own jti so it can be revoked individually.
func (j *JWTTokenGenerator) GenerateAccessToken(u *user.User) (string, *Claims, error) {
	now := j.now()
	claims := &Claims{
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.AccessTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.Secret)
	if err != nil {
		return "", nil, err
	}

	return tokenString, claims, nil
}

// ValidateToken validates a JWT token and returns claims
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(j.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" || claims.ID == "" {
		return nil, internal.ErrInvalidToken
	}

	return claims, nil
}
