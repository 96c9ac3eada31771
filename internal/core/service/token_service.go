package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/teatree/storefront-api/internal/core/domain"
	"github.com/teatree/storefront-api/internal/core/ports"
)

const DefaultTokenTTL = time.Hour

// sessionClaims is the token payload: {email, exp} plus iat and jti.
type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 session tokens.
type TokenService struct {
	secret   []byte
	tokenTTL time.Duration
	revoked  ports.RevocationStore
	now      func() time.Time
}

// NewTokenService fails when the signing key is empty; callers treat that as a
// startup error. revoked may be nil, in which case tokens live until expiry.
func NewTokenService(secret string, tokenTTL time.Duration, revoked ports.RevocationStore) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token service: empty signing key")
	}
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), tokenTTL: tokenTTL, revoked: revoked, now: time.Now}, nil
}

func (s *TokenService) Issue(email string) (string, error) {
	now := s.now()
	claims := sessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

func (s *TokenService) Verify(ctx context.Context, token string) (string, error) {
	claims, err := s.parse(token)
	if err != nil {
		return "", err
	}

	if s.revoked != nil && claims.ID != "" {
		revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return "", fmt.Errorf("verify token: %w", err)
		}
		if revoked {
			return "", domain.ErrTokenRevoked
		}
	}

	return claims.Email, nil
}

// Revoke denylists a valid token until its natural expiry. Without a
// revocation store it is a no-op.
func (s *TokenService) Revoke(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return err
	}
	if s.revoked == nil || claims.ID == "" {
		return nil
	}

	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	return s.revoked.Revoke(ctx, claims.ID, ttl)
}

func (s *TokenService) parse(token string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if claims.Email == "" {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}
