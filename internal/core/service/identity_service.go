package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/teatree/storefront-api/internal/core/domain"
	"github.com/teatree/storefront-api/internal/core/ports"
)

type IdentityService struct {
	repo   ports.IdentityRepository
	tokens ports.TokenService
	logger zerolog.Logger
}

func NewIdentityService(repo ports.IdentityRepository, tokens ports.TokenService, logger zerolog.Logger) *IdentityService {
	return &IdentityService{repo: repo, tokens: tokens, logger: logger}
}

// Upsert creates or updates the identity's profile and issues a fresh session
// token for it. The role is never taken from the profile, and an email field
// is accepted only when it names the identity being upserted.
func (s *IdentityService) Upsert(ctx context.Context, email string, profile map[string]any) (*ports.UpsertIdentityResult, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrInvalidProfile)
	}
	profile, err := sanitizeProfile(email, profile)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Upsert(ctx, email, profile)
	if err != nil {
		return nil, fmt.Errorf("upsert identity: %w", err)
	}

	token, err := s.tokens.Issue(email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	if created {
		s.logger.Info().Str("email", email).Msg("identity created")
	}
	return &ports.UpsertIdentityResult{Created: created, Token: token}, nil
}

func (s *IdentityService) Get(ctx context.Context, email string) (*domain.Identity, error) {
	return s.repo.FindByEmail(ctx, normalizeEmail(email))
}

func (s *IdentityService) List(ctx context.Context) ([]*domain.Identity, error) {
	return s.repo.List(ctx)
}

// IsAdmin treats a missing identity as a non-admin rather than an error.
func (s *IdentityService) IsAdmin(ctx context.Context, email string) (bool, error) {
	identity, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrIdentityNotFound) {
			return false, nil
		}
		return false, err
	}
	return identity.IsAdmin(), nil
}

func (s *IdentityService) PromoteToAdmin(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if err := s.repo.SetRole(ctx, email, domain.RoleAdmin); err != nil {
		return err
	}
	s.logger.Info().Str("email", email).Msg("identity promoted to admin")
	return nil
}

// sanitizeProfile returns a copy of profile safe to $set: operator and dotted
// keys are refused, role is refused, and a matching email field is dropped.
func sanitizeProfile(email string, profile map[string]any) (map[string]any, error) {
	clean := make(map[string]any, len(profile))
	for k, v := range profile {
		if k == "" || strings.ContainsAny(k, "$.") {
			return nil, fmt.Errorf("%w: field %q is not allowed", domain.ErrInvalidProfile, k)
		}
		switch strings.ToLower(k) {
		case "role":
			return nil, fmt.Errorf("%w: field %q is reserved", domain.ErrInvalidProfile, k)
		case "email":
			if given, ok := v.(string); !ok || normalizeEmail(given) != email {
				return nil, fmt.Errorf("%w: field %q does not match the identity", domain.ErrInvalidProfile, k)
			}
			continue
		}
		clean[k] = v
	}
	return clean, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
