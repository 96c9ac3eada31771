package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/teatree/storefront-api/internal/core/domain"
)

func newIdentitySvc(t *testing.T) (*IdentityService, *stubIdentityRepo, *TokenService) {
	t.Helper()
	repo := newStubIdentityRepo()
	tokens, err := NewTokenService("test-secret", time.Hour, nil)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	return NewIdentityService(repo, tokens, nopLogger()), repo, tokens
}

func TestIdentityService_Upsert_CreatesCustomerAndIssuesToken(t *testing.T) {
	svc, repo, tokens := newIdentitySvc(t)

	res, err := svc.Upsert(context.Background(), " A@X.io ", map[string]any{"name": "Ann"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Created {
		t.Fatal("expected created=true on first upsert")
	}

	email, err := tokens.Verify(context.Background(), res.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if email != "a@x.io" {
		t.Fatalf("expected normalised email in token, got %q", email)
	}

	stored := repo.identities["a@x.io"]
	if stored == nil || stored.Role != domain.RoleCustomer || stored.Profile["name"] != "Ann" {
		t.Fatalf("unexpected stored identity: %+v", stored)
	}
}

func TestIdentityService_Upsert_SecondCallUpdates(t *testing.T) {
	svc, repo, _ := newIdentitySvc(t)
	ctx := context.Background()

	_, _ = svc.Upsert(ctx, "a@x.io", map[string]any{"name": "Ann"})
	res, err := svc.Upsert(ctx, "a@x.io", map[string]any{"phone": "555"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Created {
		t.Fatal("expected created=false on update")
	}
	if got := repo.identities["a@x.io"].Profile; got["name"] != "Ann" || got["phone"] != "555" {
		t.Fatalf("expected merged profile, got %v", got)
	}
}

func TestIdentityService_Upsert_RejectsReservedAndOperatorKeys(t *testing.T) {
	svc, repo, _ := newIdentitySvc(t)

	for _, profile := range []map[string]any{
		{"role": "admin"},
		{"Role": "admin"},
		{"email": "b@x.io"},
		{"email": 42},
		{"$set": "x"},
		{"profile.role": "admin"},
		{"": "x"},
	} {
		_, err := svc.Upsert(context.Background(), "a@x.io", profile)
		if !errors.Is(err, domain.ErrInvalidProfile) {
			t.Fatalf("%v: expected ErrInvalidProfile, got %v", profile, err)
		}
	}
	if len(repo.identities) != 0 {
		t.Fatal("rejected upserts must not write")
	}
}

func TestIdentityService_Upsert_StoresTypedAndNestedFields(t *testing.T) {
	svc, repo, _ := newIdentitySvc(t)

	address := map[string]any{"city": "Dhaka"}
	_, err := svc.Upsert(context.Background(), "a@x.io", map[string]any{
		"name":    "Ann",
		"age":     float64(30),
		"vip":     true,
		"address": address,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := repo.identities["a@x.io"].Profile
	if got["age"] != float64(30) || got["vip"] != true {
		t.Fatalf("scalar fields not stored: %v", got)
	}
	nested, ok := got["address"].(map[string]any)
	if !ok || nested["city"] != "Dhaka" {
		t.Fatalf("nested field not stored: %v", got["address"])
	}
}

func TestIdentityService_Upsert_MatchingEmailFieldIsDropped(t *testing.T) {
	svc, repo, _ := newIdentitySvc(t)

	profile := map[string]any{"email": " A@x.io ", "name": "Ann"}
	res, err := svc.Upsert(context.Background(), "a@x.io", profile)
	if err != nil {
		t.Fatalf("login body must be accepted: %v", err)
	}
	if res.Token == "" {
		t.Fatal("expected a session token")
	}

	stored := repo.identities["a@x.io"].Profile
	if _, exists := stored["email"]; exists {
		t.Fatalf("email must not be written into the profile: %v", stored)
	}
	if stored["name"] != "Ann" {
		t.Fatalf("expected name to be stored, got %v", stored)
	}
	if _, exists := profile["email"]; !exists {
		t.Fatal("caller's map must not be modified")
	}
}

func TestIdentityService_Upsert_EmptyEmail(t *testing.T) {
	svc, _, _ := newIdentitySvc(t)
	if _, err := svc.Upsert(context.Background(), "  ", nil); !errors.Is(err, domain.ErrInvalidProfile) {
		t.Fatalf("expected ErrInvalidProfile, got %v", err)
	}
}

func TestIdentityService_IsAdmin(t *testing.T) {
	svc, repo, _ := newIdentitySvc(t)
	ctx := context.Background()
	repo.identities["root@x.io"] = &domain.Identity{Email: "root@x.io", Role: domain.RoleAdmin}
	repo.identities["a@x.io"] = &domain.Identity{Email: "a@x.io", Role: domain.RoleCustomer}

	cases := map[string]bool{
		"root@x.io":  true,
		"ROOT@x.io":  true,
		"a@x.io":     false,
		"ghost@x.io": false,
	}
	for email, want := range cases {
		got, err := svc.IsAdmin(ctx, email)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", email, err)
		}
		if got != want {
			t.Fatalf("%s: expected %v, got %v", email, want, got)
		}
	}
}

func TestIdentityService_IsAdmin_StoreErrorPropagates(t *testing.T) {
	svc, repo, _ := newIdentitySvc(t)
	repo.findErr = domain.ErrStoreUnavailable

	if _, err := svc.IsAdmin(context.Background(), "a@x.io"); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestIdentityService_PromoteToAdmin(t *testing.T) {
	svc, _, _ := newIdentitySvc(t)
	ctx := context.Background()
	_, _ = svc.Upsert(ctx, "a@x.io", nil)

	if err := svc.PromoteToAdmin(ctx, "A@x.io"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok, _ := svc.IsAdmin(ctx, "a@x.io"); !ok {
		t.Fatal("expected admin after promotion")
	}

	if err := svc.PromoteToAdmin(ctx, "ghost@x.io"); !errors.Is(err, domain.ErrIdentityNotFound) {
		t.Fatalf("expected ErrIdentityNotFound, got %v", err)
	}
}
