package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/teatree/storefront-api/internal/api/middleware"
	"github.com/teatree/storefront-api/internal/core/domain"
	"github.com/teatree/storefront-api/internal/core/ports"
)

func seededIdentities() *stubIdentityService {
	return &stubIdentityService{identities: map[string]*domain.Identity{
		"root@x.io": {Email: "root@x.io", Role: domain.RoleAdmin},
		"a@x.io":    {Email: "a@x.io", Role: domain.RoleCustomer},
		"b@x.io":    {Email: "b@x.io", Role: domain.RoleCustomer},
	}}
}

func TestIdentityHandler_Upsert(t *testing.T) {
	var gotEmail string
	var gotProfile map[string]any
	stub := &stubIdentityService{
		upsertFn: func(email string, profile map[string]any) (*ports.UpsertIdentityResult, error) {
			gotEmail, gotProfile = email, profile
			return &ports.UpsertIdentityResult{Created: true, Token: "tok"}, nil
		},
	}
	h := NewIdentityHandler(stub, &stubTokenService{})

	c, rec := newContext(http.MethodPut, "/user/a@x.io", `{"name":"Ann"}`, "")
	c.SetParamNames("email")
	c.SetParamValues("a@x.io")
	if err := h.Upsert(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp upsertIdentityResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Created || resp.Token != "tok" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if gotEmail != "a@x.io" {
		t.Fatalf("expected path email, got %q", gotEmail)
	}
	if len(gotProfile) != 1 || gotProfile["name"] != "Ann" {
		t.Fatalf("path params must not leak into the profile, got %v", gotProfile)
	}
}

func TestIdentityHandler_Upsert_TypedAndNestedFields(t *testing.T) {
	cases := map[string]string{
		"numeric": `{"name":"Ann","age":30}`,
		"nested":  `{"name":"Ann","address":{"city":"Dhaka"}}`,
		"login":   `{"email":"a@x.io"}`,
	}
	for name, body := range cases {
		var gotProfile map[string]any
		stub := &stubIdentityService{
			upsertFn: func(_ string, profile map[string]any) (*ports.UpsertIdentityResult, error) {
				gotProfile = profile
				return &ports.UpsertIdentityResult{Token: "tok"}, nil
			},
		}
		h := NewIdentityHandler(stub, &stubTokenService{})

		c, rec := newContext(http.MethodPut, "/user/a@x.io", body, "")
		c.SetParamNames("email")
		c.SetParamValues("a@x.io")
		if err := h.Upsert(c); err != nil {
			t.Fatalf("%s: handler error: %v", name, err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", name, rec.Code)
		}

		switch name {
		case "numeric":
			if gotProfile["age"] != float64(30) {
				t.Fatalf("%s: expected age 30, got %v", name, gotProfile["age"])
			}
		case "nested":
			address, ok := gotProfile["address"].(map[string]any)
			if !ok || address["city"] != "Dhaka" {
				t.Fatalf("%s: expected nested address, got %v", name, gotProfile["address"])
			}
		case "login":
			if gotProfile["email"] != "a@x.io" {
				t.Fatalf("%s: expected email forwarded to the service, got %v", name, gotProfile)
			}
		}
	}
}

func TestIdentityHandler_Upsert_InvalidProfile(t *testing.T) {
	stub := &stubIdentityService{
		upsertFn: func(string, map[string]any) (*ports.UpsertIdentityResult, error) {
			return nil, domain.ErrInvalidProfile
		},
	}
	h := NewIdentityHandler(stub, &stubTokenService{})

	c, _ := newContext(http.MethodPut, "/user/a@x.io", `{"role":"admin"}`, "")
	c.SetParamNames("email")
	c.SetParamValues("a@x.io")
	if err := h.Upsert(c); !errors.Is(err, domain.ErrInvalidProfile) {
		t.Fatalf("expected ErrInvalidProfile, got %v", err)
	}
}

func TestIdentityHandler_AdminStatus(t *testing.T) {
	h := NewIdentityHandler(seededIdentities(), &stubTokenService{})

	cases := map[string]bool{"root@x.io": true, "a@x.io": false, "ghost@x.io": false}
	for email, want := range cases {
		c, rec := newContext(http.MethodGet, "/admin/"+email, "", "")
		c.SetParamNames("email")
		c.SetParamValues(email)
		if err := h.AdminStatus(c); err != nil {
			t.Fatalf("%s: handler error: %v", email, err)
		}
		var resp adminStatusResponse
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		if resp.Admin != want {
			t.Fatalf("%s: expected admin=%v, got %v", email, want, resp.Admin)
		}
	}
}

func TestIdentityHandler_Get_SelfOrAdmin(t *testing.T) {
	cases := []struct {
		caller string
		want   error
	}{
		{"a@x.io", nil},
		{"root@x.io", nil},
		{"b@x.io", domain.ErrForbidden},
	}
	for _, tc := range cases {
		h := NewIdentityHandler(seededIdentities(), &stubTokenService{})
		c, _ := newContext(http.MethodGet, "/user/a@x.io", "", tc.caller)
		c.SetParamNames("email")
		c.SetParamValues("a@x.io")
		if err := h.Get(c); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.caller, tc.want, err)
		}
	}
}

func TestIdentityHandler_Promote(t *testing.T) {
	stub := seededIdentities()
	h := NewIdentityHandler(stub, &stubTokenService{})

	c, rec := newContext(http.MethodPut, "/user/admin/a@x.io", "", "root@x.io")
	c.SetParamNames("email")
	c.SetParamValues("a@x.io")
	if err := h.Promote(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || len(stub.promoted) != 1 || stub.promoted[0] != "a@x.io" {
		t.Fatalf("unexpected promotion: code=%d promoted=%v", rec.Code, stub.promoted)
	}
}

func TestIdentityHandler_Logout(t *testing.T) {
	tokens := &stubTokenService{}
	h := NewIdentityHandler(seededIdentities(), tokens)

	c, rec := newContext(http.MethodDelete, "/session", "", "a@x.io")
	c.Set(middleware.ContextToken, "raw-token")
	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if len(tokens.revoked) != 1 || tokens.revoked[0] != "raw-token" {
		t.Fatalf("unexpected revocations: %v", tokens.revoked)
	}

	c, _ = newContext(http.MethodDelete, "/session", "", "")
	if err := h.Logout(c); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
