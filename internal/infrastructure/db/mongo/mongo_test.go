package mongo

import (
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/teatree/storefront-api/internal/core/domain"
)

func TestOrderKey_MatchesBothFields(t *testing.T) {
	key := orderKey("a@x.com", "green-tea")
	if len(key) != 2 {
		t.Fatalf("expected 2 filter clauses, got %d", len(key))
	}
	m := key.Map()
	if m["email"] != "a@x.com" || m["product"] != "green-tea" {
		t.Fatalf("unexpected filter: %+v", m)
	}
}

func TestUpsertIdentityUpdate_NeverSetsRoleFromProfile(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	update := upsertIdentityUpdate("a@x.com", map[string]any{"name": "Alice", "address": map[string]any{"city": "Dhaka"}}, now)

	set, ok := update["$set"].(bson.M)
	if !ok {
		t.Fatalf("missing $set")
	}
	if set["profile.name"] != "Alice" {
		t.Fatalf("profile field not set: %+v", set)
	}
	if address, ok := set["profile.address"].(map[string]any); !ok || address["city"] != "Dhaka" {
		t.Fatalf("nested profile field not set: %+v", set)
	}
	if _, exists := set["role"]; exists {
		t.Fatalf("$set must not touch role")
	}

	onInsert, ok := update["$setOnInsert"].(bson.M)
	if !ok {
		t.Fatalf("missing $setOnInsert")
	}
	if onInsert["role"] != domain.RoleCustomer {
		t.Fatalf("new identities must start as customers, got %v", onInsert["role"])
	}
	if onInsert["email"] != "a@x.com" {
		t.Fatalf("unexpected email: %v", onInsert["email"])
	}
}

func TestObjectID_MalformedIsNotFound(t *testing.T) {
	if _, err := objectID("not-an-id", domain.ErrOrderNotFound); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}

	want := primitive.NewObjectID()
	got, err := objectID(want.Hex(), domain.ErrOrderNotFound)
	if err != nil || got != want {
		t.Fatalf("expected %s, got %s (%v)", want.Hex(), got.Hex(), err)
	}
}

func TestStoreErr_WrapsStoreUnavailable(t *testing.T) {
	cause := errors.New("connection reset")
	err := storeErr("find order", cause)
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable in chain")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause in chain")
	}
}

func TestUnreconciledPipeline_FiltersUnpaidOrders(t *testing.T) {
	pipeline := unreconciledPipeline(10)
	if len(pipeline) != 6 {
		t.Fatalf("expected 6 stages, got %d", len(pipeline))
	}
	if pipeline[0][0].Key != "$lookup" || pipeline[1][0].Key != "$unwind" || pipeline[2][0].Key != "$match" {
		t.Fatalf("unexpected stage order: %v", pipeline)
	}
	if pipeline[4][0].Value != 10 {
		t.Fatalf("expected limit 10, got %v", pipeline[4][0].Value)
	}
}
