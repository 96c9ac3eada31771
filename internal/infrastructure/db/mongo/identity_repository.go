package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/teatree/storefront-api/internal/core/domain"
)

const collectionUsers = "users"

type IdentityRepository struct {
	col *mongo.Collection
}

func NewIdentityRepository(db *mongo.Database) *IdentityRepository {
	return &IdentityRepository{col: db.Collection(collectionUsers)}
}

// Upsert sets profile fields individually so a partial update never clobbers
// fields it does not mention. New identities start as customers.
func (r *IdentityRepository) Upsert(ctx context.Context, email string, profile map[string]any) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"email": email}, upsertIdentityUpdate(email, profile, time.Now().UTC()), options.Update().SetUpsert(true))
	if err != nil {
		return false, storeErr("upsert identity", err)
	}
	return res.UpsertedCount > 0, nil
}

func upsertIdentityUpdate(email string, profile map[string]any, now time.Time) bson.M {
	set := bson.M{"updated_at": now}
	for k, v := range profile {
		set["profile."+k] = v
	}
	return bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"email":      email,
			"role":       domain.RoleCustomer,
			"created_at": now,
		},
	}
}

func (r *IdentityRepository) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var identity domain.Identity
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&identity); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, storeErr("find identity", err)
	}
	return &identity, nil
}

func (r *IdentityRepository) List(ctx context.Context) ([]*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, storeErr("list identities", err)
	}
	identities := []*domain.Identity{}
	if err := cur.All(ctx, &identities); err != nil {
		return nil, storeErr("decode identities", err)
	}
	return identities, nil
}

func (r *IdentityRepository) SetRole(ctx context.Context, email, role string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"email": email}, bson.M{
		"$set": bson.M{"role": role, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return storeErr("set role", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrIdentityNotFound
	}
	return nil
}

func (r *IdentityRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return storeErr("identity indexes", err)
	}
	return nil
}
