package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/teatree/storefront-api/internal/core/domain"
)

const (
	collectionProducts = "products"
	collectionReviews  = "reviews"
)

type ProductRepository struct {
	col *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{col: db.Collection(collectionProducts)}
}

type mongoProduct struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Name              string             `bson:"name"`
	Description       string             `bson:"description"`
	Image             string             `bson:"image,omitempty"`
	Price             float64            `bson:"price"`
	MinQuantity       int                `bson:"min_quantity"`
	AvailableQuantity int                `bson:"available_quantity"`
}

func (m *mongoProduct) toDomain() *domain.Product {
	return &domain.Product{
		ID:                m.ID.Hex(),
		Name:              m.Name,
		Description:       m.Description,
		Image:             m.Image,
		Price:             m.Price,
		MinQuantity:       m.MinQuantity,
		AvailableQuantity: m.AvailableQuantity,
	}
}

func (r *ProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, storeErr("list products", err)
	}
	var docs []mongoProduct
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storeErr("decode products", err)
	}

	out := make([]*domain.Product, len(docs))
	for i := range docs {
		out[i] = docs[i].toDomain()
	}
	return out, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	oid, err := objectID(id, domain.ErrProductNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoProduct
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&m); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrProductNotFound
		}
		return nil, storeErr("find product", err)
	}
	return m.toDomain(), nil
}

func (r *ProductRepository) Insert(ctx context.Context, p *domain.Product) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, mongoProduct{
		Name:              p.Name,
		Description:       p.Description,
		Image:             p.Image,
		Price:             p.Price,
		MinQuantity:       p.MinQuantity,
		AvailableQuantity: p.AvailableQuantity,
	})
	if err != nil {
		return storeErr("insert product", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid.Hex()
	}
	return nil
}

type ReviewRepository struct {
	col *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{col: db.Collection(collectionReviews)}
}

type mongoReview struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email,omitempty"`
	Rating    int                `bson:"rating"`
	Comment   string             `bson:"comment"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (r *ReviewRepository) List(ctx context.Context) ([]*domain.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, storeErr("list reviews", err)
	}
	var docs []mongoReview
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storeErr("decode reviews", err)
	}

	out := make([]*domain.Review, len(docs))
	for i, m := range docs {
		out[i] = &domain.Review{
			ID:        m.ID.Hex(),
			Name:      m.Name,
			Email:     m.Email,
			Rating:    m.Rating,
			Comment:   m.Comment,
			CreatedAt: m.CreatedAt,
		}
	}
	return out, nil
}

func (r *ReviewRepository) Insert(ctx context.Context, rv *domain.Review) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, mongoReview{
		Name:      rv.Name,
		Email:     rv.Email,
		Rating:    rv.Rating,
		Comment:   rv.Comment,
		CreatedAt: rv.CreatedAt,
	})
	if err != nil {
		return storeErr("insert review", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		rv.ID = oid.Hex()
	}
	return nil
}

func (r *ReviewRepository) DeleteByID(ctx context.Context, id string) error {
	oid, err := objectID(id, domain.ErrReviewNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return storeErr("delete review", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}
