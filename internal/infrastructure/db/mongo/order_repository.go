package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/teatree/storefront-api/internal/core/domain"
)

const collectionOrders = "purchase"

type OrderRepository struct {
	col *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{col: db.Collection(collectionOrders)}
}

type mongoOrder struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Email         string             `bson:"email"`
	Product       string             `bson:"product"`
	Quantity      int                `bson:"quantity"`
	Price         float64            `bson:"price,omitempty"`
	Paid          bool               `bson:"paid"`
	TransactionID *string            `bson:"transaction_id"`
	CreatedAt     time.Time          `bson:"created_at"`
	PaidAt        *time.Time         `bson:"paid_at,omitempty"`
}

func (m *mongoOrder) toDomain() *domain.Order {
	return &domain.Order{
		ID:            m.ID.Hex(),
		Email:         m.Email,
		Product:       m.Product,
		Quantity:      m.Quantity,
		Price:         m.Price,
		Paid:          m.Paid,
		TransactionID: m.TransactionID,
		CreatedAt:     m.CreatedAt,
		PaidAt:        m.PaidAt,
	}
}

// orderKey is the natural key of an order: both fields must match.
func orderKey(email, product string) bson.D {
	return bson.D{
		{Key: "email", Value: email},
		{Key: "product", Value: product},
	}
}

// Insert relies on the unique (email, product) index to reject a concurrent
// duplicate.
func (r *OrderRepository) Insert(ctx context.Context, o *domain.Order) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoOrder{
		Email:         o.Email,
		Product:       o.Product,
		Quantity:      o.Quantity,
		Price:         o.Price,
		Paid:          o.Paid,
		TransactionID: o.TransactionID,
		CreatedAt:     o.CreatedAt,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateOrder
		}
		return storeErr("insert order", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		o.ID = oid.Hex()
	}
	return nil
}

func (r *OrderRepository) FindByEmailAndProduct(ctx context.Context, email, product string) (*domain.Order, error) {
	return r.findOne(ctx, orderKey(email, product))
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	oid, err := objectID(id, domain.ErrOrderNotFound)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

func (r *OrderRepository) findOne(ctx context.Context, filter bson.D) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoOrder
	if err := r.col.FindOne(ctx, filter).Decode(&m); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, storeErr("find order", err)
	}
	return m.toDomain(), nil
}

func (r *OrderRepository) ListByEmail(ctx context.Context, email string) ([]*domain.Order, error) {
	return r.list(ctx, bson.M{"email": email})
}

func (r *OrderRepository) ListAll(ctx context.Context) ([]*domain.Order, error) {
	return r.list(ctx, bson.M{})
}

func (r *OrderRepository) list(ctx context.Context, filter bson.M) ([]*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, storeErr("list orders", err)
	}
	var docs []mongoOrder
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storeErr("decode orders", err)
	}

	orders := make([]*domain.Order, len(docs))
	for i := range docs {
		orders[i] = docs[i].toDomain()
	}
	return orders, nil
}

func (r *OrderRepository) DeleteByEmail(ctx context.Context, email string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"email": email})
	if err != nil {
		return 0, storeErr("delete orders", err)
	}
	return res.DeletedCount, nil
}

func (r *OrderRepository) DeleteByID(ctx context.Context, id string) error {
	oid, err := objectID(id, domain.ErrOrderNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return storeErr("delete order", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// MarkPaid is a single conditional update: only an unpaid order matches.
func (r *OrderRepository) MarkPaid(ctx context.Context, id, transactionID string) (*domain.Order, error) {
	oid, err := objectID(id, domain.ErrOrderNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": oid, "paid": false}
	update := bson.M{"$set": bson.M{
		"paid":           true,
		"transaction_id": transactionID,
		"paid_at":        time.Now().UTC(),
	}}

	var m mongoOrder
	err = r.col.FindOneAndUpdate(ctx, filter, update, options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, storeErr("mark order paid", err)
	}
	return m.toDomain(), nil
}

func (r *OrderRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}, {Key: "product", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "paid", Value: 1}}},
	}

	if _, err := r.col.Indexes().CreateMany(ctx, indexes); err != nil {
		return storeErr("order indexes", err)
	}
	return nil
}
