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

const (
	collectionPayments       = "payments"
	collectionPaymentIntents = "payment_intents"
)

type PaymentRepository struct {
	payments *mongo.Collection
	intents  *mongo.Collection
}

func NewPaymentRepository(db *mongo.Database) *PaymentRepository {
	return &PaymentRepository{
		payments: db.Collection(collectionPayments),
		intents:  db.Collection(collectionPaymentIntents),
	}
}

type mongoPayment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	OrderID       primitive.ObjectID `bson:"order_id"`
	TransactionID string             `bson:"transaction_id"`
	Amount        float64            `bson:"amount"`
	Currency      string             `bson:"currency"`
	Email         string             `bson:"email"`
	CreatedAt     time.Time          `bson:"created_at"`
}

func (m *mongoPayment) toDomain() *domain.Payment {
	return &domain.Payment{
		ID:            m.ID.Hex(),
		OrderID:       m.OrderID.Hex(),
		TransactionID: m.TransactionID,
		Amount:        m.Amount,
		Currency:      m.Currency,
		Email:         m.Email,
		CreatedAt:     m.CreatedAt,
	}
}

// Insert relies on the unique order_id index: one payment record per order.
func (r *PaymentRepository) Insert(ctx context.Context, p *domain.Payment) error {
	orderID, err := objectID(p.OrderID, domain.ErrOrderNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.payments.InsertOne(ctx, mongoPayment{
		OrderID:       orderID,
		TransactionID: p.TransactionID,
		Amount:        p.Amount,
		Currency:      p.Currency,
		Email:         p.Email,
		CreatedAt:     p.CreatedAt,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicatePayment
		}
		return storeErr("insert payment", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid.Hex()
	}
	return nil
}

func (r *PaymentRepository) FindByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	oid, err := objectID(orderID, domain.ErrPaymentNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoPayment
	if err := r.payments.FindOne(ctx, bson.M{"order_id": oid}).Decode(&m); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, storeErr("find payment", err)
	}
	return m.toDomain(), nil
}

// ListUnreconciled joins payments to their orders and keeps those whose order
// still exists but is not paid. Payments of deleted orders are skipped.
func (r *PaymentRepository) ListUnreconciled(ctx context.Context, limit int) ([]*domain.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.payments.Aggregate(ctx, unreconciledPipeline(limit))
	if err != nil {
		return nil, storeErr("list unreconciled payments", err)
	}
	var docs []mongoPayment
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storeErr("decode payments", err)
	}

	out := make([]*domain.Payment, len(docs))
	for i := range docs {
		out[i] = docs[i].toDomain()
	}
	return out, nil
}

func unreconciledPipeline(limit int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collectionOrders},
			{Key: "localField", Value: "order_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "order"},
		}}},
		{{Key: "$unwind", Value: "$order"}},
		{{Key: "$match", Value: bson.D{{Key: "order.paid", Value: bson.D{{Key: "$ne", Value: true}}}}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$project", Value: bson.D{{Key: "order", Value: 0}}}},
	}
}

type mongoPaymentIntent struct {
	IntentID    string              `bson:"intent_id"`
	Email       string              `bson:"email"`
	AmountMinor int64               `bson:"amount_minor"`
	Currency    string              `bson:"currency"`
	OrderID     *primitive.ObjectID `bson:"order_id,omitempty"`
	CreatedAt   time.Time           `bson:"created_at"`
}

func (r *PaymentRepository) InsertIntent(ctx context.Context, intent *domain.PaymentIntent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoPaymentIntent{
		IntentID:    intent.IntentID,
		Email:       intent.Email,
		AmountMinor: intent.AmountMinor,
		Currency:    intent.Currency,
		CreatedAt:   intent.CreatedAt,
	}
	if oid, err := primitive.ObjectIDFromHex(intent.OrderID); err == nil {
		doc.OrderID = &oid
	}

	if _, err := r.intents.InsertOne(ctx, doc); err != nil {
		return storeErr("insert payment intent", err)
	}
	return nil
}

func (r *PaymentRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.payments.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "order_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return storeErr("payment indexes", err)
	}

	_, err = r.intents.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "intent_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return storeErr("payment intent indexes", err)
	}
	return nil
}
