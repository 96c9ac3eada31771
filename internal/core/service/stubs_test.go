package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/teatree/storefront-api/internal/core/domain"
)

func nopLogger() zerolog.Logger { return zerolog.Nop() }

// --- orders ---

type stubOrderRepo struct {
	mu      sync.Mutex
	orders  map[string]*domain.Order
	nextID  int
	inserts int
	// insertHook runs before the unique check, with the lock released.
	insertHook func()
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[string]*domain.Order)}
}

func (r *stubOrderRepo) Insert(_ context.Context, o *domain.Order) error {
	if r.insertHook != nil {
		r.insertHook()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.orders {
		if existing.Email == o.Email && existing.Product == o.Product {
			return domain.ErrDuplicateOrder
		}
	}
	r.nextID++
	r.inserts++
	o.ID = "order-" + strconv.Itoa(r.nextID)
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *stubOrderRepo) FindByEmailAndProduct(_ context.Context, email, product string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.Email == email && o.Product == product {
			cp := *o
			return &cp, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (r *stubOrderRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *stubOrderRepo) ListByEmail(_ context.Context, email string) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Order
	for _, o := range r.orders {
		if o.Email == email {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *stubOrderRepo) ListAll(_ context.Context) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		cp := *o
		out = append(out, &cp)
	}
	return out, nil
}

func (r *stubOrderRepo) DeleteByEmail(_ context.Context, email string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, o := range r.orders {
		if o.Email == email {
			delete(r.orders, id)
			n++
		}
	}
	return n, nil
}

func (r *stubOrderRepo) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(r.orders, id)
	return nil
}

func (r *stubOrderRepo) MarkPaid(_ context.Context, id, transactionID string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok || o.Paid {
		return nil, domain.ErrOrderNotFound
	}
	now := time.Now().UTC()
	tx := transactionID
	o.Paid = true
	o.TransactionID = &tx
	o.PaidAt = &now
	cp := *o
	return &cp, nil
}

func (r *stubOrderRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}

// --- payments ---

type stubPaymentRepo struct {
	mu        sync.Mutex
	payments  map[string]*domain.Payment // keyed by order id
	intents   []*domain.PaymentIntent
	intentErr error
}

func newStubPaymentRepo() *stubPaymentRepo {
	return &stubPaymentRepo{payments: make(map[string]*domain.Payment)}
}

func (r *stubPaymentRepo) Insert(_ context.Context, p *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.payments[p.OrderID]; ok {
		return domain.ErrDuplicatePayment
	}
	p.ID = "payment-" + p.OrderID
	cp := *p
	r.payments[p.OrderID] = &cp
	return nil
}

func (r *stubPaymentRepo) FindByOrderID(_ context.Context, orderID string) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[orderID]
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}
	cp := *p
	return &cp, nil
}

// ListUnreconciled returns every recorded payment; the stub cannot see orders.
func (r *stubPaymentRepo) ListUnreconciled(_ context.Context, limit int) ([]*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Payment
	for _, p := range r.payments {
		if len(out) == limit {
			break
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *stubPaymentRepo) InsertIntent(_ context.Context, intent *domain.PaymentIntent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.intentErr != nil {
		return r.intentErr
	}
	r.intents = append(r.intents, intent)
	return nil
}

func (r *stubPaymentRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.payments)
}

type stubProcessor struct {
	calls       int
	amountMinor int64
	currency    string
	metadata    map[string]string
	err         error
}

func (p *stubProcessor) CreateIntent(_ context.Context, amountMinor int64, currency string, metadata map[string]string) (string, string, error) {
	p.calls++
	p.amountMinor = amountMinor
	p.currency = currency
	p.metadata = metadata
	if p.err != nil {
		return "", "", p.err
	}
	return "pi_123", "pi_123_secret_abc", nil
}

// --- identities ---

type stubIdentityRepo struct {
	mu         sync.Mutex
	identities map[string]*domain.Identity
	findErr    error
}

func newStubIdentityRepo() *stubIdentityRepo {
	return &stubIdentityRepo{identities: make(map[string]*domain.Identity)}
}

func (r *stubIdentityRepo) Upsert(_ context.Context, email string, profile map[string]any) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	identity, ok := r.identities[email]
	if !ok {
		identity = &domain.Identity{Email: email, Role: domain.RoleCustomer, Profile: map[string]any{}}
		r.identities[email] = identity
	}
	for k, v := range profile {
		identity.Profile[k] = v
	}
	return !ok, nil
}

func (r *stubIdentityRepo) FindByEmail(_ context.Context, email string) (*domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	identity, ok := r.identities[email]
	if !ok {
		return nil, domain.ErrIdentityNotFound
	}
	cp := *identity
	return &cp, nil
}

func (r *stubIdentityRepo) List(_ context.Context) ([]*domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Identity, 0, len(r.identities))
	for _, identity := range r.identities {
		cp := *identity
		out = append(out, &cp)
	}
	return out, nil
}

func (r *stubIdentityRepo) SetRole(_ context.Context, email, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	identity, ok := r.identities[email]
	if !ok {
		return domain.ErrIdentityNotFound
	}
	identity.Role = role
	return nil
}

// --- session registry ---

type stubRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
	err     error
}

func newStubRevocations() *stubRevocations {
	return &stubRevocations{revoked: make(map[string]time.Duration)}
}

func (s *stubRevocations) IsRevoked(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	_, ok := s.revoked[id]
	return ok, nil
}

func (s *stubRevocations) Revoke(_ context.Context, id string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[id] = ttl
	return nil
}
