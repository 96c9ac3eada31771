package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/teatree/storefront-api/internal/api/middleware"
	"github.com/teatree/storefront-api/internal/core/domain"
	"github.com/teatree/storefront-api/internal/core/ports"
)

// newContext builds an echo context for a JSON request. caller, when set, is
// attached as the authenticated email the way the Auth middleware does.
func newContext(method, target, body, caller string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, nil)
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if caller != "" {
		c.Set(middleware.ContextEmail, caller)
	}
	return c, rec
}

type stubAdmins map[string]bool

func (s stubAdmins) IsAdmin(_ context.Context, email string) (bool, error) {
	return s[email], nil
}

type stubOrderService struct {
	createFn      func(ctx context.Context, in ports.CreateOrderInput) (*ports.CreateOrderResult, error)
	orders        map[string]*domain.Order
	deletedIDs    []string
	deletedEmails []string
	listedFor     string
}

func (s *stubOrderService) Create(ctx context.Context, in ports.CreateOrderInput) (*ports.CreateOrderResult, error) {
	return s.createFn(ctx, in)
}

func (s *stubOrderService) ListFor(_ context.Context, email string) ([]*domain.Order, error) {
	s.listedFor = email
	var out []*domain.Order
	for _, o := range s.orders {
		if o.Email == email {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *stubOrderService) ListAll(_ context.Context) ([]*domain.Order, error) {
	out := make([]*domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o)
	}
	return out, nil
}

func (s *stubOrderService) FindByID(_ context.Context, id string) (*domain.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return o, nil
}

func (s *stubOrderService) DeleteByEmail(_ context.Context, email string) (int64, error) {
	s.deletedEmails = append(s.deletedEmails, email)
	return 2, nil
}

func (s *stubOrderService) DeleteByID(_ context.Context, id string) error {
	s.deletedIDs = append(s.deletedIDs, id)
	return nil
}

func (s *stubOrderService) MarkPaid(context.Context, string, string) (*domain.Order, error) {
	return nil, nil
}

type stubPaymentService struct {
	intentCalls  int
	intentInput  ports.CreateIntentInput
	intentErr    error
	confirmInput ports.ConfirmPaymentInput
	confirmFn    func(in ports.ConfirmPaymentInput) (*domain.Order, error)
}

func (s *stubPaymentService) CreateIntent(_ context.Context, in ports.CreateIntentInput) (string, error) {
	s.intentCalls++
	s.intentInput = in
	if s.intentErr != nil {
		return "", s.intentErr
	}
	return "pi_1_secret", nil
}

func (s *stubPaymentService) Confirm(_ context.Context, in ports.ConfirmPaymentInput) (*domain.Order, error) {
	s.confirmInput = in
	return s.confirmFn(in)
}

type stubIdentityService struct {
	upsertFn   func(email string, profile map[string]any) (*ports.UpsertIdentityResult, error)
	identities map[string]*domain.Identity
	promoted   []string
}

func (s *stubIdentityService) Upsert(_ context.Context, email string, profile map[string]any) (*ports.UpsertIdentityResult, error) {
	return s.upsertFn(email, profile)
}

func (s *stubIdentityService) Get(_ context.Context, email string) (*domain.Identity, error) {
	identity, ok := s.identities[email]
	if !ok {
		return nil, domain.ErrIdentityNotFound
	}
	return identity, nil
}

func (s *stubIdentityService) List(context.Context) ([]*domain.Identity, error) {
	out := make([]*domain.Identity, 0, len(s.identities))
	for _, identity := range s.identities {
		out = append(out, identity)
	}
	return out, nil
}

func (s *stubIdentityService) IsAdmin(_ context.Context, email string) (bool, error) {
	return s.identities[email].IsAdmin(), nil
}

func (s *stubIdentityService) PromoteToAdmin(_ context.Context, email string) error {
	s.promoted = append(s.promoted, email)
	return nil
}

type stubTokenService struct {
	revoked []string
}

func (s *stubTokenService) Issue(email string) (string, error) { return "token-for-" + email, nil }

func (s *stubTokenService) Verify(context.Context, string) (string, error) { return "", nil }

func (s *stubTokenService) Revoke(_ context.Context, token string) error {
	s.revoked = append(s.revoked, token)
	return nil
}
