// Package stripe adapts the Stripe PaymentIntents API to ports.PaymentProcessor.
package stripe

import (
	"context"
	"fmt"
	"net/http"
	"time"

	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"

	"github.com/teatree/storefront-api/internal/pkg/metrics"
)

const defaultTimeout = 10 * time.Second

// Processor creates card payment intents.
type Processor struct {
	client paymentintent.Client
}

// NewProcessor builds a processor whose HTTP calls are bounded by timeout.
// Network retries are disabled: a failed call surfaces to the caller, who may
// retry the request.
func NewProcessor(secretKey string, timeout time.Duration) *Processor {
	return newProcessor(secretKey, timeout, nil)
}

// newProcessor points the client at url when set; nil means the live API.
func newProcessor(secretKey string, timeout time.Duration, url *string) *Processor {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	noRetries := int64(0)
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: timeout},
		MaxNetworkRetries: &noRetries,
		URL:               url,
	})
	return &Processor{client: paymentintent.Client{B: backend, Key: secretKey}}
}

func (p *Processor) CreateIntent(ctx context.Context, amountMinor int64, currency string, metadata map[string]string) (string, string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amountMinor),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	start := time.Now()
	pi, err := p.client.New(params)
	metrics.ProcessorDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return "", "", fmt.Errorf("stripe create payment intent: %w", err)
	}
	return pi.ID, pi.ClientSecret, nil
}
