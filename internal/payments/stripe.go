// Package payments wraps the payment processor. The storefront's only
// coupling is the payment intent: a succeeded confirmation triggers order
// creation, a failure abandons checkout with nothing persisted.
package payments

import (
	"context"
	"fmt"

	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

type Client struct {
	enabled bool
}

// NewClient configures the global stripe key. An empty key disables the
// client (local development without a processor).
func NewClient(secretKey string) *Client {
	if secretKey == "" {
		return &Client{}
	}
	stripe.Key = secretKey
	return &Client{enabled: true}
}

// CreateIntent registers a payment intent for the given amount in cents and
// returns the client secret the frontend confirms against.
func (c *Client) CreateIntent(ctx context.Context, amount int64) (string, error) {
	if !c.enabled {
		return "", fmt.Errorf("payment processor not configured")
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(string(stripe.CurrencyEUR)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx

	pi, err := paymentintent.New(params)
	if err != nil {
		return "", fmt.Errorf("create payment intent: %w", err)
	}
	return pi.ClientSecret, nil
}
