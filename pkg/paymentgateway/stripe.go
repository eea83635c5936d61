// Package paymentgateway talks to Stripe: it creates payment intents and
// verifies inbound webhook events.
package paymentgateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"
	"github.com/stripe/stripe-go/v81/webhook"
)

// Event types the payment flow reacts to.
const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
)

var (
	// ErrInvalidSignature is returned when a webhook payload does not match
	// its signature header.
	ErrInvalidSignature = errors.New("invalid webhook signature")
	// ErrMalformedPayload is returned when a verified payload cannot be decoded.
	ErrMalformedPayload = errors.New("malformed webhook payload")
)

// PaymentIntentRequest describes a charge to open with the gateway.
// Amount is in minor units (cents).
type PaymentIntentRequest struct {
	Amount        int64
	Currency      string
	PaymentMethod string
	Metadata      map[string]string
}

// PaymentIntent is the gateway's handle for an open charge.
type PaymentIntent struct {
	ID           string
	ClientSecret string
}

// Event is a verified webhook event. TransactionID and Metadata are taken
// from the payment intent the event carries, when it carries one.
type Event struct {
	ID            string
	Type          string
	TransactionID string
	Metadata      map[string]string
}

// Config holds the Stripe credentials and transport settings.
type Config struct {
	APIKey        string
	WebhookSecret string
	Timeout       time.Duration
	// BaseURL overrides the API endpoint. Empty means api.stripe.com.
	BaseURL string
}

// StripeGateway creates payment intents and verifies webhooks with Stripe.
type StripeGateway struct {
	intents       paymentintent.Client
	webhookSecret string
}

// NewStripeGateway builds a gateway whose HTTP calls are bounded by cfg.Timeout.
func NewStripeGateway(cfg Config) *StripeGateway {
	backendCfg := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: cfg.Timeout},
		MaxNetworkRetries: stripe.Int64(2),
	}
	if cfg.BaseURL != "" {
		backendCfg.URL = stripe.String(cfg.BaseURL)
	}
	return &StripeGateway{
		intents: paymentintent.Client{
			B:   stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg),
			Key: cfg.APIKey,
		},
		webhookSecret: cfg.WebhookSecret,
	}
}

// CreatePaymentIntent opens a payment intent for req.
func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, req PaymentIntentRequest) (*PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(req.Amount),
		Currency:           stripe.String(req.Currency),
		PaymentMethodTypes: stripe.StringSlice([]string{req.PaymentMethod}),
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := g.intents.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: create payment intent: %w", err)
	}
	return &PaymentIntent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// ParseWebhook verifies payload against the configured webhook secret.
func (g *StripeGateway) ParseWebhook(payload []byte, signatureHeader string) (*Event, error) {
	return ParseEvent(payload, signatureHeader, g.webhookSecret)
}

// ParseEvent verifies payload against secret and decodes it.
func ParseEvent(payload []byte, signatureHeader, secret string) (*Event, error) {
	evt, err := webhook.ConstructEventWithOptions(payload, signatureHeader, secret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := &Event{ID: evt.ID, Type: string(evt.Type)}
	if evt.Data == nil || len(evt.Data.Raw) == 0 {
		return out, nil
	}
	if evt.Data.Object["object"] != "payment_intent" {
		return out, nil
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(evt.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	out.TransactionID = pi.ID
	out.Metadata = pi.Metadata
	return out, nil
}

// Currencies Stripe charges without a fractional unit, or with three
// decimals whose last digit must be zero.
var (
	zeroDecimalCurrencies = map[string]bool{
		"bif": true, "clp": true, "djf": true, "gnf": true, "jpy": true, "kmf": true,
		"krw": true, "mga": true, "pyg": true, "rwf": true, "ugx": true, "vnd": true,
		"vuv": true, "xaf": true, "xof": true, "xpf": true,
	}
	threeDecimalCurrencies = map[string]bool{
		"bhd": true, "jod": true, "kwd": true, "omr": true, "tnd": true,
	}
)

// ToMinorUnits converts an amount in the given ISO currency to the integer
// amount Stripe expects, rounding half away from zero.
func ToMinorUnits(amount decimal.Decimal, currency string) int64 {
	switch c := strings.ToLower(currency); {
	case zeroDecimalCurrencies[c]:
		return amount.Round(0).IntPart()
	case threeDecimalCurrencies[c]:
		return amount.Shift(2).Round(0).IntPart() * 10
	default:
		return amount.Shift(2).Round(0).IntPart()
	}
}
