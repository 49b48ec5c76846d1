package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"
)

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

func (c *StripeConfig) Validate() error {
	if c.SecretKey == "" {
		return errors.New("stripe: secret key is required")
	}
	if !strings.HasPrefix(c.SecretKey, "sk_") && !strings.HasPrefix(c.SecretKey, "rk_") {
		return errors.New("stripe: secret key must start with sk_ or rk_")
	}
	if c.WebhookSecret == "" {
		return errors.New("stripe: webhook secret is required")
	}
	return nil
}

// StripeGateway holds its own API client; the package-level stripe.Key is
// never set.
type StripeGateway struct {
	config StripeConfig
	api    *client.API
	logger *zap.Logger
}

var _ Gateway = (*StripeGateway)(nil)

func NewStripeGateway(config StripeConfig, logger *zap.Logger) (*StripeGateway, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	api := &client.API{}
	api.Init(config.SecretKey, nil)
	return &StripeGateway{config: config, api: api, logger: logger.Named("stripe")}, nil
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req *SessionRequest) (*Session, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(req.SuccessURL),
		CancelURL:          stripe.String(req.CancelURL),
		CustomerEmail:      stripe.String(req.CustomerEmail),
		Metadata:           req.Metadata,
	}
	params.Context = ctx

	for _, item := range req.LineItems {
		product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(item.Name),
		}
		if item.Description != "" {
			product.Description = stripe.String(item.Description)
		}
		if item.ImageURL != "" {
			product.Images = stripe.StringSlice([]string{item.ImageURL})
		}
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(req.Currency),
				ProductData: product,
				UnitAmount:  stripe.Int64(item.UnitAmount),
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	s, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		g.logger.Error("Failed to create checkout session",
			zap.String("customer_email", req.CustomerEmail),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to create checkout session: %w", err)
	}

	g.logger.Info("Created checkout session",
		zap.String("session_id", s.ID),
		zap.String("customer_email", req.CustomerEmail),
		zap.Int("line_items", len(req.LineItems)))

	return toSession(s), nil
}

func (g *StripeGateway) RetrieveSession(ctx context.Context, sessionID string) (*Session, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := g.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode == 404 {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("stripe: failed to retrieve session %s: %w", sessionID, err)
	}
	return toSession(s), nil
}

// ErrSessionNotFound is returned by RetrieveSession for unknown session ids.
var ErrSessionNotFound = errors.New("payments: checkout session not found")

// VerifyEvent authenticates the payload against the webhook secret. Accounts
// pinned to an older API version still deliver valid events, so the version
// check is skipped.
func (g *StripeGateway) VerifyEvent(payload []byte, signatureHeader string) (*Event, error) {
	return VerifyWebhook(payload, signatureHeader, g.config.WebhookSecret)
}

// VerifyWebhook checks a Stripe-Signature header against secret and decodes the event.
func VerifyWebhook(payload []byte, signatureHeader, secret string) (*Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, secret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := &Event{ID: event.ID, Type: string(event.Type)}
	if strings.HasPrefix(out.Type, "checkout.session.") && event.Data != nil {
		var s stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &s); err != nil {
			return nil, fmt.Errorf("stripe: failed to decode checkout session in event %s: %w", event.ID, err)
		}
		out.Session = toSession(&s)
	}
	return out, nil
}

func toSession(s *stripe.CheckoutSession) *Session {
	out := &Session{
		ID:            s.ID,
		URL:           s.URL,
		Currency:      string(s.Currency),
		AmountTotal:   s.AmountTotal,
		PaymentStatus: string(s.PaymentStatus),
		CustomerEmail: s.CustomerEmail,
		Metadata:      s.Metadata,
	}
	if out.CustomerEmail == "" && s.CustomerDetails != nil {
		out.CustomerEmail = s.CustomerDetails.Email
	}
	return out
}
