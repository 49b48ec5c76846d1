// Package paymentstest provides an in-memory payments.Gateway and helpers for
// producing signed webhook deliveries.
package paymentstest

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/Kariqs/digistore-api/payments"
	"github.com/stripe/stripe-go/v81/webhook"
)

const WebhookSecret = "whsec_test_secret"

// Gateway records opened sessions and verifies webhooks with real Stripe
// signatures.
type Gateway struct {
	WebhookSecret string
	// CreateErr, when set, fails CreateCheckoutSession.
	CreateErr error

	mu       sync.Mutex
	next     int
	sessions map[string]*payments.Session
	requests []*payments.SessionRequest
}

var _ payments.Gateway = (*Gateway)(nil)

func NewGateway() *Gateway {
	return &Gateway{WebhookSecret: WebhookSecret, sessions: map[string]*payments.Session{}}
}

func (g *Gateway) CreateCheckoutSession(_ context.Context, req *payments.SessionRequest) (*payments.Session, error) {
	if g.CreateErr != nil {
		return nil, g.CreateErr
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	g.next++
	var total int64
	for _, li := range req.LineItems {
		total += li.UnitAmount * li.Quantity
	}
	s := &payments.Session{
		ID:            fmt.Sprintf("cs_test_%d", g.next),
		Currency:      req.Currency,
		AmountTotal:   total,
		PaymentStatus: payments.PaymentStatusUnpaid,
		CustomerEmail: req.CustomerEmail,
		Metadata:      maps.Clone(req.Metadata),
	}
	s.URL = "https://checkout.stripe.test/pay/" + s.ID
	g.sessions[s.ID] = s
	g.requests = append(g.requests, req)
	out := *s
	return &out, nil
}

func (g *Gateway) RetrieveSession(_ context.Context, sessionID string) (*payments.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.sessions[sessionID]
	if !ok {
		return nil, payments.ErrSessionNotFound
	}
	out := *s
	return &out, nil
}

func (g *Gateway) VerifyEvent(payload []byte, signatureHeader string) (*payments.Event, error) {
	return payments.VerifyWebhook(payload, signatureHeader, g.WebhookSecret)
}

// PutSession registers or replaces a session as if the processor held it.
func (g *Gateway) PutSession(s payments.Session) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sessions[s.ID] = &s
}

func (g *Gateway) SetPaymentStatus(sessionID, status string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if s, ok := g.sessions[sessionID]; ok {
		s.PaymentStatus = status
	}
}

// Requests returns the session requests seen so far.
func (g *Gateway) Requests() []*payments.SessionRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]*payments.SessionRequest(nil), g.requests...)
}

// SessionEvent renders a webhook payload carrying s as a checkout session.
func SessionEvent(eventID, eventType string, s payments.Session) []byte {
	payload, err := json.Marshal(map[string]any{
		"id":          eventID,
		"object":      "event",
		"api_version": "2020-08-27",
		"type":        eventType,
		"data": map[string]any{
			"object": map[string]any{
				"id":             s.ID,
				"object":         "checkout.session",
				"amount_total":   s.AmountTotal,
				"currency":       s.Currency,
				"payment_status": s.PaymentStatus,
				"customer_email": s.CustomerEmail,
				"metadata":       s.Metadata,
			},
		},
	})
	if err != nil {
		panic(err)
	}
	return payload
}

// Sign returns a Stripe-Signature header for payload.
func Sign(payload []byte, secret string) string {
	return webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: time.Now(),
	}).Header
}
