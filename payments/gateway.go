// Package payments wraps the hosted checkout processor behind a small interface
// so checkout and order code can be exercised without network access.
package payments

import (
	"context"
	"errors"
)

// ErrInvalidSignature is returned when a webhook payload cannot be authenticated.
var ErrInvalidSignature = errors.New("payments: webhook signature verification failed")

const (
	PaymentStatusPaid              = "paid"
	PaymentStatusUnpaid            = "unpaid"
	PaymentStatusNoPaymentRequired = "no_payment_required"
)

const (
	EventCheckoutSessionCompleted      = "checkout.session.completed"
	EventCheckoutSessionAsyncSucceeded = "checkout.session.async_payment_succeeded"
	EventCheckoutSessionAsyncFailed    = "checkout.session.async_payment_failed"
	EventCheckoutSessionExpired        = "checkout.session.expired"
	EventPaymentIntentFailed           = "payment_intent.payment_failed"
)

type LineItem struct {
	Name        string
	Description string
	ImageURL    string
	UnitAmount  int64
	Quantity    int64
}

type SessionRequest struct {
	Currency      string
	LineItems     []LineItem
	SuccessURL    string
	CancelURL     string
	CustomerEmail string
	Metadata      map[string]string
}

type Session struct {
	ID            string
	URL           string
	Currency      string
	AmountTotal   int64
	PaymentStatus string
	CustomerEmail string
	Metadata      map[string]string
}

// Event is a verified webhook event. Session is set for checkout.session.* events.
type Event struct {
	ID      string
	Type    string
	Session *Session
}

type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req *SessionRequest) (*Session, error)
	RetrieveSession(ctx context.Context, sessionID string) (*Session, error)
	VerifyEvent(payload []byte, signatureHeader string) (*Event, error)
}
