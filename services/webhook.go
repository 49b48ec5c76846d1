package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Kariqs/digistore-api/models"
	"github.com/Kariqs/digistore-api/payments"
	"go.uber.org/zap"
)

// OrderNotifier is told about orders created from the webhook path.
type OrderNotifier interface {
	OrderCreated(ctx context.Context, order *models.Order) error
}

type WebhookResult struct {
	EventID   string
	EventType string
	Order     *models.Order
	Created   bool
	Message   string
}

type WebhookService struct {
	gateway      payments.Gateway
	materializer *Materializer
	notifier     OrderNotifier
	logger       *zap.Logger
}

func NewWebhookService(gateway payments.Gateway, materializer *Materializer, notifier OrderNotifier, logger *zap.Logger) *WebhookService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookService{gateway: gateway, materializer: materializer, notifier: notifier, logger: logger}
}

// Process verifies and dispatches one webhook delivery. IsPermanent separates
// failures that redelivery cannot fix from transient ones.
func (s *WebhookService) Process(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	event, err := s.gateway.VerifyEvent(payload, signature)
	if err != nil {
		s.logger.Warn("webhook signature verification failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrSignatureVerification, err)
	}

	result := &WebhookResult{EventID: event.ID, EventType: event.Type}
	log := s.logger.With(zap.String("event_id", event.ID), zap.String("event_type", event.Type))

	switch event.Type {
	case payments.EventCheckoutSessionCompleted:
		if event.Session == nil {
			return result, fmt.Errorf("%w: event without session", ErrInvalidInput)
		}
		switch event.Session.PaymentStatus {
		case payments.PaymentStatusPaid, payments.PaymentStatusNoPaymentRequired:
			return s.fulfill(ctx, log, event.Session, result)
		default:
			log.Info("checkout completed but payment pending", zap.String("session_id", event.Session.ID),
				zap.String("payment_status", event.Session.PaymentStatus))
			result.Message = "payment pending"
			return result, nil
		}
	case payments.EventCheckoutSessionAsyncSucceeded:
		if event.Session == nil {
			return result, fmt.Errorf("%w: event without session", ErrInvalidInput)
		}
		return s.fulfill(ctx, log, event.Session, result)
	case payments.EventCheckoutSessionExpired, payments.EventCheckoutSessionAsyncFailed, payments.EventPaymentIntentFailed:
		fields := []zap.Field{}
		if event.Session != nil {
			fields = append(fields, zap.String("session_id", event.Session.ID))
		}
		log.Info("payment not completed", fields...)
		result.Message = "payment not completed"
		return result, nil
	default:
		log.Debug("unhandled webhook event")
		result.Message = "ignored"
		return result, nil
	}
}

func (s *WebhookService) fulfill(ctx context.Context, log *zap.Logger, session *payments.Session, result *WebhookResult) (*WebhookResult, error) {
	snap, err := DecodeSnapshotMetadata(session.Metadata)
	if err != nil {
		log.Error("checkout session metadata unusable", zap.String("session_id", session.ID), zap.Error(err))
		return result, err
	}
	total := FromMinorUnits(session.AmountTotal)
	res, err := s.materializer.Materialize(ctx, Identity{Email: snap.OwnerEmail}, MaterializeRequest{
		SessionID:     session.ID,
		TotalOverride: &total,
		Snapshot:      snap,
		Source:        SourceWebhook,
	})
	if err != nil {
		log.Error("order materialization failed", zap.String("session_id", session.ID), zap.Error(err))
		return result, err
	}
	result.Order = res.Order
	result.Created = res.Created
	if res.Created {
		result.Message = "order created"
		if s.notifier != nil {
			if err := s.notifier.OrderCreated(ctx, res.Order); err != nil {
				log.Warn("order receipt not sent", zap.Uint("order_id", res.Order.ID), zap.Error(err))
			}
		}
	} else {
		result.Message = "order already exists"
	}
	return result, nil
}

// IsPermanent reports whether redelivering the event cannot succeed.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrInvalidSnapshot) ||
		errors.Is(err, ErrEmptyCart) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrUnauthorized)
}
