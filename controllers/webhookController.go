package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/Kariqs/digistore-api/initializers"
	"github.com/Kariqs/digistore-api/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Stripe events are small; anything larger is not from Stripe.
const maxWebhookPayloadSize = 65536

type webhookResponse struct {
	Received  bool   `json:"received"`
	EventID   string `json:"eventId,omitempty"`
	EventType string `json:"eventType,omitempty"`
	Message   string `json:"message,omitempty"`
}

func HandleStripeWebhook(ctx *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(ctx.Request.Body, maxWebhookPayloadSize+1))
	if err != nil {
		sendJSONResponse(ctx, http.StatusBadRequest, webhookResponse{Message: "Failed to read request body"})
		return
	}
	if len(payload) > maxWebhookPayloadSize {
		sendJSONResponse(ctx, http.StatusRequestEntityTooLarge, webhookResponse{Message: "Payload too large"})
		return
	}
	signature := ctx.GetHeader("Stripe-Signature")
	if signature == "" {
		sendJSONResponse(ctx, http.StatusBadRequest, webhookResponse{Message: "Missing Stripe-Signature header"})
		return
	}

	var notifier services.OrderNotifier
	if initializers.Mailer != nil {
		notifier = initializers.Mailer
	}
	webhooks := services.NewWebhookService(initializers.Payments, materializer(), notifier, initializers.Logger.Named("webhook"))

	result, err := webhooks.Process(ctx.Request.Context(), payload, signature)
	switch {
	case errors.Is(err, services.ErrSignatureVerification):
		sendJSONResponse(ctx, http.StatusBadRequest, webhookResponse{Message: "Webhook signature verification failed"})
	case err != nil && services.IsPermanent(err):
		// Redelivery would fail the same way, so acknowledge it.
		initializers.Logger.Warn("Webhook event dropped",
			zap.String("event_id", result.EventID),
			zap.String("event_type", result.EventType),
			zap.Error(err))
		sendJSONResponse(ctx, http.StatusOK, webhookResponse{
			Received:  true,
			EventID:   result.EventID,
			EventType: result.EventType,
			Message:   err.Error(),
		})
	case err != nil:
		initializers.Logger.Error("Webhook processing failed", zap.Error(err))
		sendJSONResponse(ctx, http.StatusInternalServerError, webhookResponse{Message: "Webhook processing failed"})
	default:
		sendJSONResponse(ctx, http.StatusOK, webhookResponse{
			Received:  true,
			EventID:   result.EventID,
			EventType: result.EventType,
			Message:   result.Message,
		})
	}
}
