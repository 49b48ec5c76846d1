package controllers

import (
	"errors"
	"net/http"

	"github.com/Kariqs/digistore-api/initializers"
	"github.com/Kariqs/digistore-api/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{services.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
	{services.ErrForbidden, http.StatusForbidden, "forbidden"},
	{services.ErrNotFound, http.StatusNotFound, "not_found"},
	{services.ErrEmptyCart, http.StatusBadRequest, "empty_cart"},
	{services.ErrSnapshotTooLarge, http.StatusBadRequest, "cart_too_large"},
	{services.ErrInvalidSnapshot, http.StatusBadRequest, "invalid_snapshot"},
	{services.ErrSignatureVerification, http.StatusBadRequest, "invalid_signature"},
	{services.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
	{services.ErrTicketClosed, http.StatusBadRequest, "ticket_closed"},
	{services.ErrPaymentNotCompleted, http.StatusPaymentRequired, "payment_not_completed"},
}

func sendJSONResponse(ctx *gin.Context, status int, data any) {
	ctx.JSON(status, data)
}

func sendErrorResponse(ctx *gin.Context, status int, message string) {
	sendJSONResponse(ctx, status, gin.H{"error": message, "code": codeForStatus(status)})
}

// respondWithError maps service errors to a status and stable code. Anything
// unrecognized is logged and reported as a 500 with message.
func respondWithError(ctx *gin.Context, message string, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			sendJSONResponse(ctx, m.status, gin.H{"error": err.Error(), "code": m.code})
			return
		}
	}
	initializers.Logger.Error(message,
		zap.String("path", ctx.FullPath()),
		zap.Error(err))
	sendErrorResponse(ctx, http.StatusInternalServerError, message)
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "invalid_input"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusRequestEntityTooLarge:
		return "payload_too_large"
	case http.StatusServiceUnavailable:
		return "unavailable"
	default:
		return "internal_error"
	}
}
