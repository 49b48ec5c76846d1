package controllers

import (
	"net/http"

	"github.com/Kariqs/digistore-api/initializers"
	"github.com/Kariqs/digistore-api/services"
	"github.com/gin-gonic/gin"
)

func CreateCheckoutSession(ctx *gin.Context) {
	identity, ok := currentIdentity(ctx)
	if !ok {
		return
	}

	checkout := services.NewCheckoutService(cartStore(), initializers.Payments, services.CheckoutConfig{
		BaseURL:  initializers.Cfg.BaseURL,
		Currency: initializers.Cfg.StripeCurrency,
	}, initializers.Logger.Named("checkout"))

	result, err := checkout.Start(ctx.Request.Context(), identity)
	if err != nil {
		respondWithError(ctx, "Failed to create checkout session", err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, result)
}
