package controllers

import (
	"net/http"

	"github.com/Kariqs/digistore-api/initializers"
	"github.com/Kariqs/digistore-api/middlewares"
	"github.com/Kariqs/digistore-api/services"
	"github.com/gin-gonic/gin"
)

func cartStore() *services.CartStore {
	return services.NewCartStore(initializers.DB)
}

func materializer() *services.Materializer {
	return services.NewMaterializer(initializers.DB, cartStore(), initializers.Logger.Named("orders"))
}

func orderService() *services.OrderService {
	return services.NewOrderService(initializers.DB, initializers.Payments, materializer(),
		initializers.Cfg.VerifyRedirectPayment, initializers.Logger.Named("orders"))
}

func ticketService() *services.TicketService {
	return services.NewTicketService(initializers.DB, initializers.Logger.Named("tickets"))
}

// currentIdentity writes a 401 and returns false when the request is anonymous.
func currentIdentity(ctx *gin.Context) (services.Identity, bool) {
	identity, ok := middlewares.CurrentIdentity(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "Unauthorized")
	}
	return identity, ok
}
