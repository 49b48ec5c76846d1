package routes

import (
	"github.com/Kariqs/digistore-api/controllers"
	"github.com/Kariqs/digistore-api/middlewares"
	"github.com/gin-gonic/gin"
)

func OrderRoutes(server *gin.Engine) {
	// Stripe authenticates with the payload signature, not a session.
	server.POST("/api/webhook/stripe", controllers.HandleStripeWebhook)

	api := server.Group("/api", middlewares.RequireAuth())
	{
		api.POST("/checkout", controllers.CreateCheckoutSession)
		api.POST("/orders/create", controllers.CreateOrder)
		api.GET("/orders", controllers.GetOrders)
	}
}
