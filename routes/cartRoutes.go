package routes

import (
	"github.com/Kariqs/digistore-api/controllers"
	"github.com/Kariqs/digistore-api/middlewares"
	"github.com/gin-gonic/gin"
)

func CartRoutes(server *gin.Engine) {
	server.GET("/api/cart", middlewares.OptionalAuth(), controllers.GetCart)

	cart := server.Group("/api/cart", middlewares.RequireAuth())
	{
		cart.POST("", controllers.AddToCart)
		cart.PUT("", controllers.UpdateCartItem)
		cart.DELETE("", controllers.DeleteCartItem)
	}
}
