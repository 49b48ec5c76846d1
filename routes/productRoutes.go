package routes

import (
	"github.com/Kariqs/digistore-api/controllers"
	"github.com/Kariqs/digistore-api/middlewares"
	"github.com/gin-gonic/gin"
)

func ProductRoutes(server *gin.Engine) {
	server.GET("/api/products", controllers.GetProducts)
	server.GET("/api/products/featured", controllers.GetFeaturedProducts)

	products := server.Group("/api/products", middlewares.RequireAuth())
	{
		products.POST("", controllers.CreateProduct)
		products.PUT("", controllers.UpdateProduct)
		products.DELETE("", controllers.DeleteProduct)
		products.PATCH("", middlewares.RequireAdmin(), controllers.SetProductFeatured)
	}
}
