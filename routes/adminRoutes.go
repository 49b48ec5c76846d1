package routes

import (
	"github.com/Kariqs/digistore-api/controllers"
	"github.com/Kariqs/digistore-api/middlewares"
	"github.com/gin-gonic/gin"
)

func AdminRoutes(server *gin.Engine) {
	server.GET("/api/admin/check", middlewares.OptionalAuth(), controllers.CheckAdmin)

	admin := server.Group("/api/admin", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		admin.GET("/dashboard", controllers.GetDashboard)
		admin.GET("/payments", controllers.GetPaymentStats)

		admin.GET("/orders", controllers.GetAllOrders)
		admin.PATCH("/orders/:id", controllers.UpdateOrderStatus)

		admin.GET("/users", controllers.GetUsers)
		admin.PUT("/users", controllers.UpdateUserRole)
		admin.DELETE("/users", controllers.DeleteUser)

		admin.POST("/categories", controllers.CreateCategory)
		admin.PUT("/categories", controllers.UpdateCategory)
		admin.DELETE("/categories", controllers.DeleteCategory)

		admin.POST("/settings", controllers.SaveSettings)

		admin.GET("/tickets", controllers.GetAllTickets)
	}
}
