package routes

import (
	"github.com/Kariqs/digistore-api/controllers"
	"github.com/Kariqs/digistore-api/middlewares"
	"github.com/gin-gonic/gin"
)

func UserRoutes(server *gin.Engine) {
	server.POST("/api/user", middlewares.RequireAuth(), controllers.SyncUser)

	server.GET("/api/categories", controllers.GetCategories)
	server.GET("/api/settings", controllers.GetSettings)

	tickets := server.Group("/api/tickets", middlewares.RequireAuth())
	{
		tickets.GET("", controllers.GetTickets)
		tickets.POST("", controllers.CreateTicket)
		tickets.PATCH("", controllers.UpdateTicketStatus)
		tickets.POST("/messages", controllers.ReplyToTicket)
	}
}
