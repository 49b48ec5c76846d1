package routes

import "github.com/gin-gonic/gin"

// Register mounts every route group on server.
func Register(server *gin.Engine) {
	DefaultRoutes(server)
	CartRoutes(server)
	OrderRoutes(server)
	ProductRoutes(server)
	UserRoutes(server)
	AdminRoutes(server)
}
