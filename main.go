package main

import (
	"time"

	"github.com/Kariqs/digistore-api/initializers"
	"github.com/Kariqs/digistore-api/middlewares"
	"github.com/Kariqs/digistore-api/routes"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func init() {
	initializers.LoadEnv()
	initializers.LoadConfig()
	initializers.InitLogger()
	initializers.ConnectToDB()
	initializers.SyncDatabase()
	initializers.InitPayments()
	initializers.InitStorage()
	initializers.InitIdentity()
	initializers.InitMailer()
}

func main() {
	defer initializers.Logger.Sync()

	if initializers.Cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	server := gin.New()
	server.Use(gin.Recovery(), middlewares.RequestLogger(initializers.Logger.Named("http")))
	server.Use(cors.New(cors.Config{
		AllowOrigins:     initializers.Cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middlewares.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middlewares.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	routes.Register(server)

	initializers.Logger.Info("Starting server", zap.String("port", initializers.Cfg.Port))
	if err := server.Run(":" + initializers.Cfg.Port); err != nil {
		initializers.Logger.Fatal("Server stopped", zap.Error(err))
	}
}
