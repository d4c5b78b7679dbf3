package http

import (
	"github.com/gin-gonic/gin"

	"github.com/layer-3/rangda/service"
)

// SetupRouter sets up the Gin router.
func SetupRouter(auth *service.AuthService, intents *service.IntentService, tracker *service.OrderTracker) *gin.Engine {
	router := gin.Default()

	handlers := NewHandlers(auth, intents, tracker)

	// Auth routes
	router.POST("/auth/login", handlers.Login)

	// Protected API routes
	api := router.Group("/api")
	api.Use(AuthMiddleware(auth))
	{
		api.POST("/intents/token-transfer", handlers.TransferToken)
		api.GET("/orders", handlers.OrderStatus)
		api.GET("/me", handlers.Me)
	}

	return router
}
