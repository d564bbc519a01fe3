package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/madrasa-platform/madrasa_backend/controllers"
	"github.com/madrasa-platform/madrasa_backend/middleware"
	"github.com/madrasa-platform/madrasa_backend/models"
	"github.com/madrasa-platform/madrasa_backend/websocket"
)

// RegisterPaymentRoutes sets up proof submission and admin review.
func RegisterPaymentRoutes(e *echo.Echo, db *mongo.Client, redisClient *redis.Client, hub *websocket.Hub) {
	paymentController := controllers.NewPaymentController(db, redisClient, hub)

	paymentGroup := e.Group("/api/payments", middleware.JWTMiddleware())
	paymentGroup.POST("", paymentController.SubmitProof)

	adminGroup := e.Group("/api/payments", middleware.JWTMiddleware(),
		middleware.RequireUserType(models.UserTypeAdmin))
	adminGroup.GET("/pending", paymentController.ListPending)
	adminGroup.POST("/:id/approve", paymentController.Approve)
	adminGroup.POST("/:id/reject", paymentController.Reject)
}
