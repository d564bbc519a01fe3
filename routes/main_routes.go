package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/madrasa-platform/madrasa_backend/websocket"
)

// SetupRoutes configures all API routes by calling individual route
// registration functions.
func SetupRoutes(e *echo.Echo, db *mongo.Client, redisClient *redis.Client, hub *websocket.Hub) {
	RegisterAuthRoutes(e, db)
	RegisterNotificationRoutes(e, db, redisClient, hub)
	RegisterCourseRoutes(e, db, redisClient, hub)
	RegisterExamRoutes(e, db, redisClient, hub)
	RegisterPaymentRoutes(e, db, redisClient, hub)
}
