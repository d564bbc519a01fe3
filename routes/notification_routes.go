package routes

import (
	"net/http"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/madrasa-platform/madrasa_backend/controllers"
	"github.com/madrasa-platform/madrasa_backend/middleware"
	"github.com/madrasa-platform/madrasa_backend/models"
	"github.com/madrasa-platform/madrasa_backend/websocket"
)

// RegisterNotificationRoutes registers the notification REST surface
// and the websocket endpoint notifications are pushed over.
func RegisterNotificationRoutes(e *echo.Echo, db *mongo.Client, redisClient *redis.Client, hub *websocket.Hub) {
	notificationController := controllers.NewNotificationController(db, redisClient, hub)

	notificationGroup := e.Group("/api/notifications")
	notificationGroup.Use(middleware.JWTMiddleware())

	notificationGroup.GET("", notificationController.GetNotifications)
	notificationGroup.GET("/unread-count", notificationController.GetUnreadCount)
	notificationGroup.PATCH("/:id/read", notificationController.MarkAsRead)
	notificationGroup.PATCH("/mark-all-read", notificationController.MarkAllAsRead)
	notificationGroup.DELETE("/:id", notificationController.DeleteNotification)
	notificationGroup.PATCH("/bulk-mark-read", notificationController.BulkMarkAsRead)
	notificationGroup.DELETE("/bulk-delete", notificationController.BulkDelete)

	// Admin broadcast
	notificationGroup.POST("/announce", notificationController.Announce,
		middleware.RequireUserType(models.UserTypeAdmin))

	// Device token registration for push mirroring
	authGroup := e.Group("/api")
	authGroup.Use(middleware.JWTMiddleware())
	authGroup.POST("/users/fcm-token", notificationController.RegisterFCMToken)

	// Browsers cannot set an Authorization header on a websocket
	// upgrade, so the token rides in the query string.
	e.GET("/api/ws", func(c echo.Context) error {
		claims, err := middleware.ParseToken(c.QueryParam("token"))
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or missing token")
		}
		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid user ID in token")
		}
		return websocket.HandleWebSocket(c, hub, userID)
	})
}
