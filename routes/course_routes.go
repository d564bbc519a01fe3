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

// RegisterCourseRoutes sets up the course catalog, enrollment and
// video routes.
func RegisterCourseRoutes(e *echo.Echo, db *mongo.Client, redisClient *redis.Client, hub *websocket.Hub) {
	courseController := controllers.NewCourseController(db, redisClient, hub)

	// Public catalog
	e.GET("/api/courses", courseController.ListCourses)
	e.GET("/api/courses/:id", courseController.GetCourse)

	courseGroup := e.Group("/api/courses")
	courseGroup.Use(middleware.JWTMiddleware())

	courseGroup.POST("", courseController.CreateCourse,
		middleware.RequireUserType(models.UserTypeTeacher, models.UserTypeAdmin))
	courseGroup.POST("/:id/enroll", courseController.Enroll)
	courseGroup.POST("/:id/videos", courseController.AddVideo,
		middleware.RequireUserType(models.UserTypeTeacher, models.UserTypeAdmin))
}
