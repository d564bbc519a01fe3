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

// RegisterExamRoutes sets up the exam builder routes. Exams are
// created and updated in the editor shape and stored normalized.
func RegisterExamRoutes(e *echo.Echo, db *mongo.Client, redisClient *redis.Client, hub *websocket.Hub) {
	examController := controllers.NewExamController(db, redisClient, hub)

	examGroup := e.Group("/api", middleware.JWTMiddleware())
	examGroup.GET("/exams/:id", examController.GetExamForm)
	examGroup.GET("/courses/:id/exams", examController.ListCourseExams)

	editGroup := e.Group("/api", middleware.JWTMiddleware(),
		middleware.RequireUserType(models.UserTypeTeacher, models.UserTypeAdmin))
	editGroup.POST("/exams/validate", examController.ValidateExamForm)
	editGroup.POST("/courses/:id/exams", examController.CreateExam)
	editGroup.PUT("/exams/:id", examController.UpdateExam)
	editGroup.DELETE("/exams/:id", examController.DeleteExam)
}
