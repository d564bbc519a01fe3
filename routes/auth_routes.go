package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/madrasa-platform/madrasa_backend/controllers"
	"github.com/madrasa-platform/madrasa_backend/middleware"
)

// RegisterAuthRoutes sets up signup, login and profile routes.
func RegisterAuthRoutes(e *echo.Echo, db *mongo.Client) {
	authController := controllers.NewAuthController(db)

	// Public authentication routes
	e.POST("/api/auth/signup", authController.Signup)
	e.POST("/api/auth/login", authController.Login)

	// Authenticated profile route
	authGroup := e.Group("/api/auth")
	authGroup.Use(middleware.JWTMiddleware())
	authGroup.GET("/me", authController.Me)
}
