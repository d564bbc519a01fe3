package controllers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/madrasa-platform/madrasa_backend/middleware"
	"github.com/madrasa-platform/madrasa_backend/models"
	"github.com/madrasa-platform/madrasa_backend/repositories"
)

type AuthController struct {
	db    *mongo.Client
	users *repositories.UserRepository
}

func NewAuthController(db *mongo.Client) *AuthController {
	return &AuthController{
		db:    db,
		users: repositories.NewUserRepository(db),
	}
}

// Signup registers a new student account.
func (ac *AuthController) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Full name, a valid email and a password of at least 8 characters are required",
		})
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if existing, _ := ac.users.FindByEmail(email); existing != nil {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Email already registered",
		})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create account",
		})
	}

	now := time.Now()
	user := models.User{
		ID:        primitive.NewObjectID(),
		FullName:  req.FullName,
		Email:     email,
		Password:  string(hashed),
		Phone:     req.Phone,
		UserType:  models.UserTypeStudent,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := ac.users.Insert(user); err != nil {
		log.Printf("Error inserting user: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create account",
		})
	}

	token, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.UserType)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create account",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Account created",
		Data:    models.LoginData{Token: token, User: user},
	})
}

// Login verifies credentials and issues a JWT.
func (ac *AuthController) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email and password are required",
		})
	}

	user, err := ac.users.FindByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid email or password",
		})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid email or password",
		})
	}
	if !user.IsActive {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Account is disabled",
		})
	}

	token, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.UserType)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to log in",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Logged in",
		Data:    models.LoginData{Token: token, User: *user},
	})
}

// Me returns the authenticated user's profile.
func (ac *AuthController) Me(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	user, err := ac.users.FindByID(userID)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profile loaded",
		Data:    user,
	})
}
