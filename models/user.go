package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User types
const (
	UserTypeStudent = "student"
	UserTypeTeacher = "teacher"
	UserTypeAdmin   = "admin"
)

// User model
type User struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	FullName  string             `json:"fullName" bson:"fullName"`
	Email     string             `json:"email" bson:"email"`
	Password  string             `json:"-" bson:"password"`
	Phone     string             `json:"phone,omitempty" bson:"phone,omitempty"`
	UserType  string             `json:"userType" bson:"userType"`
	FCMToken  string             `json:"-" bson:"fcmToken,omitempty"`
	IsActive  bool               `json:"isActive" bson:"isActive"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// SignupRequest is the body of POST /api/auth/signup.
type SignupRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Phone    string `json:"phone"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginData is the data payload returned on successful login.
type LoginData struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// FCMTokenRequest is the body for registering a device token.
type FCMTokenRequest struct {
	FCMToken string `json:"fcmToken" validate:"required"`
}

// Response is the standard JSON envelope of every endpoint.
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
