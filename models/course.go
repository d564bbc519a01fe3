package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Enrollment statuses
const (
	EnrollmentStatusPending = "pending"
	EnrollmentStatusActive  = "active"
)

// CourseVideo is a single lecture video attached to a course.
type CourseVideo struct {
	ID           primitive.ObjectID `json:"id" bson:"id"`
	Title        string             `json:"title" bson:"title"`
	URL          string             `json:"url" bson:"url"`
	ThumbnailURL string             `json:"thumbnailUrl,omitempty" bson:"thumbnailUrl,omitempty"`
	Duration     float64            `json:"duration" bson:"duration"` // seconds
	Order        int                `json:"order" bson:"order"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
}

// Course model
type Course struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	TeacherID   primitive.ObjectID `json:"teacherId" bson:"teacherId"`
	Price       float64            `json:"price" bson:"price"`
	Videos      []CourseVideo      `json:"videos,omitempty" bson:"videos,omitempty"`
	ExamIDs     []string           `json:"examIds,omitempty" bson:"examIds,omitempty"`
	IsPublished bool               `json:"isPublished" bson:"isPublished"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Enrollment links a student to a course. A pending enrollment becomes
// active once the payment proof is approved.
type Enrollment struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	CourseID  primitive.ObjectID `json:"courseId" bson:"courseId"`
	Status    string             `json:"status" bson:"status"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CreateCourseRequest is the body of POST /api/courses.
type CreateCourseRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// AddVideoRequest is the body of POST /api/courses/:id/videos.
type AddVideoRequest struct {
	Title string `json:"title" validate:"required"`
	URL   string `json:"url" validate:"required"`
}
