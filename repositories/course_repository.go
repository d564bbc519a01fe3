package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/madrasa-platform/madrasa_backend/config"
	"github.com/madrasa-platform/madrasa_backend/models"
)

// Sentinel errors for course and enrollment lookups.
var (
	ErrCourseNotFound     = fmt.Errorf("course not found")
	ErrAlreadyEnrolled    = fmt.Errorf("already enrolled")
	ErrEnrollmentNotFound = fmt.Errorf("enrollment not found")
)

type CourseRepository struct {
	courses     *mongo.Collection
	enrollments *mongo.Collection
}

func NewCourseRepository(db *mongo.Client) *CourseRepository {
	return &CourseRepository{
		courses:     config.GetCollection(db, "courses"),
		enrollments: config.GetCollection(db, "enrollments"),
	}
}

// List returns all published courses.
func (r *CourseRepository) List() ([]models.Course, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := r.courses.Find(ctx, bson.M{"isPublished": true})
	if err != nil {
		return nil, fmt.Errorf("failed to find courses: %w", err)
	}
	defer cursor.Close(ctx)

	courses := []models.Course{}
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, fmt.Errorf("failed to decode courses: %w", err)
	}
	return courses, nil
}

// FindByID returns the course with the given id.
func (r *CourseRepository) FindByID(courseID primitive.ObjectID) (*models.Course, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var course models.Course
	err := r.courses.FindOne(ctx, bson.M{"_id": courseID}).Decode(&course)
	if err == mongo.ErrNoDocuments {
		return nil, ErrCourseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find course: %w", err)
	}
	return &course, nil
}

// Insert stores a new course.
func (r *CourseRepository) Insert(course models.Course) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.courses.InsertOne(ctx, course)
	if err != nil {
		return fmt.Errorf("failed to insert course: %w", err)
	}
	return nil
}

// AddVideo appends a video to a course's video list.
func (r *CourseRepository) AddVideo(courseID primitive.ObjectID, video models.CourseVideo) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := r.courses.UpdateOne(ctx,
		bson.M{"_id": courseID},
		bson.M{
			"$push": bson.M{"videos": video},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to add video: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrCourseNotFound
	}
	return nil
}

// AttachExam links an exam id to a course.
func (r *CourseRepository) AttachExam(courseID primitive.ObjectID, examID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := r.courses.UpdateOne(ctx,
		bson.M{"_id": courseID},
		bson.M{
			"$addToSet": bson.M{"examIds": examID},
			"$set":      bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to attach exam: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrCourseNotFound
	}
	return nil
}

// Enroll creates a pending enrollment unless one already exists.
func (r *CourseRepository) Enroll(userID, courseID primitive.ObjectID) (*models.Enrollment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var existing models.Enrollment
	err := r.enrollments.FindOne(ctx, bson.M{"userId": userID, "courseId": courseID}).Decode(&existing)
	if err == nil {
		return &existing, ErrAlreadyEnrolled
	}
	if err != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("failed to check enrollment: %w", err)
	}

	now := time.Now()
	enrollment := models.Enrollment{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		CourseID:  courseID,
		Status:    models.EnrollmentStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.enrollments.InsertOne(ctx, enrollment); err != nil {
		return nil, fmt.Errorf("failed to insert enrollment: %w", err)
	}
	return &enrollment, nil
}

// ActivateEnrollment flips an enrollment to active.
func (r *CourseRepository) ActivateEnrollment(userID, courseID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := r.enrollments.UpdateOne(ctx,
		bson.M{"userId": userID, "courseId": courseID},
		bson.M{"$set": bson.M{"status": models.EnrollmentStatusActive, "updatedAt": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to activate enrollment: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrEnrollmentNotFound
	}
	return nil
}

// EnrolledUserIDs returns the ids of every user with an active
// enrollment in the course.
func (r *CourseRepository) EnrolledUserIDs(courseID primitive.ObjectID) ([]primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := r.enrollments.Find(ctx, bson.M{
		"courseId": courseID,
		"status":   models.EnrollmentStatusActive,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find enrollments: %w", err)
	}
	defer cursor.Close(ctx)

	var enrollments []models.Enrollment
	if err := cursor.All(ctx, &enrollments); err != nil {
		return nil, fmt.Errorf("failed to decode enrollments: %w", err)
	}

	ids := make([]primitive.ObjectID, 0, len(enrollments))
	for _, e := range enrollments {
		ids = append(ids, e.UserID)
	}
	return ids, nil
}
