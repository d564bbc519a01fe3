package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/madrasa-platform/madrasa_backend/config"
	"github.com/madrasa-platform/madrasa_backend/models"
)

// ErrExamNotFound is returned when an exam id matches nothing.
var ErrExamNotFound = fmt.Errorf("exam not found")

type ExamRepository struct {
	collection *mongo.Collection
}

func NewExamRepository(db *mongo.Client) *ExamRepository {
	return &ExamRepository{
		collection: config.GetCollection(db, "exams"),
	}
}

// FindByID returns the exam with the given id.
func (r *ExamRepository) FindByID(examID string) (*models.Exam, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var exam models.Exam
	err := r.collection.FindOne(ctx, bson.M{"_id": examID}).Decode(&exam)
	if err == mongo.ErrNoDocuments {
		return nil, ErrExamNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find exam: %w", err)
	}
	return &exam, nil
}

// FindByCourse returns every exam attached to a course.
func (r *ExamRepository) FindByCourse(courseID string) ([]models.Exam, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"courseId": courseID})
	if err != nil {
		return nil, fmt.Errorf("failed to find exams: %w", err)
	}
	defer cursor.Close(ctx)

	exams := []models.Exam{}
	if err := cursor.All(ctx, &exams); err != nil {
		return nil, fmt.Errorf("failed to decode exams: %w", err)
	}
	return exams, nil
}

// Insert stores a new exam.
func (r *ExamRepository) Insert(exam models.Exam) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.collection.InsertOne(ctx, exam)
	if err != nil {
		return fmt.Errorf("failed to insert exam: %w", err)
	}
	return nil
}

// Update replaces an existing exam document.
func (r *ExamRepository) Update(exam models.Exam) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": exam.ID}, exam)
	if err != nil {
		return fmt.Errorf("failed to update exam: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrExamNotFound
	}
	return nil
}

// Delete removes an exam.
func (r *ExamRepository) Delete(examID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": examID})
	if err != nil {
		return fmt.Errorf("failed to delete exam: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrExamNotFound
	}
	return nil
}
