package models

import (
	"time"
)

// Question types
const (
	QuestionTypeMCQ       = "mcq"
	QuestionTypeTrueFalse = "true_false"
	QuestionTypeEssay     = "essay"

	// QuestionTypeMultipleChoice is the legacy spelling of mcq still found
	// in older exam documents.
	QuestionTypeMultipleChoice = "multiple_choice"
)

// QuestionOption is a single selectable answer of an mcq question.
type QuestionOption struct {
	ID   string `json:"id" bson:"id"`
	Text string `json:"text" bson:"text"`
}

// Question represents one question of a persisted exam.
//
// CorrectAnswer is type-dependent: for mcq it is the id of the correct
// option (legacy documents may hold a numeric index instead), for
// true_false it is a boolean, and for essay it is unused.
type Question struct {
	ID            string           `json:"id" bson:"id"`
	QuestionText  string           `json:"questionText" bson:"questionText"`
	Type          string           `json:"type" bson:"type"`
	Options       []QuestionOption `json:"options,omitempty" bson:"options,omitempty"`
	CorrectAnswer interface{}      `json:"correctAnswer,omitempty" bson:"correctAnswer,omitempty"`
	Points        int              `json:"points" bson:"points"`
	Order         int              `json:"order" bson:"order"`
	SampleAnswer  string           `json:"sampleAnswer,omitempty" bson:"sampleAnswer,omitempty"`
}

// Exam is the persisted exam shape.
type Exam struct {
	ID           string     `json:"id" bson:"_id"`
	CourseID     string     `json:"courseId,omitempty" bson:"courseId,omitempty"`
	Title        string     `json:"title" bson:"title"`
	Description  string     `json:"description,omitempty" bson:"description,omitempty"`
	TotalPoints  int        `json:"totalPoints" bson:"totalPoints"`
	Duration     int        `json:"duration" bson:"duration"`
	PassingScore int        `json:"passingScore" bson:"passingScore"`
	Questions    []Question `json:"questions" bson:"questions"`
	CreatedAt    time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt" bson:"updatedAt"`
}
