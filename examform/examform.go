// Package examform converts exams between the persisted shape
// (options plus a correctAnswer reference) and the editable form shape
// (choices with isCorrect flags), and validates forms before submission.
// Everything in this package is pure: no I/O, no shared state.
package examform

import (
	"github.com/google/uuid"

	"github.com/madrasa-platform/madrasa_backend/models"
)

// Choice is a single answer of an mcq question in the editable shape.
type Choice struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// QuestionForm is one question in the editable shape. For mcq questions
// the answer lives on the Choices; for true_false it lives in
// CorrectAnswer, which stays nil until the editor picks a value.
type QuestionForm struct {
	ID            string   `json:"id"`
	QuestionText  string   `json:"questionText"`
	Type          string   `json:"type"`
	Choices       []Choice `json:"choices,omitempty"`
	CorrectAnswer *bool    `json:"correctAnswer,omitempty"`
	Points        int      `json:"points"`
	Order         int      `json:"order"`
	SampleAnswer  string   `json:"sampleAnswer,omitempty"`
}

// ExamForm is the editable shape of an exam.
type ExamForm struct {
	ID           string         `json:"id,omitempty"`
	CourseID     string         `json:"courseId,omitempty"`
	Title        string         `json:"title"`
	Description  string         `json:"description,omitempty"`
	TotalPoints  int            `json:"totalPoints"`
	Duration     int            `json:"duration"`
	PassingScore int            `json:"passingScore"`
	Questions    []QuestionForm `json:"questions"`
}

// newID synthesizes a stable identifier for entities that arrive without one.
func newID() string {
	return uuid.NewString()
}

// normalizeType maps the legacy multiple_choice spelling onto mcq.
func normalizeType(t string) string {
	if t == models.QuestionTypeMultipleChoice {
		return models.QuestionTypeMCQ
	}
	return t
}

// defaultChoices returns the two empty choices a fresh mcq question
// starts with, the first one marked correct.
func defaultChoices() []Choice {
	return []Choice{
		{ID: newID(), Text: "", IsCorrect: true},
		{ID: newID(), Text: "", IsCorrect: false},
	}
}

// copyQuestion deep-copies a question form.
func copyQuestion(q QuestionForm) QuestionForm {
	out := q
	if q.Choices != nil {
		out.Choices = make([]Choice, len(q.Choices))
		copy(out.Choices, q.Choices)
	}
	if q.CorrectAnswer != nil {
		v := *q.CorrectAnswer
		out.CorrectAnswer = &v
	}
	return out
}

// copyForm deep-copies an exam form so mutators never alias their input.
func copyForm(form ExamForm) ExamForm {
	out := form
	out.Questions = make([]QuestionForm, len(form.Questions))
	for i, q := range form.Questions {
		out.Questions[i] = copyQuestion(q)
	}
	return out
}

// renumber rewrites every question's Order 1-based by position.
func renumber(questions []QuestionForm) {
	for i := range questions {
		questions[i].Order = i + 1
	}
}
