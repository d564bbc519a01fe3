package examform

import (
	"fmt"
	"strings"

	"github.com/madrasa-platform/madrasa_backend/models"
)

// ValidationResult collects everything wrong with a form. Submission
// must be blocked while Valid is false.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// Validate checks an exam form for structural completeness before
// submission. Mutators tolerate transient zero- or multi-correct
// states while editing; this is where those states are rejected.
func Validate(form ExamForm) ValidationResult {
	var errs []string

	if strings.TrimSpace(form.Title) == "" {
		errs = append(errs, "exam title is required")
	}

	if len(form.Questions) == 0 {
		errs = append(errs, "exam must have at least one question")
		return ValidationResult{Valid: false, Errors: errs}
	}

	for i, q := range form.Questions {
		num := i + 1
		if strings.TrimSpace(q.QuestionText) == "" {
			errs = append(errs, fmt.Sprintf("question %d: question text is required", num))
		}

		switch normalizeType(q.Type) {
		case models.QuestionTypeMCQ:
			if len(q.Choices) < 2 {
				errs = append(errs, fmt.Sprintf("question %d: mcq questions need at least 2 choices", num))
			}
			correct := 0
			for _, ch := range q.Choices {
				if strings.TrimSpace(ch.Text) == "" {
					errs = append(errs, fmt.Sprintf("question %d: choices must not be empty", num))
					break
				}
			}
			for _, ch := range q.Choices {
				if ch.IsCorrect {
					correct++
				}
			}
			if correct == 0 {
				errs = append(errs, fmt.Sprintf("question %d: no correct answer selected", num))
			} else if correct > 1 {
				errs = append(errs, fmt.Sprintf("question %d: select only one correct answer", num))
			}
		case models.QuestionTypeTrueFalse:
			if q.CorrectAnswer == nil {
				errs = append(errs, fmt.Sprintf("question %d: true/false questions need an answer", num))
			}
		}
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}
