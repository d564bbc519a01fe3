package examform

import (
	"strings"
	"testing"

	"github.com/madrasa-platform/madrasa_backend/models"
)

func boolPtr(v bool) *bool { return &v }

func validForm() ExamForm {
	return ExamForm{
		Title: "quiz",
		Questions: []QuestionForm{
			{
				ID:           "q1",
				QuestionText: "pick one",
				Type:         models.QuestionTypeMCQ,
				Choices: []Choice{
					{ID: "c1", Text: "yes", IsCorrect: true},
					{ID: "c2", Text: "no"},
				},
			},
			{
				ID:            "q2",
				QuestionText:  "true or false",
				Type:          models.QuestionTypeTrueFalse,
				CorrectAnswer: boolPtr(true),
			},
		},
	}
}

func hasError(result ValidationResult, substr string) bool {
	for _, e := range result.Errors {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}

func TestValidateAcceptsCompleteForm(t *testing.T) {
	result := Validate(validForm())
	if !result.Valid {
		t.Errorf("expected valid form, got errors %v", result.Errors)
	}
}

func TestValidateMissingTitle(t *testing.T) {
	form := validForm()
	form.Title = "   "
	result := Validate(form)
	if result.Valid || !hasError(result, "title is required") {
		t.Errorf("expected title error, got %v", result.Errors)
	}
}

func TestValidateNoQuestionsShortCircuits(t *testing.T) {
	result := Validate(ExamForm{Title: "quiz"})
	if result.Valid {
		t.Error("expected invalid")
	}
	if len(result.Errors) != 1 || !hasError(result, "at least one question") {
		t.Errorf("expected only the question-count error, got %v", result.Errors)
	}
}

func TestValidatePerQuestionErrors(t *testing.T) {
	form := validForm()
	form.Questions[0].QuestionText = ""
	form.Questions[0].Choices[1].Text = " "
	form.Questions[1].CorrectAnswer = nil

	result := Validate(form)
	if result.Valid {
		t.Fatal("expected invalid")
	}
	for _, want := range []string{
		"question 1: question text is required",
		"question 1: choices must not be empty",
		"question 2: true/false questions need an answer",
	} {
		if !hasError(result, want) {
			t.Errorf("missing error %q in %v", want, result.Errors)
		}
	}
}

func TestValidateCorrectAnswerCount(t *testing.T) {
	form := validForm()
	form.Questions[0].Choices[0].IsCorrect = false
	result := Validate(form)
	if !hasError(result, "question 1: no correct answer selected") {
		t.Errorf("expected zero-correct error, got %v", result.Errors)
	}

	form = validForm()
	form.Questions[0].Choices[1].IsCorrect = true
	result = Validate(form)
	if !hasError(result, "question 1: select only one correct answer") {
		t.Errorf("expected multi-correct error, got %v", result.Errors)
	}
}

func TestValidateTooFewChoices(t *testing.T) {
	form := validForm()
	form.Questions[0].Choices = form.Questions[0].Choices[:1]
	result := Validate(form)
	if !hasError(result, "at least 2 choices") {
		t.Errorf("expected choice-count error, got %v", result.Errors)
	}
}

func TestValidateLegacyTypeSpelling(t *testing.T) {
	form := validForm()
	form.Questions[0].Type = models.QuestionTypeMultipleChoice
	form.Questions[0].Choices[0].IsCorrect = false
	result := Validate(form)
	if !hasError(result, "no correct answer selected") {
		t.Errorf("expected mcq rules to apply to legacy spelling, got %v", result.Errors)
	}
}
