package examform

import (
	"testing"

	"github.com/madrasa-platform/madrasa_backend/models"
)

func correctChoiceIDs(choices []Choice) []string {
	var ids []string
	for _, ch := range choices {
		if ch.IsCorrect {
			ids = append(ids, ch.ID)
		}
	}
	return ids
}

func TestServerToUICorrectAnswerByOptionID(t *testing.T) {
	exam := models.Exam{
		ID:    "exam-1",
		Title: "الرياضيات",
		Questions: []models.Question{
			{
				ID:           "q1",
				QuestionText: "2+2?",
				Type:         models.QuestionTypeMCQ,
				Options: []models.QuestionOption{
					{ID: "a", Text: "3"},
					{ID: "b", Text: "4"},
					{ID: "c", Text: "5"},
				},
				CorrectAnswer: "b",
			},
		},
	}

	form := ServerToUI(exam)
	if len(form.Questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(form.Questions))
	}
	got := correctChoiceIDs(form.Questions[0].Choices)
	if len(got) != 1 || got[0] != "b" {
		t.Errorf("expected choice b to be correct, got %v", got)
	}
}

func TestServerToUILegacyNumericIndex(t *testing.T) {
	// Old documents store the correct answer as a positional index.
	for _, correctAnswer := range []interface{}{2, int32(2), int64(2), float64(2)} {
		exam := models.Exam{
			ID: "exam-1",
			Questions: []models.Question{
				{
					ID:   "q1",
					Type: models.QuestionTypeMultipleChoice,
					Options: []models.QuestionOption{
						{ID: "a", Text: "red"},
						{ID: "b", Text: "green"},
						{ID: "c", Text: "blue"},
					},
					CorrectAnswer: correctAnswer,
				},
			},
		}

		form := ServerToUI(exam)
		q := form.Questions[0]
		if q.Type != models.QuestionTypeMCQ {
			t.Errorf("expected legacy type to normalize to mcq, got %q", q.Type)
		}
		got := correctChoiceIDs(q.Choices)
		if len(got) != 1 || got[0] != "c" {
			t.Errorf("correctAnswer %T(%v): expected choice c, got %v", correctAnswer, correctAnswer, got)
		}
	}
}

func TestServerToUIUnresolvableAnswerFallsBackToFirstChoice(t *testing.T) {
	cases := []interface{}{"missing-id", 7, -1, nil}
	for _, correctAnswer := range cases {
		exam := models.Exam{
			ID: "exam-1",
			Questions: []models.Question{
				{
					ID:   "q1",
					Type: models.QuestionTypeMCQ,
					Options: []models.QuestionOption{
						{ID: "a", Text: "yes"},
						{ID: "b", Text: "no"},
					},
					CorrectAnswer: correctAnswer,
				},
			},
		}

		got := correctChoiceIDs(ServerToUI(exam).Questions[0].Choices)
		if len(got) != 1 || got[0] != "a" {
			t.Errorf("correctAnswer %v: expected fallback to first choice, got %v", correctAnswer, got)
		}
	}
}

func TestServerToUISynthesizesMissingIDs(t *testing.T) {
	exam := models.Exam{
		ID: "exam-1",
		Questions: []models.Question{
			{
				Type: models.QuestionTypeMCQ,
				Options: []models.QuestionOption{
					{Text: "one"},
					{Text: "two"},
				},
			},
		},
	}

	q := ServerToUI(exam).Questions[0]
	if q.ID == "" {
		t.Error("expected question to get a synthesized id")
	}
	seen := map[string]bool{}
	for _, ch := range q.Choices {
		if ch.ID == "" {
			t.Error("expected choice to get a synthesized id")
		}
		if seen[ch.ID] {
			t.Errorf("duplicate synthesized id %q", ch.ID)
		}
		seen[ch.ID] = true
	}
}

func TestServerToUITrueFalseAnswer(t *testing.T) {
	exam := models.Exam{
		ID: "exam-1",
		Questions: []models.Question{
			{ID: "q1", Type: models.QuestionTypeTrueFalse, CorrectAnswer: false},
			{ID: "q2", Type: models.QuestionTypeTrueFalse},
		},
	}

	form := ServerToUI(exam)
	if form.Questions[0].CorrectAnswer == nil || *form.Questions[0].CorrectAnswer != false {
		t.Error("expected q1 answer false")
	}
	if form.Questions[1].CorrectAnswer != nil {
		t.Error("expected q2 answer to stay nil when the document has none")
	}
}

func TestUIToServerBuildsOptionsAndCorrectAnswer(t *testing.T) {
	form := ExamForm{
		Title:    "فيزياء",
		Duration: 30,
		Questions: []QuestionForm{
			{
				ID:           "q1",
				QuestionText: "speed of light?",
				Type:         models.QuestionTypeMCQ,
				Points:       5,
				Choices: []Choice{
					{ID: "a", Text: "3e8 m/s", IsCorrect: true},
					{ID: "b", Text: "3e6 m/s"},
				},
			},
		},
	}

	exam := UIToServer(form, "exam-9")
	if exam.ID != "exam-9" {
		t.Errorf("expected exam to keep id exam-9, got %q", exam.ID)
	}
	q := exam.Questions[0]
	if len(q.Options) != 2 {
		t.Fatalf("expected 2 options, got %d", len(q.Options))
	}
	if q.CorrectAnswer != "a" {
		t.Errorf("expected correctAnswer a, got %v", q.CorrectAnswer)
	}
	if exam.TotalPoints != 5 {
		t.Errorf("expected totalPoints 5, got %d", exam.TotalPoints)
	}
}

func TestUIToServerDefaultsAndRenumbering(t *testing.T) {
	form := ExamForm{
		Title: "test",
		Questions: []QuestionForm{
			{ID: "q1", Type: models.QuestionTypeEssay, Order: 9},
			{ID: "q2", Type: models.QuestionTypeEssay, Order: 3},
		},
	}

	exam := UIToServer(form, "")
	if exam.ID == "" {
		t.Error("expected a fresh exam id")
	}
	// Zero points default to 1 per question.
	if exam.TotalPoints != 2 {
		t.Errorf("expected totalPoints 2, got %d", exam.TotalPoints)
	}
	for i, q := range exam.Questions {
		if q.Order != i+1 {
			t.Errorf("question %d: expected order %d, got %d", i, i+1, q.Order)
		}
		if q.Points != 1 {
			t.Errorf("question %d: expected default points 1, got %d", i, q.Points)
		}
	}
}

func TestRoundTripPreservesIdentity(t *testing.T) {
	exam := models.Exam{
		ID:       "exam-1",
		CourseID: "course-1",
		Title:    "التاريخ",
		Duration: 45,
		Questions: []models.Question{
			{
				ID:           "q1",
				QuestionText: "متى انتهت الحرب العالمية الثانية؟",
				Type:         models.QuestionTypeMCQ,
				Options: []models.QuestionOption{
					{ID: "a", Text: "1918"},
					{ID: "b", Text: "1945"},
				},
				CorrectAnswer: "b",
				Points:        2,
				Order:         1,
			},
			{
				ID:            "q2",
				QuestionText:  "عبارة صحيحة؟",
				Type:          models.QuestionTypeTrueFalse,
				CorrectAnswer: true,
				Points:        1,
				Order:         2,
			},
		},
	}

	first := ServerToUI(exam)
	back := UIToServer(first, exam.ID)
	if back.ID != exam.ID || back.CourseID != exam.CourseID {
		t.Errorf("identity lost: got %q/%q", back.ID, back.CourseID)
	}
	if back.Questions[0].CorrectAnswer != "b" {
		t.Errorf("expected correctAnswer b after round trip, got %v", back.Questions[0].CorrectAnswer)
	}
	if back.Questions[1].CorrectAnswer != true {
		t.Errorf("expected true/false answer preserved, got %v", back.Questions[1].CorrectAnswer)
	}
	if back.TotalPoints != 3 {
		t.Errorf("expected totalPoints 3, got %d", back.TotalPoints)
	}

	again := ServerToUI(back)
	if len(again.Questions) != len(first.Questions) {
		t.Fatalf("second conversion has %d questions, want %d", len(again.Questions), len(first.Questions))
	}
	for i := range first.Questions {
		fq, aq := first.Questions[i], again.Questions[i]
		if aq.QuestionText != fq.QuestionText {
			t.Errorf("question %d: text %q, want %q", i, aq.QuestionText, fq.QuestionText)
		}
		if aq.Type != fq.Type || aq.Order != fq.Order || aq.Points != fq.Points {
			t.Errorf("question %d: type/order/points drifted: %+v vs %+v", i, aq, fq)
		}
		if len(aq.Choices) != len(fq.Choices) {
			t.Fatalf("question %d: %d choices, want %d", i, len(aq.Choices), len(fq.Choices))
		}
		for j := range fq.Choices {
			fc, ac := fq.Choices[j], aq.Choices[j]
			if ac.ID != fc.ID || ac.Text != fc.Text || ac.IsCorrect != fc.IsCorrect {
				t.Errorf("question %d choice %d: %+v, want %+v", i, j, ac, fc)
			}
		}
		if (aq.CorrectAnswer == nil) != (fq.CorrectAnswer == nil) {
			t.Errorf("question %d: correctAnswer presence drifted", i)
		} else if fq.CorrectAnswer != nil && *aq.CorrectAnswer != *fq.CorrectAnswer {
			t.Errorf("question %d: correctAnswer %v, want %v", i, *aq.CorrectAnswer, *fq.CorrectAnswer)
		}
	}
}
