package examform

import (
	"strings"
	"testing"

	"github.com/madrasa-platform/madrasa_backend/models"
)

func sampleForm() ExamForm {
	return ExamForm{
		ID:    "exam-1",
		Title: "quiz",
		Questions: []QuestionForm{
			{
				ID:           "q1",
				QuestionText: "first",
				Type:         models.QuestionTypeMCQ,
				Points:       1,
				Order:        1,
				Choices: []Choice{
					{ID: "c1", Text: "one", IsCorrect: true},
					{ID: "c2", Text: "two"},
					{ID: "c3", Text: "three"},
				},
			},
			{
				ID:           "q2",
				QuestionText: "second",
				Type:         models.QuestionTypeEssay,
				Points:       2,
				Order:        2,
			},
		},
	}
}

func TestAddQuestionInsertsAfterAndRenumbers(t *testing.T) {
	form := sampleForm()
	out := AddQuestion(form, models.QuestionTypeMCQ, "q1")

	if len(out.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(out.Questions))
	}
	added := out.Questions[1]
	if added.ID == "" || added.ID == "q1" || added.ID == "q2" {
		t.Errorf("expected a fresh id, got %q", added.ID)
	}
	if len(added.Choices) != 2 || !added.Choices[0].IsCorrect {
		t.Errorf("expected two default choices with the first correct, got %+v", added.Choices)
	}
	for i, q := range out.Questions {
		if q.Order != i+1 {
			t.Errorf("position %d: expected order %d, got %d", i, i+1, q.Order)
		}
	}
	// Input must stay untouched.
	if len(form.Questions) != 2 {
		t.Error("mutator aliased its input")
	}
}

func TestAddQuestionUnknownAnchorAppends(t *testing.T) {
	out := AddQuestion(sampleForm(), models.QuestionTypeEssay, "no-such-id")
	if len(out.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(out.Questions))
	}
	if out.Questions[2].Type != models.QuestionTypeEssay {
		t.Errorf("expected new question at the end, got %+v", out.Questions[2])
	}
}

func TestRemoveQuestionRenumbers(t *testing.T) {
	out := RemoveQuestion(sampleForm(), "q1")
	if len(out.Questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(out.Questions))
	}
	if out.Questions[0].ID != "q2" || out.Questions[0].Order != 1 {
		t.Errorf("expected q2 renumbered to 1, got %+v", out.Questions[0])
	}
}

func TestDuplicateQuestionFreshIDsAndMarker(t *testing.T) {
	out := DuplicateQuestion(sampleForm(), "q1")
	if len(out.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(out.Questions))
	}
	dup := out.Questions[2]
	if dup.ID == "q1" {
		t.Error("duplicate kept the original question id")
	}
	if !strings.HasSuffix(dup.QuestionText, duplicateMarker) {
		t.Errorf("expected duplicate marker on %q", dup.QuestionText)
	}
	orig := map[string]bool{"c1": true, "c2": true, "c3": true}
	for _, ch := range dup.Choices {
		if orig[ch.ID] {
			t.Errorf("duplicate kept choice id %q", ch.ID)
		}
	}
	// Correctness flags ride along.
	if !dup.Choices[0].IsCorrect {
		t.Error("expected duplicated first choice to stay correct")
	}
}

func TestRemoveChoiceFloorOfTwo(t *testing.T) {
	form := sampleForm()
	form.Questions[0].Choices = form.Questions[0].Choices[:2]

	out := RemoveChoice(form, "q1", "c1")
	if len(out.Questions[0].Choices) != 2 {
		t.Errorf("expected removal to be a no-op at two choices, got %d", len(out.Questions[0].Choices))
	}
}

func TestRemoveChoiceReassignsCorrect(t *testing.T) {
	out := RemoveChoice(sampleForm(), "q1", "c1")
	choices := out.Questions[0].Choices
	if len(choices) != 2 {
		t.Fatalf("expected 2 choices, got %d", len(choices))
	}
	if !choices[0].IsCorrect {
		t.Error("expected first remaining choice to become correct")
	}
}

func TestSetCorrectAnswerIsSingleSelect(t *testing.T) {
	form := sampleForm()
	form.Questions[0].Choices[1].IsCorrect = true // transient multi-correct state

	out := SetCorrectAnswer(form, "q1", "c3")
	got := correctChoiceIDs(out.Questions[0].Choices)
	if len(got) != 1 || got[0] != "c3" {
		t.Errorf("expected only c3 correct, got %v", got)
	}
}

func TestSetTrueFalseAnswer(t *testing.T) {
	form := sampleForm()
	form.Questions[1].Type = models.QuestionTypeTrueFalse

	out := SetTrueFalseAnswer(form, "q2", false)
	got := out.Questions[1].CorrectAnswer
	if got == nil || *got != false {
		t.Errorf("expected answer false, got %v", got)
	}
}

func TestUpdateQuestionTypeSeedsChoices(t *testing.T) {
	out := UpdateQuestionType(sampleForm(), "q2", models.QuestionTypeMultipleChoice)
	q := out.Questions[1]
	if q.Type != models.QuestionTypeMCQ {
		t.Errorf("expected legacy spelling to normalize to mcq, got %q", q.Type)
	}
	if len(q.Choices) != 2 || !q.Choices[0].IsCorrect {
		t.Errorf("expected seeded default choices, got %+v", q.Choices)
	}
}

func TestUpdateQuestionTypeKeepsChoicesOnSwitchAway(t *testing.T) {
	out := UpdateQuestionType(sampleForm(), "q1", models.QuestionTypeEssay)
	if len(out.Questions[0].Choices) != 3 {
		t.Error("expected choices kept when switching away from mcq")
	}

	back := UpdateQuestionType(out, "q1", models.QuestionTypeMCQ)
	if got := back.Questions[0].Choices; len(got) != 3 || got[0].ID != "c1" {
		t.Errorf("expected original choices on switch back, got %+v", got)
	}
}

func TestTextAndPointsUpdates(t *testing.T) {
	form := sampleForm()

	out := UpdateQuestionText(form, "q1", "updated")
	if out.Questions[0].QuestionText != "updated" {
		t.Errorf("expected updated text, got %q", out.Questions[0].QuestionText)
	}

	out = UpdateChoiceText(form, "q1", "c2", "deux")
	if out.Questions[0].Choices[1].Text != "deux" {
		t.Errorf("expected choice text deux, got %q", out.Questions[0].Choices[1].Text)
	}

	out = UpdateQuestionPoints(form, "q2", 10)
	if out.Questions[1].Points != 10 {
		t.Errorf("expected 10 points, got %d", out.Questions[1].Points)
	}

	if form.Questions[0].QuestionText != "first" || form.Questions[1].Points != 2 {
		t.Error("mutators aliased their input")
	}
}
