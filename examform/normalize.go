package examform

import (
	"github.com/madrasa-platform/madrasa_backend/models"
)

// ServerToUI converts a persisted exam into the editable form shape.
// Option ids are kept when present and synthesized when absent, so a
// round trip through UIToServer preserves identity.
func ServerToUI(exam models.Exam) ExamForm {
	form := ExamForm{
		ID:           exam.ID,
		CourseID:     exam.CourseID,
		Title:        exam.Title,
		Description:  exam.Description,
		TotalPoints:  exam.TotalPoints,
		Duration:     exam.Duration,
		PassingScore: exam.PassingScore,
		Questions:    make([]QuestionForm, 0, len(exam.Questions)),
	}

	for _, q := range exam.Questions {
		qf := QuestionForm{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			Type:         normalizeType(q.Type),
			Points:       q.Points,
			Order:        q.Order,
			SampleAnswer: q.SampleAnswer,
		}
		if qf.ID == "" {
			qf.ID = newID()
		}

		switch qf.Type {
		case models.QuestionTypeMCQ:
			qf.Choices = choicesFromOptions(q.Options, q.CorrectAnswer)
		case models.QuestionTypeTrueFalse:
			if b, ok := q.CorrectAnswer.(bool); ok {
				v := b
				qf.CorrectAnswer = &v
			}
		}

		form.Questions = append(form.Questions, qf)
	}

	return form
}

// choicesFromOptions builds the choice list of an mcq question,
// resolving correctAnswer either as an option id or, for legacy
// documents, as a positional index into the options as given. This
// index interpretation is a compatibility shim for old records, not a
// guaranteed contract. When nothing matches, the first choice is
// marked correct so a converted question never has zero correct
// choices.
func choicesFromOptions(options []models.QuestionOption, correctAnswer interface{}) []Choice {
	choices := make([]Choice, 0, len(options))
	for _, opt := range options {
		id := opt.ID
		if id == "" {
			id = newID()
		}
		choices = append(choices, Choice{ID: id, Text: opt.Text})
	}
	if len(choices) == 0 {
		return choices
	}

	matched := false
	switch v := correctAnswer.(type) {
	case string:
		for i := range choices {
			if options[i].ID != "" && options[i].ID == v {
				choices[i].IsCorrect = true
				matched = true
				break
			}
		}
	case int:
		if v >= 0 && v < len(choices) {
			choices[v].IsCorrect = true
			matched = true
		}
	case int32:
		if int(v) >= 0 && int(v) < len(choices) {
			choices[v].IsCorrect = true
			matched = true
		}
	case int64:
		if int(v) >= 0 && int(v) < len(choices) {
			choices[v].IsCorrect = true
			matched = true
		}
	case float64:
		idx := int(v)
		if idx >= 0 && idx < len(choices) {
			choices[idx].IsCorrect = true
			matched = true
		}
	}

	if !matched {
		choices[0].IsCorrect = true
	}
	return choices
}

// UIToServer converts an editable form back into the persisted shape.
// The exam keeps existingExamID when provided and gets a fresh id
// otherwise. Question order is renumbered 1-based from output position
// regardless of the incoming Order values, and TotalPoints is the sum
// of question points (1 per question when unset).
func UIToServer(form ExamForm, existingExamID string) models.Exam {
	exam := models.Exam{
		ID:           existingExamID,
		CourseID:     form.CourseID,
		Title:        form.Title,
		Description:  form.Description,
		Duration:     form.Duration,
		PassingScore: form.PassingScore,
		Questions:    make([]models.Question, 0, len(form.Questions)),
	}
	if exam.ID == "" {
		exam.ID = newID()
	}

	total := 0
	for i, qf := range form.Questions {
		points := qf.Points
		if points == 0 {
			points = 1
		}
		total += points

		q := models.Question{
			ID:           qf.ID,
			QuestionText: qf.QuestionText,
			Type:         normalizeType(qf.Type),
			Points:       points,
			Order:        i + 1,
			SampleAnswer: qf.SampleAnswer,
		}
		if q.ID == "" {
			q.ID = newID()
		}

		switch q.Type {
		case models.QuestionTypeMCQ:
			q.Options = make([]models.QuestionOption, 0, len(qf.Choices))
			for _, ch := range qf.Choices {
				id := ch.ID
				if id == "" {
					id = newID()
				}
				q.Options = append(q.Options, models.QuestionOption{ID: id, Text: ch.Text})
				if ch.IsCorrect && q.CorrectAnswer == nil {
					q.CorrectAnswer = id
				}
			}
		case models.QuestionTypeTrueFalse:
			if qf.CorrectAnswer != nil {
				q.CorrectAnswer = *qf.CorrectAnswer
			}
		}

		exam.Questions = append(exam.Questions, q)
	}

	exam.TotalPoints = total
	return exam
}
