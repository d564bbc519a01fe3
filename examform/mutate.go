package examform

import (
	"github.com/madrasa-platform/madrasa_backend/models"
)

// duplicateMarker is appended to the text of a duplicated question.
const duplicateMarker = " (نسخة)"

// AddQuestion inserts a new question of the given type immediately after
// the question with insertAfterID, or at the end when the id is empty or
// unknown, and renumbers. New mcq questions start with two empty
// choices, the first marked correct.
func AddQuestion(form ExamForm, qType, insertAfterID string) ExamForm {
	out := copyForm(form)

	q := QuestionForm{
		ID:     newID(),
		Type:   normalizeType(qType),
		Points: 1,
	}
	if q.Type == models.QuestionTypeMCQ {
		q.Choices = defaultChoices()
	}

	pos := len(out.Questions)
	if insertAfterID != "" {
		for i, existing := range out.Questions {
			if existing.ID == insertAfterID {
				pos = i + 1
				break
			}
		}
	}

	out.Questions = append(out.Questions, QuestionForm{})
	copy(out.Questions[pos+1:], out.Questions[pos:])
	out.Questions[pos] = q
	renumber(out.Questions)
	return out
}

// RemoveQuestion removes the question with the given id and renumbers.
func RemoveQuestion(form ExamForm, questionID string) ExamForm {
	out := copyForm(form)
	for i, q := range out.Questions {
		if q.ID == questionID {
			out.Questions = append(out.Questions[:i], out.Questions[i+1:]...)
			break
		}
	}
	renumber(out.Questions)
	return out
}

// DuplicateQuestion appends a deep copy of the question with fresh ids
// for the question and every choice, marking the copy in its text.
func DuplicateQuestion(form ExamForm, questionID string) ExamForm {
	out := copyForm(form)
	for _, q := range out.Questions {
		if q.ID != questionID {
			continue
		}
		dup := copyQuestion(q)
		dup.ID = newID()
		dup.QuestionText = q.QuestionText + duplicateMarker
		for i := range dup.Choices {
			dup.Choices[i].ID = newID()
		}
		out.Questions = append(out.Questions, dup)
		break
	}
	renumber(out.Questions)
	return out
}

// AddChoice appends an empty choice to the given mcq question.
func AddChoice(form ExamForm, questionID string) ExamForm {
	out := copyForm(form)
	for i := range out.Questions {
		if out.Questions[i].ID == questionID {
			out.Questions[i].Choices = append(out.Questions[i].Choices, Choice{ID: newID()})
			break
		}
	}
	return out
}

// RemoveChoice removes a choice from an mcq question. Removal is a
// no-op when the question would drop below two choices. When the
// removed choice was the correct one, the first remaining choice
// becomes correct.
func RemoveChoice(form ExamForm, questionID, choiceID string) ExamForm {
	out := copyForm(form)
	for i := range out.Questions {
		q := &out.Questions[i]
		if q.ID != questionID {
			continue
		}
		if len(q.Choices) <= 2 {
			return out
		}
		for j, ch := range q.Choices {
			if ch.ID != choiceID {
				continue
			}
			wasCorrect := ch.IsCorrect
			q.Choices = append(q.Choices[:j], q.Choices[j+1:]...)
			if wasCorrect && len(q.Choices) > 0 {
				hasCorrect := false
				for _, rest := range q.Choices {
					if rest.IsCorrect {
						hasCorrect = true
						break
					}
				}
				if !hasCorrect {
					q.Choices[0].IsCorrect = true
				}
			}
			break
		}
		break
	}
	return out
}

// SetCorrectAnswer marks exactly the given choice correct and every
// sibling incorrect, whatever the prior state was.
func SetCorrectAnswer(form ExamForm, questionID, choiceID string) ExamForm {
	out := copyForm(form)
	for i := range out.Questions {
		q := &out.Questions[i]
		if q.ID != questionID {
			continue
		}
		for j := range q.Choices {
			q.Choices[j].IsCorrect = q.Choices[j].ID == choiceID
		}
		break
	}
	return out
}

// UpdateChoiceText replaces the text of a single choice.
func UpdateChoiceText(form ExamForm, questionID, choiceID, text string) ExamForm {
	out := copyForm(form)
	for i := range out.Questions {
		q := &out.Questions[i]
		if q.ID != questionID {
			continue
		}
		for j := range q.Choices {
			if q.Choices[j].ID == choiceID {
				q.Choices[j].Text = text
				break
			}
		}
		break
	}
	return out
}

// UpdateQuestionText replaces the text of a question.
func UpdateQuestionText(form ExamForm, questionID, text string) ExamForm {
	out := copyForm(form)
	for i := range out.Questions {
		if out.Questions[i].ID == questionID {
			out.Questions[i].QuestionText = text
			break
		}
	}
	return out
}

// UpdateQuestionPoints replaces the points of a question.
func UpdateQuestionPoints(form ExamForm, questionID string, points int) ExamForm {
	out := copyForm(form)
	for i := range out.Questions {
		if out.Questions[i].ID == questionID {
			out.Questions[i].Points = points
			break
		}
	}
	return out
}

// SetTrueFalseAnswer sets the boolean answer of a true_false question.
func SetTrueFalseAnswer(form ExamForm, questionID string, answer bool) ExamForm {
	out := copyForm(form)
	for i := range out.Questions {
		if out.Questions[i].ID == questionID {
			v := answer
			out.Questions[i].CorrectAnswer = &v
			break
		}
	}
	return out
}

// UpdateQuestionType switches a question's type. Switching to mcq when
// the question has no choices seeds the two default choices; switching
// away keeps the choices in place so a switch back loses nothing.
func UpdateQuestionType(form ExamForm, questionID, qType string) ExamForm {
	out := copyForm(form)
	for i := range out.Questions {
		q := &out.Questions[i]
		if q.ID != questionID {
			continue
		}
		q.Type = normalizeType(qType)
		if q.Type == models.QuestionTypeMCQ && len(q.Choices) == 0 {
			q.Choices = defaultChoices()
		}
		break
	}
	return out
}
