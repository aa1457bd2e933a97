package quiz

import (
	"fmt"
	"strings"
)

// NumOptions is the fixed number of answer options per question.
const NumOptions = 4

// Question is an immutable multiple-choice question. Records are created
// by ingestion or generation and never mutated afterward.
type Question struct {
	ID            string
	Subject       Subject
	Topic         string
	Text          string
	Options       [NumOptions]string
	CorrectOption int // index into Options
	Explanation   string
	Year          int // exam year for PYQs; 0 for generated questions
	Difficulty    Difficulty
	IsPYQ         bool
}

// ValidationError describes why a question was rejected at ingestion.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid question: %s: %s", e.Field, e.Reason)
}

// Validate checks the structural invariants of a question. Questions that
// fail validation never enter the store.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.ID) == "" {
		return &ValidationError{Field: "id", Reason: "must not be empty"}
	}
	if !q.Subject.Valid() {
		return &ValidationError{Field: "subject", Reason: fmt.Sprintf("unknown subject %q", q.Subject)}
	}
	if strings.TrimSpace(q.Topic) == "" {
		return &ValidationError{Field: "topic", Reason: "must not be empty"}
	}
	if strings.TrimSpace(q.Text) == "" {
		return &ValidationError{Field: "text", Reason: "must not be empty"}
	}
	seen := make(map[string]bool, NumOptions)
	for i, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return &ValidationError{Field: "options", Reason: fmt.Sprintf("option %d is empty", i)}
		}
		if seen[opt] {
			return &ValidationError{Field: "options", Reason: fmt.Sprintf("option %q is duplicated", opt)}
		}
		seen[opt] = true
	}
	if q.CorrectOption < 0 || q.CorrectOption >= NumOptions {
		return &ValidationError{Field: "correct_option", Reason: fmt.Sprintf("index %d out of range [0,%d]", q.CorrectOption, NumOptions-1)}
	}
	if q.Year < 0 {
		return &ValidationError{Field: "year", Reason: "must be positive when set"}
	}
	if !q.Difficulty.Valid() {
		return &ValidationError{Field: "difficulty", Reason: fmt.Sprintf("unknown difficulty %q", q.Difficulty)}
	}
	return nil
}

// View returns the student-facing projection of the question with the
// answer key and explanation withheld.
func (q Question) View() QuestionView {
	return QuestionView{
		ID:         q.ID,
		Subject:    q.Subject,
		Topic:      q.Topic,
		Text:       q.Text,
		Options:    q.Options,
		Difficulty: q.Difficulty,
		Year:       q.Year,
		IsPYQ:      q.IsPYQ,
	}
}

// QuestionView is what a front end may show before the question is
// answered. It deliberately omits CorrectOption and Explanation.
type QuestionView struct {
	ID         string
	Subject    Subject
	Topic      string
	Text       string
	Options    [NumOptions]string
	Difficulty Difficulty
	Year       int
	IsPYQ      bool
}
