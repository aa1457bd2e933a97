package quiz

import "time"

// AttemptEvent records a single answer (or skip) by a user. Events are
// append-only: once written to the attempt log they are never edited or
// deleted, and every aggregate is derivable from them by replay. Subject
// and Topic are denormalized from the question at write time so that
// replay does not depend on the question still being resolvable (a
// generated question may never be persisted).
type AttemptEvent struct {
	UserID     string
	QuestionID string
	Subject    Subject
	Topic      string
	Chosen     *int // nil means the question was skipped or timed out
	Correct    bool // derived; always false for a skip
	Timestamp  time.Time
}

// NewAttemptEvent builds an event for an answer to q. Correctness is
// derived here and nowhere else.
func NewAttemptEvent(userID string, q Question, chosen *int, at time.Time) AttemptEvent {
	return AttemptEvent{
		UserID:     userID,
		QuestionID: q.ID,
		Subject:    q.Subject,
		Topic:      q.Topic,
		Chosen:     chosen,
		Correct:    chosen != nil && *chosen == q.CorrectOption,
		Timestamp:  at.UTC(),
	}
}

// Skipped reports whether the user skipped the question.
func (e AttemptEvent) Skipped() bool {
	return e.Chosen == nil
}
