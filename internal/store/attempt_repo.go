package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/neetprep/neetprep/internal/quiz"
)

// AttemptRepo is the append-only attempt log. It is the ground truth for
// all mastery aggregates: rows are inserted, never updated or deleted.
// If a read ever observes a row that violates the log's invariants the
// repo marks itself corrupt and refuses all further writes; reads stay
// available so the damage can be inspected.
type AttemptRepo interface {
	// Append writes one event. Returns ErrAttemptLogCorrupt after
	// corruption has been observed.
	Append(ctx context.Context, ev quiz.AttemptEvent) error

	// EventsForUser returns every event for a user in write order.
	EventsForUser(ctx context.Context, userID string) ([]quiz.AttemptEvent, error)

	// SeenQuestionIDs returns the ids of every question the user has
	// attempted at least once.
	SeenQuestionIDs(ctx context.Context, userID string) (map[string]bool, error)

	// LastCorrectQuestionIDs returns the ids of questions whose most
	// recent attempt by the user was correct. Used for spaced
	// repetition: these are deprioritized, not excluded forever.
	LastCorrectQuestionIDs(ctx context.Context, userID string) (map[string]bool, error)

	// QuestionsByRecency returns the ids of questions the user has
	// attempted within the subject scope ("" = any subject), ordered
	// least-recently-attempted first.
	QuestionsByRecency(ctx context.Context, userID string, subject quiz.Subject) ([]string, error)
}

type attemptRepo struct {
	db      *sql.DB
	corrupt atomic.Bool
}

func (r *attemptRepo) Append(ctx context.Context, ev quiz.AttemptEvent) error {
	if r.corrupt.Load() {
		return ErrAttemptLogCorrupt
	}
	if err := validateEvent(ev); err != nil {
		return fmt.Errorf("refusing attempt event: %w", err)
	}

	var chosen any
	if ev.Chosen != nil {
		chosen = *ev.Chosen
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO attempt_events (user_id, question_id, subject, topic, chosen_option, is_correct, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.UserID, ev.QuestionID, string(ev.Subject), ev.Topic,
		chosen, boolToInt(ev.Correct), ev.Timestamp.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("append attempt event: %w", err)
	}
	return nil
}

func (r *attemptRepo) EventsForUser(ctx context.Context, userID string) ([]quiz.AttemptEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, question_id, subject, topic, chosen_option, is_correct, created_at
		 FROM attempt_events WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query attempt events: %w", err)
	}
	defer rows.Close()

	var out []quiz.AttemptEvent
	for rows.Next() {
		var (
			ev      quiz.AttemptEvent
			subject string
			chosen  sql.NullInt64
			correct int
			created string
		)
		if err := rows.Scan(&ev.UserID, &ev.QuestionID, &subject, &ev.Topic, &chosen, &correct, &created); err != nil {
			r.markCorrupt()
			return nil, fmt.Errorf("scan attempt event: %w", err)
		}
		ev.Subject = quiz.Subject(subject)
		if chosen.Valid {
			c := int(chosen.Int64)
			ev.Chosen = &c
		}
		ev.Correct = correct != 0
		ts, err := time.Parse(time.RFC3339Nano, created)
		if err != nil {
			r.markCorrupt()
			return nil, fmt.Errorf("attempt event timestamp %q: %w", created, err)
		}
		ev.Timestamp = ts

		if err := validateEvent(ev); err != nil {
			r.markCorrupt()
			return nil, fmt.Errorf("attempt log invariant violated: %w", err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (r *attemptRepo) SeenQuestionIDs(ctx context.Context, userID string) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT question_id FROM attempt_events WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("query seen questions: %w", err)
	}
	defer rows.Close()

	seen := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		seen[id] = true
	}
	return seen, rows.Err()
}

func (r *attemptRepo) LastCorrectQuestionIDs(ctx context.Context, userID string) (map[string]bool, error) {
	// The latest attempt per question is the row with the max id for
	// that (user, question) pair.
	rows, err := r.db.QueryContext(ctx,
		`SELECT question_id, is_correct FROM attempt_events
		 WHERE user_id = ? AND id IN (
			SELECT MAX(id) FROM attempt_events WHERE user_id = ? GROUP BY question_id
		 )`, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("query last outcomes: %w", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var (
			id      string
			correct int
		)
		if err := rows.Scan(&id, &correct); err != nil {
			return nil, err
		}
		if correct != 0 {
			out[id] = true
		}
	}
	return out, rows.Err()
}

func (r *attemptRepo) QuestionsByRecency(ctx context.Context, userID string, subject quiz.Subject) ([]string, error) {
	query := `SELECT question_id FROM attempt_events WHERE user_id = ?`
	args := []any{userID}
	if subject != "" {
		query += ` AND subject = ?`
		args = append(args, string(subject))
	}
	query += ` GROUP BY question_id ORDER BY MAX(id)`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempts by recency: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *attemptRepo) markCorrupt() {
	r.corrupt.Store(true)
}

func validateEvent(ev quiz.AttemptEvent) error {
	if ev.UserID == "" {
		return fmt.Errorf("empty user id")
	}
	if ev.QuestionID == "" {
		return fmt.Errorf("empty question id")
	}
	if !ev.Subject.Valid() {
		return fmt.Errorf("invalid subject %q", ev.Subject)
	}
	if ev.Topic == "" {
		return fmt.Errorf("empty topic")
	}
	if ev.Chosen != nil && (*ev.Chosen < 0 || *ev.Chosen >= quiz.NumOptions) {
		return fmt.Errorf("chosen option %d out of range", *ev.Chosen)
	}
	if ev.Chosen == nil && ev.Correct {
		return fmt.Errorf("skipped attempt marked correct")
	}
	if ev.Timestamp.IsZero() {
		return fmt.Errorf("zero timestamp")
	}
	return nil
}
