package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/neetprep/neetprep/internal/quiz"
)

// QuestionFilter narrows a candidate query. Zero values mean "any".
type QuestionFilter struct {
	Subject    quiz.Subject
	Topic      string
	Difficulty quiz.Difficulty
	Exclude    []string // question IDs to leave out
}

// QuestionRepo provides read access to the immutable question bank plus
// validated inserts for ingestion and persisted generated questions.
type QuestionRepo interface {
	// Candidates returns every question matching the filter. The result
	// is deterministic given the same underlying data (ordered by id).
	Candidates(ctx context.Context, f QuestionFilter) ([]quiz.Question, error)

	// Get returns a question by id. Returns ErrNotFound if absent.
	Get(ctx context.Context, id string) (quiz.Question, error)

	// Insert adds a question after validation. Returns ErrDuplicateID if
	// the id is already taken.
	Insert(ctx context.Context, q quiz.Question) error

	// Count returns the total number of questions in the bank.
	Count(ctx context.Context) (int, error)
}

type questionRepo struct {
	db *sql.DB
}

func (r *questionRepo) Candidates(ctx context.Context, f QuestionFilter) ([]quiz.Question, error) {
	var (
		conds []string
		args  []any
	)
	if f.Subject != "" {
		conds = append(conds, "subject = ?")
		args = append(args, string(f.Subject))
	}
	if f.Topic != "" {
		conds = append(conds, "topic = ?")
		args = append(args, f.Topic)
	}
	if f.Difficulty != "" {
		conds = append(conds, "difficulty = ?")
		args = append(args, string(f.Difficulty))
	}
	if len(f.Exclude) > 0 {
		placeholders := strings.Repeat("?,", len(f.Exclude))
		conds = append(conds, fmt.Sprintf("id NOT IN (%s)", placeholders[:len(placeholders)-1]))
		for _, id := range f.Exclude {
			args = append(args, id)
		}
	}

	query := `SELECT id, subject, topic, question_text, options, correct_option, explanation, year, difficulty, is_pyq FROM questions`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	var out []quiz.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (r *questionRepo) Get(ctx context.Context, id string) (quiz.Question, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, subject, topic, question_text, options, correct_option, explanation, year, difficulty, is_pyq
		 FROM questions WHERE id = ?`, id)

	q, err := scanQuestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return quiz.Question{}, fmt.Errorf("question %q: %w", id, ErrNotFound)
	}
	return q, err
}

func (r *questionRepo) Insert(ctx context.Context, q quiz.Question) error {
	if err := q.Validate(); err != nil {
		return err
	}

	opts, err := json.Marshal(q.Options)
	if err != nil {
		return fmt.Errorf("marshal options: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO questions (id, subject, topic, question_text, options, correct_option, explanation, year, difficulty, is_pyq)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO NOTHING`,
		q.ID, string(q.Subject), q.Topic, q.Text, string(opts),
		q.CorrectOption, q.Explanation, q.Year, string(q.Difficulty), boolToInt(q.IsPYQ))
	if err != nil {
		return fmt.Errorf("insert question %q: %w", q.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert question %q: %w", q.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("question %q: %w", q.ID, ErrDuplicateID)
	}
	return nil
}

func (r *questionRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM questions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}

// scanner abstracts *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanQuestion(s scanner) (quiz.Question, error) {
	var (
		q       quiz.Question
		subject string
		diff    string
		opts    string
		isPYQ   int
	)
	err := s.Scan(&q.ID, &subject, &q.Topic, &q.Text, &opts, &q.CorrectOption, &q.Explanation, &q.Year, &diff, &isPYQ)
	if err != nil {
		return quiz.Question{}, err
	}

	q.Subject = quiz.Subject(subject)
	q.Difficulty = quiz.Difficulty(diff)
	q.IsPYQ = isPYQ != 0

	var options []string
	if err := json.Unmarshal([]byte(opts), &options); err != nil {
		return quiz.Question{}, fmt.Errorf("question %q: decode options: %w", q.ID, err)
	}
	if len(options) != quiz.NumOptions {
		return quiz.Question{}, fmt.Errorf("question %q: stored %d options, want %d", q.ID, len(options), quiz.NumOptions)
	}
	copy(q.Options[:], options)

	return q, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
