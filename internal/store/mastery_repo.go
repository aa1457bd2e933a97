package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/neetprep/neetprep/internal/quiz"
)

// TopicMasteryRecord is the persisted rollup for one (user, subject,
// topic) key. It is a derived cache: the attempt log can rebuild it from
// scratch. Version implements optimistic concurrency: an upsert only
// succeeds against the version it read.
type TopicMasteryRecord struct {
	UserID      string
	Subject     quiz.Subject
	Topic       string
	Attempts    int
	Correct     int
	LastK       []bool // most-recent-last, bounded by the tracker
	Streak      int
	LastAttempt time.Time
	Version     int64 // 0 means the record has never been written
}

// MasteryRepo provides keyed access to topic mastery rollups.
type MasteryRepo interface {
	// Get returns the record for a key. Returns ErrNotFound if absent.
	Get(ctx context.Context, userID string, subject quiz.Subject, topic string) (TopicMasteryRecord, error)

	// Upsert writes a record. A record with Version 0 is inserted (or
	// fails with ErrVersionConflict if the key now exists); otherwise
	// the update only applies if the stored version still matches, and
	// the version is advanced. On success rec is next read at Version+1.
	Upsert(ctx context.Context, rec TopicMasteryRecord) error

	// ForUser returns every record for a user.
	ForUser(ctx context.Context, userID string) ([]TopicMasteryRecord, error)

	// DeleteForUser drops all records for a user. Only used when
	// rebuilding the cache by replaying the attempt log.
	DeleteForUser(ctx context.Context, userID string) error
}

type masteryRepo struct {
	db *sql.DB
}

func (r *masteryRepo) Get(ctx context.Context, userID string, subject quiz.Subject, topic string) (TopicMasteryRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT user_id, subject, topic, attempts, correct, last_k, streak, last_attempt, version
		 FROM topic_mastery WHERE user_id = ? AND subject = ? AND topic = ?`,
		userID, string(subject), topic)

	rec, err := scanMastery(row)
	if errors.Is(err, sql.ErrNoRows) {
		return TopicMasteryRecord{}, fmt.Errorf("mastery %s/%s/%s: %w", userID, subject, topic, ErrNotFound)
	}
	return rec, err
}

func (r *masteryRepo) Upsert(ctx context.Context, rec TopicMasteryRecord) error {
	lastK, err := json.Marshal(rec.LastK)
	if err != nil {
		return fmt.Errorf("marshal outcome window: %w", err)
	}
	lastAttempt := rec.LastAttempt.UTC().Format(time.RFC3339Nano)

	if rec.Version == 0 {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO topic_mastery (user_id, subject, topic, attempts, correct, last_k, streak, last_attempt, version)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1)`,
			rec.UserID, string(rec.Subject), rec.Topic,
			rec.Attempts, rec.Correct, string(lastK), rec.Streak, lastAttempt)
		if err != nil {
			// A unique-constraint failure means another writer inserted
			// the key first.
			return fmt.Errorf("insert mastery: %w", ErrVersionConflict)
		}
		return nil
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE topic_mastery
		 SET attempts = ?, correct = ?, last_k = ?, streak = ?, last_attempt = ?, version = version + 1
		 WHERE user_id = ? AND subject = ? AND topic = ? AND version = ?`,
		rec.Attempts, rec.Correct, string(lastK), rec.Streak, lastAttempt,
		rec.UserID, string(rec.Subject), rec.Topic, rec.Version)
	if err != nil {
		return fmt.Errorf("update mastery: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update mastery: %w", err)
	}
	if n == 0 {
		return ErrVersionConflict
	}
	return nil
}

func (r *masteryRepo) ForUser(ctx context.Context, userID string) ([]TopicMasteryRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, subject, topic, attempts, correct, last_k, streak, last_attempt, version
		 FROM topic_mastery WHERE user_id = ? ORDER BY subject, topic`, userID)
	if err != nil {
		return nil, fmt.Errorf("query masteries: %w", err)
	}
	defer rows.Close()

	var out []TopicMasteryRecord
	for rows.Next() {
		rec, err := scanMastery(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *masteryRepo) DeleteForUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM topic_mastery WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("delete masteries: %w", err)
	}
	return nil
}

func scanMastery(s scanner) (TopicMasteryRecord, error) {
	var (
		rec         TopicMasteryRecord
		subject     string
		lastK       string
		lastAttempt string
	)
	err := s.Scan(&rec.UserID, &subject, &rec.Topic, &rec.Attempts, &rec.Correct, &lastK, &rec.Streak, &lastAttempt, &rec.Version)
	if err != nil {
		return TopicMasteryRecord{}, err
	}
	rec.Subject = quiz.Subject(subject)

	if err := json.Unmarshal([]byte(lastK), &rec.LastK); err != nil {
		return TopicMasteryRecord{}, fmt.Errorf("mastery %s/%s/%s: decode outcome window: %w", rec.UserID, subject, rec.Topic, err)
	}
	if lastAttempt != "" {
		ts, err := time.Parse(time.RFC3339Nano, lastAttempt)
		if err != nil {
			return TopicMasteryRecord{}, fmt.Errorf("mastery last attempt %q: %w", lastAttempt, err)
		}
		rec.LastAttempt = ts
	}
	return rec, nil
}
