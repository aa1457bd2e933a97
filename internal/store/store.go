package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store holds the database handle and provides access to repositories.
// Repos are shared instances: the attempt repo carries the corruption
// latch, which must survive across accessor calls.
type Store struct {
	db        *sql.DB
	questions *questionRepo
	attempts  *attemptRepo
	masteries *masteryRepo
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates the schema. The sample
// question bank is not loaded here; callers that want it run Seed.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{
		db:        db,
		questions: &questionRepo{db: db},
		attempts:  &attemptRepo{db: db},
		masteries: &masteryRepo{db: db},
	}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Questions returns the QuestionRepo backed by this store.
func (s *Store) Questions() QuestionRepo {
	return s.questions
}

// Attempts returns the AttemptRepo backed by this store.
func (s *Store) Attempts() AttemptRepo {
	return s.attempts
}

// Masteries returns the MasteryRepo backed by this store.
func (s *Store) Masteries() MasteryRepo {
	return s.masteries
}

// applyPragmas configures SQLite for concurrent readers with a single
// writer per connection.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS questions (
			id             TEXT PRIMARY KEY,
			subject        TEXT NOT NULL,
			topic          TEXT NOT NULL,
			question_text  TEXT NOT NULL,
			options        TEXT NOT NULL,
			correct_option INTEGER NOT NULL,
			explanation    TEXT NOT NULL DEFAULT '',
			year           INTEGER NOT NULL DEFAULT 0,
			difficulty     TEXT NOT NULL,
			is_pyq         INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_questions_scope ON questions (subject, topic, difficulty)`,

		`CREATE TABLE IF NOT EXISTS attempt_events (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id       TEXT NOT NULL,
			question_id   TEXT NOT NULL,
			subject       TEXT NOT NULL,
			topic         TEXT NOT NULL,
			chosen_option INTEGER,
			is_correct    INTEGER NOT NULL,
			created_at    TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_user ON attempt_events (user_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_user_question ON attempt_events (user_id, question_id)`,

		`CREATE TABLE IF NOT EXISTS topic_mastery (
			user_id      TEXT NOT NULL,
			subject      TEXT NOT NULL,
			topic        TEXT NOT NULL,
			attempts     INTEGER NOT NULL DEFAULT 0,
			correct      INTEGER NOT NULL DEFAULT 0,
			last_k       TEXT NOT NULL DEFAULT '[]',
			streak       INTEGER NOT NULL DEFAULT 0,
			last_attempt TEXT NOT NULL DEFAULT '',
			version      INTEGER NOT NULL DEFAULT 1,
			PRIMARY KEY (user_id, subject, topic)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. NEETPREP_DB environment variable
// 2. $XDG_DATA_HOME/neetprep/neetprep.db
// 3. ~/.local/share/neetprep/neetprep.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("NEETPREP_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "neetprep", "neetprep.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it does not exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
