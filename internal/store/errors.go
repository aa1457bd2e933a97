package store

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateID indicates an insert targeted a question id that is
	// already in the bank.
	ErrDuplicateID = errors.New("question id already exists")

	// ErrVersionConflict indicates a topic mastery upsert lost a race:
	// the row changed since it was read. Callers re-read and retry.
	ErrVersionConflict = errors.New("topic mastery version conflict")

	// ErrAttemptLogCorrupt indicates the attempt log contains a row that
	// violates its invariants. The log is the sole source of truth, so
	// once corruption is observed the repo refuses all further writes.
	ErrAttemptLogCorrupt = errors.New("attempt log corrupt: refusing writes")
)
