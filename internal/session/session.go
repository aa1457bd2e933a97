// Package session coordinates bounded quiz sessions: it serves
// questions through the selection engine, scores answers, and feeds
// every outcome to the mastery tracker and attempt log.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/neetprep/neetprep/internal/mastery"
	"github.com/neetprep/neetprep/internal/quiz"
	"github.com/neetprep/neetprep/internal/selection"
)

// Status is the lifecycle state of a session.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusAbandoned Status = "abandoned"
)

var (
	// ErrSessionNotFound means the id is unknown or already ended.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionOver means the session reached a terminal state; only
	// End is still valid.
	ErrSessionOver = errors.New("session is over")

	// ErrNoPendingQuestion means Answer was called with no question
	// outstanding.
	ErrNoPendingQuestion = errors.New("no question pending an answer")

	// ErrQuestionPending means Next was called while a served question
	// is still unanswered.
	ErrQuestionPending = errors.New("current question not yet answered")
)

// quizSession is the in-memory state of one running quiz. It lives only
// inside the registry; its sole durable trace is the attempt events it
// produces.
type quizSession struct {
	mu sync.Mutex

	id      string
	userID  string
	subject quiz.Subject // "" = any
	target  int
	status  Status

	served   []string // question ids in serve order, oldest first
	answered int
	correct  int

	// current is the full question last served by Next, held so Answer
	// can score without a store round trip. Generated questions exist
	// nowhere else.
	current *quiz.Question

	lastActivity time.Time

	// startClasses snapshots per-topic classifications at session
	// start; the summary diffs against it.
	startClasses map[mastery.TopicKey]mastery.Classification
}

// AnswerResult is returned to the front end after scoring one answer.
type AnswerResult struct {
	Correct       bool
	CorrectOption int
	Explanation   string
	Mastery       mastery.TopicMastery
	Done          bool // the session just reached its target
}

// Summary reports a finished session.
type Summary struct {
	SessionID   string
	UserID      string
	Status      Status
	Served      int
	Answered    int
	Correct     int
	NewlyWeak   []mastery.TopicKey
	NewlyStrong []mastery.TopicKey
}

// Accuracy is the fraction of answered questions that were correct.
func (s Summary) Accuracy() float64 {
	if s.Answered == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Answered)
}

func (qs *quizSession) summary() Summary {
	return Summary{
		SessionID: qs.id,
		UserID:    qs.userID,
		Status:    qs.status,
		Served:    len(qs.served),
		Answered:  qs.answered,
		Correct:   qs.correct,
	}
}

// Pick pairs the redacted question with the selection rule that chose
// it, so front ends can label generated content.
type Pick struct {
	Question quiz.QuestionView
	Rule     selection.Rule
}
