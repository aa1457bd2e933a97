package session

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/neetprep/neetprep/internal/mastery"
	"github.com/neetprep/neetprep/internal/quiz"
	"github.com/neetprep/neetprep/internal/selection"
)

// DefaultIdleTimeout is how long a session may sit untouched before it
// is considered abandoned. Checked at question boundaries only; a write
// already in flight is never interrupted.
const DefaultIdleTimeout = 10 * time.Minute

// Config tunes the coordinator.
type Config struct {
	IdleTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{IdleTimeout: DefaultIdleTimeout}
}

// Service is the front-end boundary. It owns the registry of live
// sessions; each session's state is only touched under its own mutex.
// The registry does not stop one user from opening two sessions; a
// front end that wants that restriction enforces it itself.
type Service struct {
	engine  *selection.Engine
	tracker *mastery.Tracker
	cfg     Config
	log     *zap.Logger
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*quizSession
}

func NewService(engine *selection.Engine, tracker *mastery.Tracker, cfg Config, log *zap.Logger) *Service {
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		engine:   engine,
		tracker:  tracker,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
		sessions: make(map[string]*quizSession),
	}
}

// Start opens a session targeting count questions within the subject
// scope ("" = any) and returns its id.
func (s *Service) Start(ctx context.Context, userID string, subject quiz.Subject, count int) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("empty user id")
	}
	if subject != "" && !subject.Valid() {
		return "", fmt.Errorf("invalid subject %q", subject)
	}
	if count <= 0 {
		return "", fmt.Errorf("question count must be positive, got %d", count)
	}

	classes, err := s.tracker.Classifications(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("snapshot classifications: %w", err)
	}

	qs := &quizSession{
		id:           uuid.NewString(),
		userID:       userID,
		subject:      subject,
		target:       count,
		status:       StatusActive,
		lastActivity: s.now(),
		startClasses: classes,
	}

	s.mu.Lock()
	s.sessions[qs.id] = qs
	s.mu.Unlock()

	s.log.Debug("session started",
		zap.String("session", qs.id),
		zap.String("user", userID),
		zap.String("subject", string(subject)),
		zap.Int("target", count))
	return qs.id, nil
}

// Next serves the next question. The correct option and explanation
// are withheld until the question is answered.
func (s *Service) Next(ctx context.Context, sessionID string) (Pick, error) {
	qs, err := s.lookup(sessionID)
	if err != nil {
		return Pick{}, err
	}

	qs.mu.Lock()
	defer qs.mu.Unlock()

	if err := s.checkActive(qs); err != nil {
		return Pick{}, err
	}
	if qs.current != nil {
		return Pick{}, ErrQuestionPending
	}
	if len(qs.served) >= qs.target {
		return Pick{}, ErrSessionOver
	}

	pick, err := s.engine.NextQuestion(ctx, qs.userID, qs.subject, qs.served)
	if err != nil {
		// Exhaustion included: the one pick fails, the session stays
		// endable.
		return Pick{}, err
	}

	q := pick.Question
	qs.current = &q
	qs.served = append(qs.served, q.ID)
	qs.lastActivity = s.now()
	return Pick{Question: q.View(), Rule: pick.Rule}, nil
}

// Answer scores the pending question. chosen nil means the user skipped
// or timed out; a skip still counts as an attempt and breaks streaks.
func (s *Service) Answer(ctx context.Context, sessionID string, chosen *int) (AnswerResult, error) {
	qs, err := s.lookup(sessionID)
	if err != nil {
		return AnswerResult{}, err
	}

	qs.mu.Lock()
	defer qs.mu.Unlock()

	if err := s.checkActive(qs); err != nil {
		return AnswerResult{}, err
	}
	if qs.current == nil {
		return AnswerResult{}, ErrNoPendingQuestion
	}
	if chosen != nil && (*chosen < 0 || *chosen >= quiz.NumOptions) {
		return AnswerResult{}, fmt.Errorf("chosen option %d out of range", *chosen)
	}

	q := *qs.current
	ev := quiz.NewAttemptEvent(qs.userID, q, chosen, s.now())
	tm, err := s.tracker.Record(ctx, ev)
	if err != nil {
		// The question stays pending; the caller may retry the answer.
		return AnswerResult{}, fmt.Errorf("record attempt: %w", err)
	}

	qs.current = nil
	qs.answered++
	if ev.Correct {
		qs.correct++
	}
	qs.lastActivity = s.now()

	done := qs.answered >= qs.target
	if done {
		qs.status = StatusCompleted
	}
	return AnswerResult{
		Correct:       ev.Correct,
		CorrectOption: q.CorrectOption,
		Explanation:   q.Explanation,
		Mastery:       tm,
		Done:          done,
	}, nil
}

// End finishes the session and returns its summary. An active session
// ends as abandoned; a completed one keeps its status. The session is
// removed from the registry either way.
func (s *Service) End(ctx context.Context, sessionID string) (Summary, error) {
	qs, err := s.lookup(sessionID)
	if err != nil {
		return Summary{}, err
	}

	qs.mu.Lock()
	if qs.status == StatusActive {
		qs.status = StatusAbandoned
	}
	sum := qs.summary()
	qs.mu.Unlock()

	endClasses, err := s.tracker.Classifications(ctx, qs.userID)
	if err != nil {
		return Summary{}, fmt.Errorf("snapshot classifications: %w", err)
	}
	sum.NewlyWeak, sum.NewlyStrong = diffClasses(qs.startClasses, endClasses)

	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	s.log.Debug("session ended",
		zap.String("session", sessionID),
		zap.String("status", string(sum.Status)),
		zap.Int("served", sum.Served),
		zap.Int("correct", sum.Correct))
	return sum, nil
}

// Progress returns the user's overall progress snapshot. It reads
// straight through to the tracker; no session is required.
func (s *Service) Progress(ctx context.Context, userID string) (mastery.UserProgress, error) {
	return s.tracker.Progress(ctx, userID)
}

func (s *Service) lookup(sessionID string) (*quizSession, error) {
	s.mu.Lock()
	qs, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("session %q: %w", sessionID, ErrSessionNotFound)
	}
	return qs, nil
}

// checkActive enforces the terminal states and the inactivity deadline.
// Called with the session mutex held.
func (s *Service) checkActive(qs *quizSession) error {
	if qs.status != StatusActive {
		return ErrSessionOver
	}
	if s.now().Sub(qs.lastActivity) > s.cfg.IdleTimeout {
		qs.status = StatusAbandoned
		s.log.Debug("session abandoned after inactivity", zap.String("session", qs.id))
		return ErrSessionOver
	}
	return nil
}

// diffClasses reports topics that entered weak or strong between the
// two snapshots.
func diffClasses(before, after map[mastery.TopicKey]mastery.Classification) (weak, strong []mastery.TopicKey) {
	for key, class := range after {
		switch class {
		case mastery.ClassWeak:
			if before[key] != mastery.ClassWeak {
				weak = append(weak, key)
			}
		case mastery.ClassStrong:
			if before[key] != mastery.ClassStrong {
				strong = append(strong, key)
			}
		}
	}
	sortKeys(weak)
	sortKeys(strong)
	return weak, strong
}

func sortKeys(keys []mastery.TopicKey) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Subject != keys[j].Subject {
			return keys[i].Subject < keys[j].Subject
		}
		return keys[i].Topic < keys[j].Topic
	})
}
