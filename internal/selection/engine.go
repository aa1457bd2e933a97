// Package selection decides which question a user sees next. It mixes
// reinforcement of weak topics, novelty, spaced review, and generated
// questions when the bank runs dry for a weak topic.
package selection

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/neetprep/neetprep/internal/mastery"
	"github.com/neetprep/neetprep/internal/qgen"
	"github.com/neetprep/neetprep/internal/quiz"
	"github.com/neetprep/neetprep/internal/store"
)

// ErrExhaustedPool means no rule produced a question, even after the
// generation fallback. Terminal for that pick only; the session can
// still end gracefully.
var ErrExhaustedPool = errors.New("no questions available for this scope")

// Rule names the selection rule that produced a pick.
type Rule string

const (
	RuleWeakTopic Rule = "weak_topic"
	RuleNovelty   Rule = "novelty"
	RuleReview    Rule = "review"
	RuleGenerated Rule = "generated"
)

// Pick is one selected question together with the rule that chose it.
type Pick struct {
	Question quiz.Question
	Rule     Rule
}

// Config tunes the engine. Both knobs are deliberately configuration
// rather than constants.
type Config struct {
	// WeakTopicBias is the probability that a pick targets a weak topic
	// when the user has any.
	WeakTopicBias float64

	// RecentWindow bounds how many recently served question ids are
	// excluded from re-selection. Older ids age out and become
	// selectable again.
	RecentWindow int
}

func DefaultConfig() Config {
	return Config{
		WeakTopicBias: 0.60,
		RecentWindow:  5,
	}
}

// Engine picks the next question for a user.
type Engine struct {
	questions store.QuestionRepo
	attempts  store.AttemptRepo
	tracker   *mastery.Tracker
	gen       qgen.Generator
	cfg       Config
	log       *zap.Logger

	// rngMu guards rng. One engine serves every concurrent session and
	// rand.Rand is not safe for concurrent use.
	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewEngine wires the engine. gen may be nil, in which case the
// generation fallback is skipped and exhaustion surfaces sooner.
func NewEngine(questions store.QuestionRepo, attempts store.AttemptRepo, tracker *mastery.Tracker, gen qgen.Generator, cfg Config, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		questions: questions,
		attempts:  attempts,
		tracker:   tracker,
		gen:       gen,
		cfg:       cfg,
		log:       log,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NextQuestion picks the next question for the user within the subject
// scope ("" = any subject). recent is the ordered list of question ids
// served this session, oldest first; only the trailing RecentWindow ids
// are excluded.
//
// Rule order: weak-topic reinforcement (probabilistic), novelty, spaced
// review, then generation for the weakest topic. A generator failure is
// logged and absorbed, never returned to the caller.
func (e *Engine) NextQuestion(ctx context.Context, userID string, subject quiz.Subject, recent []string) (Pick, error) {
	recentSet := e.recentSet(recent)

	weak, err := e.tracker.WeakTopics(ctx, userID, subject)
	if err != nil {
		return Pick{}, err
	}

	generationTried := false
	if len(weak) > 0 && e.randFloat64() < e.cfg.WeakTopicBias {
		q, ok, err := e.pickWeak(ctx, userID, weak, recentSet)
		if err != nil {
			return Pick{}, err
		}
		if ok {
			return Pick{Question: q, Rule: RuleWeakTopic}, nil
		}
		// The bank is exhausted for that weak topic: try synthesizing
		// one before widening the scope.
		generationTried = true
		if q, ok := e.pickGenerated(ctx, weak[0]); ok {
			return Pick{Question: q, Rule: RuleGenerated}, nil
		}
	}

	q, ok, err := e.pickNovel(ctx, userID, subject, recentSet)
	if err != nil {
		return Pick{}, err
	}
	if ok {
		return Pick{Question: q, Rule: RuleNovelty}, nil
	}

	q, ok, err = e.pickReview(ctx, userID, subject, recentSet)
	if err != nil {
		return Pick{}, err
	}
	if ok {
		return Pick{Question: q, Rule: RuleReview}, nil
	}

	if len(weak) > 0 && !generationTried {
		if q, ok := e.pickGenerated(ctx, weak[0]); ok {
			return Pick{Question: q, Rule: RuleGenerated}, nil
		}
	}
	return Pick{}, ErrExhaustedPool
}

// pickWeak targets one weak topic, chosen uniformly. Questions the user
// last answered correctly are excluded alongside the recent window:
// a mastered question is deprioritized, not banned, and resurfaces via
// the review rule once the pool thins out.
func (e *Engine) pickWeak(ctx context.Context, userID string, weak []mastery.TopicMastery, recentSet map[string]bool) (quiz.Question, bool, error) {
	target := weak[e.randIntn(len(weak))]

	lastCorrect, err := e.attempts.LastCorrectQuestionIDs(ctx, userID)
	if err != nil {
		return quiz.Question{}, false, err
	}
	exclude := make([]string, 0, len(recentSet)+len(lastCorrect))
	for id := range recentSet {
		exclude = append(exclude, id)
	}
	for id := range lastCorrect {
		if !recentSet[id] {
			exclude = append(exclude, id)
		}
	}

	cands, err := e.questions.Candidates(ctx, store.QuestionFilter{
		Subject: target.Subject,
		Topic:   target.Topic,
		Exclude: exclude,
	})
	if err != nil {
		return quiz.Question{}, false, err
	}
	return e.pickRandom(cands)
}

// pickNovel serves a question the user has never attempted, preferring
// topics with too little signal to classify so signal builds fastest.
func (e *Engine) pickNovel(ctx context.Context, userID string, subject quiz.Subject, recentSet map[string]bool) (quiz.Question, bool, error) {
	seen, err := e.attempts.SeenQuestionIDs(ctx, userID)
	if err != nil {
		return quiz.Question{}, false, err
	}
	exclude := make([]string, 0, len(seen)+len(recentSet))
	for id := range seen {
		exclude = append(exclude, id)
	}
	for id := range recentSet {
		if !seen[id] {
			exclude = append(exclude, id)
		}
	}

	cands, err := e.questions.Candidates(ctx, store.QuestionFilter{
		Subject: subject,
		Exclude: exclude,
	})
	if err != nil {
		return quiz.Question{}, false, err
	}

	classes, err := e.tracker.Classifications(ctx, userID)
	if err != nil {
		return quiz.Question{}, false, err
	}
	var preferred []quiz.Question
	for _, q := range cands {
		class, tracked := classes[mastery.TopicKey{Subject: q.Subject, Topic: q.Topic}]
		if !tracked || class == mastery.ClassInsufficient {
			preferred = append(preferred, q)
		}
	}
	if q, ok, err := e.pickRandom(preferred); err != nil || ok {
		return q, ok, err
	}
	return e.pickRandom(cands)
}

// pickReview serves the question the user attempted longest ago within
// scope, skipping the recent window.
func (e *Engine) pickReview(ctx context.Context, userID string, subject quiz.Subject, recentSet map[string]bool) (quiz.Question, bool, error) {
	ids, err := e.attempts.QuestionsByRecency(ctx, userID, subject)
	if err != nil {
		return quiz.Question{}, false, err
	}
	for _, id := range ids {
		if recentSet[id] {
			continue
		}
		q, err := e.questions.Get(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			// Ephemeral generated questions leave attempt events but no
			// stored question. Nothing to review.
			continue
		}
		if err != nil {
			return quiz.Question{}, false, err
		}
		if err := q.Validate(); err != nil {
			e.log.Warn("skipping invalid stored question", zap.String("id", q.ID), zap.Error(err))
			continue
		}
		return q, true, nil
	}
	return quiz.Question{}, false, nil
}

// pickGenerated asks the generator for a fresh question on the weakest
// topic. Any failure is absorbed here: generation is opportunistic and
// must never break session flow.
func (e *Engine) pickGenerated(ctx context.Context, weakest mastery.TopicMastery) (quiz.Question, bool) {
	if e.gen == nil {
		return quiz.Question{}, false
	}

	// Low accuracy gets an easier question; struggling users need wins
	// before harder material helps.
	difficulty := quiz.DifficultyMedium
	if weakest.RecentAccuracy() < 1.0/3.0 {
		difficulty = quiz.DifficultyEasy
	}

	var avoid []string
	if existing, err := e.questions.Candidates(ctx, store.QuestionFilter{
		Subject: weakest.Subject,
		Topic:   weakest.Topic,
	}); err == nil {
		for _, q := range existing {
			avoid = append(avoid, q.Text)
		}
	}

	q, err := e.gen.Generate(ctx, qgen.GenerateRequest{
		Subject:    weakest.Subject,
		Topic:      weakest.Topic,
		Difficulty: difficulty,
		Avoid:      avoid,
	})
	if err != nil {
		var failure *qgen.Failure
		kind := qgen.FailureKind("unknown")
		if errors.As(err, &failure) {
			kind = failure.Kind
		}
		e.log.Warn("question generation failed, widening selection scope",
			zap.String("subject", string(weakest.Subject)),
			zap.String("topic", weakest.Topic),
			zap.String("kind", string(kind)),
			zap.Error(err))
		return quiz.Question{}, false
	}
	return q, true
}

// pickRandom chooses uniformly among the valid candidates. Questions
// that fail validation at read time are dropped, never served.
func (e *Engine) pickRandom(cands []quiz.Question) (quiz.Question, bool, error) {
	valid := cands[:0:0]
	for _, q := range cands {
		if err := q.Validate(); err != nil {
			e.log.Warn("skipping invalid stored question", zap.String("id", q.ID), zap.Error(err))
			continue
		}
		valid = append(valid, q)
	}
	if len(valid) == 0 {
		return quiz.Question{}, false, nil
	}
	return valid[e.randIntn(len(valid))], true, nil
}

func (e *Engine) randFloat64() float64 {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return e.rng.Float64()
}

func (e *Engine) randIntn(n int) int {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return e.rng.Intn(n)
}

func (e *Engine) recentSet(recent []string) map[string]bool {
	if e.cfg.RecentWindow > 0 && len(recent) > e.cfg.RecentWindow {
		recent = recent[len(recent)-e.cfg.RecentWindow:]
	}
	set := make(map[string]bool, len(recent))
	for _, id := range recent {
		set[id] = true
	}
	return set
}
