package selection

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/neetprep/neetprep/internal/mastery"
	"github.com/neetprep/neetprep/internal/qgen"
	"github.com/neetprep/neetprep/internal/quiz"
	"github.com/neetprep/neetprep/internal/store"
)

type fixture struct {
	store   *store.Store
	tracker *mastery.Tracker
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return &fixture{
		store:   st,
		tracker: mastery.NewTracker(st.Attempts(), st.Masteries()),
	}
}

func (f *fixture) engine(t *testing.T, gen qgen.Generator, cfg Config) *Engine {
	t.Helper()
	e := NewEngine(f.store.Questions(), f.store.Attempts(), f.tracker, gen, cfg, nil)
	e.rng = rand.New(rand.NewSource(1))
	return e
}

func (f *fixture) addQuestion(t *testing.T, id string, subject quiz.Subject, topic string) {
	t.Helper()
	q := quiz.Question{
		ID:      id,
		Subject: subject,
		Topic:   topic,
		Text:    "Question " + id + "?",
		Options: [quiz.NumOptions]string{"a " + id, "b " + id, "c " + id, "d " + id},
		CorrectOption: 0,
		Difficulty:    quiz.DifficultyMedium,
	}
	if err := f.store.Questions().Insert(context.Background(), q); err != nil {
		t.Fatalf("insert %s: %v", id, err)
	}
}

// attemptOn records an outcome against a stored question.
func (f *fixture) attemptOn(t *testing.T, userID, questionID string, correct bool, at time.Time) {
	t.Helper()
	q, err := f.store.Questions().Get(context.Background(), questionID)
	if err != nil {
		t.Fatalf("get %s: %v", questionID, err)
	}
	chosen := q.CorrectOption
	if !correct {
		chosen = (q.CorrectOption + 1) % quiz.NumOptions
	}
	ev := quiz.NewAttemptEvent(userID, q, &chosen, at)
	if _, err := f.tracker.Record(context.Background(), ev); err != nil {
		t.Fatalf("record: %v", err)
	}
}

// stubGenerator returns a fixed question or failure.
type stubGenerator struct {
	question quiz.Question
	failure  *qgen.Failure
	calls    int
}

func (g *stubGenerator) Generate(ctx context.Context, req qgen.GenerateRequest) (quiz.Question, error) {
	g.calls++
	if g.failure != nil {
		return quiz.Question{}, g.failure
	}
	return g.question, nil
}

func TestNextQuestion_FreshUserGetsNovelty(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 3; i++ {
		f.addQuestion(t, fmt.Sprintf("PHY_%03d", i), quiz.SubjectPhysics, "Kinematics")
	}
	gen := &stubGenerator{}
	e := f.engine(t, gen, DefaultConfig())

	pick, err := e.NextQuestion(context.Background(), "fresh", quiz.SubjectPhysics, nil)
	if err != nil {
		t.Fatalf("NextQuestion: %v", err)
	}
	if pick.Rule != RuleNovelty {
		t.Errorf("Rule = %s, want %s", pick.Rule, RuleNovelty)
	}
	if pick.Question.Subject != quiz.SubjectPhysics {
		t.Errorf("Subject = %s, want Physics", pick.Question.Subject)
	}
	if gen.calls != 0 {
		t.Errorf("generator called %d times for a fresh user", gen.calls)
	}
}

func TestNextQuestion_WeakTopicReinforcement(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 4; i++ {
		f.addQuestion(t, fmt.Sprintf("PHY_%03d", i), quiz.SubjectPhysics, "Optics")
	}
	f.addQuestion(t, "CHEM_000", quiz.SubjectChemistry, "Thermodynamics")

	// Three misses on Optics make it weak.
	now := time.Now()
	for i := 0; i < 3; i++ {
		f.attemptOn(t, "u1", fmt.Sprintf("PHY_%03d", i), false, now.Add(time.Duration(i)*time.Minute))
	}

	cfg := DefaultConfig()
	cfg.WeakTopicBias = 1.0
	e := f.engine(t, nil, cfg)

	pick, err := e.NextQuestion(context.Background(), "u1", "", nil)
	if err != nil {
		t.Fatalf("NextQuestion: %v", err)
	}
	if pick.Rule != RuleWeakTopic {
		t.Errorf("Rule = %s, want %s", pick.Rule, RuleWeakTopic)
	}
	if pick.Question.Topic != "Optics" {
		t.Errorf("Topic = %s, want Optics", pick.Question.Topic)
	}
}

func TestNextQuestion_LastCorrectDeprioritized(t *testing.T) {
	f := newFixture(t)
	f.addQuestion(t, "PHY_000", quiz.SubjectPhysics, "Optics")
	f.addQuestion(t, "PHY_001", quiz.SubjectPhysics, "Optics")

	// Optics ends weak overall, but PHY_001 was answered correctly on
	// its latest attempt, so rule 1 must serve PHY_000.
	now := time.Now()
	f.attemptOn(t, "u1", "PHY_000", false, now)
	f.attemptOn(t, "u1", "PHY_000", false, now.Add(time.Minute))
	f.attemptOn(t, "u1", "PHY_001", true, now.Add(2*time.Minute))

	cfg := DefaultConfig()
	cfg.WeakTopicBias = 1.0
	e := f.engine(t, nil, cfg)

	for i := 0; i < 5; i++ {
		pick, err := e.NextQuestion(context.Background(), "u1", "", nil)
		if err != nil {
			t.Fatalf("NextQuestion: %v", err)
		}
		if pick.Rule != RuleWeakTopic || pick.Question.ID != "PHY_000" {
			t.Fatalf("pick = %s via %s, want PHY_000 via %s", pick.Question.ID, pick.Rule, RuleWeakTopic)
		}
	}
}

func TestNextQuestion_GeneratorTimeoutFallsBack(t *testing.T) {
	f := newFixture(t)
	f.addQuestion(t, "PHY_000", quiz.SubjectPhysics, "Optics")
	f.addQuestion(t, "PHY_100", quiz.SubjectPhysics, "Kinematics")

	// Optics is weak but PHY_000 was just answered correctly, so the
	// weak pool is empty and generation fires. It times out; the pick
	// must come from novelty without surfacing the failure.
	now := time.Now()
	f.attemptOn(t, "u1", "PHY_000", false, now)
	f.attemptOn(t, "u1", "PHY_000", false, now.Add(time.Minute))
	f.attemptOn(t, "u1", "PHY_000", true, now.Add(2*time.Minute))

	gen := &stubGenerator{failure: &qgen.Failure{Kind: qgen.FailureTimeout, Err: context.DeadlineExceeded}}
	cfg := DefaultConfig()
	cfg.WeakTopicBias = 1.0
	e := f.engine(t, gen, cfg)

	pick, err := e.NextQuestion(context.Background(), "u1", quiz.SubjectPhysics, nil)
	if err != nil {
		t.Fatalf("NextQuestion: %v", err)
	}
	if gen.calls != 1 {
		t.Errorf("generator calls = %d, want 1", gen.calls)
	}
	if pick.Rule != RuleNovelty || pick.Question.ID != "PHY_100" {
		t.Errorf("pick = %s via %s, want PHY_100 via %s", pick.Question.ID, pick.Rule, RuleNovelty)
	}
}

func TestNextQuestion_GeneratedWhenBankExhausted(t *testing.T) {
	f := newFixture(t)
	f.addQuestion(t, "PHY_000", quiz.SubjectPhysics, "Optics")

	now := time.Now()
	f.attemptOn(t, "u1", "PHY_000", false, now)
	f.attemptOn(t, "u1", "PHY_000", false, now.Add(time.Minute))
	f.attemptOn(t, "u1", "PHY_000", false, now.Add(2*time.Minute))

	generated := quiz.Question{
		ID:      qgen.GeneratedIDPrefix + "PHY_test",
		Subject: quiz.SubjectPhysics,
		Topic:   "Optics",
		Text:    "A generated optics question?",
		Options: [quiz.NumOptions]string{"w", "x", "y", "z"},
		CorrectOption: 2,
		Difficulty:    quiz.DifficultyEasy,
	}
	gen := &stubGenerator{question: generated}
	cfg := DefaultConfig()
	cfg.WeakTopicBias = 1.0
	e := f.engine(t, gen, cfg)

	// PHY_000 sits in the recent window, so every bank rule is empty.
	pick, err := e.NextQuestion(context.Background(), "u1", quiz.SubjectPhysics, []string{"PHY_000"})
	if err != nil {
		t.Fatalf("NextQuestion: %v", err)
	}
	if pick.Rule != RuleGenerated {
		t.Errorf("Rule = %s, want %s", pick.Rule, RuleGenerated)
	}
	if !strings.HasPrefix(pick.Question.ID, qgen.GeneratedIDPrefix) {
		t.Errorf("ID = %s, want %s prefix", pick.Question.ID, qgen.GeneratedIDPrefix)
	}
}

func TestNextQuestion_RecentWindowAges(t *testing.T) {
	f := newFixture(t)
	f.addQuestion(t, "BIO_000", quiz.SubjectBiology, "Cell Biology")

	e := f.engine(t, nil, Config{WeakTopicBias: 0.6, RecentWindow: 2})
	ctx := context.Background()

	// Inside the window the only question is excluded.
	if _, err := e.NextQuestion(ctx, "u1", quiz.SubjectBiology, []string{"BIO_000", "x1"}); !errors.Is(err, ErrExhaustedPool) {
		t.Fatalf("err = %v, want ErrExhaustedPool", err)
	}

	// Two newer ids push it out of the window; it is selectable again.
	pick, err := e.NextQuestion(ctx, "u1", quiz.SubjectBiology, []string{"BIO_000", "x1", "x2"})
	if err != nil {
		t.Fatalf("NextQuestion: %v", err)
	}
	if pick.Question.ID != "BIO_000" {
		t.Errorf("ID = %s, want BIO_000", pick.Question.ID)
	}
}

func TestNextQuestion_ReviewWhenEverythingSeen(t *testing.T) {
	f := newFixture(t)
	f.addQuestion(t, "CHEM_000", quiz.SubjectChemistry, "Thermodynamics")
	f.addQuestion(t, "CHEM_001", quiz.SubjectChemistry, "Thermodynamics")

	// Both seen, both last answered correctly, topic classifies strong
	// territory: only review remains. CHEM_000 is the least recent.
	now := time.Now()
	f.attemptOn(t, "u1", "CHEM_000", true, now)
	f.attemptOn(t, "u1", "CHEM_001", true, now.Add(time.Minute))
	f.attemptOn(t, "u1", "CHEM_001", true, now.Add(2*time.Minute))

	e := f.engine(t, nil, DefaultConfig())
	pick, err := e.NextQuestion(context.Background(), "u1", quiz.SubjectChemistry, nil)
	if err != nil {
		t.Fatalf("NextQuestion: %v", err)
	}
	if pick.Rule != RuleReview {
		t.Errorf("Rule = %s, want %s", pick.Rule, RuleReview)
	}
	if pick.Question.ID != "CHEM_000" {
		t.Errorf("ID = %s, want CHEM_000", pick.Question.ID)
	}
}

func TestNextQuestion_ConcurrentUsersShareOneEngine(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 6; i++ {
		f.addQuestion(t, fmt.Sprintf("PHY_%03d", i), quiz.SubjectPhysics, "Optics")
		f.addQuestion(t, fmt.Sprintf("BIO_%03d", i), quiz.SubjectBiology, "Genetics")
	}

	// Each user carries a weak topic so concurrent picks exercise both
	// the bias roll and the weak-pool draw.
	now := time.Now()
	for i := 0; i < 3; i++ {
		f.attemptOn(t, "u1", fmt.Sprintf("PHY_%03d", i), false, now.Add(time.Duration(i)*time.Minute))
		f.attemptOn(t, "u2", fmt.Sprintf("BIO_%03d", i), false, now.Add(time.Duration(i)*time.Minute))
	}

	e := f.engine(t, nil, DefaultConfig())
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for _, user := range []struct {
		id      string
		subject quiz.Subject
	}{
		{"u1", quiz.SubjectPhysics},
		{"u2", quiz.SubjectBiology},
	} {
		wg.Add(1)
		go func(id string, subject quiz.Subject) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				if _, err := e.NextQuestion(ctx, id, subject, nil); err != nil {
					errs <- fmt.Errorf("%s: %w", id, err)
					return
				}
			}
		}(user.id, user.subject)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("NextQuestion: %v", err)
	}
}

func TestNextQuestion_ExhaustedPoolTerminal(t *testing.T) {
	f := newFixture(t)
	e := f.engine(t, &stubGenerator{}, DefaultConfig())
	_, err := e.NextQuestion(context.Background(), "u1", quiz.SubjectPhysics, nil)
	if !errors.Is(err, ErrExhaustedPool) {
		t.Errorf("err = %v, want ErrExhaustedPool", err)
	}
}
