package session

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/neetprep/neetprep/internal/mastery"
	"github.com/neetprep/neetprep/internal/quiz"
	"github.com/neetprep/neetprep/internal/selection"
	"github.com/neetprep/neetprep/internal/store"
)

func newTestService(t *testing.T, questions int) *Service {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	for i := 0; i < questions; i++ {
		q := quiz.Question{
			ID:      fmt.Sprintf("PHY_%03d", i),
			Subject: quiz.SubjectPhysics,
			Topic:   "Kinematics",
			Text:    fmt.Sprintf("Question %d?", i),
			Options: [quiz.NumOptions]string{
				fmt.Sprintf("a%d", i), fmt.Sprintf("b%d", i),
				fmt.Sprintf("c%d", i), fmt.Sprintf("d%d", i),
			},
			CorrectOption: 0,
			Difficulty:    quiz.DifficultyMedium,
		}
		if err := st.Questions().Insert(ctx, q); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	tracker := mastery.NewTracker(st.Attempts(), st.Masteries())
	engine := selection.NewEngine(st.Questions(), st.Attempts(), tracker, nil, selection.DefaultConfig(), nil)
	return NewService(engine, tracker, DefaultConfig(), nil)
}

func answer(t *testing.T, s *Service, id string, chosen int) AnswerResult {
	t.Helper()
	res, err := s.Answer(context.Background(), id, &chosen)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	return res
}

func TestSession_CompleteFlow(t *testing.T) {
	s := newTestService(t, 5)
	ctx := context.Background()

	id, err := s.Start(ctx, "u1", quiz.SubjectPhysics, 2)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	pick, err := s.Next(ctx, id)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	res := answer(t, s, id, 0)
	if !res.Correct {
		t.Error("option 0 should be correct")
	}
	if res.Done {
		t.Error("Done after 1 of 2 answers")
	}
	if res.Mastery.Attempts != 1 {
		t.Errorf("Mastery.Attempts = %d, want 1", res.Mastery.Attempts)
	}

	second, err := s.Next(ctx, id)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if second.Question.ID == pick.Question.ID {
		t.Errorf("question %s repeated within the session", second.Question.ID)
	}
	res = answer(t, s, id, 3)
	if res.Correct {
		t.Error("option 3 should be incorrect")
	}
	if res.CorrectOption != 0 {
		t.Errorf("CorrectOption = %d, want 0", res.CorrectOption)
	}
	if !res.Done {
		t.Error("Done not set at target")
	}

	sum, err := s.End(ctx, id)
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	if sum.Status != StatusCompleted {
		t.Errorf("Status = %s, want %s", sum.Status, StatusCompleted)
	}
	if sum.Answered != 2 || sum.Correct != 1 {
		t.Errorf("answered/correct = %d/%d, want 2/1", sum.Answered, sum.Correct)
	}
	if got := sum.Accuracy(); got != 0.5 {
		t.Errorf("Accuracy = %v, want 0.5", got)
	}

	// Terminal and removed from the registry.
	if _, err := s.Next(ctx, id); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Next after End: err = %v, want ErrSessionNotFound", err)
	}
}

func TestSession_AnswerWithoutNext(t *testing.T) {
	s := newTestService(t, 1)
	ctx := context.Background()
	id, err := s.Start(ctx, "u1", "", 1)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	chosen := 0
	if _, err := s.Answer(ctx, id, &chosen); !errors.Is(err, ErrNoPendingQuestion) {
		t.Errorf("err = %v, want ErrNoPendingQuestion", err)
	}
}

func TestSession_NextWhilePending(t *testing.T) {
	s := newTestService(t, 2)
	ctx := context.Background()
	id, err := s.Start(ctx, "u1", "", 2)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := s.Next(ctx, id); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if _, err := s.Next(ctx, id); !errors.Is(err, ErrQuestionPending) {
		t.Errorf("err = %v, want ErrQuestionPending", err)
	}
}

func TestSession_UnknownID(t *testing.T) {
	s := newTestService(t, 0)
	if _, err := s.Next(context.Background(), "nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestSession_EndActiveAbandons(t *testing.T) {
	s := newTestService(t, 3)
	ctx := context.Background()
	id, err := s.Start(ctx, "u1", "", 3)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	sum, err := s.End(ctx, id)
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	if sum.Status != StatusAbandoned {
		t.Errorf("Status = %s, want %s", sum.Status, StatusAbandoned)
	}
	if _, err := s.End(ctx, id); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("second End: err = %v, want ErrSessionNotFound", err)
	}
}

func TestSession_IdleTimeoutAbandons(t *testing.T) {
	s := newTestService(t, 3)
	ctx := context.Background()

	now := time.Now()
	s.now = func() time.Time { return now }

	id, err := s.Start(ctx, "u1", "", 3)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	now = now.Add(DefaultIdleTimeout + time.Second)
	if _, err := s.Next(ctx, id); !errors.Is(err, ErrSessionOver) {
		t.Fatalf("err = %v, want ErrSessionOver", err)
	}

	sum, err := s.End(ctx, id)
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	if sum.Status != StatusAbandoned {
		t.Errorf("Status = %s, want %s", sum.Status, StatusAbandoned)
	}
}

func TestSession_SkipCountsAsIncorrect(t *testing.T) {
	s := newTestService(t, 1)
	ctx := context.Background()
	id, err := s.Start(ctx, "u1", "", 1)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := s.Next(ctx, id); err != nil {
		t.Fatalf("Next: %v", err)
	}
	res, err := s.Answer(ctx, id, nil)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if res.Correct {
		t.Error("skip scored as correct")
	}
	if res.Mastery.Attempts != 1 || res.Mastery.Streak != 0 {
		t.Errorf("mastery = %+v, want attempts 1 streak 0", res.Mastery)
	}
}

func TestSession_SummaryReportsNewlyWeak(t *testing.T) {
	s := newTestService(t, 3)
	ctx := context.Background()
	id, err := s.Start(ctx, "u1", quiz.SubjectPhysics, 3)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := s.Next(ctx, id); err != nil {
			t.Fatalf("Next: %v", err)
		}
		answer(t, s, id, 2) // always wrong
	}

	sum, err := s.End(ctx, id)
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	want := mastery.TopicKey{Subject: quiz.SubjectPhysics, Topic: "Kinematics"}
	if len(sum.NewlyWeak) != 1 || sum.NewlyWeak[0] != want {
		t.Errorf("NewlyWeak = %v, want [%v]", sum.NewlyWeak, want)
	}
	if len(sum.NewlyStrong) != 0 {
		t.Errorf("NewlyStrong = %v, want empty", sum.NewlyStrong)
	}
}
