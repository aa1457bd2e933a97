package mastery

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/neetprep/neetprep/internal/quiz"
	"github.com/neetprep/neetprep/internal/store"
)

// upsertRetries bounds the optimistic-concurrency retry loop. Conflicts
// only occur when two writers race on the same topic key, so a couple
// of retries is enough; past that something is systematically wrong.
const upsertRetries = 3

// TopicKey identifies one mastery rollup.
type TopicKey struct {
	Subject quiz.Subject
	Topic   string
}

// Tracker maintains topic mastery state from attempt events. The
// attempt log is the ground truth; the per-topic rollups are a derived
// cache that Rebuild can reconstruct from scratch.
type Tracker struct {
	attempts  store.AttemptRepo
	masteries store.MasteryRepo
	locks     *keyedLocks
}

func NewTracker(attempts store.AttemptRepo, masteries store.MasteryRepo) *Tracker {
	return &Tracker{
		attempts:  attempts,
		masteries: masteries,
		locks:     newKeyedLocks(),
	}
}

// Record appends the event to the attempt log and folds it into the
// topic's mastery state. The log write happens first: if the rollup
// update fails the event is still durable and a Rebuild recovers the
// rollup. Returns the state after the update.
func (t *Tracker) Record(ctx context.Context, ev quiz.AttemptEvent) (TopicMastery, error) {
	if err := t.attempts.Append(ctx, ev); err != nil {
		return TopicMastery{}, err
	}

	unlock := t.locks.lock(ev.UserID + "|" + string(ev.Subject) + "|" + ev.Topic)
	defer unlock()

	var lastErr error
	for i := 0; i < upsertRetries; i++ {
		rec, err := t.masteries.Get(ctx, ev.UserID, ev.Subject, ev.Topic)
		if errors.Is(err, store.ErrNotFound) {
			rec = store.TopicMasteryRecord{
				UserID:  ev.UserID,
				Subject: ev.Subject,
				Topic:   ev.Topic,
			}
		} else if err != nil {
			return TopicMastery{}, err
		}

		tm := record(fromRecord(rec), ev.Correct, ev.Timestamp)

		next := toRecord(ev.UserID, tm)
		next.Version = rec.Version
		err = t.masteries.Upsert(ctx, next)
		if err == nil {
			return tm, nil
		}
		if !errors.Is(err, store.ErrVersionConflict) {
			return TopicMastery{}, err
		}
		lastErr = err
	}
	return TopicMastery{}, fmt.Errorf("mastery update for %s/%s/%s kept conflicting: %w",
		ev.UserID, ev.Subject, ev.Topic, lastErr)
}

// Topic returns the mastery state for one key. A key with no attempts
// yet comes back as the zero state, which classifies as insufficient.
func (t *Tracker) Topic(ctx context.Context, userID string, subject quiz.Subject, topic string) (TopicMastery, error) {
	rec, err := t.masteries.Get(ctx, userID, subject, topic)
	if errors.Is(err, store.ErrNotFound) {
		return TopicMastery{Subject: subject, Topic: topic}, nil
	}
	if err != nil {
		return TopicMastery{}, err
	}
	return fromRecord(rec), nil
}

// Snapshot returns every tracked topic for the user, ordered by
// subject then topic.
func (t *Tracker) Snapshot(ctx context.Context, userID string) ([]TopicMastery, error) {
	recs, err := t.masteries.ForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]TopicMastery, 0, len(recs))
	for _, rec := range recs {
		out = append(out, fromRecord(rec))
	}
	return out, nil
}

// Classifications returns the classification of every tracked topic.
// Session summaries diff two of these to report newly weak and newly
// strong topics.
func (t *Tracker) Classifications(ctx context.Context, userID string) (map[TopicKey]Classification, error) {
	all, err := t.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make(map[TopicKey]Classification, len(all))
	for _, tm := range all {
		out[TopicKey{Subject: tm.Subject, Topic: tm.Topic}] = Classify(tm)
	}
	return out, nil
}

// WeakTopics returns the user's weak topics within the subject scope
// ("" = any subject), worst recent accuracy first. Ties break by topic
// name so the ordering is stable.
func (t *Tracker) WeakTopics(ctx context.Context, userID string, subject quiz.Subject) ([]TopicMastery, error) {
	return t.classified(ctx, userID, subject, ClassWeak, func(a, b TopicMastery) bool {
		if a.RecentAccuracy() != b.RecentAccuracy() {
			return a.RecentAccuracy() < b.RecentAccuracy()
		}
		return a.Topic < b.Topic
	})
}

// StrongTopics returns the user's strong topics within the subject
// scope, best recent accuracy first.
func (t *Tracker) StrongTopics(ctx context.Context, userID string, subject quiz.Subject) ([]TopicMastery, error) {
	return t.classified(ctx, userID, subject, ClassStrong, func(a, b TopicMastery) bool {
		if a.RecentAccuracy() != b.RecentAccuracy() {
			return a.RecentAccuracy() > b.RecentAccuracy()
		}
		return a.Topic < b.Topic
	})
}

func (t *Tracker) classified(ctx context.Context, userID string, subject quiz.Subject, want Classification, less func(a, b TopicMastery) bool) ([]TopicMastery, error) {
	all, err := t.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	var out []TopicMastery
	for _, tm := range all {
		if subject != "" && tm.Subject != subject {
			continue
		}
		if Classify(tm) == want {
			out = append(out, tm)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out, nil
}

// SubjectProgress aggregates one subject inside a UserProgress report.
type SubjectProgress struct {
	Subject  quiz.Subject
	Attempts int
	Correct  int
	Topics   int
}

// UserProgress is the roll-up handed to the progress report.
type UserProgress struct {
	UserID       string
	Attempts     int
	Correct      int
	Subjects     []SubjectProgress
	WeakTopics   []TopicMastery
	StrongTopics []TopicMastery
	LastStudied  time.Time
}

// Accuracy is the all-time fraction of correct attempts.
func (p UserProgress) Accuracy() float64 {
	if p.Attempts == 0 {
		return 0
	}
	return float64(p.Correct) / float64(p.Attempts)
}

// Progress builds the user's progress report from the tracked topics.
func (t *Tracker) Progress(ctx context.Context, userID string) (UserProgress, error) {
	all, err := t.Snapshot(ctx, userID)
	if err != nil {
		return UserProgress{}, err
	}

	p := UserProgress{UserID: userID}
	bySubject := make(map[quiz.Subject]*SubjectProgress)
	for _, tm := range all {
		p.Attempts += tm.Attempts
		p.Correct += tm.Correct
		if tm.LastAttempt.After(p.LastStudied) {
			p.LastStudied = tm.LastAttempt
		}

		sp, ok := bySubject[tm.Subject]
		if !ok {
			sp = &SubjectProgress{Subject: tm.Subject}
			bySubject[tm.Subject] = sp
		}
		sp.Attempts += tm.Attempts
		sp.Correct += tm.Correct
		sp.Topics++

		switch Classify(tm) {
		case ClassWeak:
			p.WeakTopics = append(p.WeakTopics, tm)
		case ClassStrong:
			p.StrongTopics = append(p.StrongTopics, tm)
		}
	}

	for _, s := range quiz.Subjects() {
		if sp, ok := bySubject[s]; ok {
			p.Subjects = append(p.Subjects, *sp)
		}
	}
	sort.Slice(p.WeakTopics, func(i, j int) bool {
		return p.WeakTopics[i].RecentAccuracy() < p.WeakTopics[j].RecentAccuracy()
	})
	sort.Slice(p.StrongTopics, func(i, j int) bool {
		return p.StrongTopics[i].RecentAccuracy() > p.StrongTopics[j].RecentAccuracy()
	})
	return p, nil
}

// Rebuild drops the user's rollups and reconstructs them by replaying
// the attempt log through the same fold Record uses. Events outside
// the window are still counted in the totals; only the window itself
// is bounded.
func (t *Tracker) Rebuild(ctx context.Context, userID string) error {
	events, err := t.attempts.EventsForUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("replay attempt log: %w", err)
	}
	if err := t.masteries.DeleteForUser(ctx, userID); err != nil {
		return err
	}

	states := make(map[TopicKey]TopicMastery)
	for _, ev := range events {
		key := TopicKey{Subject: ev.Subject, Topic: ev.Topic}
		tm, ok := states[key]
		if !ok {
			tm = TopicMastery{Subject: ev.Subject, Topic: ev.Topic}
		}
		states[key] = record(tm, ev.Correct, ev.Timestamp)
	}

	for _, tm := range states {
		if err := t.masteries.Upsert(ctx, toRecord(userID, tm)); err != nil {
			return fmt.Errorf("rebuild %s/%s: %w", tm.Subject, tm.Topic, err)
		}
	}
	return nil
}

func fromRecord(rec store.TopicMasteryRecord) TopicMastery {
	return TopicMastery{
		Subject:     rec.Subject,
		Topic:       rec.Topic,
		Attempts:    rec.Attempts,
		Correct:     rec.Correct,
		LastK:       rec.LastK,
		Streak:      rec.Streak,
		LastAttempt: rec.LastAttempt,
	}
}

func toRecord(userID string, tm TopicMastery) store.TopicMasteryRecord {
	return store.TopicMasteryRecord{
		UserID:      userID,
		Subject:     tm.Subject,
		Topic:       tm.Topic,
		Attempts:    tm.Attempts,
		Correct:     tm.Correct,
		LastK:       tm.LastK,
		Streak:      tm.Streak,
		LastAttempt: tm.LastAttempt,
	}
}
