package mastery

import (
	"time"

	"github.com/neetprep/neetprep/internal/quiz"
)

const (
	// WindowK is the capacity of the recent-outcome window.
	WindowK = 10

	// MinAttempts is the minimum attempt count before classification
	// carries any signal.
	MinAttempts = 3

	// WeakThreshold is the recent-accuracy bound below which a topic is weak.
	WeakThreshold = 0.5

	// StrongThreshold is the recent-accuracy bound for a strong topic.
	StrongThreshold = 0.8

	// StrongStreak is the consecutive-correct count required for strong.
	StrongStreak = 3
)

// Classification buckets a topic by the user's recent performance.
type Classification string

const (
	// ClassInsufficient means too few attempts to classify.
	ClassInsufficient Classification = "insufficient"
	ClassWeak         Classification = "weak"
	ClassNeutral      Classification = "neutral"
	ClassStrong       Classification = "strong"
)

// TopicMastery is the rolling mastery state for one (user, subject,
// topic) key. Only the Tracker mutates it, in response to attempt
// events; everyone else reads.
type TopicMastery struct {
	Subject     quiz.Subject
	Topic       string
	Attempts    int
	Correct     int
	LastK       []bool // most-recent-last, capacity WindowK
	Streak      int    // consecutive correct, reset on incorrect or skip
	LastAttempt time.Time
}

// RecentAccuracy is the fraction of correct outcomes in the window.
// Returns 0 for an empty window.
func (tm TopicMastery) RecentAccuracy() float64 {
	if len(tm.LastK) == 0 {
		return 0
	}
	correct := 0
	for _, ok := range tm.LastK {
		if ok {
			correct++
		}
	}
	return float64(correct) / float64(len(tm.LastK))
}

// Classify buckets the topic. The window is recency-weighted by
// construction: a user who improved is reclassified without being
// anchored to early mistakes.
func Classify(tm TopicMastery) Classification {
	if tm.Attempts < MinAttempts {
		return ClassInsufficient
	}
	acc := tm.RecentAccuracy()
	switch {
	case acc < WeakThreshold:
		return ClassWeak
	case acc >= StrongThreshold && tm.Streak >= StrongStreak:
		return ClassStrong
	default:
		return ClassNeutral
	}
}

// record folds one outcome into the mastery state. This is the single
// place the rolling state advances, shared by live updates and replay,
// which is what makes rebuild-by-replay reproduce live state exactly.
func record(tm TopicMastery, correct bool, at time.Time) TopicMastery {
	tm.Attempts++
	if correct {
		tm.Correct++
		tm.Streak++
	} else {
		tm.Streak = 0
	}

	tm.LastK = append(tm.LastK, correct)
	if len(tm.LastK) > WindowK {
		tm.LastK = tm.LastK[len(tm.LastK)-WindowK:]
	}

	tm.LastAttempt = at.UTC()
	return tm
}
