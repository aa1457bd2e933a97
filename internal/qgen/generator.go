// Package qgen synthesizes NEET-style practice questions through an LLM
// provider. It is the system's question-generation boundary: callers see
// either a fully validated quiz.Question or a Failure with one of three
// terminal kinds. Retries below that are the provider middleware's
// concern, not the caller's.
package qgen

import (
	"context"
	"fmt"

	"github.com/neetprep/neetprep/internal/quiz"
)

// Generator produces practice questions on demand.
type Generator interface {
	// Generate produces a single validated question. On error the
	// returned error is always a *Failure.
	Generate(ctx context.Context, req GenerateRequest) (quiz.Question, error)
}

// GenerateRequest holds everything needed to generate a question.
type GenerateRequest struct {
	Subject    quiz.Subject
	Topic      string
	Difficulty quiz.Difficulty

	// Avoid lists the text of questions already served, so the model
	// does not repeat them.
	Avoid []string
}

// FailureKind classifies a generation failure. Every failure collapses
// to one of these three terminal outcomes.
type FailureKind string

const (
	// FailureTimeout covers deadline expiry and any transient provider
	// outage that survived the retry middleware.
	FailureTimeout FailureKind = "timeout"

	// FailureInvalidResponse means the model returned something that
	// did not survive schema or structural validation.
	FailureInvalidResponse FailureKind = "invalid_response"

	// FailurePolicyRejected means the provider refused on content-policy
	// grounds.
	FailurePolicyRejected FailureKind = "policy_rejected"
)

// Failure is the terminal error type of the generation boundary.
type Failure struct {
	Kind FailureKind
	Err  error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("question generation failed (%s): %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }
