package qgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/neetprep/neetprep/internal/llm"
	"github.com/neetprep/neetprep/internal/quiz"
)

// GeneratedIDPrefix marks questions that came from the generator rather
// than the ingested bank. Such questions are ephemeral unless an
// explicit save path persists them.
const GeneratedIDPrefix = "AI_"

// LLMGenerator implements Generator using an LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
	now      func() time.Time
}

// New creates an LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg, now: time.Now}
}

// questionOutput is the raw LLM response before validation.
type questionOutput struct {
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// Generate produces a single validated question for the request.
func (g *LLMGenerator) Generate(ctx context.Context, req GenerateRequest) (quiz.Question, error) {
	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Prompt:      buildPrompt(req, g.config.MaxAvoid),
		Schema:      questionSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return quiz.Question{}, classifyError(err)
	}

	var raw questionOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return quiz.Question{}, &Failure{
			Kind: FailureInvalidResponse,
			Err:  fmt.Errorf("parse response: %w", err),
		}
	}

	q, err := g.assemble(raw, req)
	if err != nil {
		return quiz.Question{}, &Failure{Kind: FailureInvalidResponse, Err: err}
	}
	return q, nil
}

// assemble builds a quiz.Question from raw model output and runs the
// same structural validation ingestion applies. The schema guarantees
// field presence but not option distinctness.
func (g *LLMGenerator) assemble(raw questionOutput, req GenerateRequest) (quiz.Question, error) {
	if len(raw.Options) != quiz.NumOptions {
		return quiz.Question{}, fmt.Errorf("model returned %d options, want %d", len(raw.Options), quiz.NumOptions)
	}

	q := quiz.Question{
		ID:            generatedID(req.Subject),
		Subject:       req.Subject,
		Topic:         req.Topic,
		Text:          strings.TrimSpace(raw.QuestionText),
		CorrectOption: raw.CorrectAnswer,
		Explanation:   strings.TrimSpace(raw.Explanation),
		Difficulty:    req.Difficulty,
		IsPYQ:         false,
	}
	for i, opt := range raw.Options {
		q.Options[i] = strings.TrimSpace(opt)
	}

	if err := q.Validate(); err != nil {
		return quiz.Question{}, err
	}
	return q, nil
}

// classifyError maps provider errors to the three-way failure taxonomy.
func classifyError(err error) *Failure {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &Failure{Kind: FailureTimeout, Err: err}
	}

	var filtered *llm.ErrContentFiltered
	if errors.As(err, &filtered) {
		return &Failure{Kind: FailurePolicyRejected, Err: err}
	}

	var invalid *llm.ErrInvalidResponse
	if errors.As(err, &invalid) {
		return &Failure{Kind: FailureInvalidResponse, Err: err}
	}
	var truncated *llm.ErrMaxTokensExceeded
	if errors.As(err, &truncated) {
		return &Failure{Kind: FailureInvalidResponse, Err: err}
	}

	// Rate limits, provider outages, and anything else transient that
	// survived the retry middleware.
	return &Failure{Kind: FailureTimeout, Err: err}
}

func generatedID(subject quiz.Subject) string {
	return GeneratedIDPrefix + subject.Code() + "_" + uuid.New().String()
}
