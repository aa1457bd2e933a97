package qgen

import "time"

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls output randomness (0.0-1.0).
	Temperature float64

	// MaxAvoid is the maximum number of already-served questions to
	// include in the prompt for deduplication.
	MaxAvoid int

	// Timeout bounds a single generation call. The generator always
	// applies it; callers never wait on an unbounded provider call.
	Timeout time.Duration
}

// DefaultConfig returns a Config with recommended defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   512,
		Temperature: 0.7,
		MaxAvoid:    8,
		Timeout:     30 * time.Second,
	}
}
