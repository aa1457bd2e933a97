package qgen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an expert NEET examiner writing practice questions for medical entrance candidates.

Rules:
- Generate a single multiple-choice question for the given subject, topic, and difficulty.
- Match the style, depth, and phrasing of actual NEET previous year questions.
- Use plain text only. Write formulas with standard characters (e.g. v = u + at, H2SO4).
- Provide exactly 4 options with exactly one correct answer. Distractors must be plausible and reflect common misconceptions, not random values.
- The explanation must justify the correct option in two or three sentences.
- Keep the question self-contained: no references to figures or tables.
- Do not repeat any question from the "already served" list.`

// buildPrompt constructs the user message for a generation request.
func buildPrompt(req GenerateRequest, maxAvoid int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Subject: %s\n", req.Subject)
	fmt.Fprintf(&b, "Topic: %s\n", req.Topic)
	fmt.Fprintf(&b, "Difficulty: %s\n", req.Difficulty)

	b.WriteString("\nAlready served in this session:\n")
	b.WriteString(buildAvoid(req.Avoid, maxAvoid))

	return b.String()
}

// buildAvoid formats previously served question texts, keeping only the
// most recent max entries. Returns "None" when empty.
func buildAvoid(avoid []string, max int) string {
	if len(avoid) == 0 {
		return "None"
	}

	if max > 0 && len(avoid) > max {
		avoid = avoid[len(avoid)-max:]
	}

	var b strings.Builder
	for i, q := range avoid {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	return strings.TrimRight(b.String(), "\n")
}
