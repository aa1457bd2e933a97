package qgen

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neetprep/neetprep/internal/llm"
	"github.com/neetprep/neetprep/internal/quiz"
)

func validOutput() json.RawMessage {
	return json.RawMessage(`{
		"question_text": "A convex lens has focal length 20 cm. Where must an object be placed for a real image of the same size?",
		"options": ["10 cm", "20 cm", "40 cm", "80 cm"],
		"correct_answer": 2,
		"explanation": "For a same-size real image the object sits at 2f, which is 40 cm."
	}`)
}

func testRequest() GenerateRequest {
	return GenerateRequest{
		Subject:    quiz.SubjectPhysics,
		Topic:      "Optics",
		Difficulty: quiz.DifficultyMedium,
	}
}

func TestGenerate_Success(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validOutput()})
	g := New(mock, DefaultConfig())

	q, err := g.Generate(context.Background(), testRequest())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(q.ID, GeneratedIDPrefix+"PHY_"), "id %s", q.ID)
	assert.Equal(t, quiz.SubjectPhysics, q.Subject)
	assert.Equal(t, "Optics", q.Topic)
	assert.Equal(t, 2, q.CorrectOption)
	assert.False(t, q.IsPYQ)
	assert.Zero(t, q.Year)
	assert.NoError(t, q.Validate())
}

func TestGenerate_PromptCarriesRequest(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validOutput()})
	g := New(mock, DefaultConfig())

	req := testRequest()
	req.Avoid = []string{"An earlier optics question?"}
	_, err := g.Generate(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, mock.Calls, 1)
	call := mock.Calls[0]
	require.NotNil(t, call.Schema)
	assert.Equal(t, "neet-question", call.Schema.Name)
	for _, want := range []string{"Physics", "Optics", "Medium", "An earlier optics question?"} {
		assert.Contains(t, call.Prompt, want)
	}
}

func TestGenerate_FailureClassification(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want FailureKind
	}{
		{"deadline", context.DeadlineExceeded, FailureTimeout},
		{"provider down", &llm.ErrProviderUnavailable{Err: errors.New("503")}, FailureTimeout},
		{"rate limited", &llm.ErrRateLimit{Err: errors.New("429")}, FailureTimeout},
		{"content filtered", &llm.ErrContentFiltered{}, FailurePolicyRejected},
		{"invalid response", &llm.ErrInvalidResponse{Err: errors.New("bad")}, FailureInvalidResponse},
		{"truncated", &llm.ErrMaxTokensExceeded{}, FailureInvalidResponse},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mock := llm.NewMockProvider(llm.MockResponse{Err: tc.err})
			g := New(mock, DefaultConfig())

			_, err := g.Generate(context.Background(), testRequest())
			var failure *Failure
			require.ErrorAs(t, err, &failure)
			assert.Equal(t, tc.want, failure.Kind)
		})
	}
}

func TestGenerate_RejectsStructurallyBadOutput(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"three options", `{"question_text":"Q?","options":["a","b","c"],"correct_answer":0,"explanation":"e"}`},
		{"duplicate options", `{"question_text":"Q?","options":["a","a","c","d"],"correct_answer":0,"explanation":"e"}`},
		{"index out of range", `{"question_text":"Q?","options":["a","b","c","d"],"correct_answer":4,"explanation":"e"}`},
		{"empty text", `{"question_text":"  ","options":["a","b","c","d"],"correct_answer":1,"explanation":"e"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(tc.content)})
			g := New(mock, DefaultConfig())

			_, err := g.Generate(context.Background(), testRequest())
			var failure *Failure
			require.ErrorAs(t, err, &failure)
			assert.Equal(t, FailureInvalidResponse, failure.Kind)
		})
	}
}

func TestBuildAvoid_Caps(t *testing.T) {
	assert.Equal(t, "None", buildAvoid(nil, 8))

	got := buildAvoid([]string{"q1", "q2", "q3", "q4"}, 2)
	assert.NotContains(t, got, "q1")
	assert.NotContains(t, got, "q2")
	assert.Contains(t, got, "q3")
	assert.Contains(t, got, "q4")
}
