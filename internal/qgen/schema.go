package qgen

import "github.com/neetprep/neetprep/internal/llm"

// questionSchema defines the JSON schema for generated NEET questions.
var questionSchema = &llm.Schema{
	Name:        "neet-question",
	Description: "A single NEET-style multiple-choice question with answer and explanation",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question_text": map[string]any{
				"type":        "string",
				"description": "The question stem shown to the candidate, in plain text",
			},
			"options": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "string",
				},
				"description": "Exactly 4 distinct answer options in display order",
			},
			"correct_answer": map[string]any{
				"type":        "integer",
				"minimum":     0,
				"maximum":     3,
				"description": "Index of the correct option (0-3)",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "Brief explanation of why the correct option is right",
			},
		},
		"required":             []any{"question_text", "options", "correct_answer", "explanation"},
		"additionalProperties": false,
	},
}
