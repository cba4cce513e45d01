package worksheet

import "github.com/janbrzo/edooqoo/internal/llm"

// exerciseTypeNames lists the type vocabulary for schema enums.
func exerciseTypeNames() []any {
	out := make([]any, len(AllTypes))
	for i, t := range AllTypes {
		out[i] = string(t)
	}
	return out
}

// exerciseDefinition is the shared JSON schema for one exercise object.
// Payload fields are optional at the schema level; structural minimums
// are enforced by healing, not by the schema.
func exerciseDefinition() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"type": map[string]any{
				"type": "string",
				"enum": exerciseTypeNames(),
			},
			"title":        map[string]any{"type": "string"},
			"time":         map[string]any{"type": "integer", "description": "Estimated minutes"},
			"instructions": map[string]any{"type": "string"},
			"teacher_tip":  map[string]any{"type": "string"},
			"content": map[string]any{
				"type":        "string",
				"description": "Reading passage text (reading type only)",
			},
			"questions": map[string]any{
				"type":        "array",
				"items":       map[string]any{},
				"description": "Questions; shape depends on exercise type",
			},
			"items": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"term":       map[string]any{"type": "string"},
						"definition": map[string]any{"type": "string"},
					},
					"required": []any{"term", "definition"},
				},
			},
			"sentences": map[string]any{
				"type":        "array",
				"items":       map[string]any{},
				"description": "Sentences; value key depends on exercise type",
			},
			"word_bank": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"dialogue": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"speaker": map[string]any{"type": "string"},
						"text":    map[string]any{"type": "string"},
					},
					"required": []any{"speaker", "text"},
				},
			},
			"expressions": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"expression_instruction": map[string]any{"type": "string"},
			"statements": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"text":   map[string]any{"type": "string"},
						"isTrue": map[string]any{"type": "boolean"},
					},
					"required": []any{"text", "isTrue"},
				},
			},
		},
		"required": []any{"type", "title", "instructions"},
	}
}

// WorksheetSchema is the JSON schema for full worksheet generation.
var WorksheetSchema = &llm.Schema{
	Name:        "worksheet",
	Description: "A complete English teaching worksheet with ordered exercises and a vocabulary sheet",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":        map[string]any{"type": "string"},
			"subtitle":     map[string]any{"type": "string"},
			"introduction": map[string]any{"type": "string"},
			"exercises": map[string]any{
				"type":  "array",
				"items": exerciseDefinition(),
			},
			"vocabulary_sheet": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"term":    map[string]any{"type": "string"},
						"meaning": map[string]any{"type": "string"},
					},
					"required": []any{"term", "meaning"},
				},
			},
		},
		"required": []any{"title", "exercises"},
	},
}

// ExerciseSchema is the JSON schema for single-exercise regeneration.
var ExerciseSchema = &llm.Schema{
	Name:        "worksheet-exercise",
	Description: "One exercise of an English teaching worksheet",
	Definition:  exerciseDefinition(),
}

// ExerciseBatchSchema is the JSON schema for top-up generation of the
// exercises missing from an undersized worksheet.
var ExerciseBatchSchema = &llm.Schema{
	Name:        "worksheet-exercise-batch",
	Description: "Additional exercises for an existing worksheet",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"exercises": map[string]any{
				"type":  "array",
				"items": exerciseDefinition(),
			},
		},
		"required": []any{"exercises"},
	},
}
