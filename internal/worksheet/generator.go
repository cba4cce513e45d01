package worksheet

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/janbrzo/edooqoo/internal/llm"
)

// GenerationError wraps an unrecoverable generation-service failure:
// a network error or a response that stayed unparseable after recovery.
// It is terminal for the current request.
type GenerationError struct {
	Stage string // "worksheet", "top-up", "exercise"
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed (%s): %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Generator wraps the LLM provider for worksheet-shaped generation calls.
type Generator struct {
	provider llm.Provider
	cfg      Config
	log      *zap.Logger
}

// NewGenerator creates a Generator with the given provider and config.
func NewGenerator(provider llm.Provider, cfg Config, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{provider: provider, cfg: cfg, log: log}
}

// Worksheet issues one full-worksheet generation call and parses the
// response. The top-level shape (title, exercises) is validated here;
// per-exercise structure is the healer's job.
func (g *Generator) Worksheet(ctx context.Context, topic string, count int, types []ExerciseType, strength PromptStrength) (*Worksheet, error) {
	purpose := llm.PurposeWorksheet
	if strength == StrengthAmplified {
		purpose = llm.PurposeFullRegen
	}
	ctx = llm.WithPurpose(ctx, purpose)

	req := llm.Request{
		System: worksheetSystemPrompt(count, types, g.cfg, strength),
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: topic},
		},
		Schema:      WorksheetSchema,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.InitialTemperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, &GenerationError{Stage: "worksheet", Err: err}
	}

	var ws Worksheet
	if err := decodeModelJSON(resp.Content, &ws); err != nil {
		return nil, &GenerationError{Stage: "worksheet", Err: err}
	}

	if ws.Title == "" || ws.Exercises == nil {
		return nil, &GenerationError{
			Stage: "worksheet",
			Err:   fmt.Errorf("response missing title or exercises"),
		}
	}

	return &ws, nil
}

// Exercises requests one exercise per given type, used to top up an
// undersized worksheet.
func (g *Generator) Exercises(ctx context.Context, topic string, types []ExerciseType) ([]Exercise, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeTopUp)

	req := llm.Request{
		System: topUpSystemPrompt(types, g.cfg),
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: topic},
		},
		Schema:      ExerciseBatchSchema,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.InitialTemperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, &GenerationError{Stage: "top-up", Err: err}
	}

	var batch struct {
		Exercises []Exercise `json:"exercises"`
	}
	if err := decodeModelJSON(resp.Content, &batch); err != nil {
		return nil, &GenerationError{Stage: "top-up", Err: err}
	}

	return batch.Exercises, nil
}

// Exercise regenerates a single exercise of the given type at the higher
// regeneration temperature.
func (g *Generator) Exercise(ctx context.Context, topic string, t ExerciseType, strength PromptStrength) (*Exercise, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeExerciseGen)

	req := llm.Request{
		System: exerciseSystemPrompt(t, g.cfg, strength),
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: topic},
		},
		Schema:      ExerciseSchema,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.RegenTemperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, &GenerationError{Stage: "exercise", Err: err}
	}

	var ex Exercise
	if err := decodeModelJSON(resp.Content, &ex); err != nil {
		return nil, &GenerationError{Stage: "exercise", Err: err}
	}

	// The model occasionally relabels the type; the requested one wins.
	if ex.Type != t {
		ex.Type = t
	}

	return &ex, nil
}

// decodeModelJSON parses model output, applying a small set of recovery
// rewrites before giving up: code fence stripping, raw newline escaping,
// and bad quote escapes.
func decodeModelJSON(raw json.RawMessage, dst any) error {
	cleaned := stripCodeFence(raw)

	if err := json.Unmarshal(cleaned, dst); err == nil {
		return nil
	}

	for _, fix := range []func([]byte) []byte{escapeRawNewlines, fixQuoteEscapes} {
		cleaned = fix(cleaned)
		if err := json.Unmarshal(cleaned, dst); err == nil {
			return nil
		}
	}

	// Final attempt so the returned error reflects the fixed-up payload.
	if err := json.Unmarshal(cleaned, dst); err != nil {
		return fmt.Errorf("parse response JSON: %w", err)
	}
	return nil
}

// stripCodeFence removes a surrounding markdown code fence, if present.
func stripCodeFence(raw []byte) []byte {
	s := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(s, "```") {
		return raw
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return []byte(strings.TrimSpace(s))
}

// escapeRawNewlines escapes literal newline and tab characters that
// appear inside JSON string literals.
func escapeRawNewlines(raw []byte) []byte {
	var out []byte
	inString := false
	escaped := false
	for _, c := range raw {
		if escaped {
			out = append(out, c)
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
			out = append(out, c)
		case '"':
			inString = !inString
			out = append(out, c)
		case '\n':
			if inString {
				out = append(out, '\\', 'n')
			} else {
				out = append(out, c)
			}
		case '\r':
			if inString {
				out = append(out, '\\', 'r')
			} else {
				out = append(out, c)
			}
		case '\t':
			if inString {
				out = append(out, '\\', 't')
			} else {
				out = append(out, c)
			}
		default:
			out = append(out, c)
		}
	}
	return out
}

// fixQuoteEscapes rewrites the invalid \' escape the model sometimes
// emits to a plain apostrophe.
func fixQuoteEscapes(raw []byte) []byte {
	return []byte(strings.ReplaceAll(string(raw), `\'`, `'`))
}
