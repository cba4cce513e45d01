package worksheet

import (
	"context"

	"go.uber.org/zap"

	"github.com/janbrzo/edooqoo/internal/llm"
)

// Orchestrator runs the generate → check → repair → finalize pipeline.
// One call handles one worksheet end-to-end; the sequence of network
// calls is strictly sequential and request-scoped.
type Orchestrator struct {
	gen      *Generator
	detector *Detector
	healer   *Healer
	cfg      Config
	log      *zap.Logger
}

// NewOrchestrator builds the pipeline around an LLM provider.
func NewOrchestrator(provider llm.Provider, cfg Config, log *zap.Logger) (*Orchestrator, error) {
	if log == nil {
		log = zap.NewNop()
	}
	detector, err := NewDetector(cfg.TemplatePatterns)
	if err != nil {
		return nil, err
	}
	return &Orchestrator{
		gen:      NewGenerator(provider, cfg, log),
		detector: detector,
		healer:   NewHealer(cfg, log),
		cfg:      cfg,
		log:      log,
	}, nil
}

// Build generates a complete worksheet for the prompt. The exercise
// count is derived from the lesson duration in the prompt text. The
// returned worksheet always satisfies the structural contract: exact
// exercise count, per-type minimums, normalized titles and icons.
//
// Only generation-service failures surface as errors. Structural
// deficiencies — too few exercises, template content, missing fields —
// are repaired internally and cost latency, not correctness.
func (o *Orchestrator) Build(ctx context.Context, prompt string) (*Worksheet, error) {
	count := CountForPrompt(prompt)
	types := TypesForCount(count)

	o.log.Info("generating worksheet",
		zap.Int("exercise_count", count),
		zap.Int("prompt_len", len(prompt)),
	)

	ws, err := o.gen.Worksheet(ctx, prompt, count, types, StrengthInitial)
	if err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		if err := o.ensureCount(ctx, ws, prompt, count, types); err != nil {
			return nil, err
		}

		flagged := o.detector.FlaggedExercises(ws)
		if len(flagged) == 0 {
			break
		}

		// More than half templated: the document is beyond patching.
		// Throw it away and start over with the amplified prompt.
		if len(flagged)*2 > len(ws.Exercises) && attempt < o.cfg.MaxFullAttempts {
			o.log.Warn("template content in majority of exercises; regenerating worksheet",
				zap.Int("flagged", len(flagged)),
				zap.Int("total", len(ws.Exercises)),
				zap.Int("attempt", attempt),
			)
			ws, err = o.gen.Worksheet(ctx, prompt, count, types, StrengthAmplified)
			if err != nil {
				return nil, err
			}
			continue
		}

		if err := o.selectiveRegen(ctx, ws, prompt, flagged); err != nil {
			return nil, err
		}
		break
	}

	o.healer.HealAll(ws)
	Finalize(ws, o.cfg)

	return ws, nil
}

// ensureCount brings the exercise count to exactly the requested number.
// Undersized worksheets get one follow-up call covering the missing
// types; anything the model still owes is synthesized empty and left to
// the healer. Oversized worksheets are truncated from the tail, which
// preserves the type diversity of the leading exercises.
func (o *Orchestrator) ensureCount(ctx context.Context, ws *Worksheet, prompt string, count int, types []ExerciseType) error {
	if len(ws.Exercises) > count {
		o.log.Info("truncating excess exercises",
			zap.Int("got", len(ws.Exercises)),
			zap.Int("want", count),
		)
		ws.Exercises = ws.Exercises[:count]
		return nil
	}

	if len(ws.Exercises) == count {
		return nil
	}

	missing := MissingTypes(types, ws)
	if len(missing) > count-len(ws.Exercises) {
		missing = missing[:count-len(ws.Exercises)]
	}

	o.log.Info("topping up missing exercises",
		zap.Int("got", len(ws.Exercises)),
		zap.Int("want", count),
		zap.Any("missing_types", missing),
	)

	extra, err := o.gen.Exercises(ctx, prompt, missing)
	if err != nil {
		return err
	}
	for i := range extra {
		if len(ws.Exercises) >= count {
			break
		}
		ws.Exercises = append(ws.Exercises, extra[i])
	}

	// The model may return fewer than asked. Synthesize shells for the
	// remainder; the healer fills them to minimum structure.
	for _, t := range MissingTypes(types, ws) {
		if len(ws.Exercises) >= count {
			break
		}
		o.log.Warn("synthesizing empty exercise", zap.String("type", string(t)))
		ws.Exercises = append(ws.Exercises, Exercise{Type: t})
	}
	for len(ws.Exercises) < count {
		ws.Exercises = append(ws.Exercises, Exercise{Type: TypeMultipleChoice})
	}

	return nil
}

// selectiveRegen replaces each flagged exercise individually, then gives
// still-flagged exercises one further attempt with the enhanced prompt.
// Whatever template content survives the second pass is accepted.
func (o *Orchestrator) selectiveRegen(ctx context.Context, ws *Worksheet, prompt string, flagged []int) error {
	o.log.Info("regenerating flagged exercises",
		zap.Ints("indices", flagged),
	)

	if err := o.regenIndices(ctx, ws, prompt, flagged, StrengthInitial); err != nil {
		return err
	}

	still := o.detector.FlaggedExercises(ws)
	if len(still) == 0 {
		return nil
	}

	o.log.Info("second regeneration pass with enhanced prompt",
		zap.Ints("indices", still),
	)
	if err := o.regenIndices(ctx, ws, prompt, still, StrengthEnhanced); err != nil {
		return err
	}

	if remaining := o.detector.FlaggedExercises(ws); len(remaining) > 0 {
		// Known limitation: no third pass.
		o.log.Warn("template content accepted after second pass",
			zap.Ints("indices", remaining),
		)
	}
	return nil
}

func (o *Orchestrator) regenIndices(ctx context.Context, ws *Worksheet, prompt string, indices []int, strength PromptStrength) error {
	for _, idx := range indices {
		if idx < 0 || idx >= len(ws.Exercises) {
			continue
		}
		ex, err := o.gen.Exercise(ctx, prompt, ws.Exercises[idx].Type, strength)
		if err != nil {
			return err
		}
		ws.Exercises[idx] = *ex
	}
	return nil
}
