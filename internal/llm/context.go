package llm

import "context"

type contextKey string

const purposeKey contextKey = "llm_purpose"

// Purpose labels used by the worksheet pipeline for event logging.
const (
	PurposeWorksheet    = "worksheet-gen"
	PurposeTopUp        = "worksheet-topup"
	PurposeFullRegen    = "worksheet-full-regen"
	PurposeExerciseGen  = "exercise-regen"
	PurposeConnectivity = "connectivity-check"
)

// WithPurpose attaches a purpose label to the context for event logging.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}
