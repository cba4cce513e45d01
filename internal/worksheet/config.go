package worksheet

// Config controls generation, detection, and structural healing.
type Config struct {
	// MinReadingQuestions is the minimum comprehension question count for
	// a reading exercise.
	MinReadingQuestions int

	// MinItems is the minimum item/sentence/question count for every
	// other exercise type.
	MinItems int

	// OptionsPerQuestion is the exact option count for multiple-choice
	// questions.
	OptionsPerQuestion int

	// ReadingWordMin and ReadingWordMax bound the reading passage length.
	// Out-of-range passages are logged, never regenerated.
	ReadingWordMin int
	ReadingWordMax int

	// InitialTemperature is used for whole-worksheet generation.
	// RegenTemperature is used for targeted single-exercise regeneration,
	// set higher to increase variation.
	InitialTemperature float64
	RegenTemperature   float64

	// MaxTokens is the token budget per generation call.
	MaxTokens int

	// TemplatePatterns are the regex sources the detector compiles.
	// The defaults are a starting configuration, not an oracle.
	TemplatePatterns []string

	// MaxFullAttempts bounds whole-worksheet regeneration (the initial
	// attempt counts as the first).
	MaxFullAttempts int

	// SourceCountMin and SourceCountMax bound the cosmetic "reviewed
	// sources" figure attached by the finalizer.
	SourceCountMin int
	SourceCountMax int

	// DailyLimit is the per-user generation cap enforced by the caller
	// before the pipeline runs.
	DailyLimit int
}

// DefaultConfig returns the standard pipeline configuration.
func DefaultConfig() Config {
	return Config{
		MinReadingQuestions: 5,
		MinItems:            10,
		OptionsPerQuestion:  4,
		ReadingWordMin:      280,
		ReadingWordMax:      320,
		InitialTemperature:  0.7,
		RegenTemperature:    0.8,
		MaxTokens:           16000,
		TemplatePatterns:    DefaultTemplatePatterns(),
		MaxFullAttempts:     2,
		SourceCountMin:      40,
		SourceCountMax:      95,
		DailyLimit:          10,
	}
}

// defaultTime returns the default duration estimate in minutes for an
// exercise type, used when the model omits one.
func defaultTime(t ExerciseType) int {
	switch t {
	case TypeReading:
		return 10
	case TypeDialogue, TypeDiscussion:
		return 8
	default:
		return 6
	}
}

// iconFor is the fixed type→icon lookup used by the finalizer.
func iconFor(t ExerciseType) string {
	switch t {
	case TypeReading:
		return "fa-book-open"
	case TypeMatching:
		return "fa-link"
	case TypeMultipleChoice:
		return "fa-check-square"
	case TypeFillInBlanks:
		return "fa-pencil-alt"
	case TypeDialogue:
		return "fa-comments"
	case TypeDiscussion:
		return "fa-users"
	case TypeTrueFalse:
		return "fa-balance-scale"
	case TypeErrorCorrection:
		return "fa-edit"
	case TypeWordFormation:
		return "fa-font"
	case TypeWordOrder:
		return "fa-sort"
	default:
		return "fa-check-square"
	}
}
