package worksheet

import (
	"encoding/json"
	"strings"
	"testing"
)

func newTestHealer() *Healer {
	return NewHealer(DefaultConfig(), nil)
}

func TestHeal_EmptyExercisePerType(t *testing.T) {
	h := newTestHealer()
	cfg := DefaultConfig()

	for _, tp := range AllTypes {
		t.Run(string(tp), func(t *testing.T) {
			ex := Exercise{Type: tp}
			h.Heal(&ex)

			if ex.Title == "" {
				t.Error("title not defaulted")
			}
			if ex.Time <= 0 {
				t.Error("time not defaulted")
			}
			if ex.Instructions == "" {
				t.Error("instructions not defaulted")
			}

			switch tp {
			case TypeReading:
				if ex.Reading == nil {
					t.Fatal("payload not synthesized")
				}
				if ex.Reading.Content == "" {
					t.Error("content not defaulted")
				}
				if len(ex.Reading.Questions) < cfg.MinReadingQuestions {
					t.Errorf("got %d questions, want >= %d", len(ex.Reading.Questions), cfg.MinReadingQuestions)
				}
			case TypeMatching:
				if len(ex.Matching.Items) < cfg.MinItems {
					t.Errorf("got %d items, want >= %d", len(ex.Matching.Items), cfg.MinItems)
				}
			case TypeMultipleChoice:
				if len(ex.MultipleChoice.Questions) < cfg.MinItems {
					t.Fatalf("got %d questions, want >= %d", len(ex.MultipleChoice.Questions), cfg.MinItems)
				}
				for i, q := range ex.MultipleChoice.Questions {
					if len(q.Options) != cfg.OptionsPerQuestion {
						t.Errorf("question %d: got %d options, want %d", i, len(q.Options), cfg.OptionsPerQuestion)
					}
				}
			case TypeFillInBlanks:
				if len(ex.FillInBlanks.Sentences) < cfg.MinItems {
					t.Errorf("got %d sentences, want >= %d", len(ex.FillInBlanks.Sentences), cfg.MinItems)
				}
				if len(ex.FillInBlanks.WordBank) < cfg.MinItems {
					t.Errorf("got %d bank words, want >= %d", len(ex.FillInBlanks.WordBank), cfg.MinItems)
				}
			case TypeDialogue:
				if len(ex.Dialogue.Lines) < cfg.MinItems {
					t.Errorf("got %d lines, want >= %d", len(ex.Dialogue.Lines), cfg.MinItems)
				}
				if len(ex.Dialogue.Expressions) < cfg.MinItems {
					t.Errorf("got %d expressions, want >= %d", len(ex.Dialogue.Expressions), cfg.MinItems)
				}
				if ex.Dialogue.ExpressionInstruction == "" {
					t.Error("expression instruction not defaulted")
				}
			case TypeDiscussion:
				if len(ex.Discussion.Questions) < cfg.MinItems {
					t.Errorf("got %d questions, want >= %d", len(ex.Discussion.Questions), cfg.MinItems)
				}
			case TypeTrueFalse:
				if len(ex.TrueFalse.Statements) < cfg.MinItems {
					t.Errorf("got %d statements, want >= %d", len(ex.TrueFalse.Statements), cfg.MinItems)
				}
			case TypeErrorCorrection:
				if len(ex.ErrorCorrection.Sentences) < cfg.MinItems {
					t.Errorf("got %d sentences, want >= %d", len(ex.ErrorCorrection.Sentences), cfg.MinItems)
				}
			case TypeWordFormation:
				if len(ex.WordFormation.Sentences) < cfg.MinItems {
					t.Errorf("got %d sentences, want >= %d", len(ex.WordFormation.Sentences), cfg.MinItems)
				}
			case TypeWordOrder:
				if len(ex.WordOrder.Sentences) < cfg.MinItems {
					t.Errorf("got %d sentences, want >= %d", len(ex.WordOrder.Sentences), cfg.MinItems)
				}
			}
		})
	}
}

func TestHeal_UnknownTypeBecomesMultipleChoice(t *testing.T) {
	h := newTestHealer()

	ex := Exercise{Type: "crossword", Title: "Crossword Fun", Time: 12}
	h.Heal(&ex)

	if ex.Type != TypeMultipleChoice {
		t.Fatalf("got type %q, want multiple-choice", ex.Type)
	}
	if ex.Title != "Crossword Fun" {
		t.Fatalf("title not preserved: %q", ex.Title)
	}
	if ex.Time != 12 {
		t.Fatalf("time not preserved: %d", ex.Time)
	}
	if ex.MultipleChoice == nil || len(ex.MultipleChoice.Questions) < DefaultConfig().MinItems {
		t.Fatal("multiple-choice payload not synthesized")
	}
}

func TestHeal_Idempotent(t *testing.T) {
	h := newTestHealer()

	for _, tp := range AllTypes {
		ex := Exercise{Type: tp}
		h.Heal(&ex)

		first, err := json.Marshal(ex)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}

		h.Heal(&ex)
		second, err := json.Marshal(ex)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}

		if string(first) != string(second) {
			t.Errorf("%s: healing is not idempotent\nfirst:  %s\nsecond: %s", tp, first, second)
		}
	}
}

func TestHeal_PreservesExistingContent(t *testing.T) {
	h := newTestHealer()

	ex := Exercise{
		Type:         TypeMatching,
		Title:        "Vocabulary Match",
		Time:         7,
		Instructions: "Draw a line between each word and its meaning.",
		Matching: &MatchingPayload{Items: []MatchingItem{
			{Term: "deadline", Definition: "the latest time something must be done"},
			{Term: "colleague", Definition: "a person you work with"},
		}},
	}
	h.Heal(&ex)

	if ex.Title != "Vocabulary Match" || ex.Time != 7 {
		t.Fatal("existing common fields overwritten")
	}
	if ex.Matching.Items[0].Term != "deadline" || ex.Matching.Items[1].Term != "colleague" {
		t.Fatal("existing items overwritten")
	}
	if len(ex.Matching.Items) != DefaultConfig().MinItems {
		t.Fatalf("got %d items, want exactly padded to %d", len(ex.Matching.Items), DefaultConfig().MinItems)
	}
}

func TestHealOptions_TruncationKeepsCorrect(t *testing.T) {
	h := newTestHealer()

	ex := Exercise{
		Type: TypeMultipleChoice,
		MultipleChoice: &MultipleChoicePayload{Questions: []ChoiceQuestion{
			{
				Text: "Which word means the same as 'purchase'?",
				Options: []Option{
					{Label: "A", Text: "sell"},
					{Label: "B", Text: "borrow"},
					{Label: "C", Text: "lend"},
					{Label: "D", Text: "rent"},
					{Label: "E", Text: "trade"},
					{Label: "F", Text: "buy", Correct: true},
				},
			},
		}},
	}
	h.Heal(&ex)

	q := ex.MultipleChoice.Questions[0]
	if len(q.Options) != 4 {
		t.Fatalf("got %d options, want 4", len(q.Options))
	}
	correct := 0
	for _, o := range q.Options {
		if o.Correct {
			correct++
			if o.Text != "buy" {
				t.Fatalf("wrong option kept correct: %q", o.Text)
			}
		}
	}
	if correct != 1 {
		t.Fatalf("got %d correct options, want 1", correct)
	}
}

func TestHealOptions_NoCorrectDefaultsSecond(t *testing.T) {
	h := newTestHealer()

	ex := Exercise{
		Type: TypeMultipleChoice,
		MultipleChoice: &MultipleChoicePayload{Questions: []ChoiceQuestion{
			{
				Text: "Choose the correct past tense of 'go'.",
				Options: []Option{
					{Label: "A", Text: "goed"},
					{Label: "B", Text: "went"},
					{Label: "C", Text: "gone"},
					{Label: "D", Text: "going"},
				},
			},
		}},
	}
	h.Heal(&ex)

	q := ex.MultipleChoice.Questions[0]
	if !q.Options[1].Correct {
		t.Fatal("expected second option to be defaulted correct")
	}
}

func TestHealOptions_MultipleCorrectKeepsFirst(t *testing.T) {
	h := newTestHealer()

	ex := Exercise{
		Type: TypeMultipleChoice,
		MultipleChoice: &MultipleChoicePayload{Questions: []ChoiceQuestion{
			{
				Text: "Select the formal greeting.",
				Options: []Option{
					{Label: "A", Text: "Hey!", Correct: true},
					{Label: "B", Text: "Good morning.", Correct: true},
					{Label: "C", Text: "Yo."},
					{Label: "D", Text: "What's up?", Correct: true},
				},
			},
		}},
	}
	h.Heal(&ex)

	q := ex.MultipleChoice.Questions[0]
	for i, o := range q.Options {
		want := i == 0
		if o.Correct != want {
			t.Fatalf("option %d correct = %v, want %v", i, o.Correct, want)
		}
	}
}

func TestHealFillInBlanks_WordBankCoversAnswers(t *testing.T) {
	h := newTestHealer()

	ex := Exercise{
		Type: TypeFillInBlanks,
		FillInBlanks: &FillInBlanksPayload{
			Sentences: []GapSentence{
				{Text: "She _____ the meeting for Friday.", Answer: "scheduled"},
				{Text: "We need to _____ the budget.", Answer: "approve"},
			},
			WordBank: []string{"scheduled"},
		},
	}
	h.Heal(&ex)

	bank := make(map[string]bool)
	for _, w := range ex.FillInBlanks.WordBank {
		bank[strings.ToLower(w)] = true
	}
	for _, s := range ex.FillInBlanks.Sentences {
		if s.Answer != "" && !bank[strings.ToLower(s.Answer)] {
			t.Fatalf("answer %q missing from word bank %v", s.Answer, ex.FillInBlanks.WordBank)
		}
	}
}

func TestHealReading_BackfillsAnswers(t *testing.T) {
	h := newTestHealer()

	ex := Exercise{
		Type: TypeReading,
		Reading: &ReadingPayload{
			Content: "Tom runs a small bakery in Leeds. Every morning he bakes bread before sunrise.",
			Questions: []ReadingQuestion{
				{Text: "Where is Tom's bakery?", Answer: "In Leeds."},
				{Text: "What does Tom bake every morning?"},
			},
		},
	}
	h.Heal(&ex)

	if ex.Reading.Questions[0].Answer != "In Leeds." {
		t.Fatal("existing answer overwritten")
	}
	if ex.Reading.Questions[1].Answer == "" {
		t.Fatal("missing answer not backfilled")
	}
	if len(ex.Reading.Questions) < DefaultConfig().MinReadingQuestions {
		t.Fatalf("got %d questions, want >= %d", len(ex.Reading.Questions), DefaultConfig().MinReadingQuestions)
	}
}

func TestHealAll(t *testing.T) {
	h := newTestHealer()

	ws := &Worksheet{Exercises: []Exercise{
		{Type: TypeReading},
		{Type: TypeMatching},
		{Type: "unknown-thing"},
	}}
	h.HealAll(ws)

	if ws.Exercises[0].Reading == nil {
		t.Fatal("reading not healed")
	}
	if ws.Exercises[1].Matching == nil {
		t.Fatal("matching not healed")
	}
	if ws.Exercises[2].Type != TypeMultipleChoice {
		t.Fatal("unknown type not defaulted")
	}
}
