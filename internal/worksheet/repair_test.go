package worksheet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/janbrzo/edooqoo/internal/llm"
)

// cleanExercise builds a minimal exercise with realistic content the
// detector will not flag. The healer pads it to full size later.
func cleanExercise(tp ExerciseType) Exercise {
	ex := Exercise{
		Type:         tp,
		Time:         6,
		Instructions: "Work through the task with your teacher.",
	}
	switch tp {
	case TypeReading:
		ex.Reading = &ReadingPayload{
			Content: "Elena manages a small hotel on the Croatian coast. In summer she hires extra staff for the busy season.",
			Questions: []ReadingQuestion{
				{Text: "Where does Elena work?", Answer: "At a hotel on the Croatian coast."},
			},
		}
	case TypeMatching:
		ex.Matching = &MatchingPayload{Items: []MatchingItem{
			{Term: "reservation", Definition: "an arrangement to keep a room for a guest"},
		}}
	case TypeFillInBlanks:
		ex.FillInBlanks = &FillInBlanksPayload{
			Sentences: []GapSentence{{Text: "The guests _____ in at noon.", Answer: "checked"}},
			WordBank:  []string{"checked"},
		}
	case TypeMultipleChoice:
		ex.MultipleChoice = &MultipleChoicePayload{Questions: []ChoiceQuestion{
			{
				Text: "What does 'vacancy' mean?",
				Options: []Option{
					{Label: "A", Text: "a full hotel"},
					{Label: "B", Text: "an available room", Correct: true},
					{Label: "C", Text: "a booking fee"},
					{Label: "D", Text: "a late arrival"},
				},
			},
		}}
	case TypeDialogue:
		ex.Dialogue = &DialoguePayload{
			Lines: []DialogueLine{
				{Speaker: "Receptionist", Text: "Good evening, do you have a booking with us?"},
				{Speaker: "Guest", Text: "Yes, under the name Kowalski."},
			},
			Expressions:           []string{"check in", "book a room"},
			ExpressionInstruction: "Use each expression in a sentence of your own.",
		}
	case TypeTrueFalse:
		ex.TrueFalse = &TrueFalsePayload{Statements: []Statement{
			{Text: "Elena's hotel is busiest in winter.", IsTrue: false},
		}}
	case TypeDiscussion:
		ex.Discussion = &DiscussionPayload{Questions: []string{
			"Have you ever complained about a hotel room? What happened?",
		}}
	case TypeErrorCorrection:
		ex.ErrorCorrection = &ErrorCorrectionPayload{Sentences: []CorrectionSentence{
			{Text: "She have booked a double room.", Correction: "She has booked a double room."},
		}}
	case TypeWordFormation:
		ex.WordFormation = &SentencesPayload{Sentences: []AnswerSentence{
			{Text: "The hotel is famous for its ___ (hospitable).", Answer: "hospitality"},
		}}
	case TypeWordOrder:
		ex.WordOrder = &SentencesPayload{Sentences: []AnswerSentence{
			{Text: "room / a / sea / we / with / view / booked", Answer: "We booked a room with a sea view."},
		}}
	}
	return ex
}

// templatedExercise builds an exercise carrying placeholder content the
// detector flags.
func templatedExercise(tp ExerciseType) Exercise {
	ex := cleanExercise(tp)
	switch tp {
	case TypeMatching:
		ex.Matching.Items = []MatchingItem{{Term: "Term 1", Definition: "Definition for term 1"}}
	case TypeDialogue:
		ex.Dialogue.Lines = []DialogueLine{{Speaker: "Speaker A", Text: "Hello."}}
	case TypeDiscussion:
		ex.Discussion.Questions = []string{"Discussion question 1?"}
	default:
		ex.Instructions = "This is sentence 1 with placeholder content."
	}
	return ex
}

func cleanWorksheet(count int) *Worksheet {
	ws := &Worksheet{
		Title:    "English for Hotel Staff",
		Subtitle: "Front desk conversations",
	}
	for _, tp := range TypesForCount(count) {
		ws.Exercises = append(ws.Exercises, cleanExercise(tp))
	}
	return ws
}

func worksheetJSON(t *testing.T, ws *Worksheet) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(ws)
	if err != nil {
		t.Fatalf("marshal worksheet: %v", err)
	}
	return b
}

func exerciseJSON(t *testing.T, ex Exercise) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(ex)
	if err != nil {
		t.Fatalf("marshal exercise: %v", err)
	}
	return b
}

func newTestOrchestrator(t *testing.T, mock *llm.MockProvider) *Orchestrator {
	t.Helper()
	o, err := NewOrchestrator(mock, DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}
	return o
}

func assertContract(t *testing.T, ws *Worksheet, count int) {
	t.Helper()
	cfg := DefaultConfig()

	if len(ws.Exercises) != count {
		t.Fatalf("got %d exercises, want %d", len(ws.Exercises), count)
	}
	for i, ex := range ws.Exercises {
		wantTitle := fmt.Sprintf("Exercise %d: %s", i+1, ex.Type.DisplayName())
		if ex.Title != wantTitle {
			t.Errorf("exercise %d title = %q, want %q", i, ex.Title, wantTitle)
		}
		if ex.Icon == "" {
			t.Errorf("exercise %d missing icon", i)
		}
	}
	if len(ws.Vocabulary) < cfg.MinItems {
		t.Errorf("vocabulary has %d entries, want >= %d", len(ws.Vocabulary), cfg.MinItems)
	}
	if ws.SourceCount < cfg.SourceCountMin || ws.SourceCount >= cfg.SourceCountMax {
		t.Errorf("sourceCount = %d, want in [%d, %d)", ws.SourceCount, cfg.SourceCountMin, cfg.SourceCountMax)
	}
}

func TestBuild_CleanFirstAttempt(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: worksheetJSON(t, cleanWorksheet(6))},
	)
	o := newTestOrchestrator(t, mock)

	ws, err := o.Build(context.Background(), "English for hotel staff, 45 min lesson")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	assertContract(t, ws, 6)
}

func TestBuild_CountsPerDuration(t *testing.T) {
	tests := []struct {
		prompt string
		count  int
	}{
		{"Hotel English, 30 min", 4},
		{"Hotel English, 45 min", 6},
		{"Hotel English, 60 min", 8},
		{"Hotel English", 6},
	}

	for _, tt := range tests {
		t.Run(tt.prompt, func(t *testing.T) {
			mock := llm.NewMockProvider(
				llm.MockResponse{Content: worksheetJSON(t, cleanWorksheet(tt.count))},
			)
			o := newTestOrchestrator(t, mock)

			ws, err := o.Build(context.Background(), tt.prompt)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertContract(t, ws, tt.count)
		})
	}
}

func TestBuild_TruncatesExcess(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: worksheetJSON(t, cleanWorksheet(7))},
	)
	o := newTestOrchestrator(t, mock)

	ws, err := o.Build(context.Background(), "Hotel English, 30 min")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call (no top-up), got %d", mock.CallCount())
	}
	assertContract(t, ws, 4)
}

func TestBuild_TopsUpShortfall(t *testing.T) {
	short := cleanWorksheet(6)
	short.Exercises = short.Exercises[:4]

	topUp := struct {
		Exercises []Exercise `json:"exercises"`
	}{Exercises: []Exercise{
		cleanExercise(TypeDialogue),
		cleanExercise(TypeTrueFalse),
	}}
	topUpRaw, err := json.Marshal(topUp)
	if err != nil {
		t.Fatalf("marshal top-up: %v", err)
	}

	mock := llm.NewMockProvider(
		llm.MockResponse{Content: worksheetJSON(t, short)},
		llm.MockResponse{Content: topUpRaw},
	)
	o := newTestOrchestrator(t, mock)

	ws, err := o.Build(context.Background(), "Hotel English, 45 min")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.CallCount() != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.CallCount())
	}
	assertContract(t, ws, 6)
	if !strings.Contains(mock.Calls[1].System, "exercises") {
		t.Fatal("second call should be the top-up batch request")
	}
}

func TestBuild_SynthesizesWhenTopUpUnderDelivers(t *testing.T) {
	short := cleanWorksheet(6)
	short.Exercises = short.Exercises[:4]

	mock := llm.NewMockProvider(
		llm.MockResponse{Content: worksheetJSON(t, short)},
		llm.MockResponse{Content: json.RawMessage(`{"exercises":[]}`)},
	)
	o := newTestOrchestrator(t, mock)

	ws, err := o.Build(context.Background(), "Hotel English, 45 min")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The empty top-up is absorbed; shells are synthesized and healed.
	assertContract(t, ws, 6)
}

func TestBuild_MajorityTemplatedRegeneratesWholesale(t *testing.T) {
	bad := cleanWorksheet(8)
	for i := 0; i < 5; i++ {
		bad.Exercises[i] = templatedExercise(bad.Exercises[i].Type)
	}

	mock := llm.NewMockProvider(
		llm.MockResponse{Content: worksheetJSON(t, bad)},
		llm.MockResponse{Content: worksheetJSON(t, cleanWorksheet(8))},
	)
	o := newTestOrchestrator(t, mock)

	ws, err := o.Build(context.Background(), "Hotel English, 60 min")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.CallCount() != 2 {
		t.Fatalf("expected 2 calls (initial + full regen), got %d", mock.CallCount())
	}
	if !strings.Contains(mock.Calls[1].System, "DO NOT use template content") {
		t.Fatal("full regeneration should use the amplified prompt")
	}
	assertContract(t, ws, 8)
}

func TestBuild_MinorityTemplatedRegeneratesSelectively(t *testing.T) {
	bad := cleanWorksheet(8)
	bad.Exercises[1] = templatedExercise(bad.Exercises[1].Type) // matching
	bad.Exercises[4] = templatedExercise(bad.Exercises[4].Type) // dialogue
	untouched := bad.Exercises[0].Reading.Content

	mock := llm.NewMockProvider(
		llm.MockResponse{Content: worksheetJSON(t, bad)},
		llm.MockResponse{Content: exerciseJSON(t, cleanExercise(TypeMatching))},
		llm.MockResponse{Content: exerciseJSON(t, cleanExercise(TypeDialogue))},
	)
	o := newTestOrchestrator(t, mock)

	ws, err := o.Build(context.Background(), "Hotel English, 60 min")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// One worksheet call plus one per flagged exercise; clean exercises
	// are never regenerated.
	if mock.CallCount() != 3 {
		t.Fatalf("expected 3 calls, got %d", mock.CallCount())
	}
	if ws.Exercises[0].Reading == nil || ws.Exercises[0].Reading.Content != untouched {
		t.Fatal("clean exercise was replaced")
	}
	assertContract(t, ws, 8)
}

func TestBuild_SecondSelectivePassUsesEnhancedPrompt(t *testing.T) {
	bad := cleanWorksheet(8)
	bad.Exercises[1] = templatedExercise(TypeMatching)

	mock := llm.NewMockProvider(
		llm.MockResponse{Content: worksheetJSON(t, bad)},
		// First selective pass returns template content again.
		llm.MockResponse{Content: exerciseJSON(t, templatedExercise(TypeMatching))},
		// Second pass succeeds.
		llm.MockResponse{Content: exerciseJSON(t, cleanExercise(TypeMatching))},
	)
	o := newTestOrchestrator(t, mock)

	ws, err := o.Build(context.Background(), "Hotel English, 60 min")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.CallCount() != 3 {
		t.Fatalf("expected 3 calls, got %d", mock.CallCount())
	}
	if !strings.Contains(mock.Calls[2].System, "CRITICAL") {
		t.Fatal("second selective pass should use the enhanced prompt")
	}
	assertContract(t, ws, 8)
}

func TestBuild_AcceptsTemplateAfterSecondPass(t *testing.T) {
	bad := cleanWorksheet(8)
	bad.Exercises[1] = templatedExercise(TypeMatching)

	mock := llm.NewMockProvider(
		llm.MockResponse{Content: worksheetJSON(t, bad)},
		llm.MockResponse{Content: exerciseJSON(t, templatedExercise(TypeMatching))},
		llm.MockResponse{Content: exerciseJSON(t, templatedExercise(TypeMatching))},
	)
	o := newTestOrchestrator(t, mock)

	// No third pass: the surviving template content is accepted rather
	// than failing the request.
	ws, err := o.Build(context.Background(), "Hotel English, 60 min")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.CallCount() != 3 {
		t.Fatalf("expected 3 calls, got %d", mock.CallCount())
	}
	assertContract(t, ws, 8)
}

func TestBuild_FullRegenBounded(t *testing.T) {
	bad := func() *Worksheet {
		ws := cleanWorksheet(8)
		for i := 0; i < 5; i++ {
			ws.Exercises[i] = templatedExercise(ws.Exercises[i].Type)
		}
		return ws
	}

	mock := llm.NewMockProvider(
		llm.MockResponse{Content: worksheetJSON(t, bad())},
		// The amplified regeneration is just as templated.
		llm.MockResponse{Content: worksheetJSON(t, bad())},
	)
	// Selective regeneration then replaces all five flagged exercises.
	for i := 0; i < 5; i++ {
		mock.AddResponse(llm.MockResponse{Content: exerciseJSON(t, cleanExercise(TypeMatching))})
	}
	o := newTestOrchestrator(t, mock)

	ws, err := o.Build(context.Background(), "Hotel English, 60 min")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 2 worksheet attempts, then per-exercise repair instead of looping.
	if mock.CallCount() != 7 {
		t.Fatalf("expected 7 calls, got %d", mock.CallCount())
	}
	assertContract(t, ws, 8)
}

func TestBuild_ProviderFailureSurfaces(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{}},
	)
	o := newTestOrchestrator(t, mock)

	_, err := o.Build(context.Background(), "Hotel English, 45 min")
	if err == nil {
		t.Fatal("expected error")
	}
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %T", err)
	}
}
