package worksheet

import (
	"encoding/json"
	"testing"
)

func TestExerciseUnmarshal_Reading(t *testing.T) {
	raw := `{
		"type": "reading",
		"title": "Exercise 1: Reading",
		"time": 10,
		"instructions": "Read the text and answer the questions.",
		"content": "Sofia moved to Dublin last spring to work for a software company.",
		"questions": [
			{"text": "When did Sofia move to Dublin?", "answer": "Last spring."}
		]
	}`

	var ex Exercise
	if err := json.Unmarshal([]byte(raw), &ex); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ex.Type != TypeReading {
		t.Fatalf("got type %q", ex.Type)
	}
	if ex.Reading == nil {
		t.Fatal("reading payload nil")
	}
	if ex.Reading.Content == "" || len(ex.Reading.Questions) != 1 {
		t.Fatalf("payload not decoded: %+v", ex.Reading)
	}
}

func TestExerciseUnmarshal_Dialogue(t *testing.T) {
	raw := `{
		"type": "dialogue",
		"title": "Exercise 5: Dialogue",
		"time": 8,
		"instructions": "Read the dialogue aloud.",
		"dialogue": [
			{"speaker": "Nurse", "text": "How are you feeling today?"},
			{"speaker": "Patient", "text": "Much better, thank you."}
		],
		"expressions": ["feel under the weather", "make an appointment"],
		"expression_instruction": "Use each expression in a sentence."
	}`

	var ex Exercise
	if err := json.Unmarshal([]byte(raw), &ex); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ex.Dialogue == nil {
		t.Fatal("dialogue payload nil")
	}
	if len(ex.Dialogue.Lines) != 2 || ex.Dialogue.Lines[0].Speaker != "Nurse" {
		t.Fatalf("lines not decoded: %+v", ex.Dialogue.Lines)
	}
	if len(ex.Dialogue.Expressions) != 2 {
		t.Fatalf("expressions not decoded: %v", ex.Dialogue.Expressions)
	}
}

func TestExerciseUnmarshal_SharedSentencesKey(t *testing.T) {
	// fill-in-blanks, error-correction, word-formation, and word-order all
	// use a "sentences" key; the element shape dispatches on type.
	raw := `{
		"type": "word-order",
		"title": "Exercise 8: Word Order",
		"time": 6,
		"instructions": "Put the words in order.",
		"sentences": [
			{"text": "yesterday / the / signed / contract / she", "answer": "She signed the contract yesterday."}
		]
	}`

	var ex Exercise
	if err := json.Unmarshal([]byte(raw), &ex); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ex.WordOrder == nil || len(ex.WordOrder.Sentences) != 1 {
		t.Fatalf("word-order payload not decoded: %+v", ex.WordOrder)
	}
	if ex.FillInBlanks != nil || ex.ErrorCorrection != nil || ex.WordFormation != nil {
		t.Fatal("sentences key decoded into the wrong payload")
	}
}

func TestExerciseUnmarshal_MalformedPayloadTolerated(t *testing.T) {
	// A questions field of the wrong shape is dropped, not fatal.
	raw := `{
		"type": "multiple-choice",
		"title": "Exercise 4: Multiple Choice",
		"time": 6,
		"instructions": "Choose the best answer.",
		"questions": "not an array"
	}`

	var ex Exercise
	if err := json.Unmarshal([]byte(raw), &ex); err != nil {
		t.Fatalf("unmarshal should tolerate bad payload: %v", err)
	}
	if ex.Type != TypeMultipleChoice {
		t.Fatalf("got type %q", ex.Type)
	}
	if ex.MultipleChoice == nil {
		t.Fatal("payload pointer should still be set")
	}
	if len(ex.MultipleChoice.Questions) != 0 {
		t.Fatalf("bad payload should decode empty, got %+v", ex.MultipleChoice.Questions)
	}
}

func TestExerciseMarshal_InlineShape(t *testing.T) {
	ex := Exercise{
		Type:         TypeTrueFalse,
		Title:        "Exercise 6: True or False",
		Icon:         "fa-balance-scale",
		Time:         6,
		Instructions: "Decide whether each statement is true or false.",
		TrueFalse: &TrueFalsePayload{Statements: []Statement{
			{Text: "The meeting was moved to Monday.", IsTrue: true},
		}},
	}

	b, err := json.Marshal(ex)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("re-decode: %v", err)
	}
	if m["type"] != "true-false" {
		t.Fatalf("type = %v", m["type"])
	}
	if _, ok := m["statements"]; !ok {
		t.Fatal("statements not inlined")
	}
	if _, ok := m["true_false"]; ok {
		t.Fatal("payload leaked as a nested object")
	}

	stmts, ok := m["statements"].([]any)
	if !ok || len(stmts) != 1 {
		t.Fatalf("statements = %v", m["statements"])
	}
	first := stmts[0].(map[string]any)
	if first["isTrue"] != true {
		t.Fatalf("isTrue key wrong: %v", first)
	}
}

func TestExerciseRoundTrip(t *testing.T) {
	ex := Exercise{
		Type:         TypeFillInBlanks,
		Title:        "Exercise 3: Fill in the Blanks",
		Time:         6,
		Instructions: "Complete each sentence.",
		FillInBlanks: &FillInBlanksPayload{
			Sentences: []GapSentence{{Text: "He _____ the email twice.", Answer: "checked"}},
			WordBank:  []string{"checked", "printed"},
		},
	}

	b, err := json.Marshal(ex)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Exercise
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if back.Type != ex.Type || back.Title != ex.Title {
		t.Fatal("common fields lost")
	}
	if back.FillInBlanks == nil {
		t.Fatal("payload lost")
	}
	if len(back.FillInBlanks.Sentences) != 1 || back.FillInBlanks.Sentences[0].Answer != "checked" {
		t.Fatalf("sentences lost: %+v", back.FillInBlanks)
	}
	if len(back.FillInBlanks.WordBank) != 2 {
		t.Fatalf("word bank lost: %v", back.FillInBlanks.WordBank)
	}
}

func TestWorksheetRoundTrip(t *testing.T) {
	ws := Worksheet{
		Title:        "English for Architects",
		Subtitle:     "Describing buildings and materials",
		Introduction: "This lesson practices the vocabulary of construction projects.",
		Exercises: []Exercise{
			{
				Type:     TypeMatching,
				Title:    "Exercise 2: Matching",
				Time:     6,
				Matching: &MatchingPayload{Items: []MatchingItem{{Term: "blueprint", Definition: "a technical drawing of a design"}}},
			},
		},
		Vocabulary:  []VocabEntry{{Term: "scaffold", Meaning: "a temporary structure for workers"}},
		SourceCount: 57,
	}

	b, err := json.Marshal(ws)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("re-decode: %v", err)
	}
	if _, ok := m["vocabulary_sheet"]; !ok {
		t.Fatal("vocabulary_sheet key missing")
	}
	if m["sourceCount"] != float64(57) {
		t.Fatalf("sourceCount = %v", m["sourceCount"])
	}

	var back Worksheet
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Title != ws.Title || len(back.Exercises) != 1 || len(back.Vocabulary) != 1 {
		t.Fatalf("round trip lost data: %+v", back)
	}
}

func TestExerciseType_DisplayName(t *testing.T) {
	tests := []struct {
		t    ExerciseType
		want string
	}{
		{TypeReading, "Reading"},
		{TypeFillInBlanks, "Fill in the Blanks"},
		{TypeTrueFalse, "True or False"},
		{TypeMultipleChoice, "Multiple Choice"},
		{ExerciseType("listening-practice"), "Listening Practice"},
	}
	for _, tt := range tests {
		if got := tt.t.DisplayName(); got != tt.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.t, got, tt.want)
		}
	}
}

func TestExerciseType_Known(t *testing.T) {
	for _, tp := range AllTypes {
		if !tp.Known() {
			t.Errorf("%q should be known", tp)
		}
	}
	if ExerciseType("crossword").Known() {
		t.Error("crossword should be unknown")
	}
	if ExerciseType("").Known() {
		t.Error("empty type should be unknown")
	}
}
