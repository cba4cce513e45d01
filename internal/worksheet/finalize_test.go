package worksheet

import (
	"fmt"
	"testing"
)

func TestFinalize_TitlesAndIcons(t *testing.T) {
	cfg := DefaultConfig()
	ws := &Worksheet{Exercises: []Exercise{
		{Type: TypeReading, Title: "whatever the model said"},
		{Type: TypeFillInBlanks},
		{Type: TypeTrueFalse, Icon: "fa-custom"},
	}}

	Finalize(ws, cfg)

	want := []string{
		"Exercise 1: Reading",
		"Exercise 2: Fill in the Blanks",
		"Exercise 3: True or False",
	}
	for i, w := range want {
		if ws.Exercises[i].Title != w {
			t.Errorf("exercise %d title = %q, want %q", i, ws.Exercises[i].Title, w)
		}
	}

	if ws.Exercises[0].Icon != "fa-book-open" {
		t.Errorf("reading icon = %q", ws.Exercises[0].Icon)
	}
	if ws.Exercises[1].Icon != "fa-pencil-alt" {
		t.Errorf("fill-in-blanks icon = %q", ws.Exercises[1].Icon)
	}
	// An icon the model already set is kept.
	if ws.Exercises[2].Icon != "fa-custom" {
		t.Errorf("existing icon overwritten: %q", ws.Exercises[2].Icon)
	}
}

func TestFinalize_SourceCountRange(t *testing.T) {
	cfg := DefaultConfig()

	for range 50 {
		ws := &Worksheet{}
		Finalize(ws, cfg)
		if ws.SourceCount < cfg.SourceCountMin || ws.SourceCount >= cfg.SourceCountMax {
			t.Fatalf("sourceCount = %d, want in [%d, %d)", ws.SourceCount, cfg.SourceCountMin, cfg.SourceCountMax)
		}
	}
}

func TestFinalize_SourceCountPreserved(t *testing.T) {
	ws := &Worksheet{SourceCount: 72}
	Finalize(ws, DefaultConfig())
	if ws.SourceCount != 72 {
		t.Fatalf("sourceCount = %d, want 72", ws.SourceCount)
	}
}

func TestFinalize_VocabularyFromExercises(t *testing.T) {
	cfg := DefaultConfig()
	ws := &Worksheet{Exercises: []Exercise{
		{
			Type: TypeMatching,
			Matching: &MatchingPayload{Items: []MatchingItem{
				{Term: "itinerary", Definition: "a planned route for a journey"},
				{Term: "layover", Definition: "a stop between flights"},
			}},
		},
		{
			Type: TypeFillInBlanks,
			FillInBlanks: &FillInBlanksPayload{Sentences: []GapSentence{
				{Text: "We had to _____ our flight.", Answer: "reschedule"},
			}},
		},
		{
			Type: TypeDialogue,
			Dialogue: &DialoguePayload{
				Expressions: []string{"miss a connection"},
			},
		},
	}}

	Finalize(ws, cfg)

	if len(ws.Vocabulary) < cfg.MinItems {
		t.Fatalf("vocabulary has %d entries, want >= %d", len(ws.Vocabulary), cfg.MinItems)
	}

	got := make(map[string]bool)
	for _, v := range ws.Vocabulary {
		got[v.Term] = true
	}
	for _, term := range []string{"itinerary", "layover", "reschedule", "miss a connection"} {
		if !got[term] {
			t.Errorf("vocabulary missing %q", term)
		}
	}
}

func TestFinalize_VocabularyNoDuplicates(t *testing.T) {
	cfg := DefaultConfig()
	ws := &Worksheet{
		Vocabulary: []VocabEntry{{Term: "itinerary", Meaning: "a planned route"}},
		Exercises: []Exercise{
			{
				Type: TypeMatching,
				Matching: &MatchingPayload{Items: []MatchingItem{
					{Term: "itinerary", Definition: "a planned route for a journey"},
				}},
			},
		},
	}

	Finalize(ws, cfg)

	count := 0
	for _, v := range ws.Vocabulary {
		if v.Term == "itinerary" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("%d entries for 'itinerary', want 1", count)
	}
}

func TestFinalize_VocabularyCapped(t *testing.T) {
	cfg := DefaultConfig()
	items := make([]MatchingItem, 30)
	for i := range items {
		items[i] = MatchingItem{
			Term:       fmt.Sprintf("word-%02d", i),
			Definition: "a vocabulary item",
		}
	}
	ws := &Worksheet{Exercises: []Exercise{
		{Type: TypeMatching, Matching: &MatchingPayload{Items: items}},
	}}

	Finalize(ws, cfg)

	if len(ws.Vocabulary) != cfg.MinItems {
		t.Fatalf("vocabulary has %d entries, want exactly %d", len(ws.Vocabulary), cfg.MinItems)
	}
}
