package worksheet

import (
	"fmt"
	"math/rand/v2"
)

// Finalize normalizes an already-structurally-valid worksheet for
// presentation: sequential titles, icons, a populated vocabulary sheet,
// and the cosmetic source count. It has no failure modes.
func Finalize(ws *Worksheet, cfg Config) {
	for i := range ws.Exercises {
		ex := &ws.Exercises[i]
		ex.Title = fmt.Sprintf("Exercise %d: %s", i+1, ex.Type.DisplayName())
		if ex.Icon == "" {
			ex.Icon = iconFor(ex.Type)
		}
	}

	backfillVocabulary(ws, cfg)

	if ws.SourceCount == 0 {
		// Display-only figure, not a real metric.
		span := cfg.SourceCountMax - cfg.SourceCountMin
		if span < 1 {
			span = 1
		}
		ws.SourceCount = cfg.SourceCountMin + rand.IntN(span)
	}
}

// backfillVocabulary fills an empty or undersized vocabulary sheet from
// terms already present in the exercises, then with placeholders.
func backfillVocabulary(ws *Worksheet, cfg Config) {
	seen := make(map[string]bool, len(ws.Vocabulary))
	for _, v := range ws.Vocabulary {
		seen[v.Term] = true
	}

	add := func(term, meaning string) {
		if term == "" || seen[term] || len(ws.Vocabulary) >= cfg.MinItems {
			return
		}
		ws.Vocabulary = append(ws.Vocabulary, VocabEntry{Term: term, Meaning: meaning})
		seen[term] = true
	}

	for i := range ws.Exercises {
		ex := &ws.Exercises[i]
		switch {
		case ex.Matching != nil:
			for _, it := range ex.Matching.Items {
				add(it.Term, it.Definition)
			}
		case ex.FillInBlanks != nil:
			for _, s := range ex.FillInBlanks.Sentences {
				add(s.Answer, fmt.Sprintf("Used in: %s", s.Text))
			}
		case ex.Dialogue != nil:
			for _, e := range ex.Dialogue.Expressions {
				add(e, "Expression from the dialogue")
			}
		}
	}

	for n := len(ws.Vocabulary) + 1; len(ws.Vocabulary) < cfg.MinItems; n++ {
		add(fmt.Sprintf("Term %d", n), fmt.Sprintf("Meaning of term %d", n))
	}
}
