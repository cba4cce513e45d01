package worksheet

import (
	"fmt"
	"regexp"
)

// DefaultTemplatePatterns returns the regex sources characteristic of
// lazy placeholder output. This is a heuristic: false negatives and
// false positives are both possible and accepted.
func DefaultTemplatePatterns() []string {
	return []string{
		`(?i)\bthis is (a )?(sentence|question|statement) \d+`,
		`(?i)\bspeaker [a-d]\b`,
		`(?i)\bperson [a-d]\b`,
		`(?i)\bterm \d+\b`,
		`(?i)\bdefinition (of|for)? ?term \d+`,
		`(?i)\boption [a-d] for question \d+`,
		`(?i)\b(sentence|question|statement|expression|meaning) \d+ (about|for|of)\b`,
		`(?i)\b(sample|example|placeholder) (sentence|question|statement|answer|term)\b`,
		`(?i)\bcorrect answer (to|for) question \d+`,
		`\[(topic|term|word|answer)\]`,
		`(?i)\blorem ipsum\b`,
	}
}

// Detector flags template-looking text using a fixed pattern set.
type Detector struct {
	patterns []*regexp.Regexp
}

// NewDetector compiles the given pattern sources. An empty slice falls
// back to the defaults.
func NewDetector(patterns []string) (*Detector, error) {
	if len(patterns) == 0 {
		patterns = DefaultTemplatePatterns()
	}
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile template pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return &Detector{patterns: compiled}, nil
}

// Match reports whether text looks like placeholder filler.
func (d *Detector) Match(text string) bool {
	for _, re := range d.patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// FlaggedExercises returns the indices of exercises containing any
// template-looking text in any text-bearing field.
func (d *Detector) FlaggedExercises(ws *Worksheet) []int {
	var flagged []int
	for i := range ws.Exercises {
		if d.matchExercise(&ws.Exercises[i]) {
			flagged = append(flagged, i)
		}
	}
	return flagged
}

func (d *Detector) matchExercise(ex *Exercise) bool {
	for _, text := range exerciseTexts(ex) {
		if d.Match(text) {
			return true
		}
	}
	return false
}

// exerciseTexts collects every text-bearing field of an exercise.
func exerciseTexts(ex *Exercise) []string {
	texts := []string{ex.Title, ex.Instructions}

	switch {
	case ex.Reading != nil:
		texts = append(texts, ex.Reading.Content)
		for _, q := range ex.Reading.Questions {
			texts = append(texts, q.Text, q.Answer)
		}
	case ex.Matching != nil:
		for _, it := range ex.Matching.Items {
			texts = append(texts, it.Term, it.Definition)
		}
	case ex.MultipleChoice != nil:
		for _, q := range ex.MultipleChoice.Questions {
			texts = append(texts, q.Text)
			for _, o := range q.Options {
				texts = append(texts, o.Text)
			}
		}
	case ex.FillInBlanks != nil:
		for _, s := range ex.FillInBlanks.Sentences {
			texts = append(texts, s.Text, s.Answer)
		}
		texts = append(texts, ex.FillInBlanks.WordBank...)
	case ex.Dialogue != nil:
		for _, l := range ex.Dialogue.Lines {
			texts = append(texts, l.Speaker, l.Text)
		}
		texts = append(texts, ex.Dialogue.Expressions...)
	case ex.Discussion != nil:
		texts = append(texts, ex.Discussion.Questions...)
	case ex.TrueFalse != nil:
		for _, s := range ex.TrueFalse.Statements {
			texts = append(texts, s.Text)
		}
	case ex.ErrorCorrection != nil:
		for _, s := range ex.ErrorCorrection.Sentences {
			texts = append(texts, s.Text, s.Correction)
		}
	case ex.WordFormation != nil:
		for _, s := range ex.WordFormation.Sentences {
			texts = append(texts, s.Text, s.Answer)
		}
	case ex.WordOrder != nil:
		for _, s := range ex.WordOrder.Sentences {
			texts = append(texts, s.Text, s.Answer)
		}
	}

	return texts
}
