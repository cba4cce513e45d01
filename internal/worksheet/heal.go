package worksheet

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// optionLabels are the fixed multiple-choice option labels.
var optionLabels = []string{"A", "B", "C", "D"}

// Healer guarantees structural completeness of exercises. It never
// fails: every missing or undersized field is patched in place with
// deterministic placeholder content. All repairs are logged for
// observability; they do not affect the success of the request.
type Healer struct {
	cfg Config
	log *zap.Logger
}

// NewHealer creates a Healer with the given config.
func NewHealer(cfg Config, log *zap.Logger) *Healer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Healer{cfg: cfg, log: log}
}

// Heal patches one exercise in place to satisfy its type's minimum
// structure. An unrecognized or missing type is treated as
// multiple-choice. Healing is idempotent: a structurally complete
// exercise passes through unchanged.
func (h *Healer) Heal(ex *Exercise) {
	if !ex.Type.Known() {
		h.repair(ex, "type", fmt.Sprintf("unknown type %q defaulted to multiple-choice", ex.Type))
		*ex = Exercise{
			Type:         TypeMultipleChoice,
			Title:        ex.Title,
			Icon:         ex.Icon,
			Time:         ex.Time,
			Instructions: ex.Instructions,
			TeacherTip:   ex.TeacherTip,
		}
	}

	h.healCommon(ex)

	switch ex.Type {
	case TypeReading:
		h.healReading(ex)
	case TypeMatching:
		h.healMatching(ex)
	case TypeMultipleChoice:
		h.healMultipleChoice(ex)
	case TypeFillInBlanks:
		h.healFillInBlanks(ex)
	case TypeDialogue:
		h.healDialogue(ex)
	case TypeDiscussion:
		h.healDiscussion(ex)
	case TypeTrueFalse:
		h.healTrueFalse(ex)
	case TypeErrorCorrection:
		h.healErrorCorrection(ex)
	case TypeWordFormation:
		ex.WordFormation = h.healSentences(ex, ex.WordFormation)
	case TypeWordOrder:
		ex.WordOrder = h.healSentences(ex, ex.WordOrder)
	}
}

// HealAll heals every exercise of the worksheet.
func (h *Healer) HealAll(ws *Worksheet) {
	for i := range ws.Exercises {
		h.Heal(&ws.Exercises[i])
	}
}

func (h *Healer) repair(ex *Exercise, field, detail string) {
	h.log.Info("structural repair",
		zap.String("exercise_type", string(ex.Type)),
		zap.String("field", field),
		zap.String("detail", detail),
	)
}

func (h *Healer) healCommon(ex *Exercise) {
	if ex.Title == "" {
		ex.Title = ex.Type.DisplayName()
		h.repair(ex, "title", "empty title defaulted")
	}
	if ex.Time <= 0 {
		ex.Time = defaultTime(ex.Type)
		h.repair(ex, "time", "missing time estimate defaulted")
	}
	if ex.Instructions == "" {
		ex.Instructions = defaultInstructions(ex.Type)
		h.repair(ex, "instructions", "empty instructions defaulted")
	}
}

func (h *Healer) healReading(ex *Exercise) {
	if ex.Reading == nil {
		ex.Reading = &ReadingPayload{}
		h.repair(ex, "reading", "missing payload synthesized")
	}
	p := ex.Reading

	if p.Content == "" {
		p.Content = "The reading text for this exercise could not be generated. Ask the student to describe their own experience with the lesson topic instead, then discuss the comprehension questions together."
		h.repair(ex, "content", "empty passage replaced with fallback text")
	}

	if words := len(strings.Fields(p.Content)); words < h.cfg.ReadingWordMin || words > h.cfg.ReadingWordMax {
		// Soft constraint: out-of-range passages are logged, not regenerated.
		h.log.Warn("reading passage outside word range",
			zap.Int("words", words),
			zap.Int("min", h.cfg.ReadingWordMin),
			zap.Int("max", h.cfg.ReadingWordMax),
		)
	}

	for n := len(p.Questions) + 1; len(p.Questions) < h.cfg.MinReadingQuestions; n++ {
		p.Questions = append(p.Questions, ReadingQuestion{
			Text:   fmt.Sprintf("Question %d about the reading text", n),
			Answer: fmt.Sprintf("Answer to question %d", n),
		})
		h.repair(ex, "questions", fmt.Sprintf("synthesized question %d", n))
	}

	for i := range p.Questions {
		if p.Questions[i].Answer == "" {
			p.Questions[i].Answer = fmt.Sprintf("Answer to question %d", i+1)
			h.repair(ex, "questions", fmt.Sprintf("missing answer for question %d", i+1))
		}
	}
}

func (h *Healer) healMatching(ex *Exercise) {
	if ex.Matching == nil {
		ex.Matching = &MatchingPayload{}
		h.repair(ex, "matching", "missing payload synthesized")
	}
	p := ex.Matching

	for n := len(p.Items) + 1; len(p.Items) < h.cfg.MinItems; n++ {
		p.Items = append(p.Items, MatchingItem{
			Term:       fmt.Sprintf("Term %d", n),
			Definition: fmt.Sprintf("Definition for term %d", n),
		})
		h.repair(ex, "items", fmt.Sprintf("synthesized pair %d", n))
	}
}

func (h *Healer) healMultipleChoice(ex *Exercise) {
	if ex.MultipleChoice == nil {
		ex.MultipleChoice = &MultipleChoicePayload{}
		h.repair(ex, "multiple-choice", "missing payload synthesized")
	}
	p := ex.MultipleChoice

	for n := len(p.Questions) + 1; len(p.Questions) < h.cfg.MinItems; n++ {
		p.Questions = append(p.Questions, ChoiceQuestion{
			Text: fmt.Sprintf("Question %d", n),
		})
		h.repair(ex, "questions", fmt.Sprintf("synthesized question %d", n))
	}

	for qi := range p.Questions {
		h.healOptions(ex, &p.Questions[qi], qi+1)
	}
}

// healOptions guarantees exactly OptionsPerQuestion options with exactly
// one marked correct (the 2nd is defaulted when none is marked).
func (h *Healer) healOptions(ex *Exercise, q *ChoiceQuestion, qNum int) {
	want := h.cfg.OptionsPerQuestion

	if len(q.Options) > want {
		// Keep the correct option inside the window before truncating.
		correct := -1
		for i, o := range q.Options {
			if o.Correct {
				correct = i
				break
			}
		}
		if correct >= want {
			q.Options[1], q.Options[correct] = q.Options[correct], q.Options[1]
		}
		q.Options = q.Options[:want]
		h.repair(ex, "options", fmt.Sprintf("question %d truncated to %d options", qNum, want))
	}

	for len(q.Options) < want {
		label := optionLabels[len(q.Options)]
		q.Options = append(q.Options, Option{
			Label: label,
			Text:  fmt.Sprintf("Option %s for question %d", label, qNum),
		})
		h.repair(ex, "options", fmt.Sprintf("question %d synthesized option %s", qNum, label))
	}

	for i := range q.Options {
		if q.Options[i].Label == "" {
			q.Options[i].Label = optionLabels[i]
			h.repair(ex, "options", fmt.Sprintf("question %d option %d relabeled", qNum, i+1))
		}
	}

	correctCount := 0
	for i := range q.Options {
		if q.Options[i].Correct {
			correctCount++
			if correctCount > 1 {
				q.Options[i].Correct = false
			}
		}
	}
	switch {
	case correctCount == 0:
		q.Options[1].Correct = true
		h.repair(ex, "options", fmt.Sprintf("question %d had no correct option; defaulted option %s", qNum, q.Options[1].Label))
	case correctCount > 1:
		h.repair(ex, "options", fmt.Sprintf("question %d had %d correct options; kept the first", qNum, correctCount))
	}
}

func (h *Healer) healFillInBlanks(ex *Exercise) {
	if ex.FillInBlanks == nil {
		ex.FillInBlanks = &FillInBlanksPayload{}
		h.repair(ex, "fill-in-blanks", "missing payload synthesized")
	}
	p := ex.FillInBlanks

	for n := len(p.Sentences) + 1; len(p.Sentences) < h.cfg.MinItems; n++ {
		p.Sentences = append(p.Sentences, GapSentence{
			Text:   fmt.Sprintf("This is sentence %d with a _____ to complete.", n),
			Answer: fmt.Sprintf("word%d", n),
		})
		h.repair(ex, "sentences", fmt.Sprintf("synthesized sentence %d", n))
	}

	// The word bank must be a superset of the answers.
	have := make(map[string]bool, len(p.WordBank))
	for _, w := range p.WordBank {
		have[strings.ToLower(w)] = true
	}
	for _, s := range p.Sentences {
		if s.Answer != "" && !have[strings.ToLower(s.Answer)] {
			p.WordBank = append(p.WordBank, s.Answer)
			have[strings.ToLower(s.Answer)] = true
			h.repair(ex, "word_bank", fmt.Sprintf("added missing answer %q", s.Answer))
		}
	}
	for n := len(p.WordBank) + 1; len(p.WordBank) < h.cfg.MinItems; n++ {
		filler := fmt.Sprintf("word%d", n)
		if have[filler] {
			continue
		}
		p.WordBank = append(p.WordBank, filler)
		have[filler] = true
		h.repair(ex, "word_bank", fmt.Sprintf("padded with %q", filler))
	}
}

func (h *Healer) healDialogue(ex *Exercise) {
	if ex.Dialogue == nil {
		ex.Dialogue = &DialoguePayload{}
		h.repair(ex, "dialogue", "missing payload synthesized")
	}
	p := ex.Dialogue

	for n := len(p.Lines) + 1; len(p.Lines) < h.cfg.MinItems; n++ {
		speaker := "Speaker A"
		if n%2 == 0 {
			speaker = "Speaker B"
		}
		p.Lines = append(p.Lines, DialogueLine{
			Speaker: speaker,
			Text:    fmt.Sprintf("Line %d of the dialogue.", n),
		})
		h.repair(ex, "dialogue", fmt.Sprintf("synthesized line %d", n))
	}

	for n := len(p.Expressions) + 1; len(p.Expressions) < h.cfg.MinItems; n++ {
		p.Expressions = append(p.Expressions, fmt.Sprintf("Expression %d", n))
		h.repair(ex, "expressions", fmt.Sprintf("synthesized expression %d", n))
	}

	if p.ExpressionInstruction == "" {
		p.ExpressionInstruction = "Practice the dialogue, then use each expression below in a sentence of your own."
		h.repair(ex, "expression_instruction", "empty instruction defaulted")
	}
}

func (h *Healer) healDiscussion(ex *Exercise) {
	if ex.Discussion == nil {
		ex.Discussion = &DiscussionPayload{}
		h.repair(ex, "discussion", "missing payload synthesized")
	}
	p := ex.Discussion

	for n := len(p.Questions) + 1; len(p.Questions) < h.cfg.MinItems; n++ {
		p.Questions = append(p.Questions, fmt.Sprintf("Discussion question %d?", n))
		h.repair(ex, "questions", fmt.Sprintf("synthesized question %d", n))
	}
}

func (h *Healer) healTrueFalse(ex *Exercise) {
	if ex.TrueFalse == nil {
		ex.TrueFalse = &TrueFalsePayload{}
		h.repair(ex, "true-false", "missing payload synthesized")
	}
	p := ex.TrueFalse

	for n := len(p.Statements) + 1; len(p.Statements) < h.cfg.MinItems; n++ {
		p.Statements = append(p.Statements, Statement{
			Text:   fmt.Sprintf("Statement %d.", n),
			IsTrue: n%2 == 0,
		})
		h.repair(ex, "statements", fmt.Sprintf("synthesized statement %d", n))
	}
}

func (h *Healer) healErrorCorrection(ex *Exercise) {
	if ex.ErrorCorrection == nil {
		ex.ErrorCorrection = &ErrorCorrectionPayload{}
		h.repair(ex, "error-correction", "missing payload synthesized")
	}
	p := ex.ErrorCorrection

	for n := len(p.Sentences) + 1; len(p.Sentences) < h.cfg.MinItems; n++ {
		p.Sentences = append(p.Sentences, CorrectionSentence{
			Text:       fmt.Sprintf("This is sentence %d with an error in it.", n),
			Correction: fmt.Sprintf("This is sentence %d without an error in it.", n),
		})
		h.repair(ex, "sentences", fmt.Sprintf("synthesized sentence %d", n))
	}
}

func (h *Healer) healSentences(ex *Exercise, p *SentencesPayload) *SentencesPayload {
	if p == nil {
		p = &SentencesPayload{}
		h.repair(ex, "sentences", "missing payload synthesized")
	}

	for n := len(p.Sentences) + 1; len(p.Sentences) < h.cfg.MinItems; n++ {
		p.Sentences = append(p.Sentences, AnswerSentence{
			Text:   fmt.Sprintf("This is sentence %d to transform.", n),
			Answer: fmt.Sprintf("Answer for sentence %d", n),
		})
		h.repair(ex, "sentences", fmt.Sprintf("synthesized sentence %d", n))
	}
	return p
}

// defaultInstructions returns a usable instruction line per type.
func defaultInstructions(t ExerciseType) string {
	switch t {
	case TypeReading:
		return "Read the text and answer the questions below."
	case TypeMatching:
		return "Match each term with the correct definition."
	case TypeMultipleChoice:
		return "Choose the best answer for each question."
	case TypeFillInBlanks:
		return "Complete each sentence with a word from the word bank."
	case TypeDialogue:
		return "Read the dialogue aloud with your teacher, then practice the expressions."
	case TypeDiscussion:
		return "Discuss the questions below with your teacher."
	case TypeTrueFalse:
		return "Decide whether each statement is true or false."
	case TypeErrorCorrection:
		return "Find and correct the error in each sentence."
	case TypeWordFormation:
		return "Complete each sentence with the correct form of the word."
	case TypeWordOrder:
		return "Put the words in the correct order to make a sentence."
	default:
		return "Complete the exercise below."
	}
}
