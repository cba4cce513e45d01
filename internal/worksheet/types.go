package worksheet

import (
	"encoding/json"
	"strings"
)

// ExerciseType identifies one of the ten fixed exercise kinds.
type ExerciseType string

const (
	TypeReading         ExerciseType = "reading"
	TypeMatching        ExerciseType = "matching"
	TypeMultipleChoice  ExerciseType = "multiple-choice"
	TypeFillInBlanks    ExerciseType = "fill-in-blanks"
	TypeDialogue        ExerciseType = "dialogue"
	TypeDiscussion      ExerciseType = "discussion"
	TypeTrueFalse       ExerciseType = "true-false"
	TypeErrorCorrection ExerciseType = "error-correction"
	TypeWordFormation   ExerciseType = "word-formation"
	TypeWordOrder       ExerciseType = "word-order"
)

// AllTypes is the full type vocabulary in canonical order.
var AllTypes = []ExerciseType{
	TypeReading,
	TypeMatching,
	TypeFillInBlanks,
	TypeMultipleChoice,
	TypeDialogue,
	TypeTrueFalse,
	TypeDiscussion,
	TypeErrorCorrection,
	TypeWordFormation,
	TypeWordOrder,
}

// DisplayName returns the human title fragment for an exercise type,
// e.g. "Fill in the Blanks" for fill-in-blanks.
func (t ExerciseType) DisplayName() string {
	switch t {
	case TypeReading:
		return "Reading"
	case TypeMatching:
		return "Matching"
	case TypeMultipleChoice:
		return "Multiple Choice"
	case TypeFillInBlanks:
		return "Fill in the Blanks"
	case TypeDialogue:
		return "Dialogue"
	case TypeDiscussion:
		return "Discussion"
	case TypeTrueFalse:
		return "True or False"
	case TypeErrorCorrection:
		return "Error Correction"
	case TypeWordFormation:
		return "Word Formation"
	case TypeWordOrder:
		return "Word Order"
	default:
		parts := strings.Split(string(t), "-")
		for i, p := range parts {
			if p != "" {
				parts[i] = strings.ToUpper(p[:1]) + p[1:]
			}
		}
		return strings.Join(parts, " ")
	}
}

// Known reports whether t is one of the ten supported types.
func (t ExerciseType) Known() bool {
	switch t {
	case TypeReading, TypeMatching, TypeMultipleChoice, TypeFillInBlanks,
		TypeDialogue, TypeDiscussion, TypeTrueFalse, TypeErrorCorrection,
		TypeWordFormation, TypeWordOrder:
		return true
	}
	return false
}

// Worksheet is the complete generated document. It is constructed fresh
// per generation request and not mutated after being returned.
type Worksheet struct {
	Title        string       `json:"title"`
	Subtitle     string       `json:"subtitle"`
	Introduction string       `json:"introduction"`
	Exercises    []Exercise   `json:"exercises"`
	Vocabulary   []VocabEntry `json:"vocabulary_sheet"`

	// SourceCount is a cosmetic "reviewed sources" figure attached by the
	// finalizer for UI flavor. Not a real metric.
	SourceCount int `json:"sourceCount,omitempty"`
}

// VocabEntry is one row of the vocabulary sheet.
type VocabEntry struct {
	Term    string `json:"term"`
	Meaning string `json:"meaning"`
}

// Exercise is a tagged union keyed by Type. Exactly one payload pointer
// is non-nil for a well-formed exercise; the JSON representation inlines
// the payload fields next to the common ones.
type Exercise struct {
	Type         ExerciseType
	Title        string
	Icon         string
	Time         int // minutes
	Instructions string
	TeacherTip   string

	Reading         *ReadingPayload
	Matching        *MatchingPayload
	MultipleChoice  *MultipleChoicePayload
	FillInBlanks    *FillInBlanksPayload
	Dialogue        *DialoguePayload
	Discussion      *DiscussionPayload
	TrueFalse       *TrueFalsePayload
	ErrorCorrection *ErrorCorrectionPayload
	WordFormation   *SentencesPayload
	WordOrder       *SentencesPayload
}

// ReadingPayload is a passage with comprehension questions.
type ReadingPayload struct {
	Content   string            `json:"content"`
	Questions []ReadingQuestion `json:"questions"`
}

// ReadingQuestion is one comprehension question with its expected answer.
type ReadingQuestion struct {
	Text   string `json:"text"`
	Answer string `json:"answer"`
}

// MatchingPayload pairs terms with definitions.
type MatchingPayload struct {
	Items []MatchingItem `json:"items"`
}

// MatchingItem is one term/definition pair.
type MatchingItem struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// MultipleChoicePayload holds questions with exactly four labeled options.
type MultipleChoicePayload struct {
	Questions []ChoiceQuestion `json:"questions"`
}

// ChoiceQuestion is one multiple-choice question.
type ChoiceQuestion struct {
	Text    string   `json:"text"`
	Options []Option `json:"options"`
}

// Option is one answer option; exactly one per question carries Correct.
type Option struct {
	Label   string `json:"label"`
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// FillInBlanksPayload holds gap sentences plus a word bank that is a
// superset of the answers.
type FillInBlanksPayload struct {
	Sentences []GapSentence `json:"sentences"`
	WordBank  []string      `json:"word_bank"`
}

// GapSentence is one sentence with a blank and its answer.
type GapSentence struct {
	Text   string `json:"text"`
	Answer string `json:"answer"`
}

// DialoguePayload is a scripted conversation with target expressions.
type DialoguePayload struct {
	Lines                 []DialogueLine `json:"dialogue"`
	Expressions           []string       `json:"expressions"`
	ExpressionInstruction string         `json:"expression_instruction"`
}

// DialogueLine is one speaker turn.
type DialogueLine struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// DiscussionPayload is a list of open discussion questions.
type DiscussionPayload struct {
	Questions []string `json:"questions"`
}

// TrueFalsePayload holds statements to judge.
type TrueFalsePayload struct {
	Statements []Statement `json:"statements"`
}

// Statement is one true/false statement.
type Statement struct {
	Text   string `json:"text"`
	IsTrue bool   `json:"isTrue"`
}

// ErrorCorrectionPayload holds sentences with deliberate errors.
type ErrorCorrectionPayload struct {
	Sentences []CorrectionSentence `json:"sentences"`
}

// CorrectionSentence is one broken sentence with its corrected form.
type CorrectionSentence struct {
	Text       string `json:"text"`
	Correction string `json:"correction"`
}

// SentencesPayload holds text/answer sentence pairs, shared by the
// word-formation and word-order types.
type SentencesPayload struct {
	Sentences []AnswerSentence `json:"sentences"`
}

// AnswerSentence is one prompt sentence with its expected answer.
type AnswerSentence struct {
	Text   string `json:"text"`
	Answer string `json:"answer"`
}

// exerciseWire is the inline JSON shape shared by all exercise types.
// Fields whose element shape varies by type stay raw until dispatch.
type exerciseWire struct {
	Type         string `json:"type"`
	Title        string `json:"title"`
	Icon         string `json:"icon,omitempty"`
	Time         int    `json:"time"`
	Instructions string `json:"instructions"`
	TeacherTip   string `json:"teacher_tip"`

	Content               string          `json:"content,omitempty"`
	Questions             json.RawMessage `json:"questions,omitempty"`
	Items                 json.RawMessage `json:"items,omitempty"`
	Sentences             json.RawMessage `json:"sentences,omitempty"`
	WordBank              []string        `json:"word_bank,omitempty"`
	Dialogue              json.RawMessage `json:"dialogue,omitempty"`
	Expressions           []string        `json:"expressions,omitempty"`
	ExpressionInstruction string          `json:"expression_instruction,omitempty"`
	Statements            json.RawMessage `json:"statements,omitempty"`
}

// UnmarshalJSON decodes the inline wire shape into the tagged union.
// Payload fields that fail to decode are dropped rather than failing the
// whole document; structural healing restores the minimums afterwards.
func (e *Exercise) UnmarshalJSON(b []byte) error {
	var w exerciseWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	*e = Exercise{
		Type:         ExerciseType(w.Type),
		Title:        w.Title,
		Icon:         w.Icon,
		Time:         w.Time,
		Instructions: w.Instructions,
		TeacherTip:   w.TeacherTip,
	}

	switch e.Type {
	case TypeReading:
		p := &ReadingPayload{Content: w.Content}
		tryUnmarshal(w.Questions, &p.Questions)
		e.Reading = p
	case TypeMatching:
		p := &MatchingPayload{}
		tryUnmarshal(w.Items, &p.Items)
		e.Matching = p
	case TypeMultipleChoice:
		p := &MultipleChoicePayload{}
		tryUnmarshal(w.Questions, &p.Questions)
		e.MultipleChoice = p
	case TypeFillInBlanks:
		p := &FillInBlanksPayload{WordBank: w.WordBank}
		tryUnmarshal(w.Sentences, &p.Sentences)
		e.FillInBlanks = p
	case TypeDialogue:
		p := &DialoguePayload{
			Expressions:           w.Expressions,
			ExpressionInstruction: w.ExpressionInstruction,
		}
		tryUnmarshal(w.Dialogue, &p.Lines)
		e.Dialogue = p
	case TypeDiscussion:
		p := &DiscussionPayload{}
		tryUnmarshal(w.Questions, &p.Questions)
		e.Discussion = p
	case TypeTrueFalse:
		p := &TrueFalsePayload{}
		tryUnmarshal(w.Statements, &p.Statements)
		e.TrueFalse = p
	case TypeErrorCorrection:
		p := &ErrorCorrectionPayload{}
		tryUnmarshal(w.Sentences, &p.Sentences)
		e.ErrorCorrection = p
	case TypeWordFormation:
		p := &SentencesPayload{}
		tryUnmarshal(w.Sentences, &p.Sentences)
		e.WordFormation = p
	case TypeWordOrder:
		p := &SentencesPayload{}
		tryUnmarshal(w.Sentences, &p.Sentences)
		e.WordOrder = p
	}

	return nil
}

// MarshalJSON flattens the typed payload back into the inline wire shape.
func (e Exercise) MarshalJSON() ([]byte, error) {
	w := exerciseWire{
		Type:         string(e.Type),
		Title:        e.Title,
		Icon:         e.Icon,
		Time:         e.Time,
		Instructions: e.Instructions,
		TeacherTip:   e.TeacherTip,
	}

	var err error
	switch {
	case e.Reading != nil:
		w.Content = e.Reading.Content
		w.Questions, err = json.Marshal(e.Reading.Questions)
	case e.Matching != nil:
		w.Items, err = json.Marshal(e.Matching.Items)
	case e.MultipleChoice != nil:
		w.Questions, err = json.Marshal(e.MultipleChoice.Questions)
	case e.FillInBlanks != nil:
		w.WordBank = e.FillInBlanks.WordBank
		w.Sentences, err = json.Marshal(e.FillInBlanks.Sentences)
	case e.Dialogue != nil:
		w.Expressions = e.Dialogue.Expressions
		w.ExpressionInstruction = e.Dialogue.ExpressionInstruction
		w.Dialogue, err = json.Marshal(e.Dialogue.Lines)
	case e.Discussion != nil:
		w.Questions, err = json.Marshal(e.Discussion.Questions)
	case e.TrueFalse != nil:
		w.Statements, err = json.Marshal(e.TrueFalse.Statements)
	case e.ErrorCorrection != nil:
		w.Sentences, err = json.Marshal(e.ErrorCorrection.Sentences)
	case e.WordFormation != nil:
		w.Sentences, err = json.Marshal(e.WordFormation.Sentences)
	case e.WordOrder != nil:
		w.Sentences, err = json.Marshal(e.WordOrder.Sentences)
	}
	if err != nil {
		return nil, err
	}

	return json.Marshal(w)
}

func tryUnmarshal(raw json.RawMessage, dst any) {
	if len(raw) == 0 {
		return
	}
	// Malformed payloads are tolerated; healing synthesizes what's missing.
	_ = json.Unmarshal(raw, dst)
}
