package worksheet

import (
	"fmt"
	"strings"
)

// PromptStrength selects how forcefully the system prompt bans
// placeholder content. Escalates across repair passes.
type PromptStrength int

const (
	// StrengthInitial is the first-attempt prompt.
	StrengthInitial PromptStrength = iota

	// StrengthAmplified is used when a whole worksheet is regenerated
	// after excessive template content.
	StrengthAmplified

	// StrengthEnhanced is used for the second selective regeneration
	// pass, emphasizing authenticity even more strongly.
	StrengthEnhanced
)

// CountForPrompt derives the exercise count from the lesson duration
// mentioned in the prompt text: "30 min" → 4, "45 min" → 6, "60 min" → 8.
// Defaults to 6 when no duration is found.
func CountForPrompt(prompt string) int {
	switch {
	case strings.Contains(prompt, "30 min"):
		return 4
	case strings.Contains(prompt, "45 min"):
		return 6
	case strings.Contains(prompt, "60 min"):
		return 8
	default:
		return 6
	}
}

// TypesForCount returns the ordered exercise type sequence for a count.
// Exercise 1 is always reading; the rest follow the canonical order.
func TypesForCount(count int) []ExerciseType {
	if count > len(AllTypes) {
		count = len(AllTypes)
	}
	if count < 1 {
		count = 1
	}
	out := make([]ExerciseType, count)
	copy(out, AllTypes[:count])
	return out
}

// MissingTypes returns the requested types not yet present in the
// worksheet, preserving the requested order.
func MissingTypes(requested []ExerciseType, ws *Worksheet) []ExerciseType {
	present := make(map[ExerciseType]int)
	for _, ex := range ws.Exercises {
		present[ex.Type]++
	}
	var missing []ExerciseType
	for _, t := range requested {
		if present[t] > 0 {
			present[t]--
			continue
		}
		missing = append(missing, t)
	}
	return missing
}

// typeRequirement states the minimum payload size for a type, for the
// system prompt.
func typeRequirement(t ExerciseType, cfg Config) string {
	switch t {
	case TypeReading:
		return fmt.Sprintf("reading: a %d-%d word passage with at least %d comprehension questions (text + answer)",
			cfg.ReadingWordMin, cfg.ReadingWordMax, cfg.MinReadingQuestions)
	case TypeMatching:
		return fmt.Sprintf("matching: at least %d term/definition pairs", cfg.MinItems)
	case TypeMultipleChoice:
		return fmt.Sprintf("multiple-choice: at least %d questions, each with exactly %d options (labels A-D) and exactly one marked correct",
			cfg.MinItems, cfg.OptionsPerQuestion)
	case TypeFillInBlanks:
		return fmt.Sprintf("fill-in-blanks: at least %d gap sentences plus a word_bank of at least %d words covering every answer",
			cfg.MinItems, cfg.MinItems)
	case TypeDialogue:
		return fmt.Sprintf("dialogue: at least %d lines between named characters, at least %d useful expressions, and an expression_instruction",
			cfg.MinItems, cfg.MinItems)
	case TypeDiscussion:
		return fmt.Sprintf("discussion: at least %d open questions", cfg.MinItems)
	case TypeTrueFalse:
		return fmt.Sprintf("true-false: at least %d statements with isTrue set", cfg.MinItems)
	case TypeErrorCorrection:
		return fmt.Sprintf("error-correction: at least %d sentences, each with its correction", cfg.MinItems)
	case TypeWordFormation:
		return fmt.Sprintf("word-formation: at least %d sentences, each with its answer", cfg.MinItems)
	case TypeWordOrder:
		return fmt.Sprintf("word-order: at least %d scrambled sentences, each with the answer in correct order", cfg.MinItems)
	default:
		return string(t)
	}
}

// worksheetSystemPrompt builds the fixed system instruction for a full
// worksheet generation call.
func worksheetSystemPrompt(count int, types []ExerciseType, cfg Config, strength PromptStrength) string {
	var b strings.Builder

	b.WriteString("You are an experienced ESL teacher creating a complete English lesson worksheet for an adult student.\n\n")
	b.WriteString("Return a single JSON object with: title, subtitle, introduction, exercises (array), vocabulary_sheet (array of {term, meaning}, at least 10 entries).\n\n")

	fmt.Fprintf(&b, "The worksheet must contain EXACTLY %d exercises, in this order by type:\n", count)
	for i, t := range types {
		fmt.Fprintf(&b, "%d. %s\n", i+1, t)
	}

	b.WriteString("\nEach exercise carries: type, title, time (minutes), instructions, teacher_tip, and its type-specific content:\n")
	for _, t := range types {
		b.WriteString("- ")
		b.WriteString(typeRequirement(t, cfg))
		b.WriteString("\n")
	}

	b.WriteString("\nAll content must be specific to the student's topic and realistic. ")
	b.WriteString("Never produce numbered filler like \"Term 1\", \"This is sentence 3\", \"Speaker A\", or \"Option B for question 2\". ")
	b.WriteString("Use real names, real vocabulary, and complete sentences throughout.")

	switch strength {
	case StrengthAmplified:
		b.WriteString("\n\nIMPORTANT: the previous attempt contained template placeholder content. ")
		b.WriteString("DO NOT use template content, numbered placeholders, or generic filler ANYWHERE in the worksheet. ")
		b.WriteString("Every sentence, term, question, option, and dialogue line must be authentic, topic-specific material a teacher could hand out unchanged.")
	case StrengthEnhanced:
		b.WriteString("\n\nCRITICAL: write as if this will be printed and used in a real classroom tomorrow. ")
		b.WriteString("Invent concrete people, places, and situations. ")
		b.WriteString("Any generic or numbered placeholder makes the worksheet unusable.")
	}

	return b.String()
}

// exerciseSystemPrompt builds the system instruction for regenerating a
// single exercise of the given type.
func exerciseSystemPrompt(t ExerciseType, cfg Config, strength PromptStrength) string {
	var b strings.Builder

	b.WriteString("You are an experienced ESL teacher writing one exercise for an English lesson worksheet.\n\n")
	fmt.Fprintf(&b, "Return a single JSON object for one %q exercise with: type, title, time (minutes), instructions, teacher_tip, and its content:\n", t)
	b.WriteString("- ")
	b.WriteString(typeRequirement(t, cfg))
	b.WriteString("\n")

	b.WriteString("\nThe exercise must be specific to the student's topic. ")
	b.WriteString("Never produce numbered filler like \"Term 1\", \"This is sentence 3\", \"Speaker A\", or \"Option B for question 2\".")

	if strength == StrengthEnhanced {
		b.WriteString("\n\nCRITICAL: the previous version of this exercise contained placeholder content. ")
		b.WriteString("Write completely authentic material: concrete names, real situations, natural sentences a teacher could use tomorrow without edits.")
	}

	return b.String()
}

// topUpSystemPrompt asks for additional exercises covering types missing
// from an undersized worksheet.
func topUpSystemPrompt(types []ExerciseType, cfg Config) string {
	var b strings.Builder

	b.WriteString("You are an experienced ESL teacher extending an English lesson worksheet.\n\n")
	fmt.Fprintf(&b, "Return a single JSON object with an \"exercises\" array containing EXACTLY %d exercises, one of each type in this order:\n", len(types))
	for i, t := range types {
		fmt.Fprintf(&b, "%d. %s\n", i+1, t)
	}

	b.WriteString("\nRequirements per type:\n")
	for _, t := range types {
		b.WriteString("- ")
		b.WriteString(typeRequirement(t, cfg))
		b.WriteString("\n")
	}

	b.WriteString("\nAll content must match the student's topic; no numbered placeholders or generic filler.")

	return b.String()
}
