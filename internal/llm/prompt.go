package llm

import (
	"fmt"
	"strings"

	"github.com/priyamverma/studyscout/internal/profile"
)

func clipText(text string, limit int) string {
	text = strings.TrimSpace(text)
	if limit <= 0 || len(text) <= limit {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

// clipHistory drops oldest turns until the summed text fits the budget, so
// a long conversation cannot grow the request without bound.
func clipHistory(history []Turn, limit int) []Turn {
	if limit <= 0 {
		return history
	}
	total := 0
	for i := len(history) - 1; i >= 0; i-- {
		total += len(history[i].Text)
		if total > limit {
			return history[i+1:]
		}
	}
	return history
}

func learnerLine(learner profile.Profile) string {
	parts := []string{}
	if name := strings.TrimSpace(learner.Name); name != "" {
		parts = append(parts, "named "+name)
	}
	if grade := strings.TrimSpace(learner.Grade); grade != "" {
		parts = append(parts, "in grade "+grade)
	}
	if exam := strings.TrimSpace(learner.TargetExam); exam != "" {
		parts = append(parts, "preparing for "+exam)
	}
	if len(parts) == 0 {
		return "a student"
	}
	return "a student " + strings.Join(parts, ", ")
}

func buildNotesPrompt(learner profile.Profile, topic, documentText string) string {
	var b strings.Builder
	b.WriteString("You are an expert tutor writing study notes for ")
	b.WriteString(learnerLine(learner))
	b.WriteString(".\n")
	b.WriteString("Produce clear, exam-oriented notes on the topic using only this markdown subset: ")
	b.WriteString("# / ## / ### headers, **bold** key terms, and - bullet lists. ")
	b.WriteString("Start with a # header naming the topic, keep paragraphs short, and end with a '## Quick Revision' bullet list.\n\n")
	b.WriteString("Topic: " + topic + "\n")
	if snippet := clipText(documentText, maxNotesContextChars); snippet != "" {
		b.WriteString("\nBase the notes on this supplied material where relevant:\n")
		b.WriteString(snippet)
		b.WriteRune('\n')
	}
	return b.String()
}

func buildMindMapPrompt(learner profile.Profile, topic string) string {
	return fmt.Sprintf(
		"You are an expert tutor building a concept mind map for %s.\n"+
			"Break the topic into a hierarchy of sub-concepts, 2-4 levels deep, with short node names (<=6 words).\n"+
			"Return ONLY JSON matching: {\"name\":\"\",\"children\":[{\"name\":\"\",\"children\":[]}]} with the topic as the root node.\n\n"+
			"Topic: %s", learnerLine(learner), topic,
	)
}

func buildLearningPathPrompt(learner profile.Profile, topic string) string {
	return fmt.Sprintf(
		"You are an expert tutor planning a study path for %s.\n"+
			"Design 4-7 ordered steps that take the student from fundamentals to exam readiness on the topic.\n"+
			"Each step needs: title (<=10 words), description (2-3 sentences), estimatedTime (eg. \"2 days\"), and keyConcepts (3-5 short phrases).\n"+
			"Return ONLY JSON matching: {\"topic\":\"\",\"steps\":[{\"title\":\"\",\"description\":\"\",\"estimatedTime\":\"\",\"keyConcepts\":[\"\"]}]}.\n\n"+
			"Topic: %s", learnerLine(learner), topic,
	)
}

func buildChatSystemPrompt(learner profile.Profile) string {
	return fmt.Sprintf(
		"You are a patient, encouraging tutor helping %s. "+
			"Answer in plain prose with the occasional **bold** key term and - bullet list; explain reasoning step by step and "+
			"finish with a short check-in question when it helps the student.", learnerLine(learner),
	)
}

// buildChatTranscript flattens prior turns for backends without a native
// multi-turn request shape. Oldest turns are dropped first when clipping.
func buildChatTranscript(history []Turn, limit int) string {
	if len(history) == 0 {
		return ""
	}
	lines := make([]string, 0, len(history))
	for _, turn := range history {
		label := "Student"
		if turn.Role == RoleModel {
			label = "Tutor"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", label, strings.TrimSpace(turn.Text)))
	}
	transcript := strings.Join(lines, "\n")
	if limit > 0 && len(transcript) > limit {
		transcript = transcript[len(transcript)-limit:]
		if idx := strings.Index(transcript, "\n"); idx >= 0 {
			transcript = transcript[idx+1:]
		}
	}
	return transcript
}
