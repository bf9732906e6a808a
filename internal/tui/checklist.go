package tui

import (
	"fmt"
	"strings"

	"github.com/priyamverma/studyscout/internal/profile"
)

// checklistStep is one entry of the dashboard study routine.
type checklistStep struct {
	Title       string
	Description string
}

// buildChecklist returns a short study routine personalized from the
// learner profile.
func buildChecklist(learner profile.Profile) []checklistStep {
	exam := strings.TrimSpace(learner.TargetExam)
	if exam == "" {
		exam = "your exam"
	}

	return []checklistStep{
		{
			Title:       "Map the territory",
			Description: fmt.Sprintf("Generate a mind map for today's topic to see how its concepts hang together before you read anything in depth for %s.", exam),
		},
		{
			Title:       "Build the notes",
			Description: "Generate study notes for the topic, then read them once end to end. Flag any section you couldn't explain to a classmate.",
		},
		{
			Title:       "Plan the climb",
			Description: fmt.Sprintf("Generate a learning path when a topic feels too big; work the steps in order and hold yourself to each estimated time while preparing for %s.", exam),
		},
		{
			Title:       "Interrogate the tutor",
			Description: "Take the flagged sections to the chat tutor. Ask why, not just what, and keep going until the explanation survives your follow-up questions.",
		},
	}
}
