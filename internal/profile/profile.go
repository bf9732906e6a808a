package profile

import "strings"

// Profile holds the learner identity collected during onboarding.
type Profile struct {
	Name       string `json:"name"`
	Grade      string `json:"grade"`
	TargetExam string `json:"targetExam"`
	Onboarded  bool   `json:"onboarded"`
}

// DisplayName returns a non-empty name for greetings and prompts.
func (p Profile) DisplayName() string {
	if name := strings.TrimSpace(p.Name); name != "" {
		return name
	}
	return "there"
}

// Theme is the persisted UI theme preference.
type Theme string

const (
	ThemeMidnight Theme = "midnight"
	ThemeDaylight Theme = "daylight"
)

// NormalizeTheme maps unknown stored values back to the default theme.
func NormalizeTheme(value string) Theme {
	switch Theme(strings.TrimSpace(strings.ToLower(value))) {
	case ThemeDaylight:
		return ThemeDaylight
	default:
		return ThemeMidnight
	}
}
