package constants

import (
	"strings"
)

// Mode selects the kind of study material generated from a document.
type Mode string

const (
	ModeSummary    Mode = "summary"
	ModeFlashcards Mode = "flashcards"
	ModeQuiz       Mode = "quiz"
)

var allModes = []Mode{
	ModeSummary,
	ModeFlashcards,
	ModeQuiz,
}

// Modes returns the accepted mode names in presentation order.
func Modes() []string {
	result := make([]string, len(allModes))
	for i, m := range allModes {
		result[i] = string(m)
	}
	return result
}

// ParseMode matches input against the known modes, ignoring case and
// surrounding whitespace. Unknown input returns false.
func ParseMode(input string) (Mode, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	for _, m := range allModes {
		if normalized == string(m) {
			return m, true
		}
	}
	return "", false
}
