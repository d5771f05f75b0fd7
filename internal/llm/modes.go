package llm

import (
	"github.com/Paranjay33/ai-notes-backend/constants"
	"github.com/Paranjay33/ai-notes-backend/internal/common"
)

// Shape declares the response structure a mode demands from the model.
type Shape string

const (
	ShapeFreeText   Shape = "free_text"
	ShapeFlashcards Shape = "flashcard_list"
	ShapeQuiz       Shape = "quiz_list"
)

// SystemPrompt is the system role shared by every mode.
const SystemPrompt = "You are a helpful study assistant."

// ModeSpec bundles what the pipeline needs to run one mode: the prompt
// builder, the system role, and the shape the validator enforces.
type ModeSpec struct {
	Mode        constants.Mode
	Shape       Shape
	System      string
	BuildPrompt func(text string) string
}

// Resolve maps a raw mode string to its spec. Unknown input fails with the
// invalid-mode classification, so callers reject bad requests before any
// completion is attempted. The switch is total over the mode enum.
func Resolve(input string) (ModeSpec, error) {
	mode, ok := constants.ParseMode(input)
	if !ok {
		return ModeSpec{}, common.NewInvalidMode(input)
	}
	switch mode {
	case constants.ModeSummary:
		return ModeSpec{Mode: mode, Shape: ShapeFreeText, System: SystemPrompt, BuildPrompt: BuildSummaryPrompt}, nil
	case constants.ModeFlashcards:
		return ModeSpec{Mode: mode, Shape: ShapeFlashcards, System: SystemPrompt, BuildPrompt: BuildFlashcardsPrompt}, nil
	case constants.ModeQuiz:
		return ModeSpec{Mode: mode, Shape: ShapeQuiz, System: SystemPrompt, BuildPrompt: BuildQuizPrompt}, nil
	}
	return ModeSpec{}, common.NewInvalidMode(input)
}
