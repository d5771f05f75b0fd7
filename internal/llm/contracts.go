package llm

import (
	"context"

	"github.com/Paranjay33/ai-notes-backend/constants"
)

// Flashcard is one question/answer pair in a generated study set.
type Flashcard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// QuizQuestion is one multiple-choice item. Answer always matches one of
// Options verbatim.
type QuizQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// Result is the validated study material for one document. Exactly one of
// Summary, Flashcards, Questions is populated, keyed by Mode, so the
// struct marshals straight into the response envelope.
type Result struct {
	Mode       constants.Mode `json:"-"`
	Summary    string         `json:"summary,omitempty"`
	Flashcards []Flashcard    `json:"flashcards,omitempty"`
	Questions  []QuizQuestion `json:"questions,omitempty"`
}

// Completer is the interface our pipeline depends on: one system message,
// one user message, raw text back.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
