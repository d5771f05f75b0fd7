package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Paranjay33/ai-notes-backend/internal/common"
)

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

// Validate checks a raw completion against the shape its mode demands and
// returns the typed result. Validation is all-or-nothing: nothing is
// repaired or salvaged, and a single violation rejects the whole
// response. Pure, so re-validating the same input gives the same outcome.
func Validate(raw string, spec ModeSpec) (Result, error) {
	switch spec.Shape {
	case ShapeFreeText:
		summary := strings.TrimSpace(raw)
		if summary == "" {
			return Result{}, common.NewMalformedResponse("empty completion", nil)
		}
		return Result{Mode: spec.Mode, Summary: summary}, nil

	case ShapeFlashcards:
		data := []byte(raw)
		if err := ValidateJSONAgainstSchema(BuildFlashcardsJSONSchema(), data); err != nil {
			return Result{}, common.NewMalformedResponse("flashcards response rejected", err)
		}
		var cards []Flashcard
		if err := json.Unmarshal(data, &cards); err != nil {
			return Result{}, common.NewMalformedResponse("flashcards response rejected", err)
		}
		return Result{Mode: spec.Mode, Flashcards: cards}, nil

	case ShapeQuiz:
		data := []byte(raw)
		if err := ValidateJSONAgainstSchema(BuildQuizJSONSchema(), data); err != nil {
			return Result{}, common.NewMalformedResponse("quiz response rejected", err)
		}
		var questions []QuizQuestion
		if err := json.Unmarshal(data, &questions); err != nil {
			return Result{}, common.NewMalformedResponse("quiz response rejected", err)
		}
		for i, q := range questions {
			if !slices.Contains(q.Options, q.Answer) {
				return Result{}, common.NewMalformedResponse(
					fmt.Sprintf("question %d: answer %q does not match any option", i+1, q.Answer), nil)
			}
		}
		return Result{Mode: spec.Mode, Questions: questions}, nil
	}
	return Result{}, common.NewInternal(fmt.Sprintf("unknown response shape %q", spec.Shape), nil)
}
