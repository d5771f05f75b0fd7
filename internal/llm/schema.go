package llm

// StudySetSize is the item count every flashcard and quiz response must
// carry, mirrored in the prompt templates.
const StudySetSize = 5

// QuizOptionCount fixes multiple-choice questions at four options.
const QuizOptionCount = 4

// BuildFlashcardsJSONSchema returns a JSON-Schema (draft 2020-12 subset)
// as a generic map: an array of exactly StudySetSize question/answer
// objects with no extra keys.
func BuildFlashcardsJSONSchema() map[string]any {
	return map[string]any{
		"type":     "array",
		"minItems": StudySetSize,
		"maxItems": StudySetSize,
		"items": map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"question": map[string]any{"type": "string", "minLength": 1},
				"answer":   map[string]any{"type": "string", "minLength": 1},
			},
			"required": []string{"question", "answer"},
		},
	}
}

// BuildQuizJSONSchema returns the quiz shape: an array of exactly
// StudySetSize items, each with a question, QuizOptionCount options, and
// an answer. The answer-matches-an-option rule cannot be expressed here
// and is checked after unmarshalling.
func BuildQuizJSONSchema() map[string]any {
	return map[string]any{
		"type":     "array",
		"minItems": StudySetSize,
		"maxItems": StudySetSize,
		"items": map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"question": map[string]any{"type": "string", "minLength": 1},
				"options": map[string]any{
					"type":     "array",
					"minItems": QuizOptionCount,
					"maxItems": QuizOptionCount,
					"items":    map[string]any{"type": "string", "minLength": 1},
				},
				"answer": map[string]any{"type": "string", "minLength": 1},
			},
			"required": []string{"question", "options", "answer"},
		},
	}
}
