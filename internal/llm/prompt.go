package llm

// Prompt builders, one per mode. Each JSON-producing template names the
// exact array shape and item count so the validator can be strict about
// what comes back.

func BuildSummaryPrompt(text string) string {
	return "Summarize the following notes in concise bullet points:\n\n" + text
}

func BuildFlashcardsPrompt(text string) string {
	return `Generate exactly 5 Q&A flashcards from the notes below. ` +
		`Return ONLY a JSON array with no surrounding prose: ` +
		`[{"question": "...", "answer": "..."}, ...]` +
		"\n\n" + text
}

func BuildQuizPrompt(text string) string {
	return `Create exactly 5 multiple-choice questions (4 options each, A-D) from these notes. ` +
		`Return ONLY a JSON array with no surrounding prose: ` +
		`[{"question": "...", "options": ["A", "B", "C", "D"], "answer": "B"}, ...]. ` +
		`Each answer must exactly match one of its options.` +
		"\n\n" + text
}
