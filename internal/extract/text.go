package extract

import (
	"strings"

	"github.com/Paranjay33/ai-notes-backend/constants"
)

// extractText decodes bytes as UTF-8, dropping invalid sequences. The
// lossy decode never fails; the document bytes are already in memory so
// no scratch file is needed.
func (e *Extractor) extractText(doc Document) Result {
	return Result{
		Text:       strings.ToValidUTF8(string(doc.Content), ""),
		Pages:      1,
		SourceType: string(constants.FormatText),
		Method:     "plain-text",
	}
}
