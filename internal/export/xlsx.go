package export

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Paranjay33/ai-notes-backend/constants"
	"github.com/Paranjay33/ai-notes-backend/internal/llm"
)

// Service renders validated study material into XLSX workbooks.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// StudySetXLSX returns an XLSX workbook (as bytes) for one result.
// Flashcards and quizzes get a tabular sheet; summaries a notes column.
func (s *Service) StudySetXLSX(result llm.Result) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	var sheet string
	var rows int
	var err error
	switch result.Mode {
	case constants.ModeFlashcards:
		sheet, rows, err = writeFlashcards(f, result.Flashcards)
	case constants.ModeQuiz:
		sheet, rows, err = writeQuiz(f, result.Questions)
	default:
		sheet, rows, err = writeSummary(f, result.Summary)
	}
	if err != nil {
		return nil, err
	}

	if index, idxErr := f.GetSheetIndex(sheet); idxErr == nil && index >= 0 {
		f.SetActiveSheet(index)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"mode", string(result.Mode),
		"rows", rows,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func writeFlashcards(f *excelize.File, cards []llm.Flashcard) (string, int, error) {
	const sheet = "Flashcards"
	if err := newSheet(f, sheet, []string{"#", "Question", "Answer"}); err != nil {
		return sheet, 0, err
	}
	for i, c := range cards {
		row := i + 2
		write(f, sheet, 1, row, i+1)
		write(f, sheet, 2, row, c.Question)
		write(f, sheet, 3, row, c.Answer)
	}
	_ = f.SetColWidth(sheet, "A", "A", 5)
	_ = f.SetColWidth(sheet, "B", "B", 60)
	_ = f.SetColWidth(sheet, "C", "C", 60)
	return sheet, len(cards), nil
}

func writeQuiz(f *excelize.File, questions []llm.QuizQuestion) (string, int, error) {
	const sheet = "Quiz"
	headers := []string{"#", "Question", "Option A", "Option B", "Option C", "Option D", "Answer"}
	if err := newSheet(f, sheet, headers); err != nil {
		return sheet, 0, err
	}
	for i, q := range questions {
		row := i + 2
		write(f, sheet, 1, row, i+1)
		write(f, sheet, 2, row, q.Question)
		for j, opt := range q.Options {
			if j >= llm.QuizOptionCount {
				break
			}
			write(f, sheet, 3+j, row, opt)
		}
		write(f, sheet, 7, row, q.Answer)
	}
	_ = f.SetColWidth(sheet, "A", "A", 5)
	_ = f.SetColWidth(sheet, "B", "B", 60)
	_ = f.SetColWidth(sheet, "C", "F", 30)
	_ = f.SetColWidth(sheet, "G", "G", 30)
	return sheet, len(questions), nil
}

func writeSummary(f *excelize.File, summary string) (string, int, error) {
	const sheet = "Summary"
	if err := newSheet(f, sheet, []string{"Notes"}); err != nil {
		return sheet, 0, err
	}
	lines := strings.Split(summary, "\n")
	row := 2
	for _, line := range lines {
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		write(f, sheet, 1, row, line)
		row++
	}
	_ = f.SetColWidth(sheet, "A", "A", 100)
	return sheet, row - 2, nil
}

func newSheet(f *excelize.File, sheet string, headers []string) error {
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	return nil
}

func write(f *excelize.File, sheet string, col, row int, v any) {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	_ = f.SetCellValue(sheet, cell, v)
}
