// Package deck loads word lists from xlsx, csv and plain text files.
package deck

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/eslsoft/vocdrill/internal/entity"
)

// Column layout for tabular formats: word, definition, part of speech,
// phonetic, example. Only the first two are required.
const (
	colWord = iota
	colDefinition
	colPos
	colPhonetic
	colExample
)

// Load reads a deck file, picking the parser from the file extension.
// Plain text files carry one word per line with an optional definition
// after a tab or " - " separator.
func Load(path string) ([]*entity.Word, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return loadExcel(path)
	case ".csv":
		return loadCSV(path)
	default:
		return loadText(path)
	}
}

func loadExcel(path string) ([]*entity.Word, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	var words []*entity.Word
	for i, row := range rows {
		if i == 0 && looksLikeHeader(row) {
			continue
		}
		if w := wordFromRow(row); w != nil {
			words = append(words, w)
		}
	}
	return words, nil
}

func loadCSV(path string) ([]*entity.Word, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open csv file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var words []*entity.Word
	first := true
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		if first {
			first = false
			if looksLikeHeader(row) {
				continue
			}
		}
		if w := wordFromRow(row); w != nil {
			words = append(words, w)
		}
	}
	return words, nil
}

func loadText(path string) ([]*entity.Word, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open word list: %w", err)
	}

	var words []*entity.Word
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		text, definition := line, ""
		if idx := strings.IndexAny(line, "\t"); idx >= 0 {
			text, definition = line[:idx], strings.TrimSpace(line[idx+1:])
		} else if idx := strings.Index(line, " - "); idx >= 0 {
			text, definition = line[:idx], strings.TrimSpace(line[idx+3:])
		}
		w := &entity.Word{Text: strings.TrimSpace(text)}
		if definition != "" {
			w.Definitions = []entity.WordDefinition{{Text: definition}}
		}
		words = append(words, w)
	}
	return words, nil
}

func wordFromRow(row []string) *entity.Word {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	text := cell(colWord)
	if text == "" {
		return nil
	}
	w := &entity.Word{
		Text:     text,
		Phonetic: cell(colPhonetic),
	}
	if def := cell(colDefinition); def != "" {
		w.Definitions = []entity.WordDefinition{{Pos: cell(colPos), Text: def}}
	}
	if example := cell(colExample); example != "" {
		w.Examples = []string{example}
	}
	if pos := cell(colPos); pos != "" {
		w.Tags = []string{pos}
	}
	return w
}

func looksLikeHeader(row []string) bool {
	if len(row) == 0 {
		return false
	}
	head := strings.ToLower(strings.TrimSpace(row[0]))
	return head == "word" || head == "text" || head == "term"
}
