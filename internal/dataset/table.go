// Package dataset loads the tabular input resource into raw rows.
//
// A dataset is a header row followed by data rows. Column order and extra
// columns are unconstrained; roles are detected later by name.
package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mahabbalab/mahabba-server/internal/domain"
)

// ErrNoHeader is returned when the resource contains no header row.
var ErrNoHeader = errors.New("no header row")

// Table is a loaded dataset.
type Table struct {
	Source  string          // Path or URL the table was read from
	Headers []string        // Trimmed header names, in file order
	Rows    []domain.RawRow // Non-blank data rows, in file order
}

var utf8BOM = []byte("\xef\xbb\xbf")

// candidate delimiters, in tie-break order.
var delimiters = []rune{',', ';', '\t', '|'}

// Parse reads delimited text. The delimiter is sniffed from the header line.
func Parse(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = sniffDelimiter(firstLine(data))
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse delimited text: %w", err)
	}

	return fromRecords(records)
}

// fromRecords turns string records into a Table. Leading blank lines are
// skipped before the header.
func fromRecords(records [][]string) (*Table, error) {
	start := 0
	for start < len(records) && blank(records[start]) {
		start++
	}
	if start == len(records) {
		return nil, ErrNoHeader
	}

	headers := make([]string, len(records[start]))
	for i, h := range records[start] {
		headers[i] = strings.TrimSpace(h)
	}

	rows := make([]domain.RawRow, 0, len(records)-start-1)
	for _, rec := range records[start+1:] {
		// Cells past the last header do not make a row non-blank.
		row := domain.NewRawRow(headers, rec)
		if row.Blank() {
			continue
		}
		rows = append(rows, row)
	}

	return &Table{Headers: headers, Rows: rows}, nil
}

func blank(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func firstLine(data []byte) string {
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) != "" {
			return line
		}
	}
	return ""
}

// sniffDelimiter picks the candidate delimiter that occurs most often
// outside quotes. Comma wins ties and empty lines.
func sniffDelimiter(line string) rune {
	counts := make(map[rune]int, len(delimiters))
	inQuotes := false
	for _, r := range line {
		if r == '"' {
			inQuotes = !inQuotes
			continue
		}
		if !inQuotes {
			counts[r]++
		}
	}

	best := delimiters[0]
	for _, d := range delimiters[1:] {
		if counts[d] > counts[best] {
			best = d
		}
	}
	return best
}
