package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/mahabbalab/mahabba-server/internal/domain"
)

// RecordHeaders is the header row written by WriteRecords. Every name
// resolves to its role under the default column candidates, so an export
// can be loaded again as a dataset.
var RecordHeaders = []string{"id", "title", "author", "genre", "century", "year_approx", "love_index"}

// WriteRecords writes records as comma-separated text with a header row.
func WriteRecords(w io.Writer, records []domain.Record) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(RecordHeaders); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Identifier,
			r.Title,
			r.Author,
			string(r.Genre),
			strconv.Itoa(r.Century),
			strconv.Itoa(r.YearApprox),
			strconv.FormatFloat(r.LoveIndex, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
