package search

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"

	"github.com/mahabbalab/mahabba-server/internal/domain"
)

// batchSize bounds the size of one indexing batch.
const batchSize = 500

// Index is an in-memory Bleve index over the records of one run.
// It is built once and only read afterwards.
type Index struct {
	index   bleve.Index
	records []domain.Record
}

// New indexes records in memory. Callers must Close the index.
func New(records []domain.Record) (*Index, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	idx := &Index{index: index, records: records}
	if err := idx.indexRecords(); err != nil {
		_ = index.Close()
		return nil, err
	}
	return idx, nil
}

func (i *Index) indexRecords() error {
	for start := 0; start < len(i.records); start += batchSize {
		end := min(start+batchSize, len(i.records))

		batch := i.index.NewBatch()
		for pos := start; pos < end; pos++ {
			doc := NewDocument(pos, i.records[pos])
			if err := batch.Index(doc.ID, doc.ToMap()); err != nil {
				return fmt.Errorf("batch index %s: %w", doc.ID, err)
			}
		}

		if err := i.index.Batch(batch); err != nil {
			return fmt.Errorf("commit batch %d-%d: %w", start, end, err)
		}
	}
	return nil
}

// Close releases the index.
func (i *Index) Close() error {
	return i.index.Close()
}

// DocumentCount returns the number of indexed records.
func (i *Index) DocumentCount() (uint64, error) {
	return i.index.DocCount()
}
