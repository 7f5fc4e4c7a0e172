// Package search provides full-text search over the records of one run.
// Indexes are memory-only and live no longer than the request that built them.
package search

import (
	"strconv"

	"github.com/mahabbalab/mahabba-server/internal/domain"
)

// Document is the indexed form of a record.
type Document struct {
	ID         string  `json:"id"`
	Position   int     `json:"position"` // Index of the record in the run output
	Genre      string  `json:"genre"`
	Century    int     `json:"century"`
	YearApprox int     `json:"year_approx"`
	LoveIndex  float64 `json:"love_index"`
	Title      string  `json:"title,omitempty"`
	Author     string  `json:"author,omitempty"`
	Identifier string  `json:"identifier,omitempty"`
}

// NewDocument builds the document for the record at position pos.
func NewDocument(pos int, r domain.Record) *Document {
	return &Document{
		ID:         strconv.Itoa(pos),
		Position:   pos,
		Genre:      string(r.Genre),
		Century:    r.Century,
		YearApprox: r.YearApprox,
		LoveIndex:  r.LoveIndex,
		Title:      r.Title,
		Author:     r.Author,
		Identifier: r.Identifier,
	}
}

// ToMap converts the document for indexing. Field names match the mapping.
func (d *Document) ToMap() map[string]any {
	m := map[string]any{
		"id":          d.ID,
		"position":    d.Position,
		"genre":       d.Genre,
		"century":     d.Century,
		"year_approx": d.YearApprox,
		"love_index":  d.LoveIndex,
	}
	if d.Title != "" {
		m["title"] = d.Title
	}
	if d.Author != "" {
		m["author"] = d.Author
	}
	if d.Identifier != "" {
		m["identifier"] = d.Identifier
	}
	return m
}
