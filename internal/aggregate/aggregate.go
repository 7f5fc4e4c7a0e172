// Package aggregate groups canonical records into per-century buckets.
package aggregate

import (
	"cmp"
	"slices"

	"github.com/mahabbalab/mahabba-server/internal/domain"
)

// Result holds the pooled series and the six per-genre series.
type Result struct {
	Pooled []domain.Bucket      `json:"pooled"`
	Series []domain.GenreSeries `json:"series"`
}

// Compute returns the pooled series and one series per genre in display order.
func Compute(records []domain.Record) Result {
	return Result{
		Pooled: Pooled(records),
		Series: ByGenre(records),
	}
}

// Pooled groups all records by century, ascending.
func Pooled(records []domain.Record) []domain.Bucket {
	return buckets(records, func(domain.Record) bool { return true })
}

// ByGenre returns one series per genre in display order. Genres without
// records still get an entry, with an empty bucket list.
func ByGenre(records []domain.Record) []domain.GenreSeries {
	series := make([]domain.GenreSeries, 0, len(domain.Genres))
	for _, g := range domain.Genres {
		series = append(series, domain.GenreSeries{
			Genre:   g,
			Label:   g.Label(),
			Buckets: buckets(records, func(r domain.Record) bool { return r.Genre == g }),
		})
	}
	return series
}

// buckets groups the records accepted by keep. Empty centuries never appear.
func buckets(records []domain.Record, keep func(domain.Record) bool) []domain.Bucket {
	byCentury := make(map[int][]float64)
	for _, r := range records {
		if keep(r) {
			byCentury[r.Century] = append(byCentury[r.Century], r.LoveIndex)
		}
	}

	out := make([]domain.Bucket, 0, len(byCentury))
	for century, values := range byCentury {
		out = append(out, domain.Bucket{
			Century: century,
			Mean:    mean(values),
			N:       len(values),
		})
	}
	slices.SortFunc(out, func(a, b domain.Bucket) int {
		return cmp.Compare(a.Century, b.Century)
	})
	return out
}

// mean sums in ascending order so the result does not depend on row order.
func mean(values []float64) float64 {
	slices.Sort(values)
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
