package service

import (
	"slices"

	"github.com/mahabbalab/mahabba-server/internal/domain"
	"github.com/mahabbalab/mahabba-server/internal/pipeline"
)

// Summarize computes the summary of a successful run.
func Summarize(res *pipeline.Result) Summary {
	sum := Summary{
		Rows:    res.Stages.Rows,
		Records: len(res.Records),
		Dropped: res.Stages.Dropped(),
		Stages:  res.Stages,
		Genres:  make([]GenreCount, len(domain.Genres)),
	}

	for i, g := range domain.Genres {
		sum.Genres[i] = GenreCount{Genre: g, Label: g.Label()}
	}

	scores := make([]float64, 0, len(res.Records))
	for i, r := range res.Records {
		sum.Genres[r.Genre.Index()].Count++
		scores = append(scores, r.LoveIndex)
		if i == 0 || r.Century < sum.CenturyMin {
			sum.CenturyMin = r.Century
		}
		if r.Century > sum.CenturyMax {
			sum.CenturyMax = r.Century
		}
	}
	if len(scores) > 0 {
		// Ascending order keeps the mean independent of row order.
		slices.Sort(scores)
		var total float64
		for _, v := range scores {
			total += v
		}
		sum.Mean = total / float64(len(scores))
	}

	return sum
}
