package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/mahabbalab/mahabba-server/internal/domain"
)

// Pagination bounds.
const (
	DefaultLimit = 20
	MaxLimit     = 200
)

// Params configures a search.
type Params struct {
	Query   string           // Free text over title, author and identifier
	Genre   domain.GenreCode // Exact genre filter, empty for all
	Century int              // Exact century filter, 0 for all

	Limit  int
	Offset int
}

// DefaultParams returns the default pagination.
func DefaultParams() Params {
	return Params{Limit: DefaultLimit}
}

// Result is one page of matches.
type Result struct {
	Query  string `json:"query"`
	Total  uint64 `json:"total"`
	TookMs int64  `json:"took_ms"`
	Hits   []Hit  `json:"hits"`
}

// Hit is a matching record.
type Hit struct {
	Score      float64           `json:"score"`
	Record     domain.Record     `json:"record"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// Search runs params against the index. Hits are ordered by relevance, then
// by their position in the run output.
func (i *Index) Search(ctx context.Context, params Params) (*Result, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)
	offset := max(params.Offset, 0)

	req := bleve.NewSearchRequestOptions(buildSearchQuery(params), limit, offset, false)
	req.SortBy([]string{"-_score", "position"})
	if params.Query != "" {
		req.Highlight = bleve.NewHighlight()
		req.Highlight.AddField("title")
		req.Highlight.AddField("author")
	}

	res, err := i.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &Result{
		Query:  params.Query,
		Total:  res.Total,
		TookMs: res.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(res.Hits)),
	}

	for _, match := range res.Hits {
		pos, err := strconv.Atoi(match.ID)
		if err != nil || pos < 0 || pos >= len(i.records) {
			continue
		}

		hit := Hit{Score: match.Score, Record: i.records[pos]}
		if len(match.Fragments) > 0 {
			hit.Highlights = make(map[string]string)
			for field, fragments := range match.Fragments {
				if len(fragments) > 0 {
					hit.Highlights[field] = fragments[0]
				}
			}
		}
		result.Hits = append(result.Hits, hit)
	}

	return result, nil
}

// buildSearchQuery combines the text query and filters with AND.
func buildSearchQuery(params Params) query.Query {
	var queries []query.Query

	if q := strings.TrimSpace(params.Query); q != "" {
		titleMatch := bleve.NewMatchQuery(q)
		titleMatch.SetField("title")
		titleMatch.SetBoost(3.0)

		authorMatch := bleve.NewMatchQuery(q)
		authorMatch.SetField("author")
		authorMatch.SetBoost(1.5)

		identifierTerm := bleve.NewTermQuery(q)
		identifierTerm.SetField("identifier")
		identifierTerm.SetBoost(5.0)

		// Typo tolerance on titles
		fuzzy := bleve.NewFuzzyQuery(strings.ToLower(q))
		fuzzy.SetFuzziness(1)
		fuzzy.SetField("title")
		fuzzy.SetBoost(0.8)

		textQueries := []query.Query{titleMatch, authorMatch, identifierTerm, fuzzy}

		if len(q) >= 2 {
			prefix := bleve.NewPrefixQuery(strings.ToLower(q))
			prefix.SetField("title")
			prefix.SetBoost(0.5)
			textQueries = append(textQueries, prefix)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	if params.Genre != "" {
		genre := bleve.NewTermQuery(string(params.Genre))
		genre.SetField("genre")
		queries = append(queries, genre)
	}

	if params.Century > 0 {
		lo := float64(params.Century)
		hi := float64(params.Century + 1)
		century := bleve.NewNumericRangeQuery(&lo, &hi)
		century.SetField("century")
		queries = append(queries, century)
	}

	switch len(queries) {
	case 0:
		return bleve.NewMatchAllQuery()
	case 1:
		return queries[0]
	default:
		return bleve.NewConjunctionQuery(queries...)
	}
}
