package columns

import "github.com/mahabbalab/mahabba-server/internal/domain"

// DefaultCandidates returns the header names seen across the corpus exports.
func DefaultCandidates() Candidates {
	return NewCandidates(map[domain.Role]CandidateSet{
		domain.RoleGenre: {
			Exact: []string{"genre", "genre_code", "genre code", "category", "type"},
			Fuzzy: []string{"genre", "categ"},
		},
		domain.RoleEra: {
			Exact: []string{"century", "century_ah", "century ah", "era", "qarn"},
			Fuzzy: []string{"century", "qarn"},
		},
		domain.RoleScore: {
			Exact: []string{"love_index", "loveindex", "love index", "love", "score", "affect"},
			Fuzzy: []string{"love", "affect", "score"},
		},
		domain.RoleTitle: {
			Exact: []string{"title", "work", "book"},
			Fuzzy: []string{"title"},
		},
		domain.RoleAuthor: {
			Exact: []string{"author", "writer", "author_name"},
			Fuzzy: []string{"author"},
		},
		domain.RoleIdentifier: {
			Exact: []string{"id", "identifier", "work_id", "text_id", "uri"},
			Fuzzy: []string{"identifier", "_id", "uri"},
		},
		domain.RoleYear: {
			Exact: []string{"year", "year_ah", "date_ah", "death_ah", "hijri_year"},
			Fuzzy: []string{"year", "date"},
		},
	})
}
