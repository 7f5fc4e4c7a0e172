package columns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahabbalab/mahabba-server/internal/domain"
)

func TestResolveRole(t *testing.T) {
	set := CandidateSet{
		Exact: []string{"love_index", "score"},
		Fuzzy: []string{"love", "affect"},
	}

	tests := []struct {
		name    string
		headers []string
		want    string
		wantOK  bool
	}{
		{"exact match", []string{"title", "love_index"}, "love_index", true},
		{"case-insensitive exact", []string{"Title", "LOVE_INDEX"}, "LOVE_INDEX", true},
		{"exact beats earlier fuzzy header", []string{"love_index_raw", "score"}, "score", true},
		{"exact candidates in listed order", []string{"score", "love_index"}, "love_index", true},
		{"fuzzy fallback", []string{"title", "Love Index (v2)"}, "Love Index (v2)", true},
		{"fuzzy candidates in listed order", []string{"affect_total", "lovely"}, "lovely", true},
		{"no match", []string{"title", "author"}, "", false},
		{"empty headers", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveRole(tt.headers, set)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveRole_ExactPrecedenceOverSubstring(t *testing.T) {
	headers := []string{"genre_raw_notes", "Genre"}
	set := CandidateSet{Exact: []string{"genre"}, Fuzzy: []string{"genre"}}

	got, ok := ResolveRole(headers, set)
	require.True(t, ok)
	assert.Equal(t, "Genre", got)
}

func TestResolveRole_IgnoresBlankCandidates(t *testing.T) {
	set := CandidateSet{Exact: []string{""}, Fuzzy: []string{"  "}}

	_, ok := ResolveRole([]string{"anything"}, set)
	assert.False(t, ok)
}

func TestResolve_DefaultCandidates(t *testing.T) {
	headers := []string{"ID", "Title", "Author", "Genre Code", "Century AH", "Love Index", "notes"}

	cols := Resolve(headers, DefaultCandidates())

	assert.Equal(t, "ID", cols.Column(domain.RoleIdentifier))
	assert.Equal(t, "Title", cols.Column(domain.RoleTitle))
	assert.Equal(t, "Author", cols.Column(domain.RoleAuthor))
	assert.Equal(t, "Genre Code", cols.Column(domain.RoleGenre))
	assert.Equal(t, "Century AH", cols.Column(domain.RoleEra))
	assert.Equal(t, "Love Index", cols.Column(domain.RoleScore))
	assert.False(t, cols.Has(domain.RoleYear))
	assert.Empty(t, cols.Missing(domain.RoleGenre, domain.RoleEra, domain.RoleScore))
}

func TestResolve_ReportsMissingRoles(t *testing.T) {
	cols := Resolve([]string{"title", "genre"}, DefaultCandidates())

	assert.Equal(t, []domain.Role{domain.RoleEra, domain.RoleScore},
		cols.Missing(domain.RoleGenre, domain.RoleEra, domain.RoleScore))
}

func TestCandidates_MergeDoesNotMutate(t *testing.T) {
	base := DefaultCandidates()
	merged := base.Merge(map[domain.Role]CandidateSet{
		domain.RoleScore: {Exact: []string{"mahabba"}},
	})

	baseSet, ok := base.Set(domain.RoleScore)
	require.True(t, ok)
	assert.Contains(t, baseSet.Exact, "love_index")

	mergedSet, ok := merged.Set(domain.RoleScore)
	require.True(t, ok)
	assert.Equal(t, []string{"mahabba"}, mergedSet.Exact)

	cols := Resolve([]string{"Mahabba", "genre", "century"}, merged)
	assert.Equal(t, "Mahabba", cols.Column(domain.RoleScore))
}

func TestCandidates_SetReturnsCopy(t *testing.T) {
	c := DefaultCandidates()
	set, _ := c.Set(domain.RoleGenre)
	set.Exact[0] = "tampered"

	again, _ := c.Set(domain.RoleGenre)
	assert.Equal(t, "genre", again.Exact[0])
}

func TestResolve_HeaderServesOneRole(t *testing.T) {
	headers := []string{"title", "Literary genre", "Hijri period", "love_index"}

	cols := Resolve(headers, DefaultCandidates())

	assert.Equal(t, "Literary genre", cols.Column(domain.RoleGenre))
	assert.False(t, cols.Has(domain.RoleEra))
	assert.Equal(t, []domain.Role{domain.RoleEra},
		cols.Missing(domain.RoleGenre, domain.RoleEra, domain.RoleScore))
}

func TestResolve_ExactBeatsEarlierRoleFuzzy(t *testing.T) {
	// Genre's fuzzy "love" would take the first header if it ran before score's exact pass.
	c := NewCandidates(map[domain.Role]CandidateSet{
		domain.RoleGenre: {Fuzzy: []string{"love"}},
		domain.RoleScore: {Exact: []string{"love"}},
	})

	cols := Resolve([]string{"love", "love_kind"}, c)

	assert.Equal(t, "love", cols.Column(domain.RoleScore))
	assert.Equal(t, "love_kind", cols.Column(domain.RoleGenre))
}

func TestResolve_FirstRoleClaimsSharedHeader(t *testing.T) {
	c := NewCandidates(map[domain.Role]CandidateSet{
		domain.RoleGenre: {Fuzzy: []string{"kind"}},
		domain.RoleEra:   {Fuzzy: []string{"kind"}},
	})

	cols := Resolve([]string{"kind"}, c)

	assert.Equal(t, "kind", cols.Column(domain.RoleGenre))
	assert.False(t, cols.Has(domain.RoleEra))
}

func TestDefaultCandidates_EraIgnoresLooseSubstrings(t *testing.T) {
	set, ok := DefaultCandidates().Set(domain.RoleEra)
	require.True(t, ok)

	for _, h := range []string{"Literary", "general", "love_percent", "percentile"} {
		_, found := ResolveRole([]string{h}, set)
		assert.False(t, found, h)
	}
}
