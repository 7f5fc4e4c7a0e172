// Package columns maps semantic roles onto the header names of a dataset.
package columns

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/mahabbalab/mahabba-server/internal/domain"
)

// CandidateSet lists the header names that identify one role.
// Exact names are compared whole; fuzzy names match as substrings.
// Both comparisons ignore case.
type CandidateSet struct {
	Exact []string `yaml:"exact" json:"exact"`
	Fuzzy []string `yaml:"fuzzy" json:"fuzzy"`
}

// Candidates holds one CandidateSet per role. It is immutable: With and
// Merge return new values.
type Candidates struct {
	sets map[domain.Role]CandidateSet
}

// NewCandidates copies sets into a Candidates value.
func NewCandidates(sets map[domain.Role]CandidateSet) Candidates {
	c := Candidates{sets: make(map[domain.Role]CandidateSet, len(sets))}
	for role, set := range sets {
		c.sets[role] = set.clone()
	}
	return c
}

// Set returns the candidates for role.
func (c Candidates) Set(role domain.Role) (CandidateSet, bool) {
	set, ok := c.sets[role]
	if !ok {
		return CandidateSet{}, false
	}
	return set.clone(), true
}

// With returns a copy of c with role's candidates replaced.
func (c Candidates) With(role domain.Role, set CandidateSet) Candidates {
	out := NewCandidates(c.sets)
	out.sets[role] = set.clone()
	return out
}

// Merge returns a copy of c where every role present in overrides uses the
// override candidates.
func (c Candidates) Merge(overrides map[domain.Role]CandidateSet) Candidates {
	out := NewCandidates(c.sets)
	for role, set := range overrides {
		out.sets[role] = set.clone()
	}
	return out
}

func (s CandidateSet) clone() CandidateSet {
	return CandidateSet{
		Exact: append([]string(nil), s.Exact...),
		Fuzzy: append([]string(nil), s.Fuzzy...),
	}
}

// ResolveRole returns the header chosen for one role.
//
// Every exact candidate is tried, in listed order, before any fuzzy
// candidate. For each candidate the first matching header wins.
func ResolveRole(headers []string, set CandidateSet) (string, bool) {
	m := newMatcher(headers)
	if i, ok := m.exact(set); ok {
		return headers[i], true
	}
	if i, ok := m.fuzzy(set); ok {
		return headers[i], true
	}
	return "", false
}

// Resolve binds every role that has candidates to at most one header, and
// each header to at most one role. Exact matches for all roles are taken
// before any fuzzy match, both passes in domain.Roles order, so a loose
// substring for one role cannot claim another role's exact header.
// Roles without a match are absent from the result.
func Resolve(headers []string, c Candidates) domain.ColumnMap {
	m := newMatcher(headers)
	assign := make(map[domain.Role]string, len(c.sets))

	for _, pass := range []func(CandidateSet) (int, bool){m.exact, m.fuzzy} {
		for _, role := range domain.Roles {
			set, ok := c.sets[role]
			if !ok {
				continue
			}
			if _, done := assign[role]; done {
				continue
			}
			if i, found := pass(set); found {
				assign[role] = headers[i]
				m.claimed[i] = true
			}
		}
	}
	return domain.NewColumnMap(assign)
}

// matcher compares candidates against case-folded headers and skips headers
// already bound to a role.
type matcher struct {
	folder  cases.Caser
	folded  []string
	claimed []bool
}

func newMatcher(headers []string) *matcher {
	m := &matcher{
		folder:  cases.Fold(),
		folded:  make([]string, len(headers)),
		claimed: make([]bool, len(headers)),
	}
	for i, h := range headers {
		m.folded[i] = m.folder.String(strings.TrimSpace(h))
	}
	return m
}

func (m *matcher) exact(set CandidateSet) (int, bool) {
	return m.find(set.Exact, func(h, want string) bool { return h == want })
}

func (m *matcher) fuzzy(set CandidateSet) (int, bool) {
	return m.find(set.Fuzzy, strings.Contains)
}

func (m *matcher) find(candidates []string, match func(h, want string) bool) (int, bool) {
	for _, cand := range candidates {
		want := m.folder.String(strings.TrimSpace(cand))
		if want == "" {
			continue
		}
		for i, h := range m.folded {
			if !m.claimed[i] && match(h, want) {
				return i, true
			}
		}
	}
	return -1, false
}
