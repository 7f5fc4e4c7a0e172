// Package pipeline turns a loaded dataset into canonical records.
//
// One run resolves the header row once, then processes every row
// independently: resolve genre, resolve century, check the century window,
// parse and clamp the score, and place the record on the year axis. Rows that
// fail any step are dropped without a trace beyond the stage counts.
package pipeline

import (
	"github.com/mahabbalab/mahabba-server/internal/columns"
	"github.com/mahabbalab/mahabba-server/internal/domain"
	"github.com/mahabbalab/mahabba-server/internal/normalize"
)

// Policy holds the tunable values of one view of the data.
// Candidate lists and the genre letter table travel with the policy so the
// resolver and normalizer never read global state.
type Policy struct {
	Name         string `yaml:"name" json:"name" validate:"required"`
	CenturyMin   int    `yaml:"century_min" json:"century_min" validate:"gte=1,lte=30"`
	CenturyMax   int    `yaml:"century_max" json:"century_max" validate:"gte=1,lte=30,gtefield=CenturyMin"`
	MinRecords   int    `yaml:"min_records" json:"min_records" validate:"gte=1"`
	YearFallback bool   `yaml:"year_fallback" json:"year_fallback"`

	Candidates columns.Candidates   `yaml:"-" json:"-"`
	Genres     normalize.GenreTable `yaml:"-" json:"-"`
}

// DefaultPolicy returns the widest window with the stricter threshold.
func DefaultPolicy() Policy {
	return Policy{
		Name:         "overview",
		CenturyMin:   1,
		CenturyMax:   15,
		MinRecords:   20,
		YearFallback: true,
		Candidates:   columns.DefaultCandidates(),
		Genres:       normalize.DefaultGenreTable(),
	}
}

// InWindow reports whether century lies inside the policy window, bounds included.
func (p Policy) InWindow(century int) bool {
	return century >= p.CenturyMin && century <= p.CenturyMax
}

// RequiredRoles returns the roles that must be detected for this policy.
// The era role is also satisfied by a year column when YearFallback is on.
func (p Policy) RequiredRoles() []domain.Role {
	return []domain.Role{domain.RoleGenre, domain.RoleEra, domain.RoleScore}
}
