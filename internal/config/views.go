package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/mahabbalab/mahabba-server/internal/columns"
	"github.com/mahabbalab/mahabba-server/internal/domain"
	domainerrors "github.com/mahabbalab/mahabba-server/internal/errors"
	"github.com/mahabbalab/mahabba-server/internal/normalize"
	"github.com/mahabbalab/mahabba-server/internal/pipeline"
	"github.com/mahabbalab/mahabba-server/internal/validation"
)

// Views is the ordered set of named pipeline policies.
// The first view is the default.
type Views struct {
	order  []string
	byName map[string]pipeline.Policy
}

// viewsFile is the YAML layout of a views file.
//
//	genre_letters:
//	  b: BIO
//	views:
//	  - name: overview
//	    century_min: 1
//	    century_max: 15
//	    min_records: 20
//	    year_fallback: true
//	    columns:
//	      score: {exact: [affect_score], fuzzy: [affect]}
type viewsFile struct {
	GenreLetters map[string]domain.GenreCode `yaml:"genre_letters" validate:"omitempty,dive,keys,len=1,endkeys,genrecode"`
	Views        []viewEntry                 `yaml:"views"`
}

type viewEntry struct {
	pipeline.Policy `yaml:",inline"`

	Columns map[domain.Role]columns.CandidateSet `yaml:"columns"`
}

// policySet is validated as a whole so duplicate names are caught.
type policySet struct {
	Views []pipeline.Policy `yaml:"views" validate:"required,min=1,unique=Name,dive"`
}

// DefaultViews returns the built-in views.
func DefaultViews() *Views {
	overview := pipeline.DefaultPolicy()

	scatter := pipeline.DefaultPolicy()
	scatter.Name = "scatter"
	scatter.CenturyMin = 2
	scatter.MinRecords = 10
	scatter.YearFallback = false

	genres := pipeline.DefaultPolicy()
	genres.Name = "genres"
	genres.MinRecords = 10
	genres.YearFallback = false

	views, err := NewViews(overview, scatter, genres)
	if err != nil {
		panic(fmt.Sprintf("built-in views are invalid: %v", err))
	}
	return views
}

// NewViews validates policies and indexes them by name.
func NewViews(policies ...pipeline.Policy) (*Views, error) {
	if err := validation.Shared().Validate(policySet{Views: policies}); err != nil {
		return nil, err
	}

	v := &Views{byName: make(map[string]pipeline.Policy, len(policies))}
	for _, p := range policies {
		v.order = append(v.order, p.Name)
		v.byName[p.Name] = p
	}
	return v, nil
}

// LoadViews reads a views file. An empty path yields the built-in views.
func LoadViews(path string) (*Views, error) {
	if path == "" {
		return DefaultViews(), nil
	}

	data, err := os.ReadFile(path) //#nosec G304 -- Views file path is operator configuration
	if err != nil {
		return nil, fmt.Errorf("read views file: %w", err)
	}

	views, err := ParseViews(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("views file %s: %w", path, err)
	}
	return views, nil
}

// ParseViews decodes a views document. Unknown keys are rejected.
// Candidate overrides replace the built-in lists for the roles they name.
func ParseViews(r io.Reader) (*Views, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc viewsFile
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, domainerrors.Validation("views file is empty")
		}
		return nil, domainerrors.Validationf("parse views: %v", err)
	}

	if err := validation.Shared().Validate(doc); err != nil {
		return nil, err
	}

	letters := normalize.DefaultGenreTable()
	if len(doc.GenreLetters) > 0 {
		letters = normalize.NewGenreTable(doc.GenreLetters)
	}

	policies := make([]pipeline.Policy, 0, len(doc.Views))
	for _, entry := range doc.Views {
		for role := range entry.Columns {
			if !slices.Contains(domain.Roles, role) {
				return nil, domainerrors.Validationf("view %q: unknown column role %q", entry.Name, role)
			}
		}

		p := entry.Policy
		p.Candidates = columns.DefaultCandidates().Merge(entry.Columns)
		p.Genres = letters
		policies = append(policies, p)
	}

	return NewViews(policies...)
}

// Get returns the view called name.
func (v *Views) Get(name string) (pipeline.Policy, error) {
	p, ok := v.byName[name]
	if !ok {
		return pipeline.Policy{}, domainerrors.NotFoundf("view %q not found", name)
	}
	return p, nil
}

// Default returns the first configured view.
func (v *Views) Default() pipeline.Policy {
	return v.byName[v.order[0]]
}

// Names returns the view names in configured order.
func (v *Views) Names() []string {
	return slices.Clone(v.order)
}

// All returns the policies in configured order.
func (v *Views) All() []pipeline.Policy {
	out := make([]pipeline.Policy, 0, len(v.order))
	for _, name := range v.order {
		out = append(out, v.byName[name])
	}
	return out
}
