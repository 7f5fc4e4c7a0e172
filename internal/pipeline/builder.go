package pipeline

import (
	"context"
	"fmt"

	"github.com/mahabbalab/mahabba-server/internal/columns"
	"github.com/mahabbalab/mahabba-server/internal/dataset"
	"github.com/mahabbalab/mahabba-server/internal/domain"
	domainerrors "github.com/mahabbalab/mahabba-server/internal/errors"
	"github.com/mahabbalab/mahabba-server/internal/normalize"
	"github.com/mahabbalab/mahabba-server/internal/position"
)

// StageCounts records how many rows survived each step of the builder.
// Each count is the number of rows that passed that step and all earlier ones.
type StageCounts struct {
	Rows            int `json:"rows"`
	GenreResolved   int `json:"genre_resolved"`
	CenturyResolved int `json:"century_resolved"`
	InWindow        int `json:"in_window"`
	ScoreResolved   int `json:"score_resolved"`
}

// Dropped returns the number of rows that produced no record.
func (s StageCounts) Dropped() int {
	return s.Rows - s.ScoreResolved
}

// stage is how far a single row got.
type stage int

const (
	stageNone stage = iota
	stageGenre
	stageCentury
	stageWindow
	stageScore
)

func (s *StageCounts) add(reached stage) {
	s.Rows++
	if reached >= stageGenre {
		s.GenreResolved++
	}
	if reached >= stageCentury {
		s.CenturyResolved++
	}
	if reached >= stageWindow {
		s.InWindow++
	}
	if reached >= stageScore {
		s.ScoreResolved++
	}
}

// Result is the output of a successful run.
type Result struct {
	Source  string
	Headers []string
	Columns domain.ColumnMap
	Records []domain.Record
	Stages  StageCounts
}

// Load opens src and attaches a diagnostic to any load failure.
// It is the only blocking step of a run.
func Load(ctx context.Context, src dataset.Source) (*dataset.Table, error) {
	table, err := src.Open(ctx)
	if err != nil {
		return nil, withDiagnostic(err, Diagnostic{
			Kind:   domainerrors.CodeResourceLoad,
			Source: src.Path(),
		})
	}
	return table, nil
}

// Run resolves columns on table, checks the schema, and builds records.
func Run(table *dataset.Table, p Policy) (*Result, error) {
	cols := columns.Resolve(table.Headers, p.Candidates)
	if err := CheckSchema(table.Source, table.Headers, cols, p); err != nil {
		return nil, err
	}
	return Build(table.Source, table.Headers, table.Rows, cols, p)
}

// MissingRoles returns the required roles that cols does not cover.
func MissingRoles(cols domain.ColumnMap, p Policy) []domain.Role {
	var missing []domain.Role
	for _, role := range p.RequiredRoles() {
		if cols.Has(role) {
			continue
		}
		if role == domain.RoleEra && p.YearFallback && cols.Has(domain.RoleYear) {
			continue
		}
		missing = append(missing, role)
	}
	return missing
}

// CheckSchema fails with SCHEMA_DETECTION when a required role is missing.
func CheckSchema(source string, headers []string, cols domain.ColumnMap, p Policy) error {
	missing := MissingRoles(cols, p)
	if len(missing) == 0 {
		return nil
	}
	return domainerrors.SchemaDetection(
		fmt.Sprintf("required columns not detected: %v", missing),
		Diagnostic{
			Kind:     domainerrors.CodeSchemaDetection,
			Source:   source,
			View:     p.Name,
			Headers:  headers,
			Detected: cols.Detected(),
			Missing:  missing,
		},
	)
}

// Build converts rows into records and enforces the minimum yield.
// Rows are independent; their order only affects the order of Records.
func Build(source string, headers []string, rows []domain.RawRow, cols domain.ColumnMap, p Policy) (*Result, error) {
	res := &Result{
		Source:  source,
		Headers: headers,
		Columns: cols,
		Records: make([]domain.Record, 0, len(rows)),
	}

	for _, row := range rows {
		rec, reached := buildRecord(row, cols, p)
		res.Stages.add(reached)
		if reached == stageScore {
			res.Records = append(res.Records, rec)
		}
	}

	if len(res.Records) < p.MinRecords {
		stages := res.Stages
		return nil, domainerrors.InsufficientData(
			fmt.Sprintf("%d valid records, %d required", len(res.Records), p.MinRecords),
			Diagnostic{
				Kind:       domainerrors.CodeInsufficientData,
				Source:     source,
				View:       p.Name,
				Headers:    headers,
				Detected:   cols.Detected(),
				Stages:     &stages,
				Records:    len(res.Records),
				MinRecords: p.MinRecords,
			},
		)
	}

	return res, nil
}

// buildRecord runs the per-row steps. The returned stage is stageScore only
// when the record is complete; any earlier stage means the row is dropped.
func buildRecord(row domain.RawRow, cols domain.ColumnMap, p Policy) (domain.Record, stage) {
	genre, ok := normalize.Genre(row.Value(cols.Column(domain.RoleGenre)), p.Genres)
	if !ok {
		return domain.Record{}, stageNone
	}

	century, ok := resolveCentury(row, cols, p)
	if !ok {
		return domain.Record{}, stageGenre
	}

	if !p.InWindow(century) {
		return domain.Record{}, stageCentury
	}

	score, ok := normalize.Score(row.Value(cols.Column(domain.RoleScore)))
	if !ok {
		return domain.Record{}, stageWindow
	}

	rec := domain.Record{
		Genre:      genre,
		Century:    century,
		LoveIndex:  score,
		Title:      row.Value(cols.Column(domain.RoleTitle)),
		Author:     row.Value(cols.Column(domain.RoleAuthor)),
		Identifier: row.Value(cols.Column(domain.RoleIdentifier)),
	}
	rec.YearApprox = position.YearApprox(century, position.Seed(rec.Identifier, rec.Title, rec.Author))

	return rec, stageScore
}

// resolveCentury reads the era column, then the year column when the policy
// allows it. Both use the same century-or-AH-year rule.
func resolveCentury(row domain.RawRow, cols domain.ColumnMap, p Policy) (int, bool) {
	if col, ok := cols.Get(domain.RoleEra); ok {
		if c, ok := normalize.CenturyOf(row.Value(col)); ok {
			return c, true
		}
	}
	if !p.YearFallback {
		return 0, false
	}
	if col, ok := cols.Get(domain.RoleYear); ok {
		return normalize.CenturyOf(row.Value(col))
	}
	return 0, false
}
