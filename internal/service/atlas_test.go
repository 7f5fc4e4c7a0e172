package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahabbalab/mahabba-server/internal/config"
	"github.com/mahabbalab/mahabba-server/internal/dataset"
	"github.com/mahabbalab/mahabba-server/internal/domain"
	domainerrors "github.com/mahabbalab/mahabba-server/internal/errors"
	"github.com/mahabbalab/mahabba-server/internal/logger"
	"github.com/mahabbalab/mahabba-server/internal/pipeline"
	"github.com/mahabbalab/mahabba-server/internal/search"
)

// corpusCSV has 12 rows valid for the scatter view ([2,15]) and two that
// are dropped: one outside the window and one with an unknown genre.
func corpusCSV() string {
	var b strings.Builder
	b.WriteString("ID,Title,Author,Genre Code,Century AH,Love Index,notes\n")
	genres := []string{"BIO", "d", "Philosophy", "poe", "RHE", "k"}
	for i := range 12 {
		fmt.Fprintf(&b, "ms-%d,Work %d,Author %d,%s,%d,%.1f,\n", i+1, i+1, i%3, genres[i%6], 2+i%4, float64(i%5)*0.5)
	}
	b.WriteString("ms-98,Too Early,Nobody,POE,1,1.0,\n")
	b.WriteString("ms-99,Unknown,Nobody,XYZ,5,1.0,\n")
	return b.String()
}

func newTestService(t *testing.T, csv string) *AtlasService {
	t.Helper()

	path := filepath.Join(t.TempDir(), "corpus.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o600))

	return NewAtlasService(dataset.New(path, dataset.Options{}), config.DefaultViews(), logger.Discard())
}

func TestRun_Scatter(t *testing.T) {
	svc := newTestService(t, corpusCSV())

	atlas, err := svc.Run(context.Background(), "scatter")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(atlas.RunID, "run-"))
	assert.Equal(t, "scatter", atlas.View.Name)
	assert.Len(t, atlas.Records, 12)
	assert.Equal(t, "Century AH", atlas.Columns["era"])
	assert.Equal(t, "Love Index", atlas.Columns["score"])

	require.Len(t, atlas.Series, 6)
	for i, g := range domain.Genres {
		assert.Equal(t, g, atlas.Series[i].Genre)
		assert.Len(t, atlas.Series[i].Buckets, 2, "each genre appears in two centuries")
	}
	require.Len(t, atlas.Pooled, 4)
	assert.Equal(t, 2, atlas.Pooled[0].Century)
	assert.Equal(t, 3, atlas.Pooled[0].N)

	assert.Equal(t, 14, atlas.Summary.Rows)
	assert.Equal(t, 12, atlas.Summary.Records)
	assert.Equal(t, 2, atlas.Summary.Dropped)
	assert.Equal(t, 2, atlas.Summary.CenturyMin)
	assert.Equal(t, 5, atlas.Summary.CenturyMax)
	for _, gc := range atlas.Summary.Genres {
		assert.Equal(t, 2, gc.Count, gc.Genre)
	}
}

func TestRun_DefaultView(t *testing.T) {
	svc := newTestService(t, corpusCSV())

	_, err := svc.Run(context.Background(), "")
	require.Error(t, err, "overview needs 20 records")
	assert.ErrorIs(t, err, domainerrors.ErrInsufficientData)

	diag, ok := pipeline.DiagnosticOf(err)
	require.True(t, ok)
	assert.Equal(t, "overview", diag.View)
	assert.Equal(t, 13, diag.Records)
	assert.Equal(t, 20, diag.MinRecords)
}

func TestRun_UnknownView(t *testing.T) {
	svc := newTestService(t, corpusCSV())

	_, err := svc.Run(context.Background(), "timeline")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestRun_ResourceLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.csv")
	svc := NewAtlasService(dataset.New(path, dataset.Options{}), config.DefaultViews(), logger.Discard())

	_, err := svc.Run(context.Background(), "scatter")
	require.ErrorIs(t, err, domainerrors.ErrResourceLoad)

	diag, ok := pipeline.DiagnosticOf(err)
	require.True(t, ok)
	assert.Equal(t, path, diag.Source)
}

func TestRun_SchemaDetection(t *testing.T) {
	svc := newTestService(t, "title,author\nDiwan,al-Mutanabbi\n")

	_, err := svc.Run(context.Background(), "scatter")
	require.ErrorIs(t, err, domainerrors.ErrSchemaDetection)

	diag, ok := pipeline.DiagnosticOf(err)
	require.True(t, ok)
	assert.Equal(t, []domain.Role{domain.RoleGenre, domain.RoleEra, domain.RoleScore}, diag.Missing)
	assert.Equal(t, []string{"title", "author"}, diag.Headers)
}

func TestColumns(t *testing.T) {
	svc := newTestService(t, "title,genre,year_ah\nDiwan,POE,350\n")

	report, err := svc.Columns(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "overview", report.View)
	assert.Equal(t, []string{"title", "genre", "year_ah"}, report.Headers)
	assert.Equal(t, "year_ah", report.Detected["year"])
	assert.Equal(t, []domain.Role{domain.RoleScore}, report.Missing)
	assert.Equal(t, 1, report.Rows)

	report, err = svc.Columns(context.Background(), "scatter")
	require.NoError(t, err)
	assert.Equal(t, []domain.Role{domain.RoleEra, domain.RoleScore}, report.Missing, "scatter has no year fallback")
}

func TestSearch(t *testing.T) {
	svc := newTestService(t, corpusCSV())

	params := search.DefaultParams()
	params.Genre = domain.GenrePoetry
	res, err := svc.Search(context.Background(), "scatter", params)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), res.Total)
	for _, hit := range res.Hits {
		assert.Equal(t, domain.GenrePoetry, hit.Record.Genre)
	}

	params = search.DefaultParams()
	params.Query = "ms-7"
	res, err = svc.Search(context.Background(), "scatter", params)
	require.NoError(t, err)
	require.NotEmpty(t, res.Hits)
	assert.Equal(t, "ms-7", res.Hits[0].Record.Identifier)
}

func TestSearch_InvalidGenre(t *testing.T) {
	svc := newTestService(t, corpusCSV())

	params := search.DefaultParams()
	params.Genre = "EPIC"
	_, err := svc.Search(context.Background(), "scatter", params)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestViews(t *testing.T) {
	svc := newTestService(t, corpusCSV())

	names := make([]string, 0, 3)
	for _, v := range svc.Views() {
		names = append(names, v.Name)
	}
	assert.Equal(t, []string{"overview", "scatter", "genres"}, names)
}

func TestSummarize_Empty(t *testing.T) {
	sum := Summarize(&pipeline.Result{})

	assert.Zero(t, sum.Records)
	assert.Zero(t, sum.Mean)
	assert.Len(t, sum.Genres, 6)
}
