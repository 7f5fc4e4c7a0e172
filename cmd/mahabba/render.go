package main

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mahabbalab/mahabba-server/internal/domain"
	"github.com/mahabbalab/mahabba-server/internal/pipeline"
	"github.com/mahabbalab/mahabba-server/internal/service"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func formatMean(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func renderColumns(w io.Writer, report *service.ColumnReport) {
	fmt.Fprintln(w, titleStyle.Render("view "+report.View))
	fmt.Fprintf(w, "source %s, %d rows\n", report.Source, report.Rows)

	// Invert role -> header for display in header order.
	roleOf := make(map[string]string, len(report.Detected))
	for role, header := range report.Detected {
		roleOf[header] = role
	}

	t := newTable("COLUMN", "ROLE")
	for _, h := range report.Headers {
		role, ok := roleOf[h]
		if !ok {
			role = "-"
		}
		t.Row(h, role)
	}
	fmt.Fprintln(w, t.Render())

	if len(report.Missing) > 0 {
		fmt.Fprintf(w, "missing: %s\n", joinRoles(report.Missing))
	}
}

func renderInspect(w io.Writer, atlas *service.Atlas) {
	sum := atlas.Summary

	fmt.Fprintln(w, titleStyle.Render("view "+atlas.View.Name))
	fmt.Fprintf(w, "run %s, source %s\n", atlas.RunID, atlas.Source)
	fmt.Fprintf(w, "window %d-%d, min records %d\n", atlas.View.CenturyMin, atlas.View.CenturyMax, atlas.View.MinRecords)

	stages := newTable("STAGE", "ROWS").
		Row("read", strconv.Itoa(sum.Stages.Rows)).
		Row("genre resolved", strconv.Itoa(sum.Stages.GenreResolved)).
		Row("century resolved", strconv.Itoa(sum.Stages.CenturyResolved)).
		Row("in window", strconv.Itoa(sum.Stages.InWindow)).
		Row("score resolved", strconv.Itoa(sum.Stages.ScoreResolved))
	fmt.Fprintln(w, stages.Render())

	genres := newTable("GENRE", "LABEL", "RECORDS")
	for _, g := range sum.Genres {
		genres.Row(string(g.Genre), g.Label, strconv.Itoa(g.Count))
	}
	fmt.Fprintln(w, genres.Render())

	fmt.Fprintf(w, "records %d, dropped %d", sum.Records, sum.Dropped)
	if sum.Records > 0 {
		fmt.Fprintf(w, ", centuries %d-%d, mean %s", sum.CenturyMin, sum.CenturyMax, formatMean(sum.Mean))
	}
	fmt.Fprintln(w)
}

func renderSeries(w io.Writer, atlas *service.Atlas) {
	fmt.Fprintln(w, titleStyle.Render("pooled"))
	pooled := newTable("CENTURY", "N", "MEAN")
	for _, b := range atlas.Pooled {
		pooled.Row(strconv.Itoa(b.Century), strconv.Itoa(b.N), formatMean(b.Mean))
	}
	fmt.Fprintln(w, pooled.Render())

	// One row per century present in any series, one column per genre.
	var centuries []int
	for _, b := range atlas.Pooled {
		centuries = append(centuries, b.Century)
	}
	slices.Sort(centuries)

	headers := []string{"CENTURY"}
	for _, s := range atlas.Series {
		headers = append(headers, string(s.Genre))
	}

	fmt.Fprintln(w, titleStyle.Render("by genre"))
	byGenre := newTable(headers...)
	for _, c := range centuries {
		row := []string{strconv.Itoa(c)}
		for _, s := range atlas.Series {
			row = append(row, seriesCell(s.Buckets, c))
		}
		byGenre.Row(row...)
	}
	fmt.Fprintln(w, byGenre.Render())
}

// seriesCell renders "mean (n)" for the century, or "-" when empty.
func seriesCell(buckets []domain.Bucket, century int) string {
	i, found := slices.BinarySearchFunc(buckets, century, func(b domain.Bucket, c int) int {
		return b.Century - c
	})
	if !found {
		return "-"
	}
	return fmt.Sprintf("%s (%d)", formatMean(buckets[i].Mean), buckets[i].N)
}

func joinRoles(roles []domain.Role) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}

// printError writes err and, for pipeline failures, its diagnostic.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "error: %v\n", err)

	diag, ok := pipeline.DiagnosticOf(err)
	if !ok {
		return
	}

	fmt.Fprintf(w, "  kind:     %s\n", diag.Kind)
	fmt.Fprintf(w, "  source:   %s\n", diag.Source)
	if diag.View != "" {
		fmt.Fprintf(w, "  view:     %s\n", diag.View)
	}
	if len(diag.Headers) > 0 {
		fmt.Fprintf(w, "  headers:  %s\n", strings.Join(diag.Headers, ", "))
	}
	if len(diag.Detected) > 0 {
		pairs := make([]string, 0, len(diag.Detected))
		for role, header := range diag.Detected {
			pairs = append(pairs, role+"="+header)
		}
		slices.Sort(pairs)
		fmt.Fprintf(w, "  detected: %s\n", strings.Join(pairs, ", "))
	}
	if len(diag.Missing) > 0 {
		fmt.Fprintf(w, "  missing:  %s\n", joinRoles(diag.Missing))
	}
	if s := diag.Stages; s != nil {
		fmt.Fprintf(w, "  stages:   rows=%d genre=%d century=%d window=%d score=%d\n",
			s.Rows, s.GenreResolved, s.CenturyResolved, s.InWindow, s.ScoreResolved)
	}
	if diag.MinRecords > 0 {
		fmt.Fprintf(w, "  records:  %d (need %d)\n", diag.Records, diag.MinRecords)
	}
}

