package dataset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	domainerrors "github.com/mahabbalab/mahabba-server/internal/errors"
)

var (
	errMissingTable = errors.New("missing table parameter")
	errBadTable     = errors.New("invalid table name")

	tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// SQLiteSource reads one table of a SQLite database as a dataset.
// Column names become headers and every cell is rendered as text.
type SQLiteSource struct {
	Location string // sqlite://path/to/file.db?table=texts
}

// Path implements Source.
func (s *SQLiteSource) Path() string { return s.Location }

// parseLocation splits the location into database file and table name.
func (s *SQLiteSource) parseLocation() (file, table string, err error) {
	rest := strings.TrimPrefix(s.Location, SQLiteScheme)
	file, rawQuery, _ := strings.Cut(rest, "?")
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return "", "", fmt.Errorf("parse location: %w", err)
	}

	table = query.Get("table")
	if table == "" {
		return "", "", errMissingTable
	}
	if !tableName.MatchString(table) {
		return "", "", fmt.Errorf("%w: %q", errBadTable, table)
	}
	return file, table, nil
}

// Open implements Source. The database is opened read-only.
func (s *SQLiteSource) Open(ctx context.Context) (*Table, error) {
	file, table, err := s.parseLocation()
	if err != nil {
		return nil, domainerrors.ResourceLoad(s.Location, err)
	}

	// Opening a missing file would create an empty database.
	if _, err := os.Stat(file); err != nil {
		return nil, domainerrors.ResourceLoad(s.Location, err)
	}

	db, err := sql.Open("sqlite", "file:"+file+"?mode=ro")
	if err != nil {
		return nil, domainerrors.ResourceLoad(s.Location, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT * FROM "`+table+`"`) //#nosec G202 -- table name is validated above
	if err != nil {
		return nil, domainerrors.ResourceLoad(s.Location, err)
	}
	defer rows.Close()

	headers, err := rows.Columns()
	if err != nil {
		return nil, domainerrors.ResourceLoad(s.Location, err)
	}

	records := [][]string{headers}
	for rows.Next() {
		cells := make([]any, len(headers))
		ptrs := make([]any, len(headers))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, domainerrors.ResourceLoad(s.Location, err)
		}

		rec := make([]string, len(cells))
		for i, c := range cells {
			rec[i] = cellText(c)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, domainerrors.ResourceLoad(s.Location, err)
	}

	t, err := fromRecords(records)
	if err != nil {
		return nil, domainerrors.ResourceLoad(s.Location, err)
	}
	t.Source = s.Location
	return t, nil
}

// cellText renders a scanned SQLite value the way it would appear in a CSV export.
func cellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}
