package dataset

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	domainerrors "github.com/mahabbalab/mahabba-server/internal/errors"
)

// Source is a readable tabular resource.
type Source interface {
	// Open reads the whole resource. Failures are RESOURCE_LOAD errors.
	Open(ctx context.Context) (*Table, error)
	// Path returns the configured location, for diagnostics.
	Path() string
}

// Options configures source construction.
type Options struct {
	FetchTimeout time.Duration // Applies to HTTP sources (default: 30s)
	HTTPClient   *http.Client  // Optional client override
}

const defaultFetchTimeout = 30 * time.Second

// SQLiteScheme prefixes SQLite table locations: sqlite://file.db?table=name.
const SQLiteScheme = "sqlite://"

// New returns the Source for path, chosen by its scheme:
// http(s) URLs, sqlite:// tables, or a local file.
func New(path string, opts Options) Source {
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = defaultFetchTimeout
	}

	switch {
	case strings.HasPrefix(path, "http://"), strings.HasPrefix(path, "https://"):
		client := opts.HTTPClient
		if client == nil {
			client = &http.Client{Timeout: opts.FetchTimeout}
		}
		return &HTTPSource{URL: path, Client: client}
	case strings.HasPrefix(path, SQLiteScheme):
		return &SQLiteSource{Location: path}
	default:
		return &FileSource{File: path}
	}
}

// FileSource reads a delimited text file from disk.
type FileSource struct {
	File string
}

// Path implements Source.
func (s *FileSource) Path() string { return s.File }

// Open implements Source.
func (s *FileSource) Open(ctx context.Context) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, domainerrors.ResourceLoad(s.File, err)
	}

	f, err := os.Open(s.File) //#nosec G304 -- dataset path comes from configuration
	if err != nil {
		return nil, domainerrors.ResourceLoad(s.File, err)
	}
	defer f.Close()

	table, err := Parse(f)
	if err != nil {
		return nil, domainerrors.ResourceLoad(s.File, err)
	}
	table.Source = s.File
	return table, nil
}

// HTTPSource fetches a delimited text resource over HTTP.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

// Path implements Source.
func (s *HTTPSource) Path() string { return s.URL }

// Open implements Source. Any non-2xx response is a load failure.
func (s *HTTPSource) Open(ctx context.Context) (*Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, domainerrors.ResourceLoad(s.URL, err)
	}
	req.Header.Set("Accept", "text/csv, text/tab-separated-values, text/plain;q=0.9, */*;q=0.5")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, domainerrors.ResourceLoad(s.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, domainerrors.ResourceLoad(s.URL, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	table, err := Parse(resp.Body)
	if err != nil {
		return nil, domainerrors.ResourceLoad(s.URL, err)
	}
	table.Source = s.URL
	return table, nil
}
