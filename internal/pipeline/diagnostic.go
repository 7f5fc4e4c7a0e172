package pipeline

import (
	"errors"

	"github.com/mahabbalab/mahabba-server/internal/domain"
	domainerrors "github.com/mahabbalab/mahabba-server/internal/errors"
)

// Diagnostic is the payload a presentation layer renders when a run fails.
type Diagnostic struct {
	Kind       domainerrors.Code `json:"kind"`
	Source     string            `json:"source"`
	View       string            `json:"view,omitempty"`
	Headers    []string          `json:"headers,omitempty"`
	Detected   map[string]string `json:"detected,omitempty"`
	Missing    []domain.Role     `json:"missing,omitempty"`
	Stages     *StageCounts      `json:"stages,omitempty"`
	Records    int               `json:"records,omitempty"`
	MinRecords int               `json:"min_records,omitempty"`
}

// DiagnosticOf extracts the diagnostic carried by err, if any.
func DiagnosticOf(err error) (Diagnostic, bool) {
	var domainErr *domainerrors.Error
	if !errors.As(err, &domainErr) {
		return Diagnostic{}, false
	}
	d, ok := domainErr.Details.(Diagnostic)
	return d, ok
}

// withDiagnostic attaches d to a coded error, or wraps an uncoded one as a
// resource-load failure.
func withDiagnostic(err error, d Diagnostic) error {
	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) {
		return domainErr.WithDetails(d)
	}
	return domainerrors.ResourceLoad(d.Source, err).WithDetails(d)
}
