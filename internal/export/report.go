package export

import (
	"fmt"

	oerrors "github.com/ezexport/cli/internal/errors"
)

// Status is the outcome of one candidate.
type Status string

const (
	StatusExported Status = "exported"
	StatusSkipped  Status = "skipped"
	StatusFailed   Status = "failed"
)

// ItemResult is the outcome of one candidate.
type ItemResult struct {
	Name    string   `json:"name"`
	Outputs []string `json:"outputs,omitempty"`
	Status  Status   `json:"status"`
	Message string   `json:"message,omitempty"`
}

// ItemFailure names a failed candidate and its cause.
type ItemFailure struct {
	Name string
	Err  error
}

// Error implements error.
func (f ItemFailure) Error() string {
	return fmt.Sprintf("%s: %v", f.Name, f.Err)
}

// Unwrap returns the underlying cause.
func (f ItemFailure) Unwrap() error { return f.Err }

// Report summarises one export run. A report is produced even when items
// fail.
type Report struct {
	// Kind is the export entry point: collections, armatures or selected.
	Kind      string       `json:"kind"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Skipped   int          `json:"skipped"`
	Items     []ItemResult `json:"items"`
	// NothingToExport is set when discovery found no candidates.
	NothingToExport bool `json:"nothingToExport,omitempty"`
	// Message is an informational note, such as why nothing was exported.
	Message string `json:"message,omitempty"`

	Failures []ItemFailure `json:"-"`
}

func newReport(kind string) *Report {
	return &Report{Kind: kind, Items: []ItemResult{}}
}

func (r *Report) exported(name string, outputs []string) {
	r.Succeeded++
	r.Items = append(r.Items, ItemResult{Name: name, Outputs: outputs, Status: StatusExported})
}

func (r *Report) skipped(name, reason string) {
	r.Skipped++
	r.Items = append(r.Items, ItemResult{Name: name, Status: StatusSkipped, Message: reason})
}

func (r *Report) failed(name string, outputs []string, err error) {
	r.Failed++
	r.Items = append(r.Items, ItemResult{Name: name, Outputs: outputs, Status: StatusFailed, Message: err.Error()})
	r.Failures = append(r.Failures, ItemFailure{Name: name, Err: err})
}

// Outputs returns every file written, in order.
func (r *Report) Outputs() []string {
	var out []string
	for _, it := range r.Items {
		if it.Status == StatusExported {
			out = append(out, it.Outputs...)
		}
	}
	return out
}

// Err returns an error wrapping ErrExport when any item failed.
func (r *Report) Err() error {
	if r.Failed == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d items failed: %w", r.Failed, len(r.Items), oerrors.ErrExport)
}
