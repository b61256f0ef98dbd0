// Package output renders per-sample classification results as HTML,
// tab-delimited, JSON or coloured terminal reports.
package output

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/inodb/vibe-mdr/internal/sample"
)

// Report is the input of every formatter.
type Report struct {
	RunID     string           `json:"run_id"`
	Generated time.Time        `json:"generated"`
	Catalog   string           `json:"catalog"`
	Samples   []*sample.Result `json:"samples"`
}

// NewReport stamps a new report with a run ID and the current time.
func NewReport(catalogName string, samples []*sample.Result) *Report {
	return &Report{
		RunID:     uuid.NewString(),
		Generated: time.Now(),
		Catalog:   catalogName,
		Samples:   samples,
	}
}

// Date returns the generation date as YYYY-MM-DD.
func (r *Report) Date() string {
	return r.Generated.Format(time.DateOnly)
}

// Formatter is the interface for outputting reports.
type Formatter interface {
	Format(w io.Writer, r *Report) error
}

// Output format names.
const (
	FormatHTML     = "html"
	FormatTab      = "tab"
	FormatJSON     = "json"
	FormatTerminal = "terminal"
)

// NewFormatter returns the formatter for the named format.
func NewFormatter(format string, noColor bool) (Formatter, error) {
	switch format {
	case FormatHTML:
		return &HTMLFormatter{}, nil
	case FormatTab:
		return &TabFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	case FormatTerminal:
		return &TerminalFormatter{NoColor: noColor}, nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}
