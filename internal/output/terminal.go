package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/inodb/vibe-mdr/internal/classify"
)

// TerminalFormatter prints a coloured per-sample summary.
type TerminalFormatter struct {
	NoColor bool
}

type palette struct {
	red, yellow, green, bold, dim *color.Color
}

func (f *TerminalFormatter) palette() palette {
	p := palette{
		red:    color.New(color.FgRed, color.Bold),
		yellow: color.New(color.FgYellow),
		green:  color.New(color.FgGreen, color.Bold),
		bold:   color.New(color.Bold),
		dim:    color.New(color.Faint),
	}
	if f.NoColor || os.Getenv("NO_COLOR") != "" {
		for _, c := range []*color.Color{p.red, p.yellow, p.green, p.bold, p.dim} {
			c.DisableColor()
		}
	}
	return p
}

func (f *TerminalFormatter) Format(w io.Writer, r *Report) error {
	p := f.palette()

	fmt.Fprintf(w, "%s  %s\n", p.bold.Sprint("MDR Genomic Analysis Report"), p.dim.Sprint(r.Date()))

	resistant := 0
	for _, s := range r.Samples {
		fmt.Fprintf(w, "\n%s\n", p.bold.Sprintf("SAMPLE: %s", s.Sample))
		if !s.HasFindings {
			fmt.Fprintf(w, "  %s\n", p.green.Sprint("No relevant resistance mutations found (Sensitive)"))
			continue
		}
		if s.Resistant() > 0 {
			resistant++
		}
		for _, m := range s.Mutations {
			status := p.yellow.Sprint(m.Tier.Label())
			if m.Tier.Resistant() {
				status = p.red.Sprint(m.Tier.Label())
			}
			fmt.Fprintf(w, "  %-8s %-20s %-32s %s\n", m.Gene, m.Change, m.Drug, status)
		}
		if s.SkippedRows > 0 {
			fmt.Fprintf(w, "  %s\n", p.dim.Sprintf("(%d malformed rows skipped)", s.SkippedRows))
		}
	}

	fmt.Fprintf(w, "\n%d samples, %d with resistance %s\n", len(r.Samples), resistant, tierLegend(p))
	return nil
}

func tierLegend(p palette) string {
	return p.dim.Sprintf("[%s / %s / %s]",
		classify.TierResistantAcquired.Label(),
		classify.TierResistantExact.Label(),
		classify.TierVariantUncertain.Label())
}
