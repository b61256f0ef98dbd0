package output

import (
	"bufio"
	"io"
	"strings"
)

// StatusSensitive marks samples without findings in tabular output.
const StatusSensitive = "SENSITIVE"

var tabColumns = []string{
	"Sample",
	"Gene",
	"AA_Change",
	"Drug",
	"Status",
	"Tier",
}

// TabFormatter writes one line per classified mutation.
type TabFormatter struct{}

func (f *TabFormatter) Format(w io.Writer, r *Report) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(strings.Join(tabColumns, "\t") + "\n")

	for _, s := range r.Samples {
		if !s.HasFindings {
			writeTabRow(bw, s.Sample, "-", "-", "-", StatusSensitive, "-")
			continue
		}
		for _, m := range s.Mutations {
			writeTabRow(bw, s.Sample, m.Gene, m.Change, m.Drug, m.Tier.Label(), string(m.Tier))
		}
	}

	return bw.Flush()
}

func writeTabRow(w *bufio.Writer, values ...string) {
	w.WriteString(strings.Join(values, "\t") + "\n")
}
