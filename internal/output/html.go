package output

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/inodb/vibe-mdr/internal/classify"
	"github.com/inodb/vibe-mdr/internal/sample"
)

// HTMLFormatter renders a standalone HTML report.
type HTMLFormatter struct{}

func (f *HTMLFormatter) Format(w io.Writer, r *Report) error {
	bw := bufio.NewWriter(w)
	if err := reportPage(r).Render(context.Background(), bw); err != nil {
		return err
	}
	return bw.Flush()
}

const pageHead = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>MDR Genomic Analysis Report</title>
<style>
    body { font-family: 'Arial', sans-serif; background-color: #f4f6f9; padding: 20px; }
    .container { max-width: 900px; margin: 0 auto; background: white; padding: 30px; border-radius: 10px; box-shadow: 0 4px 6px rgba(0,0,0,0.1); }
    h1 { color: #2c3e50; border-bottom: 2px solid #3498db; padding-bottom: 10px; }
    table { width: 100%; border-collapse: collapse; margin-top: 20px; }
    th { background-color: #2c3e50; color: white; padding: 12px; text-align: left; }
    td { padding: 12px; border-bottom: 1px solid #ddd; }
    .badge-red { background-color: #e74c3c; color: white; padding: 5px 10px; border-radius: 4px; font-weight: bold; font-size: 12px; }
    .badge-orange { background-color: #f39c12; color: white; padding: 5px 10px; border-radius: 4px; font-weight: bold; font-size: 12px; }
    .sample-header { background-color: #ecf0f1; font-weight: bold; color: #7f8c8d; }
    .meta { color: #95a5a6; font-size: 12px; }
</style>
</head>
<body>
<div class="container">
    <h1>&#x1F9EC; MDR Genomic Analysis Report</h1>
`

const pageTableHead = `    <table>
        <thead>
            <tr>
                <th>Gene</th>
                <th>AA Change</th>
                <th>Target Drug</th>
                <th>Status</th>
            </tr>
        </thead>
        <tbody>
`

const pageFoot = `        </tbody>
    </table>
</div>
</body>
</html>
`

// reportPage renders the whole report document.
func reportPage(r *Report) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(pageHead)
		hw.raw("    <p><b>Date:</b> ")
		hw.text(r.Date())
		hw.raw("</p>\n    <p class=\"meta\">Catalog: ")
		hw.text(r.Catalog)
		hw.raw(" &middot; Run: ")
		hw.text(r.RunID)
		hw.raw("</p>\n")
		hw.raw(pageTableHead)
		if hw.err != nil {
			return hw.err
		}

		for _, s := range r.Samples {
			if err := sampleRows(s).Render(ctx, w); err != nil {
				return err
			}
		}

		hw.raw(pageFoot)
		return hw.err
	})
}

// sampleRows renders the header row and mutation rows of one sample.
func sampleRows(s *sample.Result) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`            <tr class="sample-header"><td colspan="4">SAMPLE: `)
		hw.text(s.Sample)
		hw.raw("</td></tr>\n")

		for _, m := range s.Mutations {
			hw.raw("            <tr>\n                <td><b>")
			hw.text(m.Gene)
			hw.raw("</b></td>\n                <td>")
			hw.text(m.Change)
			hw.raw("</td>\n                <td>")
			hw.text(m.Drug)
			hw.raw("</td>\n                <td>")
			hw.raw(fmt.Sprintf(`<span class="%s">`, templ.EscapeString(badgeClass(m.Tier))))
			hw.text(m.Tier.Label())
			hw.raw("</span></td>\n            </tr>\n")
		}

		if !s.HasFindings {
			hw.raw("            <tr><td colspan=\"4\"><i>No relevant resistance mutations found (Sensitive)</i></td></tr>\n")
		}
		return hw.err
	})
}

// htmlWriter writes markup and escaped text, keeping the first error.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func badgeClass(t classify.Tier) string {
	if t.Resistant() {
		return "badge-red"
	}
	return "badge-orange"
}
