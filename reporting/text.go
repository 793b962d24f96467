package reporting

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/forgeworks/crucible/types"
)

// TextReporter is the reference console reporter: one progress glyph per
// completed test as results arrive, then every failure grouped by its
// owning test, a summary table, the humanized duration and the seed used
// for the run.
type TextReporter struct {
	w         io.Writer
	completed []*types.Test
	failed    []*types.Test
}

// NewTextReporter creates a reporter writing to w
func NewTextReporter(w io.Writer) *TextReporter {
	return &TextReporter{w: w}
}

func (r *TextReporter) Passed(t *types.Test) {
	r.completed = append(r.completed, t)
	fmt.Fprint(r.w, text.FgGreen.Sprint("."))
}

func (r *TextReporter) Failed(t *types.Test) {
	r.completed = append(r.completed, t)
	r.failed = append(r.failed, t)
	fmt.Fprint(r.w, text.FgRed.Sprint("F"))
}

func (r *TextReporter) Finished(duration time.Duration, seed uint64) bool {
	fmt.Fprintln(r.w)

	if len(r.failed) > 0 {
		fmt.Fprintln(r.w)
		for _, t := range r.failed {
			fmt.Fprintf(r.w, "%s %s (%s:%d)\n", text.FgRed.Sprint("✗"), t.Name, t.SourcePath, t.SourceLine)
			for _, f := range t.Failures {
				fmt.Fprintf(r.w, "    expected: %s\n", f.Expected)
				fmt.Fprintf(r.w, "    got:      %s\n", f.Got)
				fmt.Fprintf(r.w, "    at:       %s:%d\n", f.SourcePath, f.SourceLine)
			}
		}
	}

	r.printSummaryTable()

	fmt.Fprintf(r.w, "\nFinished %d test(s) in %s (seed %d)\n", len(r.completed), FormatDuration(duration), seed)
	return len(r.failed) == 0
}

func (r *TextReporter) printSummaryTable() {
	t := table.NewWriter()
	t.SetOutputMirror(r.w)
	t.SetTitle("Test Results")

	t.AppendHeader(table.Row{"ID", "Test", "Duration", "Failures", "Status"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Test", WidthMax: 50, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Failures", Align: text.AlignRight},
	})

	failed := 0
	for _, tc := range r.completed {
		t.AppendRow(table.Row{
			tc.ID,
			tc.Name,
			FormatDuration(tc.Duration),
			len(tc.Failures),
			resultString(tc.Status()),
		})
		if !tc.Passed() {
			failed++
		}
	}

	if failed == 0 {
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	} else {
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	}

	status := types.TestStatusPass
	if failed > 0 {
		status = types.TestStatusFail
	}
	t.AppendFooter(table.Row{
		"TOTAL", "", "", failed, resultString(status),
	})

	t.Render()
}

// resultString returns a short glyph-prefixed string for a test status
func resultString(status types.TestStatus) string {
	if status == types.TestStatusPass {
		return "✓ pass"
	}
	return "✗ fail"
}
