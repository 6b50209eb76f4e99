// Package report prints benchmark results for humans and machines.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/modelbench/internal/harness"
	"github.com/san-kum/modelbench/internal/model"
)

// Printer writes the human-readable report. Each method prints one stage so
// that earlier facts reach the output before later stages can fail.
type Printer struct {
	w  io.Writer
	st styles
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, st: newStyles(w)}
}

func (p *Printer) Executing(cmd model.Command) {
	fmt.Fprintf(p.w, "%s %s\n", p.st.Header.Render("Executing command:"), cmd.Label)
	fmt.Fprintln(p.w, p.st.Subtle.Render("  "+cmd.String()))
}

// Result prints timing and classification, plus summary statistics and a
// plot when the benchmark was repeated.
func (p *Printer) Result(rep *harness.Report) {
	p.Finished(rep)

	outcome := p.st.Instance
	if !rep.Classification.Satisfiable {
		outcome = p.st.NoInstance
	}
	fmt.Fprintln(p.w, outcome.Render(rep.Classification.Outcome))
	for _, v := range rep.Classification.Views(rep.Command.Kind) {
		fmt.Fprintln(p.w, "  "+v)
	}

	if !rep.ExpectationMet() {
		fmt.Fprintln(p.w, p.st.Warning.Render(
			fmt.Sprintf("Expected %s, got %s", rep.Command.Expect, satWord(rep.Result.Satisfiable))))
	}

	if len(rep.Series) > 1 {
		p.series(rep.Series)
	}
}

func (p *Printer) Finished(rep *harness.Report) {
	fmt.Fprintf(p.w, "Finished in %dms\n", rep.Result.ElapsedMillis())
}

func (p *Printer) Saved(path string) {
	fmt.Fprintf(p.w, "Visualization saved to %s\n", path)
}

func (p *Printer) series(s harness.Series) {
	st := s.Stats()
	fmt.Fprintln(p.w)
	w := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	row := func(label, value string) {
		fmt.Fprintf(w, "%s\t%s\n", p.st.MetricLabel.Render(label), p.st.MetricValue.Render(value))
	}
	row("runs", fmt.Sprintf("%d", st.Count))
	row("mean", fmt.Sprintf("%s ± %s", ms(st.Mean), ms(st.StdDev)))
	row("min", ms(st.Min))
	row("max", ms(st.Max))
	w.Flush()

	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, asciigraph.Plot(s.Millis(),
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Caption("timed solve per repetition (ms)"),
	))
}

func ms(d time.Duration) string {
	return fmt.Sprintf("%.2fms", float64(d)/float64(time.Millisecond))
}

func satWord(sat bool) string {
	if sat {
		return "sat"
	}
	return "unsat"
}
