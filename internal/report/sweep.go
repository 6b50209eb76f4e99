package report

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/modelbench/internal/harness"
)

// Sweep prints one row per benchmarked model and, for more than one model,
// a plot of the mean timed solve.
func (p *Printer) Sweep(reps []*harness.Report) {
	if len(reps) == 0 {
		return
	}

	fmt.Fprintln(p.w)
	w := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODEL\tCOMMAND\tOUTCOME\tRUNS\tMEAN ± STDEV\tMIN\tMAX")
	means := make([]float64, len(reps))
	for i, rep := range reps {
		st := rep.Series.Stats()
		means[i] = float64(st.Mean) / float64(time.Millisecond)
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s ± %s\t%s\t%s\n",
			rep.Model,
			rep.Command.Label,
			satWord(rep.Result.Satisfiable),
			st.Count,
			ms(st.Mean),
			ms(st.StdDev),
			ms(st.Min),
			ms(st.Max),
		)
	}
	w.Flush()

	if len(reps) < 2 {
		return
	}
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, asciigraph.Plot(means,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Caption("mean timed solve per model (ms)"),
	))
}
