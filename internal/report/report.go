package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/preston-bernstein/worldcup-sim/internal/domain/forecast"
)

var columns = []string{"#", "TEAM", "GRP", "1ST", "2ND", "R16", "QF", "SF", "3RD", "FINAL", "WIN"}

// Write renders a forecast as an aligned text table, one row per team in forecast order.
// Probabilities are shown as percentages.
func Write(w io.Writer, f forecast.Forecast) error {
	if _, err := fmt.Fprintf(w, "%d simulated tournaments (run %s, seed %d)\n\n", f.Iterations, f.RunID, f.Seed); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, strings.Join(columns, "\t")+"\t")
	for i, tf := range f.Teams {
		p := tf.Probabilities
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			i+1, tf.Team.Name, tf.Team.Group,
			pct(p.First), pct(p.Second), pct(p.Eighth), pct(p.Quarter),
			pct(p.Semi), pct(p.Third), pct(p.Final), pct(p.Winner),
		)
	}
	return tw.Flush()
}

// String renders a forecast with Write.
func String(f forecast.Forecast) string {
	var sb strings.Builder
	_ = Write(&sb, f)
	return sb.String()
}

func pct(p float64) string {
	return fmt.Sprintf("%.1f", p*100)
}
