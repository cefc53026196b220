package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/fragdyn/internal/features"
	"github.com/san-kum/fragdyn/internal/fnn"
	"github.com/san-kum/fragdyn/internal/lyapunov"
	"github.com/san-kum/fragdyn/internal/storage"
	"github.com/san-kum/fragdyn/internal/tui"
)

func printHeader(title string) {
	fmt.Println(tui.Header.Render(title))
}

func formatExponent(v float64) string {
	if v == lyapunov.NoEstimate {
		return tui.Sentinel.Render("-1 (no estimate)")
	}
	return fmt.Sprintf("%.6f", v)
}

func printExponents(out io.Writer, minDim int, exps []float64) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DIM\tEXPONENT")
	for i, v := range exps {
		fmt.Fprintf(w, "%d\t%s\n", minDim+i, formatExponent(v))
	}
	return w.Flush()
}

func printRows(out io.Writer, rows []fnn.Row) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER\tFALSE\tMEAN SIZE\tRMS SIZE")
	for _, r := range rows {
		fmt.Fprintf(w, "%d\t%.6f\t%.6g\t%.6g\n", r.Order, r.FalseFraction, r.MeanSize, r.RMSSize)
	}
	return w.Flush()
}

func printFeatures(out io.Writer, feats []features.Feature) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FEATURE\tVALUE")
	for _, f := range feats {
		v := fmt.Sprintf("%.6g", f.Value)
		if strings.HasPrefix(f.Name, "lyap_") {
			v = formatExponent(f.Value)
		}
		fmt.Fprintf(w, "%s\t%s\n", f.Name, v)
	}
	return w.Flush()
}

func printRuns(out io.Writer, runs []storage.RunMetadata) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSOURCE\tTIME\tOFFSET\tLENGTH\tFEATURES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n",
			run.ID,
			run.Source,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Offset,
			run.Length,
			len(run.Features),
		)
	}
	return w.Flush()
}

// featureValues collects the values of features sharing a name prefix, in
// stored order.
func featureValues(feats []features.Feature, prefix string) []float64 {
	var vals []float64
	for _, f := range feats {
		if strings.HasPrefix(f.Name, prefix) {
			vals = append(vals, f.Value)
		}
	}
	return vals
}

// plotSeries draws a curve once there are at least two points.
func plotSeries(data []float64, caption string) {
	if len(data) < 2 {
		return
	}
	graph := asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(60),
		asciigraph.Caption(caption),
	)
	fmt.Println()
	fmt.Println(graph)
}
