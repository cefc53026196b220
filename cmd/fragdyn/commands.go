package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/fragdyn/internal/config"
	"github.com/san-kum/fragdyn/internal/dynamo"
	"github.com/san-kum/fragdyn/internal/features"
	"github.com/san-kum/fragdyn/internal/fnn"
	"github.com/san-kum/fragdyn/internal/lyapunov"
	"github.com/san-kum/fragdyn/internal/storage"
	"github.com/san-kum/fragdyn/internal/synth"
	"github.com/san-kum/fragdyn/internal/tui"
)

func readSeries(path string, cfg *config.Config) (dynamo.Series, error) {
	data, err := features.ReadFragment(path, cfg.Fragment.Offset, cfg.Fragment.Length)
	if err != nil {
		return nil, err
	}
	slog.Debug("fragment loaded", "path", path, "offset", cfg.Fragment.Offset, "bytes", len(data))
	return features.FromBytes(data), nil
}

// compute runs work directly, or under the progress view with --progress.
func compute(ctx context.Context, title string, work tui.WorkFunc) error {
	if showProgress {
		return tui.Run(ctx, title, work)
	}
	return work(ctx, nil)
}

func runLyapunov(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	x, err := readSeries(args[0], cfg)
	if err != nil {
		return err
	}

	p := cfg.LyapunovParams()
	var exps []float64
	start := time.Now()
	err = compute(cmd.Context(), "lyapunov "+args[0], func(ctx context.Context, progress dynamo.ProgressFunc) error {
		p.Progress = progress
		var err error
		exps, err = lyapunov.Exponents(ctx, x, p)
		return err
	})
	if err != nil {
		return err
	}

	printHeader(fmt.Sprintf("lyapunov exponents of %s (%d samples, %v)", args[0], len(x), time.Since(start).Round(time.Millisecond)))
	if err := printExponents(os.Stdout, p.MinDim, exps); err != nil {
		return err
	}
	plotSeries(exps, "max exponent by dimension")
	return nil
}

func runFNN(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	x, err := readSeries(args[0], cfg)
	if err != nil {
		return err
	}

	p := cfg.FNNParams()
	var rows []fnn.Row
	start := time.Now()
	err = compute(cmd.Context(), "fnn "+args[0], func(ctx context.Context, progress dynamo.ProgressFunc) error {
		p.Progress = progress
		var err error
		rows, err = fnn.Fractions(ctx, x, p)
		return err
	})
	if err != nil {
		return err
	}

	printHeader(fmt.Sprintf("false nearest neighbors of %s (%d samples, %v)", args[0], len(x), time.Since(start).Round(time.Millisecond)))
	if err := printRows(os.Stdout, rows); err != nil {
		return err
	}

	fractions := make([]float64, len(rows))
	for i, r := range rows {
		fractions[i] = r.FalseFraction
	}
	plotSeries(fractions, "false neighbor fraction by order")
	return nil
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	x, err := readSeries(args[0], cfg)
	if err != nil {
		return err
	}
	return extract(cmd.Context(), args[0], x, cfg)
}

func runSynth(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	x, err := synth.Generate(args[0], samples, signalOpts)
	if err != nil {
		return err
	}

	if outFile != "" {
		if err := writeSeries(outFile, x); err != nil {
			return err
		}
		fmt.Printf("wrote %d samples to %s\n", len(x), outFile)
	}
	if err := extract(cmd.Context(), "synth:"+args[0], x, cfg); err != nil {
		return err
	}

	ref, ok, err := synth.ReferenceExponent(args[0], signalOpts)
	if err != nil {
		return err
	}
	if ok {
		fmt.Printf("reference exponent per sample: %s\n", tui.Value.Render(fmt.Sprintf("%.6f", ref)))
	}
	return nil
}

func extract(ctx context.Context, source string, x dynamo.Series, cfg *config.Config) error {
	reg := features.NewRegistry()

	var feats []features.Feature
	start := time.Now()
	err := compute(ctx, "extract "+source, func(ctx context.Context, progress dynamo.ProgressFunc) error {
		var err error
		feats, err = reg.Extract(ctx, x, cfg, extractors, progress)
		return err
	})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	printHeader(fmt.Sprintf("features of %s (%d samples, %v)", source, len(x), elapsed.Round(time.Millisecond)))
	if err := printFeatures(os.Stdout, feats); err != nil {
		return err
	}

	if noSave {
		return nil
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	names := extractors
	if len(names) == 0 {
		names = reg.List()
	}
	runID, err := st.Save(source, cfg, names, feats)
	if err != nil {
		return err
	}
	slog.Info("run stored", "id", runID, "features", len(feats))
	fmt.Printf("\nrun id: %s\n", tui.Value.Render(runID))
	return nil
}

func writeSeries(path string, x dynamo.Series) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"step", "x"}); err != nil {
		return err
	}
	for i, v := range x {
		if err := w.Write([]string{strconv.Itoa(i), strconv.FormatFloat(v, 'g', -1, 64)}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}
	return printRuns(os.Stdout, runs)
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	feats, err := st.LoadFeatures(args[0])
	if err != nil {
		return err
	}

	printHeader("run " + meta.ID)
	fmt.Printf("source:     %s\n", meta.Source)
	fmt.Printf("time:       %s\n", meta.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Printf("fragment:   offset %d, length %d\n", meta.Offset, meta.Length)
	fmt.Printf("extractors: %v\n\n", meta.Extractors)

	if err := printFeatures(os.Stdout, feats); err != nil {
		return err
	}
	plotSeries(featureValues(feats, "lyap_d"), "max exponent by dimension")
	plotSeries(featureValues(feats, "fnn_false_m"), "false neighbor fraction by order")
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	fmt.Println("presets:")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Printf("  %-10s lyap d%d-%d, %d radii, horizon %d; fnn m%d-%d, ratio %g\n",
			name,
			p.Lyapunov.MinDim, p.Lyapunov.MaxDim, p.Lyapunov.EpsilonCount, p.Lyapunov.Horizon,
			p.FNN.MinEmb, p.FNN.MaxEmb, p.FNN.Ratio)
	}
	return nil
}
