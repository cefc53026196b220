package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/san-kum/fragdyn/internal/config"
	"github.com/san-kum/fragdyn/internal/synth"
)

var (
	dataDir      string
	configFile   string
	preset       string
	verbose      bool
	showProgress bool

	offset int64
	length int

	minDim    int
	maxDim    int
	lyapDelay int
	window    int
	epsMin    float64
	epsMax    float64
	epsCount  int
	horizon   int
	reference int
	absolute  bool
	workers   int

	minEmb   int
	maxEmb   int
	ratio    float64
	fnnDelay int
	theiler  int
	eps0     float64

	extractors []string
	noSave     bool
	samples    int
	outFile    string
	signalOpts = synth.DefaultOptions()
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "fragdyn",
		Short:         "nonlinear invariants of byte fragments and time series",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".fragdyn", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.BoolVar(&showProgress, "progress", false, "show estimator progress")

	lyapCmd := &cobra.Command{
		Use:   "lyap [file]",
		Short: "maximal Lyapunov exponent per embedding dimension",
		Args:  cobra.ExactArgs(1),
		RunE:  runLyapunov,
	}
	fragmentFlags(lyapCmd)
	lyapunovFlags(lyapCmd, "delay")

	fnnCmd := &cobra.Command{
		Use:   "fnn [file]",
		Short: "false nearest neighbor fraction per embedding order",
		Args:  cobra.ExactArgs(1),
		RunE:  runFNN,
	}
	fragmentFlags(fnnCmd)
	fnnFlags(fnnCmd, "delay")

	extractCmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "extract all features of a file fragment",
		Args:  cobra.ExactArgs(1),
		RunE:  runExtract,
	}
	fragmentFlags(extractCmd)
	lyapunovFlags(extractCmd, "lyap-delay")
	fnnFlags(extractCmd, "fnn-delay")
	extractFlags(extractCmd)

	synthCmd := &cobra.Command{
		Use:   "synth [signal]",
		Short: "extract features of a reference signal",
		Args:  cobra.ExactArgs(1),
		RunE:  runSynth,
	}
	synthCmd.Flags().IntVarP(&samples, "samples", "n", 4096, "number of samples")
	synthCmd.Flags().StringVarP(&outFile, "out", "o", "", "write the signal as csv")
	synthFlags(synthCmd)
	lyapunovFlags(synthCmd, "lyap-delay")
	fnnFlags(synthCmd, "fnn-delay")
	extractFlags(synthCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show stored features of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	rootCmd.AddCommand(lyapCmd, fnnCmd, extractCmd, synthCmd, listCmd, showCmd, presetsCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func fragmentFlags(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&offset, "offset", 0, "fragment start in bytes")
	cmd.Flags().IntVar(&length, "length", 0, "fragment length in bytes (0 reads to end)")
}

// lyapunovFlags registers the Kantz estimator flags. Commands that also
// carry the FNN flags pass a prefixed name for the delay.
func lyapunovFlags(cmd *cobra.Command, delayFlag string) {
	f := cmd.Flags()
	f.IntVar(&minDim, "min-dim", 2, "minimal embedding dimension")
	f.IntVar(&maxDim, "max-dim", config.DefaultMaxDim, "maximal embedding dimension")
	f.IntVar(&lyapDelay, delayFlag, 1, "lyapunov embedding delay")
	f.IntVar(&window, "window", 0, "theiler window")
	f.Float64Var(&epsMin, "eps-min", 1e-3, "smallest neighborhood radius")
	f.Float64Var(&epsMax, "eps-max", 1e-2, "largest neighborhood radius")
	f.IntVar(&epsCount, "eps-count", 5, "number of radii")
	f.IntVar(&horizon, "horizon", 10, "prediction horizon in steps")
	f.IntVar(&reference, "reference", 0, "number of reference points (0 for all)")
	f.BoolVar(&absolute, "absolute", false, "radii are in data units")
	f.IntVar(&workers, "workers", 1, "radii computed concurrently")
}

func fnnFlags(cmd *cobra.Command, delayFlag string) {
	f := cmd.Flags()
	f.IntVar(&minEmb, "min-emb", 1, "minimal embedding order")
	f.IntVar(&maxEmb, "max-emb", config.DefaultMaxEmb, "maximal embedding order")
	f.Float64Var(&ratio, "ratio", config.DefaultRatio, "distance ratio marking a false neighbor")
	f.IntVar(&fnnDelay, delayFlag, 1, "fnn embedding delay")
	f.IntVar(&theiler, "theiler", 0, "theiler window")
	f.Float64Var(&eps0, "eps0", 1e-5, "starting search radius")
}

func synthFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64Var(&signalOpts.Omega, "omega", signalOpts.Omega, "sine phase step per sample")
	f.Float64Var(&signalOpts.R, "r", signalOpts.R, "logistic map parameter")
	f.Float64Var(&signalOpts.Rho, "rho", signalOpts.Rho, "lorenz rayleigh number")
	f.Float64Var(&signalOpts.C, "c", signalOpts.C, "rossler c")
}

func extractFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&extractors, "extractors", "e", nil, "extractors to run (default all)")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
}

// loadConfig resolves defaults, then the preset, then the config file, then
// flags set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	f := cmd.Flags()
	if f.Changed("offset") {
		cfg.Fragment.Offset = offset
	}
	if f.Changed("length") {
		cfg.Fragment.Length = length
	}

	lyapDelayFlag, fnnDelayFlag := "lyap-delay", "fnn-delay"
	switch cmd.Name() {
	case "lyap":
		lyapDelayFlag = "delay"
	case "fnn":
		fnnDelayFlag = "delay"
	}
	applyLyapunovFlags(f, &cfg.Lyapunov, lyapDelayFlag)
	applyFNNFlags(f, &cfg.FNN, fnnDelayFlag)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyLyapunovFlags copies changed flags into l. Flags the command does not
// define never report as changed.
func applyLyapunovFlags(f *pflag.FlagSet, l *config.LyapunovConfig, delayFlag string) {
	if f.Changed("min-dim") {
		l.MinDim = minDim
	}
	if f.Changed("max-dim") {
		l.MaxDim = maxDim
	}
	if f.Changed(delayFlag) {
		l.Delay = lyapDelay
	}
	if f.Changed("window") {
		l.Window = window
	}
	if f.Changed("eps-min") {
		l.EpsilonMin = epsMin
	}
	if f.Changed("eps-max") {
		l.EpsilonMax = epsMax
	}
	if f.Changed("eps-count") {
		l.EpsilonCount = epsCount
	}
	if f.Changed("horizon") {
		l.Horizon = horizon
	}
	if f.Changed("reference") {
		l.Reference = reference
	}
	if f.Changed("absolute") {
		l.AbsoluteEpsilon = absolute
	}
	if f.Changed("workers") {
		l.Workers = workers
	}
}

func applyFNNFlags(f *pflag.FlagSet, n *config.FNNConfig, delayFlag string) {
	if f.Changed("min-emb") {
		n.MinEmb = minEmb
	}
	if f.Changed("max-emb") {
		n.MaxEmb = maxEmb
	}
	if f.Changed("ratio") {
		n.Ratio = ratio
	}
	if f.Changed(delayFlag) {
		n.Delay = fnnDelay
	}
	if f.Changed("theiler") {
		n.Theiler = theiler
	}
	if f.Changed("eps0") {
		n.Epsilon0 = eps0
	}
}
