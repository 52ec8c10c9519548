package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/coulombsim/internal/analysis"
	"github.com/san-kum/coulombsim/internal/automation"
	"github.com/san-kum/coulombsim/internal/config"
	"github.com/san-kum/coulombsim/internal/dynamo"
	"github.com/san-kum/coulombsim/internal/experiment"
	"github.com/san-kum/coulombsim/internal/export"
	"github.com/san-kum/coulombsim/internal/observability"
	"github.com/san-kum/coulombsim/internal/optim"
	"github.com/san-kum/coulombsim/internal/sim"
	"github.com/san-kum/coulombsim/internal/storage"
	"github.com/san-kum/coulombsim/internal/viz"
)

var (
	dataDir    string
	logLevel   string
	logFormat  string
	logFile    string
	configFile string
	dt         float64
	duration   float64
	integrator string
	mode       string
	exportPath string
	noSave     bool
	plotCharge int
	pairCharge int
	xAxis      int
	yAxis      int
	perturb    float64
	jitter     float64
	compareDt  float64
	compareDur float64
	svgPath    string
	param      string
	paramMin   float64
	paramMax   float64
	numSteps   int
	metricName string
	gridFlags   []string
	trials     int
	seed       int64

	logger = zap.NewNop()
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "coulombsim",
		Short:         "point charge electrostatics simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = observability.NewLogger(config.LogConfig{Level: logLevel, Format: logFormat, File: logFile})
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".coulombsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write JSON logs to this file")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a simulation and save it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addSetupFlags(runCmd)
	runCmd.Flags().StringVar(&exportPath, "export", "", "also write the run as JSON to this path (- for stdout)")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not save the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a charge's coordinates and the first pair separation",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotCharge, "charge", 0, "charge index")

	traceCmd := &cobra.Command{
		Use:   "trace [run_id]",
		Short: "draw the paths of every charge",
		Args:  cobra.ExactArgs(1),
		RunE:  traceRun,
	}
	traceCmd.Flags().IntVar(&xAxis, "x-axis", 0, "axis drawn horizontally (0=x, 1=y, 2=z)")
	traceCmd.Flags().IntVar(&yAxis, "y-axis", 1, "axis drawn vertically (0=x, 1=y, 2=z)")
	traceCmd.Flags().StringVar(&svgPath, "svg", "", "also write the paths as SVG to this path")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of the separation of two charges",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&pairCharge, "charge", 1, "charge paired with charge 0")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a saved run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [preset] [mover1] [mover2] ...",
		Short: "run one setup with several movers",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareMovers,
	}
	compareCmd.Flags().Float64Var(&compareDt, "dt", 0, "timestep (0 keeps the preset value)")
	compareCmd.Flags().Float64Var(&compareDur, "time", 0, "duration (0 keeps the preset value)")

	sensitivityCmd := &cobra.Command{
		Use:   "sensitivity [preset]",
		Short: "estimate how fast a small displacement of charge 0 grows",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSensitivity,
	}
	addSetupFlags(sensitivityCmd)
	sensitivityCmd.Flags().Float64Var(&perturb, "perturb", 1e-6, "initial displacement of charge 0 along x")

	benchCmd := &cobra.Command{
		Use:   "bench [preset]",
		Short: "measure steps per second",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchPreset,
	}
	benchCmd.Flags().StringVar(&integrator, "integrator", "", "mover (displacement or an integrator name)")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file.yaml]",
		Short: "run every step of a scenario file and save each run",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "run a preset across a range of one parameter",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addSetupFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&param, "param", "correction_factor", fmt.Sprintf("parameter to sweep %v", config.Tunable))
	sweepCmd.Flags().Float64Var(&paramMin, "min", 0.5, "first value")
	sweepCmd.Flags().Float64Var(&paramMax, "max", 2.0, "last value")
	sweepCmd.Flags().IntVar(&numSteps, "steps", 5, "number of values")

	optimizeCmd := &cobra.Command{
		Use:     "optimize [preset]",
		Short:   "grid search parameters for the smallest metric",
		Example: "  coulombsim optimize kinetic --grid dt=0.004,0.008,0.016 --grid softening=0.01,0.05 --metric energy_drift",
		Args:    cobra.MaximumNArgs(1),
		RunE:    runOptimize,
	}
	addSetupFlags(optimizeCmd)
	optimizeCmd.Flags().StringArrayVar(&gridFlags, "grid", nil, "name=v1,v2,... (repeatable)")
	optimizeCmd.Flags().StringVar(&metricName, "metric", "energy_drift", "metric to minimize")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [preset]",
		Short: "rerun a preset with jittered charge positions",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMonteCarlo,
	}
	addSetupFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().Float64Var(&jitter, "perturb", 0.1, "maximum jitter per axis")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 uses the clock)")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "watch a simulation in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSetupFlags(liveCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCHARGES\tMOVER\tDURATION")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%s\t%.1fs\n", name, len(p.Charges), p.Integrator, p.Duration)
			}
			return w.Flush()
		},
	}

	moversCmd := &cobra.Command{
		Use:   "movers",
		Short: "list movers",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range experiment.NewRegistry().ListMovers() {
				fmt.Println(name)
			}
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, traceCmd, analyzeCmd, exportCmd,
		compareCmd, sensitivityCmd, scenarioCmd, sweepCmd, optimizeCmd, monteCarloCmd,
		benchCmd, liveCmd, presetsCmd, moversCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addSetupFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml or toml)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().StringVar(&integrator, "integrator", config.DisplacementMover, "mover (displacement or an integrator name)")
	cmd.Flags().StringVar(&mode, "mode", "2d", "coordinate mode (2d or 3d)")
}

// loadConfig resolves the preset or config file, then applies any flags the
// user set explicitly.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, string, error) {
	name := "custom"
	var cfg *config.Config

	switch {
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		name = strings.TrimSuffix(filepath.Base(configFile), filepath.Ext(configFile))
	case len(args) > 0:
		cfg = config.GetPreset(args[0])
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
		}
		name = args[0]
	default:
		cfg = config.GetPreset("dipole")
		name = "dipole"
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("mode") {
		cfg.Mode = mode
	}
	return cfg, name, cfg.Validate()
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	exp, err := experiment.New(cfg, nil, logger)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %s (%d charges, %s)...\n", name, exp.Engine().Len(), moverName(cfg))
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil && result == nil {
		return err
	}
	if err != nil {
		fmt.Printf("interrupted: %v\n", err)
	}
	elapsed := time.Since(start)

	meta := metadataFor(name, cfg)
	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(meta, result)
		if err != nil {
			return err
		}
		meta.ID = runID
		fmt.Printf("run id: %s\n", runID)
	}
	if exportPath != "" {
		if err := storage.ExportJSON(exportPath, meta, result); err != nil {
			return err
		}
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}
	printMetrics(result.Metrics)
	return nil
}

func moverName(cfg *config.Config) string {
	if cfg.UsesIntegrator() {
		return cfg.Integrator
	}
	return config.DisplacementMover
}

func metadataFor(name string, cfg *config.Config) storage.RunMetadata {
	return storage.RunMetadata{
		Name:       name,
		Mode:       cfg.Mode,
		Integrator: moverName(cfg),
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
	}
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, m[name])
	}
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

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tMODE\tCHARGES\tSTEPS\tDT\tMOVER")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%.4fs\t%s\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Mode,
			len(run.ChargeIDs),
			run.Steps,
			run.Dt,
			run.Integrator,
		)
	}

	return w.Flush()
}

// loadResult rebuilds a result from a saved run.
func loadResult(runID string) (*storage.RunMetadata, *sim.Result, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}

	times, positions, err := st.LoadTrajectory(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(times) == 0 {
		return nil, nil, fmt.Errorf("run %s has no frames", runID)
	}

	result := &sim.Result{
		Frames:     make([]dynamo.Frame, len(times)),
		Metrics:    meta.Metrics,
		StepsTaken: meta.Steps,
	}
	for i := range times {
		result.Frames[i] = dynamo.Frame{Step: i, Time: times[i], Positions: positions[i], Charges: meta.Charges}
	}
	return meta, result, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadResult(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("charges: %d\n", len(meta.ChargeIDs))
	fmt.Printf("samples: %d\n\n", len(result.Frames))

	axes := []string{"x", "y", "z"}
	for axis, label := range axes {
		data := result.Series(plotCharge, axis)
		if len(data) == 0 {
			return fmt.Errorf("no charge %d in run %s", plotCharge, meta.ID)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("charge %d %s vs time", plotCharge, label)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if sep := result.Separation(0, 1); len(sep) > 0 {
		graph := asciigraph.Plot(sep,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption("separation of charges 0 and 1"),
		)
		fmt.Println(graph)
	}
	return nil
}

func traceRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadResult(args[0])
	if err != nil {
		return err
	}

	traces := make([]*analysis.Trace, 0, len(meta.ChargeIDs))
	for i := range meta.ChargeIDs {
		tr := analysis.TraceCharge(result, i, xAxis, yAxis)
		if tr == nil {
			return fmt.Errorf("axes must be 0, 1 or 2")
		}
		traces = append(traces, tr)
	}

	fmt.Print(analysis.TraceToASCII(traces, 70, 24))
	for i := range traces {
		fmt.Printf("%c = charge %d (q=%g)\n", 'a'+i%26, i, meta.Charges[i])
	}

	if svgPath != "" {
		if err := export.WriteFile(svgPath, export.TracesToSVG(traces, 800, 600)); err != nil {
			return err
		}
		fmt.Printf("svg written to %s\n", svgPath)
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadResult(args[0])
	if err != nil {
		return err
	}

	sep := result.Separation(0, pairCharge)
	if len(sep) < 2 {
		return fmt.Errorf("need two charges and two frames")
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("separation of charges 0 and %d\n\n", pairCharge)

	ps := analysis.PowerSpectrum(sep)
	plotData := ps
	if len(ps) > 8 {
		plotData = ps[:len(ps)/4]
	}
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum"),
	)
	fmt.Println(graph)
	fmt.Println()

	freq := analysis.DominantFrequency(sep, meta.Dt)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	mean := 0.0
	for _, v := range sep {
		mean += v
	}
	mean /= float64(len(sep))
	crossings := analysis.Crossings(result.Times(), sep, mean)
	if len(crossings) > 1 {
		period := (crossings[len(crossings)-1] - crossings[0]) / float64(len(crossings)-1)
		fmt.Printf("mean crossings: %d (period %.3f s)\n", len(crossings), period)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadResult(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON("-", *meta, result)
}

func compareMovers(cmd *cobra.Command, args []string) error {
	base := config.GetPreset(args[0])
	if base == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
	}
	if compareDt > 0 {
		base.Dt = compareDt
	}
	if compareDur > 0 {
		base.Duration = compareDur
	}

	ctx, cancel := signalContext()
	defer cancel()

	results := make([]*sim.Result, 0, len(args)-1)
	for _, mover := range args[1:] {
		cfg := base.Clone()
		cfg.Integrator = mover

		exp, err := experiment.New(cfg, nil, logger)
		if err != nil {
			return fmt.Errorf("%s: %w", mover, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", mover, err)
		}
		results = append(results, result)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MOVER\tSTEPS\tMIN SEP\tPATH\tENERGY DRIFT\tDIVERGENCE")
	for i, result := range results {
		fmt.Fprintf(w, "%s\t%d\t%.4f\t%.4f\t%.3g\t%.3g\n",
			args[i+1],
			result.StepsTaken,
			result.Metrics["min_separation"],
			result.Metrics["path_length"],
			result.Metrics["energy_drift"],
			analysis.Divergence(results[0], result),
		)
	}
	return w.Flush()
}

func runSensitivity(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if len(cfg.Charges) == 0 {
		return fmt.Errorf("%s has no charges", name)
	}

	ctx, cancel := signalContext()
	defer cancel()

	base, err := experiment.New(cfg, nil, logger)
	if err != nil {
		return err
	}
	a, err := base.Run(ctx)
	if err != nil {
		return err
	}

	shifted := cfg.Clone()
	shifted.Charges[0].Position[0] += perturb
	other, err := experiment.New(shifted, nil, logger)
	if err != nil {
		return err
	}
	b, err := other.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("%s: divergence rate %.4g 1/s over %.2fs\n", name, analysis.Divergence(a, b), cfg.Duration)
	return nil
}

func benchPreset(cmd *cobra.Command, args []string) error {
	name := "triangle"
	if len(args) > 0 {
		name = args[0]
	}
	base := config.GetPreset(name)
	if base == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
	}
	if cmd.Flags().Changed("integrator") {
		base.Integrator = integrator
	}

	durations := []float64{1.0, 5.0}
	dts := []float64{0.001, 0.016}

	fmt.Printf("benchmarking %s (%s)\n\n", name, moverName(base))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DURATION\tDT\tSTEPS\tTIME\tSTEPS/SEC")

	for _, dur := range durations {
		for _, step := range dts {
			cfg := base.Clone()
			cfg.Dt, cfg.Duration = step, dur

			exp, err := experiment.New(cfg, nil, logger)
			if err != nil {
				return err
			}

			start := time.Now()
			result, err := exp.Run(context.Background())
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			stepsPerSec := float64(result.StepsTaken) / elapsed.Seconds()
			fmt.Fprintf(w, "%.1fs\t%.4fs\t%d\t%v\t%.0f\n",
				dur, step, result.StepsTaken, elapsed, stepsPerSec)
		}
	}

	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	exp, err := experiment.New(cfg, nil, logger)
	if err != nil {
		return err
	}
	return viz.Run(exp, name)
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, runErr := automation.RunScenario(ctx, sc, nil, logger)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	for i, result := range results {
		step := sc.Steps[i]
		cfg, err := step.Resolve()
		if err != nil {
			return err
		}
		runID, err := st.Save(metadataFor(step.Label(i), cfg), result)
		if err != nil {
			return err
		}
		fmt.Printf("step %d: %s (%d steps)\n", i+1, runID, result.StepsTaken)
	}
	return runErr
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Base:     cfg,
		Param:    param,
		Min:      paramMin,
		Max:      paramMax,
		NumSteps: numSteps,
	}, nil, logger)
	if err != nil {
		return err
	}

	fmt.Printf("sweep %s over %s\n\n", name, param)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tSTEPS\tMIN SEP\tPATH\tENERGY DRIFT\tERRORS\n", strings.ToUpper(param))
	for _, r := range results {
		fmt.Fprintf(w, "%g\t%d\t%.4f\t%.4f\t%.3g\t%d\n",
			r.Value, r.Steps,
			r.Metrics["min_separation"],
			r.Metrics["path_length"],
			r.Metrics["energy_drift"],
			r.Errors,
		)
	}
	return w.Flush()
}

// parseGrid reads repeated name=v1,v2,... flags.
func parseGrid(entries []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(entries))
	ranges := make([][]float64, 0, len(entries))
	for _, entry := range entries {
		name, list, ok := strings.Cut(entry, "=")
		if !ok || name == "" || list == "" {
			return nil, nil, fmt.Errorf("bad grid %q, want name=v1,v2", entry)
		}
		var values []float64
		for _, field := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("grid %s: %w", name, err)
			}
			values = append(values, v)
		}
		names = append(names, strings.TrimSpace(name))
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	names, ranges, err := parseGrid(gridFlags)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("at least one --grid is required")
	}

	ctx, cancel := signalContext()
	defer cancel()

	best, val, err := optim.NewGridSearch(names, ranges).Search(ctx, cfg, nil, metricName)
	if err != nil {
		return err
	}

	fmt.Printf("%s: best %s = %.6g\n", name, metricName, val)
	for _, n := range names {
		fmt.Printf("  %s = %g\n", n, best[n])
	}
	return nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Base:         cfg,
		Perturbation: jitter,
		NumTrials:    trials,
		Seed:         seed,
	}, nil, logger)
	if err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	closest := math.Inf(1)
	for _, r := range results {
		closest = math.Min(closest, r.MinSeparation)
	}
	fmt.Printf("%s: %d trials, %d stable, %d unstable\n", name, len(results), stable, unstable)
	fmt.Printf("closest approach: %.4f\n", closest)
	return nil
}
