package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/wheelsim/internal/config"
	"github.com/san-kum/wheelsim/internal/experiment"
	"github.com/san-kum/wheelsim/internal/optim"
	"github.com/san-kum/wheelsim/internal/sim"
	"github.com/san-kum/wheelsim/internal/storage"
	"github.com/san-kum/wheelsim/internal/viz"
	"github.com/san-kum/wheelsim/internal/wheelpole"
)

var (
	dataDir     string
	verbose     bool
	steps       int
	seed        uint64
	controller  string
	torqueLimit float64
	theta       float64
	kp          float64
	ki          float64
	kd          float64
	target      float64
	configFile  string
	preset      string
	render      bool
	renderEvery int
	frameRate   int
	numRuns     int
	workers     int
	metricName  string
	kpRange     []float64
	kdRange     []float64
	outFile     string
	trace       bool
	sepSteps    int

	logger = zap.NewNop()
)

const ensembleLong = `Run seeded rollouts in parallel and summarize returns.

Each rollout samples its own start angle from its seed unless the resolved
config pins one (--theta, a preset such as spin, or init_state).`

// main registers the wheelsim commands and exits with status 1 if the
// selected command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:          "wheelsim",
		Short:        "reaction wheel pendulum simulator",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(verbose)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".wheelsim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless episode and save it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addEpisodeFlags(runCmd)
	runCmd.Flags().BoolVar(&render, "render", false, "draw the pendulum in the terminal")
	runCmd.Flags().IntVar(&renderEvery, "render-every", 10, "draw every n steps")
	runCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate limit")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive view with keyboard torque",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addEpisodeFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency, settling and phase analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&sepSteps, "separation-steps", 2000, "steps for the separation rate estimate (0 skips it)")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [run_id]",
		Short: "write the final frame as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshotRun,
	}
	snapshotCmd.Flags().StringVarP(&outFile, "out", "o", "", "output path (default <run_id>.svg)")
	snapshotCmd.Flags().BoolVar(&trace, "trace", false, "plot the rod angle over time instead")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run seeded rollouts in parallel and summarize returns",
		Long:  ensembleLong,
		Args:  cobra.NoArgs,
		RunE:  runEnsemble,
	}
	addEpisodeFlags(ensembleCmd)
	ensembleCmd.Flags().IntVarP(&numRuns, "runs", "n", 16, "number of rollouts")
	ensembleCmd.Flags().IntVar(&workers, "workers", 0, "parallel rollouts (0 = unbounded)")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search PID gains",
		Args:  cobra.NoArgs,
		RunE:  tunePID,
	}
	addEpisodeFlags(tuneCmd)
	tuneCmd.Flags().StringVar(&metricName, "metric", "return", "metric to maximize")
	tuneCmd.Flags().Float64SliceVar(&kpRange, "kp-range", []float64{0, 6, 7}, "kp grid: min,max,points")
	tuneCmd.Flags().Float64SliceVar(&kdRange, "kd-range", []float64{0, 1, 5}, "kd grid: min,max,points")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the model",
		Args:  cobra.NoArgs,
		RunE:  benchModel,
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportJSONCmd, exportCSVCmd,
		analyzeCmd, snapshotCmd, presetsCmd, ensembleCmd, tuneCmd, benchCmd,
		newScenarioCmd(), newSweepCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func addEpisodeFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "episode length")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (0 = time based)")
	cmd.Flags().StringVar(&controller, "controller", "none", "controller")
	cmd.Flags().Float64Var(&torqueLimit, "torque-limit", 0, "clamp torque to ±limit (0 = off)")
	cmd.Flags().Float64Var(&theta, "theta", 0, "initial rod angle in rad (default sampled)")
	cmd.Flags().Float64Var(&kp, "kp", config.DefaultKp, "pid kp")
	cmd.Flags().Float64Var(&ki, "ki", config.DefaultKi, "pid ki")
	cmd.Flags().Float64Var(&kd, "kd", config.DefaultKd, "pid kd")
	cmd.Flags().Float64Var(&target, "target", 0, "pid target")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// resolveConfig layers defaults, preset, config file and explicitly set
// flags, in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.LoadOnto(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("controller") {
		cfg.Controller = controller
	}
	if flags.Changed("torque-limit") {
		cfg.TorqueLimit = torqueLimit
	}
	if flags.Changed("theta") {
		if cfg.InitState == nil {
			cfg.InitState = &config.InitStateConfig{}
		}
		cfg.InitState.ThetaRod = theta
	}
	if flags.Changed("kp") {
		cfg.ControllerParams.Kp = kp
	}
	if flags.Changed("ki") {
		cfg.ControllerParams.Ki = ki
	}
	if flags.Changed("kd") {
		cfg.ControllerParams.Kd = kd
	}
	if flags.Changed("target") {
		cfg.ControllerParams.Target = target
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func frameFor(cfg *config.Config) viz.Frame {
	f := viz.DefaultFrame()
	f.Width, f.Height = cfg.WindowWidth, cfg.WindowHeight
	return f
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	st.SetLogger(logger)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(*cfg, nil, logger)
	if err := exp.Setup(cfg.Seed); err != nil {
		return err
	}

	if render {
		term := viz.NewTerminal(os.Stdout, cfg.Params(), frameFor(cfg), frameRate)
		defer term.Close()
		exp.GetDriver().AddObserver(sim.NewRenderObserver(term, renderEvery))
	} else {
		fmt.Printf("running %s for %d steps...\n", cfg.Controller, cfg.Steps)
	}

	start := time.Now()
	result, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(storage.Run{
		Seed:        cfg.Seed,
		Params:      cfg.Params(),
		Controller:  cfg.Controller,
		TorqueLimit: cfg.TorqueLimit,
		Window:      storage.Window{Width: cfg.WindowWidth, Height: cfg.WindowHeight},
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("return: %.6f\n", result.Return)
	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)

	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	model, err := wheelpole.New(cfg.Params(), wheelpole.DefaultStarter(cfg.Seed))
	if err != nil {
		return err
	}

	var auto sim.Controller
	if cfg.Controller != "none" && cfg.Controller != "manual" {
		auto, err = experiment.NewRegistry().GetController(cfg.Controller, cfg.GetControllerParams())
		if err != nil {
			return err
		}
	}

	m := viz.NewModel(model, auto, cfg.Controller, frameFor(cfg), cfg.TorqueLimit, cfg.GetInitState())
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	// rollouts sample their own start unless the config pins one
	exp := experiment.New(*cfg, nil, logger)
	simCfg := exp.SimConfig()

	ens := sim.NewEnsemble(exp.Build, numRuns, cfg.Seed)
	ens.SetWorkers(workers)
	ens.SetLogger(logger)

	start := time.Now()
	results, err := ens.Run(cmd.Context(), simCfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	s := sim.Summarize(results)
	fmt.Printf("ensemble: %d rollouts of %d steps (%s) in %v\n", s.Runs, simCfg.Steps, cfg.Controller, elapsed)
	fmt.Printf("seeds: %d..%d\n\n", cfg.Seed, cfg.Seed+uint64(numRuns)-1)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MEAN\tSTD\tMIN\tMAX")
	fmt.Fprintf(w, "%.4f\t%.4f\t%.4f\t%.4f\n", s.Mean, s.StdDev, s.Min, s.Max)
	return w.Flush()
}

func tunePID(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if len(kpRange) != 3 || len(kdRange) != 3 {
		return fmt.Errorf("ranges take min,max,points")
	}

	gs := optim.NewGridSearch(
		[]string{"kp", "kd"},
		[][]float64{
			optim.Linspace(kpRange[0], kpRange[1], int(kpRange[2])),
			optim.Linspace(kdRange[0], kdRange[1], int(kdRange[2])),
		},
	)
	gs.SetLogger(logger)

	build := func(params map[string]float64) (*experiment.Experiment, error) {
		c := *cfg
		c.Controller = "pid"
		c.ControllerParams.Kp = params["kp"]
		c.ControllerParams.Kd = params["kd"]
		exp := experiment.New(c, nil, logger)
		if err := exp.Setup(cfg.Seed); err != nil {
			return nil, err
		}
		return exp, nil
	}

	fmt.Printf("tuning pid (%s, %d steps, seed %d)...\n", metricName, cfg.Steps, cfg.Seed)
	best, val, err := gs.Search(cmd.Context(), build, metricName)
	if err != nil {
		return err
	}

	fmt.Printf("best kp=%.4f kd=%.4f %s=%.6f\n", best["kp"], best["kd"], metricName, val)
	return nil
}

func benchModel(cmd *cobra.Command, args []string) error {
	p := wheelpole.DefaultParams()
	lengths := []int{1000, 10000, 100000}

	fmt.Printf("benchmarking wheelpole (dt=%.4f)\n\n", p.Dt)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CONTROLLER\tSTEPS\tTIME\tSTEPS/SEC")

	registry := experiment.NewRegistry()
	for _, name := range []string{"none", "lqr"} {
		for _, n := range lengths {
			model, err := wheelpole.New(p, wheelpole.DefaultStarter(42))
			if err != nil {
				return err
			}
			ctrl, err := registry.GetController(name, nil)
			if err != nil {
				return err
			}
			d := sim.New(model, ctrl)

			start := time.Now()
			result, err := d.Run(cmd.Context(), sim.Config{Steps: n})
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%s\t%d\t%v\t%.0f\n",
				name, result.StepsTaken, elapsed, float64(result.StepsTaken)/elapsed.Seconds())
		}
	}

	return w.Flush()
}
