package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/wheelsim/internal/analysis"
	"github.com/san-kum/wheelsim/internal/experiment"
	"github.com/san-kum/wheelsim/internal/scenario"
	"github.com/san-kum/wheelsim/internal/storage"
)

var (
	sweepParam  string
	sweepMin    float64
	sweepMax    float64
	sweepPoints int
	saveRuns    bool
	showBifurc  bool
)

func newScenarioCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of episodes",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	cmd.Flags().BoolVar(&saveRuns, "save", true, "store every step as a run")
	return cmd
}

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "vary one parameter and compare returns",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addEpisodeFlags(cmd)
	cmd.Flags().StringVar(&sweepParam, "param", "mass_wheel", "field to sweep (yaml name)")
	cmd.Flags().Float64Var(&sweepMin, "min", 0.01, "first value")
	cmd.Flags().Float64Var(&sweepMax, "max", 0.2, "last value")
	cmd.Flags().IntVar(&sweepPoints, "points", 5, "number of values")
	cmd.Flags().BoolVar(&showBifurc, "bifurcation", false, "plot late-time theta_rod peaks per value")
	return cmd
}

func runScenario(cmd *cobra.Command, args []string) error {
	s, err := scenario.LoadScenario(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("scenario %s: %d steps\n", s.Name, len(s.Steps))
	results, err := scenario.Run(cmd.Context(), s, experiment.NewRegistry(), logger)

	var st *storage.Store
	if saveRuns {
		st = openStore()
		if err := st.Init(); err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tNAME\tCTRL\tSTEPS\tRETURN\tRUN")
	for i, r := range results {
		runID := "-"
		if st != nil {
			id, serr := st.Save(storage.Run{
				Seed:        r.Config.Seed,
				Params:      r.Config.Params(),
				Controller:  r.Config.Controller,
				TorqueLimit: r.Config.TorqueLimit,
				Window:      storage.Window{Width: r.Config.WindowWidth, Height: r.Config.WindowHeight},
			}, r.Result)
			if serr != nil {
				return serr
			}
			runID = id
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%.4f\t%s\n",
			i+1, r.Step.Name, r.Config.Controller, r.Result.StepsTaken, r.Result.Return, runID)
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}

	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	sw := &scenario.Sweep{
		Base:      *cfg,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepPoints,
	}

	fmt.Printf("sweeping %s over [%g, %g] (%s, seed %d)\n\n", sweepParam, sweepMin, sweepMax, cfg.Controller, cfg.Seed)
	results, err := scenario.RunSweep(cmd.Context(), sw, experiment.NewRegistry())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tRETURN\tUPRIGHT\tFINAL_THETA\n", sweepParam)
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%.4f\t%.3f\t%+.4f\n", r.ParamValue, r.Return, r.Metrics["upright"], r.FinalState.Rod)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if showBifurc {
		params := make([]float64, len(results))
		series := make([][]float64, len(results))
		for i, r := range results {
			params[i] = r.ParamValue
			series[i] = r.RodAngles
		}
		fmt.Printf("\ntheta_rod peaks (last half) vs %s\n", sweepParam)
		fmt.Print(analysis.BifurcationToASCII(analysis.Bifurcation(params, series, 0.5), 60, 15))
	}
	return nil
}
