package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/wheelsim/internal/analysis"
	"github.com/san-kum/wheelsim/internal/sim"
	"github.com/san-kum/wheelsim/internal/storage"
	"github.com/san-kum/wheelsim/internal/viz"
	"github.com/san-kum/wheelsim/internal/wheelpole"
)

func openStore() *storage.Store {
	st := storage.New(dataDir)
	st.SetLogger(logger)
	return st
}

func loadRun(runID string) (*storage.RunMetadata, *sim.Result, error) {
	st := openStore()
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	result, err := st.LoadStates(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(result.States) == 0 {
		return nil, nil, fmt.Errorf("run %s has no recorded states", runID)
	}
	return meta, result, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := openStore().List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tCTRL\tSTEPS\tSEED\tRETURN")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.4f\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Controller,
			run.Steps,
			run.Seed,
			run.Return,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("controller: %s\n", meta.Controller)
	fmt.Printf("samples: %d\n\n", len(result.States))

	series := []struct {
		caption string
		pick    func(wheelpole.State) float64
	}{
		{"theta_rod (rad)", func(s wheelpole.State) float64 { return s.Rod }},
		{"theta_rod_dot (rad/s)", func(s wheelpole.State) float64 { return s.RodDot }},
		{"theta_wheel_dot (rad/s)", func(s wheelpole.State) float64 { return s.WheelDot }},
	}

	for _, sr := range series {
		data := make([]float64, len(result.States))
		for i, s := range result.States {
			data[i] = sr.pick(s)
		}
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(sr.caption),
		))
		fmt.Println()
	}

	if len(result.Rewards) > 1 {
		fmt.Println(asciigraph.Plot(result.Rewards,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("reward"),
		))
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSONTo(os.Stdout, storage.NewExportData(meta, result))
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.WriteCSV(os.Stdout, result)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("analysis: %s\n", meta.ID)
	fmt.Printf("controller: %s\n\n", meta.Controller)

	angles := result.RodAngles()
	if len(angles) < 8 {
		return fmt.Errorf("run %s is too short to analyze", meta.ID)
	}

	ps := analysis.PowerSpectrum(angles)
	plotData := ps[1 : len(ps)/4+1]
	fmt.Println(asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (theta_rod)"),
	))
	fmt.Println()

	freq, err := analysis.DominantFrequency(angles, meta.Params.Dt)
	if err != nil {
		return err
	}
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	peak, at := analysis.PeakAbs(angles)
	fmt.Printf("peak |theta_rod|: %.4f rad at t=%.3f s\n", peak, result.Times[at])

	settle := analysis.SettlingTime(result.Times, angles, wheelpole.Deg2Rad(1))
	if settle < 0 {
		fmt.Println("settling time (1 deg): never")
	} else {
		fmt.Printf("settling time (1 deg): %.3f s\n", settle)
	}

	if sepSteps > 0 {
		rate, err := analysis.SeparationRate(meta.Params, result.States[0], sepSteps, 1e-8)
		if err != nil {
			return err
		}
		fmt.Printf("separation rate (unforced, %d steps): %+.4f 1/s\n", sepSteps, rate)
	}

	fmt.Println()
	fmt.Println("phase portrait (theta_rod vs theta_rod_dot)")
	fmt.Print(analysis.PhasePortraitToASCII(analysis.RodPortrait(result.States), 60, 20))

	return nil
}

// runFrame is the frame a run was configured with, falling back to the
// default for runs saved without a window size.
func runFrame(meta *storage.RunMetadata) viz.Frame {
	frame := viz.DefaultFrame()
	if meta.Window.Width > 0 && meta.Window.Height > 0 {
		frame.Width, frame.Height = meta.Window.Width, meta.Window.Height
	}
	return frame
}

func snapshotRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	var svg string
	if trace {
		svg = viz.AngleTraceToSVG(result.Times, result.RodAngles(), 800, 300, "#0066cc")
	} else {
		frame := runFrame(meta)
		canvas := frame.NewCanvas()
		final := result.States[len(result.States)-1]
		frame.Draw(canvas, meta.Params, final.Rod)
		svg = viz.CanvasToSVG(canvas, 4)
	}
	if svg == "" {
		return fmt.Errorf("run %s has too few samples for a snapshot", meta.ID)
	}

	path := outFile
	if path == "" {
		path = meta.ID + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
