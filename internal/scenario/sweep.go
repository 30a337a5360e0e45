package scenario

import (
	"context"
	"fmt"

	"github.com/san-kum/wheelsim/internal/config"
	"github.com/san-kum/wheelsim/internal/experiment"
	"github.com/san-kum/wheelsim/internal/wheelpole"
)

// Sweep varies one config field across evenly spaced values.
type Sweep struct {
	Base      config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

type SweepResult struct {
	ParamValue float64
	FinalState wheelpole.State
	RodAngles  []float64
	Return     float64
	Metrics    map[string]float64
}

// RunSweep executes the sweep. Every point starts from the same seed so only
// the swept field differs.
func RunSweep(ctx context.Context, sw *Sweep, registry *experiment.Registry) ([]SweepResult, error) {
	if sw.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one point, got %d", sw.NumSteps)
	}

	results := make([]SweepResult, 0, sw.NumSteps)
	paramStep := 0.0
	if sw.NumSteps > 1 {
		paramStep = (sw.ParamMax - sw.ParamMin) / float64(sw.NumSteps-1)
	}

	for i := 0; i < sw.NumSteps; i++ {
		val := sw.ParamMin + float64(i)*paramStep

		cfg := sw.Base
		if sw.Base.InitState != nil {
			init := *sw.Base.InitState
			cfg.InitState = &init
		}
		if err := cfg.Set(sw.ParamName, val); err != nil {
			return nil, err
		}

		exp := experiment.New(cfg, registry, nil)
		if err := exp.Setup(cfg.Seed); err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sw.ParamName, val, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sw.ParamName, val, err)
		}

		results = append(results, SweepResult{
			ParamValue: val,
			FinalState: result.States[len(result.States)-1],
			RodAngles:  result.RodAngles(),
			Return:     result.Return,
			Metrics:    result.Metrics,
		})
	}

	return results, nil
}
