package optim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/wheelsim/internal/config"
	"github.com/san-kum/wheelsim/internal/experiment"
)

func pidExperiment(params map[string]float64) (*experiment.Experiment, error) {
	cfg := *config.DefaultConfig()
	cfg.Controller = "pid"
	cfg.Steps = 1500
	cfg.InitState = &config.InitStateConfig{ThetaRod: 0.1}
	cfg.ControllerParams.Kp = params["kp"]
	cfg.ControllerParams.Kd = params["kd"]

	exp := experiment.New(cfg, nil, nil)
	if err := exp.Setup(0); err != nil {
		return nil, err
	}
	return exp, nil
}

func TestGridSearchPrefersBalancingGains(t *testing.T) {
	gs := NewGridSearch([]string{"kp", "kd"}, [][]float64{{0, 3}, {0, 0.5}})

	best, val, err := gs.Search(context.Background(), pidExperiment, "return")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	// without proportional gain the rod falls over
	if best["kp"] != 3 {
		t.Errorf("expected kp=3, got %v (return %f)", best, val)
	}
	if val >= 0 {
		t.Errorf("return should be negative, got %f", val)
	}
}

func TestGridSearchMinimize(t *testing.T) {
	gs := NewGridSearch([]string{"kp", "kd"}, [][]float64{{0, 3}, {0.5}}).Minimize()

	best, _, err := gs.Search(context.Background(), pidExperiment, "return")
	if err != nil {
		t.Fatal(err)
	}
	if best["kp"] != 0 {
		t.Errorf("expected kp=0 to minimize return, got %v", best)
	}
}

func TestGridSearchErrors(t *testing.T) {
	fail := func(map[string]float64) (*experiment.Experiment, error) {
		return nil, errors.New("boom")
	}
	_, _, err := NewGridSearch([]string{"kp"}, [][]float64{{1, 2}}).Search(context.Background(), fail, "return")
	if !errors.Is(err, ErrNoResult) {
		t.Errorf("expected ErrNoResult, got %v", err)
	}

	_, _, err = NewGridSearch([]string{"kp"}, nil).Search(context.Background(), fail, "return")
	if err == nil {
		t.Error("expected error for mismatched ranges")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = NewGridSearch([]string{"kp"}, [][]float64{{1}}).Search(ctx, pidExperiment, "return")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestLinspace(t *testing.T) {
	got := Linspace(0, 1, 5)
	want := []float64{0, 0.25, 0.5, 0.75, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %f, want %f", i, got[i], want[i])
		}
	}
	if len(Linspace(2, 3, 1)) != 1 {
		t.Error("expected single value")
	}
}
