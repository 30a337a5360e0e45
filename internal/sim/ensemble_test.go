package sim

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/wheelsim/internal/wheelpole"
)

func factory(seed uint64) (*Driver, error) {
	m, err := wheelpole.New(wheelpole.DefaultParams(), wheelpole.DefaultStarter(seed))
	if err != nil {
		return nil, err
	}
	return New(m, &constController{}), nil
}

func TestEnsembleRun(t *testing.T) {
	e := NewEnsemble(factory, 8, 100)
	e.SetWorkers(3)

	results, err := e.Run(context.Background(), Config{Steps: 200})
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != 8 {
		t.Fatalf("expected 8 results, got %d", len(results))
	}

	again, err := NewEnsemble(factory, 8, 100).Run(context.Background(), Config{Steps: 200})
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	for i := range results {
		if results[i].Return != again[i].Return {
			t.Errorf("run %d not reproducible: %f vs %f", i, results[i].Return, again[i].Return)
		}
	}

	if results[0].States[0].Rod == results[1].States[0].Rod {
		t.Error("expected different seeds to start at different angles")
	}
}

func TestEnsembleNoRuns(t *testing.T) {
	if _, err := NewEnsemble(factory, 0, 0).Run(context.Background(), Config{Steps: 10}); err == nil {
		t.Error("expected error for empty ensemble")
	}
}

func TestSummarize(t *testing.T) {
	results := []*Result{{Return: -1}, {Return: -2}, {Return: -3}}
	s := Summarize(results)

	if s.Runs != 3 || s.Mean != -2 || s.Min != -3 || s.Max != -1 {
		t.Errorf("unexpected summary %+v", s)
	}
	if math.Abs(s.StdDev-1) > 1e-12 {
		t.Errorf("expected std 1, got %f", s.StdDev)
	}

	if got := Summarize([]*Result{{Return: -5}}); got.StdDev != 0 {
		t.Errorf("expected zero std for a single run, got %f", got.StdDev)
	}
}
