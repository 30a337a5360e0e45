package sim

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Factory builds an independent driver for one rollout. Every call must
// return a driver with its own model, controller and metrics.
type Factory func(seed uint64) (*Driver, error)

// Ensemble runs seeded rollouts in parallel.
type Ensemble struct {
	build     Factory
	numRuns   int
	seedStart uint64
	workers   int
	logger    *zap.Logger
}

func NewEnsemble(build Factory, numRuns int, seedStart uint64) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, seedStart: seedStart, logger: zap.NewNop()}
}

// SetWorkers bounds how many rollouts run at once. Zero means unbounded.
func (e *Ensemble) SetWorkers(n int) { e.workers = n }

func (e *Ensemble) SetLogger(l *zap.Logger) {
	if l != nil {
		e.logger = l
	}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	if e.numRuns <= 0 {
		return nil, fmt.Errorf("ensemble needs at least one run, got %d", e.numRuns)
	}

	results := make([]*Result, e.numRuns)
	g, ctx := errgroup.WithContext(ctx)
	if e.workers > 0 {
		g.SetLimit(e.workers)
	}

	for i := 0; i < e.numRuns; i++ {
		idx := i
		g.Go(func() error {
			seed := e.seedStart + uint64(idx)
			d, err := e.build(seed)
			if err != nil {
				return fmt.Errorf("build run %d: %w", idx, err)
			}
			res, err := d.Run(ctx, cfg)
			if err != nil {
				return fmt.Errorf("run %d (seed %d): %w", idx, seed, err)
			}
			results[idx] = res
			e.logger.Debug("rollout finished",
				zap.Int("run", idx),
				zap.Uint64("seed", seed),
				zap.Float64("return", res.Return))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Summary aggregates returns across an ensemble.
type Summary struct {
	Runs   int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

func Summarize(results []*Result) Summary {
	if len(results) == 0 {
		return Summary{}
	}
	returns := make([]float64, len(results))
	for i, r := range results {
		returns[i] = r.Return
	}
	mean, std := stat.MeanStdDev(returns, nil)
	if len(returns) == 1 {
		std = 0
	}
	return Summary{
		Runs:   len(results),
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(returns),
		Max:    floats.Max(returns),
	}
}
