package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/san-kum/wheelsim/internal/experiment"
)

var ErrNoResult = errors.New("optim: no grid point produced a result")

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	minimize   bool
	logger     *zap.Logger
}

// NewGridSearch searches the cartesian product of ranges, maximizing the
// metric by default.
func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges, logger: zap.NewNop()}
}

func (g *GridSearch) Minimize() *GridSearch {
	g.minimize = true
	return g
}

func (g *GridSearch) SetLogger(l *zap.Logger) {
	if l != nil {
		g.logger = l
	}
}

// Search builds and runs one experiment per grid point. Points whose build or
// run fails are skipped; Search only fails if none succeed or ctx ends.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(params map[string]float64) (*experiment.Experiment, error),
	metricName string,
) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("optim: %d params but %d ranges", len(g.paramNames), len(g.ranges))
	}

	best := math.Inf(-1)
	if g.minimize {
		best = math.Inf(1)
	}
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), buildExperiment, metricName, &best, &bestParams)
	if err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		return nil, 0, ErrNoResult
	}

	return bestParams, best, nil
}

func (g *GridSearch) better(val, best float64) bool {
	if math.IsNaN(val) {
		return false
	}
	if g.minimize {
		return val < best
	}
	return val > best
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	buildExperiment func(map[string]float64) (*experiment.Experiment, error),
	metricName string,
	best *float64,
	bestParams *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		exp, err := buildExperiment(current)
		if err != nil {
			g.logger.Debug("grid point skipped", zap.Any("params", current), zap.Error(err))
			return nil
		}

		result, err := exp.Run(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			g.logger.Debug("grid point failed", zap.Any("params", current), zap.Error(err))
			return nil
		}

		val, ok := result.Metrics[metricName]
		if !ok {
			return fmt.Errorf("optim: metric %q not recorded", metricName)
		}
		g.logger.Debug("grid point", zap.Any("params", current), zap.Float64(metricName, val))

		if g.better(val, *best) {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, buildExperiment, metricName, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}
