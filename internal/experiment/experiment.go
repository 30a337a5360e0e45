package experiment

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/wheelsim/internal/config"
	"github.com/san-kum/wheelsim/internal/sim"
	"github.com/san-kum/wheelsim/internal/wheelpole"
)

// Experiment wires a config into a model, controller and driver.
type Experiment struct {
	cfg      config.Config
	registry *Registry
	driver   *sim.Driver
	logger   *zap.Logger
}

func New(cfg config.Config, registry *Registry, logger *zap.Logger) *Experiment {
	if registry == nil {
		registry = NewRegistry()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Experiment{cfg: cfg, registry: registry, logger: logger}
}

// Setup builds a fresh driver seeded with seed and the default metrics.
func (e *Experiment) Setup(seed uint64) error {
	d, err := e.Build(seed)
	if err != nil {
		return err
	}
	e.driver = d
	return nil
}

// Build returns an independent driver for seed. Used directly by ensembles,
// which need one driver per rollout.
func (e *Experiment) Build(seed uint64) (*sim.Driver, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}

	p := e.cfg.Params()
	model, err := wheelpole.New(p, wheelpole.DefaultStarter(seed))
	if err != nil {
		return nil, err
	}

	params := e.cfg.GetControllerParams()
	params["seed"] = float64(seed)
	ctrl, err := e.registry.GetController(e.cfg.Controller, params)
	if err != nil {
		return nil, err
	}

	d := sim.New(model, ctrl, sim.WithLogger(e.logger.With(zap.Uint64("seed", seed))))
	for _, m := range e.registry.DefaultMetrics(p) {
		d.AddMetric(m)
	}
	return d, nil
}

func (e *Experiment) SimConfig() sim.Config {
	return sim.Config{
		Steps:       e.cfg.Steps,
		TorqueLimit: e.cfg.TorqueLimit,
		Init:        e.cfg.GetInitState(),
	}
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.driver == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.driver.Run(ctx, e.SimConfig())
}

// GetDriver returns the underlying driver for adding observers
func (e *Experiment) GetDriver() *sim.Driver {
	return e.driver
}

func (e *Experiment) Config() config.Config {
	return e.cfg
}
