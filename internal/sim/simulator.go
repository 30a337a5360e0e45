package sim

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/wheelsim/internal/wheelpole"
)

// Driver owns a model and a controller and runs episodes. It is not safe for
// concurrent use; see Ensemble for parallel rollouts.
type Driver struct {
	model      *wheelpole.Pendulum
	controller Controller
	metrics    []Metric
	observers  []Observer
	logger     *zap.Logger
}

type Option func(*Driver)

func WithLogger(l *zap.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

func New(model *wheelpole.Pendulum, controller Controller, opts ...Option) *Driver {
	d := &Driver{
		model:      model,
		controller: controller,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Driver) AddMetric(m Metric)     { d.metrics = append(d.metrics, m) }
func (d *Driver) AddObserver(o Observer) { d.observers = append(d.observers, o) }

func (d *Driver) Model() *wheelpole.Pendulum { return d.model }
func (d *Driver) Controller() Controller     { return d.controller }

// Run resets the model and steps it cfg.Steps times. On error the partial
// result recorded so far is returned along with it.
func (d *Driver) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		States:  make([]wheelpole.State, 0, cfg.Steps+1),
		Torques: make([]float64, 0, cfg.Steps),
		Rewards: make([]float64, 0, cfg.Steps),
		Times:   make([]float64, 0, cfg.Steps+1),
		Metrics: make(map[string]float64),
	}

	d.begin(cfg)
	dt := d.model.Params().Dt
	t := 0.0

	result.States = append(result.States, d.model.State())
	result.Times = append(result.Times, t)

	d.logger.Debug("episode started",
		zap.Int("steps", cfg.Steps),
		zap.Float64("theta_rod", d.model.State().Rod))

	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			d.finish(result)
			return result, ctx.Err()
		default:
		}

		x := d.model.State()
		u := d.torque(x, t, cfg)

		_, reward, done, err := d.model.Step(u)
		if err != nil {
			d.finish(result)
			return result, &SimError{Time: t, Step: i, Err: err}
		}

		for _, m := range d.metrics {
			m.Observe(x, u, reward, t)
		}

		t += dt
		result.StepsTaken++
		result.Return += reward
		result.States = append(result.States, d.model.State())
		result.Torques = append(result.Torques, u)
		result.Rewards = append(result.Rewards, reward)
		result.Times = append(result.Times, t)

		for _, obs := range d.observers {
			if err := obs.OnStep(d.model.State(), u, t); err != nil {
				d.finish(result)
				return result, fmt.Errorf("observer at step %d: %w", i, err)
			}
		}

		if done {
			break
		}
	}

	d.finish(result)
	d.logger.Debug("episode finished",
		zap.Int("steps", result.StepsTaken),
		zap.Float64("return", result.Return))

	return result, nil
}

// RunWithCallback streams an episode to fn without recording it. The run
// stops early when fn returns false.
func (d *Driver) RunWithCallback(ctx context.Context, cfg Config, fn func(x wheelpole.State, torque, reward, t float64) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	d.begin(cfg)
	dt := d.model.Params().Dt
	t := 0.0

	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		u := d.torque(d.model.State(), t, cfg)
		_, reward, done, err := d.model.Step(u)
		if err != nil {
			return &SimError{Time: t, Step: i, Err: err}
		}
		t += dt

		if !fn(d.model.State(), u, reward, t) || done {
			return nil
		}
	}

	return nil
}

func (d *Driver) begin(cfg Config) {
	for _, m := range d.metrics {
		m.Reset()
	}
	if r, ok := d.controller.(Resetter); ok {
		r.Reset()
	}
	for _, o := range d.observers {
		if r, ok := o.(Resetter); ok {
			r.Reset()
		}
	}

	d.model.Reset()
	if cfg.Init != nil {
		d.model.SetState(*cfg.Init)
	}
}

func (d *Driver) torque(x wheelpole.State, t float64, cfg Config) float64 {
	return wheelpole.ClipTorque(d.controller.Compute(x, t), cfg.TorqueLimit)
}

func (d *Driver) finish(result *Result) {
	for _, m := range d.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validateConfig(cfg Config) error {
	if cfg.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", cfg.Steps)
	}
	if cfg.TorqueLimit < 0 {
		return fmt.Errorf("torque limit must not be negative, got %f", cfg.TorqueLimit)
	}
	return nil
}
