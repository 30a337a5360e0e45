// Package scenario runs scripted sequences of episodes and parameter sweeps.
package scenario

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/wheelsim/internal/config"
	"github.com/san-kum/wheelsim/internal/experiment"
	"github.com/san-kum/wheelsim/internal/sim"
)

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is one episode. Set values are applied on top of the preset, or the
// defaults when no preset is named.
type Step struct {
	Name       string             `yaml:"name"`
	Preset     string             `yaml:"preset"`
	Controller string             `yaml:"controller"`
	Steps      int                `yaml:"steps"`
	Seed       uint64             `yaml:"seed"`
	Set        map[string]float64 `yaml:"set"`
}

type StepResult struct {
	Step   Step
	Config config.Config
	Result *sim.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("%s: scenario has no steps", path)
	}

	return &s, nil
}

// Config resolves the step into a full run configuration.
func (st Step) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if st.Preset != "" {
		cfg = config.GetPreset(st.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", st.Preset)
		}
	}
	if st.Controller != "" {
		cfg.Controller = st.Controller
	}
	if st.Steps > 0 {
		cfg.Steps = st.Steps
	}
	cfg.Seed = st.Seed
	for k, v := range st.Set {
		if err := cfg.Set(k, v); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Run executes all steps in order, stopping at the first failure. Results of
// the steps that completed are returned along with the error.
func Run(ctx context.Context, s *Scenario, registry *experiment.Registry, logger *zap.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	results := make([]StepResult, 0, len(s.Steps))

	for i, step := range s.Steps {
		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		logger.Info("scenario step",
			zap.String("scenario", s.Name),
			zap.Int("step", i+1),
			zap.String("name", step.Name),
			zap.String("controller", cfg.Controller))

		exp := experiment.New(*cfg, registry, logger)
		if err := exp.Setup(cfg.Seed); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{Step: step, Config: *cfg, Result: result})
	}

	return results, nil
}
