package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/wheelsim/internal/wheelpole"
)

const (
	DefaultSteps        = 5000
	DefaultWindowWidth  = 800
	DefaultWindowHeight = 600
	DefaultController   = "none"
	DefaultKp           = 3.0
	DefaultKi           = 0.0
	DefaultKd           = 0.5
	DefaultTorqueLimit  = 0.0
	DefaultRandomLimit  = 0.05
)

// Config is a full run description. The physical fields sit at the top level
// so a file can override any of them individually.
type Config struct {
	LenRod    float64 `yaml:"len_rod"`
	LenWheel  float64 `yaml:"len_wheel"`
	RadWheel  float64 `yaml:"rad_wheel"`
	MassRod   float64 `yaml:"mass_rod"`
	MassWheel float64 `yaml:"mass_wheel"`
	Dt        float64 `yaml:"dt"`
	Gravity   float64 `yaml:"gravity"`
	MaxSpeed  float64 `yaml:"max_speed"`

	WindowWidth  int `yaml:"window_width"`
	WindowHeight int `yaml:"window_height"`

	Seed             uint64           `yaml:"seed"`
	Steps            int              `yaml:"steps"`
	TorqueLimit      float64          `yaml:"torque_limit"`
	Controller       string           `yaml:"controller"`
	InitState        *InitStateConfig `yaml:"init_state,omitempty"`
	ControllerParams ControllerConfig `yaml:"controller_params"`
}

// InitStateConfig pins the state the episode starts from instead of
// sampling the rod angle.
type InitStateConfig struct {
	ThetaRod      float64 `yaml:"theta_rod"`
	ThetaWheel    float64 `yaml:"theta_wheel"`
	ThetaRodDot   float64 `yaml:"theta_rod_dot"`
	ThetaWheelDot float64 `yaml:"theta_wheel_dot"`
}

type ControllerConfig struct {
	Kp     float64 `yaml:"kp"`
	Ki     float64 `yaml:"ki"`
	Kd     float64 `yaml:"kd"`
	Target float64 `yaml:"target"`
	Limit  float64 `yaml:"limit"`
}

func DefaultConfig() *Config {
	p := wheelpole.DefaultParams()
	return &Config{
		LenRod:       p.LenRod,
		LenWheel:     p.LenWheel,
		RadWheel:     p.RadWheel,
		MassRod:      p.MassRod,
		MassWheel:    p.MassWheel,
		Dt:           p.Dt,
		Gravity:      p.Gravity,
		MaxSpeed:     p.MaxSpeed,
		WindowWidth:  DefaultWindowWidth,
		WindowHeight: DefaultWindowHeight,
		Steps:        DefaultSteps,
		TorqueLimit:  DefaultTorqueLimit,
		Controller:   DefaultController,
		ControllerParams: ControllerConfig{
			Kp:    DefaultKp,
			Ki:    DefaultKi,
			Kd:    DefaultKd,
			Limit: DefaultRandomLimit,
		},
	}
}

func Load(path string) (*Config, error) {
	return LoadOnto(path, DefaultConfig())
}

// LoadOnto reads path over a copy of base, so fields the file leaves out
// keep base's values. base is not modified.
func LoadOnto(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if base.InitState != nil {
		init := *base.InitState
		cfg.InitState = &init
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Params() wheelpole.Params {
	return wheelpole.Params{
		LenRod:    c.LenRod,
		LenWheel:  c.LenWheel,
		RadWheel:  c.RadWheel,
		MassRod:   c.MassRod,
		MassWheel: c.MassWheel,
		Dt:        c.Dt,
		Gravity:   c.Gravity,
		MaxSpeed:  c.MaxSpeed,
	}
}

// GetInitState returns the pinned start state, or nil when the rod angle is
// to be sampled on reset.
func (c *Config) GetInitState() *wheelpole.State {
	if c.InitState == nil {
		return nil
	}
	return &wheelpole.State{
		Rod:      c.InitState.ThetaRod,
		Wheel:    c.InitState.ThetaWheel,
		RodDot:   c.InitState.ThetaRodDot,
		WheelDot: c.InitState.ThetaWheelDot,
	}
}

func (c *Config) GetControllerParams() map[string]float64 {
	return map[string]float64{
		"kp":     c.ControllerParams.Kp,
		"ki":     c.ControllerParams.Ki,
		"kd":     c.ControllerParams.Kd,
		"target": c.ControllerParams.Target,
		"limit":  c.ControllerParams.Limit,
		"seed":   float64(c.Seed),
	}
}

// Validate checks the physical parameters and run fields.
func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	var errs []error
	if c.Steps <= 0 {
		errs = append(errs, fmt.Errorf("steps must be positive, got %d", c.Steps))
	}
	if c.WindowWidth <= 0 || c.WindowHeight <= 0 {
		errs = append(errs, fmt.Errorf("window must be positive, got %dx%d", c.WindowWidth, c.WindowHeight))
	}
	if c.TorqueLimit < 0 {
		errs = append(errs, fmt.Errorf("torque_limit must not be negative, got %f", c.TorqueLimit))
	}
	return errors.Join(errs...)
}

// ErrUnknownField is returned by Set for names it does not recognize.
var ErrUnknownField = errors.New("config: unknown field")

// Set assigns a numeric field by its yaml name. Physical parameters and
// controller gains are both addressable, so scenarios and sweeps can vary
// either.
func (c *Config) Set(name string, v float64) error {
	switch name {
	case "len_rod":
		c.LenRod = v
	case "len_wheel":
		c.LenWheel = v
	case "rad_wheel":
		c.RadWheel = v
	case "mass_rod":
		c.MassRod = v
	case "mass_wheel":
		c.MassWheel = v
	case "dt":
		c.Dt = v
	case "gravity":
		c.Gravity = v
	case "max_speed":
		c.MaxSpeed = v
	case "torque_limit":
		c.TorqueLimit = v
	case "kp":
		c.ControllerParams.Kp = v
	case "ki":
		c.ControllerParams.Ki = v
	case "kd":
		c.ControllerParams.Kd = v
	case "target":
		c.ControllerParams.Target = v
	case "limit":
		c.ControllerParams.Limit = v
	case "theta_rod":
		if c.InitState == nil {
			c.InitState = &InitStateConfig{}
		}
		c.InitState.ThetaRod = v
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	return nil
}
