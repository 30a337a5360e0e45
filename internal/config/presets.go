package config

import "sort"

// Presets are named starting points. Only the fields they set differ from
// DefaultConfig.
var Presets = map[string]func(*Config){
	"upright": func(c *Config) {
		c.Controller = "lqr"
		c.InitState = &InitStateConfig{ThetaRod: 0.1}
	},
	"recover": func(c *Config) {
		c.Controller = "pid"
		c.InitState = &InitStateConfig{ThetaRod: 0.3}
	},
	"fall": func(c *Config) {
		c.Controller = "none"
		c.Steps = 3000
		c.InitState = &InitStateConfig{ThetaRod: 0.1}
	},
	"spin": func(c *Config) {
		c.Controller = "none"
		c.InitState = &InitStateConfig{ThetaWheelDot: 50}
	},
	"explore": func(c *Config) {
		c.Controller = "random"
		c.ControllerParams.Limit = 0.1
	},
	"heavy-wheel": func(c *Config) {
		c.MassWheel = 0.2
		c.RadWheel = 0.2
		c.Controller = "lqr"
		c.InitState = &InitStateConfig{ThetaRod: 0.1}
	},
}

// GetPreset applies the named preset on top of DefaultConfig.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
