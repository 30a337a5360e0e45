package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/wheelsim/internal/control"
	"github.com/san-kum/wheelsim/internal/metrics"
	"github.com/san-kum/wheelsim/internal/sim"
	"github.com/san-kum/wheelsim/internal/wheelpole"
)

type Registry struct {
	controllers map[string]func(map[string]float64) sim.Controller
}

func NewRegistry() *Registry {
	r := &Registry{
		controllers: make(map[string]func(map[string]float64) sim.Controller),
	}

	r.controllers["none"] = func(params map[string]float64) sim.Controller {
		return control.NewNone()
	}
	r.controllers["random"] = func(params map[string]float64) sim.Controller {
		limit := params["limit"]
		if limit <= 0 {
			limit = 0.05
		}
		return control.NewRandom(limit, uint64(params["seed"]))
	}
	r.controllers["pid"] = func(params map[string]float64) sim.Controller {
		return control.NewPID(params["kp"], params["ki"], params["kd"], params["target"])
	}
	r.controllers["lqr"] = func(params map[string]float64) sim.Controller {
		return control.NewUprightLQR()
	}
	r.controllers["manual"] = func(params map[string]float64) sim.Controller {
		return control.NewManual()
	}

	return r
}

func (r *Registry) GetController(name string, params map[string]float64) (sim.Controller, error) {
	fn, ok := r.controllers[name]
	if !ok {
		return nil, fmt.Errorf("unknown controller: %s (available: %v)", name, r.ListControllers())
	}
	return fn(params), nil
}

func (r *Registry) ListControllers() []string {
	names := make([]string, 0, len(r.controllers))
	for name := range r.controllers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics is the metric set recorded for every stored run.
func (r *Registry) DefaultMetrics(p wheelpole.Params) []sim.Metric {
	return []sim.Metric{
		metrics.NewReturn(),
		metrics.NewEnergy(p),
		metrics.NewEnergyDrift(p),
		metrics.NewUpright(wheelpole.Deg2Rad(5)),
		metrics.NewControlEffort(),
	}
}
