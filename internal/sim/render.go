package sim

import "github.com/san-kum/wheelsim/internal/wheelpole"

// RenderObserver forwards the rod angle to a Renderer every Every steps.
type RenderObserver struct {
	Renderer Renderer
	Every    int
	count    int
}

func NewRenderObserver(r Renderer, every int) *RenderObserver {
	if every < 1 {
		every = 1
	}
	return &RenderObserver{Renderer: r, Every: every}
}

func (o *RenderObserver) OnStep(x wheelpole.State, torque, t float64) error {
	o.count++
	if o.count%o.Every != 0 {
		return nil
	}
	return o.Renderer.Draw(x.Rod)
}

func (o *RenderObserver) Reset() {
	o.count = 0
}
