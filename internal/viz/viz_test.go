package viz

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/wheelsim/internal/control"
	"github.com/san-kum/wheelsim/internal/wheelpole"
)

func TestSegment(t *testing.T) {
	o := Point{X: 400, Y: 300}
	tests := []struct {
		name  string
		angle float64
		want  Point
	}{
		{"upright", 0, Point{400, 250}},
		{"right", math.Pi / 2, Point{450, 300}},
		{"down", math.Pi, Point{400, 350}},
		{"left", -math.Pi / 2, Point{350, 300}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Segment(o, tt.angle, 0.5, PixelsPerMeter)
			if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCanvasSetAndLine(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Set(0, 0)
	if c.Grid[0][0] != 0x2801 {
		t.Errorf("expected dot 1, got %U", c.Grid[0][0])
	}
	c.Set(-1, 0)
	c.Set(100, 100)

	c.Clear()
	c.DrawLine(0, 0, 7, 7)
	for i := 0; i < 8; i++ {
		if !c.IsSet(i, i) {
			t.Errorf("expected (%d,%d) set", i, i)
		}
	}
	if c.IsSet(7, 0) {
		t.Error("unexpected pixel off the diagonal")
	}

	if lines := strings.Count(c.String(), "\n"); lines != 2 {
		t.Errorf("expected 2 rows, got %d", lines)
	}
}

func TestFrameDrawUpright(t *testing.T) {
	f := DefaultFrame()
	c := f.NewCanvas()
	f.Draw(c, wheelpole.DefaultParams(), 0)

	// pivot at the centre, rod straight up
	sw, sh := c.SubSize()
	cx, cy := sw/2, sh/2
	for y := cy - 20; y <= cy; y++ {
		if !c.IsSet(cx, y) {
			t.Fatalf("expected rod pixel at (%d,%d)", cx, y)
		}
	}
	if c.IsSet(cx, cy+10) {
		t.Error("rod drawn below the pivot")
	}
}

func TestTerminalDraw(t *testing.T) {
	var buf bytes.Buffer
	r := NewTerminal(&buf, wheelpole.DefaultParams(), DefaultFrame(), 0)

	for _, a := range []float64{0, 0.1, 0.2} {
		if err := r.Draw(a); err != nil {
			t.Fatalf("draw: %v", err)
		}
	}
	if r.Frames() != 3 {
		t.Errorf("expected 3 frames, got %d", r.Frames())
	}
	if !strings.HasPrefix(buf.String(), hideCursor) {
		t.Error("expected cursor hidden on first frame")
	}
	if !strings.Contains(buf.String(), "theta_rod=+0.2000") {
		t.Error("missing angle caption")
	}

	if err := r.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !strings.HasSuffix(buf.String(), showCursor) {
		t.Error("expected cursor restored on close")
	}
	if err := r.Draw(0); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestTerminalFrameRate(t *testing.T) {
	var buf bytes.Buffer
	r := NewTerminal(&buf, wheelpole.DefaultParams(), DefaultFrame(), 1)
	for i := 0; i < 10; i++ {
		_ = r.Draw(0)
	}
	if r.Frames() != 1 {
		t.Errorf("expected 1 frame within a second, got %d", r.Frames())
	}
}

func TestRecorder(t *testing.T) {
	rec := NewRecorder()
	if err := Replay(rec, []float64{0.1, 0.2}); err != nil {
		t.Fatal(err)
	}
	if got := rec.Angles(); len(got) != 2 || got[1] != 0.2 {
		t.Errorf("unexpected angles %v", got)
	}
	_ = rec.Close()
	if !rec.Closed() {
		t.Error("expected closed")
	}
	if err := rec.Draw(0); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestCanvasToSVG(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	svg := CanvasToSVG(c, 2)
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("expected 2 dots, got %d", n)
	}
	if CanvasToSVG(nil, 1) != "" {
		t.Error("expected empty svg for nil canvas")
	}
}

func TestAngleTraceToSVG(t *testing.T) {
	svg := AngleTraceToSVG([]float64{0, 1, 2}, []float64{0.1, 0.2, 0.1}, 100, 50, "#000")
	if !strings.Contains(svg, "<path") || strings.Count(svg, " L") != 2 {
		t.Errorf("unexpected svg: %s", svg)
	}
	if AngleTraceToSVG([]float64{0}, []float64{0}, 10, 10, "#000") != "" {
		t.Error("expected empty svg for a single point")
	}
}

func newLiveModel(t *testing.T) Model {
	t.Helper()
	p, err := wheelpole.New(wheelpole.DefaultParams(), wheelpole.FixedStarter(0.1))
	if err != nil {
		t.Fatal(err)
	}
	return NewModel(p, control.NewUprightLQR(), "lqr", DefaultFrame(), 0, nil)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestLiveModelTick(t *testing.T) {
	m := newLiveModel(t)
	m = update(m, TickMsg{})
	if m.Time() <= 0 {
		t.Error("expected time to advance on tick")
	}
	if m.Pendulum().Steps() != m.stepsPerTick {
		t.Errorf("expected %d steps, got %d", m.stepsPerTick, m.Pendulum().Steps())
	}

	m = update(m, key(" "))
	if m.Running() {
		t.Fatal("expected paused")
	}
	steps := m.Pendulum().Steps()
	m = update(m, TickMsg{})
	if m.Pendulum().Steps() != steps {
		t.Error("paused model should not step")
	}
}

func TestLiveModelKeys(t *testing.T) {
	m := newLiveModel(t)
	m = update(m, key("right"))
	m = update(m, key("right"))
	if math.Abs(m.ManualTorque()-2*nudgeStep) > 1e-12 {
		t.Errorf("expected manual torque %f, got %f", 2*nudgeStep, m.ManualTorque())
	}
	m = update(m, key("left"))
	m = update(m, key("0"))
	if m.ManualTorque() != 0 {
		t.Errorf("expected released torque, got %f", m.ManualTorque())
	}

	m = update(m, key("c"))
	if m.AutoEnabled() {
		t.Error("expected controller toggled off")
	}

	m = update(m, TickMsg{})
	m = update(m, key("r"))
	if m.Time() != 0 || m.Pendulum().State().Rod != 0.1 {
		t.Error("expected reset to the initial state")
	}

	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Error("expected quit command")
	}
}

func TestLiveModelTorqueLimit(t *testing.T) {
	p, err := wheelpole.New(wheelpole.DefaultParams(), wheelpole.FixedStarter(0.1))
	if err != nil {
		t.Fatal(err)
	}
	m := NewModel(p, control.NewUprightLQR(), "lqr", DefaultFrame(), 0.01, nil)
	m = update(m, key("c"))
	for i := 0; i < 10; i++ {
		m = update(m, key("right"))
	}
	m = update(m, TickMsg{})
	if m.AppliedTorque() != 0.01 {
		t.Errorf("expected torque clamped to 0.01, got %f", m.AppliedTorque())
	}
}

func TestLiveModelView(t *testing.T) {
	m := newLiveModel(t)
	m = update(m, TickMsg{})
	m = update(m, TickMsg{})
	view := m.View()
	for _, want := range []string{"REACTION WHEEL PENDULUM", "RUNNING", "Return", "lqr"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m = update(m, key("?"))
	if !strings.Contains(m.View(), "KEYBOARD SHORTCUTS") {
		t.Error("expected help overlay")
	}
}
