package analysis

import (
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/san-kum/wheelsim/internal/wheelpole"
)

func TestPowerSpectrumPeak(t *testing.T) {
	n := 64
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * 5 * float64(i) / float64(n))
	}

	ps := PowerSpectrum(data)
	if len(ps) != n/2+1 {
		t.Fatalf("expected %d bins, got %d", n/2+1, len(ps))
	}
	if math.Abs(ps[5]-float64(n)/2) > 1e-9 {
		t.Errorf("expected peak %f at bin 5, got %f", float64(n)/2, ps[5])
	}
}

func TestPowerSpectrumAnyLength(t *testing.T) {
	for _, n := range []int{1, 7, 100, 5001} {
		if got := len(PowerSpectrum(make([]float64, n))); got != n/2+1 {
			t.Errorf("n=%d: expected %d bins, got %d", n, n/2+1, got)
		}
	}
	if ps := PowerSpectrum(nil); len(ps) != 0 {
		t.Errorf("expected empty spectrum, got %v", ps)
	}
}

func TestDominantFrequency(t *testing.T) {
	dt := 0.01
	data := make([]float64, 1024)
	for i := range data {
		data[i] = 3 + math.Cos(2*math.Pi*2*float64(i)*dt)
	}

	f, err := DominantFrequency(data, dt)
	if err != nil {
		t.Fatal(err)
	}
	// bin width is 1/(1024*0.01) ≈ 0.098 Hz
	if math.Abs(f-2) > 0.1 {
		t.Errorf("expected ~2 Hz, got %f", f)
	}

	if _, err := DominantFrequency(data, 0); err == nil {
		t.Error("expected error for zero dt")
	}
}

func TestDominantFrequencyOffsetOddLength(t *testing.T) {
	dt := 0.001
	tests := []struct {
		name string
		n    int
	}{
		{"5001 samples", 5001},
		{"4096 samples", 4096},
		{"3000 samples", 3000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]float64, tt.n)
			for i := range data {
				data[i] = 0.5 + 0.1*math.Sin(2*math.Pi*2*float64(i)*dt)
			}
			f, err := DominantFrequency(data, dt)
			if err != nil {
				t.Fatal(err)
			}
			// bin width is at most 1/(3000*0.001) ≈ 0.33 Hz
			if math.Abs(f-2) > 0.2 {
				t.Errorf("expected ~2 Hz, got %f", f)
			}
		})
	}
}

func TestSettlingTime(t *testing.T) {
	times := []float64{0, 1, 2, 3, 4}
	if got := SettlingTime(times, []float64{1, 0.5, 0.05, 0.01, 0}, 0.1); got != 2 {
		t.Errorf("expected 2, got %f", got)
	}
	if got := SettlingTime(times, []float64{0, 0, 0, 0, 1}, 0.1); got != -1 {
		t.Errorf("expected -1, got %f", got)
	}
	if got := SettlingTime(times, []float64{0, 0, 0, 0, 0}, 0.1); got != 0 {
		t.Errorf("expected 0, got %f", got)
	}
}

func TestPeakAbs(t *testing.T) {
	peak, at := PeakAbs([]float64{0.1, -0.4, 0.3})
	if peak != 0.4 || at != 1 {
		t.Errorf("got %f at %d", peak, at)
	}
}

func TestSeparationRate(t *testing.T) {
	p := wheelpole.DefaultParams()

	// upright is unstable: sqrt(K·g/(effmm1-effmm2)) ≈ 3.71 1/s
	up, err := SeparationRate(p, wheelpole.State{}, 5000, 1e-8)
	if err != nil {
		t.Fatal(err)
	}
	if up < 3.4 || up > 4.4 {
		t.Errorf("expected upright rate near 3.7, got %f", up)
	}

	// hanging is a centre: separation stays bounded
	down, err := SeparationRate(p, wheelpole.State{Rod: math.Pi}, 10000, 1e-8)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(down) > 0.3 {
		t.Errorf("expected hanging rate near 0, got %f", down)
	}

	if _, err := SeparationRate(p, wheelpole.State{}, 0, 1e-8); err == nil {
		t.Error("expected error for zero steps")
	}
	if _, err := SeparationRate(p, wheelpole.State{}, 10, 0); err == nil {
		t.Error("expected error for zero perturbation")
	}
	bad := p
	bad.Dt = 0
	if _, err := SeparationRate(bad, wheelpole.State{}, 10, 1e-8); err == nil {
		t.Error("expected error for invalid params")
	}
}

func TestRodPortrait(t *testing.T) {
	states := []wheelpole.State{{Rod: 0.1, RodDot: -1}, {Rod: 0.2, RodDot: 2}}
	p := RodPortrait(states)
	if len(p.Points) != 2 || p.Points[1] != (Point{X: 0.2, Y: 2}) {
		t.Errorf("unexpected points %v", p.Points)
	}
}

func TestPoincareSection(t *testing.T) {
	states := []wheelpole.State{
		{RodDot: -1},
		{Rod: 0.3, RodDot: 0.5, WheelDot: 7},
		{RodDot: 1},
		{RodDot: -0.5},
		{Rod: -0.2, RodDot: 0, WheelDot: -3},
	}
	p := PoincareSection(states)
	want := []Point{{X: 0.3, Y: 7}, {X: -0.2, Y: -3}}
	if len(p.Points) != len(want) {
		t.Fatalf("expected %d crossings, got %v", len(want), p.Points)
	}
	for i := range want {
		if p.Points[i] != want[i] {
			t.Errorf("crossing %d: got %v, want %v", i, p.Points[i], want[i])
		}
	}
}

func TestPhasePortraitToASCII(t *testing.T) {
	if got := PhasePortraitToASCII(&PhasePortrait{}, 10, 5); got != "" {
		t.Errorf("expected empty plot, got %q", got)
	}

	states := make([]wheelpole.State, 200)
	for i := range states {
		a := 2 * math.Pi * float64(i) / 200
		states[i] = wheelpole.State{Rod: math.Cos(a), RodDot: math.Sin(a)}
	}
	out := PhasePortraitToASCII(RodPortrait(states), 30, 12)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 12 {
		t.Fatalf("expected 12 rows, got %d", len(lines))
	}
	for i, l := range lines {
		if n := utf8.RuneCountInString(l); n != 30 {
			t.Errorf("row %d: expected 30 columns, got %d", i, n)
		}
	}
	if !strings.Contains(out, "•") || !strings.Contains(out, "│") || !strings.Contains(out, "─") {
		t.Errorf("expected points and both axes:\n%s", out)
	}
}

func TestLocalMaxima(t *testing.T) {
	got := LocalMaxima([]float64{0, 1, 0, 2, 2, 0, 3, 1})
	want := []float64{1, 3}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestBifurcation(t *testing.T) {
	periodic := make([]float64, 1000)
	for i := range periodic {
		periodic[i] = 0.4 * math.Sin(2*math.Pi*float64(i)/40)
	}
	settled := make([]float64, 1000)
	for i := range settled {
		settled[i] = 0.1 * math.Exp(-float64(i)/10)
	}

	points := Bifurcation([]float64{1, 2}, [][]float64{periodic, settled}, 0.5)
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if len(points[0].Values) != 1 || math.Abs(points[0].Values[0]-0.4) > 1e-3 {
		t.Errorf("periodic run: expected one peak at 0.4, got %v", points[0].Values)
	}
	if len(points[1].Values) != 1 || points[1].Values[0] != settled[len(settled)-1] {
		t.Errorf("settled run: expected its final value, got %v", points[1].Values)
	}
	if points[1].Param != 2 {
		t.Errorf("expected param 2, got %f", points[1].Param)
	}

	if out := BifurcationToASCII(points, 20, 8); !strings.Contains(out, "•") {
		t.Errorf("expected plotted points, got %q", out)
	}
}
