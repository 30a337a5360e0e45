package analysis

import (
	"strings"

	"github.com/san-kum/wheelsim/internal/wheelpole"
)

type Point struct{ X, Y float64 }

// PhasePortrait is a 2D projection of a trajectory.
type PhasePortrait struct {
	XLabel, YLabel string
	Points         []Point
}

// RodPortrait projects states onto the (theta_rod, theta_rod_dot) plane.
func RodPortrait(states []wheelpole.State) *PhasePortrait {
	p := &PhasePortrait{
		XLabel: "theta_rod",
		YLabel: "theta_rod_dot",
		Points: make([]Point, len(states)),
	}
	for i, s := range states {
		p.Points[i] = Point{X: s.Rod, Y: s.RodDot}
	}
	return p
}

// PoincareSection records (theta_rod, theta_wheel_dot) each time the rod
// velocity crosses zero going upward.
func PoincareSection(states []wheelpole.State) *PhasePortrait {
	p := &PhasePortrait{XLabel: "theta_rod", YLabel: "theta_wheel_dot"}
	for i := 1; i < len(states); i++ {
		prev, cur := states[i-1].RodDot, states[i].RodDot
		if prev < 0 && cur >= 0 {
			p.Points = append(p.Points, Point{X: states[i].Rod, Y: states[i].WheelDot})
		}
	}
	return p
}

// PhasePortraitToASCII plots the portrait on a width x height character
// grid, with axes drawn where zero is in view.
func PhasePortraitToASCII(portrait *PhasePortrait, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y
	for _, p := range portrait.Points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	col := func(x float64) int { return int((x - minX) / rangeX * float64(width-1)) }
	row := func(y float64) int { return height - 1 - int((y-minY)/rangeY*float64(height-1)) }

	for _, p := range portrait.Points {
		r, c := row(p.Y), col(p.X)
		if r >= 0 && r < height && c >= 0 && c < width {
			grid[r][c] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		c := col(0)
		for r := 0; r < height; r++ {
			if grid[r][c] == ' ' {
				grid[r][c] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		r := row(0)
		for c := 0; c < width; c++ {
			if grid[r][c] == ' ' {
				grid[r][c] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, line := range grid {
		sb.WriteString(string(line))
		sb.WriteRune('\n')
	}
	return sb.String()
}
