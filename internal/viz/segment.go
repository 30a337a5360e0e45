package viz

import (
	"math"

	"github.com/san-kum/wheelsim/internal/wheelpole"
)

// PixelsPerMeter converts model lengths to window pixels.
const PixelsPerMeter = 100.0

type Point struct {
	X, Y float64
}

// Segment returns the rod tip for a rod pivoting at origin. Screen y grows
// downward, so angle 0 points straight up.
func Segment(origin Point, angle, length, scale float64) Point {
	return Point{
		X: origin.X + length*math.Sin(angle)*scale,
		Y: origin.Y - length*math.Cos(angle)*scale,
	}
}

// Frame maps a window of Width x Height pixels onto a braille canvas.
type Frame struct {
	Width, Height int
	Cols, Rows    int
	Zoom          float64
}

func DefaultFrame() Frame {
	return Frame{Width: 800, Height: 600, Cols: 80, Rows: 30, Zoom: 3}
}

// subPixel converts a window pixel to canvas sub-pixel coordinates. The
// window centre always lands on the canvas centre.
func (f Frame) subPixel(p Point) (int, int) {
	sw, sh := float64(f.Cols*2), float64(f.Rows*4)
	k := math.Min(sw/float64(f.Width), sh/float64(f.Height)) * f.Zoom
	x := sw/2 + (p.X-float64(f.Width)/2)*k
	y := sh/2 + (p.Y-float64(f.Height)/2)*k
	return int(math.Round(x)), int(math.Round(y))
}

func (f Frame) origin() Point {
	return Point{X: float64(f.Width / 2), Y: float64(f.Height / 2)}
}

// Draw clears c and draws the rod at angle with a hub at the pivot and the
// wheel outline at the tip.
func (f Frame) Draw(c *Canvas, p wheelpole.Params, angle float64) {
	c.Clear()
	o := f.origin()
	tip := Segment(o, angle, p.LenWheel, PixelsPerMeter)

	ox, oy := f.subPixel(o)
	tx, ty := f.subPixel(tip)
	c.DrawLine(ox, oy, tx, ty)
	c.DrawCircle(ox, oy, 1)

	edge := Point{X: tip.X + p.RadWheel*PixelsPerMeter, Y: tip.Y}
	ex, _ := f.subPixel(edge)
	c.DrawCircle(tx, ty, ex-tx)
}

func (f Frame) NewCanvas() *Canvas {
	return NewCanvas(f.Cols, f.Rows)
}
