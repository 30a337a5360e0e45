package viz

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/wheelsim/internal/wheelpole"
)

const (
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

var ErrClosed = errors.New("viz: renderer closed")

// Renderer draws the pendulum at a rod angle. Close releases the display and
// must be called once the caller is done drawing.
type Renderer interface {
	Draw(rodAngle float64) error
	Close() error
}

// Terminal writes braille frames to an io.Writer. Frames arriving faster
// than FrameRate are dropped; a FrameRate of zero draws every frame.
type Terminal struct {
	out       io.Writer
	params    wheelpole.Params
	frame     Frame
	canvas    *Canvas
	frameRate int
	lastFrame time.Time
	started   bool
	closed    bool
	frames    int
}

func NewTerminal(out io.Writer, p wheelpole.Params, frame Frame, frameRate int) *Terminal {
	return &Terminal{
		out:       out,
		params:    p,
		frame:     frame,
		canvas:    frame.NewCanvas(),
		frameRate: frameRate,
	}
}

func (r *Terminal) Draw(rodAngle float64) error {
	if r.closed {
		return ErrClosed
	}
	if r.frameRate > 0 && !r.lastFrame.IsZero() {
		if time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
			return nil
		}
	}
	r.lastFrame = time.Now()

	var b strings.Builder
	if !r.started {
		b.WriteString(hideCursor)
		r.started = true
	}
	r.frame.Draw(r.canvas, r.params, rodAngle)
	b.WriteString(clearScreen)
	b.WriteString(r.canvas.String())
	b.WriteString(fmt.Sprintf("  theta_rod=%+.4f rad\n", rodAngle))

	r.frames++
	_, err := io.WriteString(r.out, b.String())
	return err
}

// Frames counts the frames actually written.
func (r *Terminal) Frames() int { return r.frames }

// Canvas returns the last drawn frame.
func (r *Terminal) Canvas() *Canvas { return r.canvas }

func (r *Terminal) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if !r.started {
		return nil
	}
	_, err := io.WriteString(r.out, showCursor)
	return err
}
