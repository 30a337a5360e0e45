package viz

// Recorder keeps every angle it is asked to draw. It backs tests and replays
// where no display is attached.
type Recorder struct {
	angles []float64
	closed bool
}

func NewRecorder() *Recorder {
	return &Recorder{angles: make([]float64, 0, 64)}
}

func (r *Recorder) Draw(rodAngle float64) error {
	if r.closed {
		return ErrClosed
	}
	r.angles = append(r.angles, rodAngle)
	return nil
}

func (r *Recorder) Angles() []float64 {
	out := make([]float64, len(r.angles))
	copy(out, r.angles)
	return out
}

func (r *Recorder) Closed() bool { return r.closed }

func (r *Recorder) Close() error {
	r.closed = true
	return nil
}

// Replay draws a recorded sequence through r.
func Replay(r Renderer, angles []float64) error {
	for _, a := range angles {
		if err := r.Draw(a); err != nil {
			return err
		}
	}
	return nil
}
