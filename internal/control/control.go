package control

import (
	"errors"
	"fmt"
)

var ErrUnknownParam = errors.New("control: unknown parameter")

// Configurable is implemented by controllers with tunable gains.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

func unknownParam(name string) error {
	return fmt.Errorf("%w: %s", ErrUnknownParam, name)
}
