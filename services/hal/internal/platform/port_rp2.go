//go:build rp2040 || rp2350

package platform

import (
	"machine"

	"blinkdemo-go/errcode"
	"blinkdemo-go/services/hal/internal/halcore"
	"blinkdemo-go/services/hal/internal/platform/boards"
)

// Selected is the board the firmware was built for.
var Selected = boards.PicoDefault

// rp2Port is the single SIO GPIO bank. The machine package has no
// separate driver bring-up, so the port is always ready.
type rp2Port struct {
	min, max int
}

// NewPort returns the GPIO port of the selected board.
func NewPort() halcore.Port {
	return rp2Port{min: Selected.GPIOMin, max: Selected.GPIOMax}
}

func (rp2Port) Name() string { return "gpio0" }
func (rp2Port) Ready() bool  { return true }

func (p rp2Port) Pin(n int) (halcore.IRQPin, error) {
	if n < p.min || n > p.max {
		return nil, errcode.UnknownPin
	}
	return &rp2Pin{p: machine.Pin(n), n: n}, nil
}

type rp2Pin struct {
	p machine.Pin
	n int
}

func (r *rp2Pin) ConfigureInput(pull halcore.Pull) error {
	var mode machine.PinMode
	switch pull {
	case halcore.PullUp:
		mode = machine.PinInputPullup
	case halcore.PullDown:
		mode = machine.PinInputPulldown
	default:
		mode = machine.PinInput
	}
	r.p.Configure(machine.PinConfig{Mode: mode})
	return nil
}

func (r *rp2Pin) ConfigureOutput(initial bool) error {
	r.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	r.p.Set(initial)
	return nil
}

func (r *rp2Pin) Set(level bool) { r.p.Set(level) }
func (r *rp2Pin) Get() bool      { return r.p.Get() }

func (r *rp2Pin) Toggle() {
	if r.p.Get() {
		r.p.Low()
	} else {
		r.p.High()
	}
}

func (r *rp2Pin) Number() int { return r.n }

func (r *rp2Pin) SetIRQ(edge halcore.Edge, handler func()) error {
	if edge == halcore.EdgeNone {
		return errcode.InvalidParams
	}
	if err := r.p.SetInterrupt(toPinChange(edge), func(machine.Pin) { handler() }); err != nil {
		return errcode.Wrap(errcode.Unsupported, "gpio.irq", err)
	}
	return nil
}

func (r *rp2Pin) ClearIRQ() error {
	var zero machine.PinChange
	return r.p.SetInterrupt(zero, nil)
}

func toPinChange(e halcore.Edge) machine.PinChange {
	switch e {
	case halcore.EdgeRising:
		return machine.PinRising
	case halcore.EdgeFalling:
		return machine.PinFalling
	default:
		return machine.PinToggle
	}
}
