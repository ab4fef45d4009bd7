// services/hal/internal/halcore/types.go
package halcore

import "blinkdemo-go/errcode"

// ---- GPIO abstractions ----

type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

// GPIOPin is a single line on a port. Levels are physical.
type GPIOPin interface {
	ConfigureInput(pull Pull) error
	ConfigureOutput(initial bool) error
	Set(level bool)
	Get() bool
	Toggle()
	Number() int
}

// Edge selection for IRQ.
type Edge uint8

const (
	EdgeNone Edge = iota
	EdgeRising
	EdgeFalling
	EdgeBoth
)

// IRQPin extends GPIOPin with interrupts. The handler runs in interrupt
// context: it must not block or allocate.
type IRQPin interface {
	GPIOPin
	SetIRQ(edge Edge, handler func()) error
	ClearIRQ() error
}

// EdgeHandler is the capability invoked by the interrupt dispatcher on
// every configured edge.
type EdgeHandler interface {
	OnEdge()
}

// Port is a GPIO controller. Ready reports whether its driver initialised.
type Port interface {
	Name() string
	Ready() bool
	Pin(n int) (IRQPin, error)
}

// PinSpec names one line of a port together with its board flags.
type PinSpec struct {
	Port      Port
	Pin       int
	Pull      Pull
	ActiveLow bool
}

// Ready is the device-ready predicate checked before any configuration.
func (s PinSpec) Ready() bool { return s.Port != nil && s.Port.Ready() }

// PortName is safe to call on a spec with no port.
func (s PinSpec) PortName() string {
	if s.Port == nil {
		return "<nil>"
	}
	return s.Port.Name()
}

// Open resolves the pin on its port.
func (s PinSpec) Open() (IRQPin, error) {
	if !s.Ready() {
		return nil, errcode.NotReady
	}
	return s.Port.Pin(s.Pin)
}

// ActiveEdge is the physical edge at which the line becomes logically active.
func (s PinSpec) ActiveEdge() Edge {
	if s.ActiveLow {
		return EdgeFalling
	}
	return EdgeRising
}

// Physical maps a logical level to the level driven on the line.
func (s PinSpec) Physical(logical bool) bool { return logical != s.ActiveLow }

// Util
func EdgeToString(e Edge) string {
	switch e {
	case EdgeRising:
		return "rising"
	case EdgeFalling:
		return "falling"
	case EdgeBoth:
		return "both"
	default:
		return "none"
	}
}
