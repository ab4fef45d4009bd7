//go:build !(rp2040 || rp2350)

package platform

import (
	"sync"

	"blinkdemo-go/errcode"
	"blinkdemo-go/services/hal/internal/halcore"
	"blinkdemo-go/services/hal/internal/platform/boards"
)

// Selected is the board used by host builds.
var Selected = boards.Host

// NewPort returns a ready host port for the selected board.
func NewPort() halcore.Port {
	return NewFakePort("gpio0", Selected.GPIOMin, Selected.GPIOMax)
}

// ----------------------------- GPIO (host) -----------------------------------

// FakePort implements halcore.Port with per-pin fault injection.
type FakePort struct {
	mu       sync.Mutex
	name     string
	ready    bool
	min, max int
	pins     map[int]*FakePin
}

func NewFakePort(name string, min, max int) *FakePort {
	return &FakePort{name: name, ready: true, min: min, max: max, pins: map[int]*FakePin{}}
}

func (p *FakePort) Name() string { return p.name }

func (p *FakePort) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ready
}

// SetReady simulates a driver that failed (or finished) initialisation.
func (p *FakePort) SetReady(v bool) {
	p.mu.Lock()
	p.ready = v
	p.mu.Unlock()
}

func (p *FakePort) Pin(n int) (halcore.IRQPin, error) {
	fp, err := p.Fake(n)
	if err != nil {
		return nil, err
	}
	return fp, nil
}

// Fake returns the stable *FakePin for n so tests can drive it.
func (p *FakePort) Fake(n int) (*FakePin, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n < p.min || n > p.max {
		return nil, errcode.UnknownPin
	}
	fp, ok := p.pins[n]
	if !ok {
		fp = &FakePin{number: n}
		p.pins[n] = fp
	}
	return fp, nil
}

// FakePin implements halcore.IRQPin. Set fires the installed handler
// synchronously when the change matches the configured edge, standing in
// for the ISR.
type FakePin struct {
	mu      sync.Mutex
	number  int
	level   bool
	modeOut bool
	pull    halcore.Pull
	irqEdge halcore.Edge
	irqFunc func()

	// Fault injection.
	ConfigureErr error
	IRQErr       error
}

func (p *FakePin) ConfigureInput(pull halcore.Pull) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ConfigureErr != nil {
		return p.ConfigureErr
	}
	p.modeOut = false
	p.pull = pull
	if pull == halcore.PullUp {
		p.level = true
	}
	return nil
}

func (p *FakePin) ConfigureOutput(initial bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ConfigureErr != nil {
		return p.ConfigureErr
	}
	p.modeOut = true
	p.level = initial
	return nil
}

func (p *FakePin) Set(level bool) {
	p.mu.Lock()
	old := p.level
	p.level = level
	irq := p.irqFunc
	want := irqWanted(p.irqEdge, edgeFrom(old, level))
	p.mu.Unlock()
	if want && irq != nil {
		irq()
	}
}

func (p *FakePin) Get() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

func (p *FakePin) Toggle() {
	p.mu.Lock()
	p.level = !p.level
	p.mu.Unlock()
}

func (p *FakePin) Number() int { return p.number }

func (p *FakePin) SetIRQ(edge halcore.Edge, handler func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.IRQErr != nil {
		return p.IRQErr
	}
	p.irqEdge = edge
	p.irqFunc = handler
	return nil
}

func (p *FakePin) ClearIRQ() error {
	p.mu.Lock()
	p.irqEdge = halcore.EdgeNone
	p.irqFunc = nil
	p.mu.Unlock()
	return nil
}

// IsOutput reports the configured direction.
func (p *FakePin) IsOutput() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.modeOut
}

// HasIRQ reports whether a handler is installed.
func (p *FakePin) HasIRQ() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.irqFunc != nil
}

// Press drives one active-low press and release (falling then rising).
func (p *FakePin) Press() {
	p.Set(false)
	p.Set(true)
}

func edgeFrom(old, new bool) halcore.Edge {
	switch {
	case !old && new:
		return halcore.EdgeRising
	case old && !new:
		return halcore.EdgeFalling
	default:
		return halcore.EdgeNone
	}
}

func irqWanted(cfg, seen halcore.Edge) bool {
	switch cfg {
	case halcore.EdgeBoth:
		return seen == halcore.EdgeRising || seen == halcore.EdgeFalling
	case halcore.EdgeNone:
		return false
	default:
		return cfg == seen
	}
}
