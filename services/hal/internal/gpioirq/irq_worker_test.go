// services/hal/internal/gpioirq/irq_worker_test.go

package gpioirq

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"blinkdemo-go/errcode"
	"blinkdemo-go/services/hal/internal/halcore"
)

// fakeIRQPin implements halcore.IRQPin with minimal behaviour for tests.
type fakeIRQPin struct {
	mu      sync.Mutex
	level   bool
	handler func()
	number  int
	irqErr  error
}

func (p *fakeIRQPin) ConfigureInput(_ halcore.Pull) error { return nil }
func (p *fakeIRQPin) ConfigureOutput(initial bool) error  { p.level = initial; return nil }
func (p *fakeIRQPin) Set(b bool)                          { p.mu.Lock(); p.level = b; p.mu.Unlock() }
func (p *fakeIRQPin) Get() bool                           { p.mu.Lock(); defer p.mu.Unlock(); return p.level }
func (p *fakeIRQPin) Toggle()                             { p.mu.Lock(); p.level = !p.level; p.mu.Unlock() }
func (p *fakeIRQPin) Number() int                         { return p.number }
func (p *fakeIRQPin) SetIRQ(_ halcore.Edge, h func()) error {
	if p.irqErr != nil {
		return p.irqErr
	}
	p.mu.Lock()
	p.handler = h
	p.mu.Unlock()
	return nil
}
func (p *fakeIRQPin) ClearIRQ() error { p.mu.Lock(); p.handler = nil; p.mu.Unlock(); return nil }
func (p *fakeIRQPin) fire(level bool) {
	p.Set(level)
	p.mu.Lock()
	h := p.handler
	p.mu.Unlock()
	if h != nil {
		h()
	}
}

type counter struct{ n atomic.Int32 }

func (c *counter) OnEdge() { c.n.Add(1) }

func TestRegisterRunsHandlerThenReports(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := New(8, 8)
	w.Start(ctx)

	pin := &fakeIRQPin{number: 5}
	c := &counter{}
	in, err := w.Register("sw0", pin, halcore.EdgeRising, c)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	defer in.Close()

	pin.fire(true)
	if c.n.Load() != 1 {
		t.Fatalf("handler must run synchronously in the ISR, count=%d", c.n.Load())
	}
	select {
	case ev := <-in.Events():
		if ev.DevID != "sw0" || !ev.Level || ev.Edge != halcore.EdgeRising {
			t.Fatalf("unexpected event: %+v", ev)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for rising event")
	}
}

func TestBothEdgesDerivedFromLevel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := New(8, 8)
	w.Start(ctx)

	pin := &fakeIRQPin{number: 7}
	in, err := w.Register("devX", pin, halcore.EdgeBoth, &counter{})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	defer in.Close()

	for _, want := range []halcore.Edge{halcore.EdgeRising, halcore.EdgeFalling} {
		pin.fire(want == halcore.EdgeRising)
		select {
		case ev := <-in.Events():
			if ev.Edge != want {
				t.Fatalf("edge = %s, want %s", halcore.EdgeToString(ev.Edge), halcore.EdgeToString(want))
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatal("timeout waiting for event")
		}
	}
}

func TestISRQueueOverflowKeepsHandlerCount(t *testing.T) {
	// Worker not started: the ISR queue fills and overflows.
	w := New(2, 2)
	pin := &fakeIRQPin{number: 5}
	c := &counter{}
	if _, err := w.Register("sw0", pin, halcore.EdgeRising, c); err != nil {
		t.Fatalf("Register: %v", err)
	}
	for i := 0; i < 5; i++ {
		pin.fire(i%2 == 0)
	}
	if got := c.n.Load(); got != 5 {
		t.Fatalf("handler count = %d, want 5", got)
	}
	if got := w.ISRDrops(); got != 3 {
		t.Fatalf("drops = %d, want 3", got)
	}
}

func TestRegisterErrors(t *testing.T) {
	w := New(2, 2)
	pin := &fakeIRQPin{number: 5}

	if _, err := w.Register("a", pin, halcore.EdgeNone, &counter{}); err != errcode.InvalidParams {
		t.Fatalf("EdgeNone: err = %v", err)
	}
	if _, err := w.Register("a", pin, halcore.EdgeRising, &counter{}); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if _, err := w.Register("a", pin, halcore.EdgeRising, &counter{}); err != errcode.PinInUse {
		t.Fatalf("duplicate: err = %v", err)
	}

	bad := &fakeIRQPin{number: 6, irqErr: errors.New("no irq")}
	if _, err := w.Register("b", bad, halcore.EdgeRising, &counter{}); err == nil {
		t.Fatal("expected SetIRQ error")
	}
	// Failed registration must not hold the id.
	bad.irqErr = nil
	if _, err := w.Register("b", bad, halcore.EdgeRising, &counter{}); err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
}

func TestCloseClearsIRQ(t *testing.T) {
	w := New(2, 2)
	pin := &fakeIRQPin{number: 5}
	c := &counter{}
	in, err := w.Register("sw0", pin, halcore.EdgeRising, c)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	in.Close()
	in.Close()
	pin.fire(true)
	if c.n.Load() != 0 {
		t.Fatal("handler ran after Close")
	}
}
