// services/hal/internal/gpioirq/irq_worker.go
package gpioirq

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"blinkdemo-go/errcode"
	"blinkdemo-go/services/hal/internal/halcore"
)

// Event is delivered in thread context after the edge handler already ran
// in interrupt context.
type Event struct {
	DevID string
	Level bool // physical level sampled in the ISR
	Edge  halcore.Edge
	TS    time.Time
}

type Worker struct {
	// Written by ISR; MUST NOT block the ISR:
	isrQ    chan isrEvent
	outBuf  int
	stopped chan struct{}

	mu     sync.RWMutex
	inputs map[string]*Input // devID -> input

	drops uint32 // ISR queue overflow counter
}

type isrEvent struct {
	devID string
	level bool
}

// Input is one registered interrupt line.
type Input struct {
	devID     string
	pin       halcore.IRQPin
	edge      halcore.Edge
	lastLevel bool
	out       chan Event
	w         *Worker
	once      sync.Once
}

func New(isrBuf, outBuf int) *Worker {
	if isrBuf <= 0 {
		isrBuf = 16
	}
	if outBuf <= 0 {
		outBuf = 8
	}
	return &Worker{
		isrQ:    make(chan isrEvent, isrBuf),
		outBuf:  outBuf,
		stopped: make(chan struct{}),
		inputs:  map[string]*Input{},
	}
}

func (w *Worker) Start(ctx context.Context) {
	go func() {
		defer close(w.stopped)
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-w.isrQ:
				w.handleISR(ev)
			}
		}
	}()
}

// Register installs h as the interrupt handler of pin for the given edge.
// h.OnEdge runs in interrupt context; the returned Input then reports the
// edge in thread context.
func (w *Worker) Register(devID string, pin halcore.IRQPin, edge halcore.Edge, h halcore.EdgeHandler) (*Input, error) {
	if edge == halcore.EdgeNone || h == nil {
		return nil, errcode.InvalidParams
	}

	w.mu.Lock()
	if _, dup := w.inputs[devID]; dup {
		w.mu.Unlock()
		return nil, errcode.PinInUse
	}
	in := &Input{
		devID:     devID,
		pin:       pin,
		edge:      edge,
		lastLevel: pin.Get(),
		out:       make(chan Event, w.outBuf),
		w:         w,
	}
	w.inputs[devID] = in
	w.mu.Unlock()

	// ISR handler: run the capability, then a fast register read and a
	// non-blocking channel send.
	isr := func() {
		h.OnEdge()
		select {
		case w.isrQ <- isrEvent{devID: devID, level: pin.Get()}:
		default:
			atomic.AddUint32(&w.drops, 1)
		}
	}
	if err := pin.SetIRQ(edge, isr); err != nil {
		w.mu.Lock()
		delete(w.inputs, devID)
		w.mu.Unlock()
		return nil, err
	}
	return in, nil
}

func (w *Worker) handleISR(ev isrEvent) {
	w.mu.RLock()
	in := w.inputs[ev.devID]
	w.mu.RUnlock()
	if in == nil {
		return
	}

	e := in.edge
	if e == halcore.EdgeBoth {
		switch {
		case !in.lastLevel && ev.level:
			e = halcore.EdgeRising
		case in.lastLevel && !ev.level:
			e = halcore.EdgeFalling
		}
	}
	in.lastLevel = ev.level

	select {
	case in.out <- Event{DevID: ev.devID, Level: ev.level, Edge: e, TS: time.Now()}:
	default:
		// drop if consumer is slow; the handler already ran
	}
}

// ISRDrops reports ISR events lost to a full queue.
func (w *Worker) ISRDrops() uint32 { return atomic.LoadUint32(&w.drops) }

func (in *Input) Events() <-chan Event { return in.out }

// Close clears the interrupt and unregisters the input. The events channel
// is left open so that late readers do not observe a spurious close.
func (in *Input) Close() {
	in.once.Do(func() {
		_ = in.pin.ClearIRQ()
		in.w.mu.Lock()
		if cur, ok := in.w.inputs[in.devID]; ok && cur == in {
			delete(in.w.inputs, in.devID)
		}
		in.w.mu.Unlock()
	})
}
