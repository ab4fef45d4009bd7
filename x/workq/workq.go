// Package workq is a deferred work queue: work items are submitted from any
// context (including interrupt handlers) and executed one at a time, in
// submission order, on a single worker goroutine.
package workq

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
)

type Queue struct {
	ch      chan *Work
	stopped chan struct{}
	drops   uint32
}

func New(depth int) *Queue {
	if depth <= 0 {
		depth = 8
	}
	return &Queue{
		ch:      make(chan *Work, depth),
		stopped: make(chan struct{}),
	}
}

// Start runs the worker until ctx is cancelled.
func (q *Queue) Start(ctx context.Context) {
	go func() {
		defer close(q.stopped)
		for {
			select {
			case <-ctx.Done():
				return
			case w := <-q.ch:
				w.pending.Store(false)
				w.fn()
			}
		}
	}()
}

// Done is closed once the worker has exited.
func (q *Queue) Done() <-chan struct{} { return q.stopped }

// Drops counts submissions rejected because the queue was full.
func (q *Queue) Drops() uint32 { return atomic.LoadUint32(&q.drops) }

// Work is a unit of deferred work. A pending item is queued at most once.
type Work struct {
	q       *Queue
	fn      func()
	pending atomic.Bool
}

func (q *Queue) NewWork(fn func()) *Work {
	return &Work{q: q, fn: fn}
}

// Submit queues the item without blocking. It reports false when the item
// was already pending or the queue was full.
func (w *Work) Submit() bool {
	if !w.pending.CompareAndSwap(false, true) {
		return false
	}
	select {
	case w.q.ch <- w:
		return true
	default:
		w.pending.Store(false)
		atomic.AddUint32(&w.q.drops, 1)
		return false
	}
}

func (w *Work) Pending() bool { return w.pending.Load() }

// Periodic is a work item that re-arms itself a fixed period after each run.
type Periodic struct {
	work   *Work
	clock  clockwork.Clock
	fn     func()
	period atomic.Int64

	mu      sync.Mutex
	timer   clockwork.Timer
	stopped bool
}

func (q *Queue) NewPeriodic(clock clockwork.Clock, period time.Duration, fn func()) *Periodic {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	p := &Periodic{clock: clock, fn: fn}
	p.period.Store(int64(period))
	p.work = q.NewWork(p.run)
	return p
}

// Start submits the first run immediately.
func (p *Periodic) Start() bool {
	p.mu.Lock()
	p.stopped = false
	p.mu.Unlock()
	return p.work.Submit()
}

// Stop cancels the pending re-arm. A run already executing completes.
func (p *Periodic) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped = true
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

// SetPeriod takes effect at the next re-arm.
func (p *Periodic) SetPeriod(d time.Duration) { p.period.Store(int64(d)) }

func (p *Periodic) Period() time.Duration { return time.Duration(p.period.Load()) }

func (p *Periodic) run() {
	p.mu.Lock()
	stopped := p.stopped
	p.mu.Unlock()
	if stopped {
		return
	}

	p.fn()

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.stopped {
		p.arm()
	}
}

// arm schedules the next submission. p.mu must be held.
func (p *Periodic) arm() {
	p.timer = p.clock.AfterFunc(p.Period(), p.fire)
}

// fire submits the next run. When the queue is full the drop is counted by
// Submit and the timer is re-armed so the chain survives.
func (p *Periodic) fire() {
	if p.work.Submit() || p.work.Pending() {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.stopped {
		p.arm()
	}
}
