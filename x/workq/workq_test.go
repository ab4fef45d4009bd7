package workq

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timeout waiting for %s", what)
}

func blockUntilArmed(t *testing.T, fc *clockwork.FakeClock) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if err := fc.BlockUntilContext(ctx, 1); err != nil {
		t.Fatalf("timer was not re-armed: %v", err)
	}
}

func TestWorkRunsInSubmissionOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := New(4)
	q.Start(ctx)

	got := make(chan int, 3)
	for i := 1; i <= 3; i++ {
		i := i
		if !q.NewWork(func() { got <- i }).Submit() {
			t.Fatalf("submit %d rejected", i)
		}
	}
	for want := 1; want <= 3; want++ {
		select {
		case v := <-got:
			if v != want {
				t.Fatalf("ran %d, want %d", v, want)
			}
		case <-time.After(200 * time.Millisecond):
			t.Fatal("timeout waiting for work")
		}
	}
}

func TestSubmitIsIdempotentWhilePending(t *testing.T) {
	q := New(4) // not started
	w := q.NewWork(func() {})
	if !w.Submit() {
		t.Fatal("first submit rejected")
	}
	if w.Submit() {
		t.Fatal("second submit accepted while pending")
	}
	if !w.Pending() {
		t.Fatal("expected pending")
	}
}

func TestSubmitFullQueueDrops(t *testing.T) {
	q := New(1) // not started
	if !q.NewWork(func() {}).Submit() {
		t.Fatal("first submit rejected")
	}
	w := q.NewWork(func() {})
	if w.Submit() {
		t.Fatal("submit accepted on a full queue")
	}
	if w.Pending() || q.Drops() != 1 {
		t.Fatalf("pending=%v drops=%d", w.Pending(), q.Drops())
	}
}

func TestPeriodicRearmsAfterEachRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := New(4)
	q.Start(ctx)
	fc := clockwork.NewFakeClock()

	var runs atomic.Uint32
	p := q.NewPeriodic(fc, time.Second, func() { runs.Add(1) })
	p.Start()
	waitFor(t, "first run", func() bool { return runs.Load() == 1 })

	for k := uint32(2); k <= 5; k++ {
		blockUntilArmed(t, fc)
		fc.Advance(999 * time.Millisecond)
		time.Sleep(10 * time.Millisecond)
		if runs.Load() != k-1 {
			t.Fatalf("ran before the period elapsed (runs=%d)", runs.Load())
		}
		fc.Advance(time.Millisecond)
		waitFor(t, "periodic run", func() bool { return runs.Load() == k })
	}
}

func TestPeriodicSetPeriodAppliesOnNextRearm(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := New(4)
	q.Start(ctx)
	fc := clockwork.NewFakeClock()

	var runs atomic.Uint32
	p := q.NewPeriodic(fc, time.Second, func() { runs.Add(1) })
	p.Start()
	waitFor(t, "first run", func() bool { return runs.Load() == 1 })
	blockUntilArmed(t, fc)

	p.SetPeriod(3 * time.Second)
	fc.Advance(time.Second) // still armed with the old period
	waitFor(t, "second run", func() bool { return runs.Load() == 2 })

	blockUntilArmed(t, fc)
	fc.Advance(2 * time.Second)
	time.Sleep(10 * time.Millisecond)
	if runs.Load() != 2 {
		t.Fatalf("new period not applied (runs=%d)", runs.Load())
	}
	fc.Advance(time.Second)
	waitFor(t, "third run", func() bool { return runs.Load() == 3 })
}

func TestPeriodicStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := New(4)
	q.Start(ctx)
	fc := clockwork.NewFakeClock()

	var runs atomic.Uint32
	p := q.NewPeriodic(fc, time.Second, func() { runs.Add(1) })
	p.Start()
	waitFor(t, "first run", func() bool { return runs.Load() == 1 })
	blockUntilArmed(t, fc)

	p.Stop()
	fc.Advance(10 * time.Second)
	time.Sleep(10 * time.Millisecond)
	if runs.Load() != 1 {
		t.Fatalf("ran after Stop (runs=%d)", runs.Load())
	}
}

func TestQueueStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	q := New(1)
	q.Start(ctx)
	cancel()
	select {
	case <-q.Done():
	case <-time.After(200 * time.Millisecond):
		t.Fatal("worker did not exit")
	}
}

func TestPeriodicSurvivesFullQueue(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := New(1)
	q.Start(ctx)
	fc := clockwork.NewFakeClock()

	var runs atomic.Uint32
	p := q.NewPeriodic(fc, time.Second, func() { runs.Add(1) })
	p.Start()
	waitFor(t, "first run", func() bool { return runs.Load() == 1 })
	blockUntilArmed(t, fc)

	// Park the worker and fill the single slot.
	gate := make(chan struct{})
	busy := make(chan struct{})
	q.NewWork(func() { close(busy); <-gate }).Submit()
	<-busy
	if !q.NewWork(func() {}).Submit() {
		t.Fatal("filler rejected")
	}

	fc.Advance(time.Second)
	waitFor(t, "drop", func() bool { return q.Drops() == 1 })
	blockUntilArmed(t, fc)
	if runs.Load() != 1 {
		t.Fatalf("runs = %d, want 1", runs.Load())
	}

	close(gate)
	fc.Advance(time.Second)
	waitFor(t, "run after drop", func() bool { return runs.Load() == 2 })
}
