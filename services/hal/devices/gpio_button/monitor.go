package gpio_button

import (
	"context"
	"io"
	"sync/atomic"

	"blinkdemo-go/bus"
	"blinkdemo-go/errcode"
	"blinkdemo-go/services/hal/internal/consts"
	"blinkdemo-go/services/hal/internal/gpioirq"
	"blinkdemo-go/services/hal/internal/halcore"
	"blinkdemo-go/types"
	"blinkdemo-go/x/fmtx"
	"blinkdemo-go/x/timex"
)

// Counter is the press counter. OnEdge runs in interrupt context and is
// the only writer.
type Counter struct{ n atomic.Int32 }

func (c *Counter) OnEdge()     { c.n.Add(1) }
func (c *Counter) Load() int32 { return c.n.Load() }

type Config struct {
	Name    string // e.g. "sw0"
	Spec    halcore.PinSpec
	IRQ     *gpioirq.Worker
	Console io.Writer
	Conn    *bus.Connection // optional
}

// Monitor counts active edges on one input line.
type Monitor struct {
	cfg     Config
	counter Counter
	in      *gpioirq.Input
	topic   bus.Topic
}

func New(cfg Config) *Monitor {
	if cfg.Name == "" {
		cfg.Name = "sw0"
	}
	if cfg.Console == nil {
		cfg.Console = io.Discard
	}
	return &Monitor{
		cfg:   cfg,
		topic: bus.T(consts.TokHAL, consts.TokCap, string(types.KindButton), cfg.Name, consts.TokEvent, consts.TokPressed),
	}
}

// Start configures the line and installs the edge handler. On failure it
// logs to the console and returns the code; the monitor then stays
// disabled and nothing retries.
func (m *Monitor) Start(ctx context.Context) error {
	s := m.cfg.Spec
	port := s.PortName()

	if !s.Ready() {
		fmtx.Fprintf(m.cfg.Console, "Error: button device %s is not ready\n", port)
		return errcode.NotReady
	}
	pin, err := s.Open()
	if err == nil {
		err = pin.ConfigureInput(s.Pull)
	}
	if err != nil {
		fmtx.Fprintf(m.cfg.Console, "Error %s: failed to configure %s pin %d\n", errcode.Of(err), port, s.Pin)
		return errcode.ConfigRejected
	}
	in, err := m.cfg.IRQ.Register(m.cfg.Name, pin, s.ActiveEdge(), &m.counter)
	if err != nil {
		fmtx.Fprintf(m.cfg.Console, "Error %s: failed to configure interrupt on %s pin %d\n", errcode.Of(err), port, s.Pin)
		return errcode.IRQRejected
	}
	m.in = in

	fmtx.Fprintf(m.cfg.Console, "Button initialised on %s pin %d\n", port, s.Pin)
	fmtx.Fprintf(m.cfg.Console, "Press the button to start counting.\n")

	go m.loop(ctx, m.counter.Load())
	return nil
}

// Count is an advisory read of the press counter.
func (m *Monitor) Count() int32 { return m.counter.Load() }

// loop reports every count between the last one logged and the current
// counter, so a burst folded into one wakeup still prints each press.
func (m *Monitor) loop(ctx context.Context, logged int32) {
	defer m.in.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.in.Events():
			for n := m.counter.Load(); logged != n; {
				logged++
				m.report(logged)
			}
		}
	}
}

func (m *Monitor) report(n int32) {
	fmtx.Fprintf(m.cfg.Console, "%d\n", n)
	if m.cfg.Conn != nil {
		m.cfg.Conn.Publish(m.cfg.Conn.NewMessage(m.topic,
			types.ButtonEvent{Count: n, TS: timex.NowMs()}, false))
	}
}
