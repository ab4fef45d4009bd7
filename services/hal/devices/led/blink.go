package led

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"blinkdemo-go/bus"
	"blinkdemo-go/errcode"
	"blinkdemo-go/services/hal/internal/consts"
	"blinkdemo-go/services/hal/internal/halcore"
	"blinkdemo-go/services/hal/internal/util"
	"blinkdemo-go/types"
	"blinkdemo-go/x/fmtx"
	"blinkdemo-go/x/mathx"
	"blinkdemo-go/x/workq"
)

const (
	DefaultPeriod = 1000 * time.Millisecond
	MinPeriod     = 50 * time.Millisecond
	MaxPeriod     = 60 * time.Second
)

var topicConfigBlink = bus.T(consts.TokConfig, consts.TokBlink)

type Config struct {
	Name    string // e.g. "led0"
	Spec    halcore.PinSpec
	Period  time.Duration
	Clock   clockwork.Clock
	Queue   *workq.Queue
	Console io.Writer
	Conn    *bus.Connection // optional
}

// Actuator toggles one output line on a fixed period.
type Actuator struct {
	cfg   Config
	topic bus.Topic

	mu      sync.Mutex
	pin     halcore.IRQPin
	level   bool // logical
	toggles uint32

	task *workq.Periodic
}

func New(cfg Config) *Actuator {
	if cfg.Name == "" {
		cfg.Name = "led0"
	}
	if cfg.Period <= 0 {
		cfg.Period = DefaultPeriod
	}
	cfg.Period = mathx.Clamp(cfg.Period, MinPeriod, MaxPeriod)
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.Console == nil {
		cfg.Console = io.Discard
	}
	return &Actuator{
		cfg:   cfg,
		topic: bus.T(consts.TokHAL, consts.TokCap, string(types.KindLED), cfg.Name, consts.TokState),
	}
}

// Start configures the line LOW and schedules the first toggle at once.
// On failure it logs to the console and returns the code; the LED then
// stays dark and nothing retries.
func (a *Actuator) Start(ctx context.Context) error {
	s := a.cfg.Spec
	if !s.Ready() {
		fmtx.Fprintf(a.cfg.Console, "Error: %s device is not ready\n", s.PortName())
		return errcode.NotReady
	}
	pin, err := s.Open()
	if err == nil {
		err = pin.ConfigureOutput(s.Physical(false))
	}
	if err != nil {
		fmtx.Fprintf(a.cfg.Console, "Error %s: failed to configure pin %d (LED '%s')\n", errcode.Of(err), s.Pin, a.cfg.Name)
		return errcode.ConfigRejected
	}

	a.mu.Lock()
	a.pin = pin
	a.level = false
	a.toggles = 0
	a.mu.Unlock()
	a.publish()

	a.task = a.cfg.Queue.NewPeriodic(a.cfg.Clock, a.cfg.Period, a.tick)
	a.task.Start()

	if a.cfg.Conn != nil {
		sub := a.cfg.Conn.Subscribe(topicConfigBlink)
		go a.configLoop(ctx, sub)
	}
	return nil
}

func (a *Actuator) tick() {
	a.mu.Lock()
	a.level = !a.level
	a.toggles++
	a.pin.Toggle()
	a.mu.Unlock()
	a.publish()
}

func (a *Actuator) publish() {
	if a.cfg.Conn == nil {
		return
	}
	a.mu.Lock()
	v := types.LEDValue{Toggles: a.toggles}
	if a.level {
		v.Level = 1
	}
	a.mu.Unlock()
	a.cfg.Conn.Publish(a.cfg.Conn.NewMessage(a.topic, v, true))
}

// configLoop applies "period_ms" from config/blink to the next re-arm.
func (a *Actuator) configLoop(ctx context.Context, sub *bus.Subscription) {
	defer a.cfg.Conn.Unsubscribe(sub)
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.Channel():
			if !ok {
				return
			}
			ms, ok := periodMS(msg.Payload)
			if !ok {
				continue
			}
			d := mathx.Clamp(time.Duration(ms)*time.Millisecond, MinPeriod, MaxPeriod)
			if d != a.task.Period() {
				a.task.SetPeriod(d)
				fmtx.Fprintf(a.cfg.Console, "LED '%s' period set to %d ms\n", a.cfg.Name, int(d/time.Millisecond))
			}
		}
	}
}

func periodMS(payload any) (int, bool) {
	bc, ok := payload.(types.BlinkConfig)
	if !ok && util.DecodeJSON(payload, &bc) != nil {
		return 0, false
	}
	return bc.PeriodMS, bc.PeriodMS > 0
}

// Level is the current logical level (true = on).
func (a *Actuator) Level() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.level
}

// Toggles counts level transitions since Start.
func (a *Actuator) Toggles() uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.toggles
}

// Period is the interval used for the next re-arm.
func (a *Actuator) Period() time.Duration {
	if a.task == nil {
		return a.cfg.Period
	}
	return a.task.Period()
}
