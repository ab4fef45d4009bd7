// services/hal/internal/service/service.go
package service

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"blinkdemo-go/bus"
	"blinkdemo-go/errcode"
	"blinkdemo-go/services/hal/devices/gpio_button"
	"blinkdemo-go/services/hal/devices/led"
	"blinkdemo-go/services/hal/internal/consts"
	"blinkdemo-go/services/hal/internal/gpioirq"
	"blinkdemo-go/services/hal/internal/halcore"
	"blinkdemo-go/services/hal/internal/platform/boards"
	"blinkdemo-go/types"
	"blinkdemo-go/x/timex"
	"blinkdemo-go/x/workq"
)

// Options wires the service to a board, its GPIO port and the shared
// runtime pieces. Zero values get sensible defaults.
type Options struct {
	Board   boards.Board
	Port    halcore.Port
	Clock   clockwork.Clock
	Console io.Writer
	Queue   *workq.Queue // started by the caller; created and started by Run when nil
	Period  time.Duration
	LEDName string
}

// Service owns the demo's two GPIO leaves: the button monitor and the
// blink actuator.
type Service struct {
	conn *bus.Connection
	opts Options

	gpioW  *gpioirq.Worker
	queue  *workq.Queue
	button *gpio_button.Monitor
	led    *led.Actuator

	mu    sync.Mutex
	errs  map[string]error
	ready chan struct{}
}

var topicState = bus.Topic{consts.TokHAL, consts.TokState}

func New(conn *bus.Connection, opts Options) *Service {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Console == nil {
		opts.Console = io.Discard
	}
	if opts.LEDName == "" {
		opts.LEDName = "led0"
	}
	return &Service{
		conn:  conn,
		opts:  opts,
		gpioW: gpioirq.New(32, 32),
		errs:  map[string]error{},
		ready: make(chan struct{}),
	}
}

// Run brings both leaves up, publishes hal/state and blocks until ctx is
// done. A leaf that fails to start stays disabled; the other keeps running.
func (s *Service) Run(ctx context.Context) {
	s.publishState(consts.LevelStarting, consts.StatusInit, nil)

	q := s.opts.Queue
	if q == nil {
		q = workq.New(8)
		q.Start(ctx)
	}
	s.queue = q
	s.gpioW.Start(ctx)

	btnSpec := s.opts.Board.SW0.Spec(s.opts.Port)
	s.button = gpio_button.New(gpio_button.Config{
		Name:    "sw0",
		Spec:    btnSpec,
		IRQ:     s.gpioW,
		Console: s.opts.Console,
		Conn:    s.conn,
	})
	s.led = led.New(led.Config{
		Name:    s.opts.LEDName,
		Spec:    s.opts.Board.LED0.Spec(s.opts.Port),
		Period:  s.opts.Period,
		Clock:   s.opts.Clock,
		Queue:   q,
		Console: s.opts.Console,
		Conn:    s.conn,
	})

	// The button gets its own goroutine, like a dedicated thread.
	btnErr := make(chan error, 1)
	go func() { btnErr <- s.button.Start(ctx) }()

	ledErr := s.led.Start(ctx)
	s.record(s.opts.LEDName, ledErr)
	if ledErr == nil {
		s.publishInfo(types.KindLED, s.opts.LEDName, consts.DriverLED, types.PinInfo{Port: s.opts.Port.Name(), Pin: s.opts.Board.LED0.Pin})
	}

	var err error
	select {
	case err = <-btnErr:
	case <-ctx.Done():
		err = ctx.Err()
	}
	s.record("sw0", err)
	if err == nil {
		s.publishInfo(types.KindButton, "sw0", consts.DriverButton, types.PinInfo{
			Port: btnSpec.PortName(),
			Pin:  btnSpec.Pin,
			Edge: halcore.EdgeToString(btnSpec.ActiveEdge()),
		})
	}

	if first := s.firstErr(); first != nil {
		s.publishState(consts.LevelDegraded, string(errcode.Of(first)), first)
	} else {
		s.publishState(consts.LevelReady, consts.StatusOK, nil)
	}
	close(s.ready)

	<-ctx.Done()
	s.publishState(consts.LevelStopped, consts.StatusCancelled, nil)
}

// Ready is closed once startup has finished, successfully or not.
func (s *Service) Ready() <-chan struct{} { return s.ready }

// Err reports the startup error of a leaf ("sw0" or the LED name).
func (s *Service) Err(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errs[name]
}

// Presses is an advisory read of the button counter.
func (s *Service) Presses() int32 {
	<-s.ready
	return s.button.Count()
}

// LEDLevel is the logical LED level.
func (s *Service) LEDLevel() bool {
	<-s.ready
	return s.led.Level()
}

// LEDToggles counts LED transitions since startup.
func (s *Service) LEDToggles() uint32 {
	<-s.ready
	return s.led.Toggles()
}

// LEDPeriod is the blink period used for the next re-arm.
func (s *Service) LEDPeriod() time.Duration {
	<-s.ready
	return s.led.Period()
}

// IRQDrops counts interrupt events lost to a full dispatcher queue. The
// press counter itself never loses an edge.
func (s *Service) IRQDrops() uint32 { return s.gpioW.ISRDrops() }

// WorkDrops counts deferred work rejected by a full work queue.
func (s *Service) WorkDrops() uint32 {
	<-s.ready
	return s.queue.Drops()
}

func (s *Service) record(name string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.errs[name] = err
	}
}

func (s *Service) firstErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errs[s.opts.LEDName]; err != nil {
		return err
	}
	return s.errs["sw0"]
}

// ---- helpers ----

func (s *Service) publishState(level, status string, err error) {
	if s.conn == nil {
		return
	}
	payload := types.HALState{Level: level, Status: status, TS: timex.NowMs()}
	if err != nil {
		payload.Error = err.Error()
	}
	s.conn.Publish(s.conn.NewMessage(topicState, payload, true))
}

func (s *Service) publishInfo(kind types.Kind, name, driver string, detail types.PinInfo) {
	if s.conn == nil {
		return
	}
	info := types.Info{
		SchemaVersion: 1,
		Driver:        driver,
		Detail:        detail,
	}
	s.conn.Publish(s.conn.NewMessage(bus.T(consts.TokHAL, consts.TokCap, string(kind), name, consts.TokInfo), info, true))
}
