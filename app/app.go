// Package app wires config, the HAL and the debug shell together. The
// firmware main and the host simulator both run it.
package app

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"blinkdemo-go/bus"
	"blinkdemo-go/errcode"
	"blinkdemo-go/services/config"
	"blinkdemo-go/services/hal"
	"blinkdemo-go/services/shell"
	"blinkdemo-go/types"
	"blinkdemo-go/x/fmtx"
	"blinkdemo-go/x/workq"
)

const Banner = "Starting engines, vroom"

type Options struct {
	Board   hal.Board // zero value: the board the binary was built for
	Port    hal.Port  // nil: the board's own port
	Console io.ReadWriter // nil: no input, output to fmtx.DefaultOutput
	Clock   clockwork.Clock
	Extra   []shell.Command // extra shell commands
}

type App struct {
	Bus    *bus.Bus
	Config types.Config
	HAL    *hal.Service
	Shell  *shell.Shell

	console io.ReadWriter
	conn    *bus.Connection
}

// Start prints the banner, publishes the board config and starts the HAL.
// It does not wait for the HAL to come up.
func Start(ctx context.Context, opts Options) *App {
	if opts.Board.Name == "" {
		opts.Board = hal.SelectedBoard()
	}
	if opts.Port == nil {
		opts.Port = hal.NewPort()
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Console == nil {
		opts.Console = struct {
			io.Reader
			io.Writer
		}{strings.NewReader(""), fmtx.DefaultOutput}
	}
	con := opts.Console

	fmtx.Fprintf(con, "%s\n", Banner)

	b := bus.NewBus(16)
	cfgConn := b.NewConnection("config")
	cctx := context.WithValue(ctx, config.CtxDeviceKey, opts.Board.Config)
	if err := config.NewConfigService().Publish(cctx, cfgConn); err != nil {
		fmtx.Fprintf(con, "Error %s: config not published\n", errcode.Of(err))
	}
	cfg, err := config.Load(opts.Board.Config)
	if err != nil {
		fmtx.Fprintf(con, "Error %s: using default config\n", errcode.Of(err))
		cfg = config.Normalise(types.Config{})
	}

	q := workq.New(8)
	q.Start(ctx)

	a := &App{Bus: b, Config: cfg, console: con, conn: b.NewConnection("shell")}
	a.HAL = hal.New(b.NewConnection("hal"), hal.Options{
		Board:   opts.Board,
		Port:    opts.Port,
		Clock:   opts.Clock,
		Console: con,
		Queue:   q,
		Period:  time.Duration(cfg.Blink.PeriodMS) * time.Millisecond,
		LEDName: cfg.Blink.LED,
	})
	go a.HAL.Run(ctx)

	a.Shell = shell.New(shell.Config{Prompt: cfg.Shell.Prompt, Echo: cfg.Shell.Echo})
	for _, c := range append([]shell.Command{shell.Hello, a.blinkCommand()}, opts.Extra...) {
		if err := a.Shell.Register(c); err != nil {
			fmtx.Fprintf(con, "Error %s: shell command %s\n", errcode.Of(err), c.Name)
		}
	}
	return a
}

// Serve runs the shell on the console until ctx is done or input ends.
func (a *App) Serve(ctx context.Context) error {
	return a.Shell.Serve(ctx, a.console)
}

// Run starts the app and serves the shell.
func Run(ctx context.Context, opts Options) error {
	return Start(ctx, opts).Serve(ctx)
}
