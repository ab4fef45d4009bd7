//go:build !(rp2040 || rp2350)

package app

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"blinkdemo-go/bus"
	"blinkdemo-go/services/hal"
	"blinkdemo-go/services/shell"
)

// console feeds scripted input and records output from every goroutine.
type console struct {
	in io.Reader

	mu  sync.Mutex
	out bytes.Buffer
}

func (c *console) Read(p []byte) (int, error) { return c.in.Read(p) }

func (c *console) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.out.Write(p)
}

func (c *console) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.out.String()
}

func start(t *testing.T, ctx context.Context, input string, extra ...shell.Command) (*App, *hal.FakePort, *console) {
	t.Helper()
	board := hal.SelectedBoard()
	port := hal.NewFakePort("gpio0", board.GPIOMin, board.GPIOMax)
	con := &console{in: strings.NewReader(input)}
	a := Start(ctx, Options{
		Board:   board,
		Port:    port,
		Console: con,
		Clock:   clockwork.NewFakeClock(),
		Extra:   extra,
	})
	select {
	case <-a.HAL.Ready():
	case <-time.After(500 * time.Millisecond):
		t.Fatal("HAL did not finish startup")
	}
	return a, port, con
}

func TestStart_BannerConfigAndHAL(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a, port, con := start(t, ctx, "")

	out := con.String()
	if !strings.HasPrefix(out, Banner+"\n") {
		t.Fatalf("console does not start with banner: %q", out)
	}
	if !strings.Contains(out, "Button initialised on gpio0 pin 5") {
		t.Fatalf("missing button init line: %q", out)
	}
	if a.Config.Blink.PeriodMS != 1000 || a.Config.Shell.Prompt != shell.DefaultPrompt {
		t.Fatalf("config = %+v", a.Config)
	}

	sw, _ := port.Fake(hal.SelectedBoard().SW0.Pin)
	sw.Press()
	if a.HAL.Presses() != 1 {
		t.Fatalf("presses = %d", a.HAL.Presses())
	}
}

func TestStart_ConfigRetainedOnBus(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a, _, _ := start(t, ctx, "")

	conn := a.Bus.NewConnection("probe")
	sub := conn.Subscribe(bus.T("config", "blink"))
	defer conn.Unsubscribe(sub)
	select {
	case m := <-sub.Channel():
		cfg, ok := m.Payload.(map[string]any)
		if !ok || cfg["period_ms"] != float64(1000) {
			t.Fatalf("config/blink = %#v", m.Payload)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("config/blink not retained")
	}
}

func TestServe_HelloAndExtraCommand(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ping := shell.Command{Name: "ping", Help: "reply pong", Handler: func(w io.Writer, _ []string) int {
		io.WriteString(w, "pong\n")
		return 0
	}}
	a, _, con := start(t, ctx, "hello there\nping\n", ping)

	if err := a.Serve(ctx); err != nil {
		t.Fatalf("Serve: %v", err)
	}
	out := con.String()
	if !strings.Contains(out, shell.HelloText+"\n") {
		t.Fatalf("hello reply missing: %q", out)
	}
	if !strings.Contains(out, "pong\n") {
		t.Fatalf("extra command reply missing: %q", out)
	}
}

func TestServe_BlinkCommandChangesPeriod(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a, _, con := start(t, ctx, "blink\nblink 250\nblink soon\n")

	if err := a.Serve(ctx); err != nil {
		t.Fatalf("Serve: %v", err)
	}
	deadline := time.Now().Add(500 * time.Millisecond)
	for a.HAL.LEDPeriod() != 250*time.Millisecond {
		if time.Now().After(deadline) {
			t.Fatalf("period = %v, want 250ms", a.HAL.LEDPeriod())
		}
		time.Sleep(time.Millisecond)
	}
	out := con.String()
	for _, want := range []string{
		"period 1000 ms\n",
		"blink: invalid period \"soon\"\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	deadline = time.Now().Add(500 * time.Millisecond)
	for !strings.Contains(con.String(), "LED 'led0' period set to 250 ms\n") {
		if time.Now().After(deadline) {
			t.Fatalf("no period change log:\n%s", con.String())
		}
		time.Sleep(time.Millisecond)
	}
}
