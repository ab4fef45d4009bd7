package app

import (
	"io"
	"time"

	"blinkdemo-go/bus"
	"blinkdemo-go/services/shell"
	"blinkdemo-go/types"
	"blinkdemo-go/x/fmtx"
	"blinkdemo-go/x/strconvx"
)

var topicConfigBlink = bus.T("config", "blink")

// blinkCommand shows the LED period, or replaces config/blink with a new
// one. The actuator applies it at its next re-arm.
func (a *App) blinkCommand() shell.Command {
	return shell.Command{
		Name: "blink",
		Help: "show or set the LED period [ms]",
		Handler: func(w io.Writer, args []string) int {
			if len(args) == 0 {
				fmtx.Fprintf(w, "period %d ms\n", int(a.HAL.LEDPeriod()/time.Millisecond))
				return 0
			}
			ms, err := strconvx.Atoi(args[0])
			if err != nil || ms <= 0 {
				fmtx.Fprintf(w, "blink: invalid period %q\n", args[0])
				return 1
			}
			cfg := types.BlinkConfig{LED: a.Config.Blink.LED, PeriodMS: ms}
			a.conn.Publish(a.conn.NewMessage(topicConfigBlink, cfg, true))
			return 0
		},
	}
}
