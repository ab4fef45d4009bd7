//go:build !(rp2040 || rp2350)

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"blinkdemo-go/app"
	"blinkdemo-go/services/hal"
	"blinkdemo-go/services/shell"
	"blinkdemo-go/x/strconvx"
)

func runSim(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	con := struct {
		io.Reader
		io.Writer
	}{cmd.InOrStdin(), cmd.OutOrStdout()}
	return runSimOn(ctx, con, time.Duration(pressDelay)*time.Millisecond)
}

// runSimOn runs the app on a fake board until ctx is done or input ends.
func runSimOn(ctx context.Context, con io.ReadWriter, hold time.Duration) error {
	board := hal.SelectedBoard()
	port := hal.NewFakePort("gpio0", board.GPIOMin, board.GPIOMax)
	sw, err := port.Fake(board.SW0.Pin)
	if err != nil {
		return fmt.Errorf("sim: button pin: %w", err)
	}

	var a *app.App
	extra := []shell.Command{
		{
			Name: "press",
			Help: "press the simulated button [count]",
			Handler: func(w io.Writer, args []string) int {
				n := 1
				if len(args) > 0 {
					v, err := strconvx.Atoi(args[0])
					if err != nil || v < 1 {
						fmt.Fprintf(w, "press: invalid count %q\n", args[0])
						return 1
					}
					n = v
				}
				<-a.HAL.Ready()
				for i := 0; i < n; i++ {
					sw.Set(false)
					time.Sleep(hold)
					sw.Set(true)
				}
				return 0
			},
		},
		{
			Name: "status",
			Help: "show presses and LED state",
			Handler: func(w io.Writer, _ []string) int {
				fmt.Fprintf(w, "presses=%d led=%t toggles=%d irq_drops=%d work_drops=%d\n",
					a.HAL.Presses(), a.HAL.LEDLevel(), a.HAL.LEDToggles(), a.HAL.IRQDrops(), a.HAL.WorkDrops())
				return 0
			},
		},
	}

	a = app.Start(ctx, app.Options{
		Board:   board,
		Port:    port,
		Console: con,
		Extra:   extra,
	})
	return a.Serve(ctx)
}
