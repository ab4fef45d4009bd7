//go:build rp2040 || rp2350

package main

import (
	"context"
	"time"

	"blinkdemo-go/app"
	"blinkdemo-go/services/config"
	"blinkdemo-go/services/hal"
	"blinkdemo-go/x/fmtx"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("boot")

	baud := config.DefaultBaud
	if cfg, err := config.Load(hal.SelectedBoard().Config); err == nil {
		baud = cfg.Console.Baud
	}
	con, err := openConsole(baud)
	if err != nil {
		println("console:", err.Error())
	} else {
		fmtx.DefaultOutput = con
	}

	ctx := context.Background()
	a := app.Start(ctx, app.Options{Console: con})
	go func() {
		if err := a.Serve(ctx); err != nil {
			println("shell:", err.Error())
		}
	}()

	select {}
}
