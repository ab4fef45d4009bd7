//go:build (rp2040 || rp2350) && uart_console

package main

import (
	"context"
	"io"

	"github.com/jangala-dev/tinygo-uartx/uartx"
)

// uartConsole puts the shell on UART1 (Pico: GP8 TX, GP9 RX).
type uartConsole struct{ u *uartx.UART }

func openConsole(baud int) (io.ReadWriter, error) {
	u := uartx.UART1
	if err := u.Configure(uartx.UARTConfig{
		BaudRate: uint32(baud),
		TX:       uartx.UART1_TX_PIN,
		RX:       uartx.UART1_RX_PIN,
	}); err != nil {
		return nil, err
	}
	return uartConsole{u: u}, nil
}

func (c uartConsole) Read(p []byte) (int, error) {
	return c.u.RecvSomeContext(context.Background(), p)
}

func (c uartConsole) Write(p []byte) (int, error) { return c.u.Write(p) }
