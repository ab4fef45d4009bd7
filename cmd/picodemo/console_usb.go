//go:build (rp2040 || rp2350) && !uart_console

package main

import (
	"io"
	"machine"
	"time"
)

// usbConsole is the USB CDC serial. machine.Serial has no blocking Read,
// so Read polls Buffered.
type usbConsole struct{}

func openConsole(int) (io.ReadWriter, error) { return usbConsole{}, nil }

func (usbConsole) Read(p []byte) (int, error) {
	for machine.Serial.Buffered() == 0 {
		time.Sleep(5 * time.Millisecond)
	}
	n := 0
	for n < len(p) && machine.Serial.Buffered() > 0 {
		b, err := machine.Serial.ReadByte()
		if err != nil {
			break
		}
		p[n] = b
		n++
	}
	return n, nil
}

func (usbConsole) Write(p []byte) (int, error) { return machine.Serial.Write(p) }
