package boards

import "blinkdemo-go/services/hal/internal/halcore"

// Line is one board-wired GPIO with its electrical flags.
type Line struct {
	Pin       int
	Pull      halcore.Pull
	ActiveLow bool
}

// Board describes what the PCB/SoC provides and how the demo lines are
// wired. Operating parameters (blink period, prompt) live in the config.
type Board struct {
	Name             string
	Config           string // embedded config key
	GPIOMin, GPIOMax int

	LED0 Line
	SW0  Line

	// Console UART pins; zero when the console is USB CDC.
	UARTTX, UARTRX int
}

// Spec binds a line to a port.
func (l Line) Spec(p halcore.Port) halcore.PinSpec {
	return halcore.PinSpec{Port: p, Pin: l.Pin, Pull: l.Pull, ActiveLow: l.ActiveLow}
}

// PicoDefault is a Raspberry Pi Pico with the onboard LED on GP25 and a
// push button from GP5 to ground.
var PicoDefault = Board{
	Name:    "pico_default",
	Config:  "pico",
	GPIOMin: 0,
	GPIOMax: 28,
	LED0:    Line{Pin: 25},
	SW0:     Line{Pin: 5, Pull: halcore.PullUp, ActiveLow: true},
	UARTTX:  8,
	UARTRX:  9,
}

// Host mirrors PicoDefault on fake pins.
var Host = Board{
	Name:    "host",
	Config:  "host",
	GPIOMin: 0,
	GPIOMax: 31,
	LED0:    Line{Pin: 25},
	SW0:     Line{Pin: 5, Pull: halcore.PullUp, ActiveLow: true},
}
