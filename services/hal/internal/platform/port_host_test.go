//go:build !(rp2040 || rp2350)

package platform

import (
	"errors"
	"testing"

	"blinkdemo-go/errcode"
	"blinkdemo-go/services/hal/internal/halcore"
)

func TestFakePortPinsAreStable(t *testing.T) {
	p := NewFakePort("gpio0", 0, 28)
	a, err := p.Fake(5)
	if err != nil {
		t.Fatalf("Fake: %v", err)
	}
	b, _ := p.Pin(5)
	if halcore.IRQPin(a) != b {
		t.Fatal("expected the same pin instance")
	}
	if _, err := p.Pin(29); err != errcode.UnknownPin {
		t.Fatalf("out of range: err = %v", err)
	}
}

func TestFakePortReady(t *testing.T) {
	p := NewFakePort("gpio0", 0, 28)
	if !p.Ready() {
		t.Fatal("new port must be ready")
	}
	p.SetReady(false)
	spec := halcore.PinSpec{Port: p, Pin: 5}
	if spec.Ready() {
		t.Fatal("spec must follow port readiness")
	}
}

func TestFakePinEdges(t *testing.T) {
	p := NewFakePort("gpio0", 0, 28)
	pin, _ := p.Fake(5)
	if err := pin.ConfigureInput(halcore.PullUp); err != nil {
		t.Fatal(err)
	}
	if !pin.Get() {
		t.Fatal("pull-up input must idle high")
	}

	falls := 0
	if err := pin.SetIRQ(halcore.EdgeFalling, func() { falls++ }); err != nil {
		t.Fatal(err)
	}
	pin.Press()
	pin.Press()
	pin.Set(true) // no change, no edge
	if falls != 2 {
		t.Fatalf("falling edges = %d, want 2", falls)
	}

	_ = pin.ClearIRQ()
	pin.Press()
	if falls != 2 || pin.HasIRQ() {
		t.Fatal("handler ran after ClearIRQ")
	}
}

func TestFakePinFaults(t *testing.T) {
	p := NewFakePort("gpio0", 0, 28)
	pin, _ := p.Fake(25)
	pin.ConfigureErr = errors.New("rejected")
	if err := pin.ConfigureOutput(false); err == nil {
		t.Fatal("expected configure fault")
	}
	pin.IRQErr = errors.New("no irq")
	if err := pin.SetIRQ(halcore.EdgeRising, func() {}); err == nil {
		t.Fatal("expected irq fault")
	}

	pin.ConfigureErr = nil
	if err := pin.ConfigureOutput(true); err != nil || !pin.IsOutput() || !pin.Get() {
		t.Fatal("ConfigureOutput must set direction and level")
	}
	pin.Toggle()
	if pin.Get() {
		t.Fatal("Toggle must flip the level")
	}
}
