package errcode

import (
	"errors"
	"fmt"
	"testing"
)

func TestCodesAreStableStrings(t *testing.T) {
	cases := map[string]Code{
		"ok":              OK,
		"not_ready":       NotReady,
		"config_rejected": ConfigRejected,
		"irq_rejected":    IRQRejected,
		"unknown_pin":     UnknownPin,
		"unknown_command": UnknownCommand,
		"invalid_params":  InvalidParams,
		"invalid_config":  InvalidConfig,
	}
	for want, c := range cases {
		if c.Error() != want {
			t.Fatalf("code %q mismatch: got %q", want, c.Error())
		}
	}
}

func TestOf(t *testing.T) {
	cause := errors.New("pin 99 out of range")
	wrapped := Wrap(UnknownPin, "configure", cause)

	if got := Of(nil); got != OK {
		t.Fatalf("Of(nil) = %q", got)
	}
	if got := Of(NotReady); got != NotReady {
		t.Fatalf("Of(code) = %q", got)
	}
	if got := Of(wrapped); got != UnknownPin {
		t.Fatalf("Of(E) = %q", got)
	}
	if got := Of(fmt.Errorf("setup: %w", IRQRejected)); got != IRQRejected {
		t.Fatalf("Of(fmt wrap) = %q", got)
	}
	if got := Of(errors.New("boom")); got != Error {
		t.Fatalf("Of(plain) = %q", got)
	}
	if !errors.Is(wrapped, cause) {
		t.Fatal("E must unwrap to its cause")
	}
	if wrapped.Error() != "configure: unknown_pin: pin 99 out of range" {
		t.Fatalf("unexpected message %q", wrapped.Error())
	}
}
