package mathx

import (
	"testing"
	"time"
)

func TestClamp(t *testing.T) {
	if got := Clamp(5, 1, 10); got != 5 {
		t.Fatalf("Clamp inside = %d", got)
	}
	if got := Clamp(-1, 1, 10); got != 1 {
		t.Fatalf("Clamp low = %d", got)
	}
	if got := Clamp(99, 10, 1); got != 10 {
		t.Fatalf("Clamp swapped bounds = %d", got)
	}
	if got := Clamp(10*time.Millisecond, 50*time.Millisecond, time.Minute); got != 50*time.Millisecond {
		t.Fatalf("Clamp duration = %v", got)
	}
}
