package strx

import "testing"

func TestCoalesce(t *testing.T) {
	if Coalesce("", "led0") != "led0" {
		t.Fatal("empty value should fall back")
	}
	if Coalesce("led1", "led0") != "led1" {
		t.Fatal("non-empty value should win")
	}
}
