//go:build !(rp2040 || rp2350)

package hal

import "blinkdemo-go/services/hal/internal/platform"

// Host fakes, for the simulator and tests.
type (
	FakePort = platform.FakePort
	FakePin  = platform.FakePin
)

func NewFakePort(name string, min, max int) *FakePort {
	return platform.NewFakePort(name, min, max)
}
