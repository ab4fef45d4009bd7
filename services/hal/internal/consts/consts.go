// services/hal/internal/consts/consts.go
package consts

// Top-level topics
const (
	TokConfig  = "config"
	TokHAL     = "hal"
	TokCap     = "cap"
	TokInfo    = "info"
	TokState   = "state"
	TokEvent   = "event"
	TokPressed = "pressed"
	TokBlink   = "blink"
)

// HAL state levels (hal/state)
const (
	LevelStarting = "starting"
	LevelReady    = "ready"
	LevelDegraded = "degraded"
	LevelStopped  = "stopped"
)

// HAL state status codes
const (
	StatusInit      = "init"
	StatusOK        = "ok"
	StatusCancelled = "context_cancelled"
)

// Driver names reported in capability info
const (
	DriverButton = "gpio_button"
	DriverLED    = "gpio_led"
)
