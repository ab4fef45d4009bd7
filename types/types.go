package types

// ---- Common HAL state (retained) ----

type HALState struct {
	Level  string `json:"level"`  // "starting", "ready", "degraded", "stopped"
	Status string `json:"status"` // short code
	TS     int64  `json:"ts_ms"`
	Error  string `json:"error,omitempty"`
}

// ---- Capability kinds ----

type Kind string

const (
	KindLED    Kind = "led"
	KindButton Kind = "button"
)

// Info envelope each capability exposes (retained).
type Info struct {
	SchemaVersion int    `json:"schema_version"`
	Driver        string `json:"driver"`
	Detail        any    `json:"detail,omitempty"`
}

type PinInfo struct {
	Port string `json:"port"`
	Pin  int    `json:"pin"`
	Edge string `json:"edge,omitempty"` // inputs: the active edge
}

// ---- Button payloads ----

// ButtonEvent is published once per observed press.
type ButtonEvent struct {
	Count int32 `json:"count"`
	TS    int64 `json:"ts_ms"`
}

// ---- LED payloads ----

type LEDValue struct {
	Level   uint8  `json:"level"` // 0 or 1
	Toggles uint32 `json:"toggles"`
}
