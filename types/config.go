package types

// Config is the per-board configuration. Each top-level section is also
// published retained on "config/<section>".
type Config struct {
	Blink   BlinkConfig   `json:"blink"`
	Shell   ShellConfig   `json:"shell"`
	Console ConsoleConfig `json:"console"`
}

type BlinkConfig struct {
	LED      string `json:"led"`
	PeriodMS int    `json:"period_ms"`
}

type ShellConfig struct {
	Prompt string `json:"prompt"`
	Echo   bool   `json:"echo"`
}

type ConsoleConfig struct {
	Baud int `json:"baud"`
}
