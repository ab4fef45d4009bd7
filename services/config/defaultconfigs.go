package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Key: config name of the board (boards.Board.Config, also placed in ctx
// under CtxDeviceKey)
// Val: raw JSON bytes for that board
// -----------------------------------------------------------------------------

const cfgPico = `{
  "blink": {
      "led": "led0",
      "period_ms": 1000
  },
  "shell": {
      "prompt": "uart:~$ ",
      "echo": true
  },
  "console": {
      "baud": 115200
  }
}`

const cfgHost = `{
  "blink": {
      "led": "led0",
      "period_ms": 1000
  },
  "shell": {
      "prompt": "uart:~$ ",
      "echo": false
  },
  "console": {
      "baud": 115200
  }
}`

var embeddedConfigs = map[string][]byte{
	"pico": []byte(cfgPico),
	"host": []byte(cfgHost),
}
