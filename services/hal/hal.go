// services/hal/hal.go
package hal

import (
	"blinkdemo-go/bus"
	"blinkdemo-go/services/hal/internal/halcore"
	"blinkdemo-go/services/hal/internal/platform"
	"blinkdemo-go/services/hal/internal/platform/boards"
	"blinkdemo-go/services/hal/internal/service"
)

// -----------------------------------------------------------------------------
// Public surface over the internal packages
// -----------------------------------------------------------------------------

type (
	Port    = halcore.Port
	Board   = boards.Board
	Options = service.Options
	Service = service.Service
)

// New builds the HAL service. Call Run on it to bring the board up.
func New(conn *bus.Connection, opts Options) *Service {
	if opts.Port == nil {
		opts.Port = platform.NewPort()
	}
	if opts.Board.Name == "" {
		opts.Board = platform.Selected
	}
	return service.New(conn, opts)
}

// SelectedBoard is the board this binary was built for.
func SelectedBoard() Board { return platform.Selected }

// NewPort returns the GPIO port of the selected board.
func NewPort() Port { return platform.NewPort() }
