// Package serialport talks to the board's debug shell over a host serial
// port.
package serialport

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.bug.st/serial"
)

// ErrTimeout is returned when the shell does not answer in time.
var ErrTimeout = errors.New("timeout waiting for shell prompt")

// Port wraps a serial port opened 8N1.
type Port struct {
	port     serial.Port
	portName string
	baudRate int
}

// Open opens a serial port with the specified baud rate and drops any
// stale input.
func Open(portName string, baudRate int) (*Port, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open port %s: %w", portName, err)
	}

	// A read returns (0, nil) once the timeout elapses.
	if err := port.SetReadTimeout(100 * time.Millisecond); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to set read timeout: %w", err)
	}
	_ = port.ResetInputBuffer()

	return &Port{port: port, portName: portName, baudRate: baudRate}, nil
}

func (p *Port) Read(buf []byte) (int, error)   { return p.port.Read(buf) }
func (p *Port) Write(data []byte) (int, error) { return p.port.Write(data) }
func (p *Port) Name() string                   { return p.portName }
func (p *Port) BaudRate() int                  { return p.baudRate }

// Close closes the serial port.
func (p *Port) Close() error {
	if p.port != nil {
		return p.port.Close()
	}
	return nil
}

// ListPorts returns a list of available serial ports.
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list ports: %w", err)
	}
	return ports, nil
}

// Exchange sends one command line to the shell and returns its output,
// without the echoed command and the trailing prompt. A Read returning
// (0, nil) is treated as an idle poll.
func Exchange(rw io.ReadWriter, line, prompt string, timeout time.Duration) (string, error) {
	if _, err := io.WriteString(rw, line+"\r"); err != nil {
		return "", fmt.Errorf("failed to send %q: %w", line, err)
	}

	var acc []byte
	buf := make([]byte, 256)
	deadline := time.Now().Add(timeout)
	for {
		n, err := rw.Read(buf)
		acc = append(acc, buf[:n]...)
		if reply, ok := cutReply(string(acc), line, prompt); ok {
			return reply, nil
		}
		if err != nil {
			return "", fmt.Errorf("read failed: %w", err)
		}
		if time.Now().After(deadline) {
			return "", ErrTimeout
		}
	}
}

// cutReply reports the command output once the prompt following it has
// arrived.
func cutReply(s, line, prompt string) (string, bool) {
	if !strings.HasSuffix(s, prompt) {
		return "", false
	}
	s = strings.TrimSuffix(s, prompt)
	// The echoed command ends the first line; anything before it is a
	// stale prompt.
	i := strings.IndexByte(s, '\n')
	if i < 0 {
		return "", false
	}
	if first := strings.TrimRight(s[:i], "\r"); strings.HasSuffix(first, line) {
		s = s[i+1:]
	}
	return strings.ReplaceAll(s, "\r\n", "\n"), true
}
