//go:build !(rp2040 || rp2350)

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"blinkdemo-go/internal/serialport"
	"blinkdemo-go/services/shell"
)

func runPorts(cmd *cobra.Command, args []string) error {
	ports, err := serialport.ListPorts()
	if err != nil {
		return err
	}

	if len(ports) == 0 {
		cmd.Println("No serial ports found")
		return nil
	}

	cmd.Println("Available serial ports:")
	for _, p := range ports {
		cmd.Printf("  %s\n", p)
	}
	return nil
}

func runHello(cmd *cobra.Command, args []string) error {
	port, err := serialport.Open(portFlag, baudFlag)
	if err != nil {
		return err
	}
	defer port.Close()

	reply, err := serialport.Exchange(port, "hello", shell.DefaultPrompt, time.Duration(timeoutFlag)*time.Millisecond)
	if err != nil {
		return fmt.Errorf("hello on %s: %w", port.Name(), err)
	}
	cmd.Print(reply)
	return nil
}

func runConsole(cmd *cobra.Command, args []string) error {
	port, err := serialport.Open(portFlag, baudFlag)
	if err != nil {
		return err
	}
	defer port.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	fmt.Fprintf(os.Stderr, "Connected to %s at %d baud. Ctrl-C to quit.\n", port.Name(), port.BaudRate())
	return bridge(ctx, port, cmd.InOrStdin(), cmd.OutOrStdout())
}

// bridge copies board output to out and in to the board until ctx is done,
// in ends, or either side fails.
func bridge(ctx context.Context, board io.ReadWriter, in io.Reader, out io.Writer) error {
	errc := make(chan error, 2)
	go func() {
		_, err := io.Copy(out, board)
		errc <- err
	}()
	go func() {
		_, err := io.Copy(board, in)
		errc <- err
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errc:
		return err
	}
}
