//go:build !(rp2040 || rp2350)

package main

import (
	"os"

	"github.com/spf13/cobra"

	"blinkdemo-go/services/config"
)

var (
	version = "dev"
)

var (
	portFlag    string
	baudFlag    int
	timeoutFlag int
	pressDelay  int
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "picoctl",
		Short: "Host companion for the blink/button demo firmware",
		Long: `picoctl runs the demo firmware against a simulated board on the host,
and talks to the debug shell of a real board over its serial port.`,
		SilenceUsage: true,
	}

	simCmd := &cobra.Command{
		Use:   "sim",
		Short: "Run the firmware on a simulated board (stdin is the shell)",
		Long: `Run the firmware app against fake GPIO. The shell reads stdin; the
host-only commands "press" and "status" drive and inspect the fake board.`,
		Args: cobra.NoArgs,
		RunE: runSim,
	}
	simCmd.Flags().IntVar(&pressDelay, "press-ms", 20, "Hold time of a simulated press in milliseconds")

	portsCmd := &cobra.Command{
		Use:   "ports",
		Short: "List available serial ports",
		Args:  cobra.NoArgs,
		RunE:  runPorts,
	}

	consoleCmd := &cobra.Command{
		Use:   "console",
		Short: "Bridge stdin/stdout to the board shell",
		Args:  cobra.NoArgs,
		RunE:  runConsole,
	}
	consoleCmd.Flags().StringVarP(&portFlag, "port", "p", "", "Serial port")
	consoleCmd.Flags().IntVarP(&baudFlag, "baud", "b", config.DefaultBaud, "Baud rate")
	_ = consoleCmd.MarkFlagRequired("port")

	helloCmd := &cobra.Command{
		Use:   "hello",
		Short: "Run the hello command on the board and print its reply",
		Args:  cobra.NoArgs,
		RunE:  runHello,
	}
	helloCmd.Flags().StringVarP(&portFlag, "port", "p", "", "Serial port")
	helloCmd.Flags().IntVarP(&baudFlag, "baud", "b", config.DefaultBaud, "Baud rate")
	helloCmd.Flags().IntVar(&timeoutFlag, "timeout-ms", 2000, "Reply timeout in milliseconds")
	_ = helloCmd.MarkFlagRequired("port")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version info",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("picoctl %s\n", version)
		},
	}

	rootCmd.AddCommand(simCmd, portsCmd, consoleCmd, helloCmd, versionCmd)
	return rootCmd
}
