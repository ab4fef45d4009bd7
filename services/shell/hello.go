package shell

import "io"

// HelloText is printed by the hello command.
const HelloText = "It's me. I was wondering if after all these years you'd like to meet"

// Hello prints HelloText and succeeds whatever the arguments.
var Hello = Command{
	Name: "hello",
	Help: "say hello",
	Handler: func(w io.Writer, _ []string) int {
		io.WriteString(w, HelloText+"\n")
		return 0
	},
}
