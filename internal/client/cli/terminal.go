package cli

import (
	"context"
	"fmt"
	"io"
)

// terminalNavigator records where the last flow wanted to go. Commands that
// follow a navigation (for example "signup" then "login") read it back.
type terminalNavigator struct {
	out      io.Writer
	location string
}

func (n *terminalNavigator) Navigate(_ context.Context, path string) {
	n.location = path
	fmt.Fprintf(n.out, "-> %s\n", path)
}

type terminalNotifier struct {
	out io.Writer
}

func (n terminalNotifier) Success(_ context.Context, message string) {
	fmt.Fprintf(n.out, "[ok] %s\n", message)
}

func (n terminalNotifier) Error(_ context.Context, message string) {
	fmt.Fprintf(n.out, "[error] %s\n", message)
}
