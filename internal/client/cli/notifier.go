package cli

import (
	"fmt"
	"io"
)

// terminalNotifier prints operation outcomes as one-line banners.
type terminalNotifier struct {
	w io.Writer
}

func newTerminalNotifier(w io.Writer) *terminalNotifier {
	return &terminalNotifier{w: w}
}

func (n *terminalNotifier) Success(msg string) { fmt.Fprintf(n.w, "[ok] %s\n", msg) }
func (n *terminalNotifier) Error(msg string)   { fmt.Fprintf(n.w, "[error] %s\n", msg) }
func (n *terminalNotifier) Info(msg string)    { fmt.Fprintf(n.w, "[info] %s\n", msg) }
