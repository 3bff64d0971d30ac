package ui

import (
	"io"
	"os"

	"golang.org/x/term"
)

// IsTerminal reports whether w is an interactive terminal
func IsTerminal(w any) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// TerminalWidth returns the column count of w, or DefaultTerminalWidth when
// w is not a terminal
func TerminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return DefaultTerminalWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return DefaultTerminalWidth
	}
	return width
}

// InteractiveInput returns in when it is a terminal and nil otherwise, so
// prompts are skipped when nobody can answer
func InteractiveInput(in *os.File) io.Reader {
	if in != nil && IsTerminal(in) {
		return in
	}
	return nil
}
