package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Console prints user-facing status lines
type Console struct {
	out     io.Writer
	errOut  io.Writer
	red     *color.Color
	green   *color.Color
	blue    *color.Color
	colored bool
}

// NewConsole creates a console writing to out and errOut. Colors are used
// only when colored is true.
func NewConsole(out, errOut io.Writer, colored bool) *Console {
	c := &Console{
		out:     out,
		errOut:  errOut,
		red:     color.New(color.FgRed),
		green:   color.New(color.FgGreen),
		blue:    color.New(color.FgBlue),
		colored: colored,
	}
	for _, col := range []*color.Color{c.red, c.green, c.blue} {
		if colored {
			col.EnableColor()
		} else {
			col.DisableColor()
		}
	}
	return c
}

// NewStdConsole creates a console on stdout/stderr, colored when stdout is a
// terminal
func NewStdConsole() *Console {
	return NewConsole(os.Stdout, os.Stderr, IsTerminal(os.Stdout))
}

// Out returns the plain output writer
func (c *Console) Out() io.Writer {
	return c.out
}

// Err returns the error output writer
func (c *Console) Err() io.Writer {
	return c.errOut
}

// Error prints a red error line to the error output
func (c *Console) Error(format string, args ...any) {
	c.red.Fprintln(c.errOut, ErrorPrefix+" "+fmt.Sprintf(format, args...))
}

// Success prints a green line with a check mark
func (c *Console) Success(format string, args ...any) {
	c.green.Fprintln(c.out, IconSuccess+" "+fmt.Sprintf(format, args...))
}

// Info prints a blue informational line
func (c *Console) Info(format string, args ...any) {
	c.blue.Fprintln(c.out, IconInfo+" "+fmt.Sprintf(format, args...))
}

// Println prints an uncolored line
func (c *Console) Println(args ...any) {
	fmt.Fprintln(c.out, args...)
}

// Printf prints uncolored formatted text
func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}
