// Package cli provides shared formatting helpers for the merakisync CLI.
package cli

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// colorEnabled is false when NO_COLOR env var is set (per no-color.org)
// or stdout is not a terminal.
var colorEnabled = os.Getenv("NO_COLOR") == "" && term.IsTerminal(int(os.Stdout.Fd()))

// SetColor forces color output on or off.
func SetColor(enabled bool) {
	colorEnabled = enabled
}

func wrap(code, s string) string {
	if !colorEnabled {
		return s
	}
	return "\033[" + code + "m" + s + "\033[0m"
}

// Green wraps s in ANSI green. Returns s unchanged when color is off.
func Green(s string) string { return wrap("32", s) }

// Yellow wraps s in ANSI yellow. Returns s unchanged when color is off.
func Yellow(s string) string { return wrap("33", s) }

// Red wraps s in ANSI red. Returns s unchanged when color is off.
func Red(s string) string { return wrap("31", s) }

// Bold wraps s in ANSI bold. Returns s unchanged when color is off.
func Bold(s string) string { return wrap("1", s) }

// Dim wraps s in ANSI dim. Returns s unchanged when color is off.
func Dim(s string) string { return wrap("2", s) }

// DotPad pads name with dots to the given width.
// Example: DotPad("Q2XX-1111-2222", 24) → "Q2XX-1111-2222 ........."
func DotPad(name string, width int) string {
	if width <= 0 || len(name) >= width-1 {
		return name
	}
	dots := width - len(name) - 1
	return name + " " + strings.Repeat(".", dots)
}
