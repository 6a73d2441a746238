package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// warning prints a warning message to standard error, adapted from the
// teacher's cmd.Warning.
func warning(message string) {
	fmt.Fprintln(color.Error, color.YellowString("Warning:"), message)
}

// fatal prints an error message to standard error and terminates the
// process with a non-zero exit code.
func fatal(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}

// divider prints a horizontal rule sized to the controlling terminal's
// width, falling back to a fixed width when standard output isn't a
// terminal (for example when piped to a file).
func divider() {
	width := 60
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}
	fmt.Println(strings.Repeat("-", width))
}
