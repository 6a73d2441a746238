package main

import (
	"os"

	"github.com/mattn/go-isatty"

	"github.com/maan2003/fync/transport"
)

// standardStream wraps the process's stdin/stdout as a transport.Stream,
// used by "fync serve". It prints a warning, but still proceeds, when either
// looks like a terminal, since the wire protocol is binary and would
// otherwise corrupt (or be corrupted by) an interactive shell.
func standardStream() transport.Stream {
	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsTerminal(os.Stdout.Fd()) {
		warning("stdin/stdout appear to be a terminal; fync serve expects a piped connection")
	}
	return transport.NewStdio(os.Stdin, os.Stdout, nil)
}
