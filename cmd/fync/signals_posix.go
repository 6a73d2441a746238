//go:build !windows

package main

import (
	"os"
	"syscall"
)

// terminationSignals are the signals this process treats as a shutdown
// request.
var terminationSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
}
