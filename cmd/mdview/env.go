package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Environment is the process surface a command touches: the clock and the
// standard streams. Tests swap in buffers and a fixed clock.
type Environment struct {
	Now    func() time.Time
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultEnv wires the real process streams.
func DefaultEnv() *Environment {
	return &Environment{Now: time.Now, Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// notifyContext cancels on SIGINT or SIGTERM so a running render or the
// server can shut down cleanly.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
