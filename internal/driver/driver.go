package driver

import (
	"context"
	"errors"
	"strings"
)

// State represents the lifecycle state of a monitored process.
type State string

const (
	StateIdle     State = "idle"
	StateStarting State = "starting"
	StateRunning  State = "running"
	StateStopping State = "stopping"
	StateStopped  State = "stopped"
	StateFailed   State = "failed"
)

// ErrNotFound is returned by a Launcher when the executable cannot be located.
var ErrNotFound = errors.New("executable not found")

// Command is a fixed argument vector. It is never passed through a shell.
type Command struct {
	Path string
	Args []string
}

// Cmd builds a Command from an executable and its arguments.
func Cmd(path string, args ...string) Command {
	return Command{Path: path, Args: args}
}

// String joins the executable and its arguments with single spaces.
func (c Command) String() string {
	return strings.Join(append([]string{c.Path}, c.Args...), " ")
}

// Process is a live child whose stdout and stderr arrive merged, one line at a time.
type Process interface {
	// PID returns the operating-system process id.
	PID() int

	// Lines delivers output lines without their trailing newline. The channel
	// is closed once the stream reaches end-of-file or a read fails.
	Lines() <-chan string

	// Done is closed when the child has exited.
	Done() <-chan struct{}

	// ExitCode returns the exit status, or -1 while running or when killed by a signal.
	ExitCode() int

	// Terminate asks the child (and its process group) to exit.
	Terminate() error

	// Kill forcibly ends the child (and its process group).
	Kill() error

	// Close releases the output stream and stops the reader goroutine.
	Close() error
}

// Launcher spawns child processes. Launch must return as soon as the child
// has been spawned; output is consumed later through Process.Lines.
type Launcher interface {
	Launch(ctx context.Context, cmd Command) (Process, error)
}
