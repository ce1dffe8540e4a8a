// Package pane owns one monitored child process and the rolling buffer of
// its output shown in a dashboard cell.
package pane

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/benaskins/ztop/internal/driver"
	"github.com/benaskins/ztop/internal/logbuf"
)

const (
	// DefaultStopTimeout is how long Stop waits after terminating before it kills.
	DefaultStopTimeout = 2 * time.Second

	// killGrace bounds the wait after a forced kill so a stuck child cannot hang Stop.
	killGrace = 2 * time.Second

	// maxDrain caps the lines taken in one Refresh so a child that writes
	// faster than it is drained cannot hold up a tick.
	maxDrain = 4096
)

var (
	// ErrAlreadyStarted is returned when Start is called more than once.
	ErrAlreadyStarted = errors.New("pane already started")

	// ErrStopped is returned when Start is called after Stop.
	ErrStopped = errors.New("pane stopped")
)

// Info is a point-in-time view of a pane for status output.
type Info struct {
	Label   string
	Command string
	State   driver.State
	PID     int
	Lines   int
}

// Pane is a monitored process: a label, a fixed command, the live child
// while it runs, and the ring its output is drained into.
type Pane struct {
	label       string
	command     driver.Command
	launcher    driver.Launcher
	buf         *logbuf.Ring
	stopTimeout time.Duration
	logger      *slog.Logger

	// drainMu serializes Refresh so a ring is only appended from one path at a time.
	drainMu sync.Mutex

	mu      sync.Mutex
	proc    driver.Process
	state   driver.State
	started bool
	eof     bool
	stopped chan struct{}
}

// Option configures a Pane.
type Option func(*Pane)

// WithCapacity sets how many lines the pane keeps.
func WithCapacity(n int) Option {
	return func(p *Pane) {
		p.buf = logbuf.New(n)
	}
}

// WithLauncher sets how the child is spawned.
func WithLauncher(l driver.Launcher) Option {
	return func(p *Pane) {
		p.launcher = l
	}
}

// WithStopTimeout sets the grace period between terminate and kill.
func WithStopTimeout(d time.Duration) Option {
	return func(p *Pane) {
		if d > 0 {
			p.stopTimeout = d
		}
	}
}

// WithLogger sets the pane logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pane) {
		p.logger = l
	}
}

// New creates a pane that has not been started.
func New(label string, cmd driver.Command, opts ...Option) *Pane {
	p := &Pane{
		label:       label,
		command:     cmd,
		launcher:    driver.NewNative(),
		buf:         logbuf.New(logbuf.DefaultCapacity),
		stopTimeout: DefaultStopTimeout,
		state:       driver.StateIdle,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.With("component", "pane")
	}
	p.logger = p.logger.With("pane", label)
	return p
}

// Label returns the display name.
func (p *Pane) Label() string { return p.label }

// Command returns the launch command.
func (p *Pane) Command() driver.Command { return p.command }

// State returns the current lifecycle state.
func (p *Pane) State() driver.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Info returns a snapshot of the pane's status.
func (p *Pane) Info() Info {
	p.mu.Lock()
	defer p.mu.Unlock()

	info := Info{
		Label:   p.label,
		Command: p.command.String(),
		State:   p.state,
		Lines:   p.buf.Len(),
	}
	if p.proc != nil {
		info.PID = p.proc.PID()
	}
	return info
}

// Start spawns the child. A launch failure is not returned: it becomes a
// single diagnostic line in the pane and the pane is left without a child.
// The only errors are ErrAlreadyStarted and ErrStopped.
func (p *Pane) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.stopped != nil {
		p.mu.Unlock()
		return ErrStopped
	}
	if p.started {
		p.mu.Unlock()
		return ErrAlreadyStarted
	}
	p.started = true
	p.state = driver.StateStarting
	p.mu.Unlock()

	proc, err := p.launcher.Launch(ctx, p.command)

	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		if p.stopped == nil {
			p.state = driver.StateFailed
		}
		p.buf.Append(diagnostic(p.command, err))
		p.logger.Warn("failed to start command", "command", p.command.String(), "error", err)
		return nil
	}

	// Stop may have run while the launch was in flight.
	if p.stopped != nil {
		_ = proc.Kill() // best effort, the pane is already gone
		_ = proc.Close()
		return nil
	}

	p.proc = proc
	p.state = driver.StateRunning
	p.logger.Info("started", "command", p.command.String(), "pid", proc.PID())
	return nil
}

func diagnostic(cmd driver.Command, err error) string {
	if errors.Is(err, driver.ErrNotFound) {
		return fmt.Sprintf("Error: Command '%s' not found", cmd)
	}
	return fmt.Sprintf("Error: Command '%s' failed to start: %v", cmd, err)
}

// Refresh drains whatever output is immediately available into the ring and
// returns the current snapshot. It never blocks on the child.
func (p *Pane) Refresh() string {
	p.drainMu.Lock()
	defer p.drainMu.Unlock()

	p.mu.Lock()
	proc, eof := p.proc, p.eof
	p.mu.Unlock()

	if proc == nil || eof {
		return p.buf.Snapshot()
	}

	lines := proc.Lines()
	for n := 0; n < maxDrain; n++ {
		select {
		case line, ok := <-lines:
			if !ok {
				p.mu.Lock()
				p.eof = true
				p.mu.Unlock()
				return p.buf.Snapshot()
			}
			line = strings.TrimRightFunc(line, unicode.IsSpace)
			if line == "" {
				continue
			}
			p.buf.Append(line)
		default:
			return p.buf.Snapshot()
		}
	}
	return p.buf.Snapshot()
}

// Snapshot returns the buffered text without draining.
func (p *Pane) Snapshot() string {
	return p.buf.Snapshot()
}

// Stop terminates the child, waits up to the stop timeout, then kills it.
// Signal failures are discarded. Stop is a no-op on a pane that never
// started a child, and repeated or concurrent calls all return once the
// first one has finished.
func (p *Pane) Stop(ctx context.Context) {
	p.mu.Lock()
	if p.stopped != nil {
		ch := p.stopped
		p.mu.Unlock()
		select {
		case <-ch:
		case <-ctx.Done():
		}
		return
	}
	ch := make(chan struct{})
	p.stopped = ch
	proc := p.proc
	if proc == nil {
		p.state = driver.StateStopped
		close(ch)
		p.mu.Unlock()
		return
	}
	p.state = driver.StateStopping
	p.mu.Unlock()

	defer close(ch)

	p.shutdown(ctx, proc)

	p.mu.Lock()
	p.proc = nil
	p.eof = true
	p.state = driver.StateStopped
	p.mu.Unlock()
}

func (p *Pane) shutdown(ctx context.Context, proc driver.Process) {
	defer func() {
		_ = proc.Close() // releases the reader; nothing left to read
	}()

	if err := proc.Terminate(); err != nil {
		p.logger.Debug("terminate failed, killing", "error", err)
		p.kill(proc)
		return
	}

	timer := time.NewTimer(p.stopTimeout)
	defer timer.Stop()

	select {
	case <-proc.Done():
		p.logger.Info("stopped", "exit_code", proc.ExitCode())
	case <-timer.C:
		p.logger.Warn("did not exit after terminate, killing", "timeout", p.stopTimeout)
		p.kill(proc)
	case <-ctx.Done():
		p.kill(proc)
	}
}

func (p *Pane) kill(proc driver.Process) {
	if err := proc.Kill(); err != nil {
		// Nothing more can be done; the pane is considered gone regardless.
		p.logger.Debug("kill failed", "error", err)
	}

	timer := time.NewTimer(killGrace)
	defer timer.Stop()

	select {
	case <-proc.Done():
	case <-timer.C:
		p.logger.Debug("child still present after kill")
	}
}
