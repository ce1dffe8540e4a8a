package driver

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"sync"
)

const (
	// lineQueue is how many unread lines a child may buffer before its reader
	// stops pulling from the pipe.
	lineQueue = 512

	// maxLineBytes caps a single line. Anything past it is discarded.
	maxLineBytes = 1 << 20
)

// NativeLauncher spawns children with stdout and stderr sharing one pipe and
// stdin connected to the null device.
type NativeLauncher struct {
	Env    []string
	Logger *slog.Logger
}

// NewNative creates a launcher that inherits the current environment.
func NewNative() *NativeLauncher {
	return &NativeLauncher{
		Logger: slog.With("component", "driver"),
	}
}

func (l *NativeLauncher) Launch(ctx context.Context, c Command) (Process, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cmd := exec.Command(c.Path, c.Args...)
	if l.Env != nil {
		cmd.Env = l.Env
	}

	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("creating output pipe: %w", err)
	}

	// Both streams share the write end so ordering between them is preserved.
	cmd.Stdout = pw
	cmd.Stderr = pw
	setProcessGroup(cmd)

	if err := cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		return nil, launchError(c, err)
	}

	// The child holds its own copy of the write end; ours must go so EOF arrives.
	pw.Close()

	p := newProc(cmd, pr, l.logger()).run()
	p.logger.Debug("process started", "command", c.String(), "pid", p.PID())
	return p, nil
}

func (l *NativeLauncher) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}

func launchError(c Command, err error) error {
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("starting %s: %w: %w", c, ErrNotFound, err)
	}
	return fmt.Errorf("starting %s: %w", c, err)
}

// proc is the Process implementation shared by the pipe and pty launchers.
type proc struct {
	cmd    *exec.Cmd
	out    io.ReadCloser
	lines  chan string
	done   chan struct{}
	quit   chan struct{}
	logger *slog.Logger

	mu       sync.Mutex
	exitCode int
	closed   bool

	filter func(string) string
}

func newProc(cmd *exec.Cmd, out io.ReadCloser, logger *slog.Logger) *proc {
	p := &proc{
		cmd:      cmd,
		out:      out,
		lines:    make(chan string, lineQueue),
		done:     make(chan struct{}),
		quit:     make(chan struct{}),
		logger:   logger,
		exitCode: -1,
	}
	return p
}

// run starts the reader and waiter goroutines. Split from newProc so callers
// can install a line filter first.
func (p *proc) run() *proc {
	go p.read()
	go p.wait()
	return p
}

func (p *proc) read() {
	defer close(p.lines)

	r := bufio.NewReaderSize(p.out, 64*1024)
	var buf []byte
	for {
		frag, more, err := r.ReadLine()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				p.logger.Debug("output stream ended", "pid", p.PID(), "error", err)
			}
			return
		}

		// Over-long lines keep their first maxLineBytes; the rest is dropped.
		if room := maxLineBytes - len(buf); room > 0 {
			buf = append(buf, frag[:min(len(frag), room)]...)
		}
		if more {
			continue
		}

		line := string(buf)
		buf = buf[:0]
		if p.filter != nil {
			line = p.filter(line)
		}
		select {
		case p.lines <- line:
		case <-p.quit:
			return
		}
	}
}

func (p *proc) wait() {
	err := p.cmd.Wait()

	p.mu.Lock()
	if p.cmd.ProcessState != nil {
		p.exitCode = p.cmd.ProcessState.ExitCode()
	}
	p.mu.Unlock()

	if err != nil {
		p.logger.Debug("process exited", "pid", p.PID(), "error", err)
	}
	close(p.done)
}

func (p *proc) PID() int {
	if p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}

func (p *proc) Lines() <-chan string  { return p.lines }
func (p *proc) Done() <-chan struct{} { return p.done }

func (p *proc) ExitCode() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exitCode
}

// Terminate and Kill signal the whole process group. They still do so after
// the group leader has exited, so descendants it left running are reached.
func (p *proc) Terminate() error {
	return terminate(p.cmd.Process, p.exited())
}

func (p *proc) Kill() error {
	return kill(p.cmd.Process, p.exited())
}

func (p *proc) exited() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

func (p *proc) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	close(p.quit)
	return p.out.Close()
}
