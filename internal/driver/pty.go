package driver

import (
	"context"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/creack/pty"
)

const (
	defaultPTYRows = 40
	defaultPTYCols = 120
)

// PTYLauncher spawns children attached to a pseudo-terminal. Full-screen
// monitors refuse to start without one. Stdin, stdout and stderr are all the
// pty slave, because the child needs a controlling terminal on stdin. The
// master side is only ever read, so no input reaches the child.
type PTYLauncher struct {
	Env    []string
	Rows   uint16
	Cols   uint16
	Logger *slog.Logger
}

// NewPTY creates a pty launcher with a fixed terminal size.
func NewPTY(rows, cols uint16) *PTYLauncher {
	if rows == 0 {
		rows = defaultPTYRows
	}
	if cols == 0 {
		cols = defaultPTYCols
	}
	return &PTYLauncher{
		Rows:   rows,
		Cols:   cols,
		Logger: slog.With("component", "driver", "mode", "pty"),
	}
}

func (l *PTYLauncher) Launch(ctx context.Context, c Command) (Process, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cmd := exec.Command(c.Path, c.Args...)
	if l.Env != nil {
		cmd.Env = l.Env
	}

	// pty.Start makes the child a session leader, which already gives it its
	// own process group.
	master, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: l.Rows, Cols: l.Cols})
	if err != nil {
		if cmd.Err != nil {
			err = cmd.Err
		}
		return nil, launchError(c, err)
	}

	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}

	p := newProc(cmd, master, logger)
	p.filter = cleanTerminalLine
	p.run()
	logger.Debug("process started", "command", c.String(), "pid", p.PID())
	return p, nil
}

// cleanTerminalLine drops escape sequences and keeps only the text after the
// last carriage return, which is what a terminal would leave on screen.
func cleanTerminalLine(line string) string {
	line = ansi.Strip(line)
	line = strings.TrimRight(line, "\r")
	if i := strings.LastIndexByte(line, '\r'); i >= 0 {
		line = line[i+1:]
	}
	return line
}

