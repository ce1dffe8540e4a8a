package driver

import (
	"context"
	"errors"
	"testing"
)

func TestCleanTerminalLine(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "load average: 0.52", "load average: 0.52"},
		{"colors", "\x1b[32mCPU\x1b[0m 12%", "CPU 12%"},
		{"trailing cr", "Mem: 4G\r", "Mem: 4G"},
		{"overwritten", "old text\rnew", "new"},
		{"cursor movement", "\x1b[2J\x1b[Hheader", "header"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanTerminalLine(tt.in); got != tt.want {
				t.Errorf("cleanTerminalLine(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPTYLaunch(t *testing.T) {
	p, err := NewPTY(0, 0).Launch(context.Background(), Cmd("sh", "-c", "test -t 1 && printf '\\033[31mtty\\033[0m\\n'"))
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	defer p.Close()

	lines := collect(t, p)
	if len(lines) != 1 || lines[0] != "tty" {
		t.Errorf("expected [tty], got %q", lines)
	}
}

func TestPTYStdinIsTerminal(t *testing.T) {
	p, err := NewPTY(0, 0).Launch(context.Background(), Cmd("sh", "-c", "test -t 0 && echo stdin-tty"))
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	defer p.Close()

	lines := collect(t, p)
	if len(lines) != 1 || lines[0] != "stdin-tty" {
		t.Errorf("expected [stdin-tty], got %q", lines)
	}
}

func TestPTYNotFound(t *testing.T) {
	_, err := NewPTY(24, 80).Launch(context.Background(), Cmd("ztop-definitely-not-installed"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
