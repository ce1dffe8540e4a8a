//go:build !unix

package driver

import (
	"os"
	"os/exec"
)

func setProcessGroup(cmd *exec.Cmd) {}

// terminate has no graceful equivalent here; the error makes Stop escalate to kill.
func terminate(p *os.Process, exited bool) error {
	if exited {
		return nil
	}
	if p == nil {
		return os.ErrProcessDone
	}
	return p.Signal(os.Interrupt)
}

func kill(p *os.Process, exited bool) error {
	if exited {
		return nil
	}
	if p == nil {
		return os.ErrProcessDone
	}
	return p.Kill()
}
