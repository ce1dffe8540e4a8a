//go:build unix

package driver

import (
	"errors"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// setProcessGroup puts the child in its own group so signals reach its descendants.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func terminate(p *os.Process, exited bool) error {
	return signalGroup(p, unix.SIGTERM, exited)
}

func kill(p *os.Process, exited bool) error {
	return signalGroup(p, unix.SIGKILL, exited)
}

// signalGroup signals the process group led by p. While p is alive it falls
// back to p alone when the group is gone or was never created. Once p has
// been reaped its pid may be reused, so only the group is signalled and a
// missing group is not an error.
func signalGroup(p *os.Process, sig unix.Signal, exited bool) error {
	if p == nil {
		return os.ErrProcessDone
	}
	err := unix.Kill(-p.Pid, sig)
	if err == nil {
		return nil
	}
	if exited {
		if errors.Is(err, unix.ESRCH) {
			return nil
		}
		return err
	}
	return unix.Kill(p.Pid, sig)
}
