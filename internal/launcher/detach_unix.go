//go:build unix

package launcher

import (
	"os/exec"
	"syscall"
)

// detach runs cmd in its own session so it outlives openit and the
// controlling terminal. Nil standard streams are connected to /dev/null.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
}
