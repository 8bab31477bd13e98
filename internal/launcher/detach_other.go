//go:build !unix

package launcher

import "os/exec"

func detach(cmd *exec.Cmd) {
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
}
