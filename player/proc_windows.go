//go:build windows

package player

import (
	"os/exec"
	"syscall"
)

func procAttr() *syscall.SysProcAttr {
	return nil
}

func forceQuit(cmd *exec.Cmd) {
	if cmd != nil && cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
}
