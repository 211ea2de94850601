//go:build !windows

package player

import (
	"os/exec"
	"syscall"
)

// mpv gets its own process group so helpers it spawns (youtube-dl, ffmpeg)
// go down with it.
func procAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

func forceQuit(cmd *exec.Cmd) {
	if cmd == nil || cmd.Process == nil {
		return
	}
	if err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL); err != nil {
		_ = cmd.Process.Kill()
	}
}
