// Package open hands files to the system's default application or to a
// named editor.
package open

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/preshow-cli/preshow/constant"
)

// Run opens path with the default handler and waits for it.
func Run(path string) error {
	cmd, ok := command(path)
	if !ok {
		return fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
	return cmd.Run()
}

// RunWith opens path with app attached to the terminal, so terminal editors
// work too. An empty app falls back to Run.
func RunWith(path, app string) error {
	if app == "" {
		return Run(path)
	}

	cmd, ok := commandWith(path, app)
	if !ok {
		return fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	return cmd.Run()
}

func command(path string) (*exec.Cmd, bool) {
	switch runtime.GOOS {
	case constant.Windows:
		rundll := filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe")
		return exec.Command(rundll, "url.dll,FileProtocolHandler", path), true
	case constant.Darwin:
		return exec.Command("open", path), true
	case constant.Linux:
		return exec.Command("xdg-open", path), true
	default:
		return nil, false
	}
}

func commandWith(path, app string) (*exec.Cmd, bool) {
	switch runtime.GOOS {
	case constant.Windows:
		return exec.Command("cmd", "/C", "start", "/wait", "", app, path), true
	case constant.Darwin, constant.Linux:
		return exec.Command(app, path), true
	default:
		return nil, false
	}
}
