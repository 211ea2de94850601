package version

import (
	"fmt"

	"github.com/preshow-cli/preshow/color"
	"github.com/preshow-cli/preshow/constant"
	"github.com/preshow-cli/preshow/icon"
	"github.com/preshow-cli/preshow/key"
	"github.com/preshow-cli/preshow/style"
	"github.com/preshow-cli/preshow/util"
	"github.com/spf13/viper"
)

// Notify prints a note when a newer release than this build exists.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	erase := util.PrintErasable(fmt.Sprintf("%s Checking for a new version...", icon.Get(icon.Progress)))
	latest, err := Latest()
	erase()
	if err != nil {
		return
	}
	if cmp, err := Compare(latest, constant.Version); err != nil || cmp <= 0 {
		return
	}

	fmt.Printf(`
%s New version available %s %s
%s

`,
		style.Fg(color.Green)("▇▇▇"),
		style.Bold(latest),
		style.Faint(fmt.Sprintf("(you're on %s)", constant.Version)),
		style.Faint("https://github.com/preshow-cli/preshow/releases/tag/v"+latest),
	)
}
