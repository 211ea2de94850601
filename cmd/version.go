package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/preshow-cli/preshow/color"
	"github.com/preshow-cli/preshow/constant"
	"github.com/preshow-cli/preshow/key"
	"github.com/preshow-cli/preshow/player"
	"github.com/preshow-cli/preshow/style"
	"github.com/preshow-cli/preshow/version"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.SetOut(os.Stdout)
	versionCmd.Flags().BoolP("short", "s", false, "Print the version number only")
}

// binary reports where a helper program resolves to.
func binary(name string) string {
	path, err := exec.LookPath(name)
	if err != nil {
		return style.Fg(color.Red)("not found")
	}
	return path
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version, build details and the players in use",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("short")) {
			cmd.Println(constant.Version)
			return
		}

		defer version.Notify()

		cmd.Println(style.Fg(color.Purple)("▇▇▇"), style.Bold(constant.Preshow), constant.Version)
		cmd.Println()

		for _, row := range [][2]string{
			{"Revision", constant.Revision},
			{"Built", strings.TrimSpace(constant.BuiltAt) + " by " + constant.BuiltBy},
			{"Platform", runtime.GOOS + "/" + runtime.GOARCH},
			{"Go", runtime.Version()},
			{"mpv", binary(viper.GetString(key.PlayerPath))},
			{"ffprobe", binary(player.ProbeBinary)},
		} {
			cmd.Printf("  %s %s\n", style.Faint(fmt.Sprintf("%-10s", row[0])), row[1])
		}
	},
}
