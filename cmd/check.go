package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/preshow-cli/preshow/color"
	"github.com/preshow-cli/preshow/config"
	"github.com/preshow-cli/preshow/constant"
	"github.com/preshow-cli/preshow/icon"
	"github.com/preshow-cli/preshow/key"
	"github.com/preshow-cli/preshow/player"
	"github.com/preshow-cli/preshow/style"
	"github.com/preshow-cli/preshow/util"
	"github.com/preshow-cli/preshow/where"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var installHints = map[string]string{
	constant.Darwin:  "brew install mpv ffmpeg",
	constant.Linux:   "sudo apt install mpv ffmpeg",
	constant.Windows: "scoop install mpv ffmpeg",
}

// requirePlayer exits with an install hint when the configured mpv binary
// cannot be found.
func requirePlayer() {
	bin := viper.GetString(key.PlayerPath)
	if _, err := exec.LookPath(bin); err == nil {
		return
	}

	lines := []string{
		style.New().Bold(true).Foreground(style.Alert).Render(icon.Get(icon.Fail) + " mpv is missing"),
		"",
		style.New().Foreground(style.Body).Render(fmt.Sprintf("%q is not in PATH. Install mpv or point %s at it.", bin, key.PlayerPath)),
	}
	if hint, ok := installHints[runtime.GOOS]; ok {
		lines = append(lines, "", "  "+style.New().Foreground(style.Hint).Bold(true).Render(hint))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.Alert).
		Padding(1, 2).
		Margin(1, 0)

	fmt.Fprintln(os.Stderr, box.Render(strings.Join(lines, "\n")))
	os.Exit(1)
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.SetOut(os.Stdout)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that everything a show needs is in place",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			rows   [][]string
			failed bool
		)
		report := func(what string, ok bool, detail string) {
			mark := style.Fg(color.Green)(icon.Get(icon.Check))
			if !ok {
				mark = style.Fg(color.Red)(icon.Get(icon.Cross))
				failed = true
			}
			rows = append(rows, []string{mark, what, detail})
		}

		mpv := viper.GetString(key.PlayerPath)
		_, err := exec.LookPath(mpv)
		report("mpv", err == nil, binary(mpv))

		_, err = exec.LookPath(player.ProbeBinary)
		report("ffprobe", err == nil, binary(player.ProbeBinary))

		unknown := config.Unknown()
		detail := style.Faint(where.Config())
		if len(unknown) > 0 {
			detail = "unknown keys: " + strings.Join(unknown, ", ")
		}
		report("config", len(unknown) == 0, detail)

		docs, err := loadSequences()
		switch {
		case err != nil:
			report("sequences", false, err.Error())
		default:
			report("sequences", len(docs) > 0, util.Quantify(len(docs), "sequence", "sequences"))
		}

		store, err := openCatalog()
		if err != nil {
			report("catalog", false, err.Error())
		} else {
			report("catalog", true, store.Path())
			_ = store.Close()
		}

		cmd.Println(renderTable([]string{"", "Check", "Detail"}, rows))
		if failed {
			handleErr(fmt.Errorf("some checks failed"))
		}
	},
}
