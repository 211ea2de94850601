package cmd

import (
	"os"
	"sort"

	"github.com/preshow-cli/preshow/color"
	"github.com/preshow-cli/preshow/filesystem"
	"github.com/preshow-cli/preshow/icon"
	"github.com/preshow-cli/preshow/style"
	"github.com/preshow-cli/preshow/util"
	"github.com/preshow-cli/preshow/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// clearable maps clear arguments to what they remove.
var clearable = map[string]struct {
	what string
	path func() string
}{
	"cache":   {"the cache directory, a default catalog included", where.Cache},
	"urls":    {"resolved trailer stream URLs", where.URLCache},
	"due":     {"trailer refresh times", where.Due},
	"history": {"show history", where.History},
	"logs":    {"log files", where.Logs},
}

func clearTargets() []string {
	names := lo.Keys(clearable)
	sort.Strings(names)
	return names
}

func init() {
	rootCmd.AddCommand(clearCmd)
	clearCmd.SetOut(os.Stdout)
	clearCmd.Flags().BoolP("all", "a", false, "Clear everything listed")
}

var clearCmd = &cobra.Command{
	Use:       "clear [target...]",
	Short:     "Remove caches, logs, history and trailer refresh times",
	Example:   "  preshow clear urls due",
	ValidArgs: clearTargets(),
	Args:      cobra.OnlyValidArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("all")) {
			args = clearTargets()
		}

		if len(args) == 0 {
			rows := lo.Map(clearTargets(), func(name string, _ int) []string {
				size, err := util.Size(clearable[name].path())
				shown := util.Bytes(size)
				if err != nil {
					shown = style.Fg(color.Red)(err.Error())
				}
				return []string{name, clearable[name].what, shown}
			})
			cmd.Println(renderTable([]string{"Target", "Removes", "Size"}, rows))
			return
		}

		for _, name := range lo.Uniq(args) {
			path := clearable[name].path()
			size, _ := util.Size(path)
			handleErr(filesystem.API().RemoveAll(path))
			cmd.Printf("%s %s %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), name, style.Faint("freed "+util.Bytes(size)))
		}
	},
}
