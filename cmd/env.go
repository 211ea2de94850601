package cmd

import (
	"os"

	"github.com/preshow-cli/preshow/color"
	"github.com/preshow-cli/preshow/config"
	"github.com/preshow-cli/preshow/style"
	"github.com/preshow-cli/preshow/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

type envVar struct {
	name, setting string
}

// envVars lists every variable preshow reads, sorted by name.
func envVars() []envVar {
	vars := lo.Map(config.EnvExposed, func(k string, _ int) envVar {
		f := config.Default[k]
		return envVar{name: f.Env(), setting: k}
	})
	vars = append(vars, envVar{name: where.EnvConfigPath, setting: "config directory"})

	slices.SortFunc(vars, func(a, b envVar) int {
		switch {
		case a.name < b.name:
			return -1
		case a.name > b.name:
			return 1
		}
		return 0
	})
	return vars
}

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.SetOut(os.Stdout)

	envCmd.Flags().BoolP("set-only", "s", false, "Only list variables that are set")
	envCmd.Flags().BoolP("unset-only", "u", false, "Only list variables that are not set")
	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "List the environment variables that override settings",
	Run: func(cmd *cobra.Command, args []string) {
		setOnly := lo.Must(cmd.Flags().GetBool("set-only"))
		unsetOnly := lo.Must(cmd.Flags().GetBool("unset-only"))

		var rows [][]string
		for _, v := range envVars() {
			value, present := os.LookupEnv(v.name)
			if (setOnly && !present) || (unsetOnly && present) {
				continue
			}

			shown := style.Faint("unset")
			if present {
				shown = style.Fg(color.Green)(value)
			}
			rows = append(rows, []string{v.name, shown, v.setting})
		}

		cmd.Println(renderTable([]string{"Variable", "Value", "Setting"}, rows))
	},
}
