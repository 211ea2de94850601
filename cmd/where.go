package cmd

import (
	"os"

	"github.com/preshow-cli/preshow/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

type location struct {
	label string
	flag  string
	short mo.Option[string]
	path  func() string
}

var locations = []location{
	{"Config", "config", mo.Some("c"), where.Config},
	{"Sequences", "sequences", mo.Some("s"), where.Sequences},
	{"Scripts", "scripts", mo.Some("S"), where.Scripts},
	{"Content", "content", mo.Some("C"), where.Content},
	{"Catalog", "catalog", mo.Some("d"), where.Database},
	{"History", "history", mo.None[string](), where.History},
	{"Trailer due times", "due", mo.None[string](), where.Due},
	{"Logs", "logs", mo.Some("l"), where.Logs},
	{"Lock", "lock", mo.None[string](), where.Lock},
	{"Cache", "cache", mo.None[string](), where.Cache},
	{"Temp", "temp", mo.None[string](), where.Temp},
}

func init() {
	rootCmd.AddCommand(whereCmd)
	whereCmd.SetOut(os.Stdout)

	for _, l := range locations {
		usage := "Print only the " + l.label + " path"
		short, ok := l.short.Get()
		if ok {
			whereCmd.Flags().BoolP(l.flag, short, false, usage)
		} else {
			whereCmd.Flags().Bool(l.flag, false, usage)
		}
	}

	whereCmd.MarkFlagsMutuallyExclusive(lo.Map(locations, func(l location, _ int) string { return l.flag })...)
}

var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Print where preshow keeps its files",
	Run: func(cmd *cobra.Command, args []string) {
		picked, ok := lo.Find(locations, func(l location) bool {
			return lo.Must(cmd.Flags().GetBool(l.flag))
		})
		if ok {
			cmd.Println(picked.path())
			return
		}

		rows := lo.Map(locations, func(l location, _ int) []string {
			return []string{l.label, "--" + l.flag, l.path()}
		})
		cmd.Println(renderTable([]string{"What", "Flag", "Path"}, rows))
	},
}
