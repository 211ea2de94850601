package cmd

import (
	"os"
	"strings"
	"time"

	"github.com/preshow-cli/preshow/color"
	"github.com/preshow-cli/preshow/history"
	"github.com/preshow-cli/preshow/icon"
	"github.com/preshow-cli/preshow/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "l", 20, "Show at most this many runs, 0 for all")
	historyCmd.SetOut(os.Stdout)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the shows played",
	Run: func(cmd *cobra.Command, args []string) {
		runs, err := history.List()
		handleErr(err)

		if limit := lo.Must(cmd.Flags().GetInt("limit")); limit > 0 && len(runs) > limit {
			runs = runs[:limit]
		}

		if len(runs) == 0 {
			cmd.Println(style.Faint("No shows played yet"))
			return
		}

		rows := lo.Map(runs, func(r *history.Run, _ int) []string {
			return []string{
				r.Started.Local().Format("2006-01-02 15:04"),
				r.Sequence,
				strings.Join(r.Features, "\n"),
				r.Duration().Round(time.Second).String(),
				outcome(r),
			}
		})
		cmd.Println(renderTable([]string{"Started", "Sequence", "Features", "Ran", "Outcome"}, rows))
	},
}

func outcome(r *history.Run) string {
	switch r.Outcome {
	case history.Finished:
		return style.Fg(color.Green)(icon.Get(icon.Success) + " " + string(r.Outcome))
	case history.Aborted:
		return style.Fg(color.Yellow)(icon.Get(icon.Cross) + " " + string(r.Outcome))
	default:
		return style.Fg(color.Red)(icon.Get(icon.Fail)+" "+string(r.Outcome)) + "\n" + style.Faint(r.Error)
	}
}
