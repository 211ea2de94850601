package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/preshow-cli/preshow/color"
	"github.com/preshow-cli/preshow/icon"
	"github.com/preshow-cli/preshow/style"
	"github.com/preshow-cli/preshow/trailer"
	"github.com/preshow-cli/preshow/util"
	"github.com/preshow-cli/preshow/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(trailersCmd)
	trailersCmd.SetOut(os.Stdout)

	trailersCmd.AddCommand(trailersUpdateCmd)
	trailersUpdateCmd.Flags().StringSliceP("source", "s", []string{}, "Only refresh these sources")
	trailersUpdateCmd.Flags().BoolP("force", "f", false, "Refresh every source in full, due or not")
	lo.Must0(trailersUpdateCmd.RegisterFlagCompletionFunc("source", completionTrailerSources))

	trailersCmd.AddCommand(trailersSourcesCmd)

	trailersCmd.AddCommand(trailersResetCmd)
	trailersResetCmd.ValidArgsFunction = completionTrailerSources
}

var trailersCmd = &cobra.Command{
	Use:   "trailers",
	Short: "Manage trailer sources",
}

var trailersUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Refresh the trailers of due sources",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		store, err := openCatalog()
		handleErr(err)
		defer util.Ignore(store.Close)

		registry := trailerRegistry(ctx)
		names := lo.Must(cmd.Flags().GetStringSlice("source"))
		if unknown, _ := lo.Difference(names, registry.Known(names)); len(unknown) > 0 {
			handleErr(fmt.Errorf("unknown trailer sources: %v", unknown))
		}

		erase := func() {}
		updater := &trailer.Updater{
			Registry: registry,
			Due:      trailer.NewDueStore(where.Due()),
			Writer:   store,
			Force:    lo.Must(cmd.Flags().GetBool("force")),
			Progress: func(source, title string) {
				erase()
				erase = util.PrintErasable(fmt.Sprintf("%s %s %s", icon.Get(icon.Progress), style.Faint(source), title))
			},
		}

		reports := updater.Update(ctx, names...)
		erase()

		rows := lo.Map(reports, func(r trailer.Report, _ int) []string {
			status := style.Fg(color.Green)(icon.Get(icon.Success))
			switch {
			case r.Err != nil:
				status = style.Fg(color.Red)(icon.Get(icon.Fail)) + " " + r.Err.Error()
			case r.Skipped:
				status = style.Faint("not due")
			case r.Full:
				status += " full"
			default:
				status += " recent"
			}

			return []string{
				r.Source,
				status,
				strconv.Itoa(r.Added),
				strconv.Itoa(r.Seen),
				strconv.Itoa(r.Removed),
			}
		})

		cmd.Println(renderTable([]string{"Source", "Status", "Added", "Seen", "Removed"}, rows))
	},
}

var trailersSourcesCmd = &cobra.Command{
	Use:     "sources",
	Short:   "List the trailer sources",
	Aliases: []string{"ls"},
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range trailerRegistry(context.Background()).Names() {
			cmd.Printf("%s %s\n", icon.Get(icon.Film), name)
		}
	},
}

var trailersResetCmd = &cobra.Command{
	Use:   "reset <source>...",
	Short: "Forget when sources were refreshed so the next update fetches everything",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		due := trailer.NewDueStore(where.Due())
		for _, name := range args {
			handleErr(due.Reset(name))
			cmd.Printf("%s %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), name)
		}
	},
}

func completionTrailerSources(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return trailerRegistry(context.Background()).Names(), cobra.ShellCompDirectiveNoFileComp
}
