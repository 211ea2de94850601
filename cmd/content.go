package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/preshow-cli/preshow/catalog"
	"github.com/preshow-cli/preshow/color"
	"github.com/preshow-cli/preshow/icon"
	"github.com/preshow-cli/preshow/log"
	"github.com/preshow-cli/preshow/player"
	"github.com/preshow-cli/preshow/style"
	"github.com/preshow-cli/preshow/util"
	"github.com/preshow-cli/preshow/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(contentCmd)
	contentCmd.SetOut(os.Stdout)

	contentCmd.AddCommand(contentScanCmd)
	contentScanCmd.Flags().StringP("path", "p", "", "Content folder to scan instead of the configured one")

	contentCmd.AddCommand(contentInitCmd)
}

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Manage the content folder",
}

var contentInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the folders of the content tree",
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(catalog.EnsureTree(where.Content()))
		cmd.Printf("%s %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), where.Content())
	},
}

var contentScanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Add new content to the catalog and drop what was removed",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		root := lo.Must(cmd.Flags().GetString("path"))
		if root == "" {
			root = where.Content()
		}

		store, err := openCatalog()
		handleErr(err)
		defer util.Ignore(store.Close)

		probe := player.Probe(ctx)
		if probe == nil {
			log.Warn("ffprobe not found, song durations are not measured")
		}

		erase := func() {}
		scanner := &catalog.Scanner{
			Root:   root,
			Writer: store,
			Probe:  probe,
			Progress: func(section, name string) {
				erase()
				erase = util.PrintErasable(fmt.Sprintf("%s %s %s", icon.Get(icon.Progress), style.Kind(section), name))
			},
		}

		report, err := scanner.Scan(ctx)
		erase()
		handleErr(err)

		cmd.Println(renderTable(
			[]string{"Songs", "Trivia", "Slides", "Bumpers", "Pruned", "Errors"},
			[][]string{{
				strconv.Itoa(report.Songs),
				strconv.Itoa(report.Trivia),
				strconv.Itoa(report.Slides),
				strconv.Itoa(report.Bumpers),
				strconv.Itoa(report.Pruned),
				strconv.Itoa(len(report.Errors)),
			}},
		))

		for _, e := range report.Errors {
			cmd.Printf("%s %s\n", style.Fg(color.Yellow)(icon.Get(icon.Cross)), e)
		}
	},
}
