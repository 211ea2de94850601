package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/preshow-cli/preshow/compiler"
	"github.com/preshow-cli/preshow/playable"
	"github.com/preshow-cli/preshow/style"
	"github.com/preshow-cli/preshow/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringP("sequence", "s", "", "Compile the sequence with this name instead of the best match")
	compileCmd.Flags().StringSliceP("feature", "f", []string{}, "Feature file, media or JSON")
	compileCmd.Flags().BoolP("json", "j", false, "Print the timeline as JSON")
	lo.Must0(compileCmd.RegisterFlagCompletionFunc("sequence", completionSequences))

	compileCmd.SetOut(os.Stdout)
}

var compileCmd = &cobra.Command{
	Use:   "compile [features...]",
	Short: "Print the timeline a sequence compiles to",
	Run: func(cmd *cobra.Command, args []string) {
		paths := append(lo.Must(cmd.Flags().GetStringSlice("feature")), args...)
		features, err := loadFeatures(paths)
		handleErr(err)

		docs, err := loadSequences()
		handleErr(err)

		doc, err := chooseSequence(docs, lo.Must(cmd.Flags().GetString("sequence")), features)
		handleErr(err)

		store, err := openCatalog()
		handleErr(err)
		defer util.Ignore(store.Close)

		proc := compiler.New(doc.Items, newContext(context.Background(), store, features, true))
		proc.Compile()

		if lo.Must(cmd.Flags().GetBool("json")) {
			values := make([]any, 0, len(proc.Timeline()))
			for _, pl := range proc.Timeline() {
				v, err := playable.Value(pl)
				handleErr(err)
				values = append(values, v)
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(values))
			return
		}

		cmd.Println(style.Title(doc.Name))
		cmd.Println(timelineTable(proc.Timeline()))
	},
}

func timelineTable(timeline []playable.Playable) string {
	rows := make([][]string, 0, len(timeline))
	for i, pl := range timeline {
		rows = append(rows, []string{
			strconv.Itoa(i),
			strconv.Itoa(pl.From()),
			pl.Module(),
			string(pl.Type()),
			describe(pl),
		})
	}
	return renderTable([]string{"#", "Item", "Module", "Type", "Playable"}, rows)
}

func describe(pl playable.Playable) string {
	if s, ok := pl.(fmt.Stringer); ok {
		return s.String()
	}
	return ""
}
