package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"github.com/preshow-cli/preshow/color"
	"github.com/preshow-cli/preshow/config"
	"github.com/preshow-cli/preshow/constant"
	"github.com/preshow-cli/preshow/filesystem"
	"github.com/preshow-cli/preshow/icon"
	"github.com/preshow-cli/preshow/open"
	"github.com/preshow-cli/preshow/sequence"
	"github.com/preshow-cli/preshow/style"
	"github.com/preshow-cli/preshow/util"
	"github.com/preshow-cli/preshow/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(sequenceCmd)
	sequenceCmd.SetOut(os.Stdout)

	sequenceCmd.AddCommand(sequenceListCmd)

	sequenceCmd.AddCommand(sequenceShowCmd)
	sequenceShowCmd.ValidArgsFunction = completionSequences

	sequenceCmd.AddCommand(sequenceValidateCmd)
	sequenceValidateCmd.ValidArgsFunction = completionSequences

	sequenceCmd.AddCommand(sequenceSchemaCmd)

	sequenceCmd.AddCommand(sequenceConvertCmd)
	sequenceConvertCmd.Flags().StringP("out", "o", "", "Where to write the converted sequence")

	sequenceCmd.AddCommand(sequenceNewCmd)
	sequenceNewCmd.Flags().BoolP("edit", "e", false, "Open the new sequence in the editor")

	sequenceCmd.AddCommand(sequenceEditCmd)
	sequenceEditCmd.ValidArgsFunction = completionSequences
	sequenceEditCmd.Flags().StringP("editor", "E", os.Getenv("EDITOR"), "Editor to open the file with, the system default when empty")
}

var sequenceCmd = &cobra.Command{
	Use:     "sequence",
	Short:   "Inspect sequences",
	Aliases: []string{"seq"},
}

var sequenceListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List sequences",
	Aliases: []string{"ls"},
	Run: func(cmd *cobra.Command, args []string) {
		docs, err := loadSequences()
		handleErr(err)

		rows := lo.Map(docs, func(d *sequence.Document, _ int) []string {
			return []string{
				d.Name,
				filepath.Base(d.Path()),
				yesNo(d.Active),
				yesNo(d.VisibleInDialog()),
				strconv.Itoa(len(d.Items)),
				strconv.Itoa(d.FeatureCount()),
				strings.Join(d.Attributes.Describe(), "\n"),
			}
		})

		cmd.Println(renderTable([]string{"Name", "File", "Active", "Dialog", "Items", "Features", "Conditions"}, rows))
	},
}

var sequenceShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show the items of a sequence and their settings",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		docs, err := loadSequences()
		handleErr(err)

		doc, ok := findSequence(docs, args[0]).Get()
		if !ok {
			handleErr(fmt.Errorf("no sequence like %q", args[0]))
		}

		width := 80
		if w, _, err := util.TerminalSize(); err == nil && w > 0 {
			width = w
		}

		cmd.Println(style.Title(doc.Name), style.Faint(doc.Path()))
		if conditions := doc.Attributes.Describe(); len(conditions) > 0 {
			cmd.Println(wordwrap.String(strings.Join(conditions, ", "), width))
		}
		cmd.Println()

		defaults := config.Defaults()
		for i, it := range doc.Items {
			title := fmt.Sprintf("%d. %s %s", i+1, style.Kind(it.Kind.String()), style.Bold(it.Display()))
			if !it.Enabled {
				title += " " + style.Faint("(disabled)")
			}
			cmd.Println(title)

			for _, el := range it.Kind.Elements() {
				if !it.Visible(el.Attr, defaults) {
					continue
				}
				cmd.Printf("   %s %s\n", style.Faint(el.Label+":"), it.SettingDisplay(el.Attr, defaults))
			}
		}
	},
}

var sequenceValidateCmd = &cobra.Command{
	Use:   "validate [names...]",
	Short: "Report problems in sequences",
	Run: func(cmd *cobra.Command, args []string) {
		docs, err := loadSequences()
		handleErr(err)

		if len(args) > 0 {
			docs = lo.FilterMap(args, func(name string, _ int) (*sequence.Document, bool) {
				return findSequence(docs, name).Get()
			})
		}

		bad := 0
		for _, d := range docs {
			issues := d.Validate()
			if len(issues) == 0 {
				cmd.Printf("%s %s\n", style.Fg(color.Green)(icon.Get(icon.Check)), d.Name)
				continue
			}

			bad++
			cmd.Printf("%s %s\n", style.Fg(color.Yellow)(icon.Get(icon.Question)), d.Name)
			for _, issue := range issues {
				cmd.Printf("   %s\n", issue)
			}
		}

		if bad > 0 {
			handleErr(fmt.Errorf("%s with problems", util.Quantify(bad, "sequence", "sequences")))
		}
	},
}

var sequenceSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of sequence files",
	Run: func(cmd *cobra.Command, args []string) {
		data, err := sequence.Schema()
		handleErr(err)
		cmd.Println(string(data))
	},
}

var sequenceConvertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "Convert a legacy XML sequence to the current format",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		doc, err := sequence.LoadFile(args[0])
		handleErr(err)

		out := lo.Must(cmd.Flags().GetString("out"))
		if out == "" {
			name := util.SanitizeFilename(util.FileStem(args[0]))
			out = filepath.Join(where.Sequences(), name+constant.SequenceExtension)
		}

		handleErr(doc.Save(out))
		cmd.Printf("%s %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), out)
	},
}

var sequenceNewCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a sequence holding a single feature item",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		target := filepath.Join(where.Sequences(), util.SanitizeFilename(args[0])+constant.SequenceExtension)
		exists, err := filesystem.API().Exists(target)
		handleErr(err)
		if exists {
			handleErr(fmt.Errorf("%s already exists", target))
		}

		doc := sequence.New(args[0])
		doc.Items = append(doc.Items, sequence.NewItem(sequence.Feature))
		handleErr(doc.Save(target))
		cmd.Printf("%s %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), target)

		if lo.Must(cmd.Flags().GetBool("edit")) {
			handleErr(open.RunWith(target, os.Getenv("EDITOR")))
		}
	},
}

var sequenceEditCmd = &cobra.Command{
	Use:   "edit <name>",
	Short: "Open a sequence file in an editor",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		docs, err := loadSequences()
		handleErr(err)

		doc, ok := findSequence(docs, args[0]).Get()
		if !ok {
			handleErr(fmt.Errorf("no sequence like %q", args[0]))
		}

		handleErr(open.RunWith(doc.Path(), lo.Must(cmd.Flags().GetString("editor"))))

		if _, err := sequence.LoadFile(doc.Path()); err != nil {
			cmd.Printf("%s %s\n", style.Fg(color.Red)(icon.Get(icon.Fail)), err)
		}
	},
}

func yesNo(b bool) string {
	if b {
		return style.Fg(color.Green)("yes")
	}
	return style.Faint("no")
}
