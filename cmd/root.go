// Package cmd implements the command-line interface of preshow.
package cmd

import (
	"fmt"
	"os"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/mattn/go-isatty"
	"github.com/preshow-cli/preshow/color"
	"github.com/preshow-cli/preshow/config"
	"github.com/preshow-cli/preshow/constant"
	"github.com/preshow-cli/preshow/icon"
	"github.com/preshow-cli/preshow/key"
	"github.com/preshow-cli/preshow/log"
	"github.com/preshow-cli/preshow/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Icon variant (emoji, nerd, plain, kaomoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().StringP("content", "C", "", "Content folder")
	lo.Must0(viper.BindPFlag(key.ContentPath, rootCmd.PersistentFlags().Lookup("content")))
}

var rootCmd = &cobra.Command{
	Use:   constant.Preshow,
	Short: "Home theater preshow sequencer",
	Long: constant.Logo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - trivia, trailers and bumpers before the feature"),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		for _, k := range config.Unknown() {
			log.Warnf("unknown setting %q in the config file", k)
			_, _ = fmt.Fprintf(os.Stderr, "%s unknown setting %s, see preshow config info\n", icon.Get(icon.Warn), style.Fg(color.Yellow)(k))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}
		handleErr(cmd.Help())
	},
}

// Execute runs the command line.
func Execute() {
	if viper.GetBool(key.CliColored) && isatty.IsTerminal(os.Stdout.Fd()) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
