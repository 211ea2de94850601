package cmd

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"os/user"
	"path"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/preshow-cli/preshow/action"
	"github.com/preshow-cli/preshow/catalog"
	"github.com/preshow-cli/preshow/color"
	"github.com/preshow-cli/preshow/constant"
	"github.com/preshow-cli/preshow/filesystem"
	"github.com/preshow-cli/preshow/icon"
	"github.com/preshow-cli/preshow/internal/scraper"
	"github.com/preshow-cli/preshow/network"
	"github.com/preshow-cli/preshow/style"
	"github.com/preshow-cli/preshow/trailer"
	"github.com/preshow-cli/preshow/util"
	"github.com/preshow-cli/preshow/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

const (
	kindAction  = "action"
	kindTrailer = "trailer"
)

func scriptsDir(kind string) (string, error) {
	switch kind {
	case kindAction:
		return where.ActionScripts(), nil
	case kindTrailer:
		return where.TrailerScripts(), nil
	}
	return "", fmt.Errorf("unknown script kind %q, expected %s or %s", kind, kindAction, kindTrailer)
}

func addKindFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("kind", "k", kindAction, "Script kind: action or trailer")
	lo.Must0(cmd.RegisterFlagCompletionFunc("kind", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{kindAction, kindTrailer}, cobra.ShellCompDirectiveNoFileComp
	}))
}

func init() {
	rootCmd.AddCommand(scriptsCmd)
	scriptsCmd.SetOut(os.Stdout)
}

var scriptsCmd = &cobra.Command{
	Use:   "scripts",
	Short: "Manage action scripts and trailer provider scripts",
}

func init() {
	scriptsCmd.AddCommand(scriptsListCmd)
	scriptsListCmd.Flags().BoolP("raw", "r", false, "Print paths only")
}

var scriptsListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List installed scripts",
	Aliases: []string{"ls"},
	Run: func(cmd *cobra.Command, args []string) {
		raw := lo.Must(cmd.Flags().GetBool("raw"))
		headerStyle := style.New().Foreground(color.HiBlue).Bold(true).Render

		for _, kind := range []string{kindAction, kindTrailer} {
			dir := lo.Must(scriptsDir(kind))
			files, err := filesystem.Files(dir, constant.LuaExtension)
			handleErr(err)

			if !raw {
				cmd.Println(headerStyle(util.Capitalize(kind) + ":"))
			}
			for _, f := range files {
				if raw {
					cmd.Println(f)
				} else {
					cmd.Printf("%s %s\n", icon.Get(icon.Lua), util.FileStem(f))
				}
			}
		}
	},
}

func init() {
	scriptsCmd.AddCommand(scriptsRemoveCmd)
	addKindFlag(scriptsRemoveCmd)
	scriptsRemoveCmd.ValidArgsFunction = func(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		dir, err := scriptsDir(lo.Must(cmd.Flags().GetString("kind")))
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		files, err := filesystem.Files(dir, constant.LuaExtension)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return lo.Map(files, func(f string, _ int) string { return util.FileStem(f) }), cobra.ShellCompDirectiveNoFileComp
	}
}

var scriptsRemoveCmd = &cobra.Command{
	Use:   "remove <name>...",
	Short: "Uninstall scripts",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir, err := scriptsDir(lo.Must(cmd.Flags().GetString("kind")))
		handleErr(err)

		for _, name := range args {
			handleErr(filesystem.API().Remove(filepath.Join(dir, name+constant.LuaExtension)))
			cmd.Printf("%s removed %s\n", icon.Get(icon.Success), style.Fg(color.Yellow)(name))
		}
	},
}

func init() {
	scriptsCmd.AddCommand(scriptsInstallCmd)
	addKindFlag(scriptsInstallCmd)
	scriptsInstallCmd.Flags().StringP("name", "n", "", "Install under this name instead of the file name of the URL")
}

var scriptsInstallCmd = &cobra.Command{
	Use:     "install <url>",
	Short:   "Download a script",
	Args:    cobra.ExactArgs(1),
	Example: "  preshow scripts install --kind trailer https://example.org/scripts/apple.lua",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		dir, err := scriptsDir(lo.Must(cmd.Flags().GetString("kind")))
		handleErr(err)

		remote, err := url.Parse(args[0])
		handleErr(err)

		name := lo.Must(cmd.Flags().GetString("name"))
		if name == "" {
			name = util.FileStem(path.Base(remote.Path))
		}
		name = util.SanitizeFilename(name)
		if name == "" {
			handleErr(fmt.Errorf("cannot name a script after %s, pass --name", args[0]))
		}

		target := filepath.Join(dir, name+constant.LuaExtension)
		changed, err := scraper.Install(ctx, network.Client, remote.String(), target)
		handleErr(err)

		if !changed {
			cmd.Printf("%s %s is up to date\n", icon.Get(icon.Check), name)
			return
		}
		cmd.Printf("%s installed %s\n", icon.Get(icon.Success), target)
	},
}

func init() {
	scriptsCmd.AddCommand(scriptsGenCmd)
	addKindFlag(scriptsGenCmd)

	scriptsGenCmd.Flags().StringP("name", "n", "", "Name of the new script")
	scriptsGenCmd.Flags().StringP("url", "u", "", "Site a trailer provider reads from")
	lo.Must0(scriptsGenCmd.MarkFlagRequired("name"))
}

var scriptsGenCmd = &cobra.Command{
	Use:   "gen",
	Short: "Create a new script from a template",
	Run: func(cmd *cobra.Command, args []string) {
		kind := lo.Must(cmd.Flags().GetString("kind"))
		dir, err := scriptsDir(kind)
		handleErr(err)

		author := "Anonymous"
		if usr, err := user.Current(); err == nil {
			author = usr.Username
		}

		s := struct {
			Name            string
			URL             string
			Author          string
			FetchTrailersFn string
			ResolveURLFn    string
		}{
			Name:            lo.Must(cmd.Flags().GetString("name")),
			URL:             lo.Must(cmd.Flags().GetString("url")),
			Author:          author,
			FetchTrailersFn: constant.FetchTrailersFn,
			ResolveURLFn:    constant.ResolveURLFn,
		}

		text := constant.ActionTemplate
		if kind == kindTrailer {
			if s.URL == "" {
				handleErr(fmt.Errorf("a trailer provider needs --url"))
			}
			text = constant.TrailerSourceTemplate
		}

		funcMap := template.FuncMap{
			"repeat": strings.Repeat,
			"plus":   func(a, b int) int { return a + b },
			"max":    util.Max[int],
		}

		tmpl, err := template.New(kind).Funcs(funcMap).Parse(text)
		handleErr(err)

		target := filepath.Join(dir, util.SanitizeFilename(s.Name)+constant.LuaExtension)
		f, err := filesystem.API().Create(target)
		handleErr(err)
		defer util.Ignore(f.Close)

		handleErr(tmpl.Execute(f, s))
		cmd.Println(target)
	},
}

func init() {
	scriptsCmd.AddCommand(scriptsRunCmd)
	addKindFlag(scriptsRunCmd)
}

var scriptsRunCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Run a script once to try it out",
	Long: `Run an action script as the show would, or load a trailer provider
script and list what it fetches.`,
	Args:    cobra.ExactArgs(1),
	Example: "  preshow scripts run ./lights.lua",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if lo.Must(cmd.Flags().GetString("kind")) != kindTrailer {
			handleErr(action.New(args[0]).Run(ctx))
			cmd.Printf("%s %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), args[0])
			return
		}

		source, err := trailer.LoadLuaSource(ctx, args[0])
		handleErr(err)
		defer source.Close()

		trailers, err := source.Fetch(ctx, true)
		handleErr(err)

		rows := lo.Map(trailers, func(t catalog.Trailer, _ int) []string {
			return []string{t.WID, t.Title, t.URL}
		})
		cmd.Println(renderTable([]string{"ID", "Title", "URL"}, rows))
	},
}
