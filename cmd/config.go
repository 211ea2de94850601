package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/preshow-cli/preshow/color"
	"github.com/preshow-cli/preshow/config"
	"github.com/preshow-cli/preshow/constant"
	"github.com/preshow-cli/preshow/filesystem"
	"github.com/preshow-cli/preshow/icon"
	"github.com/preshow-cli/preshow/sequence"
	"github.com/preshow-cli/preshow/style"
	"github.com/preshow-cli/preshow/where"
	"github.com/samber/lo"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func configFile() string {
	return filepath.Join(where.Config(), constant.Preshow+".toml")
}

// lookupField resolves a key or fails with the closest known key.
func lookupField(k string) config.Field {
	if f, ok := config.Default[k]; ok {
		return f
	}

	closest := lo.MinBy(lo.Keys(config.Default), func(a, b string) bool {
		return levenshtein.Distance(k, a) < levenshtein.Distance(k, b)
	})
	handleErr(fmt.Errorf(
		"no setting named %s, did you mean %s?",
		style.Fg(color.Red)(k),
		style.Fg(color.Yellow)(closest),
	))
	return config.Field{}
}

// section is the part of a key before the first dot.
func section(k string) string {
	s, _, _ := strings.Cut(k, ".")
	return s
}

// parseSetting converts raw command line values to the type of the
// field's default. Item fallbacks are also checked against the domain
// the sequence editor allows for the same attribute.
func parseSetting(f config.Field, raw []string) (any, error) {
	var (
		v   any
		err error
	)

	switch f.Value.(type) {
	case string:
		v = raw[0]
	case int:
		v, err = cast.ToIntE(raw[0])
	case float64:
		v, err = cast.ToFloat64E(raw[0])
	case bool:
		v, err = cast.ToBoolE(raw[0])
	case []string:
		v = raw
	default:
		return nil, fmt.Errorf("%s cannot be set from the command line", f.Key)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Key, err)
	}

	tag, attr, ok := strings.Cut(f.Key, ".")
	if !ok {
		return v, nil
	}
	kind, ok := sequence.ParseKind(tag)
	if !ok {
		return v, nil
	}
	if el, ok := kind.Element(attr); ok && !el.Limit.Allows(v) {
		return nil, fmt.Errorf("%v is outside %s for %s", v, el.Limit, f.Key)
	}
	return v, nil
}

func persistConfig() {
	switch err := viper.WriteConfig(); err.(type) {
	case viper.ConfigFileNotFoundError:
		handleErr(viper.SafeWriteConfig())
	default:
		handleErr(err)
	}
}

func completionConfigKeys(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	keys := lo.Keys(config.Default)
	sort.Strings(keys)
	return keys, cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.SetOut(os.Stdout)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and change settings",
}

func init() {
	configCmd.AddCommand(configInfoCmd)
	configInfoCmd.Flags().StringP("section", "s", "", "Only show settings of this section, e.g. trivia")
	configInfoCmd.Flags().BoolP("json", "j", false, "Print JSON")
	configInfoCmd.ValidArgsFunction = completionConfigKeys
}

var configInfoCmd = &cobra.Command{
	Use:   "info [key...]",
	Short: "Describe settings with their current and default values",
	Run: func(cmd *cobra.Command, args []string) {
		fields := lo.Values(config.Default)
		if len(args) > 0 {
			fields = lo.Map(args, func(k string, _ int) config.Field { return lookupField(k) })
		}

		if s := lo.Must(cmd.Flags().GetString("section")); s != "" {
			fields = lo.Filter(fields, func(f config.Field, _ int) bool { return section(f.Key) == s })
			if len(fields) == 0 {
				handleErr(fmt.Errorf("no settings in section %q", s))
			}
		}

		sort.Slice(fields, func(i, j int) bool { return fields[i].Key < fields[j].Key })

		if lo.Must(cmd.Flags().GetBool("json")) {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			handleErr(enc.Encode(fields))
			return
		}

		if len(fields) == 1 {
			cmd.Print(fields[0].Pretty())
			return
		}

		groups := lo.GroupBy(fields, func(f config.Field) string { return section(f.Key) })
		names := lo.Keys(groups)
		sort.Strings(names)

		for _, name := range names {
			cmd.Println(style.Title(name))
			rows := lo.Map(groups[name], func(f config.Field, _ int) []string {
				desc, _, _ := strings.Cut(f.Description, "\n")
				return []string{
					f.Key,
					fmt.Sprint(viper.Get(f.Key)),
					fmt.Sprint(f.Value),
					desc,
				}
			})
			cmd.Println(renderTable([]string{"Key", "Value", "Default", "Description"}, rows))
		}
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
}

var configSetCmd = &cobra.Command{
	Use:               "set <key> <value>...",
	Short:             "Change a setting and save it",
	Example:           "  preshow config set trivia.qDuration 10",
	Args:              cobra.MinimumNArgs(2),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		field := lookupField(args[0])

		v, err := parseSetting(field, args[1:])
		handleErr(err)

		viper.Set(field.Key, v)
		persistConfig()

		cmd.Printf(
			"%s %s = %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(field.Key),
			style.Fg(color.Yellow)(fmt.Sprint(v)),
		)
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
}

var configGetCmd = &cobra.Command{
	Use:               "get <key>",
	Short:             "Print the current value of a setting",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(viper.Get(lookupField(args[0]).Key))
	},
}

func init() {
	configCmd.AddCommand(configWriteCmd)
	configWriteCmd.Flags().BoolP("force", "f", false, "Replace an existing config file")
}

var configWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Write the settings in effect to the config file",
	Run: func(cmd *cobra.Command, args []string) {
		path := configFile()

		if lo.Must(cmd.Flags().GetBool("force")) {
			exists, err := filesystem.API().Exists(path)
			handleErr(err)
			if exists {
				handleErr(filesystem.API().Remove(path))
			}
		}

		handleErr(viper.SafeWriteConfig())
		cmd.Printf("%s %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), path)
	},
}

func init() {
	configCmd.AddCommand(configDeleteCmd)
}

var configDeleteCmd = &cobra.Command{
	Use:     "delete",
	Short:   "Delete the config file, falling back to defaults",
	Aliases: []string{"remove"},
	Run: func(cmd *cobra.Command, args []string) {
		path := configFile()
		handleErr(filesystem.API().Remove(path))
		cmd.Printf("%s removed %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), path)
	},
}

func init() {
	configCmd.AddCommand(configResetCmd)
	configResetCmd.Flags().BoolP("all", "a", false, "Reset every setting")
	configResetCmd.ValidArgsFunction = completionConfigKeys
}

var configResetCmd = &cobra.Command{
	Use:   "reset [key...]",
	Short: "Put settings back to their defaults",
	Run: func(cmd *cobra.Command, args []string) {
		all := lo.Must(cmd.Flags().GetBool("all"))
		if all == (len(args) > 0) {
			handleErr(fmt.Errorf("name the settings to reset or pass --all"))
		}

		fields := lo.Values(config.Default)
		if !all {
			fields = lo.Map(args, func(k string, _ int) config.Field { return lookupField(k) })
		}

		for _, f := range fields {
			viper.Set(f.Key, f.Value)
		}
		persistConfig()

		if all {
			cmd.Printf("%s reset %d settings\n", style.Fg(color.Green)(icon.Get(icon.Success)), len(fields))
			return
		}
		for _, f := range fields {
			cmd.Printf(
				"%s %s = %s\n",
				style.Fg(color.Green)(icon.Get(icon.Success)),
				style.Fg(color.Purple)(f.Key),
				style.Fg(color.Yellow)(fmt.Sprint(f.Value)),
			)
		}
	},
}
