// Package config registers every setting with viper and reads preshow.toml.
package config

import (
	"errors"
	"sort"
	"strings"

	"github.com/preshow-cli/preshow/constant"
	"github.com/preshow-cli/preshow/filesystem"
	"github.com/preshow-cli/preshow/where"
	"github.com/spf13/viper"
)

// EnvKeyReplacer turns "trivia.qDuration" into "trivia_qDuration".
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup applies defaults and environment bindings, then reads the config
// file when there is one.
func Setup() error {
	viper.SetFs(filesystem.API())
	viper.SetConfigName(constant.Preshow)
	viper.SetConfigType("toml")
	viper.AddConfigPath(where.Config())

	viper.SetTypeByDefaultValue(true)
	for k, f := range Default {
		viper.SetDefault(k, f.Value)
	}

	viper.SetEnvPrefix(constant.Preshow)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, k := range EnvExposed {
		viper.MustBindEnv(k)
	}

	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err == nil || errors.As(err, &notFound) {
		return nil
	}
	return err
}

// Unknown lists keys of the config file that no setting is registered
// under, usually typos. Keys are lower case as viper stores them.
func Unknown() []string {
	known := make(map[string]struct{}, len(Default))
	for k := range Default {
		known[strings.ToLower(k)] = struct{}{}
	}

	var unknown []string
	for _, k := range viper.AllKeys() {
		if _, ok := known[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	return unknown
}
