package config

import "github.com/spf13/viper"

// View reads settings from a viper instance. It is what the compiler,
// handlers and engine receive instead of reaching for the global viper.
type View struct {
	v *viper.Viper
}

// Defaults returns a view over the global configuration.
func Defaults() View {
	return View{v: viper.GetViper()}
}

// Get returns the value stored under k, nil when unset.
func (d View) Get(k string) any {
	return d.v.Get(k)
}
