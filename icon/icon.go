// Package icon renders the small status symbols of the CLI.
//
// Icons can be displayed as emoji, nerd-font glyphs, plain ASCII, kaomoji,
// or Unicode squares depending on user preference.
package icon

import (
	"github.com/preshow-cli/preshow/key"
	"github.com/spf13/viper"
)

const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	kaomoji = "kaomoji"
	squares = "squares"
)

// AvailableVariants lists the accepted values of icons.variant.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, kaomoji, squares}
}

// Icon identifies a symbol.
type Icon int

const (
	Fail Icon = iota
	Success
	Check
	Cross
	Mark
	Progress
	Question
	Lua
	Film
	Feature
	Image
	Music
	Action
	Loop
	Warn
)

type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	kaomoji string
	squares string
}

func (d *iconDef) Get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	case kaomoji:
		return d.kaomoji
	case squares:
		return d.squares
	default:
		return ""
	}
}

var icons = map[Icon]*iconDef{
	Fail:     {emoji: "💀", nerd: "", plain: "X", kaomoji: "(×﹏×)", squares: "🟥"},
	Success:  {emoji: "🎉", nerd: "", plain: "Success", kaomoji: "(ᵔ◡ᵔ)", squares: "🟩"},
	Check:    {emoji: "✅", nerd: "", plain: "+", kaomoji: "(✓)", squares: "🟩"},
	Cross:    {emoji: "❌", nerd: "", plain: "-", kaomoji: "(✗)", squares: "🟥"},
	Mark:     {emoji: "✔", nerd: "", plain: "*", kaomoji: "(＊)", squares: "🟦"},
	Progress: {emoji: "⏳", nerd: "", plain: "...", kaomoji: "(・・;)", squares: "🟨"},
	Question: {emoji: "❔", nerd: "", plain: "?", kaomoji: "(？_？)", squares: "🟪"},
	Lua:      {emoji: "🌙", nerd: "", plain: "Lua", kaomoji: "(◕‿◕)", squares: "🟦"},
	Film:     {emoji: "🎞", nerd: "", plain: "[v]", kaomoji: "(▣_▣)", squares: "🟫"},
	Feature:  {emoji: "🎬", nerd: "", plain: "[F]", kaomoji: "(★‿★)", squares: "🟧"},
	Image:    {emoji: "🖼", nerd: "", plain: "[i]", kaomoji: "(□_□)", squares: "⬜"},
	Music:    {emoji: "🎵", nerd: "", plain: "[m]", kaomoji: "(♪‿♪)", squares: "🟪"},
	Action:   {emoji: "⚡", nerd: "", plain: "[a]", kaomoji: "(ง'̀-'́)ง", squares: "🟨"},
	Warn:     {emoji: "⚠️", nerd: "", plain: "!", kaomoji: "(ﾟДﾟ;)", squares: "🟧"},
	Loop:     {emoji: "🔁", nerd: "", plain: "[~]", kaomoji: "(↻_↻)", squares: "🟦"},
}

// Get renders i for the configured variant.
func Get(i Icon) string {
	return icons[i].Get()
}
