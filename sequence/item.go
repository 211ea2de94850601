package sequence

import (
	"fmt"
	"maps"
	"strings"

	"github.com/preshow-cli/preshow/key"
	"github.com/spf13/cast"
)

// Defaults supplies the global fallback of item settings, keyed "{kind}.{attr}".
type Defaults interface {
	Get(key string) any
}

// Values is a map backed Defaults.
type Values map[string]any

func (v Values) Get(k string) any {
	return v[k]
}

// Item is one entry of a sequence.
type Item struct {
	Kind    Kind
	Enabled bool
	Name    string

	settings map[string]any
}

// NewItem returns an enabled item of kind k with every setting unset.
func NewItem(k Kind) *Item {
	return &Item{Kind: k, Enabled: true, settings: make(map[string]any)}
}

// Get returns the stored value of attr, nil when unset.
func (it *Item) Get(attr string) any {
	return it.settings[attr]
}

// IsSet reports whether attr holds an explicit value.
func (it *Item) IsSet(attr string) bool {
	_, ok := it.settings[attr]
	return ok
}

// Set stores v under attr after coercing it to the element type. Nil, empty
// strings and zero integers unset the attribute; false is kept.
func (it *Item) Set(attr string, v any) error {
	e, ok := it.Kind.Element(attr)
	if !ok {
		return fmt.Errorf("%s has no setting %q", it.Kind, attr)
	}

	value, err := coerce(e, v)
	if err != nil {
		return fmt.Errorf("%s.%s: %w", it.Kind, attr, err)
	}

	if it.settings == nil {
		it.settings = make(map[string]any)
	}

	if isUnset(value) {
		delete(it.settings, attr)
		return nil
	}

	it.settings[attr] = value
	return nil
}

// MustSet is Set for values known to be valid.
func (it *Item) MustSet(attr string, v any) *Item {
	if err := it.Set(attr, v); err != nil {
		panic(err)
	}
	return it
}

// Settings returns a copy of the explicitly set values.
func (it *Item) Settings() map[string]any {
	return maps.Clone(it.settings)
}

// Copy returns an independent copy of the item.
func (it *Item) Copy() *Item {
	return &Item{Kind: it.Kind, Enabled: it.Enabled, Name: it.Name, settings: it.Settings()}
}

func coerce(e Element, v any) (any, error) {
	if v == nil {
		return nil, nil
	}

	switch e.Type {
	case Int:
		if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
			return nil, nil
		}
		return cast.ToIntE(v)
	case Bool:
		if s, ok := v.(string); ok && (s == "" || s == "None") {
			return nil, nil
		}
		return cast.ToBoolE(v)
	default:
		return cast.ToStringE(v)
	}
}

func isUnset(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case int:
		return x == 0
	default:
		return false
	}
}

// Live resolves attr: the explicit value when set, otherwise the global
// default "{kind}.{attr}" from d, otherwise the element default.
//
// Plain bools never consult d. Loop commands only use their element defaults.
// The musicDir of trivia and slideshow items follows the global default while
// their music mode is unset.
func (it *Item) Live(attr string, d Defaults) any {
	e, ok := it.Kind.Element(attr)
	if !ok {
		return nil
	}

	v, set := it.settings[attr]

	switch {
	case e.Limit.Kind == LimitBool:
		if set {
			return v
		}
		return e.Default
	case it.Kind == Command:
		if set {
			return v
		}
		return e.Default
	case attr == "musicDir" && (it.Kind == Trivia || it.Kind == Slideshow) && !it.IsSet("music"):
		set = false
	}

	if set {
		return v
	}

	if d != nil {
		if g, err := coerce(e, d.Get(key.Item(it.Kind.String(), attr))); err == nil && !isUnset(g) {
			return g
		}
	}

	if e.Limit.Kind == LimitBoolDefault {
		return false
	}

	return e.Default
}

func (it *Item) liveString(attr string, d Defaults) string {
	s, _ := it.Live(attr, d).(string)
	return s
}

func (it *Item) liveInt(attr string, d Defaults) int {
	n, _ := it.Live(attr, d).(int)
	return n
}

func (it *Item) liveBool(attr string, d Defaults) bool {
	b, _ := it.Live(attr, d).(bool)
	return b
}

func (it *Item) rawString(attr string) string {
	s, _ := it.settings[attr].(string)
	return s
}

func (it *Item) rawInt(attr string) int {
	n, _ := it.settings[attr].(int)
	return n
}

// Display is the label of the item in listings, e.g. "Trailers x 3".
func (it *Item) Display() string {
	name := it.Name
	if name == "" {
		name = it.Kind.DisplayName()
	}

	switch it.Kind {
	case Feature, Trailer:
		if n := it.rawInt("count"); n > 1 {
			return fmt.Sprintf("%s x %d", name, n)
		}
	case Trivia:
		if n := it.rawInt("duration"); n > 0 {
			return fmt.Sprintf("%s (%dm)", name, n)
		}
	case Video:
		vtype := it.rawString("vtype")
		if it.Name == "" && vtype != "" {
			name = DisplayValue(vtype)
		}
		random := it.Live("random", nil) == true
		if n := it.rawInt("count"); n > 1 && (vtype == "dir" || (vtype != "file" && random)) {
			return fmt.Sprintf("%s x %d", name, n)
		}
	case Command:
		if cmd := it.rawString("command"); cmd != "" {
			return fmt.Sprintf("%s (%s:%d)", name, cmd, it.Live("arg", nil))
		}
	}

	return name
}

// SettingDisplay renders the value of attr, naming the global default when unset.
func (it *Item) SettingDisplay(attr string, d Defaults) string {
	if it.IsSet(attr) {
		return DisplayValue(it.settings[attr])
	}
	return fmt.Sprintf("Default (%s)", DisplayValue(it.Live(attr, d)))
}

func (it *Item) String() string {
	return fmt.Sprintf("%s[%s]", it.Kind, it.Display())
}
