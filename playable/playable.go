// Package playable holds the compiled units of a show: images, image queues,
// videos, features, actions and runtime loop commands.
package playable

// Type tags a playable variant.
type Type string

const (
	TypeImage      Type = "IMAGE"
	TypeImageQueue Type = "IMAGE.QUEUE"
	TypeSong       Type = "SONG"
	TypeVideo      Type = "VIDEO"
	TypeVideoQueue Type = "VIDEO.QUEUE"
	TypeFeature    Type = "FEATURE"
	TypeAction     Type = "ACTION"
	TypeGoto       Type = "GOTO"
)

// Playable is one entry of a compiled timeline.
type Playable interface {
	Type() Type
	// From is the index of the sequence item that produced the playable.
	From() int
	SetFrom(index int)
	// Module is the display name of the producing item.
	Module() string
	SetModule(name string)
}

type origin struct {
	from   int
	module string
}

func (o *origin) From() int             { return o.from }
func (o *origin) SetFrom(index int)     { o.from = index }
func (o *origin) Module() string        { return o.module }
func (o *origin) SetModule(name string) { o.module = name }

// Stamp sets the origin of every playable and returns them.
func Stamp[P Playable](index int, module string, ps ...P) []P {
	for _, p := range ps {
		p.SetFrom(index)
		p.SetModule(module)
	}
	return ps
}
