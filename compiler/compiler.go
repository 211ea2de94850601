// Package compiler flattens a sequence into a timeline of playables and
// keeps the playback cursor over it.
package compiler

import (
	"github.com/preshow-cli/preshow/handler"
	"github.com/preshow-cli/preshow/log"
	"github.com/preshow-cli/preshow/playable"
	"github.com/preshow-cli/preshow/sequence"
	"github.com/preshow-cli/preshow/util"
	"github.com/samber/mo"
)

// VisitsPerItem bounds the compile walk to len(items)*VisitsPerItem item
// visits so that a loop without an end condition still terminates.
const VisitsPerItem = 100

// HandleFunc expands an item into playables.
type HandleFunc func(c *handler.Context, it *sequence.Item) []playable.Playable

// Processor compiles a sequence and walks the result. The timeline always
// ends with a nil sentinel; the cursor stays within [-1, End()].
type Processor struct {
	items   []*sequence.Item
	context *handler.Context
	handle  HandleFunc

	timeline   []playable.Playable
	pos        int
	end        int
	lastAction *playable.Action
}

// New returns a processor for items expanded by handler.Handle.
func New(items []*sequence.Item, c *handler.Context) *Processor {
	return &Processor{
		items:    items,
		context:  c,
		handle:   handler.Handle,
		timeline: []playable.Playable{nil},
		pos:      -1,
	}
}

// SetHandler replaces the item expansion.
func (p *Processor) SetHandler(h HandleFunc) {
	p.handle = h
}

// Compile walks the items and builds the timeline, replacing any previous
// one and rewinding the cursor.
func (p *Processor) Compile() {
	feats := p.context.Queue.All()
	log.Infof("compiling %s, %s queued", util.Quantify(len(p.items), "item", "items"), util.Quantify(len(feats), "feature", "features"))
	for _, f := range feats {
		log.Debugf("queued: %s (%s)", f.Title, f.Rating)
	}

	p.timeline = p.timeline[:0]
	p.pos, p.lastAction = -1, nil

	loops := make(map[int]int)
	budget := len(p.items) * VisitsPerItem

	for pos := 0; pos < len(p.items); {
		if budget == 0 {
			log.Warnf("stopped compiling at item %d after %d visits, check the loop commands", pos, len(p.items)*VisitsPerItem)
			break
		}
		budget--

		it := p.items[pos]
		if !it.Enabled {
			log.Debugf("[%d] %s: disabled", pos, it.Display())
			pos++
			continue
		}

		if it.Kind != sequence.Command {
			out := p.handle(p.context, it)
			p.timeline = append(p.timeline, playable.Stamp(pos, it.Display(), out...)...)
			pos++
			continue
		}

		offset, jump := p.command(pos, it, loops)
		if jump.IsPresent() {
			g := jump.MustGet()
			g.SetFrom(pos)
			g.SetModule(it.Display())
			p.timeline = append(p.timeline, g)
		}
		if offset != 0 {
			pos = max(pos+offset, 0)
			continue
		}
		pos++
	}

	p.timeline = append(p.timeline, nil)
	p.end = len(p.timeline) - 1
	log.Infof("compiled %d playables", p.end)
}

// command evaluates a loop command at compile time. It returns the item
// offset to apply now, or a goto evaluated during playback.
func (p *Processor) command(pos int, it *sequence.Item, loops map[int]int) (int, mo.Option[*playable.Goto]) {
	c := it.Command()
	queued := !p.context.Queue.Empty()

	switch c.Condition {
	case sequence.ConditionQueueFull:
		if !queued {
			return 0, mo.None[*playable.Goto]()
		}
	case sequence.ConditionQueueEmpty:
		if queued {
			return 0, mo.None[*playable.Goto]()
		}
	}

	if c.Command == "back" {
		switch c.Condition {
		case sequence.ConditionNbLoops:
			left, seen := loops[pos]
			if !seen {
				left = c.NbLoops
			}
			left--
			loops[pos] = left
			if left <= 0 {
				log.Debugf("[%d] %s: loop count reached", pos, it.Display())
				return 0, mo.None[*playable.Goto]()
			}
		case sequence.ConditionDuration, sequence.ConditionTimeOfDay:
			return 0, mo.Some(playable.NewGoto(c))
		}
	}

	return c.Offset(), mo.None[*playable.Goto]()
}

// Timeline lists the compiled playables without the sentinel.
func (p *Processor) Timeline() []playable.Playable {
	return p.timeline[:p.end]
}

// Pos is the cursor.
func (p *Processor) Pos() int {
	return p.pos
}

// End is the index of the sentinel.
func (p *Processor) End() int {
	return p.end
}

// AtEnd reports whether the cursor reached the sentinel.
func (p *Processor) AtEnd() bool {
	return p.atEnd(p.pos)
}

func (p *Processor) atEnd(pos int) bool {
	return pos >= p.end
}

// Next advances the cursor and returns the playable under it, nil at the
// end.
func (p *Processor) Next() playable.Playable {
	if p.AtEnd() {
		return nil
	}

	p.pos++
	next := p.timeline[p.pos]
	if a, ok := next.(*playable.Action); ok {
		p.lastAction = a
	}
	return next
}

// Prev moves the cursor back over actions and gotos and returns the
// playable under it. At the start it stays on the first playable.
func (p *Processor) Prev() playable.Playable {
	if p.pos > 0 {
		p.pos--
	}
	if p.pos < 0 || p.pos >= len(p.timeline) {
		return nil
	}

	cur := p.timeline[p.pos]
	for p.pos > 0 && passive(cur) {
		p.pos--
		cur = p.timeline[p.pos]
	}
	return cur
}

func passive(pl playable.Playable) bool {
	if pl == nil {
		return false
	}
	t := pl.Type()
	return t == playable.TypeAction || t == playable.TypeGoto
}

// UpNext is the next playable that shows something.
func (p *Processor) UpNext() mo.Option[playable.Playable] {
	for pos := p.pos + 1; !p.atEnd(pos); pos++ {
		if pl := p.timeline[pos]; !passive(pl) {
			return mo.Some(pl)
		}
	}
	return mo.None[playable.Playable]()
}

// NextFeature is the first feature after the cursor.
func (p *Processor) NextFeature() mo.Option[*playable.Feature] {
	for pos := p.pos + 1; pos < p.end; pos++ {
		if f, ok := p.timeline[pos].(*playable.Feature); ok {
			return mo.Some(f)
		}
	}
	return mo.None[*playable.Feature]()
}

// LastAction is the last action the cursor passed, nil if none.
func (p *Processor) LastAction() *playable.Action {
	return p.lastAction
}

// SeekToFirstPlayableAtOffset moves the cursor just before the first
// playable produced offset items away from the current one, so that Next
// returns it. It reports false when the target lies past the last item.
func (p *Processor) SeekToFirstPlayableAtOffset(offset int) bool {
	if p.pos < 0 || p.pos >= p.end {
		return false
	}

	target := max(p.timeline[p.pos].From()+offset, 0)
	if target > len(p.items)-1 {
		return false
	}

	for i, pl := range p.timeline[:p.end] {
		if pl.From() >= target {
			p.pos = i - 1
			return true
		}
	}
	return false
}
