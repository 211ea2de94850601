package playable

import (
	"fmt"
	"time"

	"github.com/preshow-cli/preshow/sequence"
)

// Goto is a loop whose end depends on the wall clock: it jumps by Arg items
// until a duration has passed or a time of day is reached.
type Goto struct {
	origin

	Command   string
	Arg       int
	Condition string
	Duration  time.Duration
	TimeOfDay string

	Started time.Time
	Until   time.Time
}

// NewGoto builds a goto from a loop command.
func NewGoto(c sequence.CommandSettings) *Goto {
	return &Goto{
		Command:   c.Command,
		Arg:       c.Arg,
		Condition: c.Condition,
		Duration:  c.Duration,
		TimeOfDay: c.TimeOfDay,
	}
}

func (*Goto) Type() Type { return TypeGoto }

func (g *Goto) String() string {
	return fmt.Sprintf("%s: %s %d - %s duration %s time of day %s", TypeGoto, g.Command, g.Arg, g.Condition, g.Duration, g.TimeOfDay)
}

// Armed reports whether the loop is running.
func (g *Goto) Armed() bool {
	return !g.Started.IsZero()
}

// Run evaluates the loop at now and returns the item offset to apply:
// negative to go back, positive to skip, zero once the loop is over. The
// first evaluation arms the loop; the one reaching its end disarms it.
func (g *Goto) Run(now time.Time) int {
	if g.Started.IsZero() {
		g.Started = now
		switch g.Condition {
		case sequence.ConditionDuration:
			g.Until = now.Add(g.Duration)
		case sequence.ConditionTimeOfDay:
			g.Until = NextTimeOfDay(now, g.TimeOfDay)
		}
	}

	if !g.Until.IsZero() && !now.Before(g.Until) {
		g.Started, g.Until = time.Time{}, time.Time{}
		return 0
	}

	switch g.Command {
	case "back":
		return -g.Arg
	case "skip":
		return g.Arg
	default:
		return 0
	}
}

// NextTimeOfDay is the next occurrence of tod ("2:30 PM") at or after now,
// today or tomorrow. An unreadable tod yields now.
func NextTimeOfDay(now time.Time, tod string) time.Time {
	h, m, err := sequence.ParseTimeOfDay(tod)
	if err != nil {
		return now
	}

	at := time.Date(now.Year(), now.Month(), now.Day(), h, m, 0, 0, now.Location())
	if at.Before(now) {
		at = at.AddDate(0, 0, 1)
	}
	return at
}
