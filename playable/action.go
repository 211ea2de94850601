package playable

import (
	"context"
	"errors"
	"fmt"
)

// Runner executes an action script.
type Runner interface {
	Run(ctx context.Context) error
}

// Action runs an external script synchronously.
type Action struct {
	origin

	Path   string
	runner Runner
}

// NewAction returns an action at path executed by r.
func NewAction(path string, r Runner) *Action {
	return &Action{Path: path, runner: r}
}

func (*Action) Type() Type { return TypeAction }

func (a *Action) String() string {
	return fmt.Sprintf("%s: %s", TypeAction, a.Path)
}

// ErrNoRunner is returned when running an action decoded without its script.
var ErrNoRunner = errors.New("action has no runner")

// Run executes the action.
func (a *Action) Run(ctx context.Context) error {
	if a.runner == nil {
		return ErrNoRunner
	}
	return a.runner.Run(ctx)
}
