package db

import (
	"context"

	"github.com/pkg/errors"
)

type undoKey int

const keyUndo undoKey = 0

// Undo collects actions that reverse writes made during a unit of work.
type Undo struct {
	actions []func(ctx context.Context) error
}

// ContextWithUndo returns a context that collects undo actions registered with OnUndo.
func ContextWithUndo(ctx context.Context) (context.Context, *Undo) {
	u := &Undo{}
	return context.WithValue(ctx, keyUndo, u), u
}

// OnUndo registers fn with the Undo in ctx. It does nothing when ctx has none.
func OnUndo(ctx context.Context, fn func(ctx context.Context) error) {
	u, ok := ctx.Value(keyUndo).(*Undo)
	if !ok {
		return
	}
	u.actions = append(u.actions, fn)
}

// Run calls the registered actions newest first and stops at the first failure.
func (u *Undo) Run(ctx context.Context) error {
	for i := len(u.actions) - 1; i >= 0; i-- {
		if err := u.actions[i](ctx); err != nil {
			return errors.Wrapf(err, "undo %d", i)
		}
	}
	u.actions = nil
	return nil
}
