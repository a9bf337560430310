// Package selection brackets destructive scene operations so the selection,
// the active node and temporarily revealed containers are always restored.
package selection

import (
	"github.com/ezexport/cli/internal/scene"
)

// Transaction captures the selection and active node of a scene.
// Transactions may nest but must not overlap.
type Transaction struct {
	scene    *scene.Scene
	selected []*scene.Node
	active   *scene.Node
	released bool
}

// Begin captures the current selection and active node of s.
func Begin(s *scene.Scene) *Transaction {
	return &Transaction{
		scene:    s,
		selected: s.Selected(),
		active:   s.Active(),
	}
}

// Restore clears the selection, reselects exactly the captured nodes and
// reassigns the captured active node. Nodes deleted since Begin are
// skipped. Calling Restore more than once has no further effect.
func (t *Transaction) Restore() {
	if t.released {
		return
	}
	t.released = true
	t.scene.RestoreSelection(t.selected, t.active)
}

// Do runs fn inside a transaction. The captured state is restored on every
// exit path, including a panic raised by fn.
func Do(s *scene.Scene, fn func() error) error {
	tx := Begin(s)
	defer tx.Restore()
	return fn()
}

// Reveal includes c and every excluded ancestor so c's nodes become
// selectable. The returned function puts the exclusion flags back and is
// safe to call more than once.
func Reveal(c *scene.Container) (restore func()) {
	type saved struct {
		c       *scene.Container
		exclude bool
	}
	var flags []saved
	for cc := c; cc != nil; cc = cc.Parent() {
		flags = append(flags, saved{c: cc, exclude: cc.Exclude})
		cc.Exclude = false
	}

	done := false
	return func() {
		if done {
			return
		}
		done = true
		for _, f := range flags {
			f.c.Exclude = f.exclude
		}
	}
}

// WithTemporaryVisibility reveals c for the duration of fn.
func WithTemporaryVisibility(c *scene.Container, fn func() error) error {
	restore := Reveal(c)
	defer restore()
	return fn()
}
