package export

import (
	"github.com/ezexport/cli/internal/scene"
	"github.com/ezexport/cli/internal/writer"
)

func (o *Orchestrator) exportSelection(b *batch, it *item) error {
	name := it.candidate.Name

	it.enter(StateMerging)
	joined, err := b.merger().MergeSelection(name)
	if err != nil {
		return err
	}
	if b.opts.AutoUVUnwrap {
		if err := o.scene.Unwrap(joined); err != nil {
			return err
		}
	}

	it.enter(StateFixingUp)
	defer o.fixUp(b.opts, []*scene.Node{joined}, true)()

	it.enter(StateWriting)
	if err := o.write(it, name, []*scene.Node{joined}, writer.DefaultFlags()); err != nil {
		return err
	}

	it.enter(StateCleaningUp)
	return nil
}
