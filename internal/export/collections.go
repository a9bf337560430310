package export

import (
	"errors"
	"fmt"

	"github.com/ezexport/cli/internal/merge"
	"github.com/ezexport/cli/internal/naming"
	"github.com/ezexport/cli/internal/scene"
	"github.com/ezexport/cli/internal/writer"
)

func (o *Orchestrator) exportCollection(b *batch, it *item) error {
	c := it.candidate
	exportName := o.exportName(o.prefs.CollectionTemplate, naming.TokenCollection, c.BaseName)

	if b.opts.CollisionOnly() {
		return o.exportCollisionOnly(b, it, exportName)
	}

	it.enter(StateMerging)
	if b.opts.BundleChildren && len(c.Container.Children()) > 0 {
		if err := o.exportBundle(b, it, exportName); err != nil {
			return err
		}
		it.enter(StateMerging)
	}

	joined, err := b.merger().MergeSubset(c.Container, exportName)
	if err != nil {
		return err
	}
	if b.opts.AutoUVUnwrap || c.AutoUV {
		if err := o.scene.Unwrap(joined); err != nil {
			return err
		}
	}

	it.enter(StateFixingUp)
	defer o.fixUp(b.opts, []*scene.Node{joined}, true)()

	it.enter(StatePairingCollision)
	nodes := []*scene.Node{joined}
	if proxy := o.pairer.FindProxy(c.BaseName); proxy != nil {
		px := o.pairer.Open(proxy, exportName)
		defer px.Close()
		pieces := px.Selectable(o.scene)
		defer o.fixUp(b.opts, pieces, false)()
		nodes = append(nodes, pieces...)
		it.log.Debug("paired collision proxy", "proxy", proxy.Name, "pieces", len(pieces))
	}

	it.enter(StateWriting)
	if err := o.write(it, exportName, nodes, writer.DefaultFlags()); err != nil {
		return err
	}

	it.enter(StateCleaningUp)
	return nil
}

// exportCollisionOnly writes just the paired proxy pieces.
func (o *Orchestrator) exportCollisionOnly(b *batch, it *item, exportName string) error {
	it.enter(StatePairingCollision)
	proxy := o.pairer.FindProxy(it.candidate.BaseName)
	if proxy == nil {
		return skip("no collision proxy %s%s", o.prefs.CollisionPrefix, it.candidate.BaseName)
	}
	px := o.pairer.Open(proxy, exportName)
	defer px.Close()
	pieces := px.Selectable(o.scene)
	if len(pieces) == 0 {
		return skip("collision proxy %s has no visible mesh", proxy.Name)
	}

	it.enter(StateFixingUp)
	defer o.fixUp(b.opts, pieces, false)()

	it.enter(StateWriting)
	if err := o.write(it, exportName+CollisionSuffix, pieces, writer.DefaultFlags()); err != nil {
		return err
	}

	it.enter(StateCleaningUp)
	return nil
}

// exportBundle merges each direct child container on its own, writes one
// file per child and one combined file with every child.
func (o *Orchestrator) exportBundle(b *batch, it *item, exportName string) error {
	var nodes []*scene.Node
	var reverts []func()
	defer func() {
		for i := len(reverts) - 1; i >= 0; i-- {
			reverts[i]()
		}
	}()

	flags := writer.DefaultFlags()
	for _, child := range it.candidate.Container.Children() {
		base, marked := naming.BaseName(child.Name, o.prefs.ExportPrefix, o.prefs.AutoUVPrefix)
		childName := o.exportName(o.prefs.CollectionTemplate, naming.TokenCollection, base)

		it.enter(StateMerging)
		n, err := b.merger().MergeSubset(child, childName)
		if errors.Is(err, merge.ErrNoGeometry) {
			it.log.Warn("child has no geometry", "child", child.Name)
			continue
		}
		if err != nil {
			return fmt.Errorf("child %q: %w", child.Name, err)
		}
		if b.opts.AutoUVUnwrap || marked || it.candidate.AutoUV {
			if err := o.scene.Unwrap(n); err != nil {
				return fmt.Errorf("child %q: %w", child.Name, err)
			}
		}

		it.enter(StateFixingUp)
		reverts = append(reverts, o.fixUp(b.opts, []*scene.Node{n}, true))

		it.enter(StateWriting)
		if err := o.write(it, childName, []*scene.Node{n}, flags); err != nil {
			return fmt.Errorf("child %q: %w", child.Name, err)
		}
		nodes = append(nodes, n)
	}

	if len(nodes) == 0 {
		return nil
	}
	it.enter(StateWriting)
	return o.write(it, exportName+BundleSuffix, nodes, flags)
}
