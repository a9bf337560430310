package export

import (
	"strings"

	"github.com/ezexport/cli/internal/naming"
	"github.com/ezexport/cli/internal/scene"
	"github.com/ezexport/cli/internal/writer"
)

// SocketPrefix marks attachment points under an armature. Sockets are
// engine-side helpers and never exported with the skeleton.
const SocketPrefix = "SOCKET"

func (o *Orchestrator) exportArmature(b *batch, it *item) error {
	if b.opts.CollisionOnly() {
		return skip("collision-only export does not apply to armatures")
	}
	root := it.candidate.Root
	if !o.scene.IsVisible(root) {
		return skip("armature %s is hidden or its containers are excluded", root.Name)
	}
	exportName := o.exportName(o.prefs.ArmatureTemplate, naming.TokenArmature, it.candidate.BaseName)

	it.enter(StateMerging)
	nodes := o.armatureSelection(root)

	it.enter(StateFixingUp)
	defer restPose(root)()
	defer o.fixUp(b.opts, []*scene.Node{root}, false)()

	it.enter(StateWriting)
	flags := writer.DefaultFlags()
	flags.BakeAnimation = true
	if err := o.write(it, exportName, nodes, flags); err != nil {
		return err
	}

	it.enter(StateCleaningUp)
	return nil
}

// armatureSelection returns root followed by its visible descendants in
// the active view, skipping sockets.
func (o *Orchestrator) armatureSelection(root *scene.Node) []*scene.Node {
	nodes := []*scene.Node{root}
	for _, n := range o.scene.Descendants(root) {
		if strings.HasPrefix(n.Name, SocketPrefix) {
			continue
		}
		if o.prefs.RespectCurrentView && !n.InView(o.scene.ActiveView) {
			continue
		}
		if !o.scene.IsVisible(n) {
			continue
		}
		nodes = append(nodes, n)
	}
	return nodes
}

// restPose clears every bone pose of root to the rest pose. The returned
// function puts the poses back.
func restPose(root *scene.Node) func() {
	if root.Armature == nil {
		return func() {}
	}
	saved := make([]scene.Transform, len(root.Armature.Bones))
	for i := range root.Armature.Bones {
		saved[i] = root.Armature.Bones[i].Pose
		root.Armature.Bones[i].Pose = scene.IdentityTransform()
	}
	return func() {
		for i := range saved {
			root.Armature.Bones[i].Pose = saved[i]
		}
	}
}
