// Package units converts between the authoring tool's length unit and the
// engine's, and bakes node transforms into geometry.
package units

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/ezexport/cli/internal/scene"
)

// EngineScale is the engine's unit relative to one scene unit at scale
// length 1.
const EngineScale = 100.0

// Factor returns the export scale for the scene's unit settings: 100 for
// unitless scenes, otherwise 100 times the unit scale length.
func Factor(u scene.Units) float64 {
	if u.System == scene.UnitsNone {
		return EngineScale
	}
	return EngineScale * u.ScaleLength
}

// ApplyExportScale multiplies location and scale of the top-most nodes by
// f. A node whose ancestor is also in nodes inherits the scale through its
// parent and is left alone. Rotation is untouched.
func ApplyExportScale(nodes []*scene.Node, f float64) {
	for _, n := range TopMost(nodes) {
		n.Transform.Location = n.Transform.Location.Mul(f)
		n.Transform.Scale = n.Transform.Scale.Mul(f)
	}
}

// TopMost returns the nodes that have no ancestor in nodes, in order.
func TopMost(nodes []*scene.Node) []*scene.Node {
	in := make(map[*scene.Node]bool, len(nodes))
	for _, n := range nodes {
		in[n] = true
	}
	out := make([]*scene.Node, 0, len(nodes))
next:
	for _, n := range nodes {
		for p := n.Parent(); p != nil; p = p.Parent() {
			if in[p] {
				continue next
			}
		}
		out = append(out, n)
	}
	return out
}

// RevertExportScale applies the inverse of ApplyExportScale.
func RevertExportScale(nodes []*scene.Node, f float64) {
	if f == 0 {
		return
	}
	ApplyExportScale(nodes, 1/f)
}

// BakeTransforms moves rotation and scale of every mesh node into its
// vertices, leaving rotation zero and scale one. Location is kept. Meshes
// whose scale mirrors geometry get their faces flipped so normals keep
// pointing outward.
func BakeTransforms(nodes []*scene.Node) {
	for _, n := range nodes {
		if n.Mesh == nil || n.Transform.IsIdentityRotationScale() {
			continue
		}
		n.Mesh.TransformVertices(n.Transform.RotationScaleMatrix())
		if n.Transform.ScaleProduct() < 0 {
			n.Mesh.FlipFaces()
		}
		n.Transform.Rotation = mgl64.Vec3{}
		n.Transform.Scale = mgl64.Vec3{1, 1, 1}
	}
}
