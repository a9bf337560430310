package scene

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Kind classifies a node's data.
type Kind string

const (
	KindMesh     Kind = "mesh"
	KindCurve    Kind = "curve"
	KindStroke   Kind = "stroke"
	KindSurface  Kind = "surface"
	KindArmature Kind = "armature"
	KindEmpty    Kind = "empty"
	KindOther    Kind = "other"
)

// IsGeometry reports whether nodes of this kind are mesh-like: renderable
// surfaces that an export merge considers.
func (k Kind) IsGeometry() bool {
	switch k {
	case KindMesh, KindCurve, KindStroke, KindSurface:
		return true
	}
	return false
}

// IsConvertible reports whether ConvertToMesh can turn this kind into a mesh.
func (k Kind) IsConvertible() bool {
	return k == KindMesh || k == KindCurve || k == KindStroke
}

// Display is a node's viewport draw mode.
type Display string

const (
	DisplaySolid    Display = "solid"
	DisplayTextured Display = "textured"
	DisplayWire     Display = "wire"
	DisplayBounds   Display = "bounds"
)

// IsSolid reports whether the node draws as a real surface. Wire and
// bounds display mark helper geometry such as boolean cutters.
func (d Display) IsSolid() bool {
	return d != DisplayWire && d != DisplayBounds
}

// ModifierType names a procedural geometry modifier.
type ModifierType string

const (
	ModifierMirror      ModifierType = "mirror"
	ModifierArray       ModifierType = "array"
	ModifierTriangulate ModifierType = "triangulate"
)

// Modifier is an unapplied procedural operation on a mesh.
type Modifier struct {
	Name string
	Type ModifierType
	// Axis is 0, 1 or 2 for mirror.
	Axis int
	// Count and Offset drive array.
	Count  int
	Offset mgl64.Vec3
}

// Curve is a poly-line, optionally closed.
type Curve struct {
	Points []mgl64.Vec3
	Closed bool
}

// Stroke is a freehand line.
type Stroke struct {
	Points []mgl64.Vec3
}

// Bone is an armature joint with its current pose.
type Bone struct {
	Name   string
	Parent string
	Pose   Transform
}

// Action is a named animation clip.
type Action struct {
	Name  string
	Start float64
	End   float64
}

// Armature is skeletal data.
type Armature struct {
	Bones   []Bone
	Actions []Action
}

// Clone returns a deep copy of a.
func (a *Armature) Clone() *Armature {
	if a == nil {
		return nil
	}
	return &Armature{
		Bones:   append([]Bone(nil), a.Bones...),
		Actions: append([]Action(nil), a.Actions...),
	}
}

// Node is an object in the scene graph.
type Node struct {
	Name      string
	Kind      Kind
	Transform Transform

	Hidden            bool
	ExcludeFromExport bool
	Display           Display
	// Views lists the views the node is present in. Empty means every view.
	Views []string

	Mesh      *Mesh
	Modifiers []Modifier
	Curve     *Curve
	Strokes   []Stroke
	Armature  *Armature

	parent     *Node
	containers []*Container
	scene      *Scene
}

// Parent returns the node's parent, or nil.
func (n *Node) Parent() *Node { return n.parent }

// Depth returns the number of ancestors of n.
func (n *Node) Depth() int {
	d := 0
	for p := n.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// Containers returns the containers n is linked into.
func (n *Node) Containers() []*Container {
	return append([]*Container(nil), n.containers...)
}

// InView reports whether n is present in the named view.
func (n *Node) InView(view string) bool {
	if len(n.Views) == 0 {
		return true
	}
	for _, v := range n.Views {
		if v == view {
			return true
		}
	}
	return false
}

// WorldMatrix returns the node's local-to-world matrix.
func (n *Node) WorldMatrix() mgl64.Mat4 {
	m := n.Transform.Matrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.Transform.Matrix().Mul4(m)
	}
	return m
}

func (n *Node) clone() *Node {
	c := *n
	c.Views = append([]string(nil), n.Views...)
	c.Mesh = n.Mesh.Clone()
	c.Modifiers = append([]Modifier(nil), n.Modifiers...)
	if n.Curve != nil {
		cv := *n.Curve
		cv.Points = append([]mgl64.Vec3(nil), n.Curve.Points...)
		c.Curve = &cv
	}
	c.Strokes = make([]Stroke, len(n.Strokes))
	for i, s := range n.Strokes {
		c.Strokes[i] = Stroke{Points: append([]mgl64.Vec3(nil), s.Points...)}
	}
	c.Armature = n.Armature.Clone()
	c.containers = nil
	c.scene = nil
	return &c
}
