package scene

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ConvertToMesh turns a curve or stroke node into a mesh node in place.
// Mesh nodes are left untouched.
func (s *Scene) ConvertToMesh(n *Node) error {
	switch n.Kind {
	case KindMesh:
		if n.Mesh == nil {
			n.Mesh = &Mesh{}
		}
		return nil
	case KindCurve:
		m := &Mesh{}
		if n.Curve != nil {
			m.Vertices = append(m.Vertices, n.Curve.Points...)
			if n.Curve.Closed && len(n.Curve.Points) >= 3 {
				face := make([]int, len(n.Curve.Points))
				for i := range face {
					face[i] = i
				}
				m.Faces = append(m.Faces, face)
			}
		}
		n.Mesh, n.Curve = m, nil
	case KindStroke:
		m := &Mesh{}
		for _, st := range n.Strokes {
			m.Vertices = append(m.Vertices, st.Points...)
		}
		n.Mesh, n.Strokes = m, nil
	default:
		return fmt.Errorf("converting %q (%s): %w", n.Name, n.Kind, ErrNotConvertible)
	}
	n.Kind = KindMesh
	return nil
}

// ApplyModifiers bakes n's modifier stack into its mesh, in stack order.
// The mesh is only replaced when every modifier applies.
func (s *Scene) ApplyModifiers(n *Node) error {
	if len(n.Modifiers) == 0 {
		return nil
	}
	if n.Kind != KindMesh || n.Mesh == nil {
		return fmt.Errorf("applying modifiers on %q: node is %s, not mesh", n.Name, n.Kind)
	}

	m := n.Mesh.Clone()
	for _, mod := range n.Modifiers {
		var err error
		switch mod.Type {
		case ModifierMirror:
			err = mirror(m, mod.Axis)
		case ModifierArray:
			err = array(m, mod.Count, mod.Offset)
		case ModifierTriangulate:
			triangulate(m)
		default:
			err = ErrUnsupportedModifier
		}
		if err != nil {
			return fmt.Errorf("applying %s modifier %q on %q: %w", mod.Type, mod.Name, n.Name, err)
		}
	}
	n.Mesh = m
	n.Modifiers = nil
	return nil
}

func mirror(m *Mesh, axis int) error {
	if axis < 0 || axis > 2 {
		return fmt.Errorf("mirror axis %d out of range", axis)
	}
	mirrored := m.Clone()
	for i, v := range mirrored.Vertices {
		v[axis] = -v[axis]
		mirrored.Vertices[i] = v
	}
	mirrored.FlipFaces()
	m.Append(mirrored)
	return nil
}

func array(m *Mesh, count int, offset mgl64.Vec3) error {
	if count < 1 {
		return fmt.Errorf("array count %d must be at least 1", count)
	}
	base := m.Clone()
	for i := 1; i < count; i++ {
		c := base.Clone()
		d := offset.Mul(float64(i))
		for k, v := range c.Vertices {
			c.Vertices[k] = v.Add(d)
		}
		m.Append(c)
	}
	return nil
}

func triangulate(m *Mesh) {
	var faces [][]int
	for _, f := range m.Faces {
		for k := 1; k+1 < len(f); k++ {
			faces = append(faces, []int{f[0], f[k], f[k+1]})
		}
	}
	m.Faces = faces
}

// FlipNormals reverses the winding of every face of a mesh node.
func (s *Scene) FlipNormals(n *Node) {
	if n.Mesh != nil {
		n.Mesh.FlipFaces()
	}
}

// Unwrap writes planar UVs to the default layer of a mesh node. Each vertex
// is projected along the dominant axis of its accumulated face normals and
// the result is fitted to the unit square.
func (s *Scene) Unwrap(n *Node) error {
	if n.Kind != KindMesh || n.Mesh == nil {
		return fmt.Errorf("unwrapping %q: node is %s, not mesh", n.Name, n.Kind)
	}
	m := n.Mesh

	normals := make([]mgl64.Vec3, len(m.Vertices))
	for i, f := range m.Faces {
		fn := m.FaceNormal(i)
		for _, idx := range f {
			normals[idx] = normals[idx].Add(fn)
		}
	}

	coords := make([]mgl64.Vec2, len(m.Vertices))
	minU, minV := math.Inf(1), math.Inf(1)
	maxU, maxV := math.Inf(-1), math.Inf(-1)
	for i, v := range m.Vertices {
		var uv mgl64.Vec2
		switch dominantAxis(normals[i]) {
		case 0:
			uv = mgl64.Vec2{v[1], v[2]}
		case 1:
			uv = mgl64.Vec2{v[0], v[2]}
		default:
			uv = mgl64.Vec2{v[0], v[1]}
		}
		coords[i] = uv
		minU, maxU = math.Min(minU, uv[0]), math.Max(maxU, uv[0])
		minV, maxV = math.Min(minV, uv[1]), math.Max(maxV, uv[1])
	}

	span := math.Max(maxU-minU, maxV-minV)
	if span > 0 {
		for i, uv := range coords {
			coords[i] = mgl64.Vec2{(uv[0] - minU) / span, (uv[1] - minV) / span}
		}
	}

	if l := m.UVLayer(DefaultUVLayer); l != nil {
		l.Coords = coords
	} else {
		m.UVLayers = append(m.UVLayers, UVLayer{Name: DefaultUVLayer, Coords: coords})
	}
	return nil
}

func dominantAxis(v mgl64.Vec3) int {
	ax, ay, az := math.Abs(v[0]), math.Abs(v[1]), math.Abs(v[2])
	switch {
	case ax >= ay && ax >= az:
		return 0
	case ay >= az:
		return 1
	}
	return 2
}

// Join merges the mesh nodes into active. Every other node's vertices are
// moved into active's local space and then deleted from the scene. A source
// whose transform relative to active mirrors geometry has its faces flipped
// so normals keep pointing outward. Afterwards only active is selected.
func (s *Scene) Join(nodes []*Node, active *Node) (*Node, error) {
	if active == nil || len(nodes) == 0 {
		return nil, ErrNothingToJoin
	}
	found := false
	for _, n := range nodes {
		if n.Kind != KindMesh {
			return nil, fmt.Errorf("joining %q: node is %s, not mesh", n.Name, n.Kind)
		}
		if n == active {
			found = true
		}
	}
	if !found {
		return nil, fmt.Errorf("joining into %q: active node is not among the joined nodes", active.Name)
	}

	merged := active.Mesh.Clone()
	if merged == nil {
		merged = &Mesh{}
	}
	toLocal := active.WorldMatrix().Inv()

	for _, n := range nodes {
		if n == active || n.Mesh == nil {
			continue
		}
		rel := toLocal.Mul4(n.WorldMatrix())
		part := n.Mesh.Clone()
		part.TransformVertices(rel)
		if rel.Det() < 0 {
			part.FlipFaces()
		}
		merged.Append(part)
	}

	for _, n := range nodes {
		if n != active {
			s.Delete(n)
		}
	}
	active.Mesh = merged

	s.DeselectAll()
	s.selected[active] = true
	s.active = active
	return active, nil
}
