package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultUVLayer is the host's generic UV layer name.
const DefaultUVLayer = "UVMap"

// UVLayer is a named per-vertex UV channel.
type UVLayer struct {
	Name   string
	Coords []mgl64.Vec2
}

// Mesh is polygon geometry: vertex positions and faces as vertex index loops.
type Mesh struct {
	Vertices []mgl64.Vec3
	Faces    [][]int
	UVLayers []UVLayer
}

// Clone returns a deep copy of m.
func (m *Mesh) Clone() *Mesh {
	if m == nil {
		return nil
	}

	c := &Mesh{
		Vertices: append([]mgl64.Vec3(nil), m.Vertices...),
		Faces:    make([][]int, len(m.Faces)),
		UVLayers: make([]UVLayer, len(m.UVLayers)),
	}
	for i, f := range m.Faces {
		c.Faces[i] = append([]int(nil), f...)
	}
	for i, l := range m.UVLayers {
		c.UVLayers[i] = UVLayer{Name: l.Name, Coords: append([]mgl64.Vec2(nil), l.Coords...)}
	}
	return c
}

// Validate checks face indices and UV layer lengths.
func (m *Mesh) Validate() error {
	for i, f := range m.Faces {
		if len(f) < 3 {
			return fmt.Errorf("face %d has %d vertices, need at least 3", i, len(f))
		}
		for _, idx := range f {
			if idx < 0 || idx >= len(m.Vertices) {
				return fmt.Errorf("face %d references vertex %d out of range [0,%d)", i, idx, len(m.Vertices))
			}
		}
	}
	for _, l := range m.UVLayers {
		if len(l.Coords) != len(m.Vertices) {
			return fmt.Errorf("uv layer %q has %d coordinates for %d vertices", l.Name, len(l.Coords), len(m.Vertices))
		}
	}
	return nil
}

// UVLayer returns the layer with the given name, or nil.
func (m *Mesh) UVLayer(name string) *UVLayer {
	for i := range m.UVLayers {
		if m.UVLayers[i].Name == name {
			return &m.UVLayers[i]
		}
	}
	return nil
}

// TransformVertices multiplies every vertex position by mat.
func (m *Mesh) TransformVertices(mat mgl64.Mat4) {
	for i, v := range m.Vertices {
		m.Vertices[i] = mgl64.TransformCoordinate(v, mat)
	}
}

// FlipFaces reverses the winding of every face, flipping its normal.
func (m *Mesh) FlipFaces() {
	for _, f := range m.Faces {
		for i, j := 0, len(f)-1; i < j; i, j = i+1, j-1 {
			f[i], f[j] = f[j], f[i]
		}
	}
}

// FaceNormal returns the unnormalised Newell normal of face i.
func (m *Mesh) FaceNormal(i int) mgl64.Vec3 {
	var n mgl64.Vec3
	f := m.Faces[i]
	for k := range f {
		cur := m.Vertices[f[k]]
		next := m.Vertices[f[(k+1)%len(f)]]
		n[0] += (cur[1] - next[1]) * (cur[2] + next[2])
		n[1] += (cur[2] - next[2]) * (cur[0] + next[0])
		n[2] += (cur[0] - next[0]) * (cur[1] + next[1])
	}
	return n
}

// SignedVolume returns the signed volume enclosed by the faces. On a closed
// mesh it is positive when normals face outward and negative when the
// surface is inside out.
func (m *Mesh) SignedVolume() float64 {
	var vol float64
	for _, f := range m.Faces {
		a := m.Vertices[f[0]]
		for k := 1; k+1 < len(f); k++ {
			b := m.Vertices[f[k]]
			c := m.Vertices[f[k+1]]
			vol += a.Dot(b.Cross(c))
		}
	}
	return vol / 6
}

// Append merges other into m. UV layers are matched by name; a layer missing
// on either side is filled with zero coordinates for those vertices.
func (m *Mesh) Append(other *Mesh) {
	offset := len(m.Vertices)
	before := len(m.Vertices)

	m.Vertices = append(m.Vertices, other.Vertices...)
	for _, f := range other.Faces {
		nf := make([]int, len(f))
		for i, idx := range f {
			nf[i] = idx + offset
		}
		m.Faces = append(m.Faces, nf)
	}

	for i := range m.UVLayers {
		l := &m.UVLayers[i]
		if src := other.UVLayer(l.Name); src != nil {
			l.Coords = append(l.Coords, src.Coords...)
		} else {
			l.Coords = append(l.Coords, make([]mgl64.Vec2, len(other.Vertices))...)
		}
	}
	for _, src := range other.UVLayers {
		if m.UVLayer(src.Name) != nil {
			continue
		}
		coords := make([]mgl64.Vec2, before, len(m.Vertices))
		coords = append(coords, src.Coords...)
		m.UVLayers = append(m.UVLayers, UVLayer{Name: src.Name, Coords: coords})
	}
}
