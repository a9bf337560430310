package scene

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// document is the on-disk YAML form of a scene.
type document struct {
	Name       string         `yaml:"name,omitempty"`
	Units      *unitsDoc      `yaml:"units,omitempty"`
	ActiveView string         `yaml:"activeView,omitempty"`
	Containers []containerDoc `yaml:"containers,omitempty"`
	Nodes      []nodeDoc      `yaml:"nodes,omitempty"`
	Selected   []string       `yaml:"selected,omitempty"`
	Active     string         `yaml:"active,omitempty"`
}

type unitsDoc struct {
	System      UnitSystem `yaml:"system"`
	ScaleLength float64    `yaml:"scaleLength"`
}

type containerDoc struct {
	Name     string         `yaml:"name"`
	Exclude  bool           `yaml:"exclude,omitempty"`
	Linked   bool           `yaml:"linked,omitempty"`
	Children []containerDoc `yaml:"children,omitempty"`
}

type transformDoc struct {
	Location []float64 `yaml:"location,omitempty,flow"`
	Rotation []float64 `yaml:"rotation,omitempty,flow"`
	Scale    []float64 `yaml:"scale,omitempty,flow"`
}

type nodeDoc struct {
	Name              string        `yaml:"name"`
	Kind              Kind          `yaml:"kind"`
	Parent            string        `yaml:"parent,omitempty"`
	Containers        []string      `yaml:"containers,omitempty,flow"`
	Transform         transformDoc  `yaml:",inline"`
	Hidden            bool          `yaml:"hidden,omitempty"`
	ExcludeFromExport bool          `yaml:"excludeFromExport,omitempty"`
	Display           Display       `yaml:"display,omitempty"`
	Views             []string      `yaml:"views,omitempty,flow"`
	Mesh              *meshDoc      `yaml:"mesh,omitempty"`
	Modifiers         []modifierDoc `yaml:"modifiers,omitempty"`
	Curve             *curveDoc     `yaml:"curve,omitempty"`
	Strokes           [][][]float64 `yaml:"strokes,omitempty"`
	Armature          *armatureDoc  `yaml:"armature,omitempty"`
}

type meshDoc struct {
	Vertices [][]float64 `yaml:"vertices"`
	Faces    [][]int     `yaml:"faces,omitempty"`
	UVLayers []uvDoc     `yaml:"uvLayers,omitempty"`
}

type uvDoc struct {
	Name   string      `yaml:"name"`
	Coords [][]float64 `yaml:"coords"`
}

type modifierDoc struct {
	Name   string       `yaml:"name"`
	Type   ModifierType `yaml:"type"`
	Axis   int          `yaml:"axis,omitempty"`
	Count  int          `yaml:"count,omitempty"`
	Offset []float64    `yaml:"offset,omitempty,flow"`
}

type curveDoc struct {
	Points [][]float64 `yaml:"points"`
	Closed bool        `yaml:"closed,omitempty"`
}

type armatureDoc struct {
	Bones   []boneDoc   `yaml:"bones,omitempty"`
	Actions []actionDoc `yaml:"actions,omitempty"`
}

type boneDoc struct {
	Name   string       `yaml:"name"`
	Parent string       `yaml:"parent,omitempty"`
	Pose   transformDoc `yaml:"pose,omitempty"`
}

type actionDoc struct {
	Name  string  `yaml:"name"`
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
}

// LoadFile reads a scene document. When the document has no name, the
// file name without extension becomes the project name.
func LoadFile(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening scene: %w", err)
	}
	defer f.Close()

	base := filepath.Base(path)
	return Load(f, strings.TrimSuffix(base, filepath.Ext(base)))
}

// Load decodes a scene document from r. defaultName is used when the
// document does not name the project.
func Load(r io.Reader, defaultName string) (*Scene, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decoding scene: %w", err)
	}

	name := doc.Name
	if name == "" {
		name = defaultName
	}
	s := New(name)
	s.ActiveView = doc.ActiveView
	if doc.Units != nil {
		s.Units = Units{System: doc.Units.System, ScaleLength: doc.Units.ScaleLength}
		if s.Units.ScaleLength == 0 {
			s.Units.ScaleLength = 1
		}
	}

	var addContainers func([]containerDoc, *Container) error
	addContainers = func(docs []containerDoc, parent *Container) error {
		for _, cd := range docs {
			c, err := s.NewContainer(cd.Name, parent)
			if err != nil {
				return err
			}
			c.Exclude = cd.Exclude
			if err := addContainers(cd.Children, c); err != nil {
				return err
			}
			// Linked is applied last so children can be attached.
			c.Linked = cd.Linked
		}
		return nil
	}
	if err := addContainers(doc.Containers, nil); err != nil {
		return nil, fmt.Errorf("decoding scene: %w", err)
	}

	parents := make(map[*Node]string)
	for i, nd := range doc.Nodes {
		n, err := nd.toNode()
		if err != nil {
			return nil, fmt.Errorf("decoding node %d (%s): %w", i, nd.Name, err)
		}
		if err := s.AddNode(n); err != nil {
			return nil, fmt.Errorf("decoding scene: %w", err)
		}
		for _, cname := range nd.Containers {
			c := s.Container(cname)
			if c == nil {
				return nil, fmt.Errorf("node %q: unknown container %q", nd.Name, cname)
			}
			// Bypass Link so linked containers can be populated from the document.
			c.nodes = append(c.nodes, n)
			n.containers = append(n.containers, c)
		}
		if nd.Parent != "" {
			parents[n] = nd.Parent
		}
	}
	for n, pname := range parents {
		p := s.Node(pname)
		if p == nil {
			return nil, fmt.Errorf("node %q: unknown parent %q", n.Name, pname)
		}
		n.parent = p
	}

	for _, name := range doc.Selected {
		n := s.Node(name)
		if n == nil {
			return nil, fmt.Errorf("selected node %q not found", name)
		}
		s.selected[n] = true
	}
	if doc.Active != "" {
		n := s.Node(doc.Active)
		if n == nil {
			return nil, fmt.Errorf("active node %q not found", doc.Active)
		}
		s.active = n
	}
	return s, nil
}

// SaveFile writes s as a YAML document.
func SaveFile(path string, s *Scene) error {
	var buf bytes.Buffer
	if err := Save(&buf, s); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing scene: %w", err)
	}
	return nil
}

// Save encodes s as YAML to w.
func Save(w io.Writer, s *Scene) error {
	doc := document{
		Name:       s.Name,
		Units:      &unitsDoc{System: s.Units.System, ScaleLength: s.Units.ScaleLength},
		ActiveView: s.ActiveView,
	}

	var containerDocs func([]*Container) []containerDoc
	containerDocs = func(cs []*Container) []containerDoc {
		var out []containerDoc
		for _, c := range cs {
			out = append(out, containerDoc{
				Name:     c.Name,
				Exclude:  c.Exclude,
				Linked:   c.Linked,
				Children: containerDocs(c.children),
			})
		}
		return out
	}
	doc.Containers = containerDocs(s.roots)

	for _, n := range s.nodes {
		doc.Nodes = append(doc.Nodes, fromNode(n))
	}
	for _, n := range s.Selected() {
		doc.Selected = append(doc.Selected, n.Name)
	}
	if s.active != nil {
		doc.Active = s.active.Name
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("encoding scene: %w", err)
	}
	return enc.Close()
}

func (nd nodeDoc) toNode() (*Node, error) {
	if nd.Name == "" {
		return nil, fmt.Errorf("node name is required")
	}
	if nd.Kind == "" {
		nd.Kind = KindMesh
	}
	t, err := nd.Transform.toTransform()
	if err != nil {
		return nil, err
	}
	n := &Node{
		Name:              nd.Name,
		Kind:              nd.Kind,
		Transform:         t,
		Hidden:            nd.Hidden,
		ExcludeFromExport: nd.ExcludeFromExport,
		Display:           nd.Display,
		Views:             nd.Views,
	}

	if nd.Mesh != nil {
		m := &Mesh{Faces: nd.Mesh.Faces}
		if m.Vertices, err = toVec3s(nd.Mesh.Vertices); err != nil {
			return nil, fmt.Errorf("mesh vertices: %w", err)
		}
		for _, ud := range nd.Mesh.UVLayers {
			coords := make([]mgl64.Vec2, len(ud.Coords))
			for i, c := range ud.Coords {
				if len(c) != 2 {
					return nil, fmt.Errorf("uv layer %q coordinate %d: want 2 components, got %d", ud.Name, i, len(c))
				}
				coords[i] = mgl64.Vec2{c[0], c[1]}
			}
			m.UVLayers = append(m.UVLayers, UVLayer{Name: ud.Name, Coords: coords})
		}
		if err := m.Validate(); err != nil {
			return nil, err
		}
		n.Mesh = m
	}

	for _, md := range nd.Modifiers {
		mod := Modifier{Name: md.Name, Type: md.Type, Axis: md.Axis, Count: md.Count}
		if md.Offset != nil {
			if mod.Offset, err = toVec3(md.Offset); err != nil {
				return nil, fmt.Errorf("modifier %q offset: %w", md.Name, err)
			}
		}
		n.Modifiers = append(n.Modifiers, mod)
	}

	if nd.Curve != nil {
		pts, err := toVec3s(nd.Curve.Points)
		if err != nil {
			return nil, fmt.Errorf("curve points: %w", err)
		}
		n.Curve = &Curve{Points: pts, Closed: nd.Curve.Closed}
	}
	for _, sd := range nd.Strokes {
		pts, err := toVec3s(sd)
		if err != nil {
			return nil, fmt.Errorf("stroke points: %w", err)
		}
		n.Strokes = append(n.Strokes, Stroke{Points: pts})
	}

	if nd.Armature != nil {
		a := &Armature{}
		for _, bd := range nd.Armature.Bones {
			pose, err := bd.Pose.toTransform()
			if err != nil {
				return nil, fmt.Errorf("bone %q: %w", bd.Name, err)
			}
			a.Bones = append(a.Bones, Bone{Name: bd.Name, Parent: bd.Parent, Pose: pose})
		}
		for _, ad := range nd.Armature.Actions {
			a.Actions = append(a.Actions, Action(ad))
		}
		n.Armature = a
	}
	return n, nil
}

func fromNode(n *Node) nodeDoc {
	nd := nodeDoc{
		Name:              n.Name,
		Kind:              n.Kind,
		Transform:         fromTransform(n.Transform),
		Hidden:            n.Hidden,
		ExcludeFromExport: n.ExcludeFromExport,
		Display:           n.Display,
		Views:             n.Views,
	}
	if n.parent != nil {
		nd.Parent = n.parent.Name
	}
	for _, c := range n.containers {
		nd.Containers = append(nd.Containers, c.Name)
	}
	if n.Mesh != nil {
		md := &meshDoc{Vertices: fromVec3s(n.Mesh.Vertices), Faces: n.Mesh.Faces}
		for _, l := range n.Mesh.UVLayers {
			ud := uvDoc{Name: l.Name}
			for _, c := range l.Coords {
				ud.Coords = append(ud.Coords, []float64{c[0], c[1]})
			}
			md.UVLayers = append(md.UVLayers, ud)
		}
		nd.Mesh = md
	}
	for _, m := range n.Modifiers {
		md := modifierDoc{Name: m.Name, Type: m.Type, Axis: m.Axis, Count: m.Count}
		if m.Offset != (mgl64.Vec3{}) {
			md.Offset = m.Offset[:]
		}
		nd.Modifiers = append(nd.Modifiers, md)
	}
	if n.Curve != nil {
		nd.Curve = &curveDoc{Points: fromVec3s(n.Curve.Points), Closed: n.Curve.Closed}
	}
	for _, st := range n.Strokes {
		nd.Strokes = append(nd.Strokes, fromVec3s(st.Points))
	}
	if n.Armature != nil {
		ad := &armatureDoc{}
		for _, b := range n.Armature.Bones {
			ad.Bones = append(ad.Bones, boneDoc{Name: b.Name, Parent: b.Parent, Pose: fromTransform(b.Pose)})
		}
		for _, a := range n.Armature.Actions {
			ad.Actions = append(ad.Actions, actionDoc(a))
		}
		nd.Armature = ad
	}
	return nd
}

func (td transformDoc) toTransform() (Transform, error) {
	t := IdentityTransform()
	var err error
	if td.Location != nil {
		if t.Location, err = toVec3(td.Location); err != nil {
			return t, fmt.Errorf("location: %w", err)
		}
	}
	if td.Rotation != nil {
		if t.Rotation, err = toVec3(td.Rotation); err != nil {
			return t, fmt.Errorf("rotation: %w", err)
		}
	}
	if td.Scale != nil {
		if t.Scale, err = toVec3(td.Scale); err != nil {
			return t, fmt.Errorf("scale: %w", err)
		}
	}
	return t, nil
}

func fromTransform(t Transform) transformDoc {
	var td transformDoc
	if t.Location != (mgl64.Vec3{}) {
		td.Location = []float64{t.Location[0], t.Location[1], t.Location[2]}
	}
	if t.Rotation != (mgl64.Vec3{}) {
		td.Rotation = []float64{t.Rotation[0], t.Rotation[1], t.Rotation[2]}
	}
	if t.Scale != (mgl64.Vec3{1, 1, 1}) {
		td.Scale = []float64{t.Scale[0], t.Scale[1], t.Scale[2]}
	}
	return td
}

func toVec3(v []float64) (mgl64.Vec3, error) {
	if len(v) != 3 {
		return mgl64.Vec3{}, fmt.Errorf("want 3 components, got %d", len(v))
	}
	return mgl64.Vec3{v[0], v[1], v[2]}, nil
}

func toVec3s(vs [][]float64) ([]mgl64.Vec3, error) {
	out := make([]mgl64.Vec3, len(vs))
	for i, v := range vs {
		var err error
		if out[i], err = toVec3(v); err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
	}
	return out, nil
}

func fromVec3s(vs []mgl64.Vec3) [][]float64 {
	out := make([][]float64, len(vs))
	for i, v := range vs {
		out[i] = []float64{v[0], v[1], v[2]}
	}
	return out
}
