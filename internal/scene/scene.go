// Package scene models the authoring tool's mutable scene graph: nodes,
// nested containers, the selection and the operators an export pipeline
// drives.
package scene

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	// ErrNotSelectable is returned when selecting a hidden node or one whose
	// containers are all excluded.
	ErrNotSelectable = errors.New("node is not selectable")
	// ErrNodeNotFound is returned for nodes not part of the scene.
	ErrNodeNotFound = errors.New("node not found")
	// ErrLinked is returned when mutating a linked container.
	ErrLinked = errors.New("container is linked and read-only")
	// ErrNothingToJoin is returned by Join without mesh nodes.
	ErrNothingToJoin = errors.New("nothing to join")
	// ErrUnsupportedModifier is returned when a modifier cannot be applied.
	ErrUnsupportedModifier = errors.New("unsupported modifier")
	// ErrNotConvertible is returned when ConvertToMesh gets a non-convertible kind.
	ErrNotConvertible = errors.New("node cannot be converted to mesh")
)

// UnitSystem is the scene's length unit system.
type UnitSystem string

const (
	UnitsNone     UnitSystem = "none"
	UnitsMetric   UnitSystem = "metric"
	UnitsImperial UnitSystem = "imperial"
)

// Units holds the scene's unit settings.
type Units struct {
	System      UnitSystem
	ScaleLength float64
}

// Scene is the mutable scene graph. It is not safe for concurrent use.
type Scene struct {
	// Name is the project name, usually the document file name.
	Name       string
	Units      Units
	ActiveView string

	nodes      []*Node
	byName     map[string]*Node
	containers []*Container
	roots      []*Container

	selected map[*Node]bool
	active   *Node
}

// New returns an empty scene.
func New(name string) *Scene {
	return &Scene{
		Name:     name,
		Units:    Units{System: UnitsMetric, ScaleLength: 1},
		byName:   make(map[string]*Node),
		selected: make(map[*Node]bool),
	}
}

// Nodes returns all nodes in declaration order.
func (s *Scene) Nodes() []*Node {
	return append([]*Node(nil), s.nodes...)
}

// Node returns the node with the given name, or nil.
func (s *Scene) Node(name string) *Node {
	return s.byName[name]
}

// Containers returns every container in declaration order.
func (s *Scene) Containers() []*Container {
	return append([]*Container(nil), s.containers...)
}

// Roots returns the top-level containers.
func (s *Scene) Roots() []*Container {
	return append([]*Container(nil), s.roots...)
}

// Container returns the container with the given name, or nil.
func (s *Scene) Container(name string) *Container {
	for _, c := range s.containers {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Children returns the nodes parented to n, in declaration order.
func (s *Scene) Children(n *Node) []*Node {
	var out []*Node
	for _, m := range s.nodes {
		if m.parent == n {
			out = append(out, m)
		}
	}
	return out
}

// Descendants returns every node below n in the parent hierarchy.
func (s *Scene) Descendants(n *Node) []*Node {
	var out []*Node
	for _, c := range s.Children(n) {
		out = append(out, c)
		out = append(out, s.Descendants(c)...)
	}
	return out
}

// NewContainer creates a container under parent, or as a root when parent
// is nil. Container names are unique.
func (s *Scene) NewContainer(name string, parent *Container) (*Container, error) {
	if s.Container(name) != nil {
		return nil, fmt.Errorf("container %q already exists", name)
	}
	if parent != nil && parent.Linked {
		return nil, fmt.Errorf("adding %q to %q: %w", name, parent.Name, ErrLinked)
	}

	c := &Container{Name: name, parent: parent}
	s.containers = append(s.containers, c)
	if parent == nil {
		s.roots = append(s.roots, c)
	} else {
		parent.children = append(parent.children, c)
	}
	return c, nil
}

// EnsureContainer returns the root container with the given name, creating
// it if missing. The second result reports whether it was created.
func (s *Scene) EnsureContainer(name string) (*Container, bool) {
	if c := s.Container(name); c != nil {
		return c, false
	}
	c, _ := s.NewContainer(name, nil)
	return c, true
}

// AddNode adds n to the scene, linked into the given containers. The node
// name must be unique.
func (s *Scene) AddNode(n *Node, containers ...*Container) error {
	if n.Name == "" {
		return errors.New("node name is empty")
	}
	if _, exists := s.byName[n.Name]; exists {
		return fmt.Errorf("node %q already exists", n.Name)
	}
	if n.Display == "" {
		n.Display = DisplaySolid
	}
	if n.Transform.Scale == (mgl64.Vec3{}) {
		n.Transform.Scale = IdentityTransform().Scale
	}

	n.scene = s
	s.nodes = append(s.nodes, n)
	s.byName[n.Name] = n
	for _, c := range containers {
		if err := s.Link(n, c); err != nil {
			return err
		}
	}
	return nil
}

// SetParent parents n to p. A nil p clears the parent.
func (s *Scene) SetParent(n, p *Node) {
	n.parent = p
}

// Unparent clears n's parent and keeps n where it is in world space. The
// node's origin stays at its world location; the rest of its world
// transform is baked into the mesh. Children of n must be unparented
// first, since n's own transform changes.
func (s *Scene) Unparent(n *Node) {
	if n.parent == nil {
		return
	}
	world := n.WorldMatrix()
	loc := world.Col(3).Vec3()
	if n.Mesh != nil {
		rest := mgl64.Translate3D(-loc[0], -loc[1], -loc[2]).Mul4(world)
		n.Mesh.TransformVertices(rest)
		if rest.Det() < 0 {
			s.FlipNormals(n)
		}
	}
	n.Transform = IdentityTransform()
	n.Transform.Location = loc
	n.parent = nil
}

// Link adds n to container c.
func (s *Scene) Link(n *Node, c *Container) error {
	if c.Linked {
		return fmt.Errorf("linking %q into %q: %w", n.Name, c.Name, ErrLinked)
	}
	if c.hasNode(n) {
		return nil
	}
	c.nodes = append(c.nodes, n)
	n.containers = append(n.containers, c)
	return nil
}

// Unlink removes n from container c.
func (s *Scene) Unlink(n *Node, c *Container) {
	c.removeNode(n)
	for i, cc := range n.containers {
		if cc == c {
			n.containers = append(n.containers[:i], n.containers[i+1:]...)
			break
		}
	}
}

// MoveTo unlinks n from all its containers and links it into c.
func (s *Scene) MoveTo(n *Node, c *Container) error {
	if c.Linked {
		return fmt.Errorf("moving %q into %q: %w", n.Name, c.Name, ErrLinked)
	}
	for _, cc := range n.Containers() {
		s.Unlink(n, cc)
	}
	return s.Link(n, c)
}

// IsVisible reports whether n is shown in the view layer: not hidden and
// linked into at least one included container. Nodes without containers
// belong to the scene root and are always included.
func (s *Scene) IsVisible(n *Node) bool {
	if n.Hidden {
		return false
	}
	if len(n.containers) == 0 {
		return true
	}
	for _, c := range n.containers {
		if c.Included() {
			return true
		}
	}
	return false
}

// Select adds n to the selection.
func (s *Scene) Select(n *Node) error {
	if n.scene != s {
		return fmt.Errorf("selecting %q: %w", n.Name, ErrNodeNotFound)
	}
	if !s.IsVisible(n) {
		return fmt.Errorf("selecting %q: %w", n.Name, ErrNotSelectable)
	}
	s.selected[n] = true
	return nil
}

// DeselectAll clears the selection. The active node is kept.
func (s *Scene) DeselectAll() {
	s.selected = make(map[*Node]bool)
}

// IsSelected reports whether n is selected.
func (s *Scene) IsSelected(n *Node) bool {
	return s.selected[n]
}

// Selected returns the selected nodes in declaration order.
func (s *Scene) Selected() []*Node {
	var out []*Node
	for _, n := range s.nodes {
		if s.selected[n] {
			out = append(out, n)
		}
	}
	return out
}

// Active returns the active node, or nil.
func (s *Scene) Active() *Node { return s.active }

// SetActive makes n the active node. A nil n clears it.
func (s *Scene) SetActive(n *Node) error {
	if n != nil && n.scene != s {
		return fmt.Errorf("activating %q: %w", n.Name, ErrNodeNotFound)
	}
	s.active = n
	return nil
}

// RestoreSelection replaces the selection and active node wholesale,
// bypassing visibility checks. Nodes no longer in the scene are ignored.
func (s *Scene) RestoreSelection(selected []*Node, active *Node) {
	s.selected = make(map[*Node]bool, len(selected))
	for _, n := range selected {
		if n.scene == s {
			s.selected[n] = true
		}
	}
	s.active = nil
	if active != nil && active.scene == s {
		s.active = active
	}
}

var numericSuffix = regexp.MustCompile(`\.\d{3,}$`)

// UniqueName returns name if unused, otherwise name with the first free
// ".NNN" suffix.
func (s *Scene) UniqueName(name string) string {
	if _, taken := s.byName[name]; !taken {
		return name
	}
	base := numericSuffix.ReplaceAllString(name, "")
	for i := 1; ; i++ {
		candidate := base + "." + fmt.Sprintf("%03d", i)
		if _, taken := s.byName[candidate]; !taken {
			return candidate
		}
	}
}

// Rename gives n a new name and returns the name actually assigned, which
// carries a numeric suffix when the requested name is taken by another node.
func (s *Scene) Rename(n *Node, name string) string {
	if n.Name == name {
		return name
	}
	delete(s.byName, n.Name)
	final := s.UniqueName(name)
	n.Name = final
	s.byName[final] = n
	return final
}

// Duplicate copies every selected node into the same containers. A copy
// whose parent was duplicated too is parented to that parent's copy,
// otherwise it keeps the source's parent. The copies become the selection,
// and the copy of the active node becomes active. Copies are returned in
// declaration order of their sources.
func (s *Scene) Duplicate() ([]*Node, error) {
	sources := s.Selected()
	copies := make([]*Node, 0, len(sources))
	copyOf := make(map[*Node]*Node, len(sources))
	var newActive *Node

	for _, src := range sources {
		c := src.clone()
		c.Name = s.UniqueName(src.Name)
		if err := s.AddNode(c); err != nil {
			return nil, err
		}
		for _, cont := range src.containers {
			if cont.Linked {
				continue
			}
			if err := s.Link(c, cont); err != nil {
				return nil, err
			}
		}
		copies = append(copies, c)
		copyOf[src] = c
		if src == s.active {
			newActive = c
		}
	}
	for _, c := range copies {
		if pc, ok := copyOf[c.parent]; ok {
			c.parent = pc
		}
	}

	s.DeselectAll()
	for _, c := range copies {
		s.selected[c] = true
	}
	s.active = newActive
	return copies, nil
}

// Delete removes n from the scene. Children of n are reparented to n's
// parent.
func (s *Scene) Delete(n *Node) {
	if n.scene != s {
		return
	}
	for _, c := range n.Containers() {
		s.Unlink(n, c)
	}
	for _, m := range s.nodes {
		if m.parent == n {
			m.parent = n.parent
		}
	}
	for i, m := range s.nodes {
		if m == n {
			s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
			break
		}
	}
	delete(s.byName, n.Name)
	delete(s.selected, n)
	if s.active == n {
		s.active = nil
	}
	n.scene = nil
}

// ClearContainer deletes every node linked into c or its descendants.
func (s *Scene) ClearContainer(c *Container) {
	for _, n := range c.AllNodes() {
		s.Delete(n)
	}
}

// RemoveContainer deletes c, its descendant containers and every node
// inside them.
func (s *Scene) RemoveContainer(c *Container) {
	s.ClearContainer(c)

	drop := map[*Container]bool{c: true}
	var mark func(*Container)
	mark = func(cc *Container) {
		for _, ch := range cc.children {
			drop[ch] = true
			mark(ch)
		}
	}
	mark(c)

	kept := s.containers[:0]
	for _, cc := range s.containers {
		if !drop[cc] {
			kept = append(kept, cc)
		}
	}
	s.containers = kept

	if c.parent == nil {
		for i, r := range s.roots {
			if r == c {
				s.roots = append(s.roots[:i], s.roots[i+1:]...)
				break
			}
		}
	} else {
		p := c.parent
		for i, ch := range p.children {
			if ch == c {
				p.children = append(p.children[:i], p.children[i+1:]...)
				break
			}
		}
	}
}
