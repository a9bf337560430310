// Package merge duplicates the geometry of a container or selection and
// joins it into a single node ready for export. Source nodes are never
// modified.
package merge

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ezexport/cli/internal/config"
	"github.com/ezexport/cli/internal/output"
	"github.com/ezexport/cli/internal/scene"
	"github.com/ezexport/cli/internal/selection"
)

// AtlasUVLayer is the UV layer name some decal tools create. Joining a mesh
// carrying it with one carrying DefaultUVLayer breaks the joined UVs.
const AtlasUVLayer = "Atlas UVs"

// ErrNoGeometry is returned when nothing exportable is left to join.
var ErrNoGeometry = errors.New("no exportable geometry")

// Merger joins scene subsets into the staging container.
type Merger struct {
	scene          *scene.Scene
	staging        *scene.Container
	priorityPrefix string
	excludePrefix  string
}

// New returns a Merger that moves results into staging.
func New(s *scene.Scene, staging *scene.Container, prefs *config.Preferences) *Merger {
	return &Merger{
		scene:          s,
		staging:        staging,
		priorityPrefix: prefs.PriorityPrefix,
		excludePrefix:  prefs.ExcludePrefix,
	}
}

// MergeSubset joins the exportable geometry of c and its descendant
// containers into one node named outputName inside the staging container.
// On return the joined node is the only selected node and is active.
func (m *Merger) MergeSubset(c *scene.Container, outputName string) (*scene.Node, error) {
	var dups []*scene.Node
	err := selection.WithTemporaryVisibility(c, func() error {
		sources := m.Exportable(c.AllNodes())
		if len(sources) == 0 {
			return fmt.Errorf("container %q: %w", c.Name, ErrNoGeometry)
		}
		var err error
		dups, err = m.duplicate(sources)
		return err
	})
	if err != nil {
		m.discard(dups)
		return nil, err
	}
	return m.finish(dups, outputName)
}

// MergeSelection joins the exportable part of the current selection.
func (m *Merger) MergeSelection(outputName string) (*scene.Node, error) {
	sources := m.Exportable(m.scene.Selected())
	if len(sources) == 0 {
		return nil, fmt.Errorf("selection: %w", ErrNoGeometry)
	}
	dups, err := m.duplicate(sources)
	if err != nil {
		m.discard(dups)
		return nil, err
	}
	return m.finish(dups, outputName)
}

// Exportable filters nodes down to visible mesh-like geometry. Nodes flagged
// or prefixed for exclusion and nodes drawn as wire or bounds are dropped.
func (m *Merger) Exportable(nodes []*scene.Node) []*scene.Node {
	var out []*scene.Node
	for _, n := range nodes {
		switch {
		case !n.Kind.IsGeometry():
		case n.ExcludeFromExport:
		case m.excludePrefix != "" && strings.HasPrefix(n.Name, m.excludePrefix):
		case !n.Display.IsSolid():
			output.Debug("skipping helper geometry", "node", n.Name, "display", n.Display)
		case !m.scene.IsVisible(n):
			output.Debug("skipping hidden node", "node", n.Name)
		default:
			out = append(out, n)
		}
	}
	return out
}

// PickActive returns the first node whose name starts with the priority
// prefix, else the first node.
func (m *Merger) PickActive(nodes []*scene.Node) *scene.Node {
	if len(nodes) == 0 {
		return nil
	}
	if m.priorityPrefix != "" {
		for _, n := range nodes {
			if strings.HasPrefix(n.Name, m.priorityPrefix) {
				return n
			}
		}
	}
	return nodes[0]
}

// duplicate selects sources, makes the priority node active and
// duplicates the selection.
func (m *Merger) duplicate(sources []*scene.Node) ([]*scene.Node, error) {
	s := m.scene
	s.DeselectAll()
	for _, n := range sources {
		if err := s.Select(n); err != nil {
			return nil, err
		}
	}
	if err := s.SetActive(m.PickActive(sources)); err != nil {
		return nil, err
	}
	return s.Duplicate()
}

// finish runs conversion, the UV fix, join, rename and the move to staging
// on duplicates. Duplicates are deleted if any step fails.
func (m *Merger) finish(dups []*scene.Node, outputName string) (*scene.Node, error) {
	s := m.scene

	var meshes, dropped []*scene.Node
	for _, d := range dups {
		if !d.Kind.IsConvertible() {
			output.Debug("dropping non-convertible geometry", "node", d.Name, "kind", d.Kind)
			dropped = append(dropped, d)
			continue
		}
		meshes = append(meshes, d)
	}

	for _, d := range meshes {
		if err := s.ConvertToMesh(d); err != nil {
			m.discard(dups)
			return nil, err
		}
		if err := s.ApplyModifiers(d); err != nil {
			m.discard(dups)
			return nil, err
		}
		resolveAtlasUV(d)
	}

	// Detach from the source hierarchy, deepest first.
	byDepth := append([]*scene.Node(nil), meshes...)
	sort.SliceStable(byDepth, func(i, j int) bool {
		return byDepth[i].Depth() > byDepth[j].Depth()
	})
	for _, d := range byDepth {
		s.Unparent(d)
	}
	m.discard(dropped)

	active := m.PickActive(meshes)
	if active == nil {
		return nil, ErrNoGeometry
	}
	if err := s.SetActive(active); err != nil {
		m.discard(meshes)
		return nil, err
	}

	joined, err := s.Join(meshes, active)
	if err != nil {
		m.discard(meshes)
		return nil, err
	}

	name := s.Rename(joined, outputName)
	if name != outputName {
		output.Warn("merged node name taken, using suffix", "want", outputName, "got", name)
	}
	if err := s.MoveTo(joined, m.staging); err != nil {
		s.Delete(joined)
		return nil, err
	}
	return joined, nil
}

// resolveAtlasUV renames the atlas layer to the default name unless the
// mesh already has a default layer.
func resolveAtlasUV(n *scene.Node) {
	if n.Mesh == nil || n.Mesh.UVLayer(scene.DefaultUVLayer) != nil {
		return
	}
	if l := n.Mesh.UVLayer(AtlasUVLayer); l != nil {
		l.Name = scene.DefaultUVLayer
		output.Debug("uv name mismatch resolved", "node", n.Name)
	}
}

func (m *Merger) discard(nodes []*scene.Node) {
	for _, n := range nodes {
		m.scene.Delete(n)
	}
}
