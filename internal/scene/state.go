package scene

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/gonvenience/ytbx"
	"github.com/homeport/dyff/pkg/dyff"
	"sigs.k8s.io/yaml"
)

// NodeState is the observable state of a node.
type NodeState struct {
	Name       string     `json:"name"`
	Kind       Kind       `json:"kind"`
	Parent     string     `json:"parent,omitempty"`
	Containers []string   `json:"containers,omitempty"`
	Hidden     bool       `json:"hidden,omitempty"`
	Location   [3]float64 `json:"location"`
	Rotation   [3]float64 `json:"rotation"`
	Scale      [3]float64 `json:"scale"`
	Vertices   int        `json:"vertices,omitempty"`
	Faces      int        `json:"faces,omitempty"`
	UVLayers   []string   `json:"uvLayers,omitempty"`
}

// ContainerState is the observable state of a container.
type ContainerState struct {
	Name    string   `json:"name"`
	Exclude bool     `json:"exclude,omitempty"`
	Nodes   []string `json:"nodes,omitempty"`
}

// State is a serialisable snapshot of what a user can observe in a scene:
// nodes, containers, visibility, selection and the active node.
type State struct {
	Selected   []string         `json:"selected"`
	Active     string           `json:"active"`
	Containers []ContainerState `json:"containers"`
	Nodes      []NodeState      `json:"nodes"`
}

// Snapshot captures the current state of s.
func Snapshot(s *Scene) State {
	st := State{Selected: []string{}}
	for _, n := range s.Selected() {
		st.Selected = append(st.Selected, n.Name)
	}
	if s.active != nil {
		st.Active = s.active.Name
	}
	for _, c := range s.containers {
		cs := ContainerState{Name: c.Name, Exclude: c.Exclude}
		for _, n := range c.nodes {
			cs.Nodes = append(cs.Nodes, n.Name)
		}
		st.Containers = append(st.Containers, cs)
	}
	for _, n := range s.nodes {
		ns := NodeState{
			Name:     n.Name,
			Kind:     n.Kind,
			Hidden:   n.Hidden,
			Location: n.Transform.Location,
			Rotation: n.Transform.Rotation,
			Scale:    n.Transform.Scale,
		}
		if n.parent != nil {
			ns.Parent = n.parent.Name
		}
		for _, c := range n.containers {
			ns.Containers = append(ns.Containers, c.Name)
		}
		if n.Mesh != nil {
			ns.Vertices = len(n.Mesh.Vertices)
			ns.Faces = len(n.Mesh.Faces)
			for _, l := range n.Mesh.UVLayers {
				ns.UVLayers = append(ns.UVLayers, l.Name)
			}
		}
		st.Nodes = append(st.Nodes, ns)
	}
	return st
}

// SelectionView reduces st to the selection, the active node and container
// inclusion. Node names, transforms and geometry are dropped.
func (st State) SelectionView() State {
	view := State{Selected: st.Selected, Active: st.Active}
	for _, c := range st.Containers {
		view.Containers = append(view.Containers, ContainerState{Name: c.Name, Exclude: c.Exclude})
	}
	return view
}

// DiffState renders a YAML-aware diff between two snapshots. An empty
// string means the states are identical.
func DiffState(before, after State, useColor bool) (string, error) {
	beforeYAML, err := yaml.Marshal(before)
	if err != nil {
		return "", fmt.Errorf("marshaling state before: %w", err)
	}
	afterYAML, err := yaml.Marshal(after)
	if err != nil {
		return "", fmt.Errorf("marshaling state after: %w", err)
	}
	if bytes.Equal(beforeYAML, afterYAML) {
		return "", nil
	}

	beforeDocs, err := ytbx.LoadYAMLDocuments(beforeYAML)
	if err != nil {
		return "", fmt.Errorf("parsing state before: %w", err)
	}
	afterDocs, err := ytbx.LoadYAMLDocuments(afterYAML)
	if err != nil {
		return "", fmt.Errorf("parsing state after: %w", err)
	}

	report, err := dyff.CompareInputFiles(
		ytbx.InputFile{Location: "before", Documents: beforeDocs},
		ytbx.InputFile{Location: "after", Documents: afterDocs},
	)
	if err != nil {
		return "", fmt.Errorf("comparing state: %w", err)
	}
	if len(report.Diffs) == 0 {
		return "", nil
	}

	var buf bytes.Buffer
	w := &dyff.HumanReport{
		Report:            report,
		DoNotInspectCerts: true,
		NoTableStyle:      !useColor,
		OmitHeader:        true,
	}
	if err := w.WriteReport(io.Writer(&buf)); err != nil {
		return "", fmt.Errorf("writing state report: %w", err)
	}

	lines := strings.Split(buf.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}
