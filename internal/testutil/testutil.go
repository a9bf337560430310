// Package testutil provides test helpers for building scenes and fixtures.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"

	"github.com/ezexport/cli/internal/scene"
)

// FixturePath returns the absolute path to a test fixture.
func FixturePath(t *testing.T, parts ...string) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}

	// Walk up to find tests/fixtures
	dir := wd
	for {
		fixturesPath := filepath.Join(dir, "tests", "fixtures")
		if _, err := os.Stat(fixturesPath); err == nil {
			return filepath.Join(append([]string{fixturesPath}, parts...)...)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("could not find tests/fixtures directory from %s", wd)
		}
		dir = parent
	}
}

// WriteFile creates a file with the given content in the specified directory.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent dirs for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
	return path
}

// Cube returns a closed cube mesh of the given edge length with outward
// facing quads and one UV layer with the given name. An empty layer name
// leaves the mesh without UVs.
func Cube(size float64, uvLayer string) *scene.Mesh {
	m := &scene.Mesh{
		Vertices: []mgl64.Vec3{
			{0, 0, 0}, {size, 0, 0}, {size, size, 0}, {0, size, 0},
			{0, 0, size}, {size, 0, size}, {size, size, size}, {0, size, size},
		},
		Faces: [][]int{
			{0, 3, 2, 1},
			{4, 5, 6, 7},
			{0, 1, 5, 4},
			{3, 7, 6, 2},
			{0, 4, 7, 3},
			{1, 2, 6, 5},
		},
	}
	if uvLayer != "" {
		m.UVLayers = []scene.UVLayer{{Name: uvLayer, Coords: make([]mgl64.Vec2, len(m.Vertices))}}
	}
	return m
}

// Container adds a container to s under parent.
func Container(t *testing.T, s *scene.Scene, name string, parent *scene.Container) *scene.Container {
	t.Helper()
	c, err := s.NewContainer(name, parent)
	require.NoError(t, err)
	return c
}

// MeshNode adds a unit cube mesh node at loc, linked into containers.
func MeshNode(t *testing.T, s *scene.Scene, name string, loc mgl64.Vec3, containers ...*scene.Container) *scene.Node {
	t.Helper()
	n := &scene.Node{
		Name:      name,
		Kind:      scene.KindMesh,
		Transform: scene.IdentityTransform(),
		Mesh:      Cube(1, scene.DefaultUVLayer),
	}
	n.Transform.Location = loc
	require.NoError(t, s.AddNode(n, containers...))
	return n
}

// Node adds an arbitrary node to s, linked into containers.
func Node(t *testing.T, s *scene.Scene, n *scene.Node, containers ...*scene.Container) *scene.Node {
	t.Helper()
	require.NoError(t, s.AddNode(n, containers...))
	return n
}

// PropScene returns a scene named Level01 with container ".Prop_A" holding
// two cubes, "Body" and "Lid".
func PropScene(t *testing.T) *scene.Scene {
	t.Helper()
	s := scene.New("Level01")
	prop := Container(t, s, ".Prop_A", nil)
	MeshNode(t, s, "Body", mgl64.Vec3{0, 0, 0}, prop)
	MeshNode(t, s, "Lid", mgl64.Vec3{0, 0, 1}, prop)
	return s
}
