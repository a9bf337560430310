package scene_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezexport/cli/internal/scene"
	"github.com/ezexport/cli/internal/testutil"
)

func TestSelect(t *testing.T) {
	t.Run("visible node", func(t *testing.T) {
		s := testutil.PropScene(t)
		require.NoError(t, s.Select(s.Node("Body")))
		assert.True(t, s.IsSelected(s.Node("Body")))
	})

	t.Run("hidden node", func(t *testing.T) {
		s := testutil.PropScene(t)
		s.Node("Body").Hidden = true
		assert.ErrorIs(t, s.Select(s.Node("Body")), scene.ErrNotSelectable)
	})

	t.Run("node in excluded container", func(t *testing.T) {
		s := testutil.PropScene(t)
		s.Container(".Prop_A").Exclude = true
		assert.ErrorIs(t, s.Select(s.Node("Body")), scene.ErrNotSelectable)
	})

	t.Run("node in child of excluded container", func(t *testing.T) {
		s := scene.New("x")
		parent := testutil.Container(t, s, "Parent", nil)
		child := testutil.Container(t, s, "Child", parent)
		n := testutil.MeshNode(t, s, "N", mgl64.Vec3{}, child)
		parent.Exclude = true

		assert.False(t, child.Included())
		assert.ErrorIs(t, s.Select(n), scene.ErrNotSelectable)
	})

	t.Run("node deleted from scene", func(t *testing.T) {
		s := testutil.PropScene(t)
		n := s.Node("Body")
		s.Delete(n)
		assert.ErrorIs(t, s.Select(n), scene.ErrNodeNotFound)
	})
}

func TestSelectedOrder(t *testing.T) {
	s := testutil.PropScene(t)
	require.NoError(t, s.Select(s.Node("Lid")))
	require.NoError(t, s.Select(s.Node("Body")))

	sel := s.Selected()
	require.Len(t, sel, 2)
	assert.Equal(t, "Body", sel[0].Name)
	assert.Equal(t, "Lid", sel[1].Name)
}

func TestRename(t *testing.T) {
	s := testutil.PropScene(t)

	assert.Equal(t, "Top", s.Rename(s.Node("Lid"), "Top"))
	assert.Nil(t, s.Node("Lid"))
	assert.NotNil(t, s.Node("Top"))

	// Taken names get a numeric suffix.
	assert.Equal(t, "Body.001", s.Rename(s.Node("Top"), "Body"))
	assert.Equal(t, "Body", s.Node("Body").Name)
}

func TestUniqueName(t *testing.T) {
	s := scene.New("x")
	testutil.MeshNode(t, s, "Cube", mgl64.Vec3{})
	testutil.MeshNode(t, s, "Cube.001", mgl64.Vec3{})

	assert.Equal(t, "Other", s.UniqueName("Other"))
	assert.Equal(t, "Cube.002", s.UniqueName("Cube"))
	assert.Equal(t, "Cube.002", s.UniqueName("Cube.001"))
}

func TestDuplicate(t *testing.T) {
	s := testutil.PropScene(t)
	body, lid := s.Node("Body"), s.Node("Lid")
	require.NoError(t, s.Select(body))
	require.NoError(t, s.Select(lid))
	require.NoError(t, s.SetActive(lid))

	copies, err := s.Duplicate()
	require.NoError(t, err)
	require.Len(t, copies, 2)

	assert.Equal(t, "Body.001", copies[0].Name)
	assert.Equal(t, "Lid.001", copies[1].Name)
	assert.Equal(t, copies[1], s.Active())
	assert.False(t, s.IsSelected(body))
	assert.True(t, s.IsSelected(copies[0]))
	assert.Len(t, s.Container(".Prop_A").Nodes(), 4)

	// Copies own their geometry.
	copies[0].Mesh.Vertices[0] = mgl64.Vec3{9, 9, 9}
	assert.Equal(t, mgl64.Vec3{0, 0, 0}, body.Mesh.Vertices[0])
}

func TestMoveTo(t *testing.T) {
	s := testutil.PropScene(t)
	staging, created := s.EnsureContainer("EZ-Export")
	require.True(t, created)

	n := s.Node("Body")
	require.NoError(t, s.MoveTo(n, staging))

	require.Len(t, n.Containers(), 1)
	assert.Equal(t, staging, n.Containers()[0])
	assert.Len(t, s.Container(".Prop_A").Nodes(), 1)

	again, created := s.EnsureContainer("EZ-Export")
	assert.False(t, created)
	assert.Equal(t, staging, again)
}

func TestLinkedContainer(t *testing.T) {
	s := testutil.PropScene(t)
	lib, err := s.NewContainer("Library", nil)
	require.NoError(t, err)
	lib.Linked = true

	assert.ErrorIs(t, s.Link(s.Node("Body"), lib), scene.ErrLinked)
	assert.ErrorIs(t, s.MoveTo(s.Node("Body"), lib), scene.ErrLinked)
}

func TestDelete(t *testing.T) {
	s := testutil.PropScene(t)
	body, lid := s.Node("Body"), s.Node("Lid")
	s.SetParent(lid, body)
	require.NoError(t, s.Select(body))
	require.NoError(t, s.SetActive(body))

	s.Delete(body)

	assert.Nil(t, s.Node("Body"))
	assert.Nil(t, s.Active())
	assert.Empty(t, s.Selected())
	assert.Nil(t, lid.Parent())
	assert.Len(t, s.Container(".Prop_A").Nodes(), 1)
}

func TestRemoveContainer(t *testing.T) {
	s := testutil.PropScene(t)
	parent := s.Container(".Prop_A")
	child := testutil.Container(t, s, "Child", parent)
	testutil.MeshNode(t, s, "Inner", mgl64.Vec3{}, child)
	testutil.MeshNode(t, s, "Outside", mgl64.Vec3{})

	s.RemoveContainer(parent)

	assert.Nil(t, s.Container(".Prop_A"))
	assert.Nil(t, s.Container("Child"))
	assert.Empty(t, s.Roots())
	require.Len(t, s.Nodes(), 1)
	assert.Equal(t, "Outside", s.Nodes()[0].Name)
}

func TestAllNodes(t *testing.T) {
	s := scene.New("x")
	parent := testutil.Container(t, s, "Parent", nil)
	child := testutil.Container(t, s, "Child", parent)
	a := testutil.MeshNode(t, s, "A", mgl64.Vec3{}, parent)
	b := testutil.MeshNode(t, s, "B", mgl64.Vec3{}, child)
	// Linked twice, listed once.
	require.NoError(t, s.Link(a, child))

	assert.Equal(t, []*scene.Node{a, b}, parent.AllNodes())
}

func TestRestoreSelection(t *testing.T) {
	s := testutil.PropScene(t)
	body := s.Node("Body")
	body.Hidden = true
	gone := s.Node("Lid")
	s.Delete(gone)

	s.RestoreSelection([]*scene.Node{body, gone}, gone)

	assert.Equal(t, []*scene.Node{body}, s.Selected())
	assert.Nil(t, s.Active())
}

func TestWorldMatrix(t *testing.T) {
	s := scene.New("x")
	parent := testutil.MeshNode(t, s, "Parent", mgl64.Vec3{1, 0, 0})
	parent.Transform.Scale = mgl64.Vec3{2, 2, 2}
	child := testutil.MeshNode(t, s, "Child", mgl64.Vec3{0, 1, 0})
	s.SetParent(child, parent)

	got := mgl64.TransformCoordinate(mgl64.Vec3{0, 0, 0}, child.WorldMatrix())
	assert.True(t, got.ApproxEqual(mgl64.Vec3{1, 2, 0}), "got %v", got)
}

func TestUnparent(t *testing.T) {
	worldVerts := func(n *scene.Node) []mgl64.Vec3 {
		var out []mgl64.Vec3
		for _, v := range n.Mesh.Vertices {
			out = append(out, mgl64.TransformCoordinate(v, n.WorldMatrix()))
		}
		return out
	}

	t.Run("keeps world position", func(t *testing.T) {
		s := scene.New("x")
		parent := testutil.MeshNode(t, s, "Parent", mgl64.Vec3{1, 0, 0})
		parent.Transform.Rotation = mgl64.Vec3{0, 0, mgl64.DegToRad(90)}
		parent.Transform.Scale = mgl64.Vec3{2, 2, 2}
		child := testutil.MeshNode(t, s, "Child", mgl64.Vec3{0, 1, 0})
		s.SetParent(child, parent)
		before := worldVerts(child)

		s.Unparent(child)

		assert.Nil(t, child.Parent())
		assert.True(t, child.Transform.Location.ApproxEqual(mgl64.Vec3{-1, 0, 0}), "origin at %v", child.Transform.Location)
		assert.Equal(t, mgl64.Vec3{1, 1, 1}, child.Transform.Scale)
		after := worldVerts(child)
		for i := range before {
			assert.True(t, after[i].ApproxEqualThreshold(before[i], 1e-9), "vertex %d: %v != %v", i, after[i], before[i])
		}
		assert.InDelta(t, 8.0, child.Mesh.SignedVolume(), 1e-9)
	})

	t.Run("mirrored parent flips faces", func(t *testing.T) {
		s := scene.New("x")
		parent := testutil.MeshNode(t, s, "Parent", mgl64.Vec3{})
		parent.Transform.Scale = mgl64.Vec3{-1, 1, 1}
		child := testutil.MeshNode(t, s, "Child", mgl64.Vec3{})
		s.SetParent(child, parent)

		s.Unparent(child)

		assert.InDelta(t, 1.0, child.Mesh.SignedVolume(), 1e-9)
	})

	t.Run("root node untouched", func(t *testing.T) {
		s := scene.New("x")
		n := testutil.MeshNode(t, s, "Root", mgl64.Vec3{0, 0, 3})
		s.Unparent(n)
		assert.Equal(t, mgl64.Vec3{0, 0, 3}, n.Transform.Location)
	})
}

func TestDuplicate_RemapsParentToCopy(t *testing.T) {
	s := scene.New("x")
	rig := testutil.MeshNode(t, s, "Rig", mgl64.Vec3{})
	parent := testutil.MeshNode(t, s, "Parent", mgl64.Vec3{1, 0, 0})
	child := testutil.MeshNode(t, s, "Child", mgl64.Vec3{0, 1, 0})
	s.SetParent(parent, rig)
	s.SetParent(child, parent)
	require.NoError(t, s.Select(parent))
	require.NoError(t, s.Select(child))

	copies, err := s.Duplicate()
	require.NoError(t, err)
	require.Len(t, copies, 2)

	assert.Equal(t, rig, copies[0].Parent(), "unselected parent is kept")
	assert.Equal(t, copies[0], copies[1].Parent())
	assert.Equal(t, parent, child.Parent())
	assert.Equal(t, 2, copies[1].Depth())
}

func TestInView(t *testing.T) {
	n := &scene.Node{Name: "n"}
	assert.True(t, n.InView("main"))

	n.Views = []string{"other"}
	assert.False(t, n.InView("main"))
	assert.True(t, n.InView("other"))
}
