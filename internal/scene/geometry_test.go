package scene_test

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezexport/cli/internal/scene"
	"github.com/ezexport/cli/internal/testutil"
)

func TestSignedVolume(t *testing.T) {
	m := testutil.Cube(2, "")
	assert.InDelta(t, 8.0, m.SignedVolume(), 1e-9)

	m.FlipFaces()
	assert.InDelta(t, -8.0, m.SignedVolume(), 1e-9)
}

func TestMeshValidate(t *testing.T) {
	m := testutil.Cube(1, "UVMap")
	require.NoError(t, m.Validate())

	m.Faces = append(m.Faces, []int{0, 1, 99})
	assert.Error(t, m.Validate())

	m = testutil.Cube(1, "UVMap")
	m.UVLayers[0].Coords = m.UVLayers[0].Coords[:2]
	assert.Error(t, m.Validate())
}

func TestMeshAppendUVLayers(t *testing.T) {
	a := testutil.Cube(1, "UVMap")
	b := testutil.Cube(1, "Atlas")

	a.Append(b)

	require.NoError(t, a.Validate())
	assert.Len(t, a.Vertices, 16)
	assert.Len(t, a.Faces, 12)
	require.Len(t, a.UVLayers, 2)
	assert.Equal(t, "UVMap", a.UVLayers[0].Name)
	assert.Equal(t, "Atlas", a.UVLayers[1].Name)
}

func TestConvertToMesh(t *testing.T) {
	s := scene.New("x")

	curve := testutil.Node(t, s, &scene.Node{
		Name: "Curve",
		Kind: scene.KindCurve,
		Curve: &scene.Curve{
			Points: []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}},
			Closed: true,
		},
	})
	require.NoError(t, s.ConvertToMesh(curve))
	assert.Equal(t, scene.KindMesh, curve.Kind)
	assert.Nil(t, curve.Curve)
	assert.Len(t, curve.Mesh.Vertices, 3)
	assert.Equal(t, [][]int{{0, 1, 2}}, curve.Mesh.Faces)

	stroke := testutil.Node(t, s, &scene.Node{
		Name:    "Stroke",
		Kind:    scene.KindStroke,
		Strokes: []scene.Stroke{{Points: []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}}}, {Points: []mgl64.Vec3{{2, 0, 0}}}},
	})
	require.NoError(t, s.ConvertToMesh(stroke))
	assert.Len(t, stroke.Mesh.Vertices, 3)
	assert.Empty(t, stroke.Mesh.Faces)

	surface := testutil.Node(t, s, &scene.Node{Name: "Surface", Kind: scene.KindSurface})
	assert.ErrorIs(t, s.ConvertToMesh(surface), scene.ErrNotConvertible)
}

func TestApplyModifiers(t *testing.T) {
	t.Run("mirror keeps normals outward", func(t *testing.T) {
		s := scene.New("x")
		n := testutil.MeshNode(t, s, "N", mgl64.Vec3{})
		n.Modifiers = []scene.Modifier{{Name: "Mirror", Type: scene.ModifierMirror, Axis: 0}}

		require.NoError(t, s.ApplyModifiers(n))
		assert.Len(t, n.Mesh.Vertices, 16)
		assert.InDelta(t, 2.0, n.Mesh.SignedVolume(), 1e-9)
		assert.Empty(t, n.Modifiers)
	})

	t.Run("array", func(t *testing.T) {
		s := scene.New("x")
		n := testutil.MeshNode(t, s, "N", mgl64.Vec3{})
		n.Modifiers = []scene.Modifier{{Name: "Array", Type: scene.ModifierArray, Count: 3, Offset: mgl64.Vec3{2, 0, 0}}}

		require.NoError(t, s.ApplyModifiers(n))
		assert.Len(t, n.Mesh.Faces, 18)
		assert.InDelta(t, 3.0, n.Mesh.SignedVolume(), 1e-9)
	})

	t.Run("triangulate", func(t *testing.T) {
		s := scene.New("x")
		n := testutil.MeshNode(t, s, "N", mgl64.Vec3{})
		n.Modifiers = []scene.Modifier{{Name: "Tri", Type: scene.ModifierTriangulate}}

		require.NoError(t, s.ApplyModifiers(n))
		assert.Len(t, n.Mesh.Faces, 12)
		assert.InDelta(t, 1.0, n.Mesh.SignedVolume(), 1e-9)
	})

	t.Run("unsupported leaves mesh untouched", func(t *testing.T) {
		s := scene.New("x")
		n := testutil.MeshNode(t, s, "N", mgl64.Vec3{})
		n.Modifiers = []scene.Modifier{
			{Name: "Tri", Type: scene.ModifierTriangulate},
			{Name: "Bevel", Type: "bevel"},
		}

		err := s.ApplyModifiers(n)
		assert.ErrorIs(t, err, scene.ErrUnsupportedModifier)
		assert.Contains(t, err.Error(), "Bevel")
		assert.Len(t, n.Mesh.Faces, 6)
		assert.Len(t, n.Modifiers, 2)
	})
}

func TestUnwrap(t *testing.T) {
	s := scene.New("x")
	n := testutil.Node(t, s, &scene.Node{Name: "N", Kind: scene.KindMesh, Mesh: testutil.Cube(4, "")})

	require.NoError(t, s.Unwrap(n))

	l := n.Mesh.UVLayer(scene.DefaultUVLayer)
	require.NotNil(t, l)
	require.Len(t, l.Coords, 8)
	for _, uv := range l.Coords {
		assert.True(t, uv[0] >= 0 && uv[0] <= 1, "u out of range: %v", uv)
		assert.True(t, uv[1] >= 0 && uv[1] <= 1, "v out of range: %v", uv)
	}
}

func TestJoin(t *testing.T) {
	t.Run("vertices land in active local space", func(t *testing.T) {
		s := testutil.PropScene(t)
		body, lid := s.Node("Body"), s.Node("Lid")

		joined, err := s.Join([]*scene.Node{body, lid}, body)
		require.NoError(t, err)

		assert.Equal(t, body, joined)
		assert.Nil(t, s.Node("Lid"))
		assert.Len(t, joined.Mesh.Vertices, 16)
		assert.True(t, joined.Mesh.Vertices[8].ApproxEqual(mgl64.Vec3{0, 0, 1}))
		assert.Equal(t, []*scene.Node{body}, s.Selected())
		assert.Equal(t, body, s.Active())
		assert.InDelta(t, 2.0, joined.Mesh.SignedVolume(), 1e-9)
	})

	t.Run("mirrored source is flipped", func(t *testing.T) {
		s := testutil.PropScene(t)
		body, lid := s.Node("Body"), s.Node("Lid")
		lid.Transform.Scale = mgl64.Vec3{-1, 1, 1}

		joined, err := s.Join([]*scene.Node{body, lid}, body)
		require.NoError(t, err)
		assert.InDelta(t, 2.0, joined.Mesh.SignedVolume(), 1e-9)
	})

	t.Run("rotated active", func(t *testing.T) {
		s := testutil.PropScene(t)
		body, lid := s.Node("Body"), s.Node("Lid")
		body.Transform.Rotation = mgl64.Vec3{0, 0, math.Pi / 2}

		joined, err := s.Join([]*scene.Node{body, lid}, body)
		require.NoError(t, err)

		// Lid's world position must be unchanged under body's transform.
		world := mgl64.TransformCoordinate(joined.Mesh.Vertices[8], body.WorldMatrix())
		assert.True(t, world.ApproxEqualThreshold(mgl64.Vec3{0, 0, 1}, 1e-9), "got %v", world)
	})

	t.Run("active missing", func(t *testing.T) {
		s := testutil.PropScene(t)
		_, err := s.Join([]*scene.Node{s.Node("Lid")}, s.Node("Body"))
		assert.Error(t, err)

		_, err = s.Join(nil, nil)
		assert.ErrorIs(t, err, scene.ErrNothingToJoin)
	})
}
