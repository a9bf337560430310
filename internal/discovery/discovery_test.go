package discovery

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezexport/cli/internal/config"
	"github.com/ezexport/cli/internal/scene"
	"github.com/ezexport/cli/internal/testutil"
)

func newFinder(t *testing.T, mutate func(*config.Preferences)) *Finder {
	t.Helper()
	prefs := config.DefaultPreferences()
	if mutate != nil {
		mutate(prefs)
	}
	f, err := NewFinder(prefs)
	require.NoError(t, err)
	return f
}

func names(cs []Candidate) []string {
	out := []string{}
	for _, c := range cs {
		out = append(out, c.Name)
	}
	return out
}

func TestFindCollections(t *testing.T) {
	s := scene.New("Level01")
	s.ActiveView = "main"

	zeta := testutil.Container(t, s, ".Zeta", nil)
	testutil.MeshNode(t, s, "Z", mgl64.Vec3{}, zeta)
	alpha := testutil.Container(t, s, ".Alpha", nil)
	testutil.MeshNode(t, s, "A", mgl64.Vec3{}, alpha)
	plain := testutil.Container(t, s, "Plain", nil)
	testutil.MeshNode(t, s, "P", mgl64.Vec3{}, plain)
	linked := testutil.Container(t, s, ".Linked", nil)
	testutil.MeshNode(t, s, "L", mgl64.Vec3{}, linked)
	linked.Linked = true
	other := testutil.Container(t, s, ".OtherView", nil)
	o := testutil.MeshNode(t, s, "O", mgl64.Vec3{}, other)
	o.Views = []string{"secondary"}

	t.Run("declaration order, prefix, linked and view filters", func(t *testing.T) {
		got := newFinder(t, nil).FindCollections(s)
		assert.Equal(t, []string{".Zeta", ".Alpha"}, names(got))
	})

	t.Run("view filter disabled", func(t *testing.T) {
		f := newFinder(t, func(p *config.Preferences) { p.RespectCurrentView = false })
		assert.Equal(t, []string{".Zeta", ".Alpha", ".OtherView"}, names(f.FindCollections(s)))
	})

	t.Run("nothing matches", func(t *testing.T) {
		f := newFinder(t, func(p *config.Preferences) { p.ExportPrefix = "EXP_" })
		got := f.FindCollections(s)
		assert.Empty(t, got)
	})
}

func TestFindCollectionsNestedMembers(t *testing.T) {
	s := scene.New("x")
	s.ActiveView = "main"
	parent := testutil.Container(t, s, ".Parent", nil)
	child := testutil.Container(t, s, "Child", parent)
	n := testutil.MeshNode(t, s, "N", mgl64.Vec3{}, child)
	n.Views = []string{"main"}

	got := newFinder(t, nil).FindCollections(s)
	assert.Equal(t, []string{".Parent"}, names(got))
}

func TestFindArmatures(t *testing.T) {
	s := scene.New("x")
	s.ActiveView = "main"
	testutil.Node(t, s, &scene.Node{Name: ".Hero", Kind: scene.KindArmature})
	testutil.Node(t, s, &scene.Node{Name: "Rig", Kind: scene.KindArmature})
	testutil.Node(t, s, &scene.Node{Name: ".NotARig", Kind: scene.KindMesh})
	testutil.Node(t, s, &scene.Node{Name: ".Elsewhere", Kind: scene.KindArmature, Views: []string{"other"}})
	lib := testutil.Container(t, s, "Lib", nil)
	testutil.Node(t, s, &scene.Node{Name: ".Library", Kind: scene.KindArmature}, lib)
	lib.Linked = true

	got := newFinder(t, nil).FindArmatures(s)
	require.Len(t, got, 1)
	assert.Equal(t, ".Hero", got[0].Name)
	assert.Equal(t, "Hero", got[0].BaseName)
	assert.NotNil(t, got[0].Root)
	assert.Nil(t, got[0].Container)
}

func TestCandidateNames(t *testing.T) {
	s := scene.New("x")
	c := testutil.Container(t, s, ".~Rock_LP", nil)
	testutil.MeshNode(t, s, "R", mgl64.Vec3{}, c)

	got := newFinder(t, nil).FindCollections(s)
	require.Len(t, got, 1)
	assert.Equal(t, "Rock_LP", got[0].BaseName)
	assert.True(t, got[0].AutoUV)
	assert.Equal(t, CategoryLowPoly, got[0].Category)
	assert.Equal(t, c, got[0].Container)
}

func TestCategorize(t *testing.T) {
	f := newFinder(t, nil)
	assert.Equal(t, CategoryLowPoly, f.Categorize("Rock_lp"))
	assert.Equal(t, CategoryHighPoly, f.Categorize("Rock_HP"))
	assert.Equal(t, CategoryOther, f.Categorize("Rock_lp_old"))
}

func TestNewFinderInvalidRegex(t *testing.T) {
	prefs := config.DefaultPreferences()
	prefs.HighpolyRegex = "("
	_, err := NewFinder(prefs)
	assert.ErrorContains(t, err, "highpoly")
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("collisionOnly")
	require.NoError(t, err)
	assert.Equal(t, CategoryCollisionOnly, c)

	_, err = ParseCategory("midPoly")
	assert.Error(t, err)
}
