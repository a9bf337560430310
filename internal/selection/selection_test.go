package selection

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezexport/cli/internal/scene"
	"github.com/ezexport/cli/internal/testutil"
)

func selectedNames(s *scene.Scene) []string {
	var names []string
	for _, n := range s.Selected() {
		names = append(names, n.Name)
	}
	return names
}

func TestDoRestoresSelection(t *testing.T) {
	s := testutil.PropScene(t)
	body, lid := s.Node("Body"), s.Node("Lid")
	require.NoError(t, s.Select(body))
	require.NoError(t, s.SetActive(body))

	err := Do(s, func() error {
		s.DeselectAll()
		require.NoError(t, s.Select(lid))
		require.NoError(t, s.SetActive(lid))
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"Body"}, selectedNames(s))
	assert.Equal(t, body, s.Active())
}

func TestDoReturnsError(t *testing.T) {
	s := testutil.PropScene(t)
	boom := errors.New("boom")

	err := Do(s, func() error {
		require.NoError(t, s.Select(s.Node("Lid")))
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Empty(t, s.Selected())
}

func TestDoRestoresOnPanic(t *testing.T) {
	s := testutil.PropScene(t)
	require.NoError(t, s.Select(s.Node("Lid")))

	assert.PanicsWithValue(t, "kaboom", func() {
		_ = Do(s, func() error {
			s.DeselectAll()
			require.NoError(t, s.Select(s.Node("Body")))
			panic("kaboom")
		})
	})

	assert.Equal(t, []string{"Lid"}, selectedNames(s))
}

func TestNestedTransactions(t *testing.T) {
	s := testutil.PropScene(t)
	require.NoError(t, s.Select(s.Node("Body")))

	err := Do(s, func() error {
		require.NoError(t, s.Select(s.Node("Lid")))
		inner := Do(s, func() error {
			s.DeselectAll()
			return nil
		})
		assert.Equal(t, []string{"Body", "Lid"}, selectedNames(s))
		return inner
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"Body"}, selectedNames(s))
}

func TestRestoreSkipsDeletedNodes(t *testing.T) {
	s := testutil.PropScene(t)
	lid := s.Node("Lid")
	require.NoError(t, s.Select(lid))
	require.NoError(t, s.SetActive(lid))

	tx := Begin(s)
	s.Delete(lid)
	tx.Restore()
	tx.Restore()

	assert.Empty(t, s.Selected())
	assert.Nil(t, s.Active())
}

func TestReveal(t *testing.T) {
	s := scene.New("x")
	parent := testutil.Container(t, s, "Parent", nil)
	child := testutil.Container(t, s, "Child", parent)
	n := testutil.MeshNode(t, s, "N", mgl64.Vec3{}, child)
	parent.Exclude = true
	child.Exclude = true

	restore := Reveal(child)
	assert.True(t, child.Included())
	require.NoError(t, s.Select(n))

	restore()
	restore()
	assert.True(t, parent.Exclude)
	assert.True(t, child.Exclude)
}

func TestWithTemporaryVisibility(t *testing.T) {
	s := testutil.PropScene(t)
	c := s.Container(".Prop_A")
	c.Exclude = true

	err := WithTemporaryVisibility(c, func() error {
		assert.False(t, c.Exclude)
		return errors.New("fail inside")
	})

	assert.Error(t, err)
	assert.True(t, c.Exclude)
}
