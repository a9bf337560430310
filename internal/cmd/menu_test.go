package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezexport/cli/internal/config"
	"github.com/ezexport/cli/internal/registry"
	"github.com/ezexport/cli/internal/scene"
)

func labels(entries []registry.MenuEntry) []string {
	out := []string{}
	for _, e := range entries {
		if e.Label != "" {
			out = append(out, e.Label)
		}
	}
	return out
}

func TestMenu_JSON(t *testing.T) {
	isolateHome(t)
	path := copyFixtureScene(t)

	out, err := execute(t, "", "menu", path, "-o", "json")
	require.NoError(t, err)

	var entries []registry.MenuEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))

	assert.Equal(t, []string{
		"Open output folder",
		"Export Animations",
		"1 Export Armatures in scene",
		"Export Collections",
		"2 Export Collections in scene",
		"Export selected (1)",
	}, labels(entries))
	assert.True(t, entries[1].Separator)
}

func TestMenu_EmptyScene(t *testing.T) {
	isolateHome(t)
	path := writeScene(t, "nodes: []\n")

	out, err := execute(t, "", "menu", path)
	require.NoError(t, err)
	assert.Contains(t, out, "No Export Collections in scene!")
	assert.Contains(t, out, "No Export Armatures in scene!")
	assert.Contains(t, out, "Nothing selected!")
}

func TestMenu_DoesNotModifyScene(t *testing.T) {
	isolateHome(t)
	path := copyFixtureScene(t)
	s, err := scene.LoadFile(path)
	require.NoError(t, err)
	before := scene.Snapshot(s)

	_, err = execute(t, "", "menu", path)
	require.NoError(t, err)

	s, err = scene.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, scene.Snapshot(s))
}

func TestMenu_InvalidPreferences(t *testing.T) {
	writePreferences(t, "lowpolyRegex: \"([\"\n")
	path := copyFixtureScene(t)

	_, err := execute(t, "", "menu", path)
	require.Error(t, err)
	assert.Equal(t, ExitValidationError, ExitCodeFromError(err))
}

func TestMenuItemsRegisterAndUnregister(t *testing.T) {
	var reg registry.Registry
	require.NoError(t, reg.Register(menuItems(config.DefaultPreferences())...))
	assert.Equal(t, []string{
		"open", "separator", "export",
		"export armatures", "export collections", "export selected",
	}, reg.Registered())

	require.NoError(t, reg.Unregister())
	assert.Empty(t, reg.Registered())
}

func TestFinderOperator_UnregisterTwice(t *testing.T) {
	op := &collectionsOperator{finderOperator{prefs: config.DefaultPreferences()}}
	require.NoError(t, op.Register())
	require.NoError(t, op.Unregister())
	assert.Error(t, op.Unregister())
}
