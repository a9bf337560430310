package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	assert.NotNil(t, loader)
	assert.NotNil(t, loader.v)
}

func TestLoaderLoad(t *testing.T) {
	t.Run("loads preferences from file", func(t *testing.T) {
		configFile := filepath.Join(t.TempDir(), "config.yaml")
		content := `
exportPrefix: "EX_"
collisionPrefix: "COL_"
sourcePath: /exports
respectCurrentView: false
collectionTemplate: "$(collection)"
`
		require.NoError(t, os.WriteFile(configFile, []byte(content), 0o644))

		prefs, err := NewLoader().Load(configFile)

		require.NoError(t, err)
		assert.Equal(t, "EX_", prefs.ExportPrefix)
		assert.Equal(t, "COL_", prefs.CollisionPrefix)
		assert.Equal(t, "/exports", prefs.SourcePath)
		assert.False(t, prefs.RespectCurrentView)
		assert.Equal(t, "$(collection)", prefs.CollectionTemplate)
		// untouched keys keep their defaults
		assert.Equal(t, "$(file)_$(armature)", prefs.ArmatureTemplate)
		assert.Equal(t, FormatOBJ, prefs.FileFormat)
	})

	t.Run("returns defaults for missing file", func(t *testing.T) {
		configFile := filepath.Join(t.TempDir(), "nonexistent.yaml")

		prefs, err := NewLoader().Load(configFile)

		require.NoError(t, err)
		assert.Equal(t, DefaultPreferences(), prefs)
	})

	t.Run("env vars override file values", func(t *testing.T) {
		t.Setenv("EZX_EXPORT_PREFIX", "ENV_")
		t.Setenv("EZX_SHOW_EXPORT_DIALOG", "false")

		configFile := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(configFile, []byte(`exportPrefix: "FILE_"`), 0o644))

		prefs, err := NewLoader().Load(configFile)

		require.NoError(t, err)
		assert.Equal(t, "ENV_", prefs.ExportPrefix)
		assert.False(t, prefs.ShowExportDialog)
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		configFile := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(configFile, []byte("exportPrefix: [unclosed"), 0o644))

		_, err := NewLoader().Load(configFile)
		assert.Error(t, err)
	})
}

func TestFileFormatExtension(t *testing.T) {
	assert.Equal(t, ".obj", FormatOBJ.Extension())
}
