package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// Environment variable prefix for ezexport preferences.
const envPrefix = "EZX"

// envBindings maps preference keys to their environment variables.
var envBindings = map[string]string{
	"exportPrefix":       "EZX_EXPORT_PREFIX",
	"priorityPrefix":     "EZX_PRIORITY_PREFIX",
	"excludePrefix":      "EZX_EXCLUDE_PREFIX",
	"collisionPrefix":    "EZX_COLLISION_PREFIX",
	"lowpolyRegex":       "EZX_LOWPOLY_REGEX",
	"highpolyRegex":      "EZX_HIGHPOLY_REGEX",
	"autoUvPrefix":       "EZX_AUTO_UV_PREFIX",
	"stagingCollection":  "EZX_STAGING_COLLECTION",
	"collectionTemplate": "EZX_COLLECTION_TEMPLATE",
	"armatureTemplate":   "EZX_ARMATURE_TEMPLATE",
	"respectCurrentView": "EZX_RESPECT_CURRENT_VIEW",
	"showExportDialog":   "EZX_SHOW_EXPORT_DIALOG",
	"sourcePath":         "EZX_SOURCE_PATH",
	"fileFormat":         "EZX_FILE_FORMAT",
}

// Loader handles loading and merging preferences from defaults, the
// preferences file and the environment.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new preferences loader.
func NewLoader() *Loader {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	defaults := DefaultPreferences()
	v.SetDefault("exportPrefix", defaults.ExportPrefix)
	v.SetDefault("priorityPrefix", defaults.PriorityPrefix)
	v.SetDefault("excludePrefix", defaults.ExcludePrefix)
	v.SetDefault("collisionPrefix", defaults.CollisionPrefix)
	v.SetDefault("lowpolyRegex", defaults.LowpolyRegex)
	v.SetDefault("highpolyRegex", defaults.HighpolyRegex)
	v.SetDefault("autoUvPrefix", defaults.AutoUVPrefix)
	v.SetDefault("stagingCollection", defaults.StagingCollection)
	v.SetDefault("collectionTemplate", defaults.CollectionTemplate)
	v.SetDefault("armatureTemplate", defaults.ArmatureTemplate)
	v.SetDefault("respectCurrentView", defaults.RespectCurrentView)
	v.SetDefault("showExportDialog", defaults.ShowExportDialog)
	v.SetDefault("sourcePath", defaults.SourcePath)
	v.SetDefault("fileFormat", string(defaults.FileFormat))

	return &Loader{v: v}
}

// Load loads preferences from the given file path.
// A missing file is not an error: defaults and environment apply.
// Environment variables take precedence over file values.
func (l *Loader) Load(configFile string) (*Preferences, error) {
	if configFile == "" {
		paths, err := DefaultPaths()
		if err != nil {
			return nil, fmt.Errorf("getting config file path: %w", err)
		}
		configFile = paths.ConfigFile
	}

	expandedPath, err := ExpandPath(configFile)
	if err != nil {
		return nil, fmt.Errorf("expanding config path: %w", err)
	}

	l.v.SetConfigFile(expandedPath)
	l.v.SetConfigType("yaml")

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var prefs Preferences
	if err := l.v.Unmarshal(&prefs); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &prefs, nil
}

// ConfigFileUsed returns the file the last Load read, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}
