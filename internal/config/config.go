// Package config provides preference loading and management.
package config

// FileFormat names the interchange format written per deliverable.
type FileFormat string

const (
	// FormatOBJ writes Wavefront OBJ files.
	FormatOBJ FileFormat = "obj"
)

// Extension returns the file extension including the leading dot.
func (f FileFormat) Extension() string {
	return "." + string(f)
}

// Preferences holds every value the exporter reads from the preferences
// provider. Loaded from ~/.ezexport/config.yaml, validated against the
// embedded CUE schema.
type Preferences struct {
	// ExportPrefix marks containers and armatures for export.
	// Env: EZX_EXPORT_PREFIX, Default: "."
	ExportPrefix string `json:"exportPrefix" mapstructure:"exportPrefix"`

	// PriorityPrefix marks the node made active before joining, so its
	// origin and shading propagate to the merged result.
	PriorityPrefix string `json:"priorityPrefix" mapstructure:"priorityPrefix"`

	// ExcludePrefix marks nodes that never leave the scene.
	ExcludePrefix string `json:"excludePrefix" mapstructure:"excludePrefix"`

	// CollisionPrefix pairs collision proxies with export candidates and is
	// the engine-side collision naming prefix.
	CollisionPrefix string `json:"collisionPrefix" mapstructure:"collisionPrefix"`

	// LowpolyRegex classifies candidate base names as low poly.
	LowpolyRegex string `json:"lowpolyRegex" mapstructure:"lowpolyRegex"`

	// HighpolyRegex classifies candidate base names as high poly.
	HighpolyRegex string `json:"highpolyRegex" mapstructure:"highpolyRegex"`

	// AutoUVPrefix is a secondary marker requesting automatic unwrapping.
	AutoUVPrefix string `json:"autoUvPrefix" mapstructure:"autoUvPrefix"`

	// StagingCollection is the temporary container holding merged nodes.
	StagingCollection string `json:"stagingCollection" mapstructure:"stagingCollection"`

	// CollectionTemplate names container exports.
	CollectionTemplate string `json:"collectionTemplate" mapstructure:"collectionTemplate"`

	// ArmatureTemplate names armature exports.
	ArmatureTemplate string `json:"armatureTemplate" mapstructure:"armatureTemplate"`

	// RespectCurrentView limits discovery to the active view.
	RespectCurrentView bool `json:"respectCurrentView" mapstructure:"respectCurrentView"`

	// ShowExportDialog asks for confirmation before a batch starts.
	ShowExportDialog bool `json:"showExportDialog" mapstructure:"showExportDialog"`

	// SourcePath is the output root. Empty means the scene document's directory.
	// Env: EZX_SOURCE_PATH
	SourcePath string `json:"sourcePath" mapstructure:"sourcePath"`

	// FileFormat selects the interchange writer.
	FileFormat FileFormat `json:"fileFormat" mapstructure:"fileFormat"`
}

// DefaultPreferences returns Preferences with all default values populated.
// Used by `ezexport config init` and as the viper defaults.
func DefaultPreferences() *Preferences {
	return &Preferences{
		ExportPrefix:       ".",
		PriorityPrefix:     ".",
		ExcludePrefix:      "NOEXPORT_",
		CollisionPrefix:    "UCX_",
		LowpolyRegex:       "(?i)_lp$",
		HighpolyRegex:      "(?i)_hp$",
		AutoUVPrefix:       "~",
		StagingCollection:  "EZ-Export",
		CollectionTemplate: "$(file)_$(collection)",
		ArmatureTemplate:   "$(file)_$(armature)",
		RespectCurrentView: true,
		ShowExportDialog:   true,
		FileFormat:         FormatOBJ,
	}
}

// ResolvedValue records one configuration value and where it came from.
type ResolvedValue struct {
	Key      string
	Value    string
	Source   ConfigSource
	Shadowed map[ConfigSource]string
}
