package config

import (
	"os"

	"github.com/ezexport/cli/internal/output"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from the preferences file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// ResolveConfigPathOptions contains options for config path resolution.
type ResolveConfigPathOptions struct {
	// FlagValue is the --config flag value (empty if not set).
	FlagValue string
}

// ResolveConfigPath resolves the preferences file path using precedence:
// (1) --config flag, (2) EZX_CONFIG env, (3) ~/.ezexport/config.yaml.
func ResolveConfigPath(opts ResolveConfigPathOptions) (ResolvedValue, error) {
	result := ResolvedValue{
		Key:      "config",
		Shadowed: make(map[ConfigSource]string),
	}

	envValue := os.Getenv("EZX_CONFIG")

	paths, err := DefaultPaths()
	if err != nil {
		return result, err
	}
	defaultPath := paths.ConfigFile

	switch {
	case opts.FlagValue != "":
		result.Value = opts.FlagValue
		result.Source = SourceFlag
		if envValue != "" {
			result.Shadowed[SourceEnv] = envValue
		}
		result.Shadowed[SourceDefault] = defaultPath
	case envValue != "":
		result.Value = envValue
		result.Source = SourceEnv
		result.Shadowed[SourceDefault] = defaultPath
	default:
		result.Value = defaultPath
		result.Source = SourceDefault
	}

	return result, nil
}

// ResolveOutputRootOptions contains options for output root resolution.
type ResolveOutputRootOptions struct {
	// FlagValue is the --out-dir flag value (empty if not set).
	FlagValue string
	// ConfigValue is sourcePath from preferences (file or env, already merged by viper).
	ConfigValue string
	// SceneDir is the directory of the authored scene document.
	SceneDir string
}

// ResolveOutputRoot resolves where interchange files are written using
// precedence: (1) --out-dir flag, (2) sourcePath preference, (3) the scene
// document's directory.
func ResolveOutputRoot(opts ResolveOutputRootOptions) ResolvedValue {
	result := ResolvedValue{
		Key:      "outputRoot",
		Shadowed: make(map[ConfigSource]string),
	}

	switch {
	case opts.FlagValue != "":
		result.Value = opts.FlagValue
		result.Source = SourceFlag
		if opts.ConfigValue != "" {
			result.Shadowed[SourceConfig] = opts.ConfigValue
		}
	case opts.ConfigValue != "":
		result.Value = opts.ConfigValue
		result.Source = SourceConfig
	default:
		result.Value = opts.SceneDir
		result.Source = SourceDefault
	}

	if expanded, err := ExpandPath(result.Value); err == nil {
		result.Value = expanded
	}

	return result
}

// LogResolvedValues logs configuration resolution at DEBUG level.
func LogResolvedValues(values []ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved",
			"key", v.Key,
			"value", v.Value,
			"source", v.Source,
		)
		for source, shadowed := range v.Shadowed {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", shadowed,
			)
		}
	}
}
