package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ezexport/cli/internal/config"
	oerrors "github.com/ezexport/cli/internal/errors"
	"github.com/ezexport/cli/internal/output"
	"github.com/ezexport/cli/internal/version"
)

// GlobalConfig holds CLI-wide configuration resolved during
// PersistentPreRunE. It is passed explicitly into every sub-command
// constructor.
type GlobalConfig struct {
	// Preferences are the loaded preferences, nil when loading failed.
	Preferences *config.Preferences

	// ConfigPath is the resolved preferences file path.
	ConfigPath config.ResolvedValue

	// Output is the report format.
	Output output.Format

	Verbose bool

	// loadErr is the preferences load or validation error, surfaced by
	// commands that need preferences.
	loadErr error
}

// RequirePreferences returns the preferences or the error that prevented
// loading them.
func (g *GlobalConfig) RequirePreferences() (*config.Preferences, error) {
	if g.loadErr != nil {
		return nil, g.loadErr
	}
	if g.Preferences == nil {
		return config.DefaultPreferences(), nil
	}
	return g.Preferences, nil
}

// NewRootCmd creates the root command for the ezexport CLI.
func NewRootCmd() *cobra.Command {
	cfg := &GlobalConfig{}

	var (
		configFlag     string
		outputFlag     string
		verboseFlag    bool
		timestampsFlag bool
	)

	rootCmd := &cobra.Command{
		Use:   "ezexport",
		Short: "Export scene collections and armatures for game engines",
		Long: `ezexport exports the marked containers and armatures of an authored scene
document as interchange files ready for a game engine.

It provides commands to:
  - Export every marked container, armature or the current selection
  - Show the export menu with candidate counts
  - Open the output folder and check scene documents out of Perforce
  - Initialize and validate preferences`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			logCfg := output.LogConfig{Verbose: verboseFlag}
			if c.Flags().Changed("timestamps") {
				logCfg.Timestamps = output.BoolPtr(timestampsFlag)
			}
			output.SetupLogging(logCfg)

			format, ok := output.ParseFormat(outputFlag)
			if !ok {
				return NewExitError(
					fmt.Errorf("invalid output format %q (valid: %v)", outputFlag, output.ValidFormats()),
					ExitValidationError)
			}
			cfg.Output = format
			cfg.Verbose = verboseFlag

			return initializeGlobals(cfg, configFlag)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Path to preferences file (env: EZX_CONFIG)")
	rootCmd.PersistentFlags().StringVarP(&outputFlag, "output", "o", "table", "Report format: table, yaml, json")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&timestampsFlag, "timestamps", true, "Show timestamps in log output")

	rootCmd.AddCommand(NewExportCmd(cfg))
	rootCmd.AddCommand(NewMenuCmd(cfg))
	rootCmd.AddCommand(NewOpenCmd(cfg))
	rootCmd.AddCommand(NewCheckoutCmd(cfg))
	rootCmd.AddCommand(NewConfigCmd(cfg))
	rootCmd.AddCommand(NewVersionCmd(cfg))

	return rootCmd
}

// initializeGlobals resolves and loads the preferences. Load failures are
// kept for the commands that need preferences so that version and
// config init keep working with a broken file.
func initializeGlobals(cfg *GlobalConfig, configFlag string) error {
	info := version.Get()
	output.Debug("ezexport started", "version", info.Version, "cue_sdk", info.CUESDKVersion)

	path, err := config.ResolveConfigPath(config.ResolveConfigPathOptions{FlagValue: configFlag})
	if err != nil {
		return oerrors.Wrap(oerrors.ErrNotFound, "could not resolve preferences path")
	}
	cfg.ConfigPath = path
	config.LogResolvedValues([]config.ResolvedValue{path})

	prefs, err := config.NewLoader().Load(path.Value)
	if err != nil {
		output.Debug("preferences load error", "error", err)
		cfg.loadErr = &oerrors.DetailError{
			Type:     "validation failed",
			Message:  err.Error(),
			Location: path.Value,
			Hint:     "Run 'ezexport config vet' for details.",
			Cause:    oerrors.ErrValidation,
		}
		return nil
	}

	validator, err := config.NewValidator()
	if err != nil {
		return fmt.Errorf("creating validator: %w", err)
	}
	if err := validator.Validate(prefs); err != nil {
		cfg.loadErr = &oerrors.DetailError{
			Type:     "validation failed",
			Message:  "invalid preferences",
			Location: path.Value,
			Hint:     "Run 'ezexport config vet' for details.",
			Cause:    fmt.Errorf("%w: %w", oerrors.ErrValidation, err),
		}
		return nil
	}

	cfg.Preferences = prefs
	return nil
}
