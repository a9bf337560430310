package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ezexport/cli/internal/config"
	oerrors "github.com/ezexport/cli/internal/errors"
	"github.com/ezexport/cli/internal/output"
)

// NewConfigInitCmd creates the config init command.
func NewConfigInitCmd(_ *GlobalConfig) *cobra.Command {
	var force bool

	c := &cobra.Command{
		Use:   "init",
		Short: "Initialize default preferences",
		Long: `Initialize the ezexport preferences.

Creates ~/.ezexport/config.yaml holding every preference with its default:
  - Export, priority, exclude and collision prefixes
  - Low and high poly patterns
  - Output name templates and the output root

Examples:
  # Initialize preferences
  ezexport config init

  # Overwrite existing preferences
  ezexport config init --force`,
		RunE: func(c *cobra.Command, _ []string) error {
			return runConfigInit(c.OutOrStdout(), force)
		},
	}

	c.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing preferences")

	return c
}

func runConfigInit(w io.Writer, force bool) error {
	paths, err := config.DefaultPaths()
	if err != nil {
		return oerrors.Wrap(oerrors.ErrNotFound, "could not determine home directory")
	}

	if _, err := os.Stat(paths.ConfigFile); err == nil && !force {
		return &oerrors.DetailError{
			Type:     "validation failed",
			Message:  "preferences already exist",
			Location: paths.ConfigFile,
			Hint:     "Use --force to overwrite existing preferences.",
			Cause:    oerrors.ErrValidation,
		}
	}

	if err := os.MkdirAll(paths.HomeDir, 0o700); err != nil {
		return oerrors.Wrap(oerrors.ErrPermission, "could not create ~/.ezexport directory")
	}

	if err := os.WriteFile(paths.ConfigFile, []byte(config.DefaultConfigTemplate), 0o600); err != nil {
		return oerrors.Wrap(oerrors.ErrPermission, "could not write config.yaml")
	}

	fmt.Fprintln(w, "Preferences initialized at "+paths.ConfigFile)
	fmt.Fprintln(w, output.StyleDim.Render("Validate with: ezexport config vet"))

	return nil
}
