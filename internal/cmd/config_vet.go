package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ezexport/cli/internal/config"
	oerrors "github.com/ezexport/cli/internal/errors"
)

// NewConfigVetCmd creates the config vet command.
func NewConfigVetCmd(cfg *GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "vet",
		Short: "Validate preferences",
		Long: `Validate the ezexport preferences file.

Checks performed:
  1. Preferences file exists at the resolved path
  2. The file is valid YAML
  3. Values satisfy the preferences schema
  4. Category patterns compile as regular expressions

The path is resolved using precedence:
  --config flag > EZX_CONFIG env > ~/.ezexport/config.yaml

Examples:
  # Validate default preferences
  ezexport config vet

  # Validate a custom file
  ezexport config vet --config ./ezexport.yaml`,
		RunE: func(c *cobra.Command, _ []string) error {
			return runConfigVet(c, cfg)
		},
	}
}

func runConfigVet(c *cobra.Command, cfg *GlobalConfig) error {
	path := cfg.ConfigPath.Value
	if path == "" {
		resolved, err := config.ResolveConfigPath(config.ResolveConfigPathOptions{})
		if err != nil {
			return oerrors.Wrap(oerrors.ErrNotFound, "could not resolve preferences path")
		}
		path = resolved.Value
	}

	expanded, err := config.ExpandPath(path)
	if err != nil {
		return fmt.Errorf("expanding preferences path: %w", err)
	}

	if _, err := os.Stat(expanded); os.IsNotExist(err) {
		return &oerrors.DetailError{
			Type:     "not found",
			Message:  "preferences file not found",
			Location: expanded,
			Hint:     "Run 'ezexport config init' to create default preferences",
			Cause:    oerrors.ErrNotFound,
		}
	}

	validator, err := config.NewValidator()
	if err != nil {
		return fmt.Errorf("creating validator: %w", err)
	}

	if err := validator.ValidateFile(expanded); err != nil {
		var validationErrs config.ValidationErrors
		if errors.As(err, &validationErrs) {
			fmt.Fprintln(c.ErrOrStderr(), "Error: preferences validation failed")
			fmt.Fprintf(c.ErrOrStderr(), "  File: %s\n\n", expanded)
			for _, e := range validationErrs {
				fmt.Fprintf(c.ErrOrStderr(), "  %s: %s\n", e.Field, e.Message)
			}
			return &ExitError{Err: err, Code: ExitValidationError, Printed: true}
		}
		return NewExitError(fmt.Errorf("validating preferences: %w", err), ExitValidationError)
	}

	fmt.Fprintf(c.OutOrStdout(), "Preferences are valid: %s\n", expanded)
	return nil
}
