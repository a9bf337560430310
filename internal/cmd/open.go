package cmd

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ezexport/cli/internal/export"
	"github.com/ezexport/cli/internal/output"
)

// startFileBrowser launches a command without waiting for it.
var startFileBrowser = func(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Start()
}

// fileBrowser returns the command opening dir in the platform file browser.
func fileBrowser(goos, dir string) (string, []string) {
	switch goos {
	case "windows":
		return "explorer", []string{dir}
	case "darwin":
		return "open", []string{dir}
	default:
		return "xdg-open", []string{dir}
	}
}

// NewOpenCmd creates the open command.
func NewOpenCmd(cfg *GlobalConfig) *cobra.Command {
	var outputRoot string

	c := &cobra.Command{
		Use:   "open <scene>",
		Short: "Open the output folder in the file browser",
		Long: `Open the directory interchange files are written to.

The folder is --output-root when given, else the sourcePath preference,
else the scene document's directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			prefs, err := cfg.RequirePreferences()
			if err != nil {
				return NewExitError(err, ExitValidationError)
			}
			root := resolveOutputRoot(outputRoot, prefs, args[0])
			if err := export.CheckOutputRoot(root); err != nil {
				return err
			}

			name, argv := fileBrowser(runtime.GOOS, root)
			output.Debug("opening output folder", "command", name, "dir", root)
			if err := startFileBrowser(c.Context(), name, argv...); err != nil {
				return fmt.Errorf("opening %s: %w", root, err)
			}
			return nil
		},
	}

	c.Flags().StringVar(&outputRoot, "output-root", "", "Directory to open")
	return c
}
