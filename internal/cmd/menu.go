package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ezexport/cli/internal/output"
	"github.com/ezexport/cli/internal/registry"
)

// NewMenuCmd creates the menu command.
func NewMenuCmd(cfg *GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "menu <scene>",
		Short: "Show the export menu for a scene",
		Long: `Show the export menu with the number of collections, armatures and
selected nodes that would be exported. The scene is not modified.`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runMenu(c.OutOrStdout(), args[0], cfg)
		},
	}
}

func runMenu(w io.Writer, scenePath string, cfg *GlobalConfig) error {
	prefs, err := cfg.RequirePreferences()
	if err != nil {
		return NewExitError(err, ExitValidationError)
	}
	s, err := loadScene(scenePath)
	if err != nil {
		return err
	}

	var reg registry.Registry
	if err := reg.Register(menuItems(prefs)...); err != nil {
		return NewExitError(err, ExitValidationError)
	}
	defer func() {
		if err := reg.Unregister(); err != nil {
			output.Debug("unregister failed", "error", err)
		}
	}()

	entries := reg.Menu(s)
	if cfg.Output != output.FormatTable {
		return output.WriteDocument(w, cfg.Output, entries)
	}
	fmt.Fprint(w, renderMenu(entries))
	return nil
}

func renderMenu(entries []registry.MenuEntry) string {
	var sb strings.Builder
	for _, e := range entries {
		switch {
		case e.Separator:
			sb.WriteString(output.StyleDim.Render(strings.Repeat("─", 32)))
		case e.Operator == "":
			sb.WriteString("  " + output.StyleDim.Render(e.Label))
		case e.Enabled:
			sb.WriteString(output.StyleNoun.Render(e.Label) + "  " + output.StyleDim.Render("ezexport "+e.Operator))
		default:
			sb.WriteString(output.StyleDim.Render(e.Label))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
