package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ezexport/cli/internal/output"
	"github.com/ezexport/cli/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd(cfg *GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show ezexport version information.

Displays:
  - ezexport version, commit, and build date
  - CUE SDK version used for preference validation`,
		RunE: func(c *cobra.Command, _ []string) error {
			info := version.Get()
			if cfg != nil && cfg.Output != "" && cfg.Output != output.FormatTable {
				return output.WriteDocument(c.OutOrStdout(), cfg.Output, info)
			}
			fmt.Fprintln(c.OutOrStdout(), info.String())
			return nil
		},
	}
}
