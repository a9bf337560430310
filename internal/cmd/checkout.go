package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ezexport/cli/internal/output"
	"github.com/ezexport/cli/internal/vcs"
)

// newVersionControl is replaced in tests.
var newVersionControl = func(path string) vcs.VersionControl {
	return vcs.NewPerforce(path, nil)
}

// NewCheckoutCmd creates the checkout command.
func NewCheckoutCmd(_ *GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "checkout <file>",
		Short: "Open a scene document for edit in Perforce",
		Long: `Open a scene document for edit with 'p4 edit' when it is read-only.

Files that are already writable, or not saved yet, are left alone.`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			v := newVersionControl(args[0])
			needed, err := v.IsCheckoutNeeded()
			if err != nil {
				return err
			}
			if !needed {
				fmt.Fprintln(c.OutOrStdout(), "No checkout needed: "+args[0])
				return nil
			}
			if err := ensureWritable(ctx, v); err != nil {
				return err
			}
			fmt.Fprintln(c.OutOrStdout(), output.FormatCheckmark("Checked out "+args[0]))
			return nil
		},
	}
}
