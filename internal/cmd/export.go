package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ezexport/cli/internal/config"
	"github.com/ezexport/cli/internal/discovery"
	oerrors "github.com/ezexport/cli/internal/errors"
	"github.com/ezexport/cli/internal/export"
	"github.com/ezexport/cli/internal/output"
	"github.com/ezexport/cli/internal/scene"
	"github.com/ezexport/cli/internal/vcs"
)

// exportFlags holds the flags shared by the export subcommands.
type exportFlags struct {
	yes            bool
	fixScale       bool
	autoUV         bool
	cleanUp        bool
	bundleChildren bool
	categories     []string
	fileName       string
	outputRoot     string
	verify         bool
	save           bool
}

// AddTo registers the export flags on the given cobra command.
func (f *exportFlags) AddTo(c *cobra.Command) {
	defaults := export.DefaultOptions()
	c.Flags().BoolVarP(&f.yes, "yes", "y", false,
		"Skip the confirmation prompt")
	c.Flags().BoolVar(&f.fixScale, "fix-scale", defaults.FixScaleOnExport,
		"Convert scene units to engine units on write")
	c.Flags().BoolVar(&f.autoUV, "auto-uv", defaults.AutoUVUnwrap,
		"Unwrap every merged node")
	c.Flags().BoolVar(&f.cleanUp, "clean-up", defaults.CleanUpExport,
		"Delete the staging container after the batch")
	c.Flags().StringSliceVar(&f.categories, "category", nil,
		"Only export these categories: other, lowPoly, highPoly, collisionOnly")
	c.Flags().StringVar(&f.outputRoot, "output-root", "",
		"Directory to write files to (default: sourcePath, else the scene's directory)")
	c.Flags().BoolVar(&f.verify, "verify", false,
		"Check that the scene selection and visibility were restored")
	c.Flags().BoolVar(&f.save, "save", false,
		"Write the scene document back, checking it out of Perforce when needed")
}

// options converts the flags to export options.
func (f *exportFlags) options() (export.Options, error) {
	opts := export.Options{
		FixScaleOnExport: f.fixScale,
		AutoUVUnwrap:     f.autoUV,
		CleanUpExport:    f.cleanUp,
		BundleChildren:   f.bundleChildren,
		FileName:         f.fileName,
	}
	for _, s := range f.categories {
		c, err := discovery.ParseCategory(s)
		if err != nil {
			return opts, oerrors.NewValidationError(err.Error(), "", "category", "")
		}
		opts.Categories = append(opts.Categories, c)
	}
	return opts, nil
}

// exportKind describes one export subcommand.
type exportKind struct {
	noun string
	run  func(o *export.Orchestrator, ctx context.Context, opts export.Options) (*export.Report, error)
	// count returns how many items would be exported, for the prompt.
	count func(o *export.Orchestrator, s *scene.Scene) int
}

// NewExportCmd creates the export command group.
func NewExportCmd(cfg *GlobalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:   "export",
		Short: "Export scene content to interchange files",
		Long: `Export the marked content of a scene document.

Containers and armatures whose name starts with the export prefix are
exported. Each one is merged into a single node, scaled to engine units,
paired with its collision proxy and written to the output root.`,
	}

	c.AddCommand(newExportCollectionsCmd(cfg))
	c.AddCommand(newExportArmaturesCmd(cfg))
	c.AddCommand(newExportSelectedCmd(cfg))

	return c
}

func newExportCollectionsCmd(cfg *GlobalConfig) *cobra.Command {
	var ef exportFlags

	c := &cobra.Command{
		Use:   "collections <scene>",
		Short: "Export every marked container",
		Long: `Export every container whose name starts with the export prefix.

Each container and its child containers are merged into one node named by
the collection template. A container named <collisionPrefix><base name>
provides collision pieces written into the same file.

Examples:
  # Export all collections next to the scene document
  ezexport export collections level01.yaml

  # Only low poly collections, without prompting
  ezexport export collections level01.yaml --category lowPoly --yes

  # Also write one file per child container plus a combined bundle
  ezexport export collections level01.yaml --bundle-children`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runExport(c, args[0], cfg, &ef, exportKind{
				noun: "collections",
				run:  (*export.Orchestrator).ExportCollections,
				count: func(o *export.Orchestrator, s *scene.Scene) int {
					return len(o.Finder().FindCollections(s))
				},
			})
		},
	}

	ef.AddTo(c)
	c.Flags().BoolVar(&ef.bundleChildren, "bundle-children", false,
		"Also export each child container and a combined bundle")
	return c
}

func newExportArmaturesCmd(cfg *GlobalConfig) *cobra.Command {
	var ef exportFlags

	c := &cobra.Command{
		Use:   "armatures <scene>",
		Short: "Export every marked armature with its animation",
		Long: `Export every armature whose name starts with the export prefix.

The armature is written with its visible children in rest pose, together
with every action. Children whose name starts with SOCKET are left out.

Examples:
  ezexport export armatures level01.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runExport(c, args[0], cfg, &ef, exportKind{
				noun: "armatures",
				run:  (*export.Orchestrator).ExportArmatures,
				count: func(o *export.Orchestrator, s *scene.Scene) int {
					return len(o.Finder().FindArmatures(s))
				},
			})
		},
	}

	ef.AddTo(c)
	return c
}

func newExportSelectedCmd(cfg *GlobalConfig) *cobra.Command {
	var ef exportFlags

	c := &cobra.Command{
		Use:   "selected <scene>",
		Short: "Merge the current selection into one file",
		Long: `Merge the nodes selected in the scene document into one node and write
it as a single file.

Examples:
  ezexport export selected level01.yaml --file-name props`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runExport(c, args[0], cfg, &ef, exportKind{
				noun: "selected nodes",
				run:  (*export.Orchestrator).ExportSelected,
				count: func(_ *export.Orchestrator, s *scene.Scene) int {
					return len(s.Selected())
				},
			})
		},
	}

	ef.AddTo(c)
	c.Flags().StringVar(&ef.fileName, "file-name", export.DefaultQuickExportName,
		"File name without extension")
	return c
}

// runExport loads the scene, runs one batch and reports it.
func runExport(c *cobra.Command, scenePath string, cfg *GlobalConfig, ef *exportFlags, kind exportKind) error {
	ctx := c.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	prefs, err := cfg.RequirePreferences()
	if err != nil {
		return NewExitError(err, ExitValidationError)
	}
	opts, err := ef.options()
	if err != nil {
		return NewExitError(err, ExitValidationError)
	}

	s, err := loadScene(scenePath)
	if err != nil {
		return err
	}

	root := resolveOutputRoot(ef.outputRoot, prefs, scenePath)

	o, err := export.New(export.Config{
		Scene:       s,
		Preferences: prefs,
		OutputRoot:  root,
		OnState: func(state export.State, item string) {
			output.Debug("export state", "state", string(state), "item", item)
		},
	})
	if err != nil {
		return NewExitError(err, ExitValidationError)
	}

	if prefs.ShowExportDialog && !ef.yes {
		n := kind.count(o, s)
		if n > 0 {
			question := fmt.Sprintf("Export %d %s to %s?", n, kind.noun, root)
			ok, err := output.Confirm(c.InOrStdin(), c.ErrOrStderr(), question)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(c.OutOrStdout(), "Export cancelled")
				return nil
			}
		}
	}

	before := scene.Snapshot(s)

	var report *export.Report
	err = output.RunWithSpinner(ctx, func() error {
		var runErr error
		report, runErr = kind.run(o, ctx, opts)
		return runErr
	}, output.WithTitle(fmt.Sprintf("Exporting %s", kind.noun)))
	if err != nil {
		return err
	}

	if err := writeReport(c.OutOrStdout(), cfg.Output, root, report); err != nil {
		return err
	}

	if ef.verify {
		if err := verifyRestored(before, scene.Snapshot(s)); err != nil {
			return err
		}
	}

	if ef.save {
		if err := saveScene(ctx, scenePath, s); err != nil {
			return err
		}
	}

	if err := report.Err(); err != nil {
		output.Error("export finished with failures", "failed", report.Failed)
		return &ExitError{Err: err, Code: ExitExportFailed, Printed: true}
	}
	return nil
}

func loadScene(path string) (*scene.Scene, error) {
	s, err := scene.LoadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, oerrors.NewNotFoundError("scene document not found", path, "")
		}
		return nil, &oerrors.DetailError{
			Type:     "validation failed",
			Message:  err.Error(),
			Location: path,
			Cause:    oerrors.ErrValidation,
		}
	}
	return s, nil
}

func resolveOutputRoot(flag string, prefs *config.Preferences, scenePath string) string {
	sceneDir := filepath.Dir(scenePath)
	if abs, err := filepath.Abs(sceneDir); err == nil {
		sceneDir = abs
	}
	root := config.ResolveOutputRoot(config.ResolveOutputRootOptions{
		FlagValue:   flag,
		ConfigValue: prefs.SourcePath,
		SceneDir:    sceneDir,
	})
	config.LogResolvedValues([]config.ResolvedValue{root})
	return root.Value
}

// writeReport renders the report in the requested format.
func writeReport(w io.Writer, format output.Format, root string, report *export.Report) error {
	if format != output.FormatTable {
		return output.WriteDocument(w, format, report)
	}

	if report.NothingToExport {
		fmt.Fprintln(w, report.Message)
		return nil
	}

	rows := make([]output.ItemRow, 0, len(report.Items))
	for _, it := range report.Items {
		row := output.ItemRow{Candidate: it.Name, Status: string(it.Status), Message: it.Message}
		for _, p := range it.Outputs {
			if rel, err := filepath.Rel(root, p); err == nil {
				p = rel
			}
			if row.Output != "" {
				row.Output += "\n"
			}
			row.Output += p
		}
		rows = append(rows, row)
	}
	fmt.Fprintln(w, output.RenderItemTable(rows))

	if files := report.Outputs(); len(files) > 0 {
		fmt.Fprint(w, output.RenderFileTree(root, files))
	}
	fmt.Fprintln(w, output.RenderSummary(report.Succeeded, report.Failed, report.Skipped))
	return nil
}

// verifyRestored checks that the batch left selection, the active node
// and container inclusion as it found them.
func verifyRestored(before, after scene.State) error {
	diff, err := scene.DiffState(before.SelectionView(), after.SelectionView(), output.IsTTY())
	if err != nil {
		return fmt.Errorf("comparing scene state: %w", err)
	}
	if diff == "" {
		output.Info(output.FormatCheckmark("scene state restored"))
		return nil
	}
	output.Warn("scene state changed by export")
	output.Print(output.IndentDiff(diff, "  "))
	return errors.New("scene state was not restored")
}

// saveScene writes the scene document back, opening it for edit first
// when Perforce left it read-only.
func saveScene(ctx context.Context, path string, s *scene.Scene) error {
	if err := ensureWritable(ctx, newVersionControl(path)); err != nil {
		return err
	}
	if err := scene.SaveFile(path, s); err != nil {
		return err
	}
	output.Info("saved scene", "path", output.StyleNoun.Render(path))
	return nil
}

func ensureWritable(ctx context.Context, v vcs.VersionControl) error {
	needed, err := v.IsCheckoutNeeded()
	if err != nil {
		return err
	}
	if !needed {
		return nil
	}
	if err := v.Checkout(ctx); err != nil {
		return oerrors.NewPermissionError(err.Error(), "", "Open the file for edit or make it writable.")
	}
	return nil
}
