// Package export runs export batches: discovery, then per candidate merge,
// unit fix-up, collision pairing, write and cleanup, isolating failures to
// the candidate that caused them.
package export

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/ezexport/cli/internal/collision"
	"github.com/ezexport/cli/internal/config"
	"github.com/ezexport/cli/internal/discovery"
	oerrors "github.com/ezexport/cli/internal/errors"
	"github.com/ezexport/cli/internal/merge"
	"github.com/ezexport/cli/internal/naming"
	"github.com/ezexport/cli/internal/output"
	"github.com/ezexport/cli/internal/scene"
	"github.com/ezexport/cli/internal/selection"
	"github.com/ezexport/cli/internal/units"
	"github.com/ezexport/cli/internal/writer"
)

// Config wires an Orchestrator to its collaborators.
type Config struct {
	Scene       *scene.Scene
	Preferences *config.Preferences
	Writer      writer.Writer
	// OutputRoot is the directory files are written to.
	OutputRoot string
	// OnState observes state transitions. Optional.
	OnState StateFunc
}

// Orchestrator runs export batches against one scene. It is not safe for
// concurrent use and may be run again once a batch returns.
type Orchestrator struct {
	scene   *scene.Scene
	prefs   *config.Preferences
	writer  writer.Writer
	root    string
	finder  *discovery.Finder
	pairer  *collision.Pairer
	onState StateFunc
}

// New returns an Orchestrator. It fails when the preferences carry invalid
// category patterns.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Scene == nil {
		return nil, errors.New("export: scene is required")
	}
	if cfg.Preferences == nil {
		cfg.Preferences = config.DefaultPreferences()
	}
	if cfg.Writer == nil {
		w, err := writer.For(cfg.Preferences.FileFormat)
		if err != nil {
			return nil, err
		}
		cfg.Writer = w
	}

	finder, err := discovery.NewFinder(cfg.Preferences)
	if err != nil {
		return nil, err
	}

	return &Orchestrator{
		scene:   cfg.Scene,
		prefs:   cfg.Preferences,
		writer:  cfg.Writer,
		root:    cfg.OutputRoot,
		finder:  finder,
		pairer:  collision.New(cfg.Scene, cfg.Preferences),
		onState: cfg.OnState,
	}, nil
}

// Finder returns the discovery rules the orchestrator applies.
func (o *Orchestrator) Finder() *discovery.Finder { return o.finder }

// ExportCollections exports every exportable container.
func (o *Orchestrator) ExportCollections(ctx context.Context, opts Options) (*Report, error) {
	return o.run(ctx, opts, runSpec{
		kind:     "collections",
		empty:    "no exportable collections found",
		discover: o.finder.FindCollections,
		filter:   true,
		export:   o.exportCollection,
	})
}

// ExportArmatures exports every exportable armature with its children and
// baked animation.
func (o *Orchestrator) ExportArmatures(ctx context.Context, opts Options) (*Report, error) {
	return o.run(ctx, opts, runSpec{
		kind:     "armatures",
		empty:    "no exportable armatures found",
		discover: o.finder.FindArmatures,
		filter:   true,
		export:   o.exportArmature,
	})
}

// ExportSelected merges the current selection into one node and exports it.
func (o *Orchestrator) ExportSelected(ctx context.Context, opts Options) (*Report, error) {
	name := opts.FileName
	if name == "" {
		name = DefaultQuickExportName
	}
	return o.run(ctx, opts, runSpec{
		kind:  "selected",
		empty: "nothing selected",
		discover: func(s *scene.Scene) []discovery.Candidate {
			if len(s.Selected()) == 0 {
				return nil
			}
			return []discovery.Candidate{{Name: name, BaseName: name, Category: discovery.CategoryOther}}
		},
		export: o.exportSelection,
	})
}

type runSpec struct {
	kind     string
	empty    string
	discover func(*scene.Scene) []discovery.Candidate
	// filter applies the category filter to candidates.
	filter bool
	export func(b *batch, it *item) error
}

// run drives one batch through the state machine. Configuration errors
// abort before the scene is touched; item failures are recorded in the
// report and the batch continues. Cancellation is only honoured before a
// batch starts.
func (o *Orchestrator) run(ctx context.Context, opts Options, spec runSpec) (*Report, error) {
	o.setState(StateIdle, "")
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := CheckOutputRoot(o.root); err != nil {
		return nil, err
	}

	report := newReport(spec.kind)

	o.setState(StateDiscovering, "")
	candidates := spec.discover(o.scene)
	if len(candidates) == 0 {
		report.NothingToExport = true
		report.Message = spec.empty
		output.Info(spec.empty)
		o.setState(StateDone, "")
		return report, nil
	}
	output.Debug("discovered candidates", "kind", spec.kind, "count", len(candidates))

	tx := selection.Begin(o.scene)
	defer tx.Restore()

	b := &batch{o: o, opts: opts}
	for _, c := range candidates {
		if spec.filter && !opts.Allows(c.Category) {
			report.skipped(c.Name, fmt.Sprintf("category %s not selected", c.Category))
			continue
		}

		outputs, err := o.runItem(b, c, spec.export)
		if s, ok := isSkip(err); ok {
			output.ItemLogger(c.Name).Info("skipped", "reason", s.reason)
			report.skipped(c.Name, s.reason)
			continue
		}
		if err != nil {
			output.ItemLogger(c.Name).Error("export failed", "err", err)
			report.failed(c.Name, outputs, err)
			continue
		}
		report.exported(c.Name, outputs)
		output.Info(output.FormatItemLine(c.Name, output.StatusExported))
	}

	b.cleanUp()
	o.setState(StateDone, "")
	return report, nil
}

// runItem runs one candidate inside its own selection transaction. Errors
// and panics stop at this boundary.
func (o *Orchestrator) runItem(b *batch, c discovery.Candidate, export func(*batch, *item) error) (outputs []string, err error) {
	it := &item{o: o, candidate: c, log: output.ItemLogger(c.Name), stage: StateMerging}
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
		if err != nil {
			if _, ok := isSkip(err); !ok {
				err = &ItemError{Candidate: c.Name, Stage: it.stage, Err: err}
			}
		}
		outputs = it.outputs
	}()

	err = selection.Do(o.scene, func() error {
		return export(b, it)
	})
	return outputs, err
}

func (o *Orchestrator) setState(s State, item string) {
	if o.onState != nil {
		o.onState(s, item)
	}
}

// exportName resolves a name template for a candidate base name.
func (o *Orchestrator) exportName(template, token, base string) string {
	return naming.Resolve(template, map[string]string{
		naming.TokenFile: o.scene.Name,
		token:            base,
	})
}

// fixUp applies the export scale to nodes and, when bake is set, bakes
// their rotation and scale. The returned function reverts the scale.
func (o *Orchestrator) fixUp(opts Options, nodes []*scene.Node, bake bool) func() {
	if !opts.FixScaleOnExport || len(nodes) == 0 {
		return func() {}
	}
	f := units.Factor(o.scene.Units)
	units.ApplyExportScale(nodes, f)
	if bake {
		units.BakeTransforms(nodes)
	}
	return func() { units.RevertExportScale(nodes, f) }
}

// write selects nodes, making the first active, and writes them to
// <root>/<name><ext>.
func (o *Orchestrator) write(it *item, name string, nodes []*scene.Node, flags writer.Flags) error {
	s := o.scene
	s.DeselectAll()
	for _, n := range nodes {
		if err := s.Select(n); err != nil {
			return err
		}
	}
	if len(nodes) > 0 {
		if err := s.SetActive(nodes[0]); err != nil {
			return err
		}
	}

	path := filepath.Join(o.root, name+o.prefs.FileFormat.Extension())
	if err := o.writer.Write(path, s.Selected(), flags); err != nil {
		return err
	}
	it.outputs = append(it.outputs, path)
	it.log.Info("wrote", "path", output.StyleNoun.Render(path), "nodes", len(nodes))
	return nil
}

// CheckOutputRoot verifies dir exists and is writable.
func CheckOutputRoot(dir string) error {
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return oerrors.NewNotFoundError("output root does not exist", dir,
			"Create the directory or set sourcePath in the preferences.")
	}
	if err != nil {
		return oerrors.NewPermissionError(err.Error(), dir, "")
	}
	if !info.IsDir() {
		return oerrors.NewValidationError("output root is not a directory", dir, "sourcePath", "")
	}

	f, err := os.CreateTemp(dir, ".ezexport-probe-*")
	if err != nil {
		return oerrors.NewPermissionError("output root is not writable", dir,
			"Check directory permissions or choose another sourcePath.")
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return nil
}

// batch holds state shared by the items of one run.
type batch struct {
	o       *Orchestrator
	opts    Options
	staging *scene.Container
}

// stagingContainer returns the staging container, preparing it on first
// use: created if missing, included and emptied of leftovers.
func (b *batch) stagingContainer() *scene.Container {
	if b.staging != nil {
		return b.staging
	}
	c, created := b.o.scene.EnsureContainer(b.o.prefs.StagingCollection)
	c.Exclude = false
	if !created {
		b.o.scene.ClearContainer(c)
	}
	b.staging = c
	return c
}

func (b *batch) merger() *merge.Merger {
	return merge.New(b.o.scene, b.stagingContainer(), b.o.prefs)
}

// cleanUp deletes the staging container with everything left in it.
func (b *batch) cleanUp() {
	if b.staging == nil || !b.opts.CleanUpExport {
		return
	}
	output.Debug("removing staging container", "name", b.staging.Name)
	b.o.scene.RemoveContainer(b.staging)
}

// item tracks one candidate through the per-item states.
type item struct {
	o         *Orchestrator
	candidate discovery.Candidate
	log       *log.Logger
	stage     State
	outputs   []string
}

func (it *item) enter(s State) {
	it.stage = s
	it.o.setState(s, it.candidate.Name)
	it.log.Debug("state", "state", string(s))
}
