package cmd

import (
	"errors"
	"fmt"

	"github.com/ezexport/cli/internal/config"
	"github.com/ezexport/cli/internal/discovery"
	"github.com/ezexport/cli/internal/registry"
	"github.com/ezexport/cli/internal/scene"
)

// finderOperator is shared by the operators that count candidates. The
// finder is compiled on Register and dropped on Unregister.
type finderOperator struct {
	prefs  *config.Preferences
	finder *discovery.Finder
}

func (f *finderOperator) Register() error {
	finder, err := discovery.NewFinder(f.prefs)
	if err != nil {
		return err
	}
	f.finder = finder
	return nil
}

func (f *finderOperator) Unregister() error {
	if f.finder == nil {
		return errors.New("not registered")
	}
	f.finder = nil
	return nil
}

type collectionsOperator struct{ finderOperator }

func (*collectionsOperator) Name() string { return "export collections" }

func (o *collectionsOperator) MenuEntries(s *scene.Scene) []registry.MenuEntry {
	n := len(o.finder.FindCollections(s))
	info := "No Export Collections in scene!"
	if n > 0 {
		info = fmt.Sprintf("%d Export Collections in scene", n)
	}
	return []registry.MenuEntry{
		{Operator: "export collections", Label: "Export Collections", Enabled: n > 0},
		{Label: info},
	}
}

type armaturesOperator struct{ finderOperator }

func (*armaturesOperator) Name() string { return "export armatures" }

func (o *armaturesOperator) MenuEntries(s *scene.Scene) []registry.MenuEntry {
	n := len(o.finder.FindArmatures(s))
	info := "No Export Armatures in scene!"
	if n > 0 {
		info = fmt.Sprintf("%d Export Armatures in scene", n)
	}
	return []registry.MenuEntry{
		{Operator: "export armatures", Label: "Export Animations", Enabled: n > 0},
		{Label: info},
	}
}

type selectedOperator struct{}

func (selectedOperator) Name() string { return "export selected" }

func (selectedOperator) MenuEntries(s *scene.Scene) []registry.MenuEntry {
	n := len(s.Selected())
	if n == 0 {
		return []registry.MenuEntry{{Operator: "export selected", Label: "Nothing selected!"}}
	}
	return []registry.MenuEntry{{
		Operator: "export selected",
		Label:    fmt.Sprintf("Export selected (%d)", n),
		Enabled:  true,
	}}
}

type openOperator struct{}

func (openOperator) Name() string { return "open" }

func (openOperator) MenuEntries(*scene.Scene) []registry.MenuEntry {
	return []registry.MenuEntry{{Operator: "open", Label: "Open output folder", Enabled: true}}
}

// menuItems returns the menu layout: the output folder, then the export
// operators.
func menuItems(prefs *config.Preferences) []registry.Item {
	return []registry.Item{
		openOperator{},
		registry.Separator,
		&registry.Group{GroupName: "export", Items: []registry.Item{
			&armaturesOperator{finderOperator{prefs: prefs}},
			&collectionsOperator{finderOperator{prefs: prefs}},
			selectedOperator{},
		}},
	}
}
