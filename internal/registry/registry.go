// Package registry registers operators, menu contributors and groups of
// them in a fixed order and tears them down in reverse.
package registry

import (
	"errors"
	"fmt"

	"github.com/ezexport/cli/internal/output"
	"github.com/ezexport/cli/internal/scene"
)

// Item is anything that can be handed to a Registry.
type Item interface {
	Name() string
}

// Registrable is an item with setup and teardown.
type Registrable interface {
	Item
	Register() error
	Unregister() error
}

// MenuContributor is an item that adds entries to the export menu. Menu
// entries are computed from the scene on every draw and never mutate it.
type MenuContributor interface {
	Item
	MenuEntries(s *scene.Scene) []MenuEntry
}

// SubmoduleGroup is an item bundling further items, registered in order
// after the group itself.
type SubmoduleGroup interface {
	Item
	Submodules() []Item
}

// MenuEntry is one line of the menu.
type MenuEntry struct {
	// Operator is the command the entry runs. Empty for info lines.
	Operator string `json:"operator,omitempty"`
	Label    string `json:"label"`
	// Enabled is false when the operator has nothing to act on.
	Enabled   bool `json:"enabled"`
	Separator bool `json:"separator,omitempty"`
}

// Separator is a menu item drawing a separator line.
var Separator MenuContributor = separator{}

type separator struct{}

func (separator) Name() string { return "separator" }

func (separator) MenuEntries(*scene.Scene) []MenuEntry {
	return []MenuEntry{{Separator: true}}
}

// Registry holds registered items. The zero value is ready to use.
type Registry struct {
	registered []Item
	menu       []MenuContributor
}

// Register registers items depth first. A group is registered before its
// submodules. When an item fails, everything registered by this call is
// unregistered again and the error is returned.
func (r *Registry) Register(items ...Item) error {
	mark := len(r.registered)
	menuMark := len(r.menu)
	if err := r.register(items); err != nil {
		undo := r.registered[mark:]
		r.registered = r.registered[:mark]
		r.menu = r.menu[:menuMark]
		return errors.Join(err, unregisterAll(undo))
	}
	return nil
}

func (r *Registry) register(items []Item) error {
	for _, it := range items {
		if reg, ok := it.(Registrable); ok {
			if err := reg.Register(); err != nil {
				return fmt.Errorf("registering %s: %w", it.Name(), err)
			}
		}
		r.registered = append(r.registered, it)

		if mc, ok := it.(MenuContributor); ok {
			r.menu = append(r.menu, mc)
		}
		if g, ok := it.(SubmoduleGroup); ok {
			if err := r.register(g.Submodules()); err != nil {
				return err
			}
		}
		output.Debug("registered", "item", it.Name(), "kind", kindOf(it))
	}
	return nil
}

// Unregister tears every item down in reverse registration order. All
// items are visited even when some fail; the failures are joined.
func (r *Registry) Unregister() error {
	err := unregisterAll(r.registered)
	r.registered = nil
	r.menu = nil
	return err
}

func unregisterAll(items []Item) error {
	var errs []error
	for i := len(items) - 1; i >= 0; i-- {
		reg, ok := items[i].(Registrable)
		if !ok {
			continue
		}
		if err := reg.Unregister(); err != nil {
			errs = append(errs, fmt.Errorf("unregistering %s: %w", reg.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// Registered returns the names of registered items in order.
func (r *Registry) Registered() []string {
	names := make([]string, len(r.registered))
	for i, it := range r.registered {
		names[i] = it.Name()
	}
	return names
}

// Menu collects the entries of every menu contributor in registration
// order.
func (r *Registry) Menu(s *scene.Scene) []MenuEntry {
	var entries []MenuEntry
	for _, mc := range r.menu {
		entries = append(entries, mc.MenuEntries(s)...)
	}
	return entries
}

func kindOf(it Item) string {
	switch it.(type) {
	case SubmoduleGroup:
		return "group"
	case MenuContributor:
		return "menu"
	case Registrable:
		return "registrable"
	default:
		return "item"
	}
}

// Group is a named SubmoduleGroup.
type Group struct {
	GroupName string
	Items     []Item
}

// Name implements Item.
func (g *Group) Name() string { return g.GroupName }

// Submodules implements SubmoduleGroup.
func (g *Group) Submodules() []Item { return g.Items }
