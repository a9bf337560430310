// Package discovery finds the containers and armatures marked for export.
package discovery

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ezexport/cli/internal/config"
	"github.com/ezexport/cli/internal/naming"
	"github.com/ezexport/cli/internal/scene"
)

// Category classifies a candidate by its name.
type Category string

const (
	CategoryOther    Category = "other"
	CategoryLowPoly  Category = "lowPoly"
	CategoryHighPoly Category = "highPoly"
	// CategoryCollisionOnly is a filter mode, never assigned to a candidate.
	CategoryCollisionOnly Category = "collisionOnly"
)

// ParseCategory validates a category name.
func ParseCategory(s string) (Category, error) {
	switch c := Category(s); c {
	case CategoryOther, CategoryLowPoly, CategoryHighPoly, CategoryCollisionOnly:
		return c, nil
	}
	return "", fmt.Errorf("unknown category %q (valid: other, lowPoly, highPoly, collisionOnly)", s)
}

// Candidate is a container or armature eligible for export. Candidates are
// recomputed on every discovery pass.
type Candidate struct {
	// Name is the scene name including the export prefix.
	Name string
	// BaseName is Name without the export prefix and auto-UV marker.
	BaseName string
	// AutoUV is set when the auto-UV marker followed the export prefix.
	AutoUV   bool
	Category Category

	Container *scene.Container
	Root      *scene.Node
}

// Finder applies the export naming conventions to a scene.
type Finder struct {
	exportPrefix       string
	autoUVPrefix       string
	respectCurrentView bool
	lowPoly            *regexp.Regexp
	highPoly           *regexp.Regexp
}

// NewFinder builds a Finder from preferences. Invalid category patterns
// are an error.
func NewFinder(prefs *config.Preferences) (*Finder, error) {
	lp, err := regexp.Compile(prefs.LowpolyRegex)
	if err != nil {
		return nil, fmt.Errorf("compiling lowpoly regex: %w", err)
	}
	hp, err := regexp.Compile(prefs.HighpolyRegex)
	if err != nil {
		return nil, fmt.Errorf("compiling highpoly regex: %w", err)
	}
	return &Finder{
		exportPrefix:       prefs.ExportPrefix,
		autoUVPrefix:       prefs.AutoUVPrefix,
		respectCurrentView: prefs.RespectCurrentView,
		lowPoly:            lp,
		highPoly:           hp,
	}, nil
}

// FindCollections returns the exportable containers in declaration order.
// Linked containers are skipped, and with respect-current-view enabled so
// are containers with no member node in the active view. An empty result
// is not an error.
func (f *Finder) FindCollections(s *scene.Scene) []Candidate {
	var out []Candidate
	for _, c := range s.Containers() {
		if !strings.HasPrefix(c.Name, f.exportPrefix) || c.Linked {
			continue
		}
		if f.respectCurrentView && !anyInView(c.AllNodes(), s.ActiveView) {
			continue
		}
		out = append(out, f.candidate(c.Name, c, nil))
	}
	return out
}

// FindArmatures returns the exportable armature roots in declaration order.
func (f *Finder) FindArmatures(s *scene.Scene) []Candidate {
	var out []Candidate
	for _, n := range s.Nodes() {
		if n.Kind != scene.KindArmature || !strings.HasPrefix(n.Name, f.exportPrefix) {
			continue
		}
		if isLinked(n) {
			continue
		}
		if f.respectCurrentView && !n.InView(s.ActiveView) {
			continue
		}
		out = append(out, f.candidate(n.Name, nil, n))
	}
	return out
}

// Categorize classifies a base name by the low and high poly patterns.
func (f *Finder) Categorize(baseName string) Category {
	switch {
	case f.lowPoly.MatchString(baseName):
		return CategoryLowPoly
	case f.highPoly.MatchString(baseName):
		return CategoryHighPoly
	}
	return CategoryOther
}

func (f *Finder) candidate(name string, c *scene.Container, root *scene.Node) Candidate {
	base, marked := naming.BaseName(name, f.exportPrefix, f.autoUVPrefix)
	return Candidate{
		Name:      name,
		BaseName:  base,
		AutoUV:    marked,
		Category:  f.Categorize(base),
		Container: c,
		Root:      root,
	}
}

func anyInView(nodes []*scene.Node, view string) bool {
	for _, n := range nodes {
		if n.InView(view) {
			return true
		}
	}
	return false
}

func isLinked(n *scene.Node) bool {
	for _, c := range n.Containers() {
		if c.Linked {
			return true
		}
	}
	return false
}
