// Package collision pairs export candidates with their collision proxy
// containers and renames proxy pieces to the engine's collision naming.
package collision

import (
	"fmt"
	"strings"

	"github.com/ezexport/cli/internal/config"
	"github.com/ezexport/cli/internal/scene"
	"github.com/ezexport/cli/internal/selection"
)

// placeholder is the temporary name suffix used by the first rename pass.
const placeholder = "rename"

// Pairer finds and prepares collision proxies.
type Pairer struct {
	scene  *scene.Scene
	prefix string
}

// New returns a Pairer using the configured collision prefix.
func New(s *scene.Scene, prefs *config.Preferences) *Pairer {
	return &Pairer{scene: s, prefix: prefs.CollisionPrefix}
}

// FindProxy returns the container whose name is the collision prefix
// followed by exactly baseName, or nil.
func (p *Pairer) FindProxy(baseName string) *scene.Container {
	for _, c := range p.scene.Containers() {
		if !strings.HasPrefix(c.Name, p.prefix) {
			continue
		}
		if strings.TrimPrefix(c.Name, p.prefix) == baseName {
			return c
		}
	}
	return nil
}

// Proxy is a collision container revealed for export.
type Proxy struct {
	Container *scene.Container
	// Pieces are the renamed mesh members, in declaration order.
	Pieces []*scene.Node

	restore func()
}

// Selectable returns the pieces that can join the export selection.
func (px *Proxy) Selectable(s *scene.Scene) []*scene.Node {
	var out []*scene.Node
	for _, n := range px.Pieces {
		if s.IsVisible(n) {
			out = append(out, n)
		}
	}
	return out
}

// Close puts back the proxy container's visibility. It must be called
// after the export file is written.
func (px *Proxy) Close() {
	if px.restore != nil {
		px.restore()
	}
}

// Open reveals proxy and renames its mesh members for exportName. The
// returned Proxy stays revealed until Close.
func (p *Pairer) Open(proxy *scene.Container, exportName string) *Proxy {
	restore := selection.Reveal(proxy)

	var pieces []*scene.Node
	for _, n := range proxy.AllNodes() {
		if n.Kind == scene.KindMesh {
			pieces = append(pieces, n)
		}
	}
	p.RenameMembers(pieces, exportName)

	return &Proxy{Container: proxy, Pieces: pieces, restore: restore}
}

// RenameMembers renames nodes to <prefix><exportName>_NN, numbered from 01
// in order. Every node first gets a placeholder name so earlier names
// cannot collide with the final ones.
func (p *Pairer) RenameMembers(nodes []*scene.Node, exportName string) {
	for _, n := range nodes {
		p.scene.Rename(n, p.prefix+placeholder)
	}
	for i, n := range nodes {
		p.scene.Rename(n, PieceName(p.prefix, exportName, i+1))
	}
}

// PieceName returns the engine collision name of the i-th piece.
func PieceName(prefix, exportName string, i int) string {
	return fmt.Sprintf("%s%s_%02d", prefix, exportName, i)
}
