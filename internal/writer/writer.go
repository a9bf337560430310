// Package writer serialises an export selection to an interchange file.
package writer

import (
	"fmt"

	"github.com/ezexport/cli/internal/config"
	"github.com/ezexport/cli/internal/scene"
)

// Smoothing selects how normals are grouped on write.
type Smoothing string

const (
	SmoothingOff  Smoothing = "off"
	SmoothingFace Smoothing = "face"
)

// Flags tune a single write.
type Flags struct {
	// ApplyUnitScale converts scene units on write. It stays off when the
	// caller already applied the export scale to the nodes.
	ApplyUnitScale bool
	// BakeSpaceTransform writes geometry in world space.
	BakeSpaceTransform bool
	Smoothing          Smoothing
	// BakeAnimation writes every armature action.
	BakeAnimation bool
}

// DefaultFlags are the flags used for static geometry.
func DefaultFlags() Flags {
	return Flags{BakeSpaceTransform: true, Smoothing: SmoothingFace}
}

// Writer writes nodes to one file at path. Implementations either write the
// complete file or report an error.
type Writer interface {
	Write(path string, nodes []*scene.Node, flags Flags) error
}

// For returns the writer for a file format.
func For(format config.FileFormat) (Writer, error) {
	switch format {
	case config.FormatOBJ, "":
		return NewOBJ(), nil
	}
	return nil, fmt.Errorf("unsupported file format %q", format)
}
