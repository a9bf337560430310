package writer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ezexport/cli/internal/scene"
	"github.com/ezexport/cli/internal/version"
)

// OBJ writes Wavefront OBJ files. Armatures, which OBJ cannot carry, are
// recorded as comments.
type OBJ struct{}

// NewOBJ returns an OBJ writer.
func NewOBJ() *OBJ { return &OBJ{} }

// Write writes nodes to path through a temporary file in the same
// directory, renamed into place on success.
func (o *OBJ) Write(path string, nodes []*scene.Node, flags Flags) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	bw := bufio.NewWriter(tmp)
	if err := o.Encode(bw, nodes, flags); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Encode writes the OBJ text for nodes to w.
func (o *OBJ) Encode(w io.Writer, nodes []*scene.Node, flags Flags) error {
	ew := &errWriter{w: w}
	ew.line("# ezexport %s", version.Get().Version)
	ew.line("# flags apply-unit-scale=%t bake-space-transform=%t smoothing=%s bake-animation=%t",
		flags.ApplyUnitScale, flags.BakeSpaceTransform, flags.Smoothing, flags.BakeAnimation)

	vBase, tBase := 1, 1
	for _, n := range nodes {
		switch {
		case n.Kind == scene.KindArmature:
			writeArmature(ew, n, flags)
		case n.Mesh != nil:
			nv, nt := writeMesh(ew, n, flags, vBase, tBase)
			vBase += nv
			tBase += nt
		default:
			ew.line("# %s %s", n.Kind, n.Name)
		}
	}
	return ew.err
}

func writeMesh(ew *errWriter, n *scene.Node, flags Flags, vBase, tBase int) (int, int) {
	m := n.Mesh
	t := n.Transform
	ew.line("o %s", n.Name)
	ew.line("# transform location %g %g %g rotation %g %g %g scale %g %g %g",
		t.Location[0], t.Location[1], t.Location[2],
		t.Rotation[0], t.Rotation[1], t.Rotation[2],
		t.Scale[0], t.Scale[1], t.Scale[2])

	world := mgl64.Ident4()
	if flags.BakeSpaceTransform {
		world = n.WorldMatrix()
	}
	for _, v := range m.Vertices {
		p := mgl64.TransformCoordinate(v, world)
		ew.line("v %f %f %f", p[0], p[1], p[2])
	}

	var uvs []mgl64.Vec2
	if len(m.UVLayers) > 0 {
		uvs = m.UVLayers[0].Coords
		for _, uv := range uvs {
			ew.line("vt %f %f", uv[0], uv[1])
		}
	}

	// A mirroring world transform turns faces inside out.
	flip := flags.BakeSpaceTransform && world.Det() < 0

	if flags.Smoothing == SmoothingFace {
		ew.line("s 1")
	} else {
		ew.line("s off")
	}
	for _, f := range m.Faces {
		ew.raw("f")
		for k := range f {
			idx := f[k]
			if flip {
				idx = f[len(f)-1-k]
			}
			if uvs != nil {
				ew.raw(fmt.Sprintf(" %d/%d", vBase+idx, tBase+idx))
			} else {
				ew.raw(fmt.Sprintf(" %d", vBase+idx))
			}
		}
		ew.raw("\n")
	}
	return len(m.Vertices), len(uvs)
}

func writeArmature(ew *errWriter, n *scene.Node, flags Flags) {
	ew.line("# armature %s", n.Name)
	if n.Armature == nil {
		return
	}
	for _, b := range n.Armature.Bones {
		p := b.Pose
		ew.line("# bone %s parent=%q pose location %g %g %g rotation %g %g %g scale %g %g %g",
			b.Name, b.Parent,
			p.Location[0], p.Location[1], p.Location[2],
			p.Rotation[0], p.Rotation[1], p.Rotation[2],
			p.Scale[0], p.Scale[1], p.Scale[2])
	}
	if !flags.BakeAnimation {
		return
	}
	for _, a := range n.Armature.Actions {
		ew.line("# action %s frames %g-%g", a.Name, a.Start, a.End)
	}
}

// errWriter keeps the first write error so callers can check once.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) raw(s string) {
	if e.err != nil {
		return
	}
	_, e.err = io.WriteString(e.w, s)
}

func (e *errWriter) line(format string, args ...interface{}) {
	e.raw(fmt.Sprintf(format+"\n", args...))
}
