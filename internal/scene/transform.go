package scene

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Transform holds a node's local location, Euler XYZ rotation (radians)
// and scale.
type Transform struct {
	Location mgl64.Vec3
	Rotation mgl64.Vec3
	Scale    mgl64.Vec3
}

// IdentityTransform returns a transform with no translation, no rotation
// and unit scale.
func IdentityTransform() Transform {
	return Transform{Scale: mgl64.Vec3{1, 1, 1}}
}

// Matrix returns T * Rz * Ry * Rx * S.
func (t Transform) Matrix() mgl64.Mat4 {
	return mgl64.Translate3D(t.Location[0], t.Location[1], t.Location[2]).
		Mul4(t.RotationScaleMatrix())
}

// RotationScaleMatrix returns the transform without its translation.
func (t Transform) RotationScaleMatrix() mgl64.Mat4 {
	return rotationMatrix(t.Rotation).
		Mul4(mgl64.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2]))
}

// ScaleProduct returns the product of the three scale channels. A negative
// value means the transform mirrors geometry and inverts face winding.
func (t Transform) ScaleProduct() float64 {
	return t.Scale[0] * t.Scale[1] * t.Scale[2]
}

// IsIdentityRotationScale reports whether rotation is zero and scale is one.
func (t Transform) IsIdentityRotationScale() bool {
	return t.Rotation == (mgl64.Vec3{}) && t.Scale == (mgl64.Vec3{1, 1, 1})
}

func rotationMatrix(r mgl64.Vec3) mgl64.Mat4 {
	return mgl64.HomogRotate3DZ(r[2]).
		Mul4(mgl64.HomogRotate3DY(r[1])).
		Mul4(mgl64.HomogRotate3DX(r[0]))
}
