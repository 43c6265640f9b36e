package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
	Dirty    bool
}

func NewTransform() *Transform {
	return &Transform{
		Position: mgl32.Vec3{0, 0, 0},
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
		Dirty:    true,
	}
}

func (t *Transform) ObjectToWorld() mgl32.Mat4 {
	// M = T * R * S
	translate := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	rotate := t.Rotation.Mat4()
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())

	return translate.Mul4(rotate).Mul4(scale)
}

// TranslateOnAxis moves the object along a local-space axis.
// The axis is rotated by the object's orientation, so an unrotated object
// moves along the world axis.
func (t *Transform) TranslateOnAxis(axis mgl32.Vec3, distance float32) {
	dir := t.Rotation.Rotate(axis.Normalize())
	t.Position = t.Position.Add(dir.Mul(distance))
	t.Dirty = true
}

func (t *Transform) TranslateX(distance float32) {
	t.TranslateOnAxis(mgl32.Vec3{1, 0, 0}, distance)
}

func (t *Transform) TranslateZ(distance float32) {
	t.TranslateOnAxis(mgl32.Vec3{0, 0, 1}, distance)
}
