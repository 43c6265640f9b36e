package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is a renderable scene node: a geometry, a material and a transform.
type Mesh struct {
	Name      string
	Geometry  *BoxGeometry
	Material  *Material
	Transform *Transform

	// Attributes carries per-node scalars that renderers ignore.
	Attributes map[string]float64
}

func NewMesh(geometry *BoxGeometry, material *Material) *Mesh {
	return &Mesh{
		Geometry:  geometry,
		Material:  material,
		Transform: NewTransform(),
	}
}

func (m *Mesh) Position() mgl32.Vec3 {
	return m.Transform.Position
}

// WorldBounds returns a conservative world-space AABB of the mesh.
func (m *Mesh) WorldBounds() [2]mgl32.Vec3 {
	minB, maxB := m.Geometry.Bounds()
	corners := [8]mgl32.Vec3{
		{minB.X(), minB.Y(), minB.Z()},
		{maxB.X(), minB.Y(), minB.Z()},
		{minB.X(), maxB.Y(), minB.Z()},
		{maxB.X(), maxB.Y(), minB.Z()},
		{minB.X(), minB.Y(), maxB.Z()},
		{maxB.X(), minB.Y(), maxB.Z()},
		{minB.X(), maxB.Y(), maxB.Z()},
		{maxB.X(), maxB.Y(), maxB.Z()},
	}

	o2w := m.Transform.ObjectToWorld()

	inf := float32(1e20)
	wMin := mgl32.Vec3{inf, inf, inf}
	wMax := mgl32.Vec3{-inf, -inf, -inf}
	for _, c := range corners {
		wc := o2w.Mul4x1(c.Vec4(1.0)).Vec3()
		wMin = mgl32.Vec3{min(wMin.X(), wc.X()), min(wMin.Y(), wc.Y()), min(wMin.Z(), wc.Z())}
		wMax = mgl32.Vec3{max(wMax.X(), wc.X()), max(wMax.Y(), wc.Y()), max(wMax.Z(), wc.Z())}
	}
	return [2]mgl32.Vec3{wMin, wMax}
}
