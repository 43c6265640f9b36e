package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// OrthographicCamera projects with fixed bounds independent of distance.
// It is Y-up and looks from Position toward Target.
type OrthographicCamera struct {
	Left   float32
	Right  float32
	Top    float32
	Bottom float32
	Near   float32
	Far    float32
	Zoom   float32

	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3
}

func NewOrthographicCamera(left, right, top, bottom, near, far float32) *OrthographicCamera {
	return &OrthographicCamera{
		Left:   left,
		Right:  right,
		Top:    top,
		Bottom: bottom,
		Near:   near,
		Far:    far,
		Zoom:   1,
		Up:     mgl32.Vec3{0, 1, 0},
	}
}

func (c *OrthographicCamera) LookAt(target mgl32.Vec3) {
	c.Target = target
}

func (c *OrthographicCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

// ProjectionMatrix uses OpenGL clip conventions (z in -1..1).
func (c *OrthographicCamera) ProjectionMatrix() mgl32.Mat4 {
	zoom := c.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	cx := (c.Right + c.Left) / 2
	cy := (c.Top + c.Bottom) / 2
	dx := (c.Right - c.Left) / (2 * zoom)
	dy := (c.Top - c.Bottom) / (2 * zoom)
	return mgl32.Ortho(cx-dx, cx+dx, cy-dy, cy+dy, c.Near, c.Far)
}

// Forward is the unit view direction.
func (c *OrthographicCamera) Forward() mgl32.Vec3 {
	d := c.Target.Sub(c.Position)
	if d.Len() == 0 {
		return mgl32.Vec3{0, 0, -1}
	}
	return d.Normalize()
}

// RightVector is the camera's local X axis in world space.
func (c *OrthographicCamera) RightVector() mgl32.Vec3 {
	z := c.Position.Sub(c.Target)
	if z.Len() == 0 {
		return mgl32.Vec3{1, 0, 0}
	}
	x := c.Up.Cross(z.Normalize())
	if x.Len() == 0 {
		return mgl32.Vec3{1, 0, 0}
	}
	return x.Normalize()
}

// ExtractFrustum extracts the 6 planes of the frustum from the view-projection matrix.
// Returns planes in order: Left, Right, Bottom, Top, Near, Far.
// Plane is Ax + By + Cz + D = 0.
func (c *OrthographicCamera) ExtractFrustum(vp mgl32.Mat4) [6]mgl32.Vec4 {
	var planes [6]mgl32.Vec4
	for i := 0; i < 3; i++ {
		planes[2*i] = mgl32.Vec4{
			vp.At(3, 0) + vp.At(i, 0),
			vp.At(3, 1) + vp.At(i, 1),
			vp.At(3, 2) + vp.At(i, 2),
			vp.At(3, 3) + vp.At(i, 3),
		}
		planes[2*i+1] = mgl32.Vec4{
			vp.At(3, 0) - vp.At(i, 0),
			vp.At(3, 1) - vp.At(i, 1),
			vp.At(3, 2) - vp.At(i, 2),
			vp.At(3, 3) - vp.At(i, 3),
		}
	}

	for i := 0; i < 6; i++ {
		length := float32(math.Sqrt(float64(planes[i][0]*planes[i][0] + planes[i][1]*planes[i][1] + planes[i][2]*planes[i][2])))
		if length > 0 {
			planes[i] = planes[i].Mul(1.0 / length)
		}
	}
	return planes
}

// AABBInFrustum checks if an AABB is visible within the frustum defined by 6 planes.
// Plane normals point inside.
func AABBInFrustum(aabb [2]mgl32.Vec3, planes [6]mgl32.Vec4) bool {
	for _, plane := range planes {
		// most-inside corner along the plane normal
		var p mgl32.Vec3
		for axis := 0; axis < 3; axis++ {
			if plane[axis] > 0 {
				p[axis] = aabb[1][axis]
			} else {
				p[axis] = aabb[0][axis]
			}
		}
		if plane[0]*p[0]+plane[1]*p[1]+plane[2]*p[2]+plane[3] < 0 {
			return false
		}
	}
	return true
}
