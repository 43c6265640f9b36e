package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

type LightType uint32

const (
	LightTypeHemisphere  LightType = 0
	LightTypeDirectional LightType = 1
)

// Light is implemented by every light that can be attached to a Scene.
type Light interface {
	LightType() LightType
}

// HemisphereLight fills the scene from above with SkyColor and from below
// with GroundColor, blending on the surface normal's Y component.
type HemisphereLight struct {
	SkyColor    Color
	GroundColor Color
	Intensity   float32
}

func NewHemisphereLight(sky, ground Color, intensity float32) *HemisphereLight {
	return &HemisphereLight{SkyColor: sky, GroundColor: ground, Intensity: intensity}
}

func (l *HemisphereLight) LightType() LightType { return LightTypeHemisphere }

// DirectionalLight shines from Position toward Target with no falloff.
// Only the direction matters, the distance does not.
type DirectionalLight struct {
	Color     Color
	Intensity float32
	Position  mgl32.Vec3
	Target    mgl32.Vec3
}

// NewDirectionalLight places the light overhead, pointing at the origin.
func NewDirectionalLight(color Color, intensity float32) *DirectionalLight {
	return &DirectionalLight{
		Color:     color,
		Intensity: intensity,
		Position:  mgl32.Vec3{0, 1, 0},
	}
}

func (l *DirectionalLight) LightType() LightType { return LightTypeDirectional }

// Direction is the unit vector the light travels along.
func (l *DirectionalLight) Direction() mgl32.Vec3 {
	d := l.Target.Sub(l.Position)
	if d.Len() == 0 {
		return mgl32.Vec3{0, -1, 0}
	}
	return d.Normalize()
}
