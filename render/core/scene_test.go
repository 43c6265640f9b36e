package core

import (
	"image"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoxGeometry(t *testing.T) {
	g := NewBoxGeometry(3, 0.1, 3)

	assert.Len(t, g.Vertices(), 24)
	assert.Len(t, g.Indices(), 36)

	minB, maxB := g.Bounds()
	assert.Equal(t, mgl32.Vec3{-1.5, -0.05, -1.5}, minB)
	assert.Equal(t, mgl32.Vec3{1.5, 0.05, 1.5}, maxB)

	for _, v := range g.Vertices() {
		for axis := 0; axis < 3; axis++ {
			assert.GreaterOrEqual(t, v.Pos[axis], minB[axis])
			assert.LessOrEqual(t, v.Pos[axis], maxB[axis])
		}
	}

	// Winding: every triangle's face normal agrees with its vertex normal.
	verts := g.Vertices()
	idx := g.Indices()
	for i := 0; i < len(idx); i += 3 {
		a := mgl32.Vec3(verts[idx[i]].Pos)
		b := mgl32.Vec3(verts[idx[i+1]].Pos)
		c := mgl32.Vec3(verts[idx[i+2]].Pos)
		n := b.Sub(a).Cross(c.Sub(a))
		assert.Greater(t, n.Dot(mgl32.Vec3(verts[idx[i]].Normal)), float32(0), "triangle %d is wound clockwise", i/3)
	}
}

func TestMesh_WorldBoundsFollowsTranslation(t *testing.T) {
	m := NewMesh(NewBoxGeometry(3, 0.1, 3), NewStandardMaterial(ColorHex(0xffffff)))
	m.Transform.TranslateX(6.4)
	m.Transform.TranslateZ(-3.2)

	assert.Equal(t, mgl32.Vec3{6.4, 0, -3.2}, m.Position())

	b := m.WorldBounds()
	assert.InDelta(t, 4.9, b[0].X(), 1e-5)
	assert.InDelta(t, 7.9, b[1].X(), 1e-5)
	assert.InDelta(t, -4.7, b[0].Z(), 1e-5)
	assert.InDelta(t, -1.7, b[1].Z(), 1e-5)
}

func TestScene_SetLightsReplaces(t *testing.T) {
	s := NewScene()
	hemi := NewHemisphereLight(ColorHex(0xffffff), ColorHex(0xffffff), 1)
	sun := NewDirectionalLight(ColorHex(0xffffff), 0.5)

	s.SetLights(hemi, sun)
	s.SetLights(hemi, sun)
	assert.Len(t, s.Lights, 2)

	s.AddLight(sun)
	assert.Len(t, s.Lights, 3)
}

func TestScene_BatchesGroupSharedGeometry(t *testing.T) {
	s := NewScene()
	geom := NewBoxGeometry(3, 0.1, 3)
	grass := &Texture{Name: "grass", RGBA: image.NewRGBA(image.Rect(0, 0, 2, 2))}
	other := &Texture{Name: "other", RGBA: image.NewRGBA(image.Rect(0, 0, 1, 1))}

	for i := 0; i < 5; i++ {
		s.Add(NewMesh(geom, NewPhysicalMaterial(grass)))
	}
	s.Add(NewMesh(geom, NewPhysicalMaterial(other)))
	s.Add(NewMesh(geom, NewPhysicalMaterial(grass)))

	batches := s.Batches()
	require.Len(t, batches, 2)
	assert.Len(t, batches[0].Meshes, 6)
	assert.Same(t, grass, batches[0].Material.Map)
	assert.Len(t, batches[1].Meshes, 1)
	assert.Equal(t, 7, s.MeshCount())
}

func TestScene_RootMatrix(t *testing.T) {
	s := NewScene()
	s.Scale = mgl32.Vec3{0.5, 0.5, 0.5}
	p := s.RootMatrix().Mul4x1(mgl32.Vec4{3.2, 0, -6.4, 1})
	assert.Equal(t, mgl32.Vec4{1.6, 0, -3.2, 1}, p)
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#87CEEB")
	require.NoError(t, err)
	assert.Equal(t, ColorHex(0x87ceeb), c)
	assert.InDelta(t, float32(0x87)/255, c.R, 1e-6)

	short, err := ParseColor("#fff")
	require.NoError(t, err)
	assert.Equal(t, Color{1, 1, 1}, short)

	_, err = ParseColor("sky")
	assert.Error(t, err)
	assert.Panics(t, func() { MustParseColor("#12") })
}

func TestDirectionalLight_Direction(t *testing.T) {
	l := NewDirectionalLight(ColorHex(0xffffff), 0.5)
	l.Position = mgl32.Vec3{150, 500, 0}
	dir := l.Direction()
	assert.InDelta(t, 1, dir.Len(), 1e-5)
	assert.Less(t, dir.Y(), float32(0))

	l.Position = l.Target
	assert.Equal(t, mgl32.Vec3{0, -1, 0}, l.Direction())
}

func TestTexture_NilSafe(t *testing.T) {
	var tex *Texture
	assert.Zero(t, tex.Width())
	assert.Zero(t, tex.Height())
}
