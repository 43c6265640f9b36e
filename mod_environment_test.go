package townview

import (
	"testing"

	"github.com/gekko3d/townview/render/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupEnvironment(t *testing.T) {
	scene := core.NewScene()
	SetupEnvironment(scene)

	assert.Equal(t, core.MustParseColor("#87CEEB"), scene.Background)
	require.NotNil(t, scene.Fog)
	assert.Equal(t, core.Fog{Color: core.ColorHex(0xffffff), Near: 0, Far: 200}, *scene.Fog)
	assert.Equal(t, mgl32.Vec3{0.5, 0.5, 0.5}, scene.Scale)

	require.Len(t, scene.Lights, 2)
	hemi, ok := scene.Lights[0].(*core.HemisphereLight)
	require.True(t, ok)
	assert.Equal(t, core.ColorHex(0xffffff), hemi.SkyColor)
	assert.Equal(t, core.ColorHex(0xffffff), hemi.GroundColor)
	assert.Equal(t, float32(1), hemi.Intensity)

	sun, ok := scene.Lights[1].(*core.DirectionalLight)
	require.True(t, ok)
	assert.Equal(t, float32(0.5), sun.Intensity)
	assert.Equal(t, mgl32.Vec3{150, 500, 0}, sun.Position)
	assert.Equal(t, mgl32.Vec3{}, sun.Target)
}

func TestSetupEnvironment_Idempotent(t *testing.T) {
	scene := core.NewScene()
	scene.Add(core.NewMesh(core.NewBoxGeometry(1, 1, 1), core.NewStandardMaterial(core.ColorHex(0xff0000))))

	SetupEnvironment(scene)
	first := *scene.Fog
	SetupEnvironment(scene)
	SetupEnvironment(scene)

	assert.Len(t, scene.Lights, 2)
	assert.Equal(t, first, *scene.Fog)
	assert.Equal(t, 1, scene.MeshCount(), "tiles are untouched")
}
