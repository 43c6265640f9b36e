package townview

import (
	"github.com/gekko3d/townview/render/core"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	SkyColor = core.ColorHex(0x87ceeb)
	FogColor = core.ColorHex(0xffffff)
)

const (
	FogNear    = 0
	FogFar     = 200
	SceneScale = 0.5
)

// SetupEnvironment sets the sky, fog, scale and light rig of scene. Calling it
// again replaces the rig.
func SetupEnvironment(scene *core.Scene) {
	scene.Background = SkyColor
	scene.Fog = &core.Fog{Color: FogColor, Near: FogNear, Far: FogFar}
	scene.Scale = mgl32.Vec3{SceneScale, SceneScale, SceneScale}

	hemi := core.NewHemisphereLight(core.ColorHex(0xffffff), core.ColorHex(0xffffff), 1)
	sun := core.NewDirectionalLight(core.ColorHex(0xffffff), 0.5)
	sun.Position = mgl32.Vec3{150, 500, 0}
	sun.Target = mgl32.Vec3{}
	scene.SetLights(hemi, sun)
}

type EnvironmentModule struct{}

func (EnvironmentModule) Install(app *App, cmd *Commands) {
	app.UseSystem(System(environmentSystem).InStage(Startup))
}

func environmentSystem(scene *core.Scene) {
	SetupEnvironment(scene)
}
