package gpu

import (
	"github.com/gekko3d/townview/render/core"
	"github.com/go-gl/mathgl/mgl32"
)

// SceneUniforms matches the WGSL SceneUniforms struct (group 0, binding 0).
type SceneUniforms struct {
	ViewProj    mgl32.Mat4
	View        mgl32.Mat4
	Root        mgl32.Mat4
	SkyColor    [4]float32 // w = hemisphere intensity
	GroundColor [4]float32
	SunDir      [4]float32 // w = directional intensity
	SunColor    [4]float32
	FogColor    [4]float32 // w = 1 when fog is on
	FogParams   [4]float32 // near, far
}

const sceneUniformSize = 288

// MeshInstance matches the WGSL instance attributes.
type MeshInstance struct {
	ModelMat mgl32.Mat4
	Tint     [4]float32
}

// depthRemap converts OpenGL clip depth (-1..1) to WebGPU clip depth (0..1).
var depthRemap = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// BuildSceneUniforms packs camera, light rig and fog into the uniform block.
// Only the first hemisphere light and the first directional light are shaded.
func BuildSceneUniforms(scene *core.Scene, cam *core.OrthographicCamera) SceneUniforms {
	view := cam.ViewMatrix()
	u := SceneUniforms{
		ViewProj: depthRemap.Mul4(cam.ProjectionMatrix()).Mul4(view),
		View:     view,
		Root:     scene.RootMatrix(),
		SunDir:   [4]float32{0, -1, 0, 0},
	}

	var haveHemi, haveSun bool
	for _, l := range scene.Lights {
		switch light := l.(type) {
		case *core.HemisphereLight:
			if haveHemi {
				continue
			}
			haveHemi = true
			u.SkyColor = light.SkyColor.Vec4(light.Intensity)
			u.GroundColor = light.GroundColor.Vec4(1)
		case *core.DirectionalLight:
			if haveSun {
				continue
			}
			haveSun = true
			d := light.Direction()
			u.SunDir = [4]float32{d.X(), d.Y(), d.Z(), light.Intensity}
			u.SunColor = light.Color.Vec4(1)
		}
	}

	if scene.Fog != nil {
		u.FogColor = scene.Fog.Color.Vec4(1)
		u.FogParams = [4]float32{scene.Fog.Near, scene.Fog.Far, 0, 0}
	}
	return u
}

// FrustumPlanes returns the camera frustum in scene space, before the root
// scale, so mesh world bounds can be tested against it directly.
func FrustumPlanes(scene *core.Scene, cam *core.OrthographicCamera) [6]mgl32.Vec4 {
	vp := cam.ProjectionMatrix().Mul4(cam.ViewMatrix()).Mul4(scene.RootMatrix())
	return cam.ExtractFrustum(vp)
}

// BuildInstances returns one instance per visible mesh of the batch, in mesh
// order. Meshes whose bounds fall outside planes are skipped; a nil planes
// keeps every mesh. The scene root transform is applied in the shader.
func BuildInstances(batch core.Batch, planes *[6]mgl32.Vec4) []MeshInstance {
	out := make([]MeshInstance, 0, len(batch.Meshes))
	for _, m := range batch.Meshes {
		if planes != nil && m.Geometry != nil && !core.AABBInFrustum(m.WorldBounds(), *planes) {
			continue
		}
		tint := [4]float32{1, 1, 1, 1}
		if m.Material != nil {
			tint = m.Material.Color.Vec4(1)
		}
		out = append(out, MeshInstance{
			ModelMat: m.Transform.ObjectToWorld(),
			Tint:     tint,
		})
	}
	return out
}

// ClearColor converts the scene background to a render pass clear value.
func ClearColor(scene *core.Scene) [4]float64 {
	bg := scene.Background
	return [4]float64{float64(bg.R), float64(bg.G), float64(bg.B), 1}
}
