package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Fog fades geometry linearly into Color between Near and Far (view distance).
type Fog struct {
	Color Color
	Near  float32
	Far   float32
}

// Scene owns every mesh and light drawn by a renderer.
// Meshes are only ever appended; nothing removes or replaces them.
type Scene struct {
	Background Color
	Fog        *Fog
	Scale      mgl32.Vec3
	Lights     []Light
	Meshes     []*Mesh
}

func NewScene() *Scene {
	return &Scene{
		Scale:  mgl32.Vec3{1, 1, 1},
		Meshes: []*Mesh{},
	}
}

func (s *Scene) Add(mesh *Mesh) {
	s.Meshes = append(s.Meshes, mesh)
}

func (s *Scene) AddLight(light Light) {
	s.Lights = append(s.Lights, light)
}

// SetLights replaces the light rig.
func (s *Scene) SetLights(lights ...Light) {
	s.Lights = append(s.Lights[:0:0], lights...)
}

func (s *Scene) MeshCount() int {
	return len(s.Meshes)
}

// RootMatrix is the scene-level transform applied on top of every mesh.
func (s *Scene) RootMatrix() mgl32.Mat4 {
	return mgl32.Scale3D(s.Scale.X(), s.Scale.Y(), s.Scale.Z())
}

// Batch groups meshes sharing a geometry and a texture so they can be drawn
// as one instanced call.
type Batch struct {
	Geometry *BoxGeometry
	Material *Material
	Meshes   []*Mesh
}

// Batches returns batches in first-seen order, which keeps draw order
// deterministic for a given build order.
func (s *Scene) Batches() []Batch {
	type key struct {
		g *BoxGeometry
		t *Texture
	}
	idx := make(map[key]int)
	var out []Batch
	for _, m := range s.Meshes {
		var tex *Texture
		if m.Material != nil {
			tex = m.Material.Map
		}
		k := key{m.Geometry, tex}
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, Batch{Geometry: m.Geometry, Material: m.Material})
		}
		out[i].Meshes = append(out[i].Meshes, m)
	}
	return out
}
