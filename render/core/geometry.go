package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Vertex matches the WGSL vertex input of the mesh pass.
type Vertex struct {
	Pos    [3]float32
	Normal [3]float32
	UV     [2]float32
}

// BoxGeometry is an axis-aligned box centered on the origin.
// Geometries are immutable once built and may be shared by many meshes.
type BoxGeometry struct {
	Width  float32
	Height float32
	Depth  float32

	vertices []Vertex
	indices  []uint16
}

func NewBoxGeometry(width, height, depth float32) *BoxGeometry {
	g := &BoxGeometry{Width: width, Height: height, Depth: depth}
	g.build()
	return g
}

func (g *BoxGeometry) Vertices() []Vertex { return g.vertices }
func (g *BoxGeometry) Indices() []uint16  { return g.indices }

// Bounds returns the local-space min and max corners.
func (g *BoxGeometry) Bounds() (mgl32.Vec3, mgl32.Vec3) {
	h := mgl32.Vec3{g.Width / 2, g.Height / 2, g.Depth / 2}
	return h.Mul(-1), h
}

func (g *BoxGeometry) build() {
	hw, hh, hd := g.Width/2, g.Height/2, g.Depth/2

	// Each face: normal, then corners counter-clockwise seen from outside.
	faces := []struct {
		n       [3]float32
		corners [4][3]float32
	}{
		{[3]float32{1, 0, 0}, [4][3]float32{{hw, -hh, hd}, {hw, -hh, -hd}, {hw, hh, -hd}, {hw, hh, hd}}},
		{[3]float32{-1, 0, 0}, [4][3]float32{{-hw, -hh, -hd}, {-hw, -hh, hd}, {-hw, hh, hd}, {-hw, hh, -hd}}},
		{[3]float32{0, 1, 0}, [4][3]float32{{-hw, hh, hd}, {hw, hh, hd}, {hw, hh, -hd}, {-hw, hh, -hd}}},
		{[3]float32{0, -1, 0}, [4][3]float32{{-hw, -hh, -hd}, {hw, -hh, -hd}, {hw, -hh, hd}, {-hw, -hh, hd}}},
		{[3]float32{0, 0, 1}, [4][3]float32{{-hw, -hh, hd}, {hw, -hh, hd}, {hw, hh, hd}, {-hw, hh, hd}}},
		{[3]float32{0, 0, -1}, [4][3]float32{{hw, -hh, -hd}, {-hw, -hh, -hd}, {-hw, hh, -hd}, {hw, hh, -hd}}},
	}
	uvs := [4][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}

	g.vertices = make([]Vertex, 0, 24)
	g.indices = make([]uint16, 0, 36)
	for _, f := range faces {
		base := uint16(len(g.vertices))
		for i, c := range f.corners {
			g.vertices = append(g.vertices, Vertex{Pos: c, Normal: f.n, UV: uvs[i]})
		}
		g.indices = append(g.indices, base, base+1, base+2, base, base+2, base+3)
	}
}
