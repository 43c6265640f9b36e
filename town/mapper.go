// Package town turns declarative region descriptions into tile meshes.
package town

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	TileDiameter = 3.0
	TileGap      = 0.2
	TileStep     = TileDiameter + TileGap

	// Reserved for vertical features; not applied to base tiles.
	TilePadding    = 0.4
	BuildingHeight = 1.0 / 30.0

	TileThickness = 0.1
)

// TileCoordinate addresses a grid cell. The grid is centered on the origin,
// so coordinates may be negative.
type TileCoordinate struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

func (c TileCoordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// MapToWorld returns the world-space center of a tile. Grid Y maps to world Z;
// world Y is left at zero for the tile's own vertical placement.
func MapToWorld(c TileCoordinate) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(c.X) * TileStep,
		0,
		float32(c.Y) * TileStep,
	}
}

// Footprint returns the min and max X/Z corners a tile covers on the ground.
func Footprint(c TileCoordinate) (lo, hi mgl32.Vec2) {
	p := MapToWorld(c)
	const half = TileDiameter / 2
	return mgl32.Vec2{p.X() - half, p.Z() - half}, mgl32.Vec2{p.X() + half, p.Z() + half}
}
