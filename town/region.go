package town

import (
	"errors"
	"fmt"
	"maps"
)

var (
	ErrMalformedRegion = errors.New("malformed region")
	ErrNilScene        = errors.New("nil scene")
)

// TileDescriptor describes one tile. Attributes are carried through to the
// built mesh untouched.
type TileDescriptor struct {
	Coordinates TileCoordinate     `json:"coordinates" yaml:"coordinates"`
	Attributes  map[string]float64 `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// RegionDescriptor is an ordered set of tiles; order is build order.
type RegionDescriptor struct {
	Tiles []TileDescriptor `json:"tiles" yaml:"tiles"`
}

func (r RegionDescriptor) Len() int { return len(r.Tiles) }

// Validate reports the first coordinate that appears twice.
func (r RegionDescriptor) Validate() error {
	seen := make(map[TileCoordinate]int, len(r.Tiles))
	for i, t := range r.Tiles {
		if first, ok := seen[t.Coordinates]; ok {
			return fmt.Errorf("%w: tile %d repeats coordinate %v of tile %d", ErrMalformedRegion, i, t.Coordinates, first)
		}
		seen[t.Coordinates] = i
	}
	return nil
}

// Tile returns a descriptor for (x, y) with an optional attribute map.
func Tile(x, y int, attrs map[string]float64) TileDescriptor {
	return TileDescriptor{
		Coordinates: TileCoordinate{X: x, Y: y},
		Attributes:  maps.Clone(attrs),
	}
}

// GridRegion lays out width×height tiles row by row around the origin: tile n
// sits at (n%width - width/2, n/width - height/2) with integer division.
// Coordinates are whole tiles, so an odd side runs symmetric (-1..1 for 3)
// and an even side reaches one tile further on the negative end (-2..1 for 4)
// instead of being shifted by half a tile.
func GridRegion(width, height int) RegionDescriptor {
	if width <= 0 || height <= 0 {
		return RegionDescriptor{}
	}
	tiles := make([]TileDescriptor, 0, width*height)
	for n := 0; n < width*height; n++ {
		tiles = append(tiles, Tile(n%width-width/2, n/width-height/2, nil))
	}
	return RegionDescriptor{Tiles: tiles}
}
