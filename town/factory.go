package town

import (
	"fmt"
	"maps"

	"github.com/gekko3d/townview/render/core"
)

const GrassTexture = "grass"

// TextureSource supplies decoded textures by name.
type TextureSource interface {
	LoadTexture(name string) (*core.Texture, error)
}

type TextureSourceFunc func(name string) (*core.Texture, error)

func (f TextureSourceFunc) LoadTexture(name string) (*core.Texture, error) { return f(name) }

// TileStrategy decides what a tile looks like. Placement is not its concern.
type TileStrategy interface {
	Build(desc TileDescriptor, shared *core.Texture) *core.Mesh
}

// Predicate selects a strategy from a tile's attributes.
type Predicate func(attrs map[string]float64) bool

// BaseTile is a flat textured slab, TileDiameter wide and TileThickness tall.
type BaseTile struct {
	Geometry *core.BoxGeometry
}

func NewBaseTile() *BaseTile {
	return &BaseTile{Geometry: core.NewBoxGeometry(TileDiameter, TileThickness, TileDiameter)}
}

func (b *BaseTile) Build(desc TileDescriptor, shared *core.Texture) *core.Mesh {
	m := core.NewMesh(b.Geometry, core.NewPhysicalMaterial(shared))
	m.Name = "tile" + desc.Coordinates.String()
	m.Attributes = maps.Clone(desc.Attributes)
	return m
}

type strategyEntry struct {
	match    Predicate
	strategy TileStrategy
}

// Factory builds tile meshes. The shared texture is fetched from the source
// on first use and then reused by reference for every tile.
type Factory struct {
	Source      TextureSource
	TextureName string
	Base        TileStrategy

	strategies []strategyEntry
	texture    *core.Texture
	loaded     bool
}

func NewFactory(source TextureSource) *Factory {
	return &Factory{
		Source:      source,
		TextureName: GrassTexture,
		Base:        NewBaseTile(),
	}
}

// Register adds a strategy tried before the base tile. Strategies are tried
// in registration order; the first matching predicate wins.
func (f *Factory) Register(match Predicate, strategy TileStrategy) *Factory {
	f.strategies = append(f.strategies, strategyEntry{match: match, strategy: strategy})
	return f
}

// SharedTexture loads the shared texture once. A failed load is not cached.
func (f *Factory) SharedTexture() (*core.Texture, error) {
	if f.loaded {
		return f.texture, nil
	}
	if f.Source == nil {
		f.loaded = true
		return nil, nil
	}
	tex, err := f.Source.LoadTexture(f.TextureName)
	if err != nil {
		return nil, fmt.Errorf("load texture %q: %w", f.TextureName, err)
	}
	f.texture = tex
	f.loaded = true
	return tex, nil
}

func (f *Factory) strategyFor(desc TileDescriptor) TileStrategy {
	for _, e := range f.strategies {
		if e.match != nil && e.match(desc.Attributes) {
			return e.strategy
		}
	}
	return f.Base
}

// Build returns an unplaced mesh for desc.
func (f *Factory) Build(desc TileDescriptor) (*core.Mesh, error) {
	tex, err := f.SharedTexture()
	if err != nil {
		return nil, err
	}
	return f.strategyFor(desc).Build(desc, tex), nil
}
