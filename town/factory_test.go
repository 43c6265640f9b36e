package town

import (
	"errors"
	"testing"

	"github.com/gekko3d/townview/render/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type markerStrategy struct {
	built []TileCoordinate
}

func (s *markerStrategy) Build(desc TileDescriptor, shared *core.Texture) *core.Mesh {
	s.built = append(s.built, desc.Coordinates)
	m := core.NewMesh(core.NewBoxGeometry(TileDiameter, 1, TileDiameter), core.NewPhysicalMaterial(shared))
	m.Name = "marker"
	return m
}

func TestBaseTile(t *testing.T) {
	f := NewFactory(nil)
	m, err := f.Build(Tile(2, -3, map[string]float64{"zone": 1}))
	require.NoError(t, err)

	assert.Equal(t, "tile(2,-3)", m.Name)
	assert.Equal(t, float32(TileDiameter), m.Geometry.Width)
	assert.Equal(t, float32(TileThickness), m.Geometry.Height)
	assert.Equal(t, float32(TileDiameter), m.Geometry.Depth)
	assert.Equal(t, core.MaterialPhysical, m.Material.Kind)
	assert.Nil(t, m.Material.Map)
	assert.Equal(t, core.NewTransform().Position, m.Position(), "factory does not place tiles")
	assert.Equal(t, map[string]float64{"zone": 1}, m.Attributes)
}

func TestFactory_AttributesAreCopied(t *testing.T) {
	attrs := map[string]float64{"population": 10}
	desc := TileDescriptor{Coordinates: TileCoordinate{}, Attributes: attrs}

	m, err := NewFactory(nil).Build(desc)
	require.NoError(t, err)
	attrs["population"] = 99
	assert.Equal(t, 10.0, m.Attributes["population"])
}

func TestFactory_StrategyDispatch(t *testing.T) {
	marker := &markerStrategy{}
	f := NewFactory(&countingSource{}).Register(func(attrs map[string]float64) bool {
		return attrs["population"] > 100
	}, marker)

	low, err := f.Build(Tile(0, 0, map[string]float64{"population": 5}))
	require.NoError(t, err)
	high, err := f.Build(Tile(1, 0, map[string]float64{"population": 500}))
	require.NoError(t, err)
	plain, err := f.Build(Tile(2, 0, nil))
	require.NoError(t, err)

	assert.Equal(t, "tile(0,0)", low.Name)
	assert.Equal(t, "marker", high.Name)
	assert.Equal(t, "tile(2,0)", plain.Name)
	assert.Equal(t, []TileCoordinate{{X: 1, Y: 0}}, marker.built)
	assert.Same(t, low.Material.Map, high.Material.Map, "strategies receive the shared texture")
}

func TestFactory_TextureLoadedOnce(t *testing.T) {
	src := &countingSource{}
	f := NewFactory(src)
	for i := 0; i < 10; i++ {
		_, err := f.Build(Tile(i, 0, nil))
		require.NoError(t, err)
	}
	assert.Equal(t, 1, src.calls)
}

func TestFactory_FailedLoadRetries(t *testing.T) {
	src := &countingSource{err: errors.New("missing file")}
	f := NewFactory(src)

	_, err := f.Build(Tile(0, 0, nil))
	require.Error(t, err)

	src.err = nil
	m, err := f.Build(Tile(0, 0, nil))
	require.NoError(t, err)
	assert.NotNil(t, m.Material.Map)
	assert.Equal(t, 2, src.calls)
}

func TestTextureSourceFunc(t *testing.T) {
	tex := &core.Texture{Name: "grass"}
	var asked string
	f := NewFactory(TextureSourceFunc(func(name string) (*core.Texture, error) {
		asked = name
		return tex, nil
	}))
	m, err := f.Build(Tile(0, 0, nil))
	require.NoError(t, err)
	assert.Equal(t, GrassTexture, asked)
	assert.Same(t, tex, m.Material.Map)
}
