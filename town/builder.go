package town

import (
	"errors"

	"github.com/gekko3d/townview/render/core"
)

var ErrNilFactory = errors.New("nil tile factory")

// BuildRegion builds one mesh per descriptor in region order, moves it to
// MapToWorld of its coordinates on X and Z, and appends it to scene.
//
// The region is validated before anything is attached. Building the same
// region twice adds every tile twice.
func BuildRegion(scene *core.Scene, region RegionDescriptor, factory *Factory) ([]*core.Mesh, error) {
	if scene == nil {
		return nil, ErrNilScene
	}
	if factory == nil {
		return nil, ErrNilFactory
	}
	if err := region.Validate(); err != nil {
		return nil, err
	}

	meshes := make([]*core.Mesh, 0, len(region.Tiles))
	for _, desc := range region.Tiles {
		mesh, err := factory.Build(desc)
		if err != nil {
			return nil, err
		}
		pos := MapToWorld(desc.Coordinates)
		mesh.Transform.TranslateX(pos.X())
		mesh.Transform.TranslateZ(pos.Z())
		meshes = append(meshes, mesh)
	}

	for _, m := range meshes {
		scene.Add(m)
	}
	return meshes, nil
}
