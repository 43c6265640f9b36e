package townview

import (
	"github.com/gekko3d/townview/render/core"
	"github.com/gekko3d/townview/town"
)

// TownModule populates the scene with a region at startup. The region comes
// from RegionFile when set, then Region, then a Width×Height grid.
type TownModule struct {
	RegionFile string
	Region     *town.RegionDescriptor
	Width      int
	Height     int
}

// Town holds the tiles the startup build added.
type Town struct {
	Meshes []*core.Mesh

	module TownModule
}

func (m TownModule) Install(app *App, cmd *Commands) {
	if m.Width <= 0 {
		m.Width = 16
	}
	if m.Height <= 0 {
		m.Height = 16
	}
	cmd.AddResources(&Town{module: m})
	app.UseSystem(System(townStartupSystem).InStage(Startup))
}

func (m TownModule) region() (town.RegionDescriptor, error) {
	switch {
	case m.RegionFile != "":
		return town.LoadRegionFile(m.RegionFile)
	case m.Region != nil:
		return *m.Region, nil
	default:
		return town.GridRegion(m.Width, m.Height), nil
	}
}

func townStartupSystem(scene *core.Scene, assets *AssetServer, t *Town, log Logger) error {
	region, err := t.module.region()
	if err != nil {
		return err
	}
	meshes, err := town.BuildRegion(scene, region, town.NewFactory(assets))
	if err != nil {
		return err
	}
	t.Meshes = append(t.Meshes, meshes...)
	log.Infof("Built %d tiles, scene has %d nodes", len(meshes), scene.MeshCount())
	return nil
}
