package town

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Wire shapes keep required fields as pointers so a missing field can be told
// apart from a zero value.
type wireCoordinate struct {
	X *int `json:"x" yaml:"x"`
	Y *int `json:"y" yaml:"y"`
}

type wireTile struct {
	Coordinates *wireCoordinate    `json:"coordinates" yaml:"coordinates"`
	Attributes  map[string]float64 `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

type wireRegion struct {
	Tiles *[]wireTile `json:"tiles" yaml:"tiles"`
}

func (w wireRegion) descriptor() (RegionDescriptor, error) {
	if w.Tiles == nil {
		return RegionDescriptor{}, fmt.Errorf("%w: missing tiles", ErrMalformedRegion)
	}
	out := RegionDescriptor{Tiles: make([]TileDescriptor, 0, len(*w.Tiles))}
	for i, t := range *w.Tiles {
		switch {
		case t.Coordinates == nil:
			return RegionDescriptor{}, fmt.Errorf("%w: tile %d has no coordinates", ErrMalformedRegion, i)
		case t.Coordinates.X == nil:
			return RegionDescriptor{}, fmt.Errorf("%w: tile %d has no x coordinate", ErrMalformedRegion, i)
		case t.Coordinates.Y == nil:
			return RegionDescriptor{}, fmt.Errorf("%w: tile %d has no y coordinate", ErrMalformedRegion, i)
		}
		out.Tiles = append(out.Tiles, TileDescriptor{
			Coordinates: TileCoordinate{X: *t.Coordinates.X, Y: *t.Coordinates.Y},
			Attributes:  t.Attributes,
		})
	}
	return out, out.Validate()
}

// DecodeRegionJSON reads {"tiles":[{"coordinates":{"x":0,"y":0}}]}.
func DecodeRegionJSON(r io.Reader) (RegionDescriptor, error) {
	var w wireRegion
	if err := json.NewDecoder(r).Decode(&w); err != nil {
		return RegionDescriptor{}, fmt.Errorf("%w: %v", ErrMalformedRegion, err)
	}
	return w.descriptor()
}

// DecodeRegionYAML reads the same structure as DecodeRegionJSON in YAML form.
func DecodeRegionYAML(r io.Reader) (RegionDescriptor, error) {
	var w wireRegion
	if err := yaml.NewDecoder(r).Decode(&w); err != nil {
		if errors.Is(err, io.EOF) {
			return RegionDescriptor{}, fmt.Errorf("%w: empty document", ErrMalformedRegion)
		}
		return RegionDescriptor{}, fmt.Errorf("%w: %v", ErrMalformedRegion, err)
	}
	return w.descriptor()
}

func EncodeRegionJSON(w io.Writer, region RegionDescriptor) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(region)
}

func EncodeRegionYAML(w io.Writer, region RegionDescriptor) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(region); err != nil {
		return err
	}
	return enc.Close()
}

// LoadRegionFile picks the decoder from the file extension (.json, .yaml, .yml).
func LoadRegionFile(path string) (RegionDescriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return RegionDescriptor{}, err
	}
	defer f.Close()

	var region RegionDescriptor
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		region, err = DecodeRegionJSON(f)
	case ".yaml", ".yml":
		region, err = DecodeRegionYAML(f)
	default:
		return RegionDescriptor{}, fmt.Errorf("region file %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return RegionDescriptor{}, fmt.Errorf("region file %s: %w", path, err)
	}
	return region, nil
}
