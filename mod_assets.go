package townview

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/aquilax/go-perlin"
	"github.com/gekko3d/townview/render/core"
	"github.com/gekko3d/townview/town"
	"github.com/google/uuid"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

type AssetId string

const (
	DefaultMaxTextureSize = 1024
	proceduralGrassSize   = 256
)

// AssetServer loads textures by name and keeps each one for the life of the
// app. Names map to files through Files; the grass texture falls back to a
// generated image when no file is registered for it.
type AssetServer struct {
	Files   map[string]string
	MaxSize int
	Seed    int64

	textures map[AssetId]*core.Texture
	byName   map[string]AssetId
}

func NewAssetServer() *AssetServer {
	return &AssetServer{
		Files:    make(map[string]string),
		MaxSize:  DefaultMaxTextureSize,
		Seed:     1,
		textures: make(map[AssetId]*core.Texture),
		byName:   make(map[string]AssetId),
	}
}

// LoadTexture returns the texture registered as name, decoding it on first
// use. A failed load is not remembered.
func (server *AssetServer) LoadTexture(name string) (*core.Texture, error) {
	if id, ok := server.byName[name]; ok {
		return server.textures[id], nil
	}

	var img *image.RGBA
	if path, ok := server.Files[name]; ok && path != "" {
		decoded, err := decodeImageFile(path)
		if err != nil {
			return nil, err
		}
		img = toRGBA(decoded, server.MaxSize)
	} else if name == town.GrassTexture {
		img = grassImage(proceduralGrassSize, server.Seed)
	} else {
		return nil, fmt.Errorf("texture %q: no file registered", name)
	}

	return server.addTexture(name, img), nil
}

func (server *AssetServer) addTexture(name string, img *image.RGBA) *core.Texture {
	id := makeAssetId()
	tex := &core.Texture{Id: string(id), Name: name, RGBA: img}
	server.textures[id] = tex
	server.byName[name] = id
	return tex
}

func (server *AssetServer) Texture(id AssetId) (*core.Texture, bool) {
	tex, ok := server.textures[id]
	return tex, ok
}

func (server *AssetServer) TextureCount() int { return len(server.textures) }

func decodeImageFile(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// toRGBA converts img to RGBA, shrinking it so neither side exceeds maxSize.
func toRGBA(img image.Image, maxSize int) *image.RGBA {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if maxSize > 0 && (w > maxSize || h > maxSize) {
		if w >= h {
			h = max(1, h*maxSize/w)
			w = maxSize
		} else {
			w = max(1, w*maxSize/h)
			h = maxSize
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.BiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
		return dst
	}

	if rgba, ok := img.(*image.RGBA); ok && bounds.Min == (image.Point{}) {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	return dst
}

// grassImage is a size×size tile of perlin-mottled greens.
func grassImage(size int, seed int64) *image.RGBA {
	p := perlin.NewPerlin(2, 2, 3, seed)
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			n := (p.Noise2D(float64(x)/32, float64(y)/32) + 1) / 2
			n = min(max(n, 0), 1)
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(40 + 40*n),
				G: uint8(110 + 80*n),
				B: uint8(30 + 30*n),
				A: 255,
			})
		}
	}
	return img
}

// AssetServerModule installs an AssetServer. Textures maps texture names to
// image files.
type AssetServerModule struct {
	Textures map[string]string
	MaxSize  int
}

func (m AssetServerModule) Install(app *App, cmd *Commands) {
	server := NewAssetServer()
	for name, path := range m.Textures {
		server.Files[name] = path
	}
	if m.MaxSize > 0 {
		server.MaxSize = m.MaxSize
	}
	cmd.AddResources(server)
}

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}
