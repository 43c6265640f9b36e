package core

import (
	"image"
)

// Texture is a decoded RGBA image shared by reference between materials.
// It must not be mutated after it has been handed to a material.
type Texture struct {
	Id   string
	Name string
	RGBA *image.RGBA
}

func (t *Texture) Width() int {
	if t == nil || t.RGBA == nil {
		return 0
	}
	return t.RGBA.Bounds().Dx()
}

func (t *Texture) Height() int {
	if t == nil || t.RGBA == nil {
		return 0
	}
	return t.RGBA.Bounds().Dy()
}
