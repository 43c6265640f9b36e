package core

type MaterialKind uint32

const (
	MaterialStandard MaterialKind = iota
	MaterialPhysical
)

type Material struct {
	Kind      MaterialKind
	Color     Color
	Map       *Texture
	Roughness float32
	Metalness float32
}

func NewStandardMaterial(color Color) *Material {
	return &Material{
		Kind:      MaterialStandard,
		Color:     color,
		Roughness: 1.0,
		Metalness: 0.0,
	}
}

// NewPhysicalMaterial returns a white physical material sampling tex.
func NewPhysicalMaterial(tex *Texture) *Material {
	return &Material{
		Kind:      MaterialPhysical,
		Color:     Color{1, 1, 1},
		Map:       tex,
		Roughness: 1.0,
		Metalness: 0.0,
	}
}
