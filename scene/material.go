package scene

import "github.com/T-Dawg138/rg3d/core"

// Material describes the surface inputs of the geometry pass. Every map slot
// may be nil; the backend substitutes a neutral fallback so a draw never
// stalls on a texture that is still loading.
type Material struct {
	Name string

	// Tint is multiplied with the diffuse map and per-vertex color.
	Tint core.Color

	// Diffuse is the albedo map (sRGB).
	Diffuse *Texture

	// Normal is a tangent-space normal map, RGB 0..1 mapping to -1..1.
	Normal *Texture

	// Specular stores per-texel specular intensity in its red channel. It
	// rides along in the alpha of the packed normal target.
	Specular *Texture

	// Lightmap is baked ambient radiance, sampled with the secondary UV set.
	Lightmap *Texture

	// Height drives parallax occlusion mapping when ParallaxEnabled is set.
	Height *Texture

	// Environment supplies the reflection cube, blended into the color
	// output by the geometry pass. The blend factor is the roughness sample
	// clamped to 0..1: 0 adds no reflection, 1 replaces the diffuse color
	// with the environment sample.
	Environment *CubeTexture

	// RoughnessMap supplies per-texel roughness in its red channel. When
	// nil, the scalar Roughness applies uniformly.
	RoughnessMap *Texture
	Roughness    float32

	ParallaxEnabled bool
}

// DefaultMaterial returns a plain white matte surface with reflections off.
func DefaultMaterial() *Material {
	return &Material{
		Name: "Default",
		Tint: core.ColorWhite,
	}
}

// NewMaterial creates a material with the given tint and no maps.
func NewMaterial(name string, tint core.Color) *Material {
	return &Material{
		Name: name,
		Tint: tint,
	}
}
