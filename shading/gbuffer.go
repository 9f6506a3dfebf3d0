// Package shading holds the per-fragment math of the deferred pipeline in
// plain Go. The GLSL programs in internal/opengl implement the same
// operations; keeping a CPU copy makes the packing rules and light response
// testable without a GPU context.
package shading

import (
	"github.com/T-Dawg138/rg3d/core"
	"github.com/T-Dawg138/rg3d/math"
)

// AlphaCutoff is the diffuse alpha below which a fragment is discarded
// before any target is written.
const AlphaCutoff = 0.5

// EncodeNormal maps a unit vector into the 0..1 range of an RGBA8 target,
// clamped the way the 8-bit store clamps on write.
func EncodeNormal(n math.Vec3) math.Vec3 {
	return math.Vec3{X: n.X*0.5 + 0.5, Y: n.Y*0.5 + 0.5, Z: n.Z*0.5 + 0.5}.Clamp01()
}

// DecodeNormal undoes EncodeNormal and renormalizes, since both the 8-bit
// quantization and interpolation shorten the vector.
func DecodeNormal(e math.Vec3) math.Vec3 {
	return math.Vec3{X: e.X*2 - 1, Y: e.Y*2 - 1, Z: e.Z*2 - 1}.Normalize()
}

// Texel is one fragment's worth of G-buffer output across the three color
// targets plus depth.
type Texel struct {
	// Color holds albedo*tint in RGB; alpha is forced to 1 for any
	// fragment that survives the cutoff.
	Color core.Color
	// Normal holds the encoded world-space normal in RGB and the specular
	// intensity in alpha.
	Normal core.Color
	// Ambient holds the lightmap radiance sampled with the secondary UV.
	Ambient core.Color
	Depth   float32
}

// EnvSampler returns the environment cube sample for a world-space
// direction. It mirrors the cube lookup of the geometry pass.
type EnvSampler func(dir math.Vec3) core.Color

// FragmentInput carries everything the geometry pass samples for one
// fragment, already interpolated.
type FragmentInput struct {
	// Diffuse is the diffuse map sample multiplied by the material tint and
	// vertex color. Its alpha drives the cutoff test.
	Diffuse core.Color
	// TangentNormal is the normal map sample remapped to -1..1.
	TangentNormal math.Vec3
	// Tangent frame in world space, interpolated and therefore not
	// necessarily unit length.
	Tangent   math.Vec3
	Bitangent math.Vec3
	Normal    math.Vec3
	// SpecularIntensity is the specular map sample.
	SpecularIntensity float32
	// Lightmap is the baked radiance sample.
	Lightmap core.Color
	// Roughness is the roughness map's red channel times the material
	// factor; it is the reflection blend amount before clamping.
	Roughness float32
	// View is the direction from the eye to the fragment.
	View math.Vec3
	// Environment samples the material's cube map; nil means the slot is
	// unbound and no reflection energy exists.
	Environment EnvSampler
	Depth       float32
}

// ShadeFragment runs the geometry-pass fragment stage. The returned bool is
// false when the fragment is discarded; a discarded fragment leaves every
// target and the depth buffer untouched. The surviving path always runs in
// the same order: cutoff test, alpha force, normal transform and encode,
// reflection blend into the color output.
func ShadeFragment(in FragmentInput) (Texel, bool) {
	if in.Diffuse.A < AlphaCutoff {
		return Texel{}, false
	}

	color := in.Diffuse
	color.A = 1

	world := WorldNormal(in.Tangent, in.Bitangent, in.Normal, in.TangentNormal)
	enc := EncodeNormal(world)

	if in.Environment != nil {
		r := in.View.Normalize().Reflect(world)
		color = ApplyReflection(color, in.Environment(r), in.Roughness)
	}

	return Texel{
		Color:   color,
		Normal:  core.Color{R: enc.X, G: enc.Y, B: enc.Z, A: in.SpecularIntensity},
		Ambient: in.Lightmap,
		Depth:   in.Depth,
	}, true
}

// ApplyReflection blends the environment sample into the color output. The
// blend factor is the roughness value clamped to 0..1: zero keeps the base
// color, one replaces it with the reflection sample. Alpha passes through
// untouched.
func ApplyReflection(base, reflection core.Color, roughness float32) core.Color {
	f := math.Clamp01(roughness)
	return core.Color{
		R: math.Lerp(base.R, reflection.R, f),
		G: math.Lerp(base.G, reflection.G, f),
		B: math.Lerp(base.B, reflection.B, f),
		A: base.A,
	}
}

// WorldNormal transforms a tangent-space normal through the interpolated
// TBN frame and renormalizes the result.
func WorldNormal(t, b, n, tangentNormal math.Vec3) math.Vec3 {
	w := t.Mul(tangentNormal.X).Add(b.Mul(tangentNormal.Y)).Add(n.Mul(tangentNormal.Z))
	return w.Normalize()
}

// ResolveAmbient returns the once-per-frame ambient term: baked radiance
// modulated by albedo. It does not depend on the light list, so a scene
// with zero lights still produces it and a scene with many lights produces
// it exactly once.
func ResolveAmbient(t Texel, ambientScale core.Color) core.Color {
	return core.Color{
		R: t.Ambient.R * t.Color.R * ambientScale.R,
		G: t.Ambient.G * t.Color.G * ambientScale.G,
		B: t.Ambient.B * t.Color.B * ambientScale.B,
		A: 1,
	}
}
