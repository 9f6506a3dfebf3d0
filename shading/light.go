package shading

import (
	"github.com/chewxy/math32"

	"github.com/T-Dawg138/rg3d/core"
	"github.com/T-Dawg138/rg3d/math"
	"github.com/T-Dawg138/rg3d/scene"
)

// Shininess is the Blinn-Phong exponent shared by every surface. Surface
// variation comes from the per-texel specular intensity instead.
const Shininess = 80

// Surface is a G-buffer texel unpacked for lighting: world position
// reconstructed from depth, normal decoded and renormalized.
type Surface struct {
	Position          math.Vec3
	Normal            math.Vec3
	Albedo            core.Color
	SpecularIntensity float32
}

// UnpackSurface decodes a texel back into a shadeable surface. position is
// the world position reconstructed from t.Depth by the caller.
func UnpackSurface(t Texel, position math.Vec3) Surface {
	return Surface{
		Position:          position,
		Normal:            DecodeNormal(math.Vec3{X: t.Normal.R, Y: t.Normal.G, Z: t.Normal.B}),
		Albedo:            t.Color,
		SpecularIntensity: t.Normal.A,
	}
}

// EvalLight returns one light's radiance contribution to a surface seen
// from eye. The contribution is additive; summing EvalLight over the light
// list in any order gives the accumulated lighting.
func EvalLight(s Surface, l *scene.Light, eye math.Vec3) core.Color {
	var toLight math.Vec3
	attenuation := float32(1)

	switch l.Type {
	case scene.LightDirectional:
		toLight = l.Direction.Negate().Normalize()
	case scene.LightPoint:
		toLight, attenuation = pointFalloff(s.Position, l)
	case scene.LightSpot:
		toLight, attenuation = pointFalloff(s.Position, l)
		attenuation *= spotFactor(toLight, l)
	}
	if attenuation <= 0 {
		return core.Color{A: 1}
	}

	ndotl := math.Clamp01(s.Normal.Dot(toLight))
	if ndotl == 0 {
		return core.Color{A: 1}
	}

	view := eye.Sub(s.Position).Normalize()
	half := toLight.Add(view).Normalize()
	spec := math32.Pow(math.Clamp01(s.Normal.Dot(half)), Shininess) * s.SpecularIntensity

	k := l.Intensity * attenuation
	return core.Color{
		R: (s.Albedo.R*ndotl + spec) * l.Color.R * k,
		G: (s.Albedo.G*ndotl + spec) * l.Color.G * k,
		B: (s.Albedo.B*ndotl + spec) * l.Color.B * k,
		A: 1,
	}
}

// AccumulateLights sums the contribution of every light. Addition is
// commutative up to float rounding, so the order of the list does not
// change the image.
func AccumulateLights(s Surface, lights []*scene.Light, eye math.Vec3) core.Color {
	sum := core.Color{A: 1}
	for _, l := range lights {
		c := EvalLight(s, l, eye)
		sum.R += c.R
		sum.G += c.G
		sum.B += c.B
	}
	return sum
}

// pointFalloff returns the normalized direction to the light and a falloff
// that reaches exactly zero at the light radius.
func pointFalloff(p math.Vec3, l *scene.Light) (math.Vec3, float32) {
	delta := l.Position.Sub(p)
	dist := delta.Length()
	if l.Radius <= 0 || dist >= l.Radius {
		return math.Vec3Up, 0
	}
	if dist == 0 {
		return math.Vec3Up, 1
	}
	f := 1 - dist/l.Radius
	return delta.Mul(1 / dist), f * f
}

// spotFactor fades the cone edge between the inner and outer half-angles.
func spotFactor(toLight math.Vec3, l *scene.Light) float32 {
	cosAngle := toLight.Negate().Dot(l.Direction.Normalize())
	cosOuter := math32.Cos(l.OuterAngle)
	cosInner := math32.Cos(l.InnerAngle)
	if cosInner <= cosOuter {
		if cosAngle >= cosOuter {
			return 1
		}
		return 0
	}
	return math.Clamp01((cosAngle - cosOuter) / (cosInner - cosOuter))
}
