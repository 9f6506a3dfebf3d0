package shading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/T-Dawg138/rg3d/core"
	"github.com/T-Dawg138/rg3d/math"
	"github.com/T-Dawg138/rg3d/scene"
)

func TestNormalEncodeDecodeRoundTrip(t *testing.T) {
	cases := []math.Vec3{
		math.Vec3Up,
		math.Vec3Down,
		math.Vec3Front,
		{X: 1},
		math.NewVec3(1, 2, 3).Normalize(),
		math.NewVec3(-0.3, 0.8, -0.2).Normalize(),
	}
	for _, n := range cases {
		enc := EncodeNormal(n)
		assert.GreaterOrEqual(t, enc.X, float32(0))
		assert.LessOrEqual(t, enc.X, float32(1))
		dec := DecodeNormal(enc)
		assert.InDelta(t, n.X, dec.X, 1e-5)
		assert.InDelta(t, n.Y, dec.Y, 1e-5)
		assert.InDelta(t, n.Z, dec.Z, 1e-5)
		assert.InDelta(t, 1, dec.Length(), 1e-5)
	}
}

func TestDecodeRenormalizesShortVectors(t *testing.T) {
	// Interpolation between encoded normals shortens them; the decode side
	// must hand lighting a unit vector anyway.
	a := EncodeNormal(math.NewVec3(1, 0, 0))
	b := EncodeNormal(math.NewVec3(0, 1, 0))
	mid := math.Vec3{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2, Z: (a.Z + b.Z) / 2}
	dec := DecodeNormal(mid)
	assert.InDelta(t, 1, dec.Length(), 1e-5)
}

func frontFragment(alpha float32) FragmentInput {
	return FragmentInput{
		Diffuse:           core.Color{R: 0.8, G: 0.6, B: 0.4, A: alpha},
		TangentNormal:     math.NewVec3(0, 0, 1),
		Tangent:           math.NewVec3(1, 0, 0),
		Bitangent:         math.NewVec3(0, 1, 0),
		Normal:            math.NewVec3(0, 0, 1),
		SpecularIntensity: 0.5,
		Lightmap:          core.Color{R: 0.2, G: 0.2, B: 0.2, A: 1},
		Depth:             0.5,
	}
}

func TestShadeFragmentCutout(t *testing.T) {
	_, ok := ShadeFragment(frontFragment(0.49))
	assert.False(t, ok, "alpha below the cutoff must discard")

	texel, ok := ShadeFragment(frontFragment(0.5))
	require.True(t, ok)
	assert.Equal(t, float32(1), texel.Color.A, "surviving fragments force alpha to 1")
}

func TestShadeFragmentPacksNormalAndSpecular(t *testing.T) {
	texel, ok := ShadeFragment(frontFragment(1))
	require.True(t, ok)

	dec := DecodeNormal(math.Vec3{X: texel.Normal.R, Y: texel.Normal.G, Z: texel.Normal.B})
	assert.InDelta(t, 0, dec.X, 1e-5)
	assert.InDelta(t, 0, dec.Y, 1e-5)
	assert.InDelta(t, 1, dec.Z, 1e-5)
	assert.InDelta(t, 0.5, texel.Normal.A, 1e-6, "specular intensity rides in normal alpha")
}

func TestShadeFragmentBentNormal(t *testing.T) {
	in := frontFragment(1)
	in.TangentNormal = math.NewVec3(1, 0, 1).Normalize()
	texel, ok := ShadeFragment(in)
	require.True(t, ok)

	dec := DecodeNormal(math.Vec3{X: texel.Normal.R, Y: texel.Normal.G, Z: texel.Normal.B})
	want := math.NewVec3(1, 0, 1).Normalize()
	assert.InDelta(t, want.X, dec.X, 1e-4)
	assert.InDelta(t, want.Z, dec.Z, 1e-4)
}

func testSurface() Surface {
	return Surface{
		Position:          math.Vec3Zero,
		Normal:            math.NewVec3(0, 0, 1),
		Albedo:            core.ColorWhite,
		SpecularIntensity: 0,
	}
}

func TestDirectionalLightLambert(t *testing.T) {
	// A white quad facing the camera, lit head-on by a unit directional
	// light, comes out at exactly the light intensity.
	s := testSurface()
	l := scene.NewDirectionalLight(math.NewVec3(0, 0, -1), core.ColorWhite, 0.75)
	c := EvalLight(s, l, math.NewVec3(0, 0, 5))
	assert.InDelta(t, 0.75, c.R, 1e-5)
	assert.InDelta(t, 0.75, c.G, 1e-5)
	assert.InDelta(t, 0.75, c.B, 1e-5)

	// Grazing incidence follows the cosine.
	l2 := scene.NewDirectionalLight(math.NewVec3(1, 0, -1), core.ColorWhite, 1)
	c2 := EvalLight(s, l2, math.NewVec3(0, 0, 5))
	assert.InDelta(t, 0.7071, c2.R, 1e-3)
}

func TestBackfaceReceivesNothing(t *testing.T) {
	s := testSurface()
	l := scene.NewDirectionalLight(math.NewVec3(0, 0, 1), core.ColorWhite, 1)
	c := EvalLight(s, l, math.NewVec3(0, 0, 5))
	assert.Zero(t, c.R)
	assert.Zero(t, c.G)
	assert.Zero(t, c.B)
}

func TestPointLightFalloff(t *testing.T) {
	s := testSurface()
	l := scene.NewPointLight(math.NewVec3(0, 0, 2), core.ColorWhite, 1, 10)
	near := EvalLight(s, l, math.NewVec3(0, 0, 5))

	l.Position = math.NewVec3(0, 0, 8)
	far := EvalLight(s, l, math.NewVec3(0, 0, 5))
	assert.Greater(t, near.R, far.R, "intensity must fall off with distance")

	// Outside the radius the contribution is exactly zero.
	l.Position = math.NewVec3(0, 0, 11)
	out := EvalLight(s, l, math.NewVec3(0, 0, 5))
	assert.Zero(t, out.R)
}

func TestSpotConeEdges(t *testing.T) {
	s := testSurface()
	l := scene.NewSpotLight(math.NewVec3(0, 0, 2), math.NewVec3(0, 0, -1), core.ColorWhite, 1, 10, 0.2, 0.4)

	inside := EvalLight(s, l, math.NewVec3(0, 0, 5))
	assert.Greater(t, inside.R, float32(0))

	// Aim the cone away: the surface sits outside the outer angle.
	l.Direction = math.NewVec3(1, 0, 0)
	outside := EvalLight(s, l, math.NewVec3(0, 0, 5))
	assert.Zero(t, outside.R)
}

func TestLightOrderCommutes(t *testing.T) {
	s := Surface{
		Position:          math.NewVec3(0.3, -0.2, 0),
		Normal:            math.NewVec3(0.2, 0.1, 1).Normalize(),
		Albedo:            core.Color{R: 0.7, G: 0.5, B: 0.3, A: 1},
		SpecularIntensity: 0.8,
	}
	eye := math.NewVec3(1, 2, 6)
	lights := []*scene.Light{
		scene.NewDirectionalLight(math.NewVec3(0.3, -1, -0.5), core.ColorWhite, 0.6),
		scene.NewPointLight(math.NewVec3(2, 1, 3), core.ColorRed, 2, 15),
		scene.NewSpotLight(math.NewVec3(-1, 2, 4), math.NewVec3(0.2, -0.4, -1), core.ColorBlue, 1.5, 20, 0.3, 0.6),
	}
	reversed := []*scene.Light{lights[2], lights[1], lights[0]}

	a := AccumulateLights(s, lights, eye)
	b := AccumulateLights(s, reversed, eye)
	assert.InDelta(t, a.R, b.R, 1e-5)
	assert.InDelta(t, a.G, b.G, 1e-5)
	assert.InDelta(t, a.B, b.B, 1e-5)
}

func TestAmbientIndependentOfLights(t *testing.T) {
	// The ambient term comes from its own resolve draw, so it is the same
	// whether the light list is empty or long.
	texel, ok := ShadeFragment(frontFragment(1))
	require.True(t, ok)

	amb := ResolveAmbient(texel, core.ColorWhite)
	assert.InDelta(t, 0.2*0.8, amb.R, 1e-5)
	assert.InDelta(t, 0.2*0.6, amb.G, 1e-5)

	// A black lightmap yields zero ambient regardless of albedo.
	dark := texel
	dark.Ambient = core.ColorBlack
	amb2 := ResolveAmbient(dark, core.ColorWhite)
	assert.Zero(t, amb2.R)
	assert.Zero(t, amb2.G)
	assert.Zero(t, amb2.B)
}

func TestReflectionBlendFactorIsRoughness(t *testing.T) {
	base := core.Color{R: 0.5, G: 0.5, B: 0.5, A: 1}
	env := core.Color{R: 1, G: 0, B: 0, A: 1}

	none := ApplyReflection(base, env, 0)
	assert.Equal(t, base, none, "zero roughness mixes in no reflection")

	full := ApplyReflection(base, env, 1)
	assert.Equal(t, env.R, full.R, "roughness one replaces the color with the sample")
	assert.Equal(t, env.G, full.G)
	assert.Equal(t, base.A, full.A, "alpha passes through the blend")

	half := ApplyReflection(base, env, 0.5)
	assert.InDelta(t, 0.75, half.R, 1e-5)
	assert.InDelta(t, 0.25, half.G, 1e-5)
}

func TestReflectionBlendClampsRoughness(t *testing.T) {
	base := core.Color{R: 0.5, G: 0.5, B: 0.5, A: 1}
	env := core.Color{R: 1, G: 0, B: 0, A: 1}

	low := ApplyReflection(base, env, -0.5)
	assert.Equal(t, base.R, low.R, "roughness below zero clamps to no reflection")

	high := ApplyReflection(base, env, 1.7)
	assert.Equal(t, env.R, high.R, "roughness above one clamps to a full reflection")
}

func TestShadeFragmentReflectionBlend(t *testing.T) {
	redTowardZ := func(dir math.Vec3) core.Color {
		if dir.Z > 0.9 {
			return core.ColorRed
		}
		return core.ColorBlack
	}

	// Head-on view of a +Z facing surface reflects straight back along +Z.
	in := frontFragment(1)
	in.View = math.NewVec3(0, 0, -1)
	in.Environment = redTowardZ
	in.Roughness = 1
	texel, ok := ShadeFragment(in)
	require.True(t, ok)
	assert.Equal(t, float32(1), texel.Color.R, "roughness one stores the environment sample")
	assert.Zero(t, texel.Color.G)
	assert.Equal(t, float32(1), texel.Color.A, "reflection preserves the forced alpha")

	in.Roughness = 0
	texel, ok = ShadeFragment(in)
	require.True(t, ok)
	assert.InDelta(t, 0.8, texel.Color.R, 1e-6, "zero roughness leaves the diffuse color")
	assert.InDelta(t, 0.6, texel.Color.G, 1e-6)

	// Without an environment map the roughness value is inert.
	in.Environment = nil
	in.Roughness = 1
	texel, ok = ShadeFragment(in)
	require.True(t, ok)
	assert.InDelta(t, 0.8, texel.Color.R, 1e-6)
}

func TestToneMapBounded(t *testing.T) {
	zero := ToneMap(core.ColorBlack, 1)
	assert.Zero(t, zero.R)

	for _, v := range []float32{0.1, 1, 10, 1000} {
		c := ToneMap(core.Color{R: v, G: v, B: v, A: 1}, 1)
		assert.Less(t, c.R, float32(1), "Reinhard never reaches white")
		assert.Greater(t, c.R, float32(0))
	}

	dim := ToneMap(core.Color{R: 0.5, G: 0.5, B: 0.5, A: 1}, 1)
	bright := ToneMap(core.Color{R: 0.5, G: 0.5, B: 0.5, A: 1}, 2)
	assert.Greater(t, bright.R, dim.R, "exposure scales before the curve")
}

func TestBloomExtract(t *testing.T) {
	dark := BloomExtract(core.Color{R: 0.5, G: 0.5, B: 0.5, A: 1}, 1)
	assert.Zero(t, dark.R)

	hot := BloomExtract(core.Color{R: 4, G: 4, B: 4, A: 1}, 1)
	assert.Greater(t, hot.R, float32(0))
	assert.Less(t, hot.R, float32(4))
}

func TestParallaxFlatHeightLeavesUV(t *testing.T) {
	flat := func(math.Vec2) float32 { return 1 }
	uv := math.NewVec2(0.25, 0.75)
	out := ParallaxUV(uv, math.NewVec3(0, 0, 1), flat, 0.05, 8, 32)
	assert.InDelta(t, uv.X, out.X, 1e-5)
	assert.InDelta(t, uv.Y, out.Y, 1e-5)
}

func TestParallaxShiftsAgainstView(t *testing.T) {
	// A uniformly low height field pushes the sample point away from the
	// viewer along the tangent-space view direction.
	low := func(math.Vec2) float32 { return 0 }
	uv := math.NewVec2(0.5, 0.5)
	out := ParallaxUV(uv, math.NewVec3(1, 0, 1).Normalize(), low, 0.05, 8, 32)
	assert.Less(t, out.X, uv.X)
	assert.InDelta(t, uv.Y, out.Y, 1e-5)

	// Viewing from behind the surface leaves the UV untouched.
	back := ParallaxUV(uv, math.NewVec3(0, 0, -1), low, 0.05, 8, 32)
	assert.Equal(t, uv, back)
}

func TestUnpackSurfaceRoundTrip(t *testing.T) {
	texel, ok := ShadeFragment(frontFragment(1))
	require.True(t, ok)

	pos := math.NewVec3(1, 2, 3)
	s := UnpackSurface(texel, pos)
	assert.Equal(t, pos, s.Position)
	assert.InDelta(t, 1, s.Normal.Length(), 1e-5)
	assert.InDelta(t, 0.5, s.SpecularIntensity, 1e-6)
	assert.Equal(t, float32(1), s.Albedo.A)
}
