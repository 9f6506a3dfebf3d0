package shading

import (
	"github.com/T-Dawg138/rg3d/math"
)

// HeightSampler returns the height map value at uv in 0..1.
type HeightSampler func(uv math.Vec2) float32

// ParallaxUV ray-marches the height field along the tangent-space view
// direction and returns the offset UV the remaining samplers should use.
// viewTS points from the surface toward the camera in tangent space. The
// step count is interpolated between minSteps and maxSteps by viewing
// angle: grazing rays need more steps than head-on ones.
func ParallaxUV(uv math.Vec2, viewTS math.Vec3, height HeightSampler, scale float32, minSteps, maxSteps int) math.Vec2 {
	if viewTS.Z <= 0 {
		return uv
	}
	v := viewTS.Normalize()

	steps := float32(maxSteps) + (float32(minSteps)-float32(maxSteps))*math.Clamp01(v.Z)
	n := int(steps)
	if n < 1 {
		n = 1
	}

	layerDepth := 1 / float32(n)
	deltaUV := math.Vec2{X: v.X, Y: v.Y}.Mul(scale / v.Z / float32(n))

	cur := uv
	curDepth := float32(0)
	h := 1 - height(cur)
	for i := 0; i < n && curDepth < h; i++ {
		cur = cur.Sub(deltaUV)
		curDepth += layerDepth
		h = 1 - height(cur)
	}

	// Interpolate between the layer before and after the hit.
	prev := cur.Add(deltaUV)
	after := h - curDepth
	before := (1 - height(prev)) - (curDepth - layerDepth)
	denom := after - before
	if denom == 0 {
		return cur
	}
	w := after / denom
	return math.Vec2{
		X: math.Lerp(cur.X, prev.X, w),
		Y: math.Lerp(cur.Y, prev.Y, w),
	}
}
