package scene

import "github.com/T-Dawg138/rg3d/math"

// Plane represents a half-space: ax + by + cz + d = 0
// Normal (a, b, c) points into the "inside" of the frustum.
type Plane struct {
	Normal math.Vec3
	D      float32
}

// DistanceTo returns the signed distance from a point to the plane.
// Positive means on the "inside" (same side as Normal).
func (p Plane) DistanceTo(pt math.Vec3) float32 {
	return p.Normal.Dot(pt) + p.D
}

// Frustum holds the six clip planes of a view frustum.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// FrustumFromVP extracts the six frustum planes from a view-projection
// matrix using the Gribb/Hartmann method. The planes are normalized so
// DistanceTo returns a true distance in world units.
func FrustumFromVP(vp math.Mat4) Frustum {
	// Matrices are stored [col][row], so row i of the matrix is vp[*][i].
	r0 := math.Vec4{X: vp[0][0], Y: vp[1][0], Z: vp[2][0], W: vp[3][0]}
	r1 := math.Vec4{X: vp[0][1], Y: vp[1][1], Z: vp[2][1], W: vp[3][1]}
	r2 := math.Vec4{X: vp[0][2], Y: vp[1][2], Z: vp[2][2], W: vp[3][2]}
	r3 := math.Vec4{X: vp[0][3], Y: vp[1][3], Z: vp[2][3], W: vp[3][3]}

	var f Frustum
	// Left:   r3 + r0
	f.Planes[0] = normalizePlane(r3.X+r0.X, r3.Y+r0.Y, r3.Z+r0.Z, r3.W+r0.W)
	// Right:  r3 - r0
	f.Planes[1] = normalizePlane(r3.X-r0.X, r3.Y-r0.Y, r3.Z-r0.Z, r3.W-r0.W)
	// Bottom: r3 + r1
	f.Planes[2] = normalizePlane(r3.X+r1.X, r3.Y+r1.Y, r3.Z+r1.Z, r3.W+r1.W)
	// Top:    r3 - r1
	f.Planes[3] = normalizePlane(r3.X-r1.X, r3.Y-r1.Y, r3.Z-r1.Z, r3.W-r1.W)
	// Near:   r3 + r2
	f.Planes[4] = normalizePlane(r3.X+r2.X, r3.Y+r2.Y, r3.Z+r2.Z, r3.W+r2.W)
	// Far:    r3 - r2
	f.Planes[5] = normalizePlane(r3.X-r2.X, r3.Y-r2.Y, r3.Z-r2.Z, r3.W-r2.W)
	return f
}

func normalizePlane(a, b, c, d float32) Plane {
	l := math.Vec3{X: a, Y: b, Z: c}.Length()
	if l == 0 {
		return Plane{}
	}
	return Plane{Normal: math.Vec3{X: a / l, Y: b / l, Z: c / l}, D: d / l}
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max math.Vec3
}

// IntersectsFrustum returns false if the AABB is completely outside the
// frustum. Center/extent form of the positive-vertex test: the box is outside
// a plane when even its most aligned corner, center + extent along the
// normal's component signs, falls behind it.
func (box AABB) IntersectsFrustum(f *Frustum) bool {
	center := box.Min.Add(box.Max).Mul(0.5)
	extent := box.Max.Sub(box.Min).Mul(0.5)
	for i := 0; i < 6; i++ {
		p := f.Planes[i]
		if p.DistanceTo(center)+extent.Dot(p.Normal.Abs()) < 0 {
			return false
		}
	}
	return true
}

// IntersectsAABB reports whether the box touches the frustum.
func (f *Frustum) IntersectsAABB(box AABB) bool {
	return box.IntersectsFrustum(f)
}

// IntersectsSphere reports whether a sphere touches the frustum.
func (f *Frustum) IntersectsSphere(center math.Vec3, radius float32) bool {
	for i := 0; i < 6; i++ {
		if f.Planes[i].DistanceTo(center) < -radius {
			return false
		}
	}
	return true
}

// ComputeAABB computes the world-space AABB for a mesh transformed by worldMatrix.
// If the mesh has a cached local AABB, it transforms the 8 corners (fast path).
// Otherwise it falls back to iterating all vertices.
func ComputeAABB(mesh *Mesh, worldMatrix math.Mat4) AABB {
	if mesh.HasLocalAABB {
		return transformAABB(mesh.LocalAABB, worldMatrix)
	}
	return computeAABBSlow(mesh, worldMatrix)
}

// transformAABB transforms a local AABB by a world matrix by testing all 8 corners.
func transformAABB(local AABB, m math.Mat4) AABB {
	mn, mx := local.Min, local.Max
	corners := [8]math.Vec3{
		{X: mn.X, Y: mn.Y, Z: mn.Z},
		{X: mx.X, Y: mn.Y, Z: mn.Z},
		{X: mn.X, Y: mx.Y, Z: mn.Z},
		{X: mx.X, Y: mx.Y, Z: mn.Z},
		{X: mn.X, Y: mn.Y, Z: mx.Z},
		{X: mx.X, Y: mn.Y, Z: mx.Z},
		{X: mn.X, Y: mx.Y, Z: mx.Z},
		{X: mx.X, Y: mx.Y, Z: mx.Z},
	}
	first := m.MulVec3(corners[0])
	out := AABB{Min: first, Max: first}
	for i := 1; i < 8; i++ {
		wp := m.MulVec3(corners[i])
		if wp.X < out.Min.X { out.Min.X = wp.X }
		if wp.Y < out.Min.Y { out.Min.Y = wp.Y }
		if wp.Z < out.Min.Z { out.Min.Z = wp.Z }
		if wp.X > out.Max.X { out.Max.X = wp.X }
		if wp.Y > out.Max.Y { out.Max.Y = wp.Y }
		if wp.Z > out.Max.Z { out.Max.Z = wp.Z }
	}
	return out
}

// computeAABBSlow is the fallback when no cached local AABB is available.
func computeAABBSlow(mesh *Mesh, worldMatrix math.Mat4) AABB {
	if len(mesh.Vertices) == 0 {
		return AABB{}
	}
	first := worldMatrix.MulVec3(mesh.Vertices[0].Position)
	out := AABB{Min: first, Max: first}
	for i := 1; i < len(mesh.Vertices); i++ {
		wp := worldMatrix.MulVec3(mesh.Vertices[i].Position)
		if wp.X < out.Min.X { out.Min.X = wp.X }
		if wp.Y < out.Min.Y { out.Min.Y = wp.Y }
		if wp.Z < out.Min.Z { out.Min.Z = wp.Z }
		if wp.X > out.Max.X { out.Max.X = wp.X }
		if wp.Y > out.Max.Y { out.Max.Y = wp.Y }
		if wp.Z > out.Max.Z { out.Max.Z = wp.Z }
	}
	return out
}
