package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/T-Dawg138/rg3d/core"
	"github.com/T-Dawg138/rg3d/math"
)

// testFrustum looks down -Z from the origin with a 90 degree FOV.
func testFrustum() Frustum {
	view := math.Mat4LookAt(math.Vec3Zero, math.Vec3{Z: -1}, math.Vec3Up)
	proj := math.Mat4Perspective(math.Pi/2, 1, 0.1, 100)
	return FrustumFromVP(proj.Mul(view))
}

func TestFrustumSphere(t *testing.T) {
	f := testFrustum()

	assert.True(t, f.IntersectsSphere(math.NewVec3(0, 0, -10), 1), "dead ahead")
	assert.False(t, f.IntersectsSphere(math.NewVec3(0, 0, 10), 1), "behind the camera")
	assert.False(t, f.IntersectsSphere(math.NewVec3(0, 0, -200), 1), "beyond the far plane")
	assert.False(t, f.IntersectsSphere(math.NewVec3(50, 0, -10), 1), "far off to the side")

	// Straddling the left plane: center outside but the radius reaches in.
	assert.True(t, f.IntersectsSphere(math.NewVec3(-11, 0, -10), 2))
}

func TestFrustumAABB(t *testing.T) {
	f := testFrustum()

	inside := AABB{Min: math.NewVec3(-1, -1, -11), Max: math.NewVec3(1, 1, -9)}
	assert.True(t, f.IntersectsAABB(inside))

	behind := AABB{Min: math.NewVec3(-1, -1, 9), Max: math.NewVec3(1, 1, 11)}
	assert.False(t, f.IntersectsAABB(behind))

	// A box spanning the whole near plane region.
	huge := AABB{Min: math.NewVec3(-500, -500, -500), Max: math.NewVec3(500, 500, 500)}
	assert.True(t, f.IntersectsAABB(huge))
}

func TestCullVisibleNodesStableOrder(t *testing.T) {
	s := NewScene()
	mesh := CreateCube(1)

	visible := NewNode("visible")
	visible.Mesh = mesh
	visible.SetPosition(math.NewVec3(0, 0, -5))
	s.AddNode(visible)

	outside := NewNode("outside")
	outside.Mesh = mesh
	outside.SetPosition(math.NewVec3(0, 0, 50))
	s.AddNode(outside)

	hidden := NewNode("hidden")
	hidden.Mesh = mesh
	hidden.Visible = false
	s.AddNode(hidden)

	f := testFrustum()
	got := s.CullVisibleNodes(&f)
	require.Len(t, got, 1)
	assert.Equal(t, "visible", got[0].Name)

	// Order is by node id, not by insertion into the graph.
	second := NewNode("second")
	second.Mesh = mesh
	second.SetPosition(math.NewVec3(1, 0, -5))
	s.Root.Children = append([]*Node{second}, s.Root.Children...)
	second.Parent = s.Root

	got = s.CullVisibleNodes(&f)
	require.Len(t, got, 2)
	assert.True(t, got[0].Id < got[1].Id)
}

func TestVisibleLights(t *testing.T) {
	s := NewScene()

	sun := NewDirectionalLight(math.NewVec3(0, -1, 0), core.ColorWhite, 1)
	s.AddLight(sun)

	near := NewPointLight(math.NewVec3(0, 0, -5), core.ColorWhite, 1, 3)
	s.AddLight(near)

	far := NewPointLight(math.NewVec3(0, 0, 80), core.ColorWhite, 1, 3)
	s.AddLight(far)

	f := testFrustum()
	got := s.VisibleLights(&f)
	require.Len(t, got, 2)
	assert.Same(t, sun, got[0], "directional lights always pass")
	assert.Same(t, near, got[1])

	// A nil frustum disables the test entirely.
	assert.Len(t, s.VisibleLights(nil), 3)
}

func TestNodeWorldMatrixComposition(t *testing.T) {
	parent := NewNode("parent")
	parent.SetPosition(math.NewVec3(10, 0, 0))

	child := NewNode("child")
	child.SetPosition(math.NewVec3(0, 2, 0))
	parent.AddChild(child)
	child.MarkWorldMatrixDirty()

	got := child.GetWorldMatrix().MulVec3(math.Vec3Zero)
	assert.InDelta(t, 10, got.X, 1e-5)
	assert.InDelta(t, 2, got.Y, 1e-5)
	assert.InDelta(t, 0, got.Z, 1e-5)

	// Parent scale applies to the child offset.
	scaled := NewNode("scaled")
	scaled.SetScale(math.NewVec3(2, 2, 2))
	leaf := NewNode("leaf")
	leaf.SetPosition(math.NewVec3(1, 0, 0))
	scaled.AddChild(leaf)
	leaf.MarkWorldMatrixDirty()

	got = leaf.GetWorldMatrix().MulVec3(math.Vec3Zero)
	assert.InDelta(t, 2, got.X, 1e-5)
}
