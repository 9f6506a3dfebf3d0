package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/T-Dawg138/rg3d/core"
	"github.com/T-Dawg138/rg3d/math"
	"github.com/T-Dawg138/rg3d/scene"
)

func TestBuildDrawCalls(t *testing.T) {
	mesh := scene.CreateCube(1)

	a := scene.NewNode("a")
	a.Mesh = mesh
	a.SetPosition(math.NewVec3(3, 0, 0))
	a.Tint = core.Color{R: 1, G: 0.5, B: 0.5, A: 1}

	b := scene.NewNode("b")
	b.Mesh = mesh

	vp := math.Mat4Perspective(1.0472, 16.0/9.0, 0.1, 100)
	calls := BuildDrawCalls([]*scene.Node{a, b}, vp)
	require.Len(t, calls, 2)

	assert.Same(t, mesh, calls[0].Mesh)
	assert.Equal(t, a.Tint, calls[0].Tint)
	assert.Equal(t, a.GetWorldMatrix(), calls[0].Model)
	assert.Equal(t, vp.Mul(a.GetWorldMatrix()), calls[0].MVP)

	// An identity model leaves the view-projection untouched.
	assert.Equal(t, vp, calls[1].MVP)
}

func TestCastsShadow(t *testing.T) {
	sun := scene.NewDirectionalLight(math.NewVec3(0.5, -1, -0.3), core.ColorWhite, 1)
	assert.False(t, CastsShadow(sun), "shadows are opt-in")

	sun.CastShadows = true
	assert.True(t, CastsShadow(sun))

	point := scene.NewPointLight(math.NewVec3(0, 2, 0), core.ColorWhite, 1, 10)
	point.CastShadows = true
	assert.False(t, CastsShadow(point), "only directional lights render shadows")

	assert.False(t, CastsShadow(nil))
}
