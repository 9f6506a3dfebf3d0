package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/T-Dawg138/rg3d/core"
	"github.com/T-Dawg138/rg3d/math"
)

func TestCreateCube(t *testing.T) {
	m := CreateCube(2)

	assert.Len(t, m.Vertices, 24, "4 vertices per face")
	assert.Len(t, m.Indices, 36)
	require.True(t, m.HasLocalAABB)
	assert.Equal(t, math.NewVec3(-1, -1, -1), m.LocalAABB.Min)
	assert.Equal(t, math.NewVec3(1, 1, 1), m.LocalAABB.Max)

	for _, v := range m.Vertices {
		assert.InDelta(t, 1, v.Normal.Length(), 1e-5)
		assert.Equal(t, v.UV, v.UV2, "secondary UVs mirror the primary set")
	}
}

func TestCreateSphereRadius(t *testing.T) {
	m := CreateSphere(3, 16, 8)
	for _, v := range m.Vertices {
		assert.InDelta(t, 3, v.Position.Length(), 1e-4)
		// On a sphere the normal is the normalized position.
		assert.InDelta(t, 1, v.Normal.Dot(v.Position.Normalize()), 1e-4)
	}
}

func TestCreatePlaneGrid(t *testing.T) {
	m := CreatePlane(10, 10, 2)
	assert.Len(t, m.Vertices, 9)
	assert.Len(t, m.Indices, 24)
	for _, v := range m.Vertices {
		assert.Equal(t, math.Vec3Up, v.Normal)
		assert.Zero(t, v.Position.Y)
	}
}

func TestTangentFrameOrthonormal(t *testing.T) {
	for _, m := range []*Mesh{CreateQuad(), CreateCube(1), CreateSphere(1, 12, 6)} {
		for i, v := range m.Vertices {
			assert.InDelta(t, 1, v.Tangent.Length(), 1e-3, "%s vertex %d tangent length", m.Name, i)
			assert.InDelta(t, 1, v.Bitangent.Length(), 1e-3, "%s vertex %d bitangent length", m.Name, i)
			assert.InDelta(t, 0, v.Tangent.Dot(v.Normal), 1e-3, "%s vertex %d tangent not orthogonal", m.Name, i)
		}
	}
}

func TestQuadTangentMatchesUVAxes(t *testing.T) {
	m := CreateQuad()
	// The quad's UVs increase with +X and +Y, so the tangent must point
	// along +X and the bitangent along +Y.
	for _, v := range m.Vertices {
		assert.InDelta(t, 1, v.Tangent.X, 1e-4)
		assert.InDelta(t, 1, v.Bitangent.Y, 1e-4)
	}
}

func TestEffectiveMaterialFallback(t *testing.T) {
	m := CreateQuad()
	require.Nil(t, m.Material)

	mat := m.EffectiveMaterial()
	require.NotNil(t, mat)
	assert.Zero(t, mat.Roughness, "default material reflects nothing")
	assert.False(t, mat.ParallaxEnabled)

	own := NewMaterial("own", core.ColorWhite)
	m.Material = own
	assert.Same(t, own, m.EffectiveMaterial())
}
