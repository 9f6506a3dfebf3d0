package scene

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/T-Dawg138/rg3d/core"
	"github.com/T-Dawg138/rg3d/math"
)

func TestSceneSaveLoadRoundTrip(t *testing.T) {
	s := NewScene()
	s.Ambient = core.Color{R: 0.2, G: 0.3, B: 0.4, A: 1}

	cam := NewCamera(1.2, 1.5, 0.5, 250)
	cam.SetPosition(math.NewVec3(1, 2, 3))
	s.SetCamera(cam)

	spot := NewSpotLight(math.NewVec3(0, 4, 0), math.NewVec3(0, -1, 0),
		core.Color{R: 1, G: 0.8, B: 0.6, A: 1}, 2.5, 12, 0.2, 0.4)
	spot.CastShadows = true
	s.AddLight(spot)

	mat := NewMaterial("bricks", core.Color{R: 0.9, G: 0.9, B: 0.9, A: 1})
	mat.Roughness = 0.3
	mat.ParallaxEnabled = true
	mat.Diffuse = &Texture{Name: "assets/bricks.png", SRGB: true}
	mat.Height = &Texture{Name: "assets/bricks_h.png"}
	mat.RoughnessMap = &Texture{Name: "assets/bricks_r.png"}
	mat.Environment = &CubeTexture{Name: "assets/sky"}

	parent := NewNode("wall")
	parent.Mesh = CreateQuad()
	parent.Mesh.Material = mat
	parent.SetPosition(math.NewVec3(5, 0, 0))
	parent.Tint = core.Color{R: 1, G: 0.5, B: 0.5, A: 1}
	s.AddNode(parent)

	child := NewNode("trim")
	child.SetScale(math.NewVec3(2, 1, 1))
	parent.AddChild(child)

	path := filepath.Join(t.TempDir(), "scene.json")
	require.NoError(t, SaveScene(s, path))

	sd, err := LoadScene(path)
	require.NoError(t, err)

	assert.Equal(t, s.Ambient, sd.Ambient)

	require.NotNil(t, sd.Camera)
	assert.Equal(t, cam.Position, sd.Camera.Position)
	assert.Equal(t, cam.FOV, sd.Camera.FOV)

	require.Len(t, sd.Lights, 1)
	got := sd.Lights[0]
	assert.Equal(t, LightSpot, got.Type)
	assert.Equal(t, spot.Radius, got.Radius)
	assert.Equal(t, spot.InnerAngle, got.InnerAngle)
	assert.True(t, got.CastShadows)

	require.Len(t, sd.Nodes, 1)
	wall := sd.Nodes[0]
	assert.Equal(t, "wall", wall.Name)
	assert.Equal(t, parent.Tint, wall.Tint)
	assert.Equal(t, math.NewVec3(5, 0, 0), wall.Transform.Position)
	require.Len(t, wall.Children, 1)
	assert.Equal(t, math.NewVec3(2, 1, 1), wall.Children[0].Transform.Scale)

	// The mesh comes back as a name placeholder with the material settings.
	require.NotNil(t, wall.Mesh)
	assert.Equal(t, "Quad", wall.Mesh.Name)
	require.NotNil(t, wall.Mesh.Material)
	assert.Equal(t, float32(0.3), wall.Mesh.Material.Roughness)
	assert.True(t, wall.Mesh.Material.ParallaxEnabled)
	require.NotNil(t, wall.Mesh.Material.Diffuse)
	assert.Equal(t, "assets/bricks.png", wall.Mesh.Material.Diffuse.Name)
	assert.True(t, wall.Mesh.Material.Diffuse.SRGB)
	require.NotNil(t, wall.Mesh.Material.RoughnessMap)
	assert.Equal(t, "assets/bricks_r.png", wall.Mesh.Material.RoughnessMap.Name)
	require.NotNil(t, wall.Mesh.Material.Environment)
	assert.Equal(t, "assets/sky", wall.Mesh.Material.Environment.Name)
	assert.Empty(t, wall.Mesh.Vertices, "geometry is not serialised")
}

func TestLoadSceneMissingFile(t *testing.T) {
	_, err := LoadScene(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestApplyToScene(t *testing.T) {
	s := NewScene()
	s.AddNode(NewNode("old"))
	s.AddLight(NewPointLight(math.Vec3Zero, core.ColorWhite, 1, 5))

	sd := &SceneData{
		Ambient: core.Color{R: 0.1, G: 0.1, B: 0.1, A: 1},
		Nodes:   []*Node{NewNode("new")},
	}
	sd.ApplyToScene(s)

	assert.Equal(t, sd.Ambient, s.Ambient)
	assert.Empty(t, s.Lights)
	require.Len(t, s.Root.Children, 1)
	assert.Equal(t, "new", s.Root.Children[0].Name)
}
