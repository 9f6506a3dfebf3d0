package scene

import (
	"sort"

	"github.com/T-Dawg138/rg3d/core"
	"github.com/T-Dawg138/rg3d/math"
)

// Scene manages a collection of nodes, the light list and the active camera.
type Scene struct {
	Root   *Node
	Camera *Camera
	Lights []*Light

	// Ambient scales the lightmap contribution resolved once per frame.
	Ambient core.Color
}

func NewScene() *Scene {
	return &Scene{
		Root:    NewNode("Root"),
		Lights:  make([]*Light, 0),
		Ambient: core.ColorWhite,
	}
}

func (s *Scene) SetCamera(camera *Camera) {
	s.Camera = camera
}

func (s *Scene) AddNode(node *Node) {
	s.Root.AddChild(node)
}

func (s *Scene) RemoveNode(node *Node) {
	s.Root.RemoveChild(node)
}

func (s *Scene) AddLight(light *Light) {
	s.Lights = append(s.Lights, light)
}

func (s *Scene) RemoveLight(light *Light) {
	for i, l := range s.Lights {
		if l == light {
			s.Lights = append(s.Lights[:i], s.Lights[i+1:]...)
			return
		}
	}
}

func (s *Scene) Update(deltaTime float32) {
	if s.Root != nil {
		s.Root.Update(deltaTime)
	}
}

// GetVisibleNodes returns all nodes with meshes that are visible.
func (s *Scene) GetVisibleNodes() []*Node {
	var visible []*Node

	s.Root.Traverse(func(node *Node) {
		if node.Visible && node.Mesh != nil {
			visible = append(visible, node)
		}
	})

	return visible
}

// CullVisibleNodes returns the visible mesh nodes inside the camera frustum,
// sorted by node id so the draw order is stable across frames. Nodes without
// a precomputed AABB are conservatively kept.
func (s *Scene) CullVisibleNodes(frustum *Frustum) []*Node {
	var visible []*Node

	s.Root.Traverse(func(node *Node) {
		if !node.Visible || node.Mesh == nil {
			return
		}
		if frustum != nil && node.Mesh.HasLocalAABB {
			world := transformAABB(node.Mesh.LocalAABB, node.GetWorldMatrix())
			if !frustum.IntersectsAABB(world) {
				return
			}
		}
		visible = append(visible, node)
	})

	sort.Slice(visible, func(i, j int) bool { return visible[i].Id < visible[j].Id })
	return visible
}

// VisibleLights returns lights that can affect anything inside the frustum.
// Directional lights always pass; point and spot lights are tested as a
// sphere of their falloff radius.
func (s *Scene) VisibleLights(frustum *Frustum) []*Light {
	if frustum == nil {
		return s.Lights
	}
	var out []*Light
	for _, l := range s.Lights {
		if l.Type == LightDirectional || frustum.IntersectsSphere(l.Position, l.Radius) {
			out = append(out, l)
		}
	}
	return out
}

// CreateDefaultScene builds a scene with a camera and a single key light.
func CreateDefaultScene() *Scene {
	scene := NewScene()

	camera := NewCamera(1.0472, 16.0/9.0, 0.1, 1000.0) // 60 degrees FOV
	camera.SetPosition(math.Vec3{X: 0, Y: 2, Z: 5})
	camera.LookAt(math.Vec3Zero, math.Vec3Up)
	scene.SetCamera(camera)

	sun := NewDirectionalLight(math.Vec3{X: 0.5, Y: -1, Z: -0.5}, core.ColorWhite, 0.8)
	scene.AddLight(sun)

	return scene
}
