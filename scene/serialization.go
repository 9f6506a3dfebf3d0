package scene

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/T-Dawg138/rg3d/core"
	"github.com/T-Dawg138/rg3d/math"
)

// Scene files store transforms, lights, camera and material settings as
// JSON. Mesh geometry and texture pixels are not stored; nodes carry the
// mesh name and materials carry texture paths so the caller re-attaches
// them after loading.

type vec3JSON struct {
	X, Y, Z float32
}

type colorJSON struct {
	R, G, B, A float32
}

type transformJSON struct {
	Position vec3JSON
	Scale    vec3JSON
	// Quaternion stored as (X, Y, Z, W)
	RotX, RotY, RotZ, RotW float32
}

type materialJSON struct {
	Name            string
	Tint            colorJSON
	Roughness       float32
	ParallaxEnabled bool
	// Texture slots by source path; empty means unbound. Environment names
	// the reflection cube.
	Diffuse      string
	Normal       string
	Specular     string
	Lightmap     string
	Height       string
	RoughnessMap string
	Environment  string
}

type nodeJSON struct {
	ID        uint32
	Name      string
	Transform transformJSON
	Visible   bool
	Tint      colorJSON
	MeshName  string
	Material  *materialJSON
	Children  []nodeJSON
}

type lightJSON struct {
	Type        int
	Position    vec3JSON
	Direction   vec3JSON
	Color       colorJSON
	Intensity   float32
	Radius      float32
	InnerAngle  float32
	OuterAngle  float32
	CastShadows bool
}

type cameraJSON struct {
	Position    vec3JSON
	FOV         float32
	AspectRatio float32
	NearPlane   float32
	FarPlane    float32
}

type sceneJSON struct {
	Version int
	Ambient colorJSON
	Camera  *cameraJSON
	Lights  []lightJSON
	Nodes   []nodeJSON
}

// SaveScene serialises the scene to a JSON file at path.
func SaveScene(s *Scene, path string) error {
	js := sceneJSON{
		Version: 1,
		Ambient: colorToJSON(s.Ambient),
	}

	if s.Camera != nil {
		js.Camera = &cameraJSON{
			Position:    vec3ToJSON(s.Camera.Position),
			FOV:         s.Camera.FOV,
			AspectRatio: s.Camera.AspectRatio,
			NearPlane:   s.Camera.NearPlane,
			FarPlane:    s.Camera.FarPlane,
		}
	}

	for _, l := range s.Lights {
		js.Lights = append(js.Lights, lightToJSON(l))
	}

	// The root itself is implicit; only its children are stored.
	for _, child := range s.Root.Children {
		js.Nodes = append(js.Nodes, nodeToJSON(child))
	}

	data, err := json.MarshalIndent(js, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal scene: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write scene %q: %w", path, err)
	}
	return nil
}

// SceneData is the deserialised state returned by LoadScene. Node meshes
// are name-only placeholders; re-attach geometry by matching Mesh.Name.
type SceneData struct {
	Ambient core.Color
	Camera  *Camera
	Lights  []*Light
	Nodes   []*Node
}

// LoadScene reads a file written by SaveScene.
func LoadScene(path string) (*SceneData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene %q: %w", path, err)
	}
	var js sceneJSON
	if err := json.Unmarshal(data, &js); err != nil {
		return nil, fmt.Errorf("unmarshal scene: %w", err)
	}

	sd := &SceneData{Ambient: jsonToColor(js.Ambient)}

	if js.Camera != nil {
		cam := NewCamera(js.Camera.FOV, js.Camera.AspectRatio, js.Camera.NearPlane, js.Camera.FarPlane)
		cam.SetPosition(jsonToVec3(js.Camera.Position))
		sd.Camera = cam
	}

	for _, lj := range js.Lights {
		sd.Lights = append(sd.Lights, jsonToLight(lj))
	}
	for _, nj := range js.Nodes {
		sd.Nodes = append(sd.Nodes, jsonToNode(nj))
	}
	return sd, nil
}

// ApplyToScene replaces the camera, lights and node graph of s.
func (sd *SceneData) ApplyToScene(s *Scene) {
	s.Ambient = sd.Ambient
	if sd.Camera != nil {
		s.Camera = sd.Camera
	}
	s.Lights = sd.Lights

	s.Root.Children = s.Root.Children[:0]
	for _, n := range sd.Nodes {
		s.AddNode(n)
	}
}

func vec3ToJSON(v math.Vec3) vec3JSON    { return vec3JSON{v.X, v.Y, v.Z} }
func jsonToVec3(v vec3JSON) math.Vec3    { return math.Vec3{X: v.X, Y: v.Y, Z: v.Z} }
func colorToJSON(c core.Color) colorJSON { return colorJSON{c.R, c.G, c.B, c.A} }
func jsonToColor(c colorJSON) core.Color { return core.Color{R: c.R, G: c.G, B: c.B, A: c.A} }

func transformToJSON(t core.Transform) transformJSON {
	return transformJSON{
		Position: vec3ToJSON(t.Position),
		Scale:    vec3ToJSON(t.Scale),
		RotX:     t.Rotation.X,
		RotY:     t.Rotation.Y,
		RotZ:     t.Rotation.Z,
		RotW:     t.Rotation.W,
	}
}

func jsonToTransform(tj transformJSON) core.Transform {
	t := core.NewTransform()
	t.Position = jsonToVec3(tj.Position)
	t.Scale = jsonToVec3(tj.Scale)
	t.Rotation = math.Quaternion{X: tj.RotX, Y: tj.RotY, Z: tj.RotZ, W: tj.RotW}
	return t
}

func lightToJSON(l *Light) lightJSON {
	return lightJSON{
		Type:        int(l.Type),
		Position:    vec3ToJSON(l.Position),
		Direction:   vec3ToJSON(l.Direction),
		Color:       colorToJSON(l.Color),
		Intensity:   l.Intensity,
		Radius:      l.Radius,
		InnerAngle:  l.InnerAngle,
		OuterAngle:  l.OuterAngle,
		CastShadows: l.CastShadows,
	}
}

func jsonToLight(lj lightJSON) *Light {
	return &Light{
		Type:        LightType(lj.Type),
		Position:    jsonToVec3(lj.Position),
		Direction:   jsonToVec3(lj.Direction),
		Color:       jsonToColor(lj.Color),
		Intensity:   lj.Intensity,
		Radius:      lj.Radius,
		InnerAngle:  lj.InnerAngle,
		OuterAngle:  lj.OuterAngle,
		CastShadows: lj.CastShadows,
	}
}

func texPath(t *Texture) string {
	if t == nil {
		return ""
	}
	return t.Name
}

func cubeName(c *CubeTexture) string {
	if c == nil {
		return ""
	}
	return c.Name
}

func matToJSON(m *Material) *materialJSON {
	if m == nil {
		return nil
	}
	return &materialJSON{
		Name:            m.Name,
		Tint:            colorToJSON(m.Tint),
		Roughness:       m.Roughness,
		ParallaxEnabled: m.ParallaxEnabled,
		Diffuse:         texPath(m.Diffuse),
		Normal:          texPath(m.Normal),
		Specular:        texPath(m.Specular),
		Lightmap:        texPath(m.Lightmap),
		Height:          texPath(m.Height),
		RoughnessMap:    texPath(m.RoughnessMap),
		Environment:     cubeName(m.Environment),
	}
}

func jsonToMat(mj *materialJSON) *Material {
	if mj == nil {
		return nil
	}
	m := NewMaterial(mj.Name, jsonToColor(mj.Tint))
	m.Roughness = mj.Roughness
	m.ParallaxEnabled = mj.ParallaxEnabled
	// Texture slots come back as name-only placeholders; an asset loader
	// fills the pixels from the stored paths.
	if mj.Diffuse != "" {
		m.Diffuse = &Texture{Name: mj.Diffuse, SRGB: true}
	}
	if mj.Normal != "" {
		m.Normal = &Texture{Name: mj.Normal}
	}
	if mj.Specular != "" {
		m.Specular = &Texture{Name: mj.Specular}
	}
	if mj.Lightmap != "" {
		m.Lightmap = &Texture{Name: mj.Lightmap, SRGB: true}
	}
	if mj.Height != "" {
		m.Height = &Texture{Name: mj.Height}
	}
	if mj.RoughnessMap != "" {
		m.RoughnessMap = &Texture{Name: mj.RoughnessMap}
	}
	if mj.Environment != "" {
		m.Environment = &CubeTexture{Name: mj.Environment}
	}
	return m
}

func nodeToJSON(n *Node) nodeJSON {
	nj := nodeJSON{
		ID:        n.Id,
		Name:      n.Name,
		Transform: transformToJSON(n.Transform),
		Visible:   n.Visible,
		Tint:      colorToJSON(n.Tint),
	}
	if n.Mesh != nil {
		nj.MeshName = n.Mesh.Name
		nj.Material = matToJSON(n.Mesh.Material)
	}
	for _, child := range n.Children {
		nj.Children = append(nj.Children, nodeToJSON(child))
	}
	return nj
}

func jsonToNode(nj nodeJSON) *Node {
	n := NewNode(nj.Name)
	n.Transform = jsonToTransform(nj.Transform)
	n.Visible = nj.Visible
	n.Tint = jsonToColor(nj.Tint)
	n.MarkWorldMatrixDirty()

	if nj.MeshName != "" {
		placeholder := &Mesh{Name: nj.MeshName}
		placeholder.Material = jsonToMat(nj.Material)
		n.Mesh = placeholder
	}

	for _, childJSON := range nj.Children {
		n.AddChild(jsonToNode(childJSON))
	}
	return n
}
