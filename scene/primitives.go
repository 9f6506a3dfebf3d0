package scene

import (
	"github.com/chewxy/math32"

	"github.com/T-Dawg138/rg3d/core"
	"github.com/T-Dawg138/rg3d/math"
)

// Primitive generators. Every mesh comes back with normals, both UV sets and
// a full tangent frame so it can go straight into the geometry pass. The
// secondary UV set mirrors the primary one; meshes with a baked lightmap
// atlas overwrite it after loading.

// CreateQuad generates a unit quad in the XY plane facing +Z.
func CreateQuad() *Mesh {
	vertices := []core.Vertex{
		{Position: math.Vec3{X: -0.5, Y: -0.5}, Normal: math.Vec3Front, UV: math.Vec2{X: 0, Y: 0}},
		{Position: math.Vec3{X: 0.5, Y: -0.5}, Normal: math.Vec3Front, UV: math.Vec2{X: 1, Y: 0}},
		{Position: math.Vec3{X: 0.5, Y: 0.5}, Normal: math.Vec3Front, UV: math.Vec2{X: 1, Y: 1}},
		{Position: math.Vec3{X: -0.5, Y: 0.5}, Normal: math.Vec3Front, UV: math.Vec2{X: 0, Y: 1}},
	}
	indices := []uint32{0, 1, 2, 2, 3, 0}
	return finishPrimitive("Quad", vertices, indices)
}

// CreateCube generates an axis-aligned cube centered at the origin.
func CreateCube(size float32) *Mesh {
	s := size / 2

	type face struct {
		normal math.Vec3
		// corners in CCW order seen from outside
		corners [4]math.Vec3
		uvs     [4]math.Vec2
	}
	faces := []face{
		{math.Vec3{Z: 1}, [4]math.Vec3{{X: -s, Y: -s, Z: s}, {X: s, Y: -s, Z: s}, {X: s, Y: s, Z: s}, {X: -s, Y: s, Z: s}}, quadUVs()},
		{math.Vec3{Z: -1}, [4]math.Vec3{{X: s, Y: -s, Z: -s}, {X: -s, Y: -s, Z: -s}, {X: -s, Y: s, Z: -s}, {X: s, Y: s, Z: -s}}, quadUVs()},
		{math.Vec3{Y: 1}, [4]math.Vec3{{X: -s, Y: s, Z: s}, {X: s, Y: s, Z: s}, {X: s, Y: s, Z: -s}, {X: -s, Y: s, Z: -s}}, quadUVs()},
		{math.Vec3{Y: -1}, [4]math.Vec3{{X: -s, Y: -s, Z: -s}, {X: s, Y: -s, Z: -s}, {X: s, Y: -s, Z: s}, {X: -s, Y: -s, Z: s}}, quadUVs()},
		{math.Vec3{X: 1}, [4]math.Vec3{{X: s, Y: -s, Z: s}, {X: s, Y: -s, Z: -s}, {X: s, Y: s, Z: -s}, {X: s, Y: s, Z: s}}, quadUVs()},
		{math.Vec3{X: -1}, [4]math.Vec3{{X: -s, Y: -s, Z: -s}, {X: -s, Y: -s, Z: s}, {X: -s, Y: s, Z: s}, {X: -s, Y: s, Z: -s}}, quadUVs()},
	}

	var vertices []core.Vertex
	var indices []uint32
	for _, f := range faces {
		base := uint32(len(vertices))
		for i := 0; i < 4; i++ {
			vertices = append(vertices, core.Vertex{
				Position: f.corners[i],
				Normal:   f.normal,
				UV:       f.uvs[i],
			})
		}
		indices = append(indices, base, base+1, base+2, base+2, base+3, base)
	}

	return finishPrimitive("Cube", vertices, indices)
}

func quadUVs() [4]math.Vec2 {
	return [4]math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
}

// CreateSphere generates a UV-sphere mesh.
func CreateSphere(radius float32, segments, rings int) *Mesh {
	if segments < 3 {
		segments = 3
	}
	if rings < 2 {
		rings = 2
	}

	var vertices []core.Vertex
	var indices []uint32

	for ring := 0; ring <= rings; ring++ {
		phi := float32(ring) * math32.Pi / float32(rings)
		sinPhi, cosPhi := math32.Sincos(phi)

		for seg := 0; seg <= segments; seg++ {
			theta := float32(seg) * 2 * math32.Pi / float32(segments)
			sinTheta, cosTheta := math32.Sincos(theta)

			normal := math.Vec3{X: sinPhi * cosTheta, Y: cosPhi, Z: sinPhi * sinTheta}
			vertices = append(vertices, core.Vertex{
				Position: normal.Mul(radius),
				Normal:   normal,
				UV:       math.Vec2{X: float32(seg) / float32(segments), Y: float32(ring) / float32(rings)},
			})
		}
	}

	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			current := uint32(ring*(segments+1) + seg)
			next := current + uint32(segments+1)

			indices = append(indices, current, next, current+1)
			indices = append(indices, current+1, next, next+1)
		}
	}

	return finishPrimitive("Sphere", vertices, indices)
}

// CreatePlane generates a flat plane in the XZ plane facing +Y.
func CreatePlane(width, depth float32, subdivisions int) *Mesh {
	if subdivisions < 1 {
		subdivisions = 1
	}

	var vertices []core.Vertex
	var indices []uint32

	halfW := width / 2
	halfD := depth / 2

	for z := 0; z <= subdivisions; z++ {
		for x := 0; x <= subdivisions; x++ {
			u := float32(x) / float32(subdivisions)
			v := float32(z) / float32(subdivisions)

			vertices = append(vertices, core.Vertex{
				Position: math.Vec3{X: -halfW + u*width, Z: -halfD + v*depth},
				Normal:   math.Vec3Up,
				UV:       math.Vec2{X: u, Y: v},
			})
		}
	}

	for z := 0; z < subdivisions; z++ {
		for x := 0; x < subdivisions; x++ {
			topLeft := uint32(z*(subdivisions+1) + x)
			topRight := topLeft + 1
			bottomLeft := topLeft + uint32(subdivisions+1)
			bottomRight := bottomLeft + 1

			indices = append(indices, topLeft, bottomLeft, topRight)
			indices = append(indices, topRight, bottomLeft, bottomRight)
		}
	}

	return finishPrimitive("Plane", vertices, indices)
}

func finishPrimitive(name string, vertices []core.Vertex, indices []uint32) *Mesh {
	for i := range vertices {
		vertices[i].UV2 = vertices[i].UV
		vertices[i].Color = core.ColorWhite
	}
	m := CreateMeshFromData(name, vertices, indices)
	ComputeTangents(m)
	return m
}
