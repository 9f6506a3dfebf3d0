package opengl

import (
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"github.com/T-Dawg138/rg3d/core"
	"github.com/T-Dawg138/rg3d/scene"
)

// GPUMesh holds the OpenGL buffer objects for an uploaded mesh.
type GPUMesh struct {
	VAO        uint32
	VBO        uint32
	EBO        uint32
	IndexCount int32
	HasIndices bool
	VertCount  int32
}

// MeshStore tracks mesh uploads so a mesh is sent to the GPU once and drawn
// many times. The store owns the buffers; callers hold only the *scene.Mesh.
type MeshStore struct {
	meshes map[*scene.Mesh]*GPUMesh
}

func NewMeshStore() *MeshStore {
	return &MeshStore{meshes: make(map[*scene.Mesh]*GPUMesh)}
}

// Ensure uploads vertex/index data if not already done. Returns nil for an
// empty mesh.
func (s *MeshStore) Ensure(mesh *scene.Mesh) *GPUMesh {
	if gpu, ok := s.meshes[mesh]; ok {
		return gpu
	}
	if len(mesh.Vertices) == 0 {
		return nil
	}

	stride := int32(unsafe.Sizeof(core.Vertex{}))

	gpu := &GPUMesh{
		IndexCount: int32(len(mesh.Indices)),
		HasIndices: len(mesh.Indices) > 0,
		VertCount:  int32(len(mesh.Vertices)),
	}

	gl.GenVertexArrays(1, &gpu.VAO)
	gl.GenBuffers(1, &gpu.VBO)
	gl.BindVertexArray(gpu.VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.VBO)
	gl.BufferData(gl.ARRAY_BUFFER,
		len(mesh.Vertices)*int(stride),
		gl.Ptr(mesh.Vertices),
		gl.STATIC_DRAW)

	var v core.Vertex
	posOff := int(unsafe.Offsetof(v.Position))
	normOff := int(unsafe.Offsetof(v.Normal))
	uvOff := int(unsafe.Offsetof(v.UV))
	uv2Off := int(unsafe.Offsetof(v.UV2))
	colorOff := int(unsafe.Offsetof(v.Color))
	tangentOff := int(unsafe.Offsetof(v.Tangent))
	bitangentOff := int(unsafe.Offsetof(v.Bitangent))

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(posOff))

	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(normOff))

	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(uvOff))

	gl.EnableVertexAttribArray(3)
	gl.VertexAttribPointer(3, 2, gl.FLOAT, false, stride, gl.PtrOffset(uv2Off))

	gl.EnableVertexAttribArray(4)
	gl.VertexAttribPointer(4, 4, gl.FLOAT, false, stride, gl.PtrOffset(colorOff))

	gl.EnableVertexAttribArray(5)
	gl.VertexAttribPointer(5, 3, gl.FLOAT, false, stride, gl.PtrOffset(tangentOff))

	gl.EnableVertexAttribArray(6)
	gl.VertexAttribPointer(6, 3, gl.FLOAT, false, stride, gl.PtrOffset(bitangentOff))

	if gpu.HasIndices {
		gl.GenBuffers(1, &gpu.EBO)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gpu.EBO)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER,
			len(mesh.Indices)*4,
			gl.Ptr(mesh.Indices),
			gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)

	s.meshes[mesh] = gpu
	mesh.GPUData = gpu
	return gpu
}

// Draw issues the draw call for an uploaded mesh. The caller has already
// bound the program and set its uniforms.
func (s *MeshStore) Draw(gpu *GPUMesh) {
	gl.BindVertexArray(gpu.VAO)
	if gpu.HasIndices {
		gl.DrawElements(gl.TRIANGLES, gpu.IndexCount, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(gl.TRIANGLES, 0, gpu.VertCount)
	}
	gl.BindVertexArray(0)
}

// Release frees GPU buffers for the given mesh.
func (s *MeshStore) Release(mesh *scene.Mesh) {
	if gpu, ok := s.meshes[mesh]; ok {
		gl.DeleteVertexArrays(1, &gpu.VAO)
		gl.DeleteBuffers(1, &gpu.VBO)
		if gpu.HasIndices {
			gl.DeleteBuffers(1, &gpu.EBO)
		}
		delete(s.meshes, mesh)
		mesh.GPUData = nil
	}
}

// Destroy frees every uploaded mesh.
func (s *MeshStore) Destroy() {
	for mesh := range s.meshes {
		s.Release(mesh)
	}
}

// Invalidate forgets every upload without touching GL. Used after the
// context is lost, when the buffer names are already dead.
func (s *MeshStore) Invalidate() {
	for mesh := range s.meshes {
		mesh.GPUData = nil
		delete(s.meshes, mesh)
	}
}
