package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"github.com/chewxy/math32"

	"github.com/T-Dawg138/rg3d/math"
	"github.com/T-Dawg138/rg3d/scene"
)

// ShadowMap is a depth-only framebuffer rendered from a directional light's
// point of view. The depth texture compares in hardware
// (COMPARE_REF_TO_TEXTURE), so the lighting shader's texture() call already
// returns a PCF-filtered visibility factor.
type ShadowMap struct {
	FBO      uint32
	DepthTex uint32
	Size     int32

	depth *Program
}

const shadowVertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;

uniform mat4 lightViewProj;
uniform mat4 model;

void main() {
    gl_Position = lightViewProj * model * vec4(inPosition, 1.0);
}
`

const shadowFragSrc = `
#version 410 core
void main() {}
`

func NewShadowMap(size int) (*ShadowMap, error) {
	sm := &ShadowMap{Size: int32(size)}

	var err error
	if sm.depth, err = NewProgram(shadowVertSrc, shadowFragSrc, nil,
		[]string{"lightViewProj", "model"}); err != nil {
		return nil, fmt.Errorf("shadow depth shader: %w", err)
	}

	gl.GenTextures(1, &sm.DepthTex)
	gl.BindTexture(gl.TEXTURE_2D, sm.DepthTex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT32F,
		int32(size), int32(size), 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	// Fragments that project outside the map are lit.
	border := [4]float32{1, 1, 1, 1}
	gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &border[0])
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_FUNC, gl.LEQUAL)

	gl.GenFramebuffers(1, &sm.FBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, sm.FBO)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, sm.DepthTex, 0)
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		sm.Destroy()
		return nil, fmt.Errorf("shadow FBO incomplete: status=0x%X", status)
	}
	return sm, nil
}

// DirectionalVP builds the light's orthographic view-projection around the
// camera target so the map follows the viewer.
func DirectionalVP(light *scene.Light, center math.Vec3, extent float32) math.Mat4 {
	dir := light.Direction.Normalize()
	eye := center.Sub(dir.Mul(extent * 2))

	up := math.NewVec3(0, 1, 0)
	if math32.Abs(dir.Y) > 0.99 {
		up = math.NewVec3(0, 0, 1)
	}
	view := math.Mat4LookAt(eye, center, up)
	proj := math.Mat4Orthographic(-extent, extent, -extent, extent, 0.1, extent*4)
	return proj.Mul(view)
}

// Begin binds the shadow FBO and the depth program. Front-face culling
// pushes self-shadowing acne onto back faces.
func (sm *ShadowMap) Begin(lightVP math.Mat4) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, sm.FBO)
	gl.Viewport(0, 0, sm.Size, sm.Size)
	gl.Clear(gl.DEPTH_BUFFER_BIT)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.FRONT)

	sm.depth.Use()
	sm.depth.SetMat4("lightViewProj", lightVP)
}

// DrawMesh renders one caster into the bound shadow map.
func (sm *ShadowMap) DrawMesh(store *MeshStore, mesh *scene.Mesh, model math.Mat4) {
	gpu := store.Ensure(mesh)
	if gpu == nil {
		return
	}
	sm.depth.SetMat4("model", model)
	store.Draw(gpu)
}

// End restores default culling and unbinds the FBO.
func (sm *ShadowMap) End() {
	gl.CullFace(gl.BACK)
	gl.Disable(gl.CULL_FACE)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// Destroy frees GPU resources.
func (sm *ShadowMap) Destroy() {
	if sm.FBO != 0 {
		gl.DeleteFramebuffers(1, &sm.FBO)
		sm.FBO = 0
	}
	if sm.DepthTex != 0 {
		gl.DeleteTextures(1, &sm.DepthTex)
		sm.DepthTex = 0
	}
	if sm.depth != nil {
		sm.depth.Destroy()
		sm.depth = nil
	}
}
