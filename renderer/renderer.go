package renderer

import (
	"fmt"

	"github.com/T-Dawg138/rg3d/config"
	"github.com/T-Dawg138/rg3d/core"
	"github.com/T-Dawg138/rg3d/internal/opengl"
	"github.com/T-Dawg138/rg3d/math"
	"github.com/T-Dawg138/rg3d/scene"
)

// Engine drives the deferred pipeline for a scene. One RenderFrame call runs
// the fixed pass order: shadow map, geometry into the G-buffer (reflections
// blend into the color target there), ambient resolve, one accumulation draw
// per light, and the tone-mapped composite to the window.
type Engine struct {
	backend *opengl.Backend
	window  *core.Window
	cfg     *config.Config

	Scene *scene.Scene

	// Half-extent of the directional shadow volume around the camera.
	ShadowExtent float32

	stats FrameStats
}

// FrameStats are counters from the most recent RenderFrame.
type FrameStats struct {
	Objects   int
	Vertices  int
	Triangles int
	Lights    int
}

func New(window *core.Window, cfg *config.Config) (*Engine, error) {
	backend, err := opengl.NewBackend(window.Width, window.Height, cfg)
	if err != nil {
		return nil, fmt.Errorf("renderer backend: %w", err)
	}
	return &Engine{
		backend:      backend,
		window:       window,
		cfg:          cfg,
		ShadowExtent: 30,
	}, nil
}

func (e *Engine) SetScene(s *scene.Scene) {
	e.Scene = s
}

func (e *Engine) RenderFrame() error {
	if e.Scene == nil || e.Scene.Camera == nil {
		return fmt.Errorf("no scene or camera")
	}
	cam := e.Scene.Camera
	b := e.backend

	vp := cam.GetViewProjectionMatrix()
	frustum := cam.Frustum()
	nodes := e.Scene.CullVisibleNodes(&frustum)
	calls := BuildDrawCalls(nodes, vp)
	lights := e.Scene.VisibleLights(&frustum)

	// Shadow pass. The first shadow-casting directional light wins; the map
	// is rendered fresh every frame.
	var shadowLight *scene.Light
	lightVP := math.Mat4Identity()
	if b.Shadow != nil {
		for _, l := range lights {
			if CastsShadow(l) {
				shadowLight = l
				break
			}
		}
	}
	if shadowLight != nil {
		lightVP = opengl.DirectionalVP(shadowLight, cam.Position, e.ShadowExtent)
		b.Shadow.Begin(lightVP)
		for _, c := range calls {
			b.Shadow.DrawMesh(b.Meshes, c.Mesh, c.Model)
		}
		b.Shadow.End()
	}

	// Geometry pass.
	b.GBuf.Begin()
	vertices, triangles := 0, 0
	for _, c := range calls {
		b.GBuf.DrawMesh(b.Geometry, b.Meshes, b.Textures,
			c.Mesh, c.Tint, c.MVP, c.Model, cam.Position, b.Parallax)
		vertices += len(c.Mesh.Vertices)
		triangles += len(c.Mesh.Indices) / 3
	}

	// Lighting: ambient once, then one additive draw per light.
	fp := opengl.FrameParams{
		InvViewProj: cam.GetInverseViewProjection(),
		CameraPos:   cam.Position,
	}
	b.Lights.Begin(b.GBuf)
	b.Lights.ResolveAmbient(b.GBuf, e.Scene.Ambient)
	for _, l := range lights {
		if l == shadowLight {
			b.Lights.DrawLight(l, fp, b.Shadow, lightVP)
		} else {
			b.Lights.DrawLight(l, fp, nil, math.Mat4Identity())
		}
	}
	b.Lights.End()

	b.Comp.Present(b.Lights.ColorTex)

	e.stats = FrameStats{
		Objects:   len(calls),
		Vertices:  vertices,
		Triangles: triangles,
		Lights:    len(lights),
	}
	return nil
}

// Present swaps the window buffers. Call after RenderFrame.
func (e *Engine) Present() {
	e.window.SwapBuffers()
}

// Resize follows a framebuffer size change, recreating the screen-sized
// render targets and updating the camera aspect ratio.
func (e *Engine) Resize(width, height int) error {
	if err := e.backend.Resize(width, height); err != nil {
		return err
	}
	if e.Scene != nil && e.Scene.Camera != nil {
		e.Scene.Camera.UpdateAspectRatio(float32(width), float32(height))
	}
	return nil
}

// HandleDeviceLost rebuilds every GPU object on a fresh context. Scene data
// is CPU-side and survives; uploads happen again lazily.
func (e *Engine) HandleDeviceLost() error {
	return e.backend.HandleDeviceLost(e.cfg)
}

// AbandonFrame discards the current frame's partial GPU state without
// presenting. Used when a pass fails or the context is reported lost
// mid-frame.
func (e *Engine) AbandonFrame() {
	e.backend.AbandonFrame()
}

// InvalidateTexture drops the GPU copy of a texture so the next frame
// re-uploads it. Called by the asset watcher after a file change.
func (e *Engine) InvalidateTexture(tex *scene.Texture) {
	e.backend.Textures.Invalidate(tex)
}

// ReleaseMesh frees the GPU buffers of a mesh that left the scene.
func (e *Engine) ReleaseMesh(mesh *scene.Mesh) {
	e.backend.Meshes.Release(mesh)
}

// Stats returns counters from the most recent RenderFrame.
func (e *Engine) Stats() FrameStats {
	return e.stats
}

func (e *Engine) Destroy() {
	e.backend.Destroy()
}
