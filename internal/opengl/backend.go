package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"github.com/T-Dawg138/rg3d/config"
	"github.com/T-Dawg138/rg3d/core"
)

// Backend owns every GL-side object of the deferred pipeline. It knows
// nothing about scenes; the renderer package walks the scene graph and
// drives the passes through the stage types held here.
type Backend struct {
	Meshes   *MeshStore
	Textures *TextureCache
	Geometry *GeometryPrograms
	GBuf     *GBuffer
	Lights   *LightBuffer
	Comp     *Compositor
	Shadow   *ShadowMap // nil when shadow_map_size is 0

	Parallax ParallaxSettings

	width  int
	height int
}

// NewBackend initializes GL for the current context and builds the full
// pipeline at the given framebuffer size.
func NewBackend(width, height int, cfg *config.Config) (*Backend, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("gl init: %w", err)
	}
	core.Logger().Info("opengl ready",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)))

	b := &Backend{width: width, height: height}
	if err := b.build(cfg); err != nil {
		b.Destroy()
		return nil, err
	}
	return b, nil
}

func (b *Backend) build(cfg *config.Config) error {
	var err error
	if b.Textures, err = NewTextureCache(); err != nil {
		return fmt.Errorf("texture cache: %w", err)
	}
	b.Meshes = NewMeshStore()

	if b.Geometry, err = NewGeometryPrograms(); err != nil {
		return err
	}
	if b.GBuf, err = NewGBuffer(b.width, b.height); err != nil {
		return err
	}
	if b.Lights, err = NewLightBuffer(b.width, b.height); err != nil {
		return err
	}
	if b.Comp, err = NewCompositor(b.width, b.height); err != nil {
		return err
	}
	b.Comp.Exposure = cfg.Renderer.Exposure
	b.Comp.BloomEnabled = cfg.Renderer.Bloom.Enabled
	b.Comp.BloomThreshold = cfg.Renderer.Bloom.Threshold
	b.Comp.BloomStrength = cfg.Renderer.Bloom.Strength

	if cfg.Renderer.ShadowMapSize > 0 {
		if b.Shadow, err = NewShadowMap(cfg.Renderer.ShadowMapSize); err != nil {
			return err
		}
	}

	b.Parallax = ParallaxSettings{
		Scale:    cfg.Renderer.Parallax.Scale,
		MinSteps: cfg.Renderer.Parallax.MinSteps,
		MaxSteps: cfg.Renderer.Parallax.MaxSteps,
	}
	return nil
}

// Resize recreates the screen-sized targets. Shadow maps keep their
// configured resolution.
func (b *Backend) Resize(width, height int) error {
	if width < 1 || height < 1 {
		return nil // minimized
	}
	if width == b.width && height == b.height {
		return nil
	}
	b.width = width
	b.height = height

	if err := b.GBuf.Resize(width, height); err != nil {
		return err
	}
	if err := b.Lights.Resize(width, height); err != nil {
		return err
	}
	b.Comp.Resize(width, height)
	return nil
}

// HandleDeviceLost rebuilds the pipeline on a fresh context. CPU-side scene
// data is untouched; meshes and textures re-upload lazily on the next draw.
func (b *Backend) HandleDeviceLost(cfg *config.Config) error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl reinit: %w", err)
	}
	core.Logger().Warn("gl context lost, rebuilding pipeline")

	// The old GL names died with the context; only the bookkeeping needs
	// clearing before the rebuild.
	b.Meshes.Invalidate()
	b.Textures.InvalidateAll()
	if err := b.Textures.Reinit(); err != nil {
		return err
	}

	b.Geometry = nil
	b.GBuf = nil
	b.Lights = nil
	b.Comp = nil
	b.Shadow = nil

	var err error
	if b.Geometry, err = NewGeometryPrograms(); err != nil {
		return err
	}
	if b.GBuf, err = NewGBuffer(b.width, b.height); err != nil {
		return err
	}
	if b.Lights, err = NewLightBuffer(b.width, b.height); err != nil {
		return err
	}
	if b.Comp, err = NewCompositor(b.width, b.height); err != nil {
		return err
	}
	b.Comp.Exposure = cfg.Renderer.Exposure
	b.Comp.BloomEnabled = cfg.Renderer.Bloom.Enabled
	b.Comp.BloomThreshold = cfg.Renderer.Bloom.Threshold
	b.Comp.BloomStrength = cfg.Renderer.Bloom.Strength
	if cfg.Renderer.ShadowMapSize > 0 {
		if b.Shadow, err = NewShadowMap(cfg.Renderer.ShadowMapSize); err != nil {
			return err
		}
	}
	return nil
}

// AbandonFrame resets render state after a pass failed mid-frame, leaving
// the context safe for the next RenderFrame. Nothing is presented.
func (b *Backend) AbandonFrame() {
	gl.Disable(gl.BLEND)
	gl.DepthFunc(gl.LESS)
	gl.DepthMask(true)
	gl.BindVertexArray(0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

func (b *Backend) Destroy() {
	if b.Shadow != nil {
		b.Shadow.Destroy()
	}
	if b.Comp != nil {
		b.Comp.Destroy()
	}
	if b.Lights != nil {
		b.Lights.Destroy()
	}
	if b.GBuf != nil {
		b.GBuf.Destroy()
	}
	if b.Geometry != nil {
		b.Geometry.Destroy()
	}
	if b.Meshes != nil {
		b.Meshes.Destroy()
	}
	if b.Textures != nil {
		b.Textures.Destroy()
	}
}
