package opengl

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"

	"github.com/T-Dawg138/rg3d/core"
	"github.com/T-Dawg138/rg3d/scene"
)

// TextureCache owns every GPU texture. Scene objects hold plain *scene.Texture
// pointers; the cache maps them to GL names on first use and substitutes a
// neutral fallback when the slot is nil or the upload failed, so a draw never
// waits for a texture.
type TextureCache struct {
	textures map[*scene.Texture]uint32
	cubes    map[*scene.CubeTexture]uint32

	// Fallbacks, allocated once at startup.
	White      uint32 // diffuse and specular slots
	FlatNormal uint32 // unperturbed tangent-space normal
	Black      uint32 // lightmap slot: missing lightmap means zero ambient
	FullHeight uint32 // height slot: a flat field produces no parallax offset
	BlackCube  uint32 // environment slot: no reflection energy
}

func NewTextureCache() (*TextureCache, error) {
	c := &TextureCache{
		textures: make(map[*scene.Texture]uint32),
		cubes:    make(map[*scene.CubeTexture]uint32),
	}

	var err error
	if c.White, err = uploadTexture2D(scene.NewSolidTexture("fallback_white", 255, 255, 255, 255)); err != nil {
		return nil, err
	}
	if c.FlatNormal, err = uploadTexture2D(scene.NewSolidTexture("fallback_normal", 128, 128, 255, 255)); err != nil {
		return nil, err
	}
	if c.Black, err = uploadTexture2D(scene.NewSolidTexture("fallback_black", 0, 0, 0, 255)); err != nil {
		return nil, err
	}
	if c.FullHeight, err = uploadTexture2D(scene.NewSolidTexture("fallback_height", 255, 255, 255, 255)); err != nil {
		return nil, err
	}
	if c.BlackCube, err = uploadCubeTexture(scene.NewSolidCube("fallback_env", 0, 0, 0, 255)); err != nil {
		return nil, err
	}
	return c, nil
}

// Resolve returns the GL texture for tex, uploading on first sight. A nil
// tex, a texture whose pixels have not arrived yet, or a failed upload all
// resolve to fallback.
func (c *TextureCache) Resolve(tex *scene.Texture, fallback uint32) uint32 {
	if tex == nil {
		return fallback
	}
	if id, ok := c.textures[tex]; ok {
		return id
	}
	if len(tex.Pixels) == 0 {
		// Still loading; do not cache so the next frame retries.
		return fallback
	}
	id, err := uploadTexture2D(tex)
	if err != nil {
		core.Logger().Warn("texture upload failed", "texture", tex.Name, "err", err)
		c.textures[tex] = fallback
		return fallback
	}
	tex.GLID = id
	c.textures[tex] = id
	return id
}

// ResolveCube is Resolve for cube maps.
func (c *TextureCache) ResolveCube(cube *scene.CubeTexture, fallback uint32) uint32 {
	if cube == nil {
		return fallback
	}
	if id, ok := c.cubes[cube]; ok {
		return id
	}
	if cube.Size == 0 {
		return fallback
	}
	id, err := uploadCubeTexture(cube)
	if err != nil {
		core.Logger().Warn("cube texture upload failed", "texture", cube.Name, "err", err)
		c.cubes[cube] = fallback
		return fallback
	}
	cube.GLID = id
	c.cubes[cube] = id
	return id
}

// Invalidate drops the GPU copy of tex so the next Resolve re-uploads it.
// Called when the source file changed on disk.
func (c *TextureCache) Invalidate(tex *scene.Texture) {
	if id, ok := c.textures[tex]; ok {
		if id != 0 && !c.isFallback(id) {
			gl.DeleteTextures(1, &id)
		}
		delete(c.textures, tex)
		tex.GLID = 0
	}
}

func (c *TextureCache) isFallback(id uint32) bool {
	return id == c.White || id == c.FlatNormal || id == c.Black || id == c.FullHeight
}

// InvalidateAll forgets every cached texture without touching GL. Used after
// the context is lost; the old names are already dead. The fallbacks must be
// recreated by the caller via Reinit.
func (c *TextureCache) InvalidateAll() {
	for tex := range c.textures {
		tex.GLID = 0
		delete(c.textures, tex)
	}
	for cube := range c.cubes {
		cube.GLID = 0
		delete(c.cubes, cube)
	}
}

// Reinit recreates the fallback textures on a fresh context.
func (c *TextureCache) Reinit() error {
	c.InvalidateAll()
	fresh, err := NewTextureCache()
	if err != nil {
		return err
	}
	*c = *fresh
	return nil
}

// Destroy frees every cached texture and the fallbacks.
func (c *TextureCache) Destroy() {
	for tex, id := range c.textures {
		if id != 0 && !c.isFallback(id) {
			gl.DeleteTextures(1, &id)
		}
		tex.GLID = 0
	}
	for cube, id := range c.cubes {
		if id != 0 && id != c.BlackCube {
			gl.DeleteTextures(1, &id)
		}
		cube.GLID = 0
	}
	c.textures = make(map[*scene.Texture]uint32)
	c.cubes = make(map[*scene.CubeTexture]uint32)

	for _, id := range []uint32{c.White, c.FlatNormal, c.Black, c.FullHeight, c.BlackCube} {
		if id != 0 {
			gl.DeleteTextures(1, &id)
		}
	}
	c.White, c.FlatNormal, c.Black, c.FullHeight, c.BlackCube = 0, 0, 0, 0, 0
}
