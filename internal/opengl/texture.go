package opengl

import (
	"fmt"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"github.com/T-Dawg138/rg3d/scene"
)

// uploadTexture2D sends a CPU texture to the GPU and returns the texture
// name. Color data marked SRGB is stored as SRGB8_ALPHA8 so sampling
// returns linear values; data textures stay RGBA8.
func uploadTexture2D(tex *scene.Texture) (uint32, error) {
	if tex == nil || len(tex.Pixels) == 0 {
		return 0, fmt.Errorf("texture %q has no pixel data", texName(tex))
	}
	if len(tex.Pixels) < tex.Width*tex.Height*4 {
		return 0, fmt.Errorf("texture %q pixel data too short", tex.Name)
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	internal := int32(gl.RGBA8)
	if tex.SRGB {
		internal = gl.SRGB8_ALPHA8
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal,
		int32(tex.Width), int32(tex.Height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&tex.Pixels[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D)

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return id, nil
}

// uploadCubeTexture sends the six faces of a cube map to the GPU.
func uploadCubeTexture(cube *scene.CubeTexture) (uint32, error) {
	if cube == nil {
		return 0, fmt.Errorf("nil cube texture")
	}
	for i, face := range cube.Faces {
		if len(face) < cube.Size*cube.Size*4 {
			return 0, fmt.Errorf("cube %q face %d pixel data too short", cube.Name, i)
		}
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, id)

	for i := 0; i < 6; i++ {
		gl.TexImage2D(uint32(gl.TEXTURE_CUBE_MAP_POSITIVE_X+i), 0, gl.RGBA8,
			int32(cube.Size), int32(cube.Size), 0,
			gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&cube.Faces[i][0]))
	}

	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)

	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
	return id, nil
}

func texName(t *scene.Texture) string {
	if t == nil {
		return "<nil>"
	}
	return t.Name
}
