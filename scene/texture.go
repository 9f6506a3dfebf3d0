package scene

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	xdraw "golang.org/x/image/draw"
)

// Texture holds CPU-side pixel data for a 2D texture.
// GLID is set by the OpenGL backend after upload; do not access directly.
type Texture struct {
	Name   string
	Width  int
	Height int
	// Pixels in RGBA8 format (4 bytes per pixel, row-major, top-to-bottom).
	Pixels []byte
	// SRGB marks color data that must be linearized on sampling. Normal,
	// specular and height maps store linear data and leave this false.
	SRGB bool
	// GLID is the OpenGL texture object ID, set by the backend cache.
	GLID uint32
}

// CubeTexture holds six square faces in the OpenGL cube map order
// +X, -X, +Y, -Y, +Z, -Z. All faces share Size and are RGBA8.
type CubeTexture struct {
	Name  string
	Size  int
	Faces [6][]byte
	GLID  uint32
}

// LoadTexture reads a PNG or JPEG file from disk and returns a CPU-side
// Texture converted to RGBA8.
func LoadTexture(path string) (*Texture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open texture %q: %w", path, err)
	}
	t, err := DecodeTexture(path, data)
	if err != nil {
		return nil, fmt.Errorf("decode texture %q: %w", path, err)
	}
	return t, nil
}

// DecodeTexture decodes PNG or JPEG bytes into an RGBA8 texture. It is the
// entry point for async loaders that already hold the file contents.
func DecodeTexture(name string, data []byte) (*Texture, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	xdraw.Draw(rgba, rgba.Bounds(), img, bounds.Min, xdraw.Src)

	return &Texture{
		Name:   name,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Pixels: rgba.Pix,
		SRGB:   true,
	}, nil
}

// NewSolidTexture creates a 1x1 texture with the given RGBA color values (0-255).
func NewSolidTexture(name string, r, g, b, a uint8) *Texture {
	return &Texture{
		Name:   name,
		Width:  1,
		Height: 1,
		Pixels: []byte{r, g, b, a},
	}
}

// NewSolidCube creates a 1x1 cube map with every face set to the given color.
func NewSolidCube(name string, r, g, b, a uint8) *CubeTexture {
	c := &CubeTexture{Name: name, Size: 1}
	for i := range c.Faces {
		c.Faces[i] = []byte{r, g, b, a}
	}
	return c
}

// LoadCubeTexture reads six face images in the order +X, -X, +Y, -Y, +Z, -Z.
// Faces are resized to the first face's dimensions if they disagree.
func LoadCubeTexture(name string, paths [6]string) (*CubeTexture, error) {
	c := &CubeTexture{Name: name}
	for i, p := range paths {
		face, err := LoadTexture(p)
		if err != nil {
			return nil, fmt.Errorf("cube face %d: %w", i, err)
		}
		if i == 0 {
			c.Size = face.Width
		}
		if face.Width != c.Size || face.Height != c.Size {
			face = resizeRGBA(face, c.Size, c.Size)
		}
		c.Faces[i] = face.Pixels
	}
	return c, nil
}

func resizeRGBA(t *Texture, w, h int) *Texture {
	src := &image.RGBA{Pix: t.Pixels, Stride: t.Width * 4, Rect: image.Rect(0, 0, t.Width, t.Height)}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return &Texture{Name: t.Name, Width: w, Height: h, Pixels: dst.Pix, SRGB: t.SRGB}
}
