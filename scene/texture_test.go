package scene

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTexture(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	tex, err := DecodeTexture("test", buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 3, tex.Width)
	assert.Equal(t, 2, tex.Height)
	assert.Len(t, tex.Pixels, 3*2*4)
	assert.EqualValues(t, 255, tex.Pixels[0])
	assert.True(t, tex.SRGB, "decoded images default to color data")
}

func TestDecodeTextureGarbage(t *testing.T) {
	_, err := DecodeTexture("bad", []byte("not an image"))
	assert.Error(t, err)
}

func TestNewSolidTexture(t *testing.T) {
	tex := NewSolidTexture("solid", 10, 20, 30, 40)
	assert.Equal(t, 1, tex.Width)
	assert.Equal(t, 1, tex.Height)
	assert.Equal(t, []byte{10, 20, 30, 40}, tex.Pixels)
}

func TestNewSolidCube(t *testing.T) {
	cube := NewSolidCube("env", 1, 2, 3, 255)
	assert.Equal(t, 1, cube.Size)
	for i, face := range cube.Faces {
		assert.Equal(t, []byte{1, 2, 3, 255}, face, "face %d", i)
	}
}
