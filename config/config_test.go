package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "renderer.toml")
	data := `
[window]
width = 1920
height = 1080

[renderer]
exposure = 1.5

[renderer.bloom]
enabled = true
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1920, c.Window.Width)
	assert.Equal(t, 1080, c.Window.Height)
	assert.InDelta(t, 1.5, c.Renderer.Exposure, 1e-6)
	assert.True(t, c.Renderer.Bloom.Enabled)

	// Untouched settings keep their defaults.
	assert.Equal(t, 2048, c.Renderer.ShadowMapSize)
	assert.InDelta(t, 0.05, c.Renderer.Parallax.Scale, 1e-6)
	assert.True(t, c.Window.VSync)
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[window\nwidth="), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
