package assets

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/T-Dawg138/rg3d/scene"
)

func writePNG(t *testing.T, path string, c color.RGBA) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

// pollUntil pumps Poll from the calling goroutine until n textures have been
// applied or the deadline passes.
func pollUntil(t *testing.T, l *Loader, n int, onLoaded func(*scene.Texture)) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	got := 0
	for got < n {
		got += l.Poll(onLoaded)
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d loads, got %d", n, got)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestLoaderAppliesOnPoll(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "red.png")
	writePNG(t, path, color.RGBA{R: 200, A: 255})

	l := NewLoader(2)
	defer l.Close()

	var loaded []*scene.Texture
	tex := l.RequestTexture(path, true)
	assert.Empty(t, tex.Pixels, "placeholder has no pixels before Poll")
	assert.True(t, tex.SRGB)

	pollUntil(t, l, 1, func(tx *scene.Texture) { loaded = append(loaded, tx) })

	require.Len(t, loaded, 1)
	assert.Same(t, tex, loaded[0])
	assert.Equal(t, 2, tex.Width)
	assert.Equal(t, 2, tex.Height)
	assert.Len(t, tex.Pixels, 2*2*4)
	assert.EqualValues(t, 200, tex.Pixels[0])
}

func TestLoaderMissingFile(t *testing.T) {
	l := NewLoader(1)
	defer l.Close()

	tex := l.RequestTexture(filepath.Join(t.TempDir(), "nope.png"), false)

	// The failure surfaces as a log entry, never as applied pixels.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if n := l.Poll(nil); n != 0 {
			t.Fatalf("missing file applied %d textures", n)
		}
		time.Sleep(time.Millisecond)
	}
	assert.Empty(t, tex.Pixels)
}

func TestWatcherReloadsChangedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tex.png")
	writePNG(t, path, color.RGBA{R: 10, A: 255})

	l := NewLoader(2)
	defer l.Close()
	w, err := NewWatcher(l)
	require.NoError(t, err)
	defer w.Close()

	tex := l.RequestTexture(path, true)
	pollUntil(t, l, 1, nil)
	assert.EqualValues(t, 10, tex.Pixels[0])

	require.NoError(t, w.Track(path, tex))
	writePNG(t, path, color.RGBA{R: 250, A: 255})

	pollUntil(t, l, 1, nil)
	assert.EqualValues(t, 250, tex.Pixels[0])
}
