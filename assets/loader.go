// Package assets loads texture files off the main thread. A request returns
// a placeholder immediately; the renderer draws with a fallback until the
// decoded pixels are applied by Poll on the main thread.
package assets

import (
	"context"

	"golang.org/x/sync/semaphore"

	"github.com/T-Dawg138/rg3d/core"
	"github.com/T-Dawg138/rg3d/scene"
)

type result struct {
	dst *scene.Texture
	src *scene.Texture
	err error
}

// Loader decodes textures on background goroutines, at most `parallel` at a
// time. Decoded results are handed back through Poll so the scene-side
// Texture structs are only ever written on the caller's thread.
type Loader struct {
	sem     *semaphore.Weighted
	results chan result
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewLoader(parallel int64) *Loader {
	if parallel < 1 {
		parallel = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Loader{
		sem:     semaphore.NewWeighted(parallel),
		results: make(chan result, 64),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// RequestTexture starts an async load and returns the placeholder the scene
// can reference right away. srgb marks color data; normal, specular and
// height maps pass false.
func (l *Loader) RequestTexture(path string, srgb bool) *scene.Texture {
	dst := &scene.Texture{Name: path, SRGB: srgb}
	l.requestInto(path, dst)
	return dst
}

// Reload re-decodes path into an existing texture. Used by the file watcher.
func (l *Loader) Reload(path string, dst *scene.Texture) {
	l.requestInto(path, dst)
}

func (l *Loader) requestInto(path string, dst *scene.Texture) {
	go func() {
		if err := l.sem.Acquire(l.ctx, 1); err != nil {
			return // loader closed
		}
		defer l.sem.Release(1)

		src, err := scene.LoadTexture(path)
		select {
		case l.results <- result{dst: dst, src: src, err: err}:
		case <-l.ctx.Done():
		}
	}()
}

// Poll applies every finished decode without blocking and returns how many
// textures changed. onLoaded runs for each applied texture, typically to
// drop a stale GPU copy. Call once per frame from the main thread.
func (l *Loader) Poll(onLoaded func(*scene.Texture)) int {
	n := 0
	for {
		select {
		case r := <-l.results:
			if r.err != nil {
				core.Logger().Warn("texture load failed", "texture", r.dst.Name, "err", r.err)
				continue
			}
			r.dst.Width = r.src.Width
			r.dst.Height = r.src.Height
			r.dst.Pixels = r.src.Pixels
			if onLoaded != nil {
				onLoaded(r.dst)
			}
			n++
		default:
			return n
		}
	}
}

// Close stops background work. In-flight decodes are dropped.
func (l *Loader) Close() {
	l.cancel()
}
