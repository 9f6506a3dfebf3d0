package assets

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/T-Dawg138/rg3d/core"
	"github.com/T-Dawg138/rg3d/scene"
)

// Watcher reloads tracked textures when their files change on disk. Editors
// that write via rename are covered by watching the parent directory rather
// than the file itself.
type Watcher struct {
	fsw    *fsnotify.Watcher
	loader *Loader

	mu     sync.Mutex
	byPath map[string]*scene.Texture

	done chan struct{}
}

func NewWatcher(loader *Loader) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsw:    fsw,
		loader: loader,
		byPath: make(map[string]*scene.Texture),
		done:   make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Track registers a texture for reload when path changes.
func (w *Watcher) Track(path string, tex *scene.Texture) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.byPath[abs] = tex
	w.mu.Unlock()
	return w.fsw.Add(filepath.Dir(abs))
}

func (w *Watcher) run() {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			w.mu.Lock()
			tex := w.byPath[abs]
			w.mu.Unlock()
			if tex != nil {
				core.Logger().Info("texture changed on disk", "texture", abs)
				w.loader.Reload(abs, tex)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			core.Logger().Warn("asset watch error", "err", err)
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
