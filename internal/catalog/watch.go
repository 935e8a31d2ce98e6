package catalog

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// Watcher re-loads the character catalog whenever its file changes on disk.
// Successful reloads arrive on Catalogs; a broken edit is logged and the
// previous catalog stays in effect.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	Catalogs chan *Catalog
	Errors   chan error
	closeCh  chan struct{}
	once     sync.Once
}

func Watch(path string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch character catalog: %w", err)
	}
	// watch the directory: editors replace files instead of writing in place
	if err := fw.Add(filepath.Dir(path)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch character catalog: %w", err)
	}

	w := &Watcher{
		watcher:  fw,
		path:     path,
		Catalogs: make(chan *Catalog, 1),
		Errors:   make(chan error, 1),
		closeCh:  make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run() {
	var lastReload time.Time
	for {
		select {
		case <-w.closeCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			now := time.Now()
			if now.Sub(lastReload) < watchDebounce {
				continue
			}
			lastReload = now

			catalog, err := Load(w.path)
			if err != nil {
				slog.Warn("Character catalog reload failed", "path", w.path, "error", err)
				select {
				case w.Errors <- err:
				default:
				}
				continue
			}
			slog.Info("Character catalog reloaded", "path", w.path, "characters", len(catalog.Names()))
			select {
			case w.Catalogs <- catalog:
			default:
				// drop if the consumer lags; the next change re-delivers
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		}
	}
}
