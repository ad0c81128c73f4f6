package main

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher is a wrapper for watching changes of files. Paths can be added while it runs.
type Watcher struct {
	watcher *fsnotify.Watcher

	mu    sync.RWMutex
	dirs  map[string]bool
	paths map[string]bool
}

// NewWatcher returns a new Watcher.
func NewWatcher() (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher: watcher,
		dirs:    map[string]bool{},
		paths:   map[string]bool{},
	}, nil
}

// Close closes the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// AddPath adds a new file to watch. Its directory is watched so that files replaced by editors are still seen.
func (w *Watcher) AddPath(filename string) error {
	filename = filepath.Clean(filename)
	info, err := os.Stat(filename)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.paths[filename] = true

	dir := filepath.Dir(filename)
	if info.IsDir() || w.dirs[dir] {
		return nil
	}
	if err := w.watcher.Add(dir); err != nil {
		return err
	}
	w.dirs[dir] = true
	return nil
}

func (w *Watcher) watching(filename string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.paths[filename]
}

// Run watches for file changes and sends the names of changed files.
func (w *Watcher) Run() chan string {
	files := make(chan string, 10)
	go func() {
		changetimes := map[string]time.Time{}
		for w.watcher.Events != nil && w.watcher.Errors != nil {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					w.watcher.Events = nil
					break
				}

				name := filepath.Clean(event.Name)
				if !w.watching(name) || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					break
				}
				if t, ok := changetimes[name]; !ok || 100*time.Millisecond < time.Since(t) {
					time.Sleep(100 * time.Millisecond) // wait to make sure write is finished
					files <- name
					changetimes[name] = time.Now()
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					w.watcher.Errors = nil
					break
				}
				Log.Error(err)
			}
		}
		close(files)
	}()
	return files
}
