// Package editor adapts an external text editor to the playground. The shader source lives in a
// file; every save is read back and published as the full document text.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/Carmen-Shannon/oxy-shaderbox/engine/logger"
	"github.com/fsnotify/fsnotify"
)

// Sink receives the full document text after each change. signal.Bus satisfies it.
type Sink interface {
	Edited(code string)
}

// watcher is the implementation of the Watcher interface.
type watcher struct {
	path string
	sink Sink

	mu   sync.Mutex
	last string
	seen bool
}

// Watcher publishes the content of a shader file to a Sink whenever the file changes on disk.
type Watcher interface {
	// Load reads the file and records its content as already published.
	//
	// Returns:
	//   - string: the file content
	//   - error: an error if the file cannot be read
	Load() (string, error)

	// Run watches the file until ctx is done. The parent directory is watched so that editors which
	// save by writing a temporary file and renaming it over the original are picked up.
	//
	// Parameters:
	//   - ctx: stops the watcher
	//
	// Returns:
	//   - error: an error if the watch cannot be established, nil once ctx is done
	Run(ctx context.Context) error

	// Path returns the watched file path.
	//
	// Returns:
	//   - string: the absolute path
	Path() string
}

var _ Watcher = &watcher{}

// NewWatcher creates a Watcher for path publishing to sink.
//
// Parameters:
//   - path: the shader file
//   - sink: receives the content after each change
//
// Returns:
//   - Watcher: the new watcher
//   - error: an error if path cannot be made absolute
func NewWatcher(path string, sink Sink) (Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve shader path: %w", err)
	}
	return &watcher{path: abs, sink: sink}, nil
}

func (w *watcher) Path() string {
	return w.path
}

func (w *watcher) Load() (string, error) {
	b, err := os.ReadFile(w.path)
	if err != nil {
		return "", err
	}
	code := string(b)
	w.mu.Lock()
	w.last, w.seen = code, true
	w.mu.Unlock()
	return code, nil
}

func (w *watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}

	log := logger.With("editor")
	log.Info("watching shader", "path", w.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.reload()
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Warn("file watcher error", "error", err)
		}
	}
}

// reload reads the file and publishes it if the content changed since the last publication.
func (w *watcher) reload() {
	b, err := os.ReadFile(w.path)
	if err != nil {
		// renamed away mid-save; the following Create delivers the new content
		if !errors.Is(err, fs.ErrNotExist) {
			logger.With("editor").Warn("read shader", "path", w.path, "error", err)
		}
		return
	}
	code := string(b)

	w.mu.Lock()
	if w.seen && code == w.last {
		w.mu.Unlock()
		return
	}
	w.last, w.seen = code, true
	w.mu.Unlock()

	w.sink.Edited(code)
}

// Create writes content to path, creating parent directories. An existing file is only replaced
// when overwrite is set.
//
// Parameters:
//   - path: the file to create
//   - content: the initial document text
//   - overwrite: replace an existing file
//
// Returns:
//   - error: fs.ErrExist if the file exists and overwrite is false, or a write error
func Create(path, content string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s: %w", path, fs.ErrExist)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
