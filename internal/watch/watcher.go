// Package watch reports changes to individual data files so the grid showing
// them can reload.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must stay quiet before a change is
// reported.
const DefaultDebounce = 200 * time.Millisecond

// FileWatcher watches files for writes and replacements. Editors often save
// by renaming a temp file over the original, which drops an inode watch, so
// the parent directory is watched and events are filtered by name.
type FileWatcher struct {
	mu sync.Mutex

	watcher   *fsnotify.Watcher
	files     map[string]bool
	dirs      map[string]int // directory -> number of watched files in it
	onChanged func(path string)
	onError   func(error)
	debounce  time.Duration
	closeOnce sync.Once
}

// NewFileWatcher creates a watcher calling onChanged with the watched path
// after each burst of changes settles.
func NewFileWatcher(onChanged func(path string)) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &FileWatcher{
		watcher:   watcher,
		files:     make(map[string]bool),
		dirs:      make(map[string]int),
		onChanged: onChanged,
		debounce:  DefaultDebounce,
	}, nil
}

// SetDebounce changes the quiet period. Call before Run.
func (fw *FileWatcher) SetDebounce(d time.Duration) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.debounce = d
}

// OnError registers a callback for watcher errors. They are dropped otherwise.
func (fw *FileWatcher) OnError(fn func(error)) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.onError = fn
}

// Watch starts watching path.
func (fw *FileWatcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.files[abs] {
		return nil
	}
	dir := filepath.Dir(abs)
	if fw.dirs[dir] == 0 {
		if err := fw.watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	fw.dirs[dir]++
	fw.files[abs] = true
	return nil
}

// Unwatch stops watching path.
func (fw *FileWatcher) Unwatch(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if !fw.files[abs] {
		return
	}
	delete(fw.files, abs)
	dir := filepath.Dir(abs)
	fw.dirs[dir]--
	if fw.dirs[dir] <= 0 {
		delete(fw.dirs, dir)
		_ = fw.watcher.Remove(dir)
	}
}

// IsWatching reports whether path is watched.
func (fw *FileWatcher) IsWatching(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return fw.files[abs]
}

// Run processes file system events until the context is canceled or the watcher closes.
func (fw *FileWatcher) Run(ctx context.Context) error {
	pending := make(map[string]bool)
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			name := filepath.Clean(event.Name)
			fw.mu.Lock()
			watched := fw.files[name]
			debounce := fw.debounce
			fw.mu.Unlock()
			if !watched {
				continue
			}
			pending[name] = true
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			for name := range pending {
				if fw.onChanged != nil && fw.IsWatching(name) {
					fw.onChanged(name)
				}
				delete(pending, name)
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			fw.mu.Lock()
			onError := fw.onError
			fw.mu.Unlock()
			if onError != nil {
				onError(err)
			}
		}
	}
}

// Close stops the watcher and releases resources
func (fw *FileWatcher) Close() error {
	var err error
	fw.closeOnce.Do(func() {
		err = fw.watcher.Close()
	})
	return err
}
