package dev

import (
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeKind classifies a file change by what has to happen next.
type ChangeKind int

const (
	// ChangeGo requires a rebuild and full reload.
	ChangeGo ChangeKind = iota
	// ChangeCSS can be hot-swapped without a reload.
	ChangeCSS
	// ChangeAsset requires a full reload but no rebuild.
	ChangeAsset
)

// Change is one debounced batch of filesystem changes.
type Change struct {
	Kind  ChangeKind
	Files []string
}

// Watcher watches project directories and delivers debounced change
// batches. Rapid saves (editors often write twice) collapse into one
// event.
type Watcher struct {
	fsw      *fsnotify.Watcher
	ignore   []string
	debounce time.Duration

	// Changes receives one Change per settled batch.
	Changes chan Change

	done chan struct{}
}

// NewWatcher creates a watcher over the given directories. Ignore
// patterns match against base names and slash-separated path
// fragments ("dist", "*.tmp", "node_modules").
func NewWatcher(dirs []string, ignore []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		ignore:   ignore,
		debounce: 100 * time.Millisecond,
		Changes:  make(chan Change, 16),
		done:     make(chan struct{}),
	}

	for _, dir := range dirs {
		if err := w.addRecursive(dir); err != nil {
			fsw.Close()
			return nil, err
		}
	}

	go w.run()
	return w, nil
}

// addRecursive watches dir and every subdirectory under it. fsnotify
// does not recurse on its own.
func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if w.ignored(path) {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

func (w *Watcher) run() {
	var (
		pending []string
		timer   *time.Timer
		timerC  <-chan time.Time
	)

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if w.ignored(event.Name) {
				continue
			}
			// New directories need their own watch.
			if event.Op&fsnotify.Create != 0 {
				w.addRecursive(event.Name)
			}
			pending = append(pending, event.Name)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-timerC:
			if len(pending) > 0 {
				w.Changes <- Change{Kind: classifyChange(pending), Files: pending}
				pending = nil
			}
			timer = nil
			timerC = nil

		case <-w.fsw.Errors:
			// Watch errors are transient; keep going.

		case <-w.done:
			return
		}
	}
}

// ignored reports whether path matches an ignore pattern.
func (w *Watcher) ignored(path string) bool {
	base := filepath.Base(path)
	slashed := filepath.ToSlash(path)
	for _, pattern := range w.ignore {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
		if strings.Contains(slashed, "/"+pattern+"/") || strings.HasSuffix(slashed, "/"+pattern) {
			return true
		}
	}
	return false
}

// classifyChange picks the strongest change kind in the batch. Any Go
// file forces a rebuild; otherwise CSS-only batches hot-swap.
func classifyChange(files []string) ChangeKind {
	kind := ChangeCSS
	for _, f := range files {
		switch strings.ToLower(filepath.Ext(f)) {
		case ".go", ".mod", ".sum":
			return ChangeGo
		case ".css":
		default:
			kind = ChangeAsset
		}
	}
	return kind
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
