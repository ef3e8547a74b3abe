// Package watcher reruns documentation builds when source files change. It
// debounces filesystem events so a burst of editor writes triggers one
// rebuild, and can pause callback delivery while a build is in flight
// without losing events.
package watcher

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before changed files are delivered.
const DefaultDebounce = 500 * time.Millisecond

// Watcher monitors a project root for source file changes and delivers
// batches of changed paths after a debounce interval.
type Watcher struct {
	fs         *fsnotify.Watcher
	root       string
	extensions map[string]bool
	debounce   time.Duration

	callback func(files []string)
	ctx      context.Context
	cancel   context.CancelFunc

	paused   bool
	pausedMu sync.RWMutex

	pending   map[string]bool
	pendingMu sync.Mutex

	timer   *time.Timer
	timerMu sync.Mutex

	stopOnce sync.Once
	done     chan struct{}
}

// New creates a watcher over root. Only events for files whose extension
// appears in extensions (without leading dot, case-insensitive) are
// delivered. A debounce of zero uses DefaultDebounce.
func New(root string, extensions []string, debounce time.Duration) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	extMap := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		extMap[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}

	w := &Watcher{
		fs:         fs,
		root:       root,
		extensions: extMap,
		debounce:   debounce,
		pending:    make(map[string]bool),
		done:       make(chan struct{}),
	}
	if err := w.watchTree(root); err != nil {
		fs.Close()
		return nil, err
	}
	return w, nil
}

// Start begins delivering change batches to callback until the context is
// cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context, callback func(files []string)) {
	if callback == nil {
		return
	}
	w.callback = callback
	w.ctx, w.cancel = context.WithCancel(ctx)
	go w.run()
}

// Stop shuts the watcher down. Safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		if w.cancel != nil {
			w.cancel()
			<-w.done
		} else {
			close(w.done)
		}
		err = w.fs.Close()
	})
	return err
}

// Pause holds callback delivery while continuing to accumulate events.
func (w *Watcher) Pause() {
	w.pausedMu.Lock()
	defer w.pausedMu.Unlock()
	w.paused = true
}

// Resume re-enables delivery. Events accumulated while paused fire at once.
func (w *Watcher) Resume() {
	w.pausedMu.Lock()
	wasPaused := w.paused
	w.paused = false
	w.pausedMu.Unlock()

	if wasPaused {
		w.flush()
	}
}

func (w *Watcher) run() {
	defer close(w.done)

	expired := make(chan struct{}, 1)
	for {
		select {
		case <-w.ctx.Done():
			w.stopTimer()
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			// New directories must join the watch set before files
			// appear inside them.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.watchTree(event.Name); err != nil {
						log.Printf("Warning: failed to watch new directory %s: %v", event.Name, err)
					}
				}
			}
			if !w.wanted(event) {
				continue
			}
			w.pendingMu.Lock()
			w.pending[event.Name] = true
			w.pendingMu.Unlock()
			w.resetTimer(expired)

		case <-expired:
			w.pausedMu.RLock()
			paused := w.paused
			w.pausedMu.RUnlock()
			if !paused {
				w.flush()
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Printf("Watcher error: %v", err)
		}
	}
}

// flush delivers and clears the pending batch, if any.
func (w *Watcher) flush() {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	files := make([]string, 0, len(w.pending))
	for file := range w.pending {
		files = append(files, file)
	}
	w.pending = make(map[string]bool)
	w.pendingMu.Unlock()

	if w.callback != nil {
		w.callback(files)
	}
}

func (w *Watcher) resetTimer(expired chan struct{}) {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case expired <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) stopTimer() {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// wanted filters events down to writes, creates, removes, and renames of
// files with a monitored extension.
func (w *Watcher) wanted(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	ext := filepath.Ext(event.Name)
	if ext == "" {
		return false
	}
	return w.extensions[strings.ToLower(ext[1:])]
}

// watchTree adds every directory under rootPath to the watch set. Errors
// below the root are logged and skipped so one unreadable directory does
// not kill the watch.
func (w *Watcher) watchTree(rootPath string) error {
	return filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == rootPath {
				return err
			}
			log.Printf("Warning: error accessing %s: %v", path, err)
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		base := info.Name()
		if path != rootPath && (base == ".git" || base == ".hg" || base == ".svn" || base == "node_modules") {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			log.Printf("Warning: failed to watch directory %s: %v", path, err)
		}
		return nil
	})
}
