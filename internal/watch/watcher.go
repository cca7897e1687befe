package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"logviewer/internal/errors"
	"logviewer/internal/log"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
)

// Change is a filesystem event seen in the watched directory
type Change struct {
	Path      string
	Op        fsnotify.Op
	Timestamp time.Time
}

// Watcher reports changes to the entries of one directory using fsnotify.
// Entries whose base name matches an ignore pattern are never registered
// and their events are dropped.
type Watcher struct {
	// Paths registered with fsnotify
	paths []string

	// Directory passed to the last Watch call
	root string

	ignore []glob.Glob

	// Channel to receive changes
	changes chan Change

	// Channel to signal stop
	stopChan chan struct{}

	// Closed when the event loop has returned
	done chan struct{}

	fsWatcher *fsnotify.Watcher
	logger    *log.Logger

	// Lock for running state and the path list
	mutex sync.RWMutex

	running bool
	closed  bool
}

// New creates a watcher. Ignore patterns use glob syntax and are matched
// against base names.
func New(ignore []string, logger *log.Logger) (*Watcher, error) {
	compiled := make([]glob.Glob, 0, len(ignore))
	for _, pattern := range ignore {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.NewConfigError("invalid ignore pattern", pattern, errors.InvalidConfig, err)
		}
		compiled = append(compiled, g)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if logger == nil {
		logger = log.Default()
	}

	return &Watcher{
		ignore:    compiled,
		changes:   make(chan Change, 32),
		stopChan:  make(chan struct{}),
		fsWatcher: fsWatcher,
		logger:    logger,
	}, nil
}

// Ignored reports whether path's base name matches an ignore pattern.
func (w *Watcher) Ignored(path string) bool {
	name := filepath.Base(path)
	for _, g := range w.ignore {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Watch replaces the registered paths with dir and its top-level
// subdirectories, skipping ignored entries. It returns the registered
// paths.
func (w *Watcher) Watch(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.NewFileError("error accessing directory", dir, errors.FileNotFound, err)
	}
	if !info.IsDir() {
		return nil, errors.NewFileError("not a directory", dir, errors.InvalidPath, nil)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.NewFileError("error reading directory", dir, errors.FileAccessDenied, err)
	}

	w.mutex.Lock()
	defer w.mutex.Unlock()

	for _, p := range w.paths {
		// The path may already be gone
		_ = w.fsWatcher.Remove(p)
	}
	w.paths = w.paths[:0]
	w.root = dir

	candidates := []string{dir}
	for _, e := range entries {
		if e.IsDir() {
			candidates = append(candidates, filepath.Join(dir, e.Name()))
		}
	}
	for _, p := range candidates {
		if p != dir && w.Ignored(p) {
			continue
		}
		if err := w.fsWatcher.Add(p); err != nil {
			w.logger.With(log.F("path", p), log.F("error", err)).Warn("Failed to register path")
			continue
		}
		w.paths = append(w.paths, p)
	}
	sort.Strings(w.paths)

	w.logger.With(log.F("directory", dir), log.F("paths", len(w.paths))).Info("Watching directory")
	return append([]string(nil), w.paths...), nil
}

// Changes returns the channel that delivers changes. It is closed by Stop.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Start begins delivering events.
func (w *Watcher) Start() error {
	w.mutex.Lock()
	if w.running || w.closed {
		w.mutex.Unlock()
		return fmt.Errorf("watcher already running or stopped")
	}
	w.running = true
	w.stopChan = make(chan struct{})
	w.done = make(chan struct{})
	stop, done := w.stopChan, w.done
	w.mutex.Unlock()

	go func() {
		defer close(done)
		w.loop(stop)
	}()

	w.logger.Debug("Watcher started")
	return nil
}

func (w *Watcher) loop(stop chan struct{}) {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			// Permission changes do not alter what the viewer shows
			if event.Op == fsnotify.Chmod || w.Ignored(event.Name) {
				continue
			}

			change := Change{Path: event.Name, Op: event.Op, Timestamp: time.Now()}
			w.logger.With(log.F("path", change.Path), log.F("op", change.Op.String())).Debug("File changed")

			select {
			case w.changes <- change:
			case <-stop:
				return
			default:
				w.logger.With(log.F("path", event.Name)).Warn("Change channel is full, dropped event")
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.With(log.F("error", err)).Error("fsnotify watcher error")

		case <-stop:
			return
		}
	}
}

// Stop halts the watcher, releases fsnotify and closes the change
// channel. A stopped watcher cannot be restarted.
func (w *Watcher) Stop() {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.closed {
		return
	}
	w.closed = true

	if w.running {
		close(w.stopChan)
	}
	if err := w.fsWatcher.Close(); err != nil {
		w.logger.With(log.F("error", err)).Error("Error closing fsnotify watcher")
	}
	if w.running {
		// The loop must be gone before the channel it sends on is closed
		<-w.done
		w.running = false
	}
	close(w.changes)

	w.logger.Debug("Watcher stopped")
}

// IsRunning returns whether the watcher is currently active
func (w *Watcher) IsRunning() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.running
}

// Paths returns the registered paths.
func (w *Watcher) Paths() []string {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return append([]string(nil), w.paths...)
}

// Root returns the directory passed to the last Watch call.
func (w *Watcher) Root() string {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.root
}
