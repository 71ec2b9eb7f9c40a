package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"driftwood/internal/entity"
	"driftwood/pkg/logging"
)

// Event describes one observed artifact change, after debouncing.
type Event struct {
	// Path is the file that changed.
	Path string

	// Timestamp is when the change was last observed.
	Timestamp time.Time
}

// Watcher watches the parent directories of managed artifacts and emits a
// debounced Event per changed file. It powers `driftwood reconcile --watch`:
// every emitted event triggers another reconciliation pass.
//
// Repairs performed by the reconciler are themselves filesystem writes, so
// a pass that repaired something triggers one follow-up event; that pass
// finds everything correct and writes nothing, which settles the loop.
type Watcher struct {
	mu sync.RWMutex

	// dirs is the set of watched directories
	dirs map[string]bool

	// watched maps artifact paths we care about; events for other files in
	// the same directory are ignored
	watched map[string]bool

	// watcher is the fsnotify watcher instance
	watcher *fsnotify.Watcher

	// debounceInterval is how long to wait for additional changes
	debounceInterval time.Duration

	// pending tracks pending debounced events per path
	pending map[string]*time.Timer

	// stopCh signals shutdown
	stopCh chan struct{}

	// running indicates if the watcher is active
	running bool
}

// New creates a watcher with the given debounce interval (500ms when zero).
func New(debounceInterval time.Duration) *Watcher {
	if debounceInterval == 0 {
		debounceInterval = 500 * time.Millisecond
	}

	return &Watcher{
		dirs:             make(map[string]bool),
		watched:          make(map[string]bool),
		debounceInterval: debounceInterval,
		pending:          make(map[string]*time.Timer),
		stopCh:           make(chan struct{}),
	}
}

// AddEntities registers the artifacts of entities for watching. Must be
// called before Start.
func (w *Watcher) AddEntities(entities []entity.Entity) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, e := range entities {
		loc := e.Location()
		path := filepath.Join(loc.Dir, loc.Name+loc.Ext)
		w.watched[path] = true
		w.dirs[loc.Dir] = true
	}
}

// Start begins watching. Events are delivered on changes until ctx is done
// or Stop is called.
func (w *Watcher) Start(ctx context.Context, changes chan<- Event) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return fmt.Errorf("failed to create filesystem watcher: %w", err)
	}

	w.watcher = fsWatcher
	w.running = true
	w.stopCh = make(chan struct{})
	w.mu.Unlock()

	if err := w.setupWatches(); err != nil {
		w.Stop()
		return err
	}

	go w.processEvents(ctx, changes)

	logging.Info("Watcher", "Watching %d directories for artifact changes", len(w.dirs))
	return nil
}

// Stop shuts the watcher down and cancels pending debounced events.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	w.running = false
	close(w.stopCh)
	if w.watcher != nil {
		w.watcher.Close()
	}
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) setupWatches() error {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for dir := range w.dirs {
		// The directory may not exist until the first reconciliation
		// creates it.
		if err := os.MkdirAll(dir, 0755); err != nil {
			logging.Warn("Watcher", "Failed to create watch directory %s: %v", dir, err)
			continue
		}
		if err := w.watcher.Add(dir); err != nil {
			logging.Warn("Watcher", "Failed to watch %s: %v", dir, err)
			continue
		}
		logging.Debug("Watcher", "Watching directory: %s", dir)
	}

	return nil
}

func (w *Watcher) processEvents(ctx context.Context, changes chan<- Event) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFsEvent(event, changes)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Error("Watcher", err, "Filesystem watcher error")
		}
	}
}

func (w *Watcher) handleFsEvent(event fsnotify.Event, changes chan<- Event) {
	if isTempFile(event.Name) {
		return
	}

	w.mu.RLock()
	relevant := w.watched[filepath.Clean(event.Name)]
	w.mu.RUnlock()
	if !relevant {
		return
	}

	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	w.debounce(filepath.Clean(event.Name), changes)
}

// debounce coalesces rapid successive changes to the same artifact into a
// single event.
func (w *Watcher) debounce(path string, changes chan<- Event) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Stop()
	}

	w.pending[path] = time.AfterFunc(w.debounceInterval, func() {
		w.mu.Lock()
		delete(w.pending, path)
		running := w.running
		w.mu.Unlock()
		if !running {
			return
		}

		select {
		case changes <- Event{Path: path, Timestamp: time.Now()}:
			logging.Debug("Watcher", "Emitted change event for %s", path)
		default:
			logging.Warn("Watcher", "Change event channel full, dropping event for %s", path)
		}
	})
}

// isTempFile filters editor and tooling scratch files that share the
// artifact's directory.
func isTempFile(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".tmp") ||
		strings.HasPrefix(base, ".#")
}
