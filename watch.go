// FILE: lixenwraith/configer/watch.go
package configer

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// WatchOptions configures setting file watching.
type WatchOptions struct {
	// PollInterval for file stat checks (minimum MinPollInterval)
	PollInterval time.Duration

	// Debounce duration to coalesce rapid writes to one file
	Debounce time.Duration
}

// DefaultWatchOptions returns the defaults used by `configer watch`.
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		PollInterval: DefaultPollInterval,
		Debounce:     DefaultDebounce,
	}
}

// ChangeHandler is called with the path of a setting file that changed.
type ChangeHandler func(path string) error

type fileState struct {
	modTime time.Time
	size    int64
	missing bool
}

// Watcher polls setting files and calls a handler once per burst of changes.
// Handler calls are serialized.
type Watcher struct {
	mu       sync.Mutex
	opts     WatchOptions
	files    map[string]fileState
	timers   map[string]*pendingFire
	handler  ChangeHandler
	logger   *slog.Logger
	inflight sync.WaitGroup
	handling sync.Mutex
	running  atomic.Bool
}

// NewWatcher creates a watcher for paths. Files that do not exist yet are reported
// once they appear.
func NewWatcher(opts WatchOptions, paths ...string) *Watcher {
	if opts.PollInterval < MinPollInterval {
		opts.PollInterval = MinPollInterval
	}
	if opts.Debounce < 0 {
		opts.Debounce = 0
	}

	w := &Watcher{
		opts:   opts,
		files:  make(map[string]fileState, len(paths)),
		timers: make(map[string]*pendingFire),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, p := range paths {
		w.files[p] = statFile(p)
	}
	return w
}

// WithLogger sets the logger used for change and error records.
func (w *Watcher) WithLogger(l *slog.Logger) *Watcher {
	if l != nil {
		w.logger = l
	}
	return w
}

// Paths returns the watched paths in lexical order.
func (w *Watcher) Paths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	paths := make([]string, 0, len(w.files))
	for p := range w.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Run polls until ctx is done, then waits for a running handler to return.
// Handler errors are logged and do not stop the watcher.
func (w *Watcher) Run(ctx context.Context, handler ChangeHandler) error {
	if !w.running.CompareAndSwap(false, true) {
		return nil // Already running
	}
	defer w.running.Store(false)

	w.mu.Lock()
	w.handler = handler
	w.mu.Unlock()

	ticker := time.NewTicker(w.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.stop()
			return ctx.Err()
		case <-ticker.C:
			w.poll()
		}
	}
}

// IsRunning reports whether Run is active.
func (w *Watcher) IsRunning() bool {
	return w.running.Load()
}

func (s fileState) same(o fileState) bool {
	return s.missing == o.missing && s.size == o.size && s.modTime.Equal(o.modTime)
}

func statFile(path string) fileState {
	info, err := os.Stat(path)
	if err != nil {
		return fileState{missing: true}
	}
	return fileState{modTime: info.ModTime(), size: info.Size()}
}

// poll compares every file with its last known state and debounces changes.
func (w *Watcher) poll() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for path, last := range w.files {
		current := statFile(path)
		if current.same(last) {
			continue
		}
		w.files[path] = current

		if current.missing {
			w.logger.Warn("setting file removed", "path", path)
			continue
		}

		if prev, ok := w.timers[path]; ok && prev.timer.Stop() {
			w.inflight.Done()
		}
		w.inflight.Add(1)
		p, pf := path, &pendingFire{}
		pf.timer = time.AfterFunc(w.opts.Debounce, func() {
			defer w.inflight.Done()
			w.fire(p, pf)
		})
		w.timers[path] = pf
	}
}

// pendingFire identifies one scheduled debounce timer.
type pendingFire struct {
	timer *time.Timer
}

// fire runs the handler unless pf was superseded by a newer timer or cancelled by stop.
func (w *Watcher) fire(path string, pf *pendingFire) {
	w.mu.Lock()
	if w.timers[path] != pf {
		w.mu.Unlock()
		return
	}
	delete(w.timers, path)
	handler := w.handler
	w.mu.Unlock()

	if handler == nil {
		return
	}

	w.handling.Lock()
	defer w.handling.Unlock()

	w.logger.Debug("setting file changed", "path", path)
	if err := handler(path); err != nil {
		w.logger.Error("change handler failed", "path", path, "error", err)
	}
}

// stop cancels pending debounce timers and waits briefly for a running handler.
func (w *Watcher) stop() {
	w.mu.Lock()
	for path, pf := range w.timers {
		if pf.timer.Stop() {
			w.inflight.Done()
		}
		delete(w.timers, path)
	}
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.inflight.Wait()
		close(done)
	}()

	deadline := time.Now().Add(ShutdownTimeout)
	for time.Now().Before(deadline) {
		select {
		case <-done:
			return
		default:
			time.Sleep(SpinWaitInterval)
		}
	}
}
