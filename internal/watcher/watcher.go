// Package watcher reports debounced changes to scenario files.
package watcher

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrClosed is returned by Add after Close.
var ErrClosed = errors.New("watcher: watcher is closed")

// Handler receives the sorted, de-duplicated paths changed in one batch.
type Handler func(paths []string)

// ErrorHandler is called for watch errors.
type ErrorHandler func(err error)

// Watcher watches files and directories. Only paths accepted by the
// filter are reported; removals are not.
type Watcher struct {
	fs        *fsnotify.Watcher
	debounce  *debouncer
	handler   Handler
	onError   ErrorHandler
	filter    func(path string) bool
	done      chan struct{}
	closeOnce sync.Once

	mu      sync.Mutex
	pending map[string]struct{}
	closed  bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = newDebouncer(d) }
}

// WithFilter restricts reported paths.
func WithFilter(fn func(path string) bool) Option {
	return func(w *Watcher) { w.filter = fn }
}

// WithErrorHandler sets the error handler.
func WithErrorHandler(fn ErrorHandler) Option {
	return func(w *Watcher) { w.onError = fn }
}

// New starts a watcher delivering batches to handler.
func New(handler Handler, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{
		fs:       fsw,
		debounce: newDebouncer(DefaultDebounce),
		handler:  handler,
		done:     make(chan struct{}),
		pending:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	go w.run()
	return w, nil
}

// Add watches path. A directory reports changes to its direct entries.
func (w *Watcher) Add(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	return w.fs.Add(abs)
}

// Close stops the watcher. Pending batches are dropped.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		w.mu.Lock()
		w.closed = true
		w.mu.Unlock()
		w.debounce.cancel()
		err = w.fs.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			if w.onError != nil {
				w.onError(err)
			}
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Rename) {
		return
	}
	if w.filter != nil && !w.filter(ev.Name) {
		return
	}
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.pending[ev.Name] = struct{}{}
	w.mu.Unlock()
	w.debounce.trigger(w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	if w.closed || len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	sort.Strings(paths)
	w.handler(paths)
}
