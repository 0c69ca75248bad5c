package watcher

import (
	"sync"
	"time"
)

// DefaultDebounce is the default quiet period before a batch is delivered.
const DefaultDebounce = 200 * time.Millisecond

// debouncer runs the last scheduled callback once no new one has arrived
// for its duration.
type debouncer struct {
	duration time.Duration
	mu       sync.Mutex
	timer    *time.Timer
}

func newDebouncer(d time.Duration) *debouncer {
	if d <= 0 {
		d = DefaultDebounce
	}
	return &debouncer{duration: d}
}

func (d *debouncer) trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, fn)
}

func (d *debouncer) cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
