package watcher

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

type batches struct {
	mu  sync.Mutex
	got [][]string
	ch  chan struct{}
}

func newBatches() *batches { return &batches{ch: make(chan struct{}, 16)} }

func (b *batches) handle(paths []string) {
	b.mu.Lock()
	b.got = append(b.got, paths)
	b.mu.Unlock()
	b.ch <- struct{}{}
}

func (b *batches) wait(t *testing.T) []string {
	t.Helper()
	select {
	case <-b.ch:
	case <-time.After(2 * time.Second):
		t.Fatal("no batch delivered")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.got[len(b.got)-1]
}

func TestEventsCoalesceIntoOneBatch(t *testing.T) {
	b := newBatches()
	w, err := New(b.handle, WithDebounce(30*time.Millisecond))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer w.Close()

	w.handleEvent(fsnotify.Event{Name: "/s/b.json", Op: fsnotify.Write})
	w.handleEvent(fsnotify.Event{Name: "/s/a.json", Op: fsnotify.Create})
	w.handleEvent(fsnotify.Event{Name: "/s/b.json", Op: fsnotify.Write})

	got := b.wait(t)
	if len(got) != 2 || got[0] != "/s/a.json" || got[1] != "/s/b.json" {
		t.Errorf("batch = %v", got)
	}
}

func TestFilterAndRemoveIgnored(t *testing.T) {
	b := newBatches()
	w, err := New(b.handle,
		WithDebounce(20*time.Millisecond),
		WithFilter(func(p string) bool { return strings.HasSuffix(p, ".yaml") }),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	w.handleEvent(fsnotify.Event{Name: "/s/notes.txt", Op: fsnotify.Write})
	w.handleEvent(fsnotify.Event{Name: "/s/gone.yaml", Op: fsnotify.Remove})
	w.handleEvent(fsnotify.Event{Name: "/s/kept.yaml", Op: fsnotify.Write})

	got := b.wait(t)
	if len(got) != 1 || got[0] != "/s/kept.yaml" {
		t.Errorf("batch = %v", got)
	}
}

func TestWatchDirectory(t *testing.T) {
	dir := t.TempDir()
	b := newBatches()
	w, err := New(b.handle, WithDebounce(50*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}

	path := filepath.Join(dir, "new.json")
	if err := os.WriteFile(path, []byte(`{"actions":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	got := b.wait(t)
	if len(got) == 0 || got[0] != path {
		t.Errorf("batch = %v, want %s", got, path)
	}
}

func TestClose(t *testing.T) {
	w, err := New(func([]string) {})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
	if err := w.Add(t.TempDir()); err != ErrClosed {
		t.Errorf("Add after Close = %v, want ErrClosed", err)
	}
}
