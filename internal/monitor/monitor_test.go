package monitor

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mj1618/desktop-scenarios/internal/action/actiontest"
	"github.com/mj1618/desktop-scenarios/internal/slot"
)

type execLog struct {
	mu       sync.Mutex
	payloads []string
	active   atomic.Int32
	peak     atomic.Int32
	release  chan struct{}
}

func (e *execLog) exec(_ context.Context, payload string) {
	n := e.active.Add(1)
	if n > e.peak.Load() {
		e.peak.Store(n)
	}
	e.mu.Lock()
	e.payloads = append(e.payloads, payload)
	e.mu.Unlock()
	if e.release != nil {
		<-e.release
	}
	e.active.Add(-1)
}

func (e *execLog) got() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.payloads...)
}

func newTestMonitor(e *execLog) (*Monitor, *actiontest.Clipboard, *slot.Slot) {
	cb := &actiontest.Clipboard{}
	s := slot.New()
	m := New(Config{Interval: 10 * time.Millisecond, AcquireTimeout: 30 * time.Millisecond}, cb, s, e.exec, nil)
	return m, cb, s
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestTriggerExecutesOnce(t *testing.T) {
	e := &execLog{}
	m, cb, s := newTestMonitor(e)
	ctx := context.Background()
	_ = cb.SetText(DefaultPrefix + `{"actionName":"a"}`)

	if err := m.poll(ctx); err != nil {
		t.Fatal(err)
	}
	m.wg.Wait()
	if err := m.poll(ctx); err != nil {
		t.Fatal(err)
	}
	m.wg.Wait()

	if got := e.got(); len(got) != 1 || got[0] != `{"actionName":"a"}` {
		t.Errorf("payloads = %v", got)
	}
	if s.Held() {
		t.Error("slot should be released after execution")
	}
}

func TestNonTriggerContentIgnored(t *testing.T) {
	e := &execLog{}
	m, cb, _ := newTestMonitor(e)
	_ = cb.SetText("just some copied text")
	if err := m.poll(context.Background()); err != nil {
		t.Fatal(err)
	}
	m.wg.Wait()
	if len(e.got()) != 0 {
		t.Error("non-trigger content should not execute")
	}
	if m.last != "just some copied text" {
		t.Errorf("last = %q", m.last)
	}
}

func TestHeldSlotSkipsTick(t *testing.T) {
	e := &execLog{}
	m, cb, s := newTestMonitor(e)
	s.TryAcquire(context.Background(), 0)
	_ = cb.SetText(DefaultPrefix + `{"actionName":"a"}`)
	if err := m.poll(context.Background()); err != nil {
		t.Fatal(err)
	}
	if cb.Reads() != 0 {
		t.Error("channel should not be read while the slot is held")
	}
	if len(e.got()) != 0 {
		t.Error("nothing should execute while the slot is held")
	}
}

func TestBackToBackTriggersDoNotOverlap(t *testing.T) {
	e := &execLog{release: make(chan struct{})}
	m, cb, _ := newTestMonitor(e)
	ctx := context.Background()

	_ = cb.SetText(DefaultPrefix + `{"actionName":"first"}`)
	if err := m.poll(ctx); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return len(e.got()) == 1 })

	_ = cb.SetText(DefaultPrefix + `{"actionName":"second"}`)
	for i := 0; i < 5; i++ {
		if err := m.poll(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if len(e.got()) != 1 {
		t.Fatalf("second trigger started while first in flight: %v", e.got())
	}

	e.release <- struct{}{}
	waitFor(t, func() bool { return !m.slot.Held() })
	if err := m.poll(ctx); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return len(e.got()) == 2 })
	e.release <- struct{}{}
	m.wg.Wait()

	if e.peak.Load() != 1 {
		t.Errorf("peak concurrent executions = %d, want 1", e.peak.Load())
	}
}

func TestAcquireTimeoutRestoresLast(t *testing.T) {
	e := &execLog{}
	m, _, s := newTestMonitor(e)
	m.last = "previous clipboard"
	s.TryAcquire(context.Background(), 0)

	trigger := DefaultPrefix + `{"actionName":"a"}`
	m.observe(context.Background(), trigger)
	if m.last != "previous clipboard" {
		t.Errorf("last = %q, want previous content restored", m.last)
	}
	if len(e.got()) != 0 {
		t.Error("nothing should execute on acquire timeout")
	}

	s.Release()
	m.observe(context.Background(), trigger)
	m.wg.Wait()
	if len(e.got()) != 1 {
		t.Error("same trigger should fire once the slot is free")
	}
}

func TestReadErrorReported(t *testing.T) {
	e := &execLog{}
	m, cb, _ := newTestMonitor(e)
	cb.SetReadErr(actiontest.ErrFake)
	if err := m.poll(context.Background()); err == nil {
		t.Fatal("expected read error")
	}
}

func TestPanicReleasesSlot(t *testing.T) {
	cb := &actiontest.Clipboard{}
	s := slot.New()
	m := New(Config{}, cb, s, func(context.Context, string) { panic("boom") }, nil)
	var recovered atomic.Value
	m.OnPanic(func(v any, _ []byte) { recovered.Store(v) })

	_ = cb.SetText(DefaultPrefix + `{"actionName":"a"}`)
	if err := m.poll(context.Background()); err != nil {
		t.Fatal(err)
	}
	m.wg.Wait()
	if s.Held() {
		t.Error("slot still held after panic")
	}
	if recovered.Load() != "boom" {
		t.Errorf("recovered = %v", recovered.Load())
	}
}

func TestPrimeIgnoresExistingContent(t *testing.T) {
	e := &execLog{}
	m, cb, _ := newTestMonitor(e)
	_ = cb.SetText(DefaultPrefix + `{"actionName":"stale"}`)
	m.Prime()
	if err := m.poll(context.Background()); err != nil {
		t.Fatal(err)
	}
	m.wg.Wait()
	if len(e.got()) != 0 {
		t.Error("primed content should not trigger")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	e := &execLog{}
	m, cb, _ := newTestMonitor(e)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	_ = cb.SetText(DefaultPrefix + `{"actionName":"live"}`)
	waitFor(t, func() bool { return len(e.got()) == 1 })
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
