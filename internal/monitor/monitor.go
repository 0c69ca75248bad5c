// Package monitor polls the clipboard for trigger payloads and hands each
// one to an executor, never running two executions at once.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/mj1618/desktop-scenarios/internal/logging"
	"github.com/mj1618/desktop-scenarios/internal/platform"
	"github.com/mj1618/desktop-scenarios/internal/slot"
)

// Executor runs one trigger payload (the text after the prefix). It is
// called on its own goroutine while the caller holds the slot.
type Executor func(ctx context.Context, payload string)

// Config controls polling.
type Config struct {
	Prefix         string
	Interval       time.Duration
	AcquireTimeout time.Duration
	ErrorBackoff   time.Duration
}

func (c Config) withDefaults() Config {
	if c.Prefix == "" {
		c.Prefix = DefaultPrefix
	}
	if c.Interval <= 0 {
		c.Interval = time.Second
	}
	if c.AcquireTimeout <= 0 {
		c.AcquireTimeout = time.Second
	}
	if c.ErrorBackoff <= 0 {
		c.ErrorBackoff = 5 * c.Interval
	}
	return c
}

// PanicHandler is told about a panic that escaped an execution.
type PanicHandler func(v any, stack []byte)

// Monitor is the trigger polling loop.
type Monitor struct {
	cfg     Config
	channel platform.ClipboardManager
	slot    *slot.Slot
	exec    Executor
	log     *slog.Logger
	onPanic PanicHandler

	// last is only touched by the polling goroutine.
	last string
	wg   sync.WaitGroup
}

// New creates a monitor reading from channel and executing through exec.
func New(cfg Config, channel platform.ClipboardManager, s *slot.Slot, exec Executor, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Monitor{
		cfg:     cfg.withDefaults(),
		channel: channel,
		slot:    s,
		exec:    exec,
		log:     logger,
	}
}

// OnPanic sets the callback for panics recovered from executions.
func (m *Monitor) OnPanic(fn PanicHandler) { m.onPanic = fn }

// Prime records the current channel content as already seen, so stale
// content present at startup does not trigger.
func (m *Monitor) Prime() {
	if text, err := m.channel.GetText(); err == nil {
		m.last = text
	}
}

// Run polls until ctx is done, then waits for an in-flight execution to
// return.
func (m *Monitor) Run(ctx context.Context) error {
	m.log.Info("monitoring clipboard for triggers", "prefix", m.cfg.Prefix, "interval", m.cfg.Interval)
	defer m.wg.Wait()
	for {
		wait := m.cfg.Interval
		if err := m.poll(ctx); err != nil {
			m.log.Warn("clipboard read failed, backing off", "error", err, "backoff", m.cfg.ErrorBackoff)
			wait = m.cfg.ErrorBackoff
		}
		select {
		case <-ctx.Done():
			m.log.Info("monitor stopping")
			return nil
		case <-time.After(wait):
		}
	}
}

// poll performs one tick. It returns an error only for channel read
// failures.
func (m *Monitor) poll(ctx context.Context) error {
	if m.slot.Held() {
		return nil
	}
	text, err := m.channel.GetText()
	if err != nil {
		return err
	}
	m.observe(ctx, text)
	return nil
}

// observe handles freshly read channel content.
func (m *Monitor) observe(ctx context.Context, text string) {
	if text == m.last {
		return
	}
	previous := m.last
	m.last = text
	if !strings.HasPrefix(text, m.cfg.Prefix) {
		return
	}

	m.log.Info("trigger detected")
	if !m.slot.TryAcquire(ctx, m.cfg.AcquireTimeout) {
		m.log.Warn("could not acquire execution slot, skipping trigger", "timeout", m.cfg.AcquireTimeout)
		m.last = previous
		return
	}
	m.log.Debug("execution slot acquired")

	payload := text[len(m.cfg.Prefix):]
	m.wg.Add(1)
	go m.execute(ctx, payload)
}

func (m *Monitor) execute(ctx context.Context, payload string) {
	defer m.wg.Done()
	defer func() {
		if v := recover(); v != nil {
			stack := debug.Stack()
			m.log.Error("execution panicked", "panic", fmt.Sprint(v), "stack", string(stack))
			if m.onPanic != nil {
				m.onPanic(v, stack)
			}
		}
		m.slot.Release()
		m.log.Debug("execution slot released")
	}()
	m.exec(ctx, payload)
}
