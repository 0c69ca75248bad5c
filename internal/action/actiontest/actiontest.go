// Package actiontest provides in-memory fakes of the collaborators a
// handler calls into.
package actiontest

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mj1618/desktop-scenarios/internal/action"
	"github.com/mj1618/desktop-scenarios/internal/platform"
	"github.com/mj1618/desktop-scenarios/internal/vars"
)

// Message is one DisplayMessage call.
type Message struct {
	Title   string
	Body    string
	IsError bool
}

// Dialog records messages and answers forms from FormValues.
type Dialog struct {
	mu         sync.Mutex
	Messages   []Message
	FormValues map[string]string
	FormCancel bool
	FormErr    error
	Forms      [][]action.FormField
}

func (d *Dialog) DisplayMessage(title, body string, isError bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Messages = append(d.Messages, Message{Title: title, Body: body, IsError: isError})
}

func (d *Dialog) PromptForm(_ string, fields []action.FormField) (map[string]string, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Forms = append(d.Forms, fields)
	if d.FormErr != nil {
		return nil, false, d.FormErr
	}
	if d.FormCancel {
		return nil, false, nil
	}
	return d.FormValues, true, nil
}

// Errors returns the messages shown with isError set.
func (d *Dialog) Errors() []Message {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []Message
	for _, m := range d.Messages {
		if m.IsError {
			out = append(out, m)
		}
	}
	return out
}

// All returns a copy of every message shown so far.
func (d *Dialog) All() []Message {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Message(nil), d.Messages...)
}

// Inputter records input calls as readable strings.
type Inputter struct {
	mu    sync.Mutex
	Calls []string
	Err   error
}

func (in *Inputter) record(format string, args ...any) error {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.Calls = append(in.Calls, fmt.Sprintf(format, args...))
	return in.Err
}

func (in *Inputter) Click(x, y int, button platform.MouseButton, count int) error {
	return in.record("click %s %d,%d x%d", button, x, y, count)
}

func (in *Inputter) MoveMouse(x, y int) error {
	return in.record("move %d,%d", x, y)
}

func (in *Inputter) TypeText(text string, _ int) error {
	return in.record("type %s", text)
}

func (in *Inputter) KeyCombo(keys []string) error {
	return in.record("key %v", keys)
}

// Clipboard is an in-memory clipboard. Reads fail while ReadErr is set.
type Clipboard struct {
	mu      sync.Mutex
	text    string
	ReadErr error
	reads   int
}

func (c *Clipboard) GetText() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reads++
	if c.ReadErr != nil {
		return "", c.ReadErr
	}
	return c.text, nil
}

func (c *Clipboard) SetText(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = text
	return nil
}

// SetReadErr changes the read error under the lock.
func (c *Clipboard) SetReadErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ReadErr = err
}

// Reads returns how many times GetText was called.
func (c *Clipboard) Reads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reads
}

// Provider returns a platform.Provider over fresh fakes.
func Provider() (*platform.Provider, *Inputter, *Clipboard) {
	in := &Inputter{}
	cb := &Clipboard{}
	return &platform.Provider{Inputter: in, ClipboardManager: cb}, in, cb
}

// Speaker records spoken text.
type Speaker struct {
	Spoken []string
	Err    error
}

func (s *Speaker) Speak(text string) error {
	s.Spoken = append(s.Spoken, text)
	return s.Err
}

// Overlay hands out Highlights that report a click once ClickAfter elapses.
// A zero ClickAfter with Click unset never reports a click.
type Overlay struct {
	Click      bool
	ClickAfter time.Duration
	Err        error
	Shown      []platform.Bounds
	Last       *Highlight
}

func (o *Overlay) Show(rect platform.Bounds, _ action.Style, _ string) (action.Highlight, error) {
	if o.Err != nil {
		return nil, o.Err
	}
	o.Shown = append(o.Shown, rect)
	h := &Highlight{click: o.Click, at: time.Now().Add(o.ClickAfter)}
	o.Last = h
	return h, nil
}

// Highlight is the handle returned by Overlay.Show.
type Highlight struct {
	click  bool
	at     time.Time
	Closes int
}

func (h *Highlight) WaitForClickWithin(timeout time.Duration) bool {
	if !h.click {
		time.Sleep(timeout)
		return false
	}
	if wait := time.Until(h.at); wait > 0 {
		if wait > timeout {
			time.Sleep(timeout)
			return false
		}
		time.Sleep(wait)
	}
	return true
}

func (h *Highlight) Close() error {
	h.Closes++
	return nil
}

// Call is one recorded handler invocation.
type Call struct {
	Type string
	Data map[string]any
}

// Recorder counts handler invocations across every Handler it builds.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
}

// Handler returns a handler that records the call and returns result.
// If before is non-nil it runs first, with the call's context.
func (r *Recorder) Handler(result bool, before func(data map[string]any, v vars.Vars, rc *action.Context)) action.Handler {
	return action.HandlerFunc(func(data map[string]any, v vars.Vars, rc *action.Context) bool {
		r.mu.Lock()
		r.calls = append(r.calls, Call{Type: rc.Step.Type, Data: data})
		r.mu.Unlock()
		if before != nil {
			before(data, v, rc)
		}
		return result
	})
}

// Calls returns a copy of the recorded invocations.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Types returns the step types in invocation order.
func (r *Recorder) Types() []string {
	var out []string
	for _, c := range r.Calls() {
		out = append(out, c.Type)
	}
	return out
}

// ErrFake is a generic injected failure.
var ErrFake = errors.New("injected failure")
