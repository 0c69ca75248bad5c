// Package action defines the step handler contract, the registry that maps
// step types to handlers, and the builtin desktop actions.
//
// A handler receives the step data with variables already substituted, the
// live variable mapping, and a Context exposing the collaborators it may
// call into. Handlers report anticipated failures by displaying a message
// and returning false; they never panic for bad parameters or OS errors.
package action

import (
	"sync/atomic"
	"time"

	"github.com/mj1618/desktop-scenarios/internal/platform"
	"github.com/mj1618/desktop-scenarios/internal/vars"
)

// Handler executes one step. It returns true only on full completion.
type Handler interface {
	Execute(data map[string]any, v vars.Vars, rc *Context) bool
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(data map[string]any, v vars.Vars, rc *Context) bool

func (f HandlerFunc) Execute(data map[string]any, v vars.Vars, rc *Context) bool {
	return f(data, v, rc)
}

// CancelFlag is the cancellation flag shared between a run and anything that
// may request an early stop. It is safe for concurrent use.
type CancelFlag struct {
	set atomic.Bool
}

func (f *CancelFlag) Set()   { f.set.Store(true) }
func (f *CancelFlag) Clear() { f.set.Store(false) }

// IsSet reports whether a stop was requested. A nil flag is never set.
func (f *CancelFlag) IsSet() bool {
	return f != nil && f.set.Load()
}

// Dialog is the user-facing message surface.
type Dialog interface {
	// DisplayMessage shows a message and blocks until it is acknowledged.
	DisplayMessage(title, body string, isError bool)
	// PromptForm asks the user to fill in fields. ok is false when the user
	// cancelled.
	PromptForm(title string, fields []FormField) (values map[string]string, ok bool, err error)
}

// FormField is one input of a form shown by PromptForm.
type FormField struct {
	Name        string `yaml:"name"                  json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Label returns the text shown next to the input.
func (f FormField) Label() string {
	if f.Description != "" {
		return f.Description
	}
	return f.Name
}

// Speaker reads text aloud.
type Speaker interface {
	Speak(text string) error
}

// Style controls how a highlight frame is drawn.
type Style struct {
	Color     string
	Thickness int
}

// Overlay draws highlight frames on screen.
type Overlay interface {
	Show(rect platform.Bounds, style Style, message string) (Highlight, error)
}

// Highlight is a frame currently on screen.
type Highlight interface {
	// WaitForClickWithin blocks up to timeout for a click inside the frame.
	WaitForClickWithin(timeout time.Duration) bool
	// Close removes the frame. Calling it more than once is allowed.
	Close() error
}
