package action

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"time"

	"github.com/mj1618/desktop-scenarios/internal/logging"
	"github.com/mj1618/desktop-scenarios/internal/platform"
	"github.com/mj1618/desktop-scenarios/internal/scenario"
	"github.com/mj1618/desktop-scenarios/internal/vars"
)

// PollInterval is the granularity at which blocking waits check for
// cancellation.
const PollInterval = 50 * time.Millisecond

// CommandResult is the outcome of a finished subprocess.
type CommandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// CommandRunner runs a subprocess to completion. The error is non-nil only
// when the process could not be started.
type CommandRunner func(name string, args ...string) (CommandResult, error)

// ExecCommand runs name with os/exec.
func ExecCommand(name string, args ...string) (CommandResult, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	res := CommandResult{Stdout: stdout.String(), Stderr: stderr.String()}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	return res, err
}

// Context is the runtime surface handed to every handler for one step.
type Context struct {
	Cancel   *CancelFlag
	Dialog   Dialog
	Speaker  Speaker // optional
	Overlay  Overlay // optional
	Provider *platform.Provider
	Logger   *slog.Logger
	Commands CommandRunner
	GOOS     string

	// Step is the step as loaded, before substitution.
	Step scenario.Step
	// Index is the 1-based position of Step in its scenario.
	Index int
	// Vars is the run's variable mapping.
	Vars vars.Vars
}

// Substitute resolves ${name} placeholders against the current variables.
func (c *Context) Substitute(text string) string {
	return c.Vars.SubstituteString(text)
}

// Cancelled reports whether the run was asked to stop.
func (c *Context) Cancelled() bool {
	return c.Cancel.IsSet()
}

// Fail shows an "Action Error" message for the current step, logs it, and
// returns false so handlers can write `return rc.Fail(...)`.
func (c *Context) Fail(format string, args ...any) bool {
	msg := fmt.Sprintf(format, args...)
	c.log().Error("action failed", "step", c.Index, "type", c.Step.Type, "error", msg)
	if c.Dialog != nil {
		c.Dialog.DisplayMessage("Action Error", msg, true)
	}
	return false
}

// Sleep waits for d in PollInterval slices. It returns false as soon as the
// run is cancelled.
func (c *Context) Sleep(d time.Duration) bool {
	deadline := time.Now().Add(d)
	for {
		if c.Cancelled() {
			return false
		}
		left := time.Until(deadline)
		if left <= 0 {
			return true
		}
		time.Sleep(min(left, PollInterval))
	}
}

// Inputter returns the mouse and keyboard backend.
func (c *Context) Inputter() (platform.Inputter, error) {
	if c.Provider == nil || c.Provider.Inputter == nil {
		return nil, fmt.Errorf("mouse and keyboard input not available on this platform")
	}
	return c.Provider.Inputter, nil
}

// Clipboard returns the clipboard backend.
func (c *Context) Clipboard() (platform.ClipboardManager, error) {
	if c.Provider == nil || c.Provider.ClipboardManager == nil {
		return nil, fmt.Errorf("clipboard not available on this platform")
	}
	return c.Provider.ClipboardManager, nil
}

// Modifier returns the shortcut modifier key for the target OS.
func (c *Context) Modifier() string {
	return platform.ModifierKey(c.goos())
}

func (c *Context) goos() string {
	if c.GOOS != "" {
		return c.GOOS
	}
	return runtime.GOOS
}

func (c *Context) run(name string, args ...string) (CommandResult, error) {
	if c.Commands != nil {
		return c.Commands(name, args...)
	}
	return ExecCommand(name, args...)
}

func (c *Context) log() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return logging.Discard()
}
