// Package engine holds the process-wide state of the scenario executor:
// configuration, the handler registry, the scenario store, the execution
// slot and the user-facing collaborators. Callers construct one Engine and
// pass it to the monitor, the CLI and the MCP server.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"github.com/mj1618/desktop-scenarios/internal/action"
	"github.com/mj1618/desktop-scenarios/internal/config"
	"github.com/mj1618/desktop-scenarios/internal/logging"
	"github.com/mj1618/desktop-scenarios/internal/monitor"
	"github.com/mj1618/desktop-scenarios/internal/platform"
	"github.com/mj1618/desktop-scenarios/internal/runner"
	"github.com/mj1618/desktop-scenarios/internal/scenario"
	"github.com/mj1618/desktop-scenarios/internal/slot"
	"github.com/mj1618/desktop-scenarios/internal/trace"
)

// Options carries the collaborators handed to every run.
type Options struct {
	Dialog   action.Dialog
	Speaker  action.Speaker
	Overlay  action.Overlay
	Provider *platform.Provider
	Commands action.CommandRunner
	Logger   *slog.Logger
	// Registry defaults to action.NewRegistry.
	Registry *action.Registry
	GOOS     string
}

// Engine executes scenarios one at a time.
type Engine struct {
	cfg      *config.Config
	store    *scenario.Store
	registry *action.Registry
	slot     *slot.Slot
	opts     Options
	log      *slog.Logger

	mu     sync.Mutex
	active *runner.Runner
	name   string
	runID  string
	last   *runner.Result
}

// New validates the permission list and the action mapping and returns an
// engine. Either store being missing or malformed is a startup error.
func New(cfg *config.Config, opts Options) (*Engine, error) {
	if opts.Registry == nil {
		opts.Registry = action.NewRegistry()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.GOOS == "" {
		opts.GOOS = runtime.GOOS
	}
	e := &Engine{
		cfg:      cfg,
		store:    scenario.NewStore(cfg.ScenarioPath(), cfg.PermissionsPath()),
		registry: opts.Registry,
		slot:     slot.New(),
		opts:     opts,
		log:      opts.Logger,
	}
	if _, err := e.store.Permissions(); err != nil {
		return nil, err
	}
	if _, err := e.Table(); err != nil {
		return nil, err
	}
	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() *config.Config { return e.cfg }

// Store returns the scenario store.
func (e *Engine) Store() *scenario.Store { return e.store }

// Slot returns the execution slot shared by every entry point.
func (e *Engine) Slot() *slot.Slot { return e.slot }

// Table reads the action mapping and binds it to the registry.
func (e *Engine) Table() (*action.Table, error) {
	m, err := action.LoadMapping(e.cfg.ActionsPath())
	if err != nil {
		return nil, err
	}
	t, err := e.registry.Bind(m)
	if err != nil {
		return nil, &config.Error{What: "actions config", Path: e.cfg.ActionsPath(), Err: err}
	}
	return t, nil
}

// Check reports every step of sc whose type the current mapping cannot
// resolve.
func (e *Engine) Check(sc *scenario.Scenario) ([]error, error) {
	t, err := e.Table()
	if err != nil {
		return nil, err
	}
	return CheckSteps(t, sc), nil
}

// CheckSteps reports every step of sc whose type t cannot resolve.
func CheckSteps(t *action.Table, sc *scenario.Scenario) []error {
	var errs []error
	for i, step := range sc.Actions {
		if _, err := t.Resolve(step.Type); err != nil {
			errs = append(errs, &runner.StepError{Index: i + 1, Type: step.Type, Err: err})
		}
	}
	return errs
}

// Execute resolves name, loads its steps and runs them. The caller must
// hold the execution slot. Errors raised before the first step are shown
// once through the dialog; step failures are reported by the runner and
// its handlers.
func (e *Engine) Execute(ctx context.Context, name string, initial map[string]string) runner.Result {
	runID := trace.NewRunID()
	fail := func(err error) runner.Result {
		e.log.Error("scenario rejected", "scenario", name, "run_id", runID, "error", err)
		e.display(errorTitle(err), err.Error(), true)
		res := runner.Result{RunID: runID, Scenario: name, State: runner.Failed, Err: err, Error: err.Error()}
		e.finish(&res)
		return res
	}

	table, err := e.Table()
	if err != nil {
		return fail(err)
	}
	sc, err := e.store.Load(name)
	if err != nil {
		return fail(err)
	}

	var tw *trace.Writer
	if e.cfg.TraceDir != "" {
		tw, err = trace.NewFileWriter(e.cfg.TracePath(), runID)
		if err != nil {
			e.log.Warn("run trace disabled", "error", err)
			tw = nil
		}
	}
	defer tw.Close()

	r := runner.New(sc, table, initial, runner.Options{
		Dialog:   e.opts.Dialog,
		Speaker:  e.opts.Speaker,
		Overlay:  e.opts.Overlay,
		Provider: e.opts.Provider,
		Commands: e.opts.Commands,
		Logger:   e.log,
		Trace:    tw,
		RunID:    runID,
		GOOS:     e.opts.GOOS,
	})

	e.mu.Lock()
	e.active, e.name, e.runID = r, sc.Name, runID
	e.mu.Unlock()

	res := r.Run(ctx)
	e.finish(&res)
	return res
}

func (e *Engine) finish(res *runner.Result) {
	e.mu.Lock()
	e.active, e.name, e.runID = nil, "", ""
	e.last = res
	e.mu.Unlock()
}

// ExecutePayload is the monitor executor: it parses the trigger JSON and
// executes the named scenario.
func (e *Engine) ExecutePayload(ctx context.Context, payload string) {
	t, err := monitor.ParseTrigger(payload)
	if err != nil {
		e.log.Error("invalid trigger payload", "error", err)
		e.display("Scenario Error", err.Error(), true)
		return
	}
	e.log.Info("trigger accepted", "action", t.ActionName, "vars", len(t.DataForExecution))
	e.Execute(ctx, t.ActionName, t.DataForExecution)
}

// RunExclusive acquires the slot within timeout, executes name and
// releases the slot. A zero timeout fails at once when busy. A panic
// escaping the run is reported as a critical error.
func (e *Engine) RunExclusive(ctx context.Context, name string, initial map[string]string, timeout time.Duration) (res runner.Result, err error) {
	if err := e.slot.Acquire(ctx, timeout); err != nil {
		return runner.Result{Scenario: name}, err
	}
	defer e.slot.Release()
	defer func() {
		if v := recover(); v != nil {
			e.OnPanic(v, debug.Stack())
			err = fmt.Errorf("scenario %q panicked: %v", name, v)
			res = runner.Result{Scenario: name, State: runner.Failed, Err: err, Error: err.Error()}
			e.finish(&res)
		}
	}()
	return e.Execute(ctx, name, initial), nil
}

// OnPanic reports an unexpected fault once.
func (e *Engine) OnPanic(v any, stack []byte) {
	e.log.Error("critical error", "panic", fmt.Sprint(v), "stack", string(stack))
	e.display("Critical Error", fmt.Sprintf("An unexpected error occurred: %v", v), true)
}

// Cancel sets the cancellation flag of the active run. It reports whether
// a run was active.
func (e *Engine) Cancel() bool {
	e.mu.Lock()
	r := e.active
	e.mu.Unlock()
	if r == nil {
		return false
	}
	r.Cancel()
	e.log.Info("cancellation requested")
	return true
}

// Status describes the engine at one instant.
type Status struct {
	Busy     bool           `yaml:"busy"               json:"busy"`
	Scenario string         `yaml:"scenario,omitempty" json:"scenario,omitempty"`
	RunID    string         `yaml:"run_id,omitempty"   json:"run_id,omitempty"`
	State    string         `yaml:"state,omitempty"    json:"state,omitempty"`
	Last     *runner.Result `yaml:"last,omitempty"     json:"last,omitempty"`
}

// Status returns the active run, if any, and the last finished result.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	st := Status{Busy: e.slot.Held(), Scenario: e.name, RunID: e.runID, Last: e.last}
	if e.active != nil {
		st.State = e.active.State().String()
	}
	return st
}

// NewMonitor returns a trigger monitor reading channel and executing
// through this engine's slot. Content present on the channel at creation
// is treated as already seen.
func (e *Engine) NewMonitor(channel platform.ClipboardManager) *monitor.Monitor {
	m := monitor.New(monitor.Config{
		Prefix:         e.cfg.TriggerPrefix,
		Interval:       e.cfg.PollInterval.Std(),
		AcquireTimeout: e.cfg.AcquireTimeout.Std(),
		ErrorBackoff:   e.cfg.ErrorBackoff.Std(),
	}, channel, e.slot, e.ExecutePayload, e.log)
	m.OnPanic(e.OnPanic)
	m.Prime()
	return m
}

func (e *Engine) display(title, body string, isError bool) {
	if e.opts.Dialog != nil {
		e.opts.Dialog.DisplayMessage(title, body, isError)
	}
}

func errorTitle(err error) string {
	var ce *config.Error
	if errors.As(err, &ce) {
		return "Config Error"
	}
	return "Scenario Error"
}
