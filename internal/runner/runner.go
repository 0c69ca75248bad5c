// Package runner executes one scenario: steps in order, abort on the first
// failure, cooperative cancellation checked before every step.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mj1618/desktop-scenarios/internal/action"
	"github.com/mj1618/desktop-scenarios/internal/logging"
	"github.com/mj1618/desktop-scenarios/internal/platform"
	"github.com/mj1618/desktop-scenarios/internal/scenario"
	"github.com/mj1618/desktop-scenarios/internal/trace"
	"github.com/mj1618/desktop-scenarios/internal/vars"
)

// State is a runner lifecycle state.
type State int

const (
	Idle State = iota
	Running
	Completed
	Failed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *State) UnmarshalText(b []byte) error {
	for c := Idle; c <= Cancelled; c++ {
		if c.String() == string(b) {
			*s = c
			return nil
		}
	}
	return fmt.Errorf("unknown runner state %q", b)
}

// Terminal reports whether s ends a run.
func (s State) Terminal() bool {
	return s == Completed || s == Failed || s == Cancelled
}

var (
	// ErrCancelled is the result error of a cancelled run.
	ErrCancelled = errors.New("scenario did not complete: cancelled")
	// ErrAlreadyRun is returned when Run is called twice on one Runner.
	ErrAlreadyRun = errors.New("runner has already been started")
)

// StepError reports the step a failed run stopped at.
type StepError struct {
	Index int
	Type  string
	Err   error
}

func (e *StepError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("step %d (%s): %v", e.Index, e.Type, e.Err)
	}
	return fmt.Sprintf("step %d (%s) failed", e.Index, e.Type)
}

func (e *StepError) Unwrap() error { return e.Err }

// Result summarises a finished run.
type Result struct {
	RunID      string `yaml:"run_id,omitempty"    json:"run_id,omitempty"`
	Scenario   string `yaml:"scenario"            json:"scenario"`
	State      State  `yaml:"state"               json:"state"`
	Steps      int    `yaml:"steps"               json:"steps"`
	Completed  int    `yaml:"completed"           json:"completed"`
	Step       int    `yaml:"step,omitempty"      json:"step,omitempty"`
	StepType   string `yaml:"step_type,omitempty" json:"step_type,omitempty"`
	Error      string `yaml:"error,omitempty"     json:"error,omitempty"`
	DurationMS int64  `yaml:"duration_ms"         json:"duration_ms"`
	Err        error  `yaml:"-"                   json:"-"`
}

// OK reports whether the run completed.
func (r Result) OK() bool { return r.State == Completed }

// Options carries the collaborators handed to every handler.
type Options struct {
	Dialog   action.Dialog
	Speaker  action.Speaker
	Overlay  action.Overlay
	Provider *platform.Provider
	Commands action.CommandRunner
	Logger   *slog.Logger
	Trace    *trace.Writer
	// Cancel is shared with whoever may stop the run. A fresh flag is used
	// when nil.
	Cancel *action.CancelFlag
	RunID  string
	GOOS   string
}

// Runner owns the variables and cancellation flag of one scenario run.
type Runner struct {
	sc     *scenario.Scenario
	table  *action.Table
	vars   vars.Vars
	opts   Options
	cancel *action.CancelFlag
	log    *slog.Logger

	mu    sync.Mutex
	state State
}

// New prepares a run of sc. initial seeds the variable mapping and is copied.
func New(sc *scenario.Scenario, table *action.Table, initial map[string]string, opts Options) *Runner {
	cancel := opts.Cancel
	if cancel == nil {
		cancel = &action.CancelFlag{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	if opts.RunID == "" {
		opts.RunID = opts.Trace.RunID()
	}
	if opts.RunID != "" {
		logger = logger.With("run_id", opts.RunID)
	}
	return &Runner{
		sc:     sc,
		table:  table,
		vars:   vars.New(initial),
		opts:   opts,
		cancel: cancel,
		log:    logger,
	}
}

// State returns the current lifecycle state.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Runner) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

// Cancel asks the run to stop at its next checkpoint.
func (r *Runner) Cancel() { r.cancel.Set() }

// Vars returns the run's variable mapping. It must not be read while the
// run is in progress.
func (r *Runner) Vars() vars.Vars { return r.vars }

// Run executes every step in order and returns once a terminal state is
// reached. Cancelling ctx sets the cancellation flag.
func (r *Runner) Run(ctx context.Context) Result {
	res := Result{RunID: r.opts.RunID, Scenario: r.sc.Name, Steps: r.sc.Len()}

	r.mu.Lock()
	if r.state != Idle {
		r.mu.Unlock()
		res.State = r.State()
		res.Err = ErrAlreadyRun
		res.Error = ErrAlreadyRun.Error()
		return res
	}
	r.state = Running
	r.mu.Unlock()

	start := time.Now()
	r.cancel.Clear()
	stop := context.AfterFunc(ctx, r.cancel.Set)
	defer stop()
	if ctx.Err() != nil {
		r.cancel.Set()
	}

	r.log.Info("scenario started", "scenario", r.sc.Name, "steps", res.Steps)
	_ = r.opts.Trace.EmitRunStart(r.sc.Name, res.Steps)

	res.State, res.Err = r.loop(&res)
	r.setState(res.State)
	if res.Err != nil {
		res.Error = res.Err.Error()
	}
	elapsed := time.Since(start)
	res.DurationMS = elapsed.Milliseconds()
	_ = r.opts.Trace.EmitRunComplete(res.State.String(), res.Completed, res.Error, elapsed)

	switch res.State {
	case Completed:
		r.log.Info("scenario finished successfully", "scenario", r.sc.Name, "duration", elapsed)
	case Cancelled:
		r.log.Info("scenario cancelled", "scenario", r.sc.Name, "step", res.Step)
	default:
		r.log.Warn("scenario stopped", "scenario", r.sc.Name, "step", res.Step, "type", res.StepType, "error", res.Error)
	}
	return res
}

func (r *Runner) loop(res *Result) (State, error) {
	for i, step := range r.sc.Actions {
		idx := i + 1
		res.Step = idx
		res.StepType = step.Type

		if r.cancel.IsSet() {
			r.notifyCancelled()
			return Cancelled, ErrCancelled
		}

		h, err := r.table.Resolve(step.Type)
		if err != nil {
			r.log.Error("unknown action type", "step", idx, "type", step.Type)
			r.display("Scenario Error", err.Error(), true)
			return Failed, &StepError{Index: idx, Type: step.Type, Err: err}
		}

		r.log.Info(fmt.Sprintf("step %d/%d", idx, res.Steps), "step", idx, "type", step.Type)
		_ = r.opts.Trace.EmitStepStart(idx, step.Type)
		stepStart := time.Now()

		rc := &action.Context{
			Cancel:   r.cancel,
			Dialog:   r.opts.Dialog,
			Speaker:  r.opts.Speaker,
			Overlay:  r.opts.Overlay,
			Provider: r.opts.Provider,
			Logger:   r.log.With("step", idx, "type", step.Type),
			Commands: r.opts.Commands,
			GOOS:     r.opts.GOOS,
			Step:     step,
			Index:    idx,
			Vars:     r.vars,
		}
		ok := h.Execute(r.vars.SubstituteData(step.Data), r.vars, rc)
		d := time.Since(stepStart)

		if !ok {
			if r.cancel.IsSet() {
				_ = r.opts.Trace.EmitStepComplete(idx, step.Type, trace.StatusCancelled, d)
				r.notifyCancelled()
				return Cancelled, ErrCancelled
			}
			_ = r.opts.Trace.EmitStepComplete(idx, step.Type, trace.StatusFailed, d)
			return Failed, &StepError{Index: idx, Type: step.Type}
		}
		_ = r.opts.Trace.EmitStepComplete(idx, step.Type, trace.StatusSuccess, d)
		res.Completed++
	}
	return Completed, nil
}

func (r *Runner) notifyCancelled() {
	r.display("Scenario Cancelled", fmt.Sprintf("Scenario '%s' did not complete: it was cancelled.", r.sc.Name), false)
}

func (r *Runner) display(title, body string, isError bool) {
	if r.opts.Dialog != nil {
		r.opts.Dialog.DisplayMessage(title, body, isError)
	}
}
