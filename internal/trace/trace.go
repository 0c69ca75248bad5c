// Package trace writes an append-only JSONL record of scenario runs.
package trace

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType enumerates trace event types.
type EventType string

const (
	EventRunStart     EventType = "run_start"
	EventRunComplete  EventType = "run_complete"
	EventStepStart    EventType = "step_start"
	EventStepComplete EventType = "step_complete"
)

// StepStatus is the outcome of a step.
type StepStatus string

const (
	StatusSuccess   StepStatus = "success"
	StatusFailed    StepStatus = "failed"
	StatusCancelled StepStatus = "cancelled"
)

// Event is a single line of the trace.
type Event struct {
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	RunID     string         `json:"run_id"`
	Data      map[string]any `json:"data,omitempty"`
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// Writer writes trace events for one run. A nil *Writer discards events.
type Writer struct {
	mu    sync.Mutex
	runID string
	enc   *json.Encoder
	c     io.Closer
}

// NewWriter creates a trace writer on w.
func NewWriter(w io.Writer, runID string) *Writer {
	return &Writer{runID: runID, enc: json.NewEncoder(w)}
}

// NewFileWriter appends to <dir>/<runID>.jsonl, creating dir if needed.
func NewFileWriter(dir, runID string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create trace dir: %w", err)
	}
	path := filepath.Join(dir, runID+".jsonl")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open trace file: %w", err)
	}
	tw := NewWriter(f, runID)
	tw.c = f
	return tw, nil
}

// RunID returns the run the writer records.
func (tw *Writer) RunID() string {
	if tw == nil {
		return ""
	}
	return tw.runID
}

// Emit writes one event.
func (tw *Writer) Emit(t EventType, data map[string]any) error {
	if tw == nil {
		return nil
	}
	tw.mu.Lock()
	defer tw.mu.Unlock()
	return tw.enc.Encode(Event{
		Type:      t,
		Timestamp: time.Now().UTC(),
		RunID:     tw.runID,
		Data:      data,
	})
}

func (tw *Writer) EmitRunStart(scenario string, steps int) error {
	return tw.Emit(EventRunStart, map[string]any{"scenario": scenario, "steps": steps})
}

func (tw *Writer) EmitStepStart(index int, stepType string) error {
	return tw.Emit(EventStepStart, map[string]any{"step": index, "type": stepType})
}

func (tw *Writer) EmitStepComplete(index int, stepType string, status StepStatus, d time.Duration) error {
	return tw.Emit(EventStepComplete, map[string]any{
		"step":        index,
		"type":        stepType,
		"status":      string(status),
		"duration_ms": d.Milliseconds(),
	})
}

// EmitRunComplete writes the terminal state; errMsg is omitted when empty.
func (tw *Writer) EmitRunComplete(state string, completed int, errMsg string, d time.Duration) error {
	data := map[string]any{
		"state":       state,
		"completed":   completed,
		"duration_ms": d.Milliseconds(),
	}
	if errMsg != "" {
		data["error"] = errMsg
	}
	return tw.Emit(EventRunComplete, data)
}

// Close closes the underlying file, if the writer owns one.
func (tw *Writer) Close() error {
	if tw == nil || tw.c == nil {
		return nil
	}
	return tw.c.Close()
}

// ReadEvents decodes every event in a trace stream.
func ReadEvents(r io.Reader) ([]Event, error) {
	dec := json.NewDecoder(r)
	var events []Event
	for dec.More() {
		var e Event
		if err := dec.Decode(&e); err != nil {
			return events, fmt.Errorf("decode trace event %d: %w", len(events)+1, err)
		}
		events = append(events, e)
	}
	return events, nil
}
