package trace

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestWriterEmitsJSONL(t *testing.T) {
	var buf bytes.Buffer
	tw := NewWriter(&buf, "run-1")
	_ = tw.EmitRunStart("demo", 2)
	_ = tw.EmitStepStart(1, "Wait")
	_ = tw.EmitStepComplete(1, "Wait", StatusSuccess, 5*time.Millisecond)
	_ = tw.EmitRunComplete("completed", 1, "", time.Second)

	events, err := ReadEvents(&buf)
	if err != nil {
		t.Fatalf("ReadEvents: %v", err)
	}
	want := []EventType{EventRunStart, EventStepStart, EventStepComplete, EventRunComplete}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i, e := range events {
		if e.Type != want[i] {
			t.Errorf("event %d type = %s, want %s", i, e.Type, want[i])
		}
		if e.RunID != "run-1" {
			t.Errorf("event %d run id = %q", i, e.RunID)
		}
	}
	if events[2].Data["status"] != "success" {
		t.Errorf("status = %v", events[2].Data["status"])
	}
	if _, ok := events[3].Data["error"]; ok {
		t.Error("empty error should be omitted")
	}
}

func TestNilWriterDiscards(t *testing.T) {
	var tw *Writer
	if err := tw.EmitRunStart("x", 1); err != nil {
		t.Errorf("nil writer: %v", err)
	}
	if err := tw.Close(); err != nil {
		t.Errorf("nil close: %v", err)
	}
	if tw.RunID() != "" {
		t.Error("nil writer run id should be empty")
	}
}

func TestFileWriter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "traces")
	id := NewRunID()
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("run id %q is not a uuid: %v", id, err)
	}
	tw, err := NewFileWriter(dir, id)
	if err != nil {
		t.Fatal(err)
	}
	_ = tw.EmitRunStart("demo", 0)
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(filepath.Join(dir, id+".jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	events, err := ReadEvents(f)
	if err != nil || len(events) != 1 {
		t.Fatalf("events = %v, err = %v", events, err)
	}
}
