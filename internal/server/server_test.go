package server

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"gopkg.in/yaml.v3"

	"github.com/mj1618/desktop-scenarios/internal/action"
	"github.com/mj1618/desktop-scenarios/internal/action/actiontest"
	"github.com/mj1618/desktop-scenarios/internal/config"
	"github.com/mj1618/desktop-scenarios/internal/engine"
	"github.com/mj1618/desktop-scenarios/internal/runner"
	"github.com/mj1618/desktop-scenarios/internal/scenario"
)

func newTestServer(t *testing.T) (*Server, *actiontest.Recorder) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Path = filepath.Join(dir, "config.toml")
	cfg.Dir = dir

	rec := &actiontest.Recorder{}
	reg := action.NewRegistry()
	reg.Register("test_ok", rec.Handler(true, nil))
	reg.Register("test_fail", rec.Handler(false, nil))

	if err := os.MkdirAll(cfg.ScenarioPath(), 0o755); err != nil {
		t.Fatal(err)
	}
	perms := []scenario.Permission{
		{Name: "good", Allowed: true},
		{Name: "bad", Allowed: true},
		{Name: "blocked", Allowed: false},
	}
	if err := scenario.SavePermissions(cfg.PermissionsPath(), perms); err != nil {
		t.Fatal(err)
	}
	if err := action.SaveMapping(cfg.ActionsPath(), action.Mapping{"ok": "test_ok", "fail": "test_fail"}); err != nil {
		t.Fatal(err)
	}
	write := func(name string, types ...string) {
		sc := &scenario.Scenario{Name: name}
		for _, typ := range types {
			sc.Actions = append(sc.Actions, scenario.Step{Type: typ, Data: map[string]any{"v": "${x}"}})
		}
		if err := scenario.SaveFile(filepath.Join(cfg.ScenarioPath(), name+".json"), sc); err != nil {
			t.Fatal(err)
		}
	}
	write("good", "ok", "ok")
	write("bad", "ok", "fail", "ok")
	write("blocked", "ok")

	eng, err := engine.New(cfg, engine.Options{Dialog: &actiontest.Dialog{}, Registry: reg})
	if err != nil {
		t.Fatal(err)
	}
	return New(eng, Config{ResultTTL: time.Minute}), rec
}

func call(t *testing.T, fn func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (*mcp.CallToolResult, string) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	result, err := fn(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Content) == 0 {
		t.Fatal("empty result content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T", result.Content[0])
	}
	return result, text.Text
}

func TestHandleRun_Success(t *testing.T) {
	s, rec := newTestServer(t)
	result, text := call(t, s.handleRun, map[string]any{"name": "good", "vars": map[string]any{"x": 7.0}})
	if result.IsError {
		t.Fatalf("unexpected error: %s", text)
	}
	var res runner.Result
	if err := yaml.Unmarshal([]byte(text), &res); err != nil {
		t.Fatal(err)
	}
	if res.Completed != 2 || res.RunID == "" {
		t.Errorf("result = %+v", res)
	}
	if calls := rec.Calls(); len(calls) != 2 || calls[0].Data["v"] != "7" {
		t.Errorf("calls = %+v", calls)
	}

	result, text = call(t, s.handleGetResult, map[string]any{"run_id": res.RunID})
	if result.IsError || !strings.Contains(text, "good") {
		t.Errorf("get_result = %s", text)
	}
}

func TestHandleRun_FailureStopsAtStep(t *testing.T) {
	s, rec := newTestServer(t)
	result, text := call(t, s.handleRun, map[string]any{"name": "bad"})
	if !result.IsError {
		t.Fatal("expected error result")
	}
	if !strings.Contains(text, "step: 2") {
		t.Errorf("text = %s", text)
	}
	if n := len(rec.Calls()); n != 2 {
		t.Errorf("calls = %d, want 2", n)
	}
}

func TestHandleRun_Validation(t *testing.T) {
	s, rec := newTestServer(t)
	if result, _ := call(t, s.handleRun, map[string]any{}); !result.IsError {
		t.Error("expected error for missing name")
	}
	if result, _ := call(t, s.handleRun, map[string]any{"name": "good", "vars": map[string]any{"x": []any{1.0}}}); !result.IsError {
		t.Error("expected error for nested vars")
	}
	if result, _ := call(t, s.handleRun, map[string]any{"name": "blocked"}); !result.IsError {
		t.Error("expected error for disallowed scenario")
	}
	if n := len(rec.Calls()); n != 0 {
		t.Errorf("calls = %d, want 0", n)
	}
}

func TestHandleRun_Busy(t *testing.T) {
	s, _ := newTestServer(t)
	if err := s.engine.Slot().Acquire(context.Background(), 0); err != nil {
		t.Fatal(err)
	}
	defer s.engine.Slot().Release()
	result, text := call(t, s.handleRun, map[string]any{"name": "good", "timeout": 0.01})
	if !result.IsError || !strings.Contains(text, "already running") {
		t.Errorf("result = %s", text)
	}
}

func TestHandleList(t *testing.T) {
	s, _ := newTestServer(t)
	result, text := call(t, s.handleList, nil)
	if result.IsError {
		t.Fatal(text)
	}
	var entries []scenario.Entry
	if err := yaml.Unmarshal([]byte(text), &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 || entries[2].Allowed {
		t.Errorf("entries = %+v", entries)
	}
}

func TestHandleValidate(t *testing.T) {
	s, _ := newTestServer(t)
	if result, _ := call(t, s.handleValidate, map[string]any{}); !result.IsError {
		t.Error("expected error for missing name and path")
	}
	if result, text := call(t, s.handleValidate, map[string]any{"name": "good"}); result.IsError {
		t.Errorf("valid scenario reported: %s", text)
	}

	path := filepath.Join(t.TempDir(), "odd.yaml")
	if err := os.WriteFile(path, []byte("actions:\n  - type: unmapped\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	result, text := call(t, s.handleValidate, map[string]any{"path": path})
	if !result.IsError || !strings.Contains(text, "unmapped") {
		t.Errorf("validate = %s", text)
	}
}

func TestHandleCancelAndStatus(t *testing.T) {
	s, _ := newTestServer(t)
	_, text := call(t, s.handleCancel, nil)
	if !strings.Contains(text, "cancelled: false") {
		t.Errorf("cancel = %s", text)
	}
	_, text = call(t, s.handleStatus, nil)
	if !strings.Contains(text, "busy: false") {
		t.Errorf("status = %s", text)
	}
}

func TestResultCacheTTL(t *testing.T) {
	c := NewResultCache(time.Second)
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }
	c.Put(runner.Result{RunID: "a"})
	if _, ok := c.Get("a"); !ok {
		t.Fatal("fresh entry missing")
	}
	now = now.Add(2 * time.Second)
	if _, ok := c.Get("a"); ok {
		t.Error("expired entry returned")
	}

	off := NewResultCache(0)
	off.Put(runner.Result{RunID: "b"})
	if _, ok := off.Get("b"); ok {
		t.Error("disabled cache returned an entry")
	}
}
