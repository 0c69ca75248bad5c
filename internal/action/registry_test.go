package action_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mj1618/desktop-scenarios/internal/action"
	"github.com/mj1618/desktop-scenarios/internal/config"
	"github.com/mj1618/desktop-scenarios/internal/vars"
)

func TestDefaultMappingBindsToBuiltins(t *testing.T) {
	table, err := action.NewRegistry().Bind(action.DefaultMapping())
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if got, want := len(table.Types()), len(action.DefaultMapping()); got != want {
		t.Errorf("bound %d types, want %d", got, want)
	}
	if id := table.HandlerID("Left Mouse Click"); id != "left_mouse_click" {
		t.Errorf("HandlerID = %q, want left_mouse_click", id)
	}
}

func TestBindUnknownHandler(t *testing.T) {
	_, err := action.NewRegistry().Bind(action.Mapping{
		"Wait":   "wait",
		"Launch": "launch_rocket",
	})
	if !errors.Is(err, action.ErrUnknownHandler) {
		t.Fatalf("Bind = %v, want ErrUnknownHandler", err)
	}
	if !strings.Contains(err.Error(), "launch_rocket") {
		t.Errorf("error should name the handler id: %v", err)
	}
}

func TestResolveUnknownStepType(t *testing.T) {
	table, err := action.NewRegistry().Bind(action.Mapping{"Wait": "wait"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := table.Resolve("Wait"); err != nil {
		t.Errorf("Resolve(Wait): %v", err)
	}
	_, err = table.Resolve("Fly")
	if !errors.Is(err, action.ErrUnknownStepType) {
		t.Fatalf("Resolve(Fly) = %v, want ErrUnknownStepType", err)
	}
	if !strings.Contains(err.Error(), "'Fly'") {
		t.Errorf("error should name the step type: %v", err)
	}
}

func TestRegisterOverrides(t *testing.T) {
	r := action.NewRegistry()
	called := false
	r.Register("wait", action.HandlerFunc(func(map[string]any, vars.Vars, *action.Context) bool {
		called = true
		return true
	}))
	table, err := r.Bind(action.Mapping{"Wait": "wait"})
	if err != nil {
		t.Fatal(err)
	}
	h, _ := table.Resolve("Wait")
	h.Execute(nil, vars.New(nil), &action.Context{})
	if !called {
		t.Error("registered handler was not used")
	}
}

func TestRegistryIDsSorted(t *testing.T) {
	ids := action.NewRegistry().IDs()
	for i := 1; i < len(ids); i++ {
		if ids[i-1] > ids[i] {
			t.Fatalf("ids not sorted: %v", ids)
		}
	}
	if len(ids) != 13 {
		t.Errorf("got %d builtin ids, want 13", len(ids))
	}
}

func TestLoadMapping(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "actions_config.json")
	if err := action.SaveMapping(path, action.DefaultMapping()); err != nil {
		t.Fatal(err)
	}
	m, err := action.LoadMapping(path)
	if err != nil {
		t.Fatalf("LoadMapping: %v", err)
	}
	if m["Wait"] != "wait" {
		t.Errorf("Wait -> %q, want wait", m["Wait"])
	}

	var ce *config.Error
	if _, err := action.LoadMapping(filepath.Join(dir, "nope.json")); !errors.As(err, &ce) {
		t.Errorf("missing file: got %v, want *config.Error", err)
	}
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`["wait"]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := action.LoadMapping(bad); !errors.As(err, &ce) {
		t.Errorf("array: got %v, want *config.Error", err)
	}
	null := filepath.Join(dir, "null.json")
	if err := os.WriteFile(null, []byte(`null`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := action.LoadMapping(null); !errors.As(err, &ce) {
		t.Errorf("null: got %v, want *config.Error", err)
	}
}

func TestCancelFlag(t *testing.T) {
	var nilFlag *action.CancelFlag
	if nilFlag.IsSet() {
		t.Error("nil flag should not be set")
	}
	f := &action.CancelFlag{}
	f.Set()
	if !f.IsSet() {
		t.Error("expected set")
	}
	f.Clear()
	if f.IsSet() {
		t.Error("expected cleared")
	}
}
