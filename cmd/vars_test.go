package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mj1618/desktop-scenarios/internal/action"
	"github.com/mj1618/desktop-scenarios/internal/config"
	"github.com/mj1618/desktop-scenarios/internal/scenario"
)

func TestParseVars(t *testing.T) {
	got, err := parseVars([]string{"user=ann", "expr=a=b", "empty="}, `{"user":"bob","n":2}`)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{"user": "ann", "expr": "a=b", "empty": "", "n": "2"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}
}

func TestParseVarsErrors(t *testing.T) {
	tests := []struct {
		name  string
		pairs []string
		raw   string
	}{
		{"no equals", []string{"user"}, ""},
		{"empty name", []string{"=x"}, ""},
		{"nested json", nil, `{"a":{"b":1}}`},
		{"not an object", nil, `[1]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseVars(tt.pairs, tt.raw); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Dir = dir
	if err := action.SaveMapping(cfg.ActionsPath(), action.DefaultMapping()); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(cfg.ScenarioPath(), 0o755); err != nil {
		t.Fatal(err)
	}
	good := filepath.Join(cfg.ScenarioPath(), "good.yaml")
	bad := filepath.Join(cfg.ScenarioPath(), "bad.json")
	broken := filepath.Join(cfg.ScenarioPath(), "broken.json")
	os.WriteFile(good, []byte("actions:\n  - type: Wait\n    data: {seconds: 1}\n"), 0o644)
	os.WriteFile(bad, []byte(`{"actions":[{"type":"Wait"},{"type":"Teleport"}]}`), 0o644)
	os.WriteFile(broken, []byte(`{"actions": 3}`), 0o644)
	os.WriteFile(filepath.Join(cfg.ScenarioPath(), "notes.txt"), []byte("x"), 0o644)

	paths, err := validationTargets(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 3 {
		t.Fatalf("targets = %v, want 3 scenario files", paths)
	}
	results, err := validateFiles(cfg, paths)
	if err != nil {
		t.Fatal(err)
	}
	byFile := map[string]ValidateResult{}
	for _, r := range results {
		byFile[r.File] = r
	}
	if r := byFile[good]; !r.Valid || r.Steps != 1 {
		t.Errorf("good = %+v", r)
	}
	if r := byFile[bad]; r.Valid || r.Steps != 2 || len(r.Errors) != 1 {
		t.Errorf("bad = %+v", r)
	}
	if r := byFile[broken]; r.Valid || len(r.Errors) != 1 {
		t.Errorf("broken = %+v", r)
	}
}

func TestValidationTargetsResolvesNames(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Dir = dir
	os.MkdirAll(cfg.ScenarioPath(), 0o755)
	scenario.SavePermissions(cfg.PermissionsPath(), []scenario.Permission{{Name: "mail", Allowed: true, Alias: "open_mail"}})
	want := filepath.Join(cfg.ScenarioPath(), "open_mail.json")
	os.WriteFile(want, []byte(`{"actions":[]}`), 0o644)

	paths, err := validationTargets(cfg, []string{"mail"})
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 1 || paths[0] != want {
		t.Errorf("paths = %v, want [%s]", paths, want)
	}
	if _, err := validationTargets(cfg, []string{"unknown"}); err == nil {
		t.Error("unknown name resolved")
	}
}
