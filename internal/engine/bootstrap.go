package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mj1618/desktop-scenarios/internal/action"
	"github.com/mj1618/desktop-scenarios/internal/config"
	"github.com/mj1618/desktop-scenarios/internal/scenario"
)

// ExampleScenario is written by Bootstrap. It is not listed in the
// permission file, so it cannot run until a record allows it.
var ExampleScenario = &scenario.Scenario{
	Name: "example",
	Actions: []scenario.Step{
		{Type: "Info Message", Data: map[string]any{"message": "Hello ${user}, the scenario executor is working."}},
		{Type: "Wait", Data: map[string]any{"seconds": 0.5}},
	},
}

// Bootstrap creates whatever of the config file, the scenario directory,
// the permission list, the action mapping and the example scenario is
// missing. Existing files are left alone. It returns the paths it wrote.
func Bootstrap(cfg *config.Config) ([]string, error) {
	var created []string
	missing := func(path string) bool {
		_, err := os.Stat(path)
		return errors.Is(err, os.ErrNotExist)
	}

	if cfg.Path != "" && missing(cfg.Path) {
		if err := cfg.Save(cfg.Path); err != nil {
			return created, err
		}
		created = append(created, cfg.Path)
	}
	dir := cfg.ScenarioPath()
	if missing(dir) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return created, fmt.Errorf("create scenario dir: %w", err)
		}
		created = append(created, dir)
	}
	if path := cfg.PermissionsPath(); missing(path) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return created, fmt.Errorf("create config dir: %w", err)
		}
		if err := scenario.SavePermissions(path, []scenario.Permission{}); err != nil {
			return created, err
		}
		created = append(created, path)
	}
	if path := cfg.ActionsPath(); missing(path) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return created, fmt.Errorf("create config dir: %w", err)
		}
		if err := action.SaveMapping(path, action.DefaultMapping()); err != nil {
			return created, err
		}
		created = append(created, path)
	}
	store := scenario.NewStore(dir, cfg.PermissionsPath())
	if path := store.PathOf(ExampleScenario.Name); missing(path) {
		if _, err := store.Save(ExampleScenario); err != nil {
			return created, err
		}
		created = append(created, path)
	}
	return created, nil
}
