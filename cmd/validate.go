package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mj1618/desktop-scenarios/internal/action"
	"github.com/mj1618/desktop-scenarios/internal/config"
	"github.com/mj1618/desktop-scenarios/internal/engine"
	"github.com/mj1618/desktop-scenarios/internal/output"
	"github.com/mj1618/desktop-scenarios/internal/scenario"
	"github.com/mj1618/desktop-scenarios/internal/watcher"
)

// ValidateResult is the output of `validate` for one file.
type ValidateResult struct {
	File   string   `yaml:"file"             json:"file"`
	Valid  bool     `yaml:"valid"            json:"valid"`
	Steps  int      `yaml:"steps"            json:"steps"`
	Errors []string `yaml:"errors,omitempty" json:"errors,omitempty"`
}

var validateCmd = &cobra.Command{
	Use:   "validate [file|name]...",
	Short: "Validate scenario files against the schema and the action mapping",
	Long: `Check scenario files for schema errors and for step types missing from the
action mapping. Arguments are file paths or scenario names; with none, every
scenario file in the scenario directory is checked.

Examples:
  desktop-scenarios validate
  desktop-scenarios validate scenarios/open_mail.yaml
  desktop-scenarios validate --watch
  desktop-scenarios validate --schema > scenario.schema.json`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("watch", false, "Re-validate files as they change")
	validateCmd.Flags().Bool("schema", false, "Print the scenario JSON Schema and exit")
}

func runValidate(cmd *cobra.Command, args []string) error {
	if schema, _ := cmd.Flags().GetBool("schema"); schema {
		data, err := scenario.GenerateJSONSchema()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	paths, err := validationTargets(cfg, args)
	if err != nil {
		return err
	}
	results, err := validateFiles(cfg, paths)
	if err != nil {
		return err
	}
	if err := output.Print(results); err != nil {
		return err
	}

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		return watchAndValidate(cmd, cfg, paths)
	}
	for _, r := range results {
		if !r.Valid {
			return fmt.Errorf("validation failed")
		}
	}
	return nil
}

// validationTargets maps arguments to files: existing paths are used as is,
// anything else is resolved as a scenario name.
func validationTargets(cfg *config.Config, args []string) ([]string, error) {
	if len(args) == 0 {
		return scenarioFiles(cfg.ScenarioPath())
	}
	store := scenario.NewStore(cfg.ScenarioPath(), cfg.PermissionsPath())
	paths := make([]string, 0, len(args))
	for _, arg := range args {
		if info, err := os.Stat(arg); err == nil && !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		p, err := store.Resolve(arg)
		if err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func scenarioFiles(dir string) ([]string, error) {
	var paths []string
	for _, ext := range scenario.Extensions {
		m, err := filepath.Glob(filepath.Join(dir, "*"+ext))
		if err != nil {
			return nil, err
		}
		paths = append(paths, m...)
	}
	return paths, nil
}

func validateFiles(cfg *config.Config, paths []string) ([]ValidateResult, error) {
	m, err := action.LoadMapping(cfg.ActionsPath())
	if err != nil {
		return nil, err
	}
	table, err := action.NewRegistry().Bind(m)
	if err != nil {
		return nil, &config.Error{What: "actions config", Path: cfg.ActionsPath(), Err: err}
	}
	results := make([]ValidateResult, 0, len(paths))
	for _, p := range paths {
		results = append(results, validateFile(table, p))
	}
	return results, nil
}

func validateFile(table *action.Table, path string) ValidateResult {
	r := ValidateResult{File: path}
	sc, err := scenario.LoadFile(path)
	if err != nil {
		r.Errors = []string{err.Error()}
		return r
	}
	r.Steps = sc.Len()
	for _, e := range engine.CheckSteps(table, sc) {
		r.Errors = append(r.Errors, e.Error())
	}
	r.Valid = len(r.Errors) == 0
	return r
}

func watchAndValidate(cmd *cobra.Command, cfg *config.Config, paths []string) error {
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	dirs := map[string]bool{}
	if len(paths) == 0 {
		dirs[cfg.ScenarioPath()] = true
	}
	for _, p := range paths {
		dirs[filepath.Dir(p)] = true
	}

	w, err := watcher.New(func(changed []string) {
		results, err := validateFiles(cfg, changed)
		if err != nil {
			log.Error("validation failed", "error", err)
			return
		}
		if err := output.Print(results); err != nil {
			log.Error("print results", "error", err)
		}
	},
		watcher.WithFilter(scenario.HasScenarioExtension),
		watcher.WithErrorHandler(func(err error) { log.Warn("watch error", "error", err) }),
	)
	if err != nil {
		return err
	}
	defer w.Close()
	for d := range dirs {
		if err := w.Add(d); err != nil {
			return fmt.Errorf("watch %s: %w", d, err)
		}
		log.Info("watching for scenario changes", "dir", d)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	return nil
}
