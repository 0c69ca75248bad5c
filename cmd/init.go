package cmd

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mj1618/desktop-scenarios/internal/config"
	"github.com/mj1618/desktop-scenarios/internal/engine"
	"github.com/mj1618/desktop-scenarios/internal/output"
)

// InitResult is the output of `init`.
type InitResult struct {
	OK      bool     `yaml:"ok"      json:"ok"`
	Action  string   `yaml:"action"  json:"action"`
	Config  string   `yaml:"config"  json:"config"`
	Created []string `yaml:"created" json:"created"`
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the default config, permission list and action mapping",
	Long: `Create whatever is missing of the config file, the scenario directory, an
empty permission list, the default action mapping and an example scenario.
Existing files are never overwritten.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	switch {
	case err == nil:
	case path != "" && errors.Is(err, os.ErrNotExist):
		cfg = config.Default()
		cfg.Path = path
		cfg.Dir = filepath.Dir(path)
	default:
		return err
	}
	created, err := engine.Bootstrap(cfg)
	if err != nil {
		return err
	}
	if created == nil {
		created = []string{}
	}
	return output.Print(InitResult{OK: true, Action: "init", Config: cfg.Path, Created: created})
}
