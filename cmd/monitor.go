package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Watch the clipboard for trigger payloads and run scenarios",
	Long: `Poll the clipboard for text starting with the trigger prefix and run the
scenario it names. Runs until interrupted; an in-flight scenario is
cancelled at its next step.

Trigger payload:
  <trigger_prefix>{"actionName": "name", "dataForExecution": {"key": "value"}}`,
	Args: cobra.NoArgs,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.log.Info("scenario executor started",
		"config", a.cfg.Path,
		"scenarios", a.cfg.ScenarioPath(),
		"permissions", a.cfg.PermissionsPath())
	return a.engine.NewMonitor(a.provider.ClipboardManager).Run(ctx)
}
