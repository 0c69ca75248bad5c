package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mj1618/desktop-scenarios/internal/output"
)

var runCmd = &cobra.Command{
	Use:   "run <name>",
	Short: "Run an allowed scenario now",
	Long: `Run a scenario by name or alias through the same permission check and
execution slot as a clipboard trigger, then print the result.

Examples:
  desktop-scenarios run open_mail
  desktop-scenarios run greet --var user=ann
  desktop-scenarios run report --vars-json '{"month":"03"}'`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	addVarFlags(runCmd)
	runCmd.Flags().Duration("wait", 0, "How long to wait for a running scenario to finish (default: acquire_timeout)")
}

func runRun(cmd *cobra.Command, args []string) error {
	initial, err := varsFromFlags(cmd)
	if err != nil {
		return err
	}
	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}
	wait, _ := cmd.Flags().GetDuration("wait")
	if wait <= 0 {
		wait = a.cfg.AcquireTimeout.Std()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := a.engine.RunExclusive(ctx, args[0], initial, wait)
	if err != nil {
		return err
	}
	if err := output.Print(res); err != nil {
		return err
	}
	if !res.OK() {
		return fmt.Errorf("scenario %q %s", res.Scenario, res.State)
	}
	return nil
}
