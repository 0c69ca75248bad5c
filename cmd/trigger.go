package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mj1618/desktop-scenarios/internal/monitor"
	"github.com/mj1618/desktop-scenarios/internal/output"
	"github.com/mj1618/desktop-scenarios/internal/platform"
)

// TriggerResult is the output of `trigger`.
type TriggerResult struct {
	OK      bool   `yaml:"ok"      json:"ok"`
	Action  string `yaml:"action"  json:"action"`
	Payload string `yaml:"payload" json:"payload"`
}

var triggerCmd = &cobra.Command{
	Use:   "trigger <name>",
	Short: "Copy a trigger payload for a scenario to the clipboard",
	Long:  "Write <trigger_prefix><json> to the clipboard so a running monitor executes the named scenario.",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrigger,
}

func init() {
	rootCmd.AddCommand(triggerCmd)
	addVarFlags(triggerCmd)
}

func runTrigger(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	initial, err := varsFromFlags(cmd)
	if err != nil {
		return err
	}
	t := &monitor.Trigger{ActionName: args[0]}
	if len(initial) > 0 {
		t.DataForExecution = initial
	}
	payload, err := t.Encode(cfg.TriggerPrefix)
	if err != nil {
		return err
	}
	if err := (platform.SystemClipboard{}).SetText(payload); err != nil {
		return err
	}
	return output.Print(TriggerResult{OK: true, Action: "trigger", Payload: payload})
}
