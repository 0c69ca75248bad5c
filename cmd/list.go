package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mj1618/desktop-scenarios/internal/output"
	"github.com/mj1618/desktop-scenarios/internal/scenario"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List permission records and their scenario files",
	Long:  "List every record in the permission file with its alias, whether it is allowed, and the scenario file it resolves to.",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().Bool("allowed", false, "Only show allowed scenarios")
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	entries, err := scenario.NewStore(cfg.ScenarioPath(), cfg.PermissionsPath()).List()
	if err != nil {
		return err
	}
	if onlyAllowed, _ := cmd.Flags().GetBool("allowed"); onlyAllowed {
		kept := entries[:0]
		for _, e := range entries {
			if e.Allowed {
				kept = append(kept, e)
			}
		}
		entries = kept
	}
	if entries == nil {
		entries = []scenario.Entry{}
	}
	return output.Print(entries)
}
