package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mj1618/desktop-scenarios/internal/monitor"
)

// addVarFlags registers --var and --vars-json on cmd.
func addVarFlags(cmd *cobra.Command) {
	cmd.Flags().StringArray("var", nil, "Initial variable as name=value (repeatable)")
	cmd.Flags().String("vars-json", "", `Initial variables as a flat JSON object, e.g. '{"user":"ann"}'`)
}

// varsFromFlags merges --vars-json and --var; --var wins on conflicts.
func varsFromFlags(cmd *cobra.Command) (map[string]string, error) {
	pairs, _ := cmd.Flags().GetStringArray("var")
	raw, _ := cmd.Flags().GetString("vars-json")
	return parseVars(pairs, raw)
}

func parseVars(pairs []string, raw string) (map[string]string, error) {
	out := make(map[string]string)
	if strings.TrimSpace(raw) != "" {
		data, err := monitor.DecodeData([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("--vars-json: %w", err)
		}
		for k, v := range data {
			out[k] = v
		}
	}
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("--var %q: expected name=value", p)
		}
		out[strings.TrimSpace(name)] = value
	}
	return out, nil
}
