package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mj1618/desktop-scenarios/internal/config"
	"github.com/mj1618/desktop-scenarios/internal/output"
	"github.com/mj1618/desktop-scenarios/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "desktop-scenarios",
	Short: "Run declarative desktop automation scenarios",
	Long: `Run named desktop automation scenarios: ordered lists of steps such as
clicks, typing, waits, messages, forms and shell commands.

A scenario runs when a trigger payload appears on the clipboard while the
monitor is running, when it is invoked directly with "run", or through the
MCP server. Only scenarios listed as allowed in the permission file run.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("config", "", "Config file (default: "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().String("format", "auto", "Output format: yaml, json, auto")
	rootCmd.PersistentFlags().Bool("pretty", false, "Pretty-print JSON output")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text, json (overrides config)")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		format, _ := rootCmd.PersistentFlags().GetString("format")
		f, err := output.ParseFormat(format)
		if err != nil {
			return err
		}
		output.OutputFormat = f
		output.PrettyOutput, _ = rootCmd.PersistentFlags().GetBool("pretty")
		return nil
	}
}
