package cmd

import (
	"testing"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	expected := []string{"monitor", "run", "trigger", "list", "validate", "serve", "init", "preview"}
	commands := rootCmd.Commands()

	found := make(map[string]bool)
	for _, c := range commands {
		found[c.Name()] = true
	}

	for _, name := range expected {
		if !found[name] {
			t.Errorf("expected subcommand %q not found", name)
		}
	}
}

func TestRootCommand_Version(t *testing.T) {
	if rootCmd.Version == "" {
		t.Error("root command version should be set")
	}
}

func TestRunRequiresName(t *testing.T) {
	if err := runCmd.Args(runCmd, nil); err == nil {
		t.Error("run accepted zero arguments")
	}
	if err := runCmd.Args(runCmd, []string{"a"}); err != nil {
		t.Errorf("run rejected one argument: %v", err)
	}
}
