package dialog

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/mj1618/desktop-scenarios/internal/action"
)

const zenitySeparator = "\x1f"

// Zenity shows GTK dialogs through the zenity binary.
type Zenity struct {
	run action.CommandRunner
	// Fallback receives messages when zenity itself fails.
	Fallback action.Dialog
}

// NewZenity returns a zenity dialog, or an error if zenity is not installed.
func NewZenity(fallback action.Dialog) (*Zenity, error) {
	if _, err := exec.LookPath("zenity"); err != nil {
		return nil, fmt.Errorf("zenity not found: %w", err)
	}
	return &Zenity{run: action.ExecCommand, Fallback: fallback}, nil
}

func (z *Zenity) DisplayMessage(title, body string, isError bool) {
	kind := "--info"
	if isError {
		kind = "--error"
	}
	_, err := z.run("zenity", kind, "--title", title, "--text", body, "--width", "420")
	if err != nil && z.Fallback != nil {
		z.Fallback.DisplayMessage(title, body, isError)
	}
}

func (z *Zenity) PromptForm(title string, fields []action.FormField) (map[string]string, bool, error) {
	args := []string{"--forms", "--title", title, "--text", title, "--separator", zenitySeparator}
	for _, f := range fields {
		args = append(args, "--add-entry", f.Label())
	}
	res, err := z.run("zenity", args...)
	if err != nil {
		return nil, false, fmt.Errorf("zenity forms: %w", err)
	}
	switch res.ExitCode {
	case 0:
	case 1, 5:
		// Cancel button, closed window or timeout.
		return nil, false, nil
	default:
		return nil, false, fmt.Errorf("zenity forms exited with %d: %s", res.ExitCode, strings.TrimSpace(res.Stderr))
	}
	out := strings.TrimSuffix(res.Stdout, "\n")
	parts := strings.Split(out, zenitySeparator)
	if len(fields) > 0 && len(parts) != len(fields) {
		return nil, false, errors.New("zenity returned an unexpected number of values")
	}
	values := make(map[string]string, len(fields))
	for i, f := range fields {
		values[f.Name] = parts[i]
	}
	return values, true, nil
}
