package action

import (
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"strings"

	"github.com/mj1618/desktop-scenarios/internal/vars"
)

// EncodedPrefix marks variables whose values are URL-encoded when
// substituted into a command.
const EncodedPrefix = "enc_"

type shell struct {
	label string
	argv  func(goos, script string) []string
}

var shells = map[string]shell{
	"cmd": {label: "Command Prompt (cmd.exe)", argv: func(_, s string) []string {
		return []string{"cmd", "/d", "/c", s}
	}},
	"powershell": {label: "PowerShell", argv: func(goos, s string) []string {
		bin := "pwsh"
		if goos == "windows" {
			bin = "powershell"
		}
		return []string{bin, "-NoProfile", "-ExecutionPolicy", "Bypass", "-Command", s}
	}},
	"sh": {label: "sh", argv: func(_, s string) []string {
		return []string{"sh", "-c", s}
	}},
	"bash": {label: "bash", argv: func(_, s string) []string {
		return []string{"bash", "-c", s}
	}},
}

// EncodeVars returns a copy of v with every enc_ value URL-encoded. The input
// mapping is not modified.
func EncodeVars(v vars.Vars) vars.Vars {
	out := make(vars.Vars, len(v))
	for k, val := range v {
		if strings.HasPrefix(k, EncodedPrefix) {
			val = strings.ReplaceAll(url.QueryEscape(val), "+", "%20")
		}
		out[k] = val
	}
	return out
}

// executeCommand runs a shell script. The script template is taken from the
// raw step so enc_ variables can be substituted in encoded form.
func executeCommand(data map[string]any, v vars.Vars, rc *Context) bool {
	if rc.Cancelled() {
		return false
	}
	kind := strings.ToLower(StringParam(data, "command_type", ""))
	if kind == "" {
		return rc.Fail("Execute Command: missing 'command_type' (cmd, powershell, sh or bash)")
	}
	sh, ok := shells[kind]
	if !ok {
		return rc.Fail("Execute Command: invalid 'command_type' ('%s'). Must be cmd, powershell, sh or bash", kind)
	}
	goos := rc.goos()
	if kind == "cmd" && goos != "windows" {
		return rc.Fail("Execute Command: 'cmd' is only available on Windows")
	}
	if (kind == "sh" || kind == "bash") && goos == "windows" {
		return rc.Fail("Execute Command: '%s' is not available on Windows", kind)
	}

	template := StringParam(rc.Step.Data, "commands", "")
	if template == "" {
		template = StringParam(data, "commands", "")
	}
	if template == "" {
		return rc.Fail("Execute Command: missing 'commands' to execute")
	}
	script := EncodeVars(v).SubstituteString(template)

	argv := sh.argv(goos, script)
	rc.log().Info("running command", "shell", sh.label, "command", script)
	res, err := rc.run(argv[0], argv[1:]...)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return rc.Fail("Execute Command: %s executable not found. Is it installed and in your PATH?", sh.label)
		}
		return rc.Fail("Execute Command: failed to start %s: %v", sh.label, err)
	}
	rc.log().Info("command finished", "exit_code", res.ExitCode,
		"stdout", strings.TrimSpace(res.Stdout), "stderr", strings.TrimSpace(res.Stderr))

	if name := StringParam(data, "output_variable", ""); name != "" {
		v.Set(name, strings.TrimSpace(res.Stdout))
	}
	if BoolParam(data, "check", false) && res.ExitCode != 0 {
		msg := fmt.Sprintf("exit code %d", res.ExitCode)
		if stderr := strings.TrimSpace(res.Stderr); stderr != "" {
			msg += ": " + stderr
		}
		return rc.Fail("Execute Command: %s failed with %s", sh.label, msg)
	}
	return true
}
