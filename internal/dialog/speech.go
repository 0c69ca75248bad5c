package dialog

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/mj1618/desktop-scenarios/internal/action"
)

// Speech reads text aloud by running a platform TTS command with the text
// as its final argument.
type Speech struct {
	argv []string
	run  action.CommandRunner
}

// NewSpeech returns a speaker. command overrides the platform default and
// is split on whitespace.
func NewSpeech(command string) (*Speech, error) {
	return newSpeech(runtime.GOOS, command, action.ExecCommand)
}

func newSpeech(goos, command string, run action.CommandRunner) (*Speech, error) {
	argv := strings.Fields(command)
	if len(argv) == 0 {
		switch goos {
		case "darwin":
			argv = []string{"say"}
		case "linux":
			argv = []string{"espeak"}
		case "windows":
			argv = []string{"powershell", "-NoProfile", "-Command",
				"Add-Type -AssemblyName System.Speech; (New-Object System.Speech.Synthesis.SpeechSynthesizer).Speak($args[0])"}
		default:
			return nil, fmt.Errorf("speech not available on this platform")
		}
	}
	return &Speech{argv: argv, run: run}, nil
}

func (s *Speech) Speak(text string) error {
	args := append(append([]string(nil), s.argv[1:]...), text)
	res, err := s.run(s.argv[0], args...)
	if err != nil {
		return fmt.Errorf("speak: %w", err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("speak: %s exited with %d: %s", s.argv[0], res.ExitCode, strings.TrimSpace(res.Stderr))
	}
	return nil
}
