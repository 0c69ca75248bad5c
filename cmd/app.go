package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/mj1618/desktop-scenarios/internal/action"
	"github.com/mj1618/desktop-scenarios/internal/config"
	"github.com/mj1618/desktop-scenarios/internal/dialog"
	"github.com/mj1618/desktop-scenarios/internal/engine"
	"github.com/mj1618/desktop-scenarios/internal/logging"
	"github.com/mj1618/desktop-scenarios/internal/overlay"
	"github.com/mj1618/desktop-scenarios/internal/platform"

	// Registers the X11 input backend on linux.
	_ "github.com/mj1618/desktop-scenarios/internal/platform/xdotool"
)

// app is the wiring shared by commands that execute scenarios.
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	provider *platform.Provider
	console  *dialog.Console
	engine   *engine.Engine
}

// loadConfig reads --config and applies the log flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	if f, _ := cmd.Flags().GetString("log-format"); f != "" {
		cfg.LogFormat = f
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*slog.Logger, error) {
	return logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
}

// newProvider returns the input backend for this desktop, or a clipboard-only
// provider when none is available.
func newProvider(log *slog.Logger) *platform.Provider {
	p, err := platform.NewProvider()
	if err != nil {
		log.Warn("input backend unavailable, mouse and keyboard steps will fail", "error", err)
		return platform.NewClipboardOnlyProvider()
	}
	return p
}

// newApp builds the engine and its collaborators. With ownStdin false the
// console never reads stdin, which the MCP stdio transport owns.
func newApp(cmd *cobra.Command, ownStdin bool) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	var in io.Reader = strings.NewReader("")
	interactive := false
	if ownStdin {
		in = os.Stdin
		interactive = isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}
	console := dialog.NewConsole(in, os.Stderr, interactive)

	var dlg action.Dialog = console
	if cfg.Dialog == "zenity" {
		z, err := dialog.NewZenity(console)
		if err != nil {
			log.Warn("falling back to console dialogs", "error", err)
		} else {
			dlg = z
		}
	}

	var speaker action.Speaker
	if cfg.Speech {
		s, err := dialog.NewSpeech(cfg.SpeechCommand)
		if err != nil {
			log.Warn("speech disabled", "error", err)
		} else {
			speaker = s
		}
	}

	var confirm overlay.Confirmer
	if ownStdin {
		confirm = console
	}

	provider := newProvider(log)
	eng, err := engine.New(cfg, engine.Options{
		Dialog:   dlg,
		Speaker:  speaker,
		Overlay:  overlay.New(cfg.OverlayPath(), confirm, os.Stderr, log),
		Provider: provider,
		Commands: action.ExecCommand,
		Logger:   log,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (run \"desktop-scenarios init\" to create default files)", err)
	}
	return &app{cfg: cfg, log: log, provider: provider, console: console, engine: eng}, nil
}
