// Package config loads the TOML configuration of the scenario engine.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultTriggerPrefix is the marker that makes clipboard content a trigger.
const DefaultTriggerPrefix = "Execute_Computer_Command_Your_Pure_AI-"

// Config is the engine configuration. Relative paths are resolved against
// Dir, the directory of the config file.
type Config struct {
	ScenarioDir     string `toml:"scenario_dir"`
	PermissionsFile string `toml:"permissions_file"`
	ActionsFile     string `toml:"actions_file"`

	TriggerPrefix  string   `toml:"trigger_prefix"`
	PollInterval   Duration `toml:"poll_interval"`
	AcquireTimeout Duration `toml:"acquire_timeout"`
	ErrorBackoff   Duration `toml:"error_backoff"`

	Dialog        string `toml:"dialog"` // console or zenity
	Speech        bool   `toml:"speech"`
	SpeechCommand string `toml:"speech_command,omitempty"`

	OverlayDir string `toml:"overlay_dir,omitempty"`
	TraceDir   string `toml:"trace_dir,omitempty"`

	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`

	// Path is the file the config was loaded from; Dir its directory.
	Path string `toml:"-"`
	Dir  string `toml:"-"`
}

// Default returns the built-in configuration rooted at DefaultDir.
func Default() *Config {
	return &Config{
		ScenarioDir:     "scenarios",
		PermissionsFile: "allowed_scenarios.json",
		ActionsFile:     "actions_config.json",
		TriggerPrefix:   DefaultTriggerPrefix,
		PollInterval:    Duration(time.Second),
		AcquireTimeout:  Duration(time.Second),
		ErrorBackoff:    Duration(5 * time.Second),
		Dialog:          "console",
		LogLevel:        "info",
		LogFormat:       "text",
		Path:            DefaultPath(),
		Dir:             DefaultDir(),
	}
}

// DefaultDir returns the default configuration directory.
func DefaultDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "desktop-scenarios")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "desktop-scenarios")
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.toml")
}

// Load reads the config at path over the defaults. An empty path means
// DefaultPath, which may be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	cfg := Default()
	cfg.Path = path
	cfg.Dir = filepath.Dir(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, &Error{What: "config", Path: path, Err: err}
	}
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, &Error{What: "config", Path: path, Err: fmt.Errorf("parsing config: %w", err)}
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, &Error{What: "config", Path: path, Err: fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))}
	}
	if err := cfg.Validate(); err != nil {
		return nil, &Error{What: "config", Path: path, Err: err}
	}
	return cfg, nil
}

// Validate checks enumerations and durations.
func (c *Config) Validate() error {
	var errs []error
	switch c.Dialog {
	case "console", "zenity":
	default:
		errs = append(errs, fmt.Errorf("dialog must be console or zenity, got %q", c.Dialog))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format must be text or json, got %q", c.LogFormat))
	}
	if c.TriggerPrefix == "" {
		errs = append(errs, errors.New("trigger_prefix must not be empty"))
	}
	for name, d := range map[string]Duration{
		"poll_interval":   c.PollInterval,
		"acquire_timeout": c.AcquireTimeout,
		"error_backoff":   c.ErrorBackoff,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", name))
		}
	}
	return errors.Join(errs...)
}

// Resolve makes p absolute relative to the config directory.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return filepath.Join(c.Dir, p)
}

func (c *Config) ScenarioPath() string    { return c.Resolve(c.ScenarioDir) }
func (c *Config) PermissionsPath() string { return c.Resolve(c.PermissionsFile) }
func (c *Config) ActionsPath() string     { return c.Resolve(c.ActionsFile) }
func (c *Config) TracePath() string       { return c.Resolve(c.TraceDir) }

// OverlayPath returns where highlight frames are written.
func (c *Config) OverlayPath() string {
	if c.OverlayDir == "" {
		return filepath.Join(os.TempDir(), "desktop-scenarios-overlay")
	}
	return c.Resolve(c.OverlayDir)
}

// Encode renders the config as TOML.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the config as TOML to path.
func (c *Config) Save(path string) error {
	data, err := c.Encode()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
