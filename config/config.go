// Package config loads agent settings from a TOML file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"agentcore/logging"
	"agentcore/toolhost"
)

// Duration is a time.Duration that decodes from TOML strings like "30s".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// ToolHost describes how to launch one MCP tool server over stdio.
type ToolHost struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
	Env     []string `toml:"env"`
}

// Spec converts the entry into a tool host server descriptor.
func (t ToolHost) Spec() toolhost.ServerSpec {
	return toolhost.ServerSpec{Command: t.Command, Args: t.Args, Env: t.Env}
}

// Logging controls log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Logger builds a structured logger from the section. Unknown levels fall
// back to info.
func (l Logging) Logger() logging.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(l.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return logging.NewLogger(&logging.Config{Level: level, Format: l.Format})
}

// Config is the full application configuration.
type Config struct {
	Model        string     `toml:"model"`
	Strategy     string     `toml:"strategy"`
	SystemPrompt string     `toml:"system_prompt"`
	ModelTimeout Duration   `toml:"model_timeout"`
	ToolTimeout  Duration   `toml:"tool_timeout"`
	Logging      Logging    `toml:"logging"`
	ToolHosts    []ToolHost `toml:"tool_hosts"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Strategy:     "react",
		ModelTimeout: Duration(2 * time.Minute),
		ToolTimeout:  Duration(15 * time.Second),
		Logging:      Logging{Level: "info", Format: "text"},
	}
}

// Load reads a TOML configuration file. Fields absent from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
