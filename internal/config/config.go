package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Environment variables that override the config file
const (
	EnvWriteFolder = "NBEDIT_WRITE_FOLDER"
	EnvModel       = "NBEDIT_MODEL"
	EnvAddr        = "NBEDIT_ADDR"
	EnvAPIKey      = "ANTHROPIC_API_KEY"
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("config: invalid")

// Duration is a time.Duration written as a string such as "100ms"
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config is the whole application configuration
type Config struct {
	WriteFolder string        `toml:"write_folder"`
	LogDir      string        `toml:"log_dir"`
	Debug       bool          `toml:"debug"`
	AI          AIConfig      `toml:"ai"`
	Editor      EditorConfig  `toml:"editor"`
	Preview     PreviewConfig `toml:"preview"`
	Server      ServerConfig  `toml:"server"`
}

type AIConfig struct {
	Model            string `toml:"model"`
	MaxTokens        int64  `toml:"max_tokens"`
	SystemPromptFile string `toml:"system_prompt_file"`
	// APIKey only comes from the environment
	APIKey string `toml:"-"`
}

type EditorConfig struct {
	HistorySize   int      `toml:"history_size"`
	DebounceDelay Duration `toml:"debounce_delay"`
	ContextWindow int      `toml:"context_window"`
	DropFilter    string   `toml:"drop_filter"`
}

type PreviewConfig struct {
	Style     string `toml:"style"`
	Formatter string `toml:"formatter"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	logDir := filepath.Join(home, ".local", "state", "nbedit")
	if cache, err := os.UserCacheDir(); err == nil {
		logDir = filepath.Join(cache, "nbedit")
	}

	return &Config{
		WriteFolder: filepath.Join(home, "nbedit"),
		LogDir:      logDir,
		AI: AIConfig{
			Model:     "claude-sonnet-4-20250514",
			MaxTokens: 1024,
		},
		Editor: EditorConfig{
			HistorySize:   50,
			DebounceDelay: Duration{100 * time.Millisecond},
			ContextWindow: 100,
			DropFilter:    "image/",
		},
		Preview: PreviewConfig{
			Style:     "dracula",
			Formatter: "terminal256",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:5000",
		},
	}
}

// DefaultPath is $XDG_CONFIG_HOME/nbedit/config.toml or the platform
// equivalent
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "nbedit", "config.toml")
}

// Load reads path over the defaults and applies environment overrides. An
// empty path means DefaultPath, which may be missing. An explicit path must
// exist.
func Load(path string) (*Config, error) {
	return load(path, os.Getenv)
}

func load(path string, getenv func(string) string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := decode(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		case os.IsNotExist(err) && !explicit:
		default:
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	cfg.applyEnv(getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(cfg)
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv(EnvWriteFolder); v != "" {
		c.WriteFolder = v
	}
	if v := getenv(EnvModel); v != "" {
		c.AI.Model = v
	}
	if v := getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := getenv(EnvAPIKey); v != "" {
		c.AI.APIKey = v
	}
}

// Validate checks the values a run depends on
func (c *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.WriteFolder) == "" {
		problems = append(problems, "write_folder is required")
	}
	if c.AI.MaxTokens <= 0 {
		problems = append(problems, "ai.max_tokens must be positive")
	}
	if c.Editor.HistorySize <= 0 {
		problems = append(problems, "editor.history_size must be positive")
	}
	if c.Editor.DebounceDelay.Duration <= 0 {
		problems = append(problems, "editor.debounce_delay must be positive")
	}
	if c.Editor.ContextWindow < 0 {
		problems = append(problems, "editor.context_window must not be negative")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// SystemPrompt reads the configured system prompt file. No file configured
// means no system prompt.
func (c *Config) SystemPrompt() (string, error) {
	if c.AI.SystemPromptFile == "" {
		return "", nil
	}
	data, err := os.ReadFile(c.AI.SystemPromptFile)
	if err != nil {
		return "", fmt.Errorf("system prompt file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Encode renders the configuration as TOML
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}
