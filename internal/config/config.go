package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/studiowebux/authdialog/internal/keybinds"
	"github.com/studiowebux/authdialog/internal/layout"
	"gopkg.in/yaml.v3"
)

const (
	// FilePermissions is the default permission mode for regular files (read/write for owner, read for others)
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories (rwxr-xr-x)
	DirPermissions = 0755
)

// Environment variables that override the config file
const (
	EnvAPIKey             = "AUTHDIALOG_API_KEY"
	EnvEndpoint           = "AUTHDIALOG_ENDPOINT"
	EnvDefaultDestination = "AUTHDIALOG_DEFAULT_DESTINATION"
	EnvReleasesURL        = "AUTHDIALOG_RELEASES_URL"
)

var (
	// ConfigDir is the global configuration directory (~/.authdialog)
	ConfigDir string

	// ConfigFile is the YAML configuration file
	ConfigFile string

	// DatabasePath is the SQLite database used by the development backend
	DatabasePath string

	// LogFile is where the dialog writes its log while it owns the terminal
	LogFile string
)

// Config is the content of config.yaml
type Config struct {
	Auth               AuthConfig         `yaml:"auth"`
	Terminal           TerminalConfig     `yaml:"terminal"`
	DefaultDestination string             `yaml:"default_destination"`
	Server             ServerConfig       `yaml:"server"`
	Layout             layout.Overrides   `yaml:"layout,omitempty"`
	Log                LogConfig          `yaml:"log"`
	Keybinds           keybinds.Config    `yaml:"keybinds,omitempty"`
	Update             UpdateConfig       `yaml:"update,omitempty"`
}

// AuthConfig points the dialog at an auth backend
type AuthConfig struct {
	Endpoint string        `yaml:"endpoint"`
	APIKey   string        `yaml:"api_key"`
	Timeout  time.Duration `yaml:"timeout"`
}

// TerminalConfig describes the terminal the dialog renders into
type TerminalConfig struct {
	layout.CellMetrics `yaml:",inline"`
	ResizeDebounce     time.Duration `yaml:"resize_debounce"`
}

// ServerConfig configures the development backend
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	Database        string        `yaml:"database"`
	MaxFailedLogins int           `yaml:"max_failed_logins"`
	LockoutWindow   time.Duration `yaml:"lockout_window"`
	TokenTTL        time.Duration `yaml:"token_ttl"`
	ResetCodeTTL    time.Duration `yaml:"reset_code_ttl"`
}

// UpdateConfig configures `version --check`. The check is skipped while
// ReleasesURL is empty.
type UpdateConfig struct {
	ReleasesURL string `yaml:"releases_url,omitempty"`
}

// LogConfig configures logrus
type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// Default returns the configuration used for missing fields
func Default() Config {
	return Config{
		Auth: AuthConfig{
			Endpoint: "http://127.0.0.1:9099",
			Timeout:  30 * time.Second,
		},
		Terminal: TerminalConfig{
			CellMetrics:    layout.DefaultCellMetrics(),
			ResizeDebounce: 150 * time.Millisecond,
		},
		DefaultDestination: "/",
		Server: ServerConfig{
			Addr:            "127.0.0.1:9099",
			Database:        DatabasePath,
			MaxFailedLogins: 5,
			LockoutWindow:   5 * time.Minute,
			TokenTTL:        time.Hour,
			ResetCodeTTL:    time.Hour,
		},
		Log: LogConfig{
			File:  LogFile,
			Level: "info",
		},
	}
}

// Initialize sets up the configuration directory and files
// It creates ~/.authdialog/ and a default config.yaml if they don't exist
func Initialize() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	return InitializeAt(filepath.Join(homeDir, ".authdialog"))
}

// InitializeAt is Initialize rooted at dir instead of the home directory
func InitializeAt(dir string) error {
	ConfigDir = dir
	ConfigFile = filepath.Join(ConfigDir, "config.yaml")
	DatabasePath = filepath.Join(ConfigDir, "users.db")
	LogFile = filepath.Join(ConfigDir, "authdialog.log")

	if err := os.MkdirAll(ConfigDir, DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", ConfigDir, err)
	}

	// Create default config file if it doesn't exist
	if _, err := os.Stat(ConfigFile); os.IsNotExist(err) {
		data, err := Marshal(Default())
		if err != nil {
			return err
		}
		if err := os.WriteFile(ConfigFile, data, FilePermissions); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
	}

	return nil
}

// Load reads the config file at path, then .env files, then environment
// overrides. A missing path yields the defaults. Zero fields are filled
// from Default.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse YAML config: %w", err)
			}
		}
	}

	// .env in the working directory, then in the config directory.
	// godotenv never overrides variables that are already set.
	for _, envFile := range envFiles() {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}
	cfg.applyEnv()

	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func envFiles() []string {
	files := []string{".env"}
	if ConfigDir != "" {
		files = append(files, filepath.Join(ConfigDir, ".env"))
	}
	return files
}

func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv(EnvAPIKey); ok {
		c.Auth.APIKey = v
	}
	if v, ok := os.LookupEnv(EnvEndpoint); ok && v != "" {
		c.Auth.Endpoint = v
	}
	if v, ok := os.LookupEnv(EnvDefaultDestination); ok && v != "" {
		c.DefaultDestination = v
	}
	if v, ok := os.LookupEnv(EnvReleasesURL); ok {
		c.Update.ReleasesURL = v
	}
}

func (c *Config) fillDefaults() {
	def := Default()

	if c.Auth.Endpoint == "" {
		c.Auth.Endpoint = def.Auth.Endpoint
	}
	if c.Auth.Timeout <= 0 {
		c.Auth.Timeout = def.Auth.Timeout
	}
	c.Terminal.CellMetrics = c.Terminal.CellMetrics.WithDefaults()
	if c.Terminal.ResizeDebounce < 0 {
		c.Terminal.ResizeDebounce = 0
	}
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
	if c.Server.Database == "" {
		c.Server.Database = def.Server.Database
	}
	if c.Server.LockoutWindow <= 0 {
		c.Server.LockoutWindow = def.Server.LockoutWindow
	}
	if c.Server.TokenTTL <= 0 {
		c.Server.TokenTTL = def.Server.TokenTTL
	}
	if c.Server.ResetCodeTTL <= 0 {
		c.Server.ResetCodeTTL = def.Server.ResetCodeTTL
	}
	if c.Log.File == "" {
		c.Log.File = def.Log.File
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}

// Breakpoints returns the layout thresholds with the configured overrides
// applied to the defaults
func (c *Config) Breakpoints() layout.Breakpoints {
	return c.Layout.Resolved()
}

// Validate checks values that have no sensible default
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Auth.Endpoint, "http://") && !strings.HasPrefix(c.Auth.Endpoint, "https://") {
		return fmt.Errorf("auth.endpoint must be an http(s) URL, got %q", c.Auth.Endpoint)
	}
	if c.Server.MaxFailedLogins < 0 {
		return fmt.Errorf("server.max_failed_logins cannot be negative")
	}
	if u := c.Update.ReleasesURL; u != "" && !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		return fmt.Errorf("update.releases_url must be an http(s) URL, got %q", u)
	}
	if c.DefaultDestination != "" && !strings.HasPrefix(c.DefaultDestination, "/") {
		return fmt.Errorf("default_destination must be a path starting with /, got %q", c.DefaultDestination)
	}
	return nil
}

// Marshal encodes cfg as YAML with two-space indentation
func Marshal(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return buf.Bytes(), nil
}
