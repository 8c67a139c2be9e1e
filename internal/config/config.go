package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"filesaver/internal/errors"
	"filesaver/internal/naming"
	"filesaver/internal/patterns"
	"filesaver/pkg/types"
)

// Config represents the application configuration structure.
// It defines placement defaults, date handling, trash and watch mode parameters.
type Config struct {
	Save struct {
		TargetDirectory string `yaml:"target_directory" toml:"target_directory" json:"target_directory"` // Default target directory
		Action          string `yaml:"action" toml:"action" json:"action"`                               // copy or move
		SortFormat      string `yaml:"sort_format" toml:"sort_format" json:"sort_format"`                // Empty = flat placement
		Workers         int    `yaml:"workers" toml:"workers" json:"workers"`                            // Files placed concurrently
		DryRun          bool   `yaml:"dry_run" toml:"dry_run" json:"dry_run"`                            // If true, simulate operations
	} `yaml:"save" toml:"save" json:"save"`
	Locale string `yaml:"locale" toml:"locale" json:"locale"` // Month names and messages
	Date   struct {
		ModTimeFallback bool `yaml:"mod_time_fallback" toml:"mod_time_fallback" json:"mod_time_fallback"` // Use mtime when birth time is missing
	} `yaml:"date" toml:"date" json:"date"`
	Trash struct {
		Directory string `yaml:"directory" toml:"directory" json:"directory"` // Empty = system trash
	} `yaml:"trash" toml:"trash" json:"trash"`
	Watch struct {
		Directories   []string `yaml:"directories" toml:"directories" json:"directories"`          // Inbox directories
		Include       []string `yaml:"include" toml:"include" json:"include"`                      // Base name globs to pick up
		Exclude       []string `yaml:"exclude" toml:"exclude" json:"exclude"`                      // Base name globs to ignore
		SettleSeconds int      `yaml:"settle_seconds" toml:"settle_seconds" json:"settle_seconds"` // Quiet time before a file is saved
		LockFile      string   `yaml:"lock_file" toml:"lock_file" json:"lock_file"`                // Empty = <tmp>/filesaver-watch.lock
	} `yaml:"watch" toml:"watch" json:"watch"`
	Logging struct {
		Debug bool `yaml:"debug" toml:"debug" json:"debug"`
		JSON  bool `yaml:"json" toml:"json" json:"json"`
	} `yaml:"logging" toml:"logging" json:"logging"`
	Theme string `yaml:"theme" toml:"theme" json:"theme"` // CLI color theme
}

// DefaultPath returns the default configuration location
// (~/.config/filesaver/config.yaml).
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "filesaver", "config.yaml"), nil
}

// LoadConfig loads configuration from the default location.
func LoadConfig() (*Config, error) {
	configPath, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(configPath)
}

// LoadConfigFile loads configuration from a specific file path.
// The format follows the extension: .toml, .json, otherwise YAML.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Decoding over the defaults keeps them for keys the file leaves out.
	if err := unmarshal(path, data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func format(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return "toml"
	case ".json":
		return "json"
	default:
		return "yaml"
	}
}

func unmarshal(path string, data []byte, cfg *Config) error {
	switch format(path) {
	case "toml":
		return toml.Unmarshal(data, cfg)
	case "json":
		return json.Unmarshal(data, cfg)
	default:
		return yaml.Unmarshal(data, cfg)
	}
}

// Marshal encodes cfg in the format matching path's extension
func Marshal(cfg *Config, path string) ([]byte, error) {
	switch format(path) {
	case "toml":
		return toml.Marshal(cfg)
	case "json":
		return json.MarshalIndent(cfg, "", "  ")
	default:
		return yaml.Marshal(cfg)
	}
}

// defaultConfig returns the default configuration with safe defaults.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Save.Action = types.Copy.String() // Never removes sources by default
	cfg.Save.Workers = 1
	cfg.Locale = "de"

	cfg.Watch.Directories = []string{}
	cfg.Watch.Include = []string{"*"}
	cfg.Watch.Exclude = []string{".*", "*~", "*.part", "*.crdownload"}
	cfg.Watch.SettleSeconds = 2

	cfg.Theme = "default"
	return cfg
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := Marshal(cfg, path)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func invalid(param, format string, args ...interface{}) error {
	return errors.NewConfigError(fmt.Sprintf(format, args...), param, errors.InvalidConfig, nil)
}

// Validate checks if the configuration is valid.
// Returns a ConfigError naming the offending setting.
func (c *Config) Validate() error {
	if c == nil {
		return invalid("", "nil config")
	}

	if _, err := types.ParseSaveAction(c.Save.Action); err != nil {
		return invalid("save.action", "invalid save action: %s", c.Save.Action)
	}
	if c.Save.Workers < 1 {
		return invalid("save.workers", "workers must be >= 1")
	}
	if c.Save.SortFormat != "" {
		if err := naming.Validate(c.Save.SortFormat); err != nil {
			return errors.NewConfigError("invalid sort format", "save.sort_format", errors.InvalidConfig, err)
		}
	}

	if _, err := language.Parse(c.Locale); err != nil {
		return errors.NewConfigError("invalid locale", "locale", errors.InvalidConfig, err)
	}

	for _, dir := range c.Watch.Directories {
		if dir == "" {
			return invalid("watch.directories", "watch directory path cannot be empty")
		}
	}
	if _, err := patterns.NewFilter(c.Watch.Include, c.Watch.Exclude); err != nil {
		return errors.NewConfigError("invalid watch pattern", "watch", errors.InvalidConfig, err)
	}
	if c.Watch.SettleSeconds < 1 {
		return invalid("watch.settle_seconds", "settle time must be >= 1 second")
	}

	if _, ok := themes[c.Theme]; !ok {
		return invalid("theme", "unknown theme: %s", c.Theme)
	}

	return nil
}

// SaveAction returns the configured action, Copy if unparsable
func (c *Config) SaveAction() types.SaveAction {
	action, err := types.ParseSaveAction(c.Save.Action)
	if err != nil {
		return types.Copy
	}
	return action
}

// SortVariant returns the configured sort strategy, nil for flat placement
func (c *Config) SortVariant() *types.SortVariant {
	if c.Save.SortFormat == "" {
		return nil
	}
	return types.NewCreationDateSort(c.Save.SortFormat)
}

// SettleInterval returns how long a watched file must stay quiet
func (c *Config) SettleInterval() time.Duration {
	return time.Duration(c.Watch.SettleSeconds) * time.Second
}

// LockPath returns the watcher lock file location
func (c *Config) LockPath() string {
	if c.Watch.LockFile != "" {
		return c.Watch.LockFile
	}
	return filepath.Join(os.TempDir(), "filesaver-watch.lock")
}

// NewTestConfig creates a configuration instance for testing purposes.
func NewTestConfig() *Config {
	cfg := defaultConfig()
	cfg.Locale = "en"
	cfg.Watch.SettleSeconds = 1
	return cfg
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}
