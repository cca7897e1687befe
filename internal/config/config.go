package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"logviewer/internal/errors"

	"github.com/gobwas/glob"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DefaultMaxReadableSize is the size ceiling above which files are not
// read into memory (4 GiB).
const DefaultMaxReadableSize int64 = 1024 * 1024 * 1024 * 4

// Report modes for schema validation.
const (
	ReportAll  = "all"
	ReportLast = "last"
)

// Highlight engines.
const (
	EngineRules  = "rules"
	EngineChroma = "chroma"
)

// Config represents the application configuration structure.
type Config struct {
	Viewer struct {
		MaxReadableSize  int64  `yaml:"max_readable_size" toml:"max_readable_size"` // Files at or above this size are not read
		ExternalViewer   string `yaml:"external_viewer" toml:"external_viewer"`     // Program launched on file activation
		DefaultDirectory string `yaml:"default_directory" toml:"default_directory"` // Directory opened at startup
	} `yaml:"viewer" toml:"viewer"`
	Log struct {
		File  string `yaml:"file" toml:"file"`   // Trace log path, appended to
		Debug bool   `yaml:"debug" toml:"debug"` // Emit debug lines
		JSON  bool   `yaml:"json" toml:"json"`   // One JSON object per line
	} `yaml:"log" toml:"log"`
	Watch struct {
		Enabled bool     `yaml:"enabled" toml:"enabled"` // Register change detection on directory selection
		Ignore  []string `yaml:"ignore" toml:"ignore"`   // Glob patterns never registered
	} `yaml:"watch" toml:"watch"`
	Tree struct {
		ShowHidden bool     `yaml:"show_hidden" toml:"show_hidden"` // Show dot files
		Exclude    []string `yaml:"exclude" toml:"exclude"`         // Glob patterns hidden from the tree
	} `yaml:"tree" toml:"tree"`
	Highlight struct {
		Enabled bool   `yaml:"enabled" toml:"enabled"` // Highlight on startup
		Engine  string `yaml:"engine" toml:"engine"`   // rules or chroma
		Style   string `yaml:"style" toml:"style"`     // chroma style name
	} `yaml:"highlight" toml:"highlight"`
	Validation struct {
		Report string `yaml:"report" toml:"report"` // all or last
	} `yaml:"validate" toml:"validate"`
	Theme struct {
		Name     string `yaml:"name" toml:"name"`         // Theme name (default, dark, light, etc.)
		Primary  string `yaml:"primary" toml:"primary"`   // Primary color for branding
		Success  string `yaml:"success" toml:"success"`   // Success message color
		Warning  string `yaml:"warning" toml:"warning"`   // Warning message color
		Error    string `yaml:"error" toml:"error"`       // Error message color
		Info     string `yaml:"info" toml:"info"`         // Informational message color
		Emphasis string `yaml:"emphasis" toml:"emphasis"` // Goto-line background
		Border   string `yaml:"border" toml:"border"`     // Border color for frames
	} `yaml:"theme" toml:"theme"`
}

// DefaultPath returns ~/.config/logviewer/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "logviewer", "config.yaml"), nil
}

// LoadConfig loads configuration from the default location.
func LoadConfig() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(path)
}

// LoadConfigFile loads configuration from a specific file path.
// Files ending in .toml are decoded as TOML, everything else as YAML.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.NewConfigError("error reading config file", path, errors.ConfigNotFound, err)
	}

	// Decode on top of the defaults so unset keys keep their default value
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.NewConfigError("error parsing config file", path, errors.InvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// defaultConfig returns the default configuration with safe defaults.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Viewer.MaxReadableSize = DefaultMaxReadableSize
	cfg.Viewer.ExternalViewer = "uex"
	cfg.Viewer.DefaultDirectory = ""

	cfg.Log.File = "trace.log"
	cfg.Log.Debug = true // The trace log is a debug trace
	cfg.Log.JSON = false

	cfg.Watch.Enabled = false
	cfg.Watch.Ignore = []string{"trace.log"}

	cfg.Tree.ShowHidden = false
	cfg.Tree.Exclude = []string{}

	cfg.Highlight.Enabled = false
	cfg.Highlight.Engine = EngineRules
	cfg.Highlight.Style = "monokai"

	cfg.Validation.Report = ReportAll

	cfg.ApplyTheme("default")
	return cfg
}

// SaveConfig saves the configuration as YAML to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("nil config")
	}

	if c.Viewer.MaxReadableSize <= 0 {
		return errors.NewConfigError("max readable size must be > 0", "viewer.max_readable_size", errors.InvalidConfig, nil)
	}

	switch c.Validation.Report {
	case ReportAll, ReportLast:
	default:
		return errors.NewConfigError(fmt.Sprintf("invalid report mode %q", c.Validation.Report), "validate.report", errors.InvalidConfig, nil)
	}

	switch c.Highlight.Engine {
	case EngineRules, EngineChroma:
	default:
		return errors.NewConfigError(fmt.Sprintf("invalid highlight engine %q", c.Highlight.Engine), "highlight.engine", errors.InvalidConfig, nil)
	}

	for i, pattern := range c.Watch.Ignore {
		if _, err := glob.Compile(pattern); err != nil {
			return errors.NewConfigError(fmt.Sprintf("ignore pattern %d", i), "watch.ignore", errors.InvalidConfig, err)
		}
	}
	for i, pattern := range c.Tree.Exclude {
		if _, err := glob.Compile(pattern); err != nil {
			return errors.NewConfigError(fmt.Sprintf("exclude pattern %d", i), "tree.exclude", errors.InvalidConfig, err)
		}
	}

	if c.Viewer.DefaultDirectory != "" {
		info, err := os.Stat(c.Viewer.DefaultDirectory)
		if err != nil {
			return errors.NewConfigError("error accessing default directory", "viewer.default_directory", errors.InvalidConfig, err)
		}
		if !info.IsDir() {
			return errors.NewConfigError("default directory is not a directory", "viewer.default_directory", errors.InvalidConfig, nil)
		}
	}
	return nil
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}

// GetTheme returns a predefined theme configuration by name.
// If the theme doesn't exist, returns the default theme.
func GetTheme(name string) map[string]string {
	themes := map[string]map[string]string{
		"default": {
			"primary":  "213", // Purple
			"success":  "114", // Green
			"warning":  "220", // Yellow
			"error":    "196", // Red
			"info":     "39",  // Blue
			"emphasis": "58",  // Olive
			"border":   "213", // Purple
		},
		"dark": {
			"primary":  "105",
			"success":  "78",
			"warning":  "214",
			"error":    "160",
			"info":     "33",
			"emphasis": "238",
			"border":   "105",
		},
		"light": {
			"primary":  "135",
			"success":  "150",
			"warning":  "222",
			"error":    "210",
			"info":     "117",
			"emphasis": "229",
			"border":   "135",
		},
		"monochrome": {
			"primary":  "245",
			"success":  "252",
			"warning":  "241",
			"error":    "232",
			"info":     "248",
			"emphasis": "240",
			"border":   "245",
		},
	}

	if theme, exists := themes[name]; exists {
		return theme
	}
	return themes["default"]
}

// ApplyTheme sets the theme colors from a named theme.
func (c *Config) ApplyTheme(name string) {
	theme := GetTheme(name)

	c.Theme.Name = name
	c.Theme.Primary = theme["primary"]
	c.Theme.Success = theme["success"]
	c.Theme.Warning = theme["warning"]
	c.Theme.Error = theme["error"]
	c.Theme.Info = theme["info"]
	c.Theme.Emphasis = theme["emphasis"]
	c.Theme.Border = theme["border"]
}

// ListThemes returns a list of available theme names.
func ListThemes() []string {
	return []string{"default", "dark", "light", "monochrome"}
}
