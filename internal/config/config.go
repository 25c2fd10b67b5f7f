package config

import (
	"encoding/json"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/mte/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "mte.json"

	// DefaultPort is the default inspector port.
	DefaultPort = 7070

	// DefaultHost is the default inspector host.
	DefaultHost = "localhost"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "mte"

	// DefaultReplayInterval is the default delay between replayed steps.
	DefaultReplayInterval = "1s"
)

// Config represents the complete mte.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Strict selects the strict error policy for rendering.
	Strict bool `json:"strict,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"logLevel,omitempty"`

	// Scenarios is the directory holding scenario files.
	Scenarios string `json:"scenarios,omitempty"`

	// Inspector contains inspector server configuration.
	Inspector InspectorConfig `json:"inspector,omitempty"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Bench contains benchmark defaults.
	Bench BenchConfig `json:"bench,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// InspectorConfig contains inspector server settings.
type InspectorConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty"`

	// ReplayInterval is the delay between scenario steps replayed by
	// `mte serve` (e.g., "500ms").
	ReplayInterval string `json:"replayInterval,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled exposes engine metrics on the inspector.
	Enabled bool `json:"enabled,omitempty"`

	// Namespace is the metrics namespace.
	Namespace string `json:"namespace,omitempty"`
}

// BenchConfig contains benchmark defaults.
type BenchConfig struct {
	// Iterations is the number of timed runs per case.
	Iterations int `json:"iterations,omitempty"`

	// Items is the collection size used by list cases.
	Items int `json:"items,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		LogLevel:  DefaultLogLevel,
		Scenarios: "scenarios",
		Inspector: InspectorConfig{
			Host:           DefaultHost,
			Port:           DefaultPort,
			ReplayInterval: DefaultReplayInterval,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
		},
		Bench: BenchConfig{
			Iterations: 1000,
			Items:      100,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for mte.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E100").
				WithDetail("No mte.json found in " + filepath.Dir(path)).
				WithSuggestion("Create mte.json or run without one to use defaults")
		}
		return nil, errors.New("E101").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E101").
			WithDetail("Failed to parse mte.json: " + err.Error()).
			WithSuggestion("Check that mte.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// LoadOrDefault walks up from dir looking for mte.json and falls back to
// defaults when there is none. Parse and validation errors are returned.
func LoadOrDefault(dir string) (*Config, error) {
	root, err := FindProjectRoot(dir)
	if err != nil {
		return New(), nil
	}
	cfg, err := Load(root)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E103").Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E103").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Inspector.Host == "" {
		c.Inspector.Host = DefaultHost
	}
	if c.Inspector.Port == 0 {
		c.Inspector.Port = DefaultPort
	}
	if c.Inspector.ReplayInterval == "" {
		c.Inspector.ReplayInterval = DefaultReplayInterval
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Inspector.Port < 0 || c.Inspector.Port > 65535 {
		return errors.New("E102").
			WithDetail("inspector.port must be between 0 and 65535")
	}
	if _, ok := logLevels[strings.ToLower(c.LogLevel)]; !ok {
		return errors.New("E102").
			WithDetail("logLevel must be one of debug, info, warn, error").
			WithSuggestion(`Use "logLevel": "info"`)
	}
	if d, err := time.ParseDuration(c.Inspector.ReplayInterval); err != nil || d <= 0 {
		return errors.New("E102").
			WithDetail("inspector.replayInterval must be a positive duration such as \"500ms\"")
	}
	if c.Bench.Iterations < 0 || c.Bench.Items < 0 {
		return errors.New("E102").
			WithDetail("bench.iterations and bench.items must not be negative")
	}
	return nil
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// SlogLevel returns the configured log level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	if l, ok := logLevels[strings.ToLower(c.LogLevel)]; ok {
		return l
	}
	return slog.LevelInfo
}

// InspectorAddress returns the listen address for the inspector.
func (c *Config) InspectorAddress() string {
	return net.JoinHostPort(c.Inspector.Host, strconv.Itoa(c.Inspector.Port))
}

// InspectorURL returns the inspector page URL.
func (c *Config) InspectorURL() string {
	return "http://" + c.InspectorAddress() + "/"
}

// ReplayInterval returns the parsed replay interval, or one second when it
// is invalid.
func (c *Config) ReplayInterval() time.Duration {
	d, err := time.ParseDuration(c.Inspector.ReplayInterval)
	if err != nil || d <= 0 {
		return time.Second
	}
	return d
}

// ScenariosPath returns the absolute path to the scenarios directory.
func (c *Config) ScenariosPath() string {
	if filepath.IsAbs(c.Scenarios) {
		return c.Scenarios
	}
	return filepath.Join(c.Dir(), c.Scenarios)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing mte.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E100").
				WithDetail("No mte.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}
