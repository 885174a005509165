// Package config loads webbridge settings with viper: defaults, a TOML file,
// and WEBBRIDGE_ environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Config is the complete webbridge configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging" json:"logging"`
	Bridge  BridgeConfig  `mapstructure:"bridge" json:"bridge"`
	Workers WorkersConfig `mapstructure:"workers" json:"workers"`
	Journal JournalConfig `mapstructure:"journal" json:"journal"`
	Metrics MetricsConfig `mapstructure:"metrics" json:"metrics"`
}

// LoggingConfig selects the zerolog level and output format.
type LoggingConfig struct {
	Level  string `mapstructure:"level" json:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error,enum=disabled"`
	Format string `mapstructure:"format" json:"format" jsonschema:"enum=console,enum=json"`
}

// BridgeConfig holds the settings shared by every bridge of a group.
type BridgeConfig struct {
	// Namespace is the global object the bootstrap script installs.
	Namespace string `mapstructure:"namespace" json:"namespace" jsonschema:"pattern=^[A-Za-z_$][A-Za-z0-9_$]*$"`
	// HostTimeout bounds every host round trip; 0 waits forever.
	HostTimeout time.Duration `mapstructure:"host_timeout" json:"host_timeout" jsonschema:"type=string,description=Go duration; 0 disables the timeout"`
}

// WorkersConfig sizes the background worker.
type WorkersConfig struct {
	Background int `mapstructure:"background" json:"background" jsonschema:"minimum=1"`
}

// JournalConfig controls the SQLite outcome journal.
type JournalConfig struct {
	Enabled bool   `mapstructure:"enabled" json:"enabled"`
	Path    string `mapstructure:"path" json:"path,omitempty"`
}

// MetricsConfig controls the Prometheus collectors.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" json:"enabled"`
}

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	file      string
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithFile reads configuration from path instead of searching the config
// directories.
func WithFile(path string) ManagerOption {
	return func(m *Manager) { m.file = path }
}

// NewManager creates a configuration manager.
func NewManager(opts ...ManagerOption) (*Manager, error) {
	m := &Manager{viper: viper.New()}
	for _, opt := range opts {
		opt(m)
	}
	v := m.viper

	if m.file != "" {
		v.SetConfigFile(m.file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		configDir, err := GetConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to determine config directory: %w", err)
		}
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("WEBBRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("logging.level", "WEBBRIDGE_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind WEBBRIDGE_LOG_LEVEL: %w", err)
	}
	if err := v.BindEnv("logging.format", "WEBBRIDGE_LOG_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind WEBBRIDGE_LOG_FORMAT: %w", err)
	}

	return m, nil
}

// Load reads defaults, the config file if any, and the environment. A
// missing file is not an error.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.setDefaults()
	if err := m.readConfigFile(); err != nil {
		return err
	}
	return m.apply()
}

func (m *Manager) readConfigFile() error {
	err := m.viper.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) || (m.file != "" && errors.Is(err, os.ErrNotExist)) {
		return nil
	}
	return fmt.Errorf("failed to read config file %s: %w\nCheck the file format (must be valid TOML) and permissions", m.viper.ConfigFileUsed(), err)
}

// apply unmarshals, fills derived values and validates. Callers hold m.mu.
func (m *Manager) apply() error {
	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if err := ensureJournalPath(config); err != nil {
		return err
	}
	normalizeConfig(config)

	if err := validateConfig(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	m.config = config
	return nil
}

// Get returns a copy of the current configuration, or the defaults before
// Load succeeds.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return DefaultConfig()
	}
	configCopy := *m.config
	return &configCopy
}

// ConfigFile returns the file the configuration was read from, if any.
func (m *Manager) ConfigFile() string {
	return m.viper.ConfigFileUsed()
}

// WriteDefault writes the default configuration as TOML to path, refusing to
// overwrite an existing file.
func WriteDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	v := viper.New()
	v.SetConfigType("toml")
	setDefaults(v, DefaultConfig())
	if err := v.SafeWriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write default config: %w", err)
	}
	return os.Chmod(path, filePerm)
}

func ensureJournalPath(config *Config) error {
	if config.Journal.Path != "" {
		return nil
	}
	path, err := GetJournalFile()
	if err != nil {
		return fmt.Errorf("failed to get journal path: %w", err)
	}
	config.Journal.Path = path
	return nil
}

func normalizeConfig(config *Config) {
	config.Logging.Level = strings.ToLower(strings.TrimSpace(config.Logging.Level))
	config.Logging.Format = strings.ToLower(strings.TrimSpace(config.Logging.Format))
	config.Bridge.Namespace = strings.TrimSpace(config.Bridge.Namespace)
	if config.Logging.Level == "warning" {
		config.Logging.Level = "warn"
	}
}
