package config

import (
	"time"

	"github.com/spf13/viper"
)

// Default values.
const (
	DefaultNamespace   = "webbridge"
	DefaultHostTimeout = 0 * time.Second
	DefaultWorkers     = 4
)

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Bridge: BridgeConfig{
			Namespace:   DefaultNamespace,
			HostTimeout: DefaultHostTimeout,
		},
		Workers: WorkersConfig{
			Background: DefaultWorkers,
		},
		Journal: JournalConfig{
			Enabled: false,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func (m *Manager) setDefaults() {
	setDefaults(m.viper, DefaultConfig())
}

func setDefaults(v *viper.Viper, defaults *Config) {
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)

	v.SetDefault("bridge.namespace", defaults.Bridge.Namespace)
	v.SetDefault("bridge.host_timeout", defaults.Bridge.HostTimeout.String())

	v.SetDefault("workers.background", defaults.Workers.Background)

	v.SetDefault("journal.enabled", defaults.Journal.Enabled)
	v.SetDefault("journal.path", defaults.Journal.Path)

	v.SetDefault("metrics.enabled", defaults.Metrics.Enabled)
}
