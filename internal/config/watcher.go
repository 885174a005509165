package config

import (
	"github.com/bnema/webbridge/internal/logging"
	"github.com/bnema/webbridge/internal/mainloop"
	"github.com/fsnotify/fsnotify"
)

// Watch reloads the configuration when its file changes and notifies the
// registered callbacks. With a debouncer, a burst of events for one file
// becomes a single reload on the debouncer's loop.
func (m *Manager) Watch(debouncer *mainloop.Debouncer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.watching {
		return
	}

	m.viper.OnConfigChange(func(e fsnotify.Event) {
		log := logging.NewFromEnv()
		log.Debug().Str("op", e.Op.String()).Str("file", e.Name).Msg("config change detected")

		if debouncer == nil {
			m.Reload()
			return
		}
		debouncer.Post(e.Name, m.Reload)
	})
	m.viper.WatchConfig()
	m.watching = true
}

// OnConfigChange registers a callback run after every successful reload.
func (m *Manager) OnConfigChange(callback func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.callbacks = append(m.callbacks, callback)
}

// Reload rereads the file and notifies callbacks. An invalid file keeps the
// previous configuration.
func (m *Manager) Reload() {
	log := logging.NewFromEnv()

	m.mu.Lock()
	if err := m.readConfigFile(); err != nil {
		m.mu.Unlock()
		log.Warn().Err(err).Msg("failed to reload config")
		return
	}
	if err := m.apply(); err != nil {
		m.mu.Unlock()
		log.Warn().Err(err).Msg("failed to reload config")
		return
	}
	config := *m.config
	callbacks := make([]func(*Config), len(m.callbacks))
	copy(callbacks, m.callbacks)
	m.mu.Unlock()

	for _, callback := range callbacks {
		c := config
		callback(&c)
	}
}
