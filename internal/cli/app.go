// Package cli wires the webbridge command line: configuration, logging, the
// outcome journal and the theme shared by every command.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bnema/webbridge/internal/application/port"
	"github.com/bnema/webbridge/internal/application/usecase"
	"github.com/bnema/webbridge/internal/cli/styles"
	"github.com/bnema/webbridge/internal/config"
	"github.com/bnema/webbridge/internal/domain/build"
	"github.com/bnema/webbridge/internal/infrastructure/monitoring"
	"github.com/bnema/webbridge/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/webbridge/internal/logging"
)

// ErrJournalDisabled is returned by journal commands when journal.enabled is false.
var ErrJournalDisabled = errors.New("outcome journal is disabled")

// App holds CLI dependencies.
type App struct {
	Config    *config.Config
	Manager   *config.Manager
	Theme     *styles.Theme
	BuildInfo build.Info
	Metrics   *monitoring.Metrics

	db  *sqlite.LazyDB
	ctx context.Context
}

// NewApp loads configuration from configFile (or the default location when
// empty) and builds the logger and journal it describes.
func NewApp(configFile string) (*App, error) {
	var opts []config.ManagerOption
	if configFile != "" {
		opts = append(opts, config.WithFile(configFile))
	}
	mgr, err := config.NewManager(opts...)
	if err != nil {
		return nil, fmt.Errorf("create config manager: %w", err)
	}
	if err := mgr.Load(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := mgr.Get()

	logger := logging.NewFromConfigValues(cfg.Logging.Level, cfg.Logging.Format)
	ctx := logging.WithContext(context.Background(), logger)

	app := &App{
		Config:  cfg,
		Manager: mgr,
		Theme:   styles.NewTheme(),
		ctx:     ctx,
	}
	if cfg.Journal.Enabled {
		app.db = sqlite.NewLazyDB(cfg.Journal.Path)
	}
	if cfg.Metrics.Enabled {
		app.Metrics = monitoring.NewMetrics()
	}

	logger.Debug().
		Str("config_file", mgr.ConfigFile()).
		Bool("journal", cfg.Journal.Enabled).
		Bool("metrics", cfg.Metrics.Enabled).
		Msg("cli initialized")
	return app, nil
}

// Close releases all resources.
func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return logging.FromContext(a.ctx)
}

// Recorder returns where simulated outcomes are recorded: the journal and
// the metrics, whichever are enabled.
func (a *App) Recorder() port.OutcomeRecorder {
	var rs port.Recorders
	if a.db != nil {
		rs = append(rs, sqlite.NewJournal(a.db))
	}
	if a.Metrics != nil {
		rs = append(rs, a.Metrics)
	}
	return rs
}

// ListOutcomes returns the use case reading the journal.
func (a *App) ListOutcomes() (*usecase.ListOutcomesUseCase, error) {
	if a.db == nil {
		return nil, ErrJournalDisabled
	}
	db, err := a.db.DB(a.ctx)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return usecase.NewListOutcomesUseCase(sqlite.NewOutcomeRepository(db)), nil
}
