package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/bnema/webbridge/internal/cli"
	"github.com/bnema/webbridge/internal/cli/simulator"
	"github.com/bnema/webbridge/internal/cli/styles"
	"github.com/bnema/webbridge/internal/config"
	"github.com/bnema/webbridge/internal/infrastructure/tlsident"
	"github.com/bnema/webbridge/internal/mainloop"
)

var (
	simulateJSON  bool
	simulateWatch bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <scenario.toml>",
	Short: "Replay a scenario against an in-process renderer and host",
	Long: `Run a scenario file through a bridge attached to an in-process script realm.

The scenario lists host rules (how the host answers each method), web
message listeners and steps such as running a script, posting a message,
navigating or opening a popup. Every host round trip is recorded in the
journal and metrics when they are enabled.

With --watch the scenario runs again every time the config file changes,
until interrupted.

Example:
  webbridge simulate scenarios/permissions.toml
  webbridge simulate --json scenarios/popup.toml
  webbridge --config ./dev.toml simulate --watch scenarios/popup.toml`,
	Args: cobra.ExactArgs(1),
	RunE: runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().BoolVar(&simulateJSON, "json", false, "print the report as JSON")
	simulateCmd.Flags().BoolVarP(&simulateWatch, "watch", "w", false, "run again when the config file changes")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	sc, err := simulator.Load(args[0])
	if err != nil {
		return err
	}
	if err := simulate(cmd, app, app.Config, sc); err != nil {
		return err
	}
	if !simulateWatch {
		return nil
	}
	return watchSimulation(cmd, app, sc)
}

func simulate(cmd *cobra.Command, app *cli.App, cfg *config.Config, sc *simulator.Scenario) error {
	opts := simulator.Options{
		Namespace:   cfg.Bridge.Namespace,
		HostTimeout: cfg.Bridge.HostTimeout,
		Recorder:    app.Recorder(),
		Identities:  tlsident.NewLoader(),
		Workers:     cfg.Workers.Background,
	}
	if app.Metrics != nil {
		opts.OnBridgeCount = app.Metrics.SetBridges
	}

	report, err := simulator.Run(app.Ctx(), sc, opts)
	if err != nil {
		return fmt.Errorf("simulate %s: %w", sc.Name, err)
	}
	app.Logger().Info().
		Str("scenario", sc.Name).
		Int("steps", len(sc.Steps)).
		Int("outcomes", len(report.Outcomes)).
		Msg("scenario finished")

	out := cmd.OutOrStdout()
	if simulateJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	renderer := styles.NewReportRenderer(app.Theme)
	fmt.Fprintln(out, renderer.Render(report))
	if app.Metrics != nil {
		rows, err := app.Metrics.Summary()
		if err != nil {
			return fmt.Errorf("gather metrics: %w", err)
		}
		if summary := renderer.RenderMetrics(rows); summary != "" {
			fmt.Fprintln(out, summary)
		}
	}
	return nil
}

// reloadQuiet is how long a config file must stay untouched before a reload.
const reloadQuiet = 150 * time.Millisecond

// watchSimulation reruns sc on the main loop after every config reload.
func watchSimulation(cmd *cobra.Command, app *cli.App, sc *simulator.Scenario) error {
	if app.Manager.ConfigFile() == "" {
		return errors.New("--watch needs a config file")
	}

	ctx, stop := signal.NotifyContext(app.Ctx(), os.Interrupt, unix.SIGTERM)
	defer stop()

	loop, err := mainloop.New()
	if err != nil {
		return err
	}
	debouncer := mainloop.NewDebouncer(loop, reloadQuiet)
	defer debouncer.Close()

	app.Manager.OnConfigChange(func(cfg *config.Config) {
		app.Logger().Info().Str("file", app.Manager.ConfigFile()).Msg("config changed, replaying scenario")
		if err := simulate(cmd, app, cfg, sc); err != nil {
			app.Logger().Error().Err(err).Msg("replay failed")
		}
	})
	app.Manager.Watch(debouncer)

	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
