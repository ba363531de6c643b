package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/example/mddsklbl/internal/config"
	"github.com/example/mddsklbl/internal/desktop"
	"github.com/example/mddsklbl/internal/hotkeys"
	"github.com/example/mddsklbl/internal/logging"
	"github.com/example/mddsklbl/internal/menu"
	"github.com/example/mddsklbl/internal/service"
)

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "run",
		Short:   "Start the tray host and label service (default)",
		Args:    cobra.NoArgs,
		GroupID: "host",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHost(cmd.Context(), a, true)
		},
	}
}

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Short:   "Run the label service without a tray icon",
		Args:    cobra.NoArgs,
		GroupID: "host",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHost(cmd.Context(), a, false)
		},
	}
}

// runHost owns the process lifetime: logging, the server worker, the
// config watcher and, when requested, the tray. It returns once a signal
// arrives or the user quits from the tray.
func runHost(ctx context.Context, a *app, withTray bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger, err := logging.New(logging.Options{
		Dir:   a.paths.LogDir,
		Level: a.settings.LogLevel,
		Debug: a.debug,
	})
	if err != nil {
		return err
	}
	defer logger.Close()
	log := logger.Logger

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("version", version).
		Str("config", a.paths.CfgFile).
		Str("log_file", logger.Path()).
		Msg("desktop labeler starting")

	prepareConfig(a.paths, log)

	srv := service.New(a.ep, a.paths, desktop.NewResolver(), log)
	serverDone := srv.Start(ctx)

	onChange := func(cfg *config.Config, _ bool) {
		log.Info().Int("desktops", len(cfg.Desktops)).Msg("labels changed on disk")
		warnDuplicateHotkeys(cfg, log)
	}

	var runner *menu.Runner
	if withTray {
		runner = menu.NewRunner(a.paths, log)
		onChange = func(cfg *config.Config, migrated bool) {
			warnDuplicateHotkeys(cfg, log)
			runner.Update(cfg, migrated)
		}
	}

	if watcher, err := config.NewWatcher(a.paths, log); err != nil {
		log.Warn().Err(err).Msg("config watcher unavailable; changes need a restart to show in the tray")
	} else {
		go func() {
			if err := watcher.Run(ctx, onChange); err != nil && !errors.Is(err, context.Canceled) {
				log.Warn().Err(err).Msg("config watcher stopped")
			}
		}()
	}

	if runner != nil {
		err := runner.Start(ctx)
		switch {
		case errors.Is(err, menu.ErrTrayUnavailable):
			log.Warn().Err(err).Msg("continuing without a tray icon")
			<-ctx.Done()
		case err != nil && !errors.Is(err, context.Canceled):
			log.Error().Err(err).Msg("tray exited with error")
		default:
			log.Info().Msg("quit requested from tray")
		}
	} else {
		<-ctx.Done()
	}

	stop()
	if err := <-serverDone; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info().Msg("desktop labeler stopped")
	return nil
}

// prepareConfig persists a pending migration once at startup so other
// readers see the current schema.
func prepareConfig(paths config.Paths, log zerolog.Logger) {
	cfg, migrated, err := config.LoadOrDefault(paths)
	if err != nil {
		log.Warn().Err(err).Msg("config unreadable; serving errors until it is fixed")
		return
	}
	warnDuplicateHotkeys(cfg, log)
	if !migrated {
		return
	}
	if err := config.SaveAtomic(cfg, paths); err != nil {
		log.Error().Err(err).Msg("persist migrated config failed")
		return
	}
	log.Info().Int("version", config.CurrentVersion).Msg("config migrated")
}

func warnDuplicateHotkeys(cfg *config.Config, log zerolog.Logger) {
	if err := hotkeys.Validate(cfg.Hotkeys); err != nil {
		log.Warn().Err(err).Msg("hotkey bindings collide")
	}
}
