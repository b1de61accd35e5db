package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xvierd/focus-cli/internal/adapters/analytics"
	"github.com/xvierd/focus-cli/internal/adapters/git"
	"github.com/xvierd/focus-cli/internal/adapters/media"
	"github.com/xvierd/focus-cli/internal/adapters/notification"
	"github.com/xvierd/focus-cli/internal/adapters/storage"
	"github.com/xvierd/focus-cli/internal/config"
	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/logging"
	"github.com/xvierd/focus-cli/internal/ports"
	"github.com/xvierd/focus-cli/internal/services"
	"go.uber.org/zap"
)

// appDeps groups all service-layer dependencies initialized at startup.
type appDeps struct {
	config     *config.Config
	configPath string
	logger     *zap.Logger
	closeLog   func() error

	storage   ports.Storage
	timer     *services.TimerService
	persister *services.Persister
	vibes     *services.VibeService
	history   *services.HistoryService
	snow      *services.Snowfall

	// Only set while the interactive timer runs.
	player ports.MediaPlayer
	media  *services.MediaSync
}

// app holds all initialized service dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// initializeServices sets up all the required services and adapters.
func initializeServices() error {
	var err error
	app.configPath = configPath
	if app.configPath == "" {
		if app.configPath, err = config.GetConfigPath(); err != nil {
			return err
		}
	}
	app.config, err = config.LoadFrom(app.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app.logger, app.closeLog, err = logging.New(logging.Options{
		Level: app.config.Log.Level,
		File:  app.config.Log.File,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	// Determine database path
	path := dbPath
	if path == "" {
		path = config.GetDBPath(app.config)
	}
	if err := os.MkdirAll(getDir(path), 0750); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	app.storage, err = storage.New(path)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	workingDir, _ := os.Getwd()
	ctx := context.Background()

	app.persister = services.NewPersister(app.storage.Slots(), app.logger)
	initial := app.persister.Rehydrate(ctx, configDefaults(app.config))

	app.timer = services.NewTimerService(initial, services.TimerOptions{
		TickInterval: time.Duration(app.config.Timer.TickInterval),
		Notifier:     notification.New(app.config.Notifications.Sound),
		Analytics:    analytics.NewRecorder(app.storage.Events(), app.logger),
		History:      app.storage.History(),
		Git:          git.NewDetector(false),
		WorkingDir:   workingDir,
		Logger:       app.logger,
	})
	app.persister.Start(ctx, app.timer)

	app.vibes = services.NewVibeService(app.timer)
	app.history = services.NewHistoryService(app.storage.History())
	app.snow = services.NewSnowfall(services.DefaultSnowConfig())

	app.logger.Debug("services initialized", zap.String("db", path))
	return nil
}

// configDefaults is the state used when nothing has been persisted yet.
func configDefaults(cfg *config.Config) domain.AppState {
	return domain.NewAppState(cfg.TimerSettings(), cfg.AppSettings())
}

// startPlayback wires the configured media player to the timer.
func startPlayback(ctx context.Context) {
	switch app.config.Media.Player {
	case config.PlayerMPV:
		app.player = media.NewMPV(app.config.Media.MPVPath, app.config.Storage.DataDir, app.logger)
	default:
		app.player = media.Nop{}
	}
	app.media = services.NewMediaSync(app.player, app.logger)
	app.media.Start(ctx, app.timer)
}

// cleanupServices closes all resources. It is safe to call more than once.
func cleanupServices() error {
	var errs []error
	if app.persister != nil {
		errs = append(errs, app.persister.Close())
	}
	if app.media != nil {
		app.media.Close()
	}
	if app.snow != nil {
		app.snow.Stop()
	}
	if app.timer != nil {
		app.timer.Close()
	}
	if app.player != nil {
		errs = append(errs, app.player.Close())
	}
	if app.storage != nil {
		errs = append(errs, app.storage.Close())
	}
	if app.closeLog != nil {
		errs = append(errs, app.closeLog())
	}
	app = appDeps{}
	return errors.Join(errs...)
}

// setupSignalHandler sets up a context that cancels on interrupt signals.
func setupSignalHandler() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
