package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quickdim/quickdim/internal/broadcast"
	"github.com/quickdim/quickdim/internal/config"
	"github.com/quickdim/quickdim/internal/engine"
	"github.com/quickdim/quickdim/internal/focus"
	"github.com/quickdim/quickdim/internal/logging"
	"github.com/quickdim/quickdim/internal/overlay"
	"github.com/quickdim/quickdim/internal/server"
	"github.com/spf13/cobra"
)

var serveAddress string
var serveDryRun bool
var serveLoadConfig = config.Load

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the focus-following dimming daemon",
	Long: `Start the daemon: poll the focused window, keep dim overlays on every
other display, and serve the control API on loopback.

Endpoints:
  GET  /status                   Full daemon state
  GET  /displays                 Connected displays
  POST /toggle                   Flip master dimming
  POST /opacity                  Set global opacity ({"opacity": 0.7})
  POST /monitor/{id}/opacity     Per-display opacity override
  POST /monitor/{id}/enabled     Per-display dimming on/off
  GET  /ws                       Websocket event push

Example:
  curl -X POST localhost:8227/opacity -d '{"opacity":0.5}'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := serveLoadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		initializeCommandLogging(cmd.ErrOrStderr(), cfg.Logging, logging.RoleDaemon)

		if serveAddress != "" {
			cfg.Server.Address = serveAddress
		}

		return runDaemon(cmd.Context(), cfg, serveDryRun)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddress, "address", "l", "", "Listen address (default from config, e.g. 127.0.0.1:8227)")
	serveCmd.Flags().BoolVar(&serveDryRun, "dry-run", false, "Record overlay operations instead of spawning overlay helpers")

	rootCmd.AddCommand(serveCmd)
}

func runDaemon(ctx context.Context, cfg config.Config, dryRun bool) error {
	logger := slog.Default()

	var overlays overlay.Manager
	var helper *overlay.HelperManager
	if dryRun {
		logger.Info("daemon.dry_run", "note", "overlay operations are recorded, not executed")
		overlays = overlay.NewRecorder()
	} else {
		helper = overlay.NewHelperManager(cfg.Overlay.HelperCommand, cfg.Overlay.HelperArgs)
		overlays = helper
	}

	coord, err := engine.New(engine.Options{
		Overlays: overlays,
		Logger:   logger,
		Enabled:  cfg.Dimming.Enabled,
		Opacity:  cfg.Dimming.Opacity,
	})
	if err != nil {
		return err
	}

	hub := broadcast.NewHub(func() any { return coord.Status() }, logger)
	coord.SetPublisher(func(ev engine.Event) { hub.Publish(ev) })

	srv := server.Start(cfg.Server.Address, coord, hub, logger)
	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sampleLoop(ctx, cfg.Engine, coord)

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("daemon.shutdown", "reason", "signal")
	case err := <-serverErr:
		logger.Error("daemon.server_failed", "error", err)
		runErr = fmt.Errorf("http server: %w", err)
	case <-coord.Exhausted():
		logger.Error("daemon.shutdown", "reason", "overlay creation failing persistently")
		runErr = fmt.Errorf("overlay creation failing persistently; no display can be dimmed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("daemon.server_shutdown_failed", "error", err)
	}
	hub.Close()
	coord.Shutdown()
	if helper != nil {
		if err := helper.Close(); err != nil {
			logger.Warn("daemon.overlay_close_failed", "error", err)
		}
	}
	return runErr
}

// unknownSampleWarnAfter is how many consecutive failed focus queries
// trigger the persistent-failure warning (typically a missing
// accessibility permission).
const unknownSampleWarnAfter = 20

// sampleLoop drives the engine: one focus sample per tick, plus a
// display rescan every Nth tick so hot-plug is caught within a few
// seconds without hammering the enumeration API.
func sampleLoop(ctx context.Context, cfg config.EngineConfig, coord *engine.Coordinator) {
	interval := time.Duration(cfg.PollIntervalMS) * time.Millisecond
	timeout := time.Duration(cfg.SampleTimeoutMS) * time.Millisecond

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	tick := 0
	unknownStreak := 0
	warned := false
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tick++
			if cfg.HotplugEveryTicks > 0 && tick%cfg.HotplugEveryTicks == 0 {
				coord.Rescan()
			}

			s := focus.Current(timeout)
			if !s.Known {
				unknownStreak++
				if unknownStreak == unknownSampleWarnAfter && !warned {
					warned = true
					slog.Warn("daemon.focus_sampling_failing",
						"consecutive_failures", unknownStreak,
						"hint", "check accessibility permissions for the focus probe")
				}
			} else {
				unknownStreak = 0
				warned = false
			}
			coord.HandleSample(s)
		}
	}
}
