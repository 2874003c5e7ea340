package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lavaflow/lavaboard/internal/config"
	"github.com/lavaflow/lavaboard/internal/console"
	"github.com/lavaflow/lavaboard/internal/feed"
	"github.com/lavaflow/lavaboard/internal/game"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting lavaboard",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	layout, err := cfg.Board.Layout()
	if err != nil {
		logger.Fatal("invalid board", zap.Error(err))
	}
	settings, err := cfg.Game.Settings()
	if err != nil {
		logger.Fatal("invalid game settings", zap.Error(err))
	}

	gameMgr := game.NewManager(logger)

	// Listeners go in before the game starts so they see its opening events.
	con := console.New(os.Stdout, logger)
	gameMgr.AddListener(con.Listen)

	var hub *feed.Hub
	var session *game.Session
	if cfg.Feed.Enabled {
		hub = feed.NewHub(feed.SourceFunc(func() game.GameView { return session.View() }), logger)
		gameMgr.AddListener(hub.Listen)
	}

	session, err = gameMgr.StartGame(layout, settings)
	if err != nil {
		logger.Fatal("failed to start game", zap.Error(err))
	}
	con.SetSession(session)

	var feedServer *http.Server
	if hub != nil {
		go hub.Run(ctx)

		mux := http.NewServeMux()
		mux.Handle("/ws", hub)
		feedServer = &http.Server{
			Addr:              cfg.Feed.Address,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			logger.Info("starting event feed", zap.String("address", cfg.Feed.Address))
			if serveErr := feedServer.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
				logger.Error("event feed error", zap.Error(serveErr))
			}
		}()
	}

	consoleDone := make(chan error, 1)
	go func() {
		consoleDone <- con.Run(ctx, os.Stdin)
	}()

	// Wait for the console to finish or a termination signal
	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case runErr := <-consoleDone:
		if runErr != nil {
			logger.Error("console stopped", zap.Error(runErr))
		}
	}

	cancel()

	if feedServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := feedServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("event feed shutdown", zap.Error(err))
		}
	}

	if err := gameMgr.EndGame(session.ID()); err != nil {
		logger.Warn("end game", zap.Error(err))
	}

	logger.Info("lavaboard stopped")
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
