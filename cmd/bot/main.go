package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kapu/pokedex-kakao-bot-go/internal/app"
	"github.com/kapu/pokedex-kakao-bot-go/internal/config"
	"github.com/kapu/pokedex-kakao-bot-go/internal/util"
	"go.uber.org/zap"
)

const (
	buildTimeout    = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Pokedex KakaoTalk bot starting",
		zap.String("version", "1.0.0"),
		zap.String("log_level", cfg.Logging.Level),
	)

	buildCtx, buildCancel := context.WithTimeout(context.Background(), buildTimeout)
	container, err := app.Build(buildCtx, cfg, logger)
	buildCancel()
	if err != nil {
		logger.Fatal("Failed to assemble application services", zap.Error(err))
	}
	defer container.Close()

	dexBot, err := container.NewBot()
	if err != nil {
		logger.Fatal("Failed to initialize bot", zap.Error(err))
	}

	runCtx, stop := context.WithCancel(context.Background())
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- dexBot.Start(runCtx)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("Shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			logger.Error("Bot stopped with error", zap.Error(err))
		}
	}

	stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := dexBot.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown did not finish cleanly", zap.Error(err))
	}

	logger.Info("Shutdown complete")
}
