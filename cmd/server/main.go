package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sdchat/sdchat-server/internal/app"
	"github.com/sdchat/sdchat-server/internal/config"
	"github.com/sdchat/sdchat-server/internal/log"
)

func main() {
	var (
		configPath string
		addr       string
		logLevel   string
		dbPath     string
	)
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.StringVar(&addr, "addr", "", "HTTP listen address")
	flag.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flag.StringVar(&dbPath, "db", "", "path to the session database")
	flag.Parse()

	bootLogger := log.New("info")

	cfg, path, err := config.Load(bootLogger, configPath)
	if err != nil {
		bootLogger.Fatal().Err(err).Str("path", path).Msg("failed to load config")
	}
	if addr != "" {
		cfg.Addr = addr
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if dbPath != "" {
		cfg.DatabasePath = dbPath
	}

	logger := log.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build application")
	}

	logger.Info().Str("addr", cfg.Addr).Msg("starting sdchat server")
	if err := application.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server exited with error")
	}
	logger.Info().Msg("server stopped")
}
