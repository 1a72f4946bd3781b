package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/AustinXT/gomoku-game/bot"
	"github.com/AustinXT/gomoku-game/config"
)

func main() {
	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	exPath := filepath.Dir(ex)

	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("bad-arguments")
	}
	cfg.AdjustRelativePaths(exPath)
	log.Info().Msgf("Loaded config: %v, exPath: %v", cfg.SanitizedSettings(), exPath)

	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b, err := bot.NewBot(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("bad-bot-config")
	}
	if err := bot.Main(ctx, cfg.GetString(config.ConfigBotChannel), b); err != nil {
		log.Fatal().Err(err).Msg("bot-stopped")
	}
	log.Info().Msg("server gracefully shutting down")
}
