package main

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/akinator-go/internal/config"
	"github.com/robalobadob/akinator-go/internal/httpserver"
	"github.com/robalobadob/akinator-go/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	mem := store.NewMemoryStore()
	go store.RunSweeper(context.Background(), mem, cfg.SweepInterval, cfg.SessionIdle)

	srv := httpserver.New(mem, cfg)
	log.Info().Str("port", cfg.Port).Dur("idle", cfg.SessionIdle).Msg("starting akinator proxy")
	if err := srv.Start(cfg.Addr()); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
