package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordduel/apps/go-server/assets"
	"github.com/robalobadob/wordduel/apps/go-server/internal/config"
	"github.com/robalobadob/wordduel/apps/go-server/internal/db"
	"github.com/robalobadob/wordduel/apps/go-server/internal/httpserver"
	"github.com/robalobadob/wordduel/apps/go-server/internal/store"
	"github.com/robalobadob/wordduel/apps/go-server/internal/telemetry"
	"github.com/robalobadob/wordduel/apps/go-server/internal/words"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTLPEndpoint)
	if err != nil {
		log.Warn().Err(err).Msg("telemetry disabled")
		shutdownTracing = func(context.Context) error { return nil }
	}

	dict, err := words.Init(cfg.WordsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load dictionary")
	}
	log.Info().Int("words", dict.Len()).Str("file", cfg.WordsFile).Msg("dictionary loaded")

	sqlDB, err := db.OpenMigrated(cfg.DatabasePath, assets.Migrations())
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("failed to open database")
	}
	defer sqlDB.Close()

	srv := httpserver.New(store.NewMemoryStore(), sqlDB, dict, httpserver.OptionsFromConfig(cfg))
	hs := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting go-server")
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server exited")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	sdCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := hs.Shutdown(sdCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := shutdownTracing(sdCtx); err != nil {
		log.Error().Err(err).Msg("telemetry shutdown")
	}
}

func setupLogging(cfg config.Config) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if !cfg.Production() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
