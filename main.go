package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/colormatch/internal/config"
	"github.com/robalobadob/colormatch/internal/history"
	"github.com/robalobadob/colormatch/internal/httpserver"
	"github.com/robalobadob/colormatch/internal/schedule"
	"github.com/robalobadob/colormatch/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	zerolog.SetGlobalLevel(cfg.Level())

	modes, err := config.LoadDifficulties(cfg.DifficultiesFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load difficulties")
	}

	sched, err := schedule.New()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}
	defer func() {
		if err := sched.Shutdown(); err != nil {
			log.Error().Err(err).Msg("scheduler shutdown")
		}
	}()

	srv := httpserver.New(httpserver.Deps{
		Config:    cfg,
		Store:     store.NewMemoryStore(),
		History:   history.NewMemory(cfg.HistoryLimit),
		Modes:     modes,
		Scheduler: sched,
	})
	stopSweep := srv.StartSweeper(time.Minute)
	defer stopSweep()

	hs := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("port", cfg.Port).Int("modes", len(modes.All())).Msg("starting colormatch server")
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server exited")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
}
