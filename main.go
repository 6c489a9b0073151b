package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rentals-co/servicios/internal/config"
	v1 "github.com/rentals-co/servicios/internal/controllers/v1"
	"github.com/rentals-co/servicios/internal/models"
	"github.com/rentals-co/servicios/internal/router"
	"github.com/rentals-co/servicios/internal/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	// gin uses debug as the default mode, we use release for
	// security reasons
	if cfg.GinMode == "" {
		cfg.GinMode = gin.ReleaseMode
	}
	gin.SetMode(cfg.GinMode)

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	output := io.Writer(os.Stdout)
	if (cfg.LogFormat == "" && gin.IsDebugging()) || cfg.LogFormat == "human" {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	err = connect(cfg.Database)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	store, err := newStore(cfg.Storage)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	r, teardown, err := router.Config(cfg)
	defer teardown()
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	router.AttachRoutes(cfg, v1.Controller{Storage: store, MaxUploadSize: cfg.Storage.MaxUploadSize}, r.Group("/"))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msg(err.Error())
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Msgf("Server shutdown failed: %s", err)
	}

	if sqlDB, err := models.DB.DB(); err == nil {
		sqlDB.Close()
	}
}

// connect opens the configured database and migrates it.
func connect(cfg config.Database) error {
	if cfg.Driver == config.DriverPostgres {
		return models.ConnectPostgres(cfg.DSN())
	}

	// Create data directory
	err := os.MkdirAll(filepath.Dir(cfg.Path), os.ModePerm)
	if err != nil {
		return err
	}

	return models.Connect(cfg.Path)
}

// newStore returns the store for uploaded photos.
func newStore(cfg config.Storage) (storage.Store, error) {
	if cfg.Driver == config.DriverOSS {
		s, err := storage.NewOSS(cfg.OSSEndpoint, cfg.OSSAccessKeyID, cfg.OSSAccessSecret, cfg.OSSBucket, cfg.PublicURL)
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	err := os.MkdirAll(cfg.Dir, os.ModePerm)
	if err != nil {
		return nil, err
	}

	return storage.NewLocal(cfg.Dir, cfg.PublicURL), nil
}
