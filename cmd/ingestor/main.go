package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fakestore-ingestor/internal/config"
	"fakestore-ingestor/internal/fakestore"
	httpapi "fakestore-ingestor/internal/http"
	"fakestore-ingestor/internal/http/handlers"
	applog "fakestore-ingestor/internal/log"
	"fakestore-ingestor/internal/repos"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		applog.L().Fatal().Err(err).Msg("config")
	}

	// Optional file logging
	var out io.Writer = os.Stdout
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			applog.L().Warn().Err(err).Str("file", cfg.LogFile).Msg("could not open log file")
		} else {
			defer f.Close()
			out = io.MultiWriter(os.Stdout, f)
		}
	}
	applog.Init(out, cfg.LogLevel)

	db, err := repos.OpenDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		applog.L().Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("open database")
	}
	defer db.Close()

	client, err := fakestore.New(cfg.BaseURL, cfg.ProductsPath, cfg.FetchTimeout)
	if err != nil {
		applog.L().Fatal().Err(err).Msg("catalog client")
	}

	app := httpapi.NewApp(handlers.NewDeps(db, client), httpapi.Options{
		ImportRateLimit: cfg.ImportRateLimit,
	})

	applog.L().Info().
		Str("port", cfg.Port).
		Str("driver", cfg.DBDriver).
		Str("catalog", client.ProductsURL()).
		Msg("starting")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		applog.L().Info().Msg("received shutdown signal")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(ctx); err != nil {
			applog.L().Error().Err(err).Msg("shutdown")
		}
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		applog.L().Fatal().Err(err).Msg("listen")
	}
	applog.L().Info().Msg("server stopped")
}
