// Package main implements the chess rules server with a RESTful API and
// optional SQLite persistence.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chessrules/cmd/chess-server/cli"
	"chessrules/internal/engine"
	"chessrules/internal/http"
	"chessrules/internal/processor"
	"chessrules/internal/service"
	"chessrules/internal/storage"

	"github.com/rs/zerolog"
)

const (
	gracefulShutdownTimeout = time.Second * 5
	longPollTimeout         = 25 * time.Second
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "db" {
		if err := cli.Run(os.Args[2:], os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "CLI error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	var (
		apiHost         = flag.String("api-host", "localhost", "API server host")
		apiPort         = flag.Int("api-port", 8080, "API server port")
		dev             = flag.Bool("dev", false, "Development mode (relaxed rate limits, console logs)")
		storagePath     = flag.String("storage-path", "", "Path to SQLite database file (disables persistence if empty)")
		logLevel        = flag.String("log-level", "info", "Log level: debug, info, warn, error")
		strictPromotion = flag.Bool("strict-promotion", false, "Reject promoting moves that do not name a piece")
	)
	flag.Parse()

	log := newLogger(*dev, *logLevel)

	var store *storage.Store
	if *storagePath != "" {
		log.Info().Str("path", *storagePath).Msg("initializing persistent storage")
		var err error
		store, err = storage.NewStore(*storagePath, *dev, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize storage")
		}
		if err := store.InitDB(); err != nil {
			log.Fatal().Err(err).Msg("failed to initialize schema")
		}
	} else {
		log.Info().Msg("persistent storage disabled (use -storage-path to enable)")
	}

	var engineOpts []engine.Option
	if *strictPromotion {
		engineOpts = append(engineOpts, engine.RequirePromotionChoice())
	}

	// Service owns the store and closes it on shutdown
	svc := service.New(service.Config{
		Store:         store,
		Logger:        log,
		WaitTimeout:   longPollTimeout,
		EngineOptions: engineOpts,
	})
	proc := processor.New(svc, log)
	app := http.NewFiberApp(proc, svc, *dev, log)

	apiAddr := fmt.Sprintf("%s:%d", *apiHost, *apiPort)

	go func() {
		log.Info().
			Str("addr", "http://"+apiAddr).
			Bool("dev", *dev).
			Bool("storage", store != nil).
			Bool("strict_promotion", *strictPromotion).
			Msg("chess API server starting")

		if err := app.Listen(apiAddr); err != nil {
			log.Error().Err(err).Msg("API server listen error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	if err := app.ShutdownWithTimeout(gracefulShutdownTimeout); err != nil {
		log.Warn().Err(err).Msg("server forced to shutdown")
	}
	if err := svc.Shutdown(gracefulShutdownTimeout); err != nil {
		log.Warn().Err(err).Msg("service shutdown error")
	}

	log.Info().Msg("server exited")
}

// newLogger writes JSON by default and a human readable console in dev mode
func newLogger(dev bool, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var log zerolog.Logger
	if dev {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	} else {
		log = zerolog.New(os.Stderr)
	}
	return log.Level(lvl).With().Timestamp().Logger()
}
