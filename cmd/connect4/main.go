package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connect4/internal/config"
	"github.com/iamasit07/connect4/internal/repository/postgres"
	"github.com/iamasit07/connect4/internal/repository/redis"
	"github.com/iamasit07/connect4/internal/repository/sqlite"
	"github.com/iamasit07/connect4/internal/service/cleanup"
	"github.com/iamasit07/connect4/internal/service/game"
	"github.com/iamasit07/connect4/internal/transport/console"
	transportHttp "github.com/iamasit07/connect4/internal/transport/http"
	"github.com/iamasit07/connect4/internal/transport/http/middleware"
	"github.com/iamasit07/connect4/internal/transport/websocket"
	"github.com/iamasit07/connect4/pkg/auth"
	"github.com/iamasit07/connect4/pkg/logging"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup still happens.
func run() int {
	envErr := godotenv.Load()
	if envErr != nil {
		envErr = godotenv.Load("../.env")
	}

	cfg := config.LoadConfig()
	logging.Setup(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if envErr != nil {
		log.Debug().Msg("no .env file found")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// History store
	var history transportHttp.GameHistory
	var opts []game.Option
	switch cfg.HistoryDriver {
	case config.HistoryPostgres:
		db, err := postgres.Open(ctx, cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetimeMin)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer db.Close()

		log.Info().Msg("running database migrations")
		if err := postgres.RunMigrations(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
		repo := postgres.NewGameRepo(db)
		history = repo
		opts = append(opts, game.WithRepository(repo))
	case config.HistorySQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.SQLitePath).Msg("failed to open sqlite database")
		}
		defer db.Close()

		repo := sqlite.NewGameRepo(db)
		history = repo
		opts = append(opts, game.WithRepository(repo))
	default:
		log.Info().Msg("game history disabled")
	}

	// Snapshot cache
	var snapshots *redis.SnapshotCache
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(ctx, cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			log.Warn().Err(err).Msg("running without snapshot cache")
		} else {
			defer client.Close()
			snapshots = redis.NewSnapshotCache(client, cfg.SnapshotTTL)
			opts = append(opts, game.WithSnapshotStore(snapshots))
			log.Info().Str("addr", cfg.RedisURL).Msg("redis connected")
		}
	}

	hub := websocket.NewHub(middleware.OriginChecker(cfg.AllowedOrigins))
	opts = append(opts, game.WithBroadcaster(hub))
	sessionManager := game.NewSessionManager(opts...)

	var evicter cleanup.SnapshotEvicter
	if snapshots != nil {
		evicter = snapshots
	}
	cleanup.NewWorker(sessionManager, hub, evicter, cfg.CleanupInterval).Start(ctx)

	var driverOpts []console.Option
	var srv *http.Server
	if cfg.WatchEnabled() {
		gin.SetMode(gin.ReleaseMode)
		routerCfg := transportHttp.RouterConfig{
			Sessions:       sessionManager,
			Hub:            hub,
			History:        history,
			AllowedOrigins: cfg.AllowedOrigins,
			JWTSecret:      cfg.JWTSecret,
		}
		if snapshots != nil {
			routerCfg.Snapshots = snapshots
		}

		srv = &http.Server{
			Addr:              ":" + cfg.WatchPort,
			Handler:           transportHttp.NewRouter(routerCfg),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			log.Info().Str("port", cfg.WatchPort).Msg("watch server starting")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("watch server error")
			}
		}()

		driverOpts = append(driverOpts, console.WithWatchLink(func(gameID string) (string, error) {
			token, err := auth.GenerateWatchToken(gameID, cfg.JWTSecret, cfg.WatchTokenTTL)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%s/api/watch/%s?token=%s", cfg.WatchBaseURL, gameID, url.QueryEscape(token)), nil
		}))
	}

	driver := console.NewDriver(os.Stdin, os.Stdout, sessionManager, driverOpts...)
	err := driver.Run(ctx)
	driver.Close()
	switch {
	case err == nil, errors.Is(err, console.ErrQuit):
	case errors.Is(err, context.Canceled), errors.Is(err, io.EOF):
		log.Info().Msg("shutting down")
	default:
		log.Error().Err(err).Msg("game stopped")
	}

	sessionManager.Wait()

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("watch server forced to shutdown")
		}
	}
	stop()

	if err != nil && !errors.Is(err, console.ErrQuit) && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		return 1
	}
	return 0
}
