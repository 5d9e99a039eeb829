package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/JonMunkholm/statdash/internal/config"
	"github.com/JonMunkholm/statdash/internal/core"
	"github.com/JonMunkholm/statdash/internal/logging"
	"github.com/JonMunkholm/statdash/internal/source"
	"github.com/JonMunkholm/statdash/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"source", cfg.Dataset.Source,
		"rate_limit_enabled", cfg.Rate.Enabled,
		"live_max_sessions", cfg.Live.MaxSessions,
	)

	// Load both tables once; the store is read-only afterwards.
	store, err := loadStore(cfg)
	if err != nil {
		slog.Error("failed to load dataset", "error", err, "code", core.MapError(err).Code)
		os.Exit(1)
	}

	slog.Info("dataset loaded",
		"load_id", store.LoadID(),
		"season_rows", store.SeasonCount(),
		"player_rows", store.PlayerCount(),
		"statistics", len(store.StatisticColumns()),
		"teams", len(store.TeamDomain()),
		"positions", len(store.PositionDomain()),
	)

	server := web.NewServer(store, cfg)

	// Graceful shutdown
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	<-stopped
	slog.Info("server stopped")
}

// loadStore reads the season and player tables from the configured source
// and builds the store.
func loadStore(cfg *config.Config) (*core.Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Dataset.LoadTimeout)
	defer cancel()

	pair, closeSource, err := openSource(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer closeSource()

	season, player, err := pair.Load(ctx)
	if err != nil {
		return nil, err
	}

	return core.NewStore(season, player, core.StoreOptions{
		StatisticOffset: cfg.Dataset.StatisticOffset,
	})
}

// openSource builds the loaders for cfg.Dataset.Source. The returned
// function releases any connection the loaders hold.
func openSource(ctx context.Context, cfg *config.Config) (source.Pair, func(), error) {
	ds := cfg.Dataset

	switch strings.ToLower(ds.Source) {
	case config.SourceFile:
		season, err := source.FileLoader(ds.SeasonFile, ds.SeasonSheet)
		if err != nil {
			return source.Pair{}, nil, err
		}
		// Statistics are read as stored numbers, not their display format.
		if xl, ok := season.(source.XLSXLoader); ok {
			xl.RawValues = true
			season = xl
		}
		player, err := source.FileLoader(ds.PlayerFile, ds.PlayerSheet)
		if err != nil {
			return source.Pair{}, nil, err
		}
		slog.Info("reading dataset files", "season", ds.SeasonFile, "player", ds.PlayerFile)
		return source.Pair{Season: season, Player: player}, func() {}, nil

	case config.SourcePostgres:
		poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
		if err != nil {
			return source.Pair{}, nil, fmt.Errorf("parse database URL: %w", err)
		}
		poolConfig.MaxConns = int32(cfg.Database.MaxConns)
		poolConfig.MinConns = int32(cfg.Database.MinConns)

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return source.Pair{}, nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return source.Pair{}, nil, fmt.Errorf("ping database: %w", err)
		}
		slog.Info("connected to database", "database", poolConfig.ConnConfig.Database)

		return source.Pair{
			Season: source.PostgresLoader{DB: pool, Table: ds.SeasonTable},
			Player: source.PostgresLoader{DB: pool, Table: ds.PlayerTable},
		}, pool.Close, nil

	case config.SourceSQLite:
		db, err := source.OpenSQLite(ctx, cfg.SQLite.Path)
		if err != nil {
			return source.Pair{}, nil, err
		}
		slog.Info("opened sqlite database", "path", cfg.SQLite.Path)

		return source.Pair{
			Season: source.SQLiteLoader{DB: db, Table: ds.SeasonTable},
			Player: source.SQLiteLoader{DB: db, Table: ds.PlayerTable},
		}, func() { db.Close() }, nil

	default:
		return source.Pair{}, nil, fmt.Errorf("unknown dataset source %q", ds.Source)
	}
}
