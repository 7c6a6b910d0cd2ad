package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/pinball-leaderboard/internal/config"
	"github.com/riskibarqy/pinball-leaderboard/internal/domain/health"
	"github.com/riskibarqy/pinball-leaderboard/internal/domain/leaderboard"
	cacherepo "github.com/riskibarqy/pinball-leaderboard/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/pinball-leaderboard/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/pinball-leaderboard/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/pinball-leaderboard/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/pinball-leaderboard/internal/platform/cache"
	"github.com/riskibarqy/pinball-leaderboard/internal/platform/logging"
	"github.com/riskibarqy/pinball-leaderboard/internal/usecase"
)

const redisKeyPrefix = "pinball:"

// NewHTTPServer wires the configured data source into the HTTP API. The
// returned closer releases the database pool and cache client.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	var closers []func() error
	closeAll := func() error {
		var firstErr error
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}

	leaderboardRepo, healthRepo, closeSource, err := newDataSource(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, closeSource)

	if cfg.CacheEnabled {
		backend, closeCache, err := newCacheBackend(ctx, cfg, logger)
		if err != nil {
			_ = closeAll()
			return nil, nil, err
		}
		closers = append(closers, closeCache)
		leaderboardRepo = cacherepo.NewLeaderboardRepository(leaderboardRepo, backend)
		logger.Info("response cache enabled", "backend", cfg.CacheBackend, "ttl", cfg.CacheTTL.String())
	}

	display := config.LoadDisplayOrDefault(cfg.DisplayConfigPath, logger)

	handler := httpapi.NewHandler(
		usecase.NewLeaderboardService(leaderboardRepo, time.Now),
		usecase.NewHealthService(healthRepo),
		display,
		logger,
	)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.StaticDir)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return server, closeAll, nil
}

func newDataSource(ctx context.Context, cfg config.Config, logger *logging.Logger) (leaderboard.Repository, health.Repository, func() error, error) {
	if !cfg.UsesDatabase() {
		data := memory.GenerateDataset(cfg.DemoSeed, time.Now())
		repo := memory.NewLeaderboardRepository(data, time.Now)
		logger.Info("leaderboard source ready",
			"source", cfg.LeaderboardSource,
			"seed", cfg.DemoSeed,
			"players", len(data.Players),
			"scores", len(data.Scores),
		)
		return repo, memory.NewHealthRepository(repo), func() error { return nil }, nil
	}

	db, err := openDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}

	var repo leaderboard.Repository
	switch cfg.LeaderboardSource {
	case config.SourceViews:
		repo = postgres.NewViewLeaderboardRepository(db)
	default:
		repo = postgres.NewRawLeaderboardRepository(db)
	}
	logger.Info("leaderboard source ready", "source", cfg.LeaderboardSource, "db_name", dbNameFromURL(cfg.DBURL))

	return repo, postgres.NewHealthRepository(db), db.Close, nil
}

// openDatabase does not fail on an unreachable server; the health route
// reports that instead.
func openDatabase(ctx context.Context, cfg config.Config, logger *logging.Logger) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.ServiceName)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		logger.Warn("database not reachable at startup", "error", err)
	}

	return db, nil
}

func newCacheBackend(ctx context.Context, cfg config.Config, logger *logging.Logger) (basecache.Backend, func() error, error) {
	if cfg.CacheBackend != config.CacheBackendRedis {
		return basecache.NewStore(cfg.CacheTTL), func() error { return nil }, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		PoolSize:     cfg.DBMaxOpenConns,
		MinIdleConns: 1,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("ping redis %s: %w", cfg.RedisAddr, err)
	}

	return basecache.NewRedisStore(client, cfg.CacheTTL, redisKeyPrefix, logger), client.Close, nil
}
