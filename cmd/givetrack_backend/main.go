package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	limiter "github.com/ulule/limiter/v3"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"

	rediscache "github.com/givetrack/givetrack_backend/internal/adapters/cache"
	"github.com/givetrack/givetrack_backend/internal/adapters/database/pgsql"
	"github.com/givetrack/givetrack_backend/internal/adapters/docstore"
	portsrepo "github.com/givetrack/givetrack_backend/internal/core/ports/repositories"
	"github.com/givetrack/givetrack_backend/internal/core/services"
	"github.com/givetrack/givetrack_backend/internal/handlers"
	"github.com/givetrack/givetrack_backend/internal/middleware"
	"github.com/givetrack/givetrack_backend/internal/utils/validation"
	"github.com/givetrack/givetrack_backend/pkg/config"
	"github.com/givetrack/givetrack_backend/pkg/database"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		logger.Error("Failed to run database migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("walletaddr", validation.WalletAddress); err != nil {
			logger.Error("Failed to register wallet address validator", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	var statsCache portsrepo.Cache
	if cfg.RedisURL != "" {
		redisCache, err := rediscache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("Redis unavailable, statistics caching disabled", slog.String("error", err.Error()))
		} else {
			defer redisCache.Close()
			statsCache = redisCache
			logger.Info("Statistics cache enabled", slog.Duration("ttl", cfg.StatsCacheTTL))
		}
	}

	docStore := selectDocumentStore(ctx, cfg, logger)

	repos := pgsql.NewRepositoryProvider(dbPool)
	serviceContainer := services.NewServiceContainer(cfg, repos, statsCache, docStore)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger))
	r.Use(gin.Recovery())
	r.Use(middleware.Metrics())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	rateLimiter := limiter.New(memorystore.NewStore(), limiter.Rate{
		Period: cfg.RateLimitPeriod,
		Limit:  cfg.RateLimit,
	})
	r.Use(middleware.RateLimit(rateLimiter))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Starting server", slog.String("port", cfg.Port), slog.String("documentStore", docStore.Mode()))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Failed to start server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies any pending SQL migrations before the server starts
// taking traffic.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	srcErr, dbErr := m.Close()
	if srcErr != nil {
		return srcErr
	}
	if dbErr != nil {
		return dbErr
	}

	logger.Info("Database migrations applied")
	return nil
}

// selectDocumentStore probes the configured IPFS node once at startup. If the
// node is unreachable the service still comes up, serving documents from an
// in-memory store until the next restart.
func selectDocumentStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) portsrepo.DocumentStore {
	ipfsStore := docstore.NewIPFSStore(cfg.IPFSAPIURL, cfg.IPFSTimeout)

	probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := ipfsStore.Probe(probeCtx); err != nil {
		logger.Warn("IPFS node unreachable, falling back to degraded local document store",
			slog.String("apiUrl", cfg.IPFSAPIURL),
			slog.String("error", err.Error()))
		return docstore.NewMemoryStore()
	}

	logger.Info("Connected to IPFS node", slog.String("apiUrl", cfg.IPFSAPIURL))
	return docstore.NewCachingStore(ipfsStore)
}
