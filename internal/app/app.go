package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/bhanu79755/Shopbuy/internal/catalog"
	"github.com/bhanu79755/Shopbuy/internal/config"
	"github.com/bhanu79755/Shopbuy/internal/event"
	handler "github.com/bhanu79755/Shopbuy/internal/handler/http"
	"github.com/bhanu79755/Shopbuy/internal/recommend"
	"github.com/bhanu79755/Shopbuy/internal/recommend/gemini"
	aimock "github.com/bhanu79755/Shopbuy/internal/recommend/mock"
	"github.com/bhanu79755/Shopbuy/internal/repository"
	"github.com/bhanu79755/Shopbuy/internal/repository/memory"
	pgrepo "github.com/bhanu79755/Shopbuy/internal/repository/postgres"
	redisrepo "github.com/bhanu79755/Shopbuy/internal/repository/redis"
	"github.com/bhanu79755/Shopbuy/internal/service"
	"github.com/bhanu79755/Shopbuy/pkg/breaker"
	"github.com/bhanu79755/Shopbuy/pkg/database"
	"github.com/bhanu79755/Shopbuy/pkg/health"
	pkgkafka "github.com/bhanu79755/Shopbuy/pkg/kafka"
	"github.com/bhanu79755/Shopbuy/pkg/middleware"
	"github.com/bhanu79755/Shopbuy/pkg/tracing"
)

const serviceName = "shopbuy-storefront"

// App wires together all dependencies and runs the storefront.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	rdb        *redis.Client
	pool       *pgxpool.Pool
	producer   *pkgkafka.Producer
	sessions   *service.SessionStore
	httpServer *http.Server

	tracerShutdown func(context.Context) error

	// background workers (janitor, rate limiter cleanup) stop with this
	ctx    context.Context
	cancel context.CancelFunc

	closeOnce sync.Once
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a := &App{cfg: cfg, logger: logger}
	a.ctx, a.cancel = context.WithCancel(context.Background())

	ok := false
	defer func() {
		if !ok {
			a.closeResources()
		}
	}()

	// Initialize tracing.
	shutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:  serviceName,
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTELEndpoint,
		SampleRate:   cfg.OTELSampleRate,
		Enabled:      cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}
	a.tracerShutdown = shutdown

	// Image override store.
	overrides, err := a.openOverrideStore(ctx)
	if err != nil {
		return nil, err
	}

	// Kafka producer. Without brokers events are dropped.
	var publisher event.Publisher
	if cfg.KafkaEnabled() {
		a.producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		publisher = a.producer
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	} else {
		logger.Warn("no kafka brokers configured, events will not be published")
	}
	events := event.NewProducer(publisher, logger)

	// Recommendation service.
	var ai recommend.Service
	if cfg.GeminiAPIKey != "" {
		client, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		ai = client
		logger.Info("using gemini recommendation service", slog.String("model", cfg.GeminiModel))
	} else {
		ai = aimock.New()
		logger.Warn("no GEMINI_API_KEY set, using keyword recommendation service")
	}

	breakerCfg := breaker.DefaultConfig("recommend")
	breakerCfg.Timeout = cfg.BreakerTimeout
	breakerCfg.MinRequests = cfg.BreakerMinRequests
	breakerCfg.FailureRatio = cfg.BreakerFailureRatio
	adapter := recommend.NewAdapter(ai, recommend.AdapterConfig{
		CallTimeout: cfg.AICallTimeout,
		Breaker:     breakerCfg,
	}, logger)

	// Build the dependency graph.
	seed, err := catalog.Seed()
	if err != nil {
		return nil, fmt.Errorf("load catalog seed: %w", err)
	}
	catalogService := service.NewCatalogService(seed, overrides, events, logger)
	catalogService.Load(ctx)

	a.sessions = service.NewSessionStore(adapter.SuggestRelated, cfg.RecommendDebounce, cfg.SessionIdleTTL, logger)

	svc := handler.Services{
		Catalog:  catalogService,
		Browse:   service.NewBrowseService(catalogService, adapter, logger),
		Checkout: service.NewCheckoutService(events, logger),
		Sessions: a.sessions,
	}

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("override_store", overrides.Ping)
	if a.producer != nil {
		healthHandler.Register("kafka", a.producer.Ping)
	}

	// HTTP router.
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSOrigins
	router := handler.NewRouter(svc, healthHandler, handler.RouterConfig{
		CORS:    corsCfg,
		AILimit: middleware.RateLimit(a.ctx, cfg.AIRateLimitRPS, cfg.AIRateLimitBurst, logger),
	}, logger)

	a.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ok = true
	return a, nil
}

// openOverrideStore connects the configured image override backend.
func (a *App) openOverrideStore(ctx context.Context) (repository.ImageOverrideStore, error) {
	cfg := a.cfg

	switch cfg.OverrideBackend {
	case config.BackendRedis:
		redisCfg := database.RedisConfig{
			Addr:         cfg.RedisAddr,
			Password:     cfg.RedisPass,
			DB:           cfg.RedisDB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		}
		rdb, err := database.NewRedisClient(ctx, redisCfg)
		if err != nil {
			// Keep serving the seed catalog; the client redials on later calls.
			a.logger.Warn("redis unavailable, image overrides disabled until it recovers",
				slog.String("addr", cfg.RedisAddr),
				slog.String("error", err.Error()),
			)
			rdb = database.OpenRedisClient(redisCfg)
		} else {
			a.logger.Info("connected to Redis",
				slog.String("addr", cfg.RedisAddr),
				slog.Int("db", cfg.RedisDB),
			)
		}
		a.rdb = rdb
		return redisrepo.NewOverrideStore(rdb), nil

	case config.BackendPostgres:
		pgCfg := &database.PostgresConfig{
			Host:     cfg.DBHost,
			Port:     cfg.DBPort,
			User:     cfg.DBUser,
			Password: cfg.DBPassword,
			DBName:   cfg.DBName,
			SSLMode:  cfg.DBSSLMode,
			MaxConns: 5,
		}
		pool, err := database.NewPostgresPool(ctx, pgCfg, a.logger)
		if err != nil {
			a.logger.Warn("postgres unavailable, image overrides disabled until restart",
				slog.String("host", cfg.DBHost),
				slog.String("error", err.Error()),
			)
			// Migrations are skipped; they run on the next start that reaches the database.
			if pool, err = database.OpenPostgresPool(context.WithoutCancel(ctx), pgCfg); err != nil {
				return nil, fmt.Errorf("open postgres pool: %w", err)
			}
		} else if err := database.RunMigrations(ctx, pool, pgrepo.Migrations(), a.logger); err != nil {
			a.logger.Warn("override store migrations failed", slog.String("error", err.Error()))
		}
		a.pool = pool

		if err := prometheus.Register(database.NewPoolStatsCollector(pool, serviceName)); err != nil {
			var already prometheus.AlreadyRegisteredError
			if !errors.As(err, &already) {
				return nil, fmt.Errorf("register pool metrics: %w", err)
			}
		}
		return pgrepo.NewOverrideStore(pool), nil

	default:
		a.logger.Warn("using in-memory image override store, overrides are lost on restart")
		return memory.NewOverrideStore(), nil
	}
}

// Handler returns the HTTP handler.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go a.sessions.RunJanitor(a.ctx)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	a.closeResources()

	a.logger.Info("application shutdown complete")
	return nil
}

// closeResources stops background work and closes every connection that was
// opened. It tolerates a partially built App.
func (a *App) closeResources() {
	a.closeOnce.Do(a.close)
}

func (a *App) close() {
	a.cancel()

	if a.sessions != nil {
		a.sessions.Close()
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	if a.pool != nil {
		a.pool.Close()
	}

	if a.tracerShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.tracerShutdown(ctx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
		}
	}
}
