package app

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/storefront/internal/cart"
	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/config"
	"github.com/utafrali/storefront/internal/event"
	handler "github.com/utafrali/storefront/internal/handler/http"
	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/internal/session"
	filestore "github.com/utafrali/storefront/internal/session/file"
	memorystore "github.com/utafrali/storefront/internal/session/memory"
	redisstore "github.com/utafrali/storefront/internal/session/redis"
	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/httpclient"
	pkgkafka "github.com/utafrali/storefront/pkg/kafka"
	"github.com/utafrali/storefront/pkg/middleware"
	"github.com/utafrali/storefront/pkg/tracing"
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	rdb        *redis.Client
	producer   *pkgkafka.Producer
	httpServer *http.Server

	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:  "storefront",
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTELEndpoint,
		SampleRate:   cfg.OTELSampleRate,
		Enabled:      cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Session identity store. Losing persistence is not fatal: an
	// unreachable Redis degrades to the in-memory store.
	sessionStore, rdb := newSessionStore(ctx, cfg, logger)
	sessions := session.NewManager(sessionStore, logger)

	// Kafka producer for activity events, when enabled.
	var producer *pkgkafka.Producer
	var eventProducer *event.Producer
	if cfg.KafkaEnabled {
		kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
		producer = pkgkafka.NewProducer(kafkaCfg, logger)
		eventProducer = event.NewProducer(producer, logger)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// Downstream HTTP clients, one circuit breaker per service.
	clientCfg := httpclient.DefaultConfig()
	clientCfg.Timeout = cfg.HTTPClientTimeout

	catalogClient := catalog.NewClient(cfg.CatalogServiceURL, newDoer(clientCfg, "catalog", cfg, logger), logger)
	cartClient := cart.NewClient(cfg.CartServiceURL, newDoer(clientCfg, "cart", cfg, logger), logger)

	svc := service.New(sessions, catalogClient, cartClient, eventProducer, logger)

	// Health checks. Downstream reachability is informational only: the
	// storefront starts and serves degraded pages without them.
	healthHandler := health.NewHandler()
	if rdb != nil {
		healthHandler.Register("redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}
	healthHandler.RegisterNonCritical("catalog", dialCheck(cfg.CatalogServiceURL))
	healthHandler.RegisterNonCritical("cart", dialCheck(cfg.CartServiceURL))
	if producer != nil {
		healthHandler.RegisterNonCritical("kafka", producer.Ping)
	}

	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.CORSAllowedOrigins) > 0 {
		corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
	}

	router := handler.NewRouter(svc, healthHandler, logger, corsCfg)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		rdb:            rdb,
		producer:       producer,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// newSessionStore builds the configured session identity store. The returned
// redis client is nil unless Redis is in use.
func newSessionStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (session.Store, *redis.Client) {
	switch cfg.SessionStore {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, session identity will not survive restarts",
				slog.String("addr", cfg.RedisAddr),
				slog.String("error", err.Error()),
			)
			_ = rdb.Close()
			return memorystore.NewStore(), nil
		}
		logger.Info("connected to Redis",
			slog.String("addr", cfg.RedisAddr),
			slog.Int("db", cfg.RedisDB),
		)
		return redisstore.NewStore(rdb), rdb
	case "file":
		return filestore.NewStore(cfg.SessionFilePath), nil
	default:
		return memorystore.NewStore(), nil
	}
}

// newDoer builds the HTTP client for a downstream service, wrapping it in a
// circuit breaker when enabled.
func newDoer(clientCfg httpclient.Config, name string, cfg *config.Config, logger *slog.Logger) catalog.Doer {
	client := httpclient.New(clientCfg)
	if !cfg.CircuitBreakerEnabled {
		return client
	}
	return httpclient.NewCircuitBreakerClient(client, httpclient.DefaultCircuitBreakerConfig(name), logger)
}

// hostPort extracts a dialable "host:port" from a downstream base URL,
// defaulting the port from the scheme.
func hostPort(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse downstream URL %q: %w", rawURL, err)
	}
	host := u.Hostname()
	if host == "" {
		return "", fmt.Errorf("downstream URL %q has no host", rawURL)
	}
	port := u.Port()
	if port == "" {
		if u.Scheme == "https" {
			port = "443"
		} else {
			port = "80"
		}
	}
	return net.JoinHostPort(host, port), nil
}

// dialCheck reports whether a downstream service's host accepts TCP
// connections.
func dialCheck(rawURL string) health.Checker {
	return func(ctx context.Context) error {
		addr, err := hostPort(rawURL)
		if err != nil {
			return err
		}
		var d net.Dialer
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return err
		}
		return conn.Close()
	}
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

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
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
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

	if a.tracerShutdown != nil {
		if err := a.tracerShutdown(shutdownCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
		}
	}

	a.logger.Info("application shutdown complete")
	return nil
}
