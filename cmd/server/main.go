// Command server runs the fitness tool dispatch server: it loads
// configuration, wires the shared process resources (token store, cache,
// provider registry, notification bus), registers every tool handler, and
// starts whichever transports the configuration enables.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fitnessmcp/toolserver/internal/appstore"
	"github.com/fitnessmcp/toolserver/internal/auth"
	"github.com/fitnessmcp/toolserver/internal/cache"
	"github.com/fitnessmcp/toolserver/internal/config"
	"github.com/fitnessmcp/toolserver/internal/handlers"
	"github.com/fitnessmcp/toolserver/internal/notify"
	"github.com/fitnessmcp/toolserver/internal/provider"
	"github.com/fitnessmcp/toolserver/internal/telemetry"
	"github.com/fitnessmcp/toolserver/internal/tokenstore"
	"github.com/fitnessmcp/toolserver/internal/toolregistry"
	"github.com/fitnessmcp/toolserver/internal/transport"
	"goa.design/clue/log"
)

func main() {
	var (
		configF = flag.String("config", "", "Path to a YAML configuration file (optional; defaults apply)")
		dsnF    = flag.String("postgres-dsn", "", "Postgres DSN for token storage (empty uses an in-memory store)")
		dbgF    = flag.Bool("debug", false, "Log request and response bodies")
	)
	flag.Parse()

	format := log.FormatJSON
	if log.IsTerminal() {
		format = log.FormatTerminal
	}
	ctx := log.Context(context.Background(), log.WithFormat(format))
	if *dbgF {
		ctx = log.Context(ctx, log.WithDebug())
	}

	if err := run(ctx, *configF, *dsnF); err != nil {
		log.Error(ctx, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, dsn string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger := telemetry.NewClueLogger()

	var store tokenstore.Store
	if dsn != "" {
		pg, err := tokenstore.NewPostgres(ctx, dsn)
		if err != nil {
			return fmt.Errorf("connect token store: %w", err)
		}
		defer pg.Close()
		store = pg
	} else {
		store = tokenstore.NewMemoryStore()
	}

	var resultCache cache.Cache
	if cfg.Cache.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(cfg.Cache.RedisURL)
		if err != nil {
			return fmt.Errorf("connect cache: %w", err)
		}
		resultCache = redisCache
	} else {
		resultCache = cache.NewMemoryCache()
	}

	providers := provider.Default()
	bus := notify.NewBus()
	refresher := auth.NewEndpointRefresher(auth.DefaultEndpoints())
	authSvc := auth.New(store, providers, refresher, auth.WithLogger(logger))

	rc := &toolregistry.Context{
		Store:     store,
		AppStore:  appstore.NewMemoryStore(),
		Auth:      authSvc,
		Providers: providers,
		Cache:     cache.NewSafe(resultCache, logger),
		Notifier:  bus,
		Logger:    logger,
		Tracer:    telemetry.NewClueTracer(),
		Config: toolregistry.Config{
			DefaultProvider:  cfg.DefaultProvider,
			MaxActivityLimit: cfg.MaxActivityLimit,
			DefaultRestingHR: cfg.ZoneMath.DefaultRestingHR,
			DefaultMaxHR:     cfg.ZoneMath.DefaultMaxHR,
			DefaultFTP:       cfg.ZoneMath.DefaultFTP,
		},
	}

	registry := toolregistry.New()
	handlers.RegisterAll(registry)

	coordinator, err := transport.NewCoordinator(cfg.Transports, registry, rc, bus, logger)
	if err != nil {
		return fmt.Errorf("start transports: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf(ctx, "fitness tool server starting: stdio=%v http=%v sse=%v",
		cfg.Transports.Stdio, cfg.Transports.HTTP, cfg.Transports.SSE)

	if err := coordinator.Run(ctx); err != nil {
		return fmt.Errorf("transport coordinator: %w", err)
	}

	log.Printf(ctx, "fitness tool server stopped cleanly")
	return nil
}
