package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"incognitify/portal/internal/cache"
	"incognitify/portal/internal/config"
	"incognitify/portal/internal/database"
	"incognitify/portal/internal/handlers"
	"incognitify/portal/internal/i18n"
	"incognitify/portal/internal/jobs"
	"incognitify/portal/internal/log"
	"incognitify/portal/internal/preferences"
	"incognitify/portal/internal/server"
	"incognitify/portal/internal/storage"
	"incognitify/portal/internal/upstream"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx := context.Background()

	deps := handlers.Dependencies{}
	var prefs preferences.Store = preferences.NewMemoryStore()

	var dbPool *pgxpool.Pool
	if cfg.Postgres.DSN != "" {
		dbPool, err = database.NewPostgresPool(ctx, cfg.Postgres)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect postgres")
		}
		if err := database.Migrate(ctx, dbPool); err != nil {
			logger.Fatal().Err(err).Msg("failed to migrate postgres")
		}
		prefs = preferences.NewPostgresStore(dbPool)
		deps.Database = dbPool
	} else {
		logger.Warn().Msg("postgres not configured, preferences are kept in memory")
	}

	var redisClient *redis.Client
	var statusCache jobs.StatusCache
	if cfg.Redis.Addr != "" {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect redis")
		}
		store := cache.NewStore(redisClient, "portal:")
		prefs = preferences.NewCachedStore(prefs, store, cfg.Redis.PreferenceTTL, logger)
		statusCache = store
		deps.Cache = store
	}
	deps.Preferences = prefs

	var source i18n.Source = i18n.NewEmbeddedSource()
	if cfg.Storage.Endpoint != "" {
		objectStore, err := storage.NewObjectStore(cfg.Storage)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to init object store")
		}
		created, err := objectStore.EnsureBuckets(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("ensure buckets failed")
		}
		if created {
			n, err := i18n.PublishEmbedded(ctx, objectStore, objectStore.LocalesBucket())
			if err != nil {
				logger.Warn().Err(err).Msg("publish locale bundles failed")
			} else {
				logger.Info().Int("bundles", n).Str("bucket", objectStore.LocalesBucket()).Msg("locale bundles published")
			}
		}
		source = i18n.FallbackSource{
			i18n.NewObjectStoreSource(objectStore, objectStore.LocalesBucket()),
			i18n.NewEmbeddedSource(),
		}
		deps.Objects = objectStore
	}
	deps.Catalog = i18n.NewCatalog(source, logger)

	client := upstream.New(cfg.Upstream, logger)
	deps.Upstream = client

	scheduler := jobs.NewScheduler(client, statusCache, cfg.Upstream.ProbeSchedule, logger)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}
	deps.Probe = scheduler

	handlerSet := handlers.NewHandlerSet(logger, cfg, deps)
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, dbPool, redisClient)
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, db *pgxpool.Pool, redisClient *redis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("forced shutdown failed")
		}
	}

	scheduler.Stop(shutdownCtx)

	if db != nil {
		db.Close()
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("redis close error")
		}
	}

	logger.Info().Msg("server exited cleanly")
}
