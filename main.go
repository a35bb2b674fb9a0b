package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"imospy/domain/event"
	"imospy/domain/platform"
	"imospy/domain/repository"
	"imospy/infrastructure/cache"
	"imospy/infrastructure/clients/scrapecreators"
	"imospy/infrastructure/configuration"
	"imospy/infrastructure/events"
	"imospy/infrastructure/logger"
	"imospy/infrastructure/monitoring"
	"imospy/infrastructure/persistence"
	"imospy/infrastructure/pubsub"
	"imospy/infrastructure/realtime"
	"imospy/infrastructure/scheduler"
	"imospy/infrastructure/servicebus"
	httpHandler "imospy/interfaces/http"
	"imospy/server"
	"imospy/usecase"
)

const (
	vendorPostgres = "postgres"
	vendorMSSQL    = "mssql"
)

var version = "dev"

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

// closer is run on shutdown in reverse registration order.
type closer func(ctx context.Context)

func main() {
	defer recoverPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	// Load env from files (non-destructive; OS env still has precedence)
	if loaded := configuration.LoadEnvFromFile("config.env", ".env"); len(loaded) > 0 {
		configuration.Reload()
	}

	cfg := configuration.C
	var closers []closer

	db, vendor, err := InitiateDatabase()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Database initialization failed")
		os.Exit(1)
	}
	closers = append(closers, func(context.Context) { _ = db.Close() })

	// Repository wiring: MSSQL in production, otherwise PostgreSQL.
	var (
		accountRepo repository.IAccount
		contentRepo repository.IContent
		historyRepo repository.IAdHistory
	)
	if vendor == vendorMSSQL {
		if err := persistence.EnsureSchemaMSSQL(db); err != nil {
			logger.GetLogger().WithField("error", err).Error("failed ensuring MSSQL schema")
		}
		accountRepo = persistence.NewAccountRepositoryMSSQL(db)
		contentRepo = persistence.NewContentRepositoryMSSQL(db)
		logger.GetLogger().Info("Ad analysis history is not stored on MSSQL")
	} else {
		if err := persistence.EnsureSchema(db); err != nil {
			logger.GetLogger().WithField("error", err).Error("failed ensuring PostgreSQL schema")
		}
		accountRepo = persistence.NewAccountRepository(db)
		contentRepo = persistence.NewContentRepository(db)
		historyRepo = persistence.NewAdHistoryRepository(db)
	}

	var detailLog repository.IAdDetailLog
	if cfg.Database.Mongo.Host != "" {
		mongoClient, mongoDb, err := persistence.NewMongoDb(ctx, cfg.Database.Mongo)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("MongoDB not available - continuing without ad detail logs")
		} else {
			logger.GetLogger().Info("MongoDB connected successfully")
			detailLog = persistence.NewAdDetailLogRepository(mongoDb)
			closers = append(closers, func(ctx context.Context) { _ = mongoClient.Disconnect(ctx) })
		}
	}

	var redisClient redis.UniversalClient
	if cfg.RedisClient.Host != "" {
		client, err := cache.NewCache(
			ctx,
			fmt.Sprintf("%s:%s", cfg.RedisClient.Host, cfg.RedisClient.Port),
			cfg.RedisClient.Username,
			cfg.RedisClient.Password,
		)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Redis not available - continuing without scrape locks and ad detail cache")
		} else {
			logger.GetLogger().Info("Redis client initialized successfully.")
			redisClient = client
			closers = append(closers, func(context.Context) { _ = client.Close() })
		}
	}

	// Event fan-out: log, metrics and SSE inline; brokers behind async queues.
	metrics := monitoring.NewMetrics()
	hub := realtime.NewHub()
	sinks := event.Multi{events.NewLogSink(), metrics, hub}

	if cfg.Pubsub.ProjectID != "" {
		pubSubClient, err := pubsub.NewPubSub(ctx, cfg.Pubsub.ProjectID)
		if err != nil {
			logger.GetLogger().WithField("error", err).Error("Error while instantiate PubSub")
		} else {
			publisher := pubsub.NewEventPublisher(pubSubClient, cfg.Pubsub.Topic)
			async := events.NewAsyncSink("pubsub", publisher, 0, 0)
			sinks = append(sinks, async)
			closers = append(closers, func(context.Context) {
				publisher.Stop()
				_ = pubSubClient.Close()
			}, func(ctx context.Context) { _ = async.Close(ctx) })
		}
	}

	if cfg.ServiceBus.Namespace != "" {
		sbClient, err := servicebus.NewServiceBus(ctx, cfg.ServiceBus.Namespace)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Azure Service Bus not available - continuing without Service Bus events")
		} else {
			sender := servicebus.NewEventSender(sbClient, cfg.ServiceBus.Queue)
			async := events.NewAsyncSink("servicebus", sender, 0, 0)
			sinks = append(sinks, async)
			closers = append(closers, func(ctx context.Context) {
				_ = sender.Close(ctx)
				_ = sbClient.Close(ctx)
			}, func(ctx context.Context) { _ = async.Close(ctx) })
		}
	}

	sc := cfg.ScrapeCreators
	client := scrapecreators.New(scrapecreators.Config{
		APIKey:     sc.APIKey,
		BaseURL:    sc.BaseURL,
		Timeout:    configuration.Seconds(sc.TimeoutSeconds),
		MaxAdPages: sc.MaxAdPages,
	})
	detailFetcher := scrapecreators.NewBreakerFetcher(client, scrapecreators.BreakerConfig{
		FailureThreshold: uint(sc.Breaker.FailureThreshold),
		Window:           uint(sc.Breaker.Window),
		Delay:            configuration.Seconds(sc.Breaker.DelaySeconds),
	})
	enricher := platform.NewEnricher(detailFetcher).
		WithEstimator(platform.EstimatorByName(sc.LikeEstimator)).
		WithConcurrency(sc.EnrichConcurrency).
		WithSink(sinks)

	postSource := usecase.NewPostSource(client, enricher, sinks)
	scrapeUsecase := usecase.NewScrapeUsecase(accountRepo, contentRepo, postSource, cache.NewScrapeLock(redisClient), sinks).
		WithLockTTL(configuration.Seconds(cfg.Scrape.LockTTLSeconds))
	accountUsecase := usecase.NewAccountUsecase(accountRepo)
	contentUsecase := usecase.NewContentUsecase(accountRepo, contentRepo, cfg.Scrape.ContentLimit)
	adUsecase := usecase.NewAdUsecase(client, sinks).
		WithHistory(historyRepo).
		WithDetailLog(detailLog).
		WithCache(cache.NewAdDetailCache(redisClient), configuration.Seconds(cfg.Ads.DetailCacheTTLSeconds)).
		WithConcurrency(cfg.Ads.DetailConcurrency)

	cron := scheduler.NewManager(cfg.Scrape.Schedule, scheduler.NewScrapeJob(scrapeUsecase, 0))
	if err := cron.RegisterJobs(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Invalid scrape schedule; scheduled scrapes disabled")
	} else {
		cron.Start()
	}

	router := server.InitiateRouter(server.Handlers{
		Health:  httpHandler.NewHealthHandler(version),
		Account: httpHandler.NewAccountHandler(accountUsecase),
		Scrape:  httpHandler.NewScrapeHandler(scrapeUsecase),
		Content: httpHandler.NewContentHandler(contentUsecase),
		Ad:      httpHandler.NewAdHandler(adUsecase),
		Proxy:   httpHandler.NewProxyHandler(10 * time.Second),
		Stream:  hub.Serve,
		Metrics: metrics.Handler(),
	}, server.RouterConfig{
		SecretKey:      cfg.App.SecretKey,
		AllowedOrigins: cfg.App.AllowedOrigins,
	})

	app := cfg.App
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	httpServer.RegisterOnShutdown(hub.Close)

	g, gctx := errgroup.WithContext(ctx)
	logger.GetLogger().WithFields(map[string]interface{}{"port": app.Port, "tls": app.TLSEnabled, "vendor": vendor}).Info("Starting application")
	g.Go(func() error {
		var err error
		if app.TLSEnabled && app.TLSCertFile != "" && app.TLSKeyFile != "" {
			logger.GetLogger().WithFields(map[string]interface{}{"cert": app.TLSCertFile, "key": app.TLSKeyFile}).Info("Serving HTTPS")
			err = httpServer.ListenAndServeTLS(app.TLSCertFile, app.TLSKeyFile)
		} else {
			if app.TLSEnabled {
				logger.GetLogger().Error("TLS enabled but cert or key path empty; falling back to HTTP")
			}
			err = httpServer.ListenAndServe()
		}
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-gctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.GetLogger().WithField("error", err).Warn("HTTP server shutdown")
	}
	cron.Stop(shutdownCtx)
	cancel()
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i](shutdownCtx)
	}

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
	logger.GetLogger().Info("Application stopped")
}

// InitiateDatabase opens MSSQL when DB_VENDOR=mssql or in production, and
// PostgreSQL otherwise.
func InitiateDatabase() (*sql.DB, string, error) {
	env := os.Getenv("ENV")
	if os.Getenv("DB_VENDOR") == vendorMSSQL || env == "production" || env == "prod" {
		mssql, err := persistence.NewMSSQLDB()
		if err != nil {
			logger.GetLogger().WithField("error", err).Error("Cannot connect to MSSQL")
			return nil, "", err
		}
		return mssql, vendorMSSQL, nil
	}

	postgres, err := persistence.NewPostgreSQLDB()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Cannot connect to PostgreSQL")
		return nil, "", err
	}
	return postgres, vendorPostgres, nil
}
