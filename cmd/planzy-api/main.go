// README: Entry point; loads config, wires storage, extractor, parser and planner, then serves the HTTP API.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/gkatsarova/planzy-sub001/internal/ai"
	"github.com/gkatsarova/planzy-sub001/internal/config"
	httptransport "github.com/gkatsarova/planzy-sub001/internal/http"
	"github.com/gkatsarova/planzy-sub001/internal/infra"
	"github.com/gkatsarova/planzy-sub001/internal/intent"
	"github.com/gkatsarova/planzy-sub001/internal/logging"
	"github.com/gkatsarova/planzy-sub001/internal/maps"
	"github.com/gkatsarova/planzy-sub001/internal/modules/aiusage"
	"github.com/gkatsarova/planzy-sub001/internal/modules/notify"
	"github.com/gkatsarova/planzy-sub001/internal/modules/themestore"
	"github.com/gkatsarova/planzy-sub001/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logger, err := logging.NewLogger(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Firebase.ProjectID == "" {
		logger.Fatal("PLANZY_FIREBASE_PROJECT_ID is required")
	}
	app, err := infra.NewFirebaseApp(ctx, cfg.Firebase.ProjectID, cfg.Firebase.DatabaseURL, cfg.Firebase.CredentialsFile)
	if err != nil {
		logger.Fatal("Firebase init failed", zap.Error(err))
	}
	verifier, err := infra.NewFirebaseVerifier(ctx, app)
	if err != nil {
		logger.Fatal("Firebase auth init failed", zap.Error(err))
	}

	var dbPool *pgxpool.Pool
	if cfg.DB.DSN != "" {
		dbPool, err = infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			logger.Fatal("Postgres init failed", zap.Error(err))
		}
		defer dbPool.Close()
	}

	kv, closeKV, err := newKV(ctx, cfg, dbPool, app)
	if err != nil {
		logger.Fatal("Theme store init failed", zap.String("backend", cfg.Prefs.Backend), zap.Error(err))
	}
	defer closeKV()

	extractor, closeExtractor, err := newExtractor(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Entity extractor init failed", zap.String("extractor", cfg.AI.Extractor), zap.Error(err))
	}
	defer closeExtractor()

	parser, err := intent.NewParser(ctx, extractor, themestore.NewModelStore(kv, logger), cfg.Intent.UnknownDestination, logger)
	if err != nil {
		logger.Fatal("Intent parser init failed", zap.Error(err))
	}

	deps := httptransport.RouterDeps{
		Parser:           parser,
		Verifier:         verifier,
		BatchConcurrency: cfg.Intent.BatchConcurrency,
		Logger:           logger,
	}

	if cfg.Maps.APIKey != "" {
		places, err := maps.NewPlacesService(cfg.Maps.APIKey)
		if err != nil {
			logger.Fatal("Places init failed", zap.Error(err))
		}
		deps.Planner = service.NewVacationPlanner(parser, places, logger)

		fcm, err := infra.NewMessaging(ctx, app)
		if err != nil {
			logger.Warn("FCM unavailable, plan notifications disabled", zap.Error(err))
		} else {
			deps.Notifier = notify.NewPlanNotifier(fcm, logger)
		}
	} else {
		logger.Warn("GOOGLE_MAPS_API_KEY not set, vacation planning disabled")
	}

	if dbPool != nil {
		deps.Quota = aiusage.NewService(aiusage.NewStore(dbPool))
	} else {
		logger.Warn("PLANZY_DB_DSN not set, parse quota disabled")
	}

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: httptransport.NewRouter(deps)}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("Planzy API listening",
		zap.String("addr", cfg.HTTP.Addr),
		zap.String("prefs_backend", cfg.Prefs.Backend),
		zap.String("extractor", cfg.AI.Extractor),
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}
}

func newKV(ctx context.Context, cfg config.Config, dbPool *pgxpool.Pool, app *firebase.App) (themestore.KV, func(), error) {
	noop := func() {}
	switch cfg.Prefs.Backend {
	case config.BackendRedis:
		client, err := infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			return nil, nil, err
		}
		return themestore.NewRedisKV(client), func() { _ = client.Close() }, nil
	case config.BackendPostgres:
		return themestore.NewPostgresKV(dbPool), noop, nil
	case config.BackendFirebase:
		client, err := infra.NewRealtimeDB(ctx, app)
		if err != nil {
			return nil, nil, err
		}
		return themestore.NewFirebaseKV(client), noop, nil
	default:
		return themestore.NewMemoryKV(), noop, nil
	}
}

func newExtractor(ctx context.Context, cfg config.Config, logger *zap.Logger) (intent.EntityExtractor, func(), error) {
	var (
		extractor intent.EntityExtractor
		closeFn   = func() {}
	)
	switch cfg.AI.Extractor {
	case config.ExtractorProse:
		extractor = ai.NewProseExtractor(logger)
	default:
		gemini, err := ai.NewGeminiExtractor(ctx, cfg.AI.GeminiKey, cfg.AI.Model, logger)
		if err != nil {
			return nil, nil, err
		}
		extractor, closeFn = gemini, gemini.Close
	}

	if cfg.AI.CacheTTL > 0 {
		extractor = ai.NewCachingExtractor(extractor, cfg.AI.CacheTTL, logger)
	}
	return extractor, closeFn, nil
}
