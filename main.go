package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"
	clerk "github.com/clerk/clerk-sdk-go/v2"
	gorilllaHandlers "github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"geoQuestAPI/handlers"
	"geoQuestAPI/internal/cache"
	"geoQuestAPI/internal/config"
	"geoQuestAPI/internal/notification"
	"geoQuestAPI/internal/recommend"
	"geoQuestAPI/internal/store"
	"geoQuestAPI/middleware"
	"geoQuestAPI/services"

	_ "net/http/pprof"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	logger, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)
	sugar := zap.S()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	initCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	healthChecks := map[string]handlers.Pinger{}

	// -------------------------------------------------------------------------
	// FIREBASE
	// -------------------------------------------------------------------------
	var app *firebase.App
	if cfg.NeedsFirebase() || cfg.PushNotifications {
		app, err = store.NewFirebaseApp(initCtx, cfg.FirebaseProjectID, cfg.FirebaseServiceAccountJSON, cfg.FirebaseCredentialsFile)
		if err != nil {
			if cfg.NeedsFirebase() {
				sugar.Fatalf("Failed to initialize Firebase: %v", err)
			}
			sugar.Warnf("Firebase unavailable, push notifications disabled: %v", err)
		}
	}

	// -------------------------------------------------------------------------
	// STORAGE
	// -------------------------------------------------------------------------
	var (
		catalogStore   services.CatalogStore
		finalPageStore services.FinalPageStore
		progressStore  services.ProgressStore
	)

	switch cfg.StoreDriver {
	case config.StoreFirestore:
		fs, err := store.NewFirestoreStore(initCtx, app)
		if err != nil {
			sugar.Fatalf("Failed to connect to Firestore: %v", err)
		}
		defer fs.Close()
		catalogStore, finalPageStore, progressStore = fs, fs, fs
		healthChecks["firestore"] = fs
		sugar.Info("Successfully connected to Firestore")
	case config.StoreMemory:
		mem := store.NewMemoryStore()
		catalogStore, finalPageStore, progressStore = mem, mem, mem
		sugar.Warn("Using in-memory store; data is lost on restart")
	}

	if cfg.ProgressDriver == config.ProgressPostgres {
		pool, err := store.NewPool(initCtx, cfg.DatabaseURL)
		if err != nil {
			sugar.Fatalf("Failed to connect to Postgres: %v", err)
		}
		defer func() {
			sugar.Info("Closing database connection pool...")
			pool.Close()
		}()

		pg := store.NewPostgresProgressStore(pool)
		if err := pg.EnsureSchema(initCtx); err != nil {
			sugar.Fatalf("Failed to prepare schema: %v", err)
		}
		progressStore = pg
		healthChecks["postgres"] = pg
		sugar.Info("Challenge progress stored in Postgres")
	}

	// -------------------------------------------------------------------------
	// AUTH
	// -------------------------------------------------------------------------
	var verifier middleware.TokenVerifier
	switch cfg.AuthProvider {
	case config.AuthClerk:
		clerk.SetKey(cfg.ClerkSecretKey)
		verifier = middleware.ClerkVerifier{}
		sugar.Info("Clerk initialized successfully")
	case config.AuthFirebase:
		fv, err := middleware.NewFirebaseVerifier(initCtx, app)
		if err != nil {
			sugar.Fatalf("Failed to initialize Firebase Auth: %v", err)
		}
		verifier = fv
	case config.AuthHMAC:
		verifier = middleware.NewHMACVerifier(cfg.AuthJWTSecret)
		sugar.Warn("Using shared-secret tokens; do not use in production")
	}

	// -------------------------------------------------------------------------
	// SERVICES
	// -------------------------------------------------------------------------
	lifecycleService := services.NewLifecycleService(progressStore)
	catalogService := services.NewCatalogService(catalogStore)
	leaderboardService := services.NewLeaderboardService(progressStore)
	finalPageService := services.NewFinalPageService(finalPageStore, catalogService, lifecycleService, leaderboardService)
	shareService := services.NewShareService(catalogService)

	if app != nil && cfg.PushNotifications {
		fcmService, err := notification.NewFCMService(initCtx, app)
		if err != nil {
			sugar.Warnf("Could not initialize FCM: %v", err)
		} else {
			dispatcher := services.NewCompletionDispatcher(fcmService)
			defer dispatcher.Stop()
			lifecycleService.SetCompletionNotifier(dispatcher)
			catalogService.SetTopicSubscriber(fcmService)
			sugar.Info("FCM Push Provider initialized successfully")
		}
	}

	var suggester services.DirectionsSuggester
	if cfg.GeminiAPIKey != "" {
		rec, err := recommend.NewGenAIRecommender(initCtx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			sugar.Warnf("Recommendations disabled: %v", err)
		} else {
			var rankingCache services.RankingCache
			if cfg.RedisAddr != "" {
				rdb, err := cache.NewRedis(initCtx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
				if err != nil {
					sugar.Warnf("Recommendation cache disabled: %v", err)
				} else {
					defer rdb.Close()
					rankingCache = cache.NewRankingCache(rdb)
					healthChecks["redis"] = rdb
				}
			}
			catalogService.SetRecommender(rec, rankingCache)
			suggester = rec
		}
	}
	directionsService := services.NewDirectionsService(suggester)

	middleware.InitPrometheus(prometheus.DefaultRegisterer)
	services.RegisterMetrics(prometheus.DefaultRegisterer)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	if err := limiter.TrustProxies(cfg.TrustedProxies); err != nil {
		sugar.Fatalf("Invalid TRUSTED_PROXIES: %v", err)
	}
	go limiter.CleanupVisitors(ctx)

	r := newRouter(routerDeps{
		verifier:       verifier,
		limiter:        limiter,
		metricsUser:    cfg.MetricsUser,
		metricsPass:    cfg.MetricsPass,
		pprofSecret:    cfg.PprofSecret,
		health:         handlers.NewHealthHandler("geoquest-api", healthChecks),
		challenges:     handlers.NewChallengeHandler(catalogService, shareService, lifecycleService),
		userChallenges: handlers.NewUserChallengeHandler(lifecycleService, catalogService),
		proximity:      handlers.NewProximityHandler(lifecycleService),
		finalPages:     handlers.NewFinalPageHandler(finalPageService),
		leaderboard:    handlers.NewLeaderboardHandler(leaderboardService, finalPageService),
		directions:     handlers.NewDirectionsHandler(directionsService),
	})

	// CORS configuration
	corsHandler := gorilllaHandlers.CORS(
		gorilllaHandlers.AllowedOrigins(cfg.CORSOrigins),
		gorilllaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorilllaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Pprof-Secret"}),
		gorilllaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorilllaHandlers.AllowCredentials(),
	)

	server := http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		sugar.Infof("Starting server on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("Error starting server: %v", err)
		}
	}()

	<-ctx.Done()
	sugar.Info("Shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		sugar.Errorf("Server shutdown error: %v", err)
	}

	sugar.Info("Server shutdown complete")
}
