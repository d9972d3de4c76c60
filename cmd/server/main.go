package main

import (
	"context"
	"dyslexiatutor/internal/cache"
	"dyslexiatutor/internal/config"
	"dyslexiatutor/internal/observe"
	"dyslexiatutor/internal/repository"
	"dyslexiatutor/internal/service"
	"dyslexiatutor/internal/transport/rest"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// lockWait bounds how long an overlapping request waits for a session.
const lockWait = 5 * time.Second

func main() {
	slog.SetDefault(newLogger())
	ctx := context.Background()

	cfg := config.Load()

	// Load AI config and log model settings
	aiConfig := config.DefaultAIConfig()
	slog.Info("AI config",
		"provider", aiConfig.Provider,
		"tutorModel", aiConfig.TutorModel(),
		"timeoutMs", aiConfig.TimeoutMS,
		"advanceTag", aiConfig.AdvanceTag != "",
	)

	// Metrics
	metrics, metricsHandler, meterProvider, err := observe.InitProvider()
	if err != nil {
		fatal("Failed to initialise metrics", err)
	}
	defer meterProvider.Shutdown(context.Background())

	// Session store
	var rdb *redis.Client
	var sessions cache.SessionCache
	var locker cache.SessionLocker
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
		})
		defer rdb.Close()

		if _, err := rdb.Ping(ctx).Result(); err != nil {
			fatal("Failed to ping Redis", err)
		}
		slog.Info("Connected to Redis", "addr", cfg.RedisAddr)
		sessions = cache.NewSessionCache(rdb, cfg.SessionTTL)
		locker = cache.NewRedisSessionLocker(rdb, cfg.SessionLockTTL, lockWait)
	} else {
		slog.Warn("REDIS_ADDR not set, keeping sessions in memory")
		sessions = cache.NewMemorySessionCache(cfg.SessionTTL)
		locker = cache.NewMemorySessionLocker(lockWait)
	}

	// Question bank
	var questionRepo repository.QuestionRepo
	if cfg.MongoURI != "" {
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			fatal("Failed to connect to MongoDB", err)
		}
		defer mongoClient.Disconnect(ctx)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := mongoClient.Ping(pingCtx, nil); err != nil {
			fatal("Failed to ping MongoDB", err)
		}
		slog.Info("Connected to MongoDB", "db", cfg.MongoDB)
		questionRepo = repository.NewMongoQuestionRepo(mongoClient.Database(cfg.MongoDB))
		if rdb != nil {
			questionRepo = repository.NewCachedQuestionRepo(questionRepo, cache.NewPoolCache(rdb, cfg.PoolCacheTTL))
		}
	} else {
		slog.Warn("MONGO_URI not set, reading question banks from files", "dir", cfg.QuestionDir)
		questionRepo = repository.NewFileQuestionRepo(cfg.QuestionDir)
	}

	// External collaborators
	tutor, err := service.NewTutorClient(ctx, aiConfig)
	if err != nil {
		fatal("Failed to create tutor client", err)
	}
	if !aiConfig.IsEnabled() {
		slog.Warn("No tutor model configured, using offline tutor")
	}

	var narrator service.NarrationClient
	switch cfg.Narration.Provider {
	case "silent":
		narrator = service.SilentNarrator{URLPrefix: cfg.AudioURLPrefix}
	default:
		narrator = service.NewGTTSNarrator(cfg.AudioDir, cfg.AudioURLPrefix, cfg.Narration.Lang, cfg.Narration.TLD)
	}

	// Initialize services
	authSvc := service.NewAuthService(cfg.JWTSecret, cfg.SessionTTL)
	bank := service.NewQuestionBank(questionRepo, nil)
	tutorSvc := service.NewTutorService(bank, sessions, locker, tutor, narrator, aiConfig, service.TutorOptions{
		HistoryLimit:     cfg.HistoryLimit,
		TutorTimeout:     aiConfig.Timeout(),
		NarrationTimeout: cfg.Narration.Timeout,
		Metrics:          metrics,
	})

	// Create router with container
	container := &rest.Container{
		AuthService:    authSvc,
		TutorService:   tutorSvc,
		AudioDir:       cfg.AudioDir,
		AudioURLPrefix: cfg.AudioURLPrefix,
		CookieSecure:   cfg.CookieSecure,
		Metrics:        metrics,
		MetricsHandler: metricsHandler,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.HTTPPort)
		slog.Info("Endpoints",
			"session", "GET /v1/session, GET|POST /v1/session/landing, POST /v1/session/{mode,turn,finish}",
			"narrate", "POST /v1/narrate",
			"audio", "GET "+cfg.AudioURLPrefix+"/{file}",
			"metrics", "GET /metrics",
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("ListenAndServe", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		fatal("Server forced to shutdown", err)
	}

	slog.Info("Server exited")
}

// newLogger writes text logs to a terminal and JSON otherwise.
func newLogger() *slog.Logger {
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return slog.New(slog.NewTextHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
