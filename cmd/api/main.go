package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/yourusername/trivia-bank/internal/config"
	"github.com/yourusername/trivia-bank/internal/domain/repository"
	"github.com/yourusername/trivia-bank/internal/handler"
	"github.com/yourusername/trivia-bank/internal/middleware"
	"github.com/yourusername/trivia-bank/internal/pkg/logger"
	pgRepo "github.com/yourusername/trivia-bank/internal/repository/postgres"
	redisRepo "github.com/yourusername/trivia-bank/internal/repository/redis"
	"github.com/yourusername/trivia-bank/internal/service"
	"github.com/yourusername/trivia-bank/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		bootLog := logger.New("trivia-bank", "development", "info")
		bootLog.Fatal().Err(err).Str("path", configPath).Msg("Failed to load config")
	}

	log := logger.New(cfg.App.Name, cfg.App.Env, cfg.App.LogLevel)
	isProduction := cfg.App.Env == "production"
	if isProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString(), cfg.App.LogLevel == "debug")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get sql.DB")
	}
	defer sqlDB.Close()

	// Применяем миграции
	if err := database.MigrateDB(db, cfg.Database.MigrationsDir, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	checks := map[string]handler.CheckFunc{"postgres": sqlDB.PingContext}

	// Redis опционален: без него кеш категорий и rate limiting отключены
	var (
		cacheRepo   repository.CacheRepository = redisRepo.NoopCache{}
		rateLimiter *middleware.RateLimiter
		redisClient redis.UniversalClient
	)
	if cfg.Redis.Enabled() {
		redisClient, err = database.NewUniversalRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisClient.Close()
		log.Info().Str("mode", cfg.Redis.Mode).Msg("Successfully connected to Redis")

		redisCache, err := redisRepo.NewCacheRepo(redisClient)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize CacheRepo")
		}
		cacheRepo = redisCache
		rateLimiter = middleware.NewRateLimiter(middleware.NewRedisCounter(redisClient), log)
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	} else {
		log.Warn().Msg("Redis не настроен: кеш категорий и rate limiting отключены")
	}

	// Инициализируем репозитории
	questionRepo := pgRepo.NewQuestionRepo(db)
	categoryRepo := pgRepo.NewCategoryRepo(db)

	// Инициализируем сервисы
	categoryService := service.NewCategoryService(categoryRepo, cacheRepo, cfg.Redis.CategoryTTL(), log)
	questionService := service.NewQuestionService(questionRepo, categoryService, cfg.Pagination, log)
	quizService := service.NewQuizService(questionRepo, nil, log)

	adminGuard := middleware.NewAdminGuard(cfg.Auth.JWTSecret)
	if !adminGuard.Enabled() {
		log.Warn().Msg("AUTH_JWT_SECRET не задан: изменяющие маршруты открыты")
	}

	// Метрики
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(registry)

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	var trustedProxies []string
	if !isProduction {
		trustedProxies = []string{"127.0.0.1", "::1"}
	}

	router := handler.NewRouter(handler.RouterDeps{
		Questions:   handler.NewQuestionHandler(questionService, adminGuard, log),
		Categories:  handler.NewCategoryHandler(categoryService, questionService, log),
		Quiz:        handler.NewQuizHandler(quizService, log),
		Health:      handler.NewHealthHandler(checks, log),
		AdminGuard:  adminGuard,
		RateLimiter: rateLimiter,
		RateLimit: middleware.RateLimitConfig{
			MaxRequests: cfg.RateLimit.MaxRequests,
			Window:      time.Duration(cfg.RateLimit.WindowSec) * time.Second,
			KeyPrefix:   "rl:write",
		},
		Metrics:        metrics,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		TrustedProxies: trustedProxies,
		Log:            log,
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	waitForShutdown(log, srv, cancel)
}

// waitForShutdown блокируется до SIGINT/SIGTERM и корректно останавливает сервер
func waitForShutdown(log zerolog.Logger, srv *http.Server, cancel context.CancelFunc) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	cancel()

	// Создаем контекст с таймаутом для graceful shutdown сервера
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return
	}

	log.Info().Msg("Server exited properly")
}
