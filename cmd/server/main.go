package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"creation-server/internal/cache"
	"creation-server/internal/clients"
	"creation-server/internal/config"
	"creation-server/internal/database"
	"creation-server/internal/handler"
	appLogger "creation-server/internal/logger"
	"creation-server/internal/messaging"
	"creation-server/internal/middleware"
	"creation-server/internal/repository"
	"creation-server/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	log.Println("Запуск Creation Service...")

	// Загружаем конфиг ДО инициализации логгера
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// --- Инициализация логгера ---
	logger, err := appLogger.New(appLogger.Config{
		Level: cfg.LogLevel,
	})
	if err != nil {
		log.Fatalf("Не удалось инициализировать логгер: %v", err)
	}
	defer logger.Sync()
	logger.Info("Logger initialized", zap.String("logLevel", cfg.LogLevel))

	// Подключение к PostgreSQL
	dbPool, err := setupDatabase(cfg)
	if err != nil {
		logger.Fatal("Не удалось подключиться к БД", zap.Error(err))
	}
	defer dbPool.Close()
	logger.Info("Успешное подключение к PostgreSQL")

	// Применяем миграции схемы при старте
	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 60*time.Second)
	if err := database.ApplyMigrations(migrateCtx, dbPool); err != nil {
		cancelMigrate()
		logger.Fatal("Не удалось применить миграции БД", zap.Error(err))
	}
	cancelMigrate()
	logger.Info("Миграции БД применены")

	// Подключение к RabbitMQ
	rabbitConn, err := connectRabbitMQ(cfg.RabbitMQURL, logger)
	if err != nil {
		logger.Fatal("Не удалось подключиться к RabbitMQ", zap.Error(err))
	}
	defer rabbitConn.Close()
	logger.Info("Успешное подключение к RabbitMQ")

	// Подключение к Redis (кэш публичной ленты)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		DB:       cfg.RedisDB,
		Password: cfg.RedisPassword,
	})
	defer redisClient.Close()
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		cancelPing()
		logger.Fatal("Не удалось подключиться к Redis", zap.Error(err))
	}
	cancelPing()
	logger.Info("Успешное подключение к Redis", zap.String("addr", cfg.RedisAddr))

	// Инициализация зависимостей
	// Передаем logger, он будет использован внутри через .Named()
	creationRepo := repository.NewPgCreationRepository(dbPool, logger)
	accountRepo := repository.NewPgAccountRepository(dbPool, logger)

	identityClient := clients.NewHTTPIdentityClient(cfg.IdentityBaseURL, cfg.IdentityAPIKey, cfg.IdentityTimeout, logger)
	mediaClient := clients.NewHTTPMediaClient(cfg.MediaBaseURL, cfg.MediaAPIKey, cfg.MediaTimeout, logger)
	aiClient := service.NewAIClient(cfg)

	eventPublisher, err := messaging.NewRabbitMQCreationEventPublisher(rabbitConn, cfg.CreationEventsQueue)
	if err != nil {
		logger.Fatal("Не удалось создать CreationEventPublisher", zap.Error(err))
	}
	feedCache := cache.NewRedisFeedCache(redisClient, cfg.FeedCacheTTL, logger)

	accountService := service.NewAccountService(accountRepo, identityClient, logger)
	generationService := service.NewGenerationService(
		accountService,
		creationRepo,
		aiClient,
		mediaClient,
		eventPublisher,
		feedCache,
		cfg.FreeUsageLimit,
		cfg.MaxResumeSizeBytes,
		logger,
	)
	creationService := service.NewCreationService(creationRepo, feedCache, eventPublisher, logger)

	h := handler.NewHandler(generationService, creationService, accountService, logger, cfg.JWTSecret, cfg.InterServiceToken)

	// Настройка Gin
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ZapLoggingMiddleware(logger))
	router.Use(cors.New(cors.Config{ // TODO: Настроить CORS под фронтенд
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"X-Request-ID"},
	}))

	// Метрики Prometheus на /metrics
	prom := ginprometheus.NewPrometheus("gin")
	prom.Use(router)

	// Регистрация маршрутов
	h.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Запуск HTTP сервера
	go func() {
		log.Printf("Creation сервер слушает на порту %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Ошибка запуска HTTP сервера", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Получен сигнал завершения, начинаем graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Ошибка при graceful shutdown HTTP сервера", zap.Error(err))
	}

	log.Println("Creation Service успешно остановлен")
}

// setupDatabase инициализирует и возвращает пул соединений с БД
func setupDatabase(cfg *config.Config) (*pgxpool.Pool, error) {
	dsn := cfg.GetDSN()
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга DSN: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.DBMaxConns)
	poolConfig.MaxConnIdleTime = cfg.DBIdleTimeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	dbPool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать пул соединений: %w", err)
	}
	if err = dbPool.Ping(ctx); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("не удалось подключиться к БД (ping failed): %w", err)
	}
	return dbPool, nil
}

// connectRabbitMQ пытается подключиться к RabbitMQ с несколькими попытками
func connectRabbitMQ(url string, logger *zap.Logger) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error
	maxRetries := 5
	retryDelay := 5 * time.Second
	for i := 0; i < maxRetries; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			return conn, nil
		}
		logger.Warn("Не удалось подключиться к RabbitMQ",
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", maxRetries),
			zap.Duration("retry_delay", retryDelay),
			zap.Error(err),
		)
		time.Sleep(retryDelay)
	}
	return nil, err
}
