package config

import (
	"fmt"
	"log"
	"time"

	"creation-server/internal/utils"

	"github.com/kelseyhightower/envconfig"
)

// Config содержит конфигурацию для Creation Service
type Config struct {
	// Настройки сервера
	Port     string `envconfig:"SERVER_PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Настройки PostgreSQL
	DBHost        string        `envconfig:"DB_HOST" required:"true"`
	DBPort        string        `envconfig:"DB_PORT" default:"5432"`
	DBUser        string        `envconfig:"DB_USER" required:"true"`
	DBName        string        `envconfig:"DB_NAME" required:"true"`
	DBSSLMode     string        `envconfig:"DB_SSL_MODE" default:"disable"`
	DBMaxConns    int           `envconfig:"DB_MAX_CONNECTIONS" default:"10"`
	DBIdleTimeout time.Duration `envconfig:"DB_MAX_IDLE_MINUTES" default:"5m"`
	// Секретное поле БЕЗ envconfig тега
	DBPassword string

	// Настройки RabbitMQ
	RabbitMQURL         string `envconfig:"RABBITMQ_URL" required:"true"`
	CreationEventsQueue string `envconfig:"CREATION_EVENTS_QUEUE" default:"creation_events"`

	// Настройки Redis (кэш публичной ленты)
	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD" default:""`
	FeedCacheTTL  time.Duration `envconfig:"FEED_CACHE_TTL" default:"30s"`

	// Настройки AI API (OpenAI-совместимый эндпоинт)
	AIBaseURL string        `envconfig:"AI_BASE_URL" default:"https://generativelanguage.googleapis.com/v1beta/openai/"`
	AIModel   string        `envconfig:"AI_MODEL" default:"gemini-2.0-flash"`
	AITimeout time.Duration `envconfig:"AI_TIMEOUT" default:"60s"`

	// Настройки media pipeline (text-to-image, загрузка, трансформации)
	MediaBaseURL string        `envconfig:"MEDIA_API_BASE_URL" required:"true"`
	MediaTimeout time.Duration `envconfig:"MEDIA_API_TIMEOUT" default:"60s"`

	// Настройки identity provider
	IdentityBaseURL string        `envconfig:"IDENTITY_API_BASE_URL" required:"true"`
	IdentityTimeout time.Duration `envconfig:"IDENTITY_API_TIMEOUT" default:"5s"`

	// Лимиты
	FreeUsageLimit     int   `envconfig:"FREE_USAGE_LIMIT" default:"10"`
	MaxResumeSizeBytes int64 `envconfig:"MAX_RESUME_SIZE_BYTES" default:"5242880"` // 5MB

	// Секретные поля БЕЗ envconfig тегов
	JWTSecret         string
	AIAPIKey          string
	MediaAPIKey       string
	IdentityAPIKey    string
	InterServiceToken string
}

// GetDSN возвращает строку подключения (DSN) для PostgreSQL
func (c *Config) GetDSN() string {
	// Пароль теперь в c.DBPassword
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// LoadConfig загружает конфигурацию из переменных окружения и секретов
func LoadConfig() (*Config, error) {
	var cfg Config
	// Загружаем НЕсекретные переменные
	err := envconfig.Process("", &cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации creation-server: %w", err)
	}

	// Загружаем ОБЯЗАТЕЛЬНЫЕ секреты
	var loadErr error
	cfg.DBPassword, loadErr = utils.ReadSecret("db_password")
	if loadErr != nil {
		return nil, loadErr
	}

	cfg.JWTSecret, loadErr = utils.ReadSecret("jwt_secret")
	if loadErr != nil {
		return nil, loadErr
	}

	cfg.AIAPIKey, loadErr = utils.ReadSecret("ai_api_key")
	if loadErr != nil {
		return nil, loadErr
	}

	cfg.MediaAPIKey, loadErr = utils.ReadSecret("media_api_key")
	if loadErr != nil {
		return nil, loadErr
	}

	cfg.IdentityAPIKey, loadErr = utils.ReadSecret("identity_api_key")
	if loadErr != nil {
		return nil, loadErr
	}

	cfg.InterServiceToken, loadErr = utils.ReadSecret("inter_service_token")
	if loadErr != nil {
		return nil, loadErr
	}

	log.Printf("Конфигурация Creation Service загружена (секреты из файлов):")
	log.Printf("  Port: %s", cfg.Port)
	log.Printf("  LogLevel: %s", cfg.LogLevel)
	log.Printf("  DB DSN: postgres://%s:***@%s:%s/%s?sslmode=%s", cfg.DBUser, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBSSLMode)
	log.Printf("  DB Max Conns: %d", cfg.DBMaxConns)
	log.Printf("  RabbitMQ URL: %s", cfg.RabbitMQURL)
	log.Printf("  Creation Events Queue: %s", cfg.CreationEventsQueue)
	log.Printf("  Redis Addr: %s", cfg.RedisAddr)
	log.Printf("  Feed Cache TTL: %v", cfg.FeedCacheTTL)
	log.Printf("  AI Base URL: %s", cfg.AIBaseURL)
	log.Printf("  AI Model: %s", cfg.AIModel)
	log.Printf("  Media Base URL: %s", cfg.MediaBaseURL)
	log.Printf("  Identity Base URL: %s", cfg.IdentityBaseURL)
	log.Printf("  Free Usage Limit: %d", cfg.FreeUsageLimit)
	log.Println("  Secrets: [ЗАГРУЖЕНЫ]")

	return &cfg, nil
}
