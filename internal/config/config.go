package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config хранит все настройки приложения.
// Создается один раз при старте и дальше не меняется.
type Config struct {
	App        AppConfig
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Pagination PaginationConfig
	CORS       CORSConfig
	Auth       AuthConfig
	RateLimit  RateLimitConfig `mapstructure:"rate_limit"`
}

// AppConfig содержит общие настройки окружения и логирования
type AppConfig struct {
	Name     string
	Env      string // development | production
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port         string
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host          string
	Port          string
	User          string
	Password      string
	DBName        string
	SSLMode       string
	MigrationsDir string `mapstructure:"migrations_dir"`
}

// RedisConfig содержит настройки подключения к Redis.
// Redis опционален: без адресов кеш категорий и rate limiting отключены.
type RedisConfig struct {
	// Mode: Режим работы Redis ("single", "sentinel", "cluster"). По умолчанию "single".
	Mode string `mapstructure:"mode"`

	// Addrs: Список адресов Redis (хост:порт).
	Addrs []string `mapstructure:"addrs"`

	// Addr: Альтернативный адрес для режима 'single'.
	Addr string `mapstructure:"addr"`

	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// MasterName: Имя мастер-сервера Redis (только для режима "sentinel")
	MasterName string `mapstructure:"master_name"`

	MaxRetries      int `mapstructure:"max_retries"`
	MinRetryBackoff int `mapstructure:"min_retry_backoff"` // мс
	MaxRetryBackoff int `mapstructure:"max_retry_backoff"` // мс

	// CategoryTTLSec: время жизни закешированного списка категорий
	CategoryTTLSec int `mapstructure:"category_ttl_sec"`
}

// Enabled сообщает, задан ли хотя бы один адрес Redis
func (r RedisConfig) Enabled() bool {
	return len(r.Addrs) > 0 || r.Addr != ""
}

// CategoryTTL возвращает TTL кеша категорий
func (r RedisConfig) CategoryTTL() time.Duration {
	return time.Duration(r.CategoryTTLSec) * time.Second
}

// PaginationConfig содержит настройки постраничной выдачи вопросов
type PaginationConfig struct {
	QuestionsPerPage    int  `mapstructure:"questions_per_page"`
	MaxQuestionsPerPage int  `mapstructure:"max_questions_per_page"`
	ErrorOut            bool `mapstructure:"error_out"` // 404 на страницу за пределами диапазона
}

// PageSize возвращает размер страницы, ограниченный максимумом
func (p PaginationConfig) PageSize() int {
	if p.MaxQuestionsPerPage > 0 && p.QuestionsPerPage > p.MaxQuestionsPerPage {
		return p.MaxQuestionsPerPage
	}
	return p.QuestionsPerPage
}

// CORSConfig содержит список разрешенных источников
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// AuthConfig содержит настройки защиты изменяющих маршрутов.
// Пустой JWTSecret - маршруты открыты.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// RateLimitConfig содержит настройки ограничения частоты запросов на запись
type RateLimitConfig struct {
	MaxRequests int `mapstructure:"max_requests"`
	WindowSec   int `mapstructure:"window_sec"`
}

// PostgresConnectionString формирует строку подключения к PostgreSQL
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// PostgresURL формирует URL подключения (используется утилитой миграций)
func (d *DatabaseConfig) PostgresURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

func setDefaults(vip *viper.Viper) {
	vip.SetDefault("app.name", "trivia-bank")
	vip.SetDefault("app.env", "development")
	vip.SetDefault("app.log_level", "info")

	vip.SetDefault("server.port", "8080")
	vip.SetDefault("server.read_timeout", 10)
	vip.SetDefault("server.write_timeout", 10)

	vip.SetDefault("database.port", "5432")
	vip.SetDefault("database.sslmode", "disable")
	vip.SetDefault("database.migrations_dir", "migrations")

	vip.SetDefault("redis.mode", "single")
	vip.SetDefault("redis.category_ttl_sec", 600)

	vip.SetDefault("pagination.questions_per_page", 10)
	vip.SetDefault("pagination.max_questions_per_page", 10)
	vip.SetDefault("pagination.error_out", true)

	vip.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})

	vip.SetDefault("rate_limit.max_requests", 60)
	vip.SetDefault("rate_limit.window_sec", 60)
}

func bindEnv(vip *viper.Viper) {
	vip.BindEnv("app.env", "APP_ENV")
	vip.BindEnv("app.log_level", "LOG_LEVEL")

	// Привязка для секции Database
	vip.BindEnv("database.host", "DATABASE_HOST")
	vip.BindEnv("database.port", "DATABASE_PORT")
	vip.BindEnv("database.user", "DATABASE_USER")
	vip.BindEnv("database.password", "DATABASE_PASSWORD")
	vip.BindEnv("database.dbname", "DATABASE_DBNAME")
	vip.BindEnv("database.sslmode", "DATABASE_SSLMODE")
	vip.BindEnv("database.migrations_dir", "DATABASE_MIGRATIONS_DIR")

	// Привязка для секции Redis
	vip.BindEnv("redis.mode", "REDIS_MODE")
	vip.BindEnv("redis.addrs", "REDIS_ADDRS")
	vip.BindEnv("redis.addr", "REDIS_ADDR")
	vip.BindEnv("redis.password", "REDIS_PASSWORD")
	vip.BindEnv("redis.db", "REDIS_DB")
	vip.BindEnv("redis.master_name", "REDIS_MASTER_NAME")

	vip.BindEnv("server.port", "SERVER_PORT")

	// Имена переменных пагинации и CORS совпадают с прежним окружением сервиса
	vip.BindEnv("pagination.questions_per_page", "QUESTIONS_PER_PAGE")
	vip.BindEnv("pagination.max_questions_per_page", "MAX_QUESTIONS_PER_PAGE")
	vip.BindEnv("pagination.error_out", "ERROR_OUT")
	vip.BindEnv("cors.allowed_origins", "ALLOWED_LIST")

	vip.BindEnv("auth.jwt_secret", "AUTH_JWT_SECRET")
	vip.BindEnv("rate_limit.max_requests", "RATE_LIMIT_MAX_REQUESTS")
}

// Load загружает конфигурацию: .env -> файл -> переменные окружения
func Load(configPath string) (*Config, error) {
	// .env не обязателен
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Предупреждение: не удалось прочитать .env: %v", err)
	}

	vip := viper.New() // Новый экземпляр Viper, без глобального состояния
	setDefaults(vip)
	bindEnv(vip)

	if configPath != "" {
		vip.SetConfigFile(configPath)
		if err := vip.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
				log.Printf("Файл конфигурации '%s' не найден, используются переменные окружения/умолчания.", configPath)
			} else {
				return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
			}
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.Database.Host == "" || c.Database.DBName == "" || c.Database.User == "" {
		return fmt.Errorf("database configuration (host, dbname, user) is incomplete in config (check DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)")
	}
	if c.Pagination.QuestionsPerPage <= 0 {
		return fmt.Errorf("pagination.questions_per_page must be positive, got %d", c.Pagination.QuestionsPerPage)
	}
	if c.Pagination.MaxQuestionsPerPage <= 0 {
		return fmt.Errorf("pagination.max_questions_per_page must be positive, got %d", c.Pagination.MaxQuestionsPerPage)
	}
	return nil
}
