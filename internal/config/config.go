// Пакет config — загрузка и валидация конфигурации files manager
// из переменных окружения.
//
// Доменные переменные (DB_HOST, DB_PORT, DB_DATABASE, REDIS_HOST, REDIS_PORT,
// FOLDER_PATH, PORT) сохраняют исторические имена — это внешний контракт
// деплоймента. Служебные переменные (логирование, таймауты, воркер)
// используют префикс FM_.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Config содержит все параметры конфигурации files manager.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- Document store (MongoDB) ---

	// Хост MongoDB
	DBHost string
	// Порт MongoDB
	DBPort int
	// Имя базы данных
	DBDatabase string

	// --- Session store (Redis) ---

	// Хост Redis
	RedisHost string
	// Порт Redis
	RedisPort int

	// --- Content root ---

	// Директория хранения blob-ов и их производных
	FolderPath string

	// --- Thumbnail worker ---

	// Количество параллельных слотов воркера
	WorkerConcurrency int
	// Предельное время обработки одного задания
	JobTimeout time.Duration

	// --- Кэш контента ---

	// Максимальное количество записей LRU-кэша контента
	CacheSize int
	// TTL записи кэша
	CacheTTL time.Duration

	// --- HTTP Server Timeouts ---

	// Таймаут чтения HTTP-сервера (по умолчанию 30s)
	HTTPReadTimeout time.Duration
	// Таймаут записи HTTP-сервера (по умолчанию 60s)
	HTTPWriteTimeout time.Duration
	// Таймаут простоя HTTP-сервера (по умолчанию 120s)
	HTTPIdleTimeout time.Duration

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown (по умолчанию 5s)
	ShutdownTimeout time.Duration
}

// MongoURI возвращает строку подключения к MongoDB.
func (c *Config) MongoURI() string {
	return fmt.Sprintf("mongodb://%s:%d", c.DBHost, c.DBPort)
}

// RedisAddr возвращает адрес Redis в формате host:port.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// Load загружает конфигурацию из переменных окружения.
// Все переменные имеют значения по умолчанию для локальной разработки.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// PORT — порт HTTP-сервера (по умолчанию 5000)
	cfg.Port, err = getEnvInt("PORT", 5000)
	if err != nil {
		return nil, fmt.Errorf("PORT: %w", err)
	}

	// FM_LOG_LEVEL — уровень логирования (по умолчанию info)
	logLevel := getEnvDefault("FM_LOG_LEVEL", "info")
	cfg.LogLevel, err = parseLogLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("FM_LOG_LEVEL: %w", err)
	}

	// FM_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("FM_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("FM_LOG_FORMAT: недопустимый формат %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- Document store ---

	// DB_HOST — хост MongoDB (по умолчанию localhost)
	cfg.DBHost = getEnvDefault("DB_HOST", "localhost")

	// DB_PORT — порт MongoDB (по умолчанию 27017)
	cfg.DBPort, err = getEnvInt("DB_PORT", 27017)
	if err != nil {
		return nil, fmt.Errorf("DB_PORT: %w", err)
	}

	// DB_DATABASE — имя базы данных (по умолчанию files_manager)
	cfg.DBDatabase = getEnvDefault("DB_DATABASE", "files_manager")

	// --- Session store ---

	// REDIS_HOST — хост Redis (по умолчанию localhost)
	cfg.RedisHost = getEnvDefault("REDIS_HOST", "localhost")

	// REDIS_PORT — порт Redis (по умолчанию 6379)
	cfg.RedisPort, err = getEnvInt("REDIS_PORT", 6379)
	if err != nil {
		return nil, fmt.Errorf("REDIS_PORT: %w", err)
	}

	// --- Content root ---

	// FOLDER_PATH — директория хранения blob-ов (по умолчанию /tmp/files_manager)
	cfg.FolderPath = getEnvDefault("FOLDER_PATH", "/tmp/files_manager")

	// --- Thumbnail worker ---

	// FM_WORKER_CONCURRENCY — параллелизм воркера (по умолчанию 4)
	cfg.WorkerConcurrency, err = getEnvInt("FM_WORKER_CONCURRENCY", 4)
	if err != nil {
		return nil, fmt.Errorf("FM_WORKER_CONCURRENCY: %w", err)
	}
	if cfg.WorkerConcurrency < 1 {
		return nil, fmt.Errorf("FM_WORKER_CONCURRENCY: значение должно быть >= 1")
	}

	// FM_JOB_TIMEOUT — предельное время обработки задания (по умолчанию 60s)
	cfg.JobTimeout, err = getEnvDuration("FM_JOB_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("FM_JOB_TIMEOUT: %w", err)
	}

	// --- Кэш контента ---

	// FM_CACHE_SIZE — размер LRU-кэша контента (по умолчанию 1024)
	cfg.CacheSize, err = getEnvInt("FM_CACHE_SIZE", 1024)
	if err != nil {
		return nil, fmt.Errorf("FM_CACHE_SIZE: %w", err)
	}

	// FM_CACHE_TTL — TTL записи кэша (по умолчанию 5m)
	cfg.CacheTTL, err = getEnvDuration("FM_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("FM_CACHE_TTL: %w", err)
	}

	// --- HTTP Server Timeouts ---

	// FM_HTTP_READ_TIMEOUT — таймаут чтения (по умолчанию 30s)
	cfg.HTTPReadTimeout, err = getEnvDuration("FM_HTTP_READ_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("FM_HTTP_READ_TIMEOUT: %w", err)
	}

	// FM_HTTP_WRITE_TIMEOUT — таймаут записи (по умолчанию 60s)
	cfg.HTTPWriteTimeout, err = getEnvDuration("FM_HTTP_WRITE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("FM_HTTP_WRITE_TIMEOUT: %w", err)
	}

	// FM_HTTP_IDLE_TIMEOUT — таймаут простоя (по умолчанию 120s)
	cfg.HTTPIdleTimeout, err = getEnvDuration("FM_HTTP_IDLE_TIMEOUT", 120*time.Second)
	if err != nil {
		return nil, fmt.Errorf("FM_HTTP_IDLE_TIMEOUT: %w", err)
	}

	// --- Graceful shutdown ---

	// FM_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("FM_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("FM_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
