package config

import (
	"log/slog"
	"testing"
	"time"
)

// TestLoad_Defaults проверяет значения по умолчанию для локальной разработки.
func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() вернул ошибку: %v", err)
	}

	if cfg.Port != 5000 {
		t.Errorf("Port = %d, ожидался 5000", cfg.Port)
	}
	if cfg.DBHost != "localhost" {
		t.Errorf("DBHost = %q, ожидался localhost", cfg.DBHost)
	}
	if cfg.DBPort != 27017 {
		t.Errorf("DBPort = %d, ожидался 27017", cfg.DBPort)
	}
	if cfg.DBDatabase != "files_manager" {
		t.Errorf("DBDatabase = %q, ожидался files_manager", cfg.DBDatabase)
	}
	if cfg.FolderPath != "/tmp/files_manager" {
		t.Errorf("FolderPath = %q, ожидался /tmp/files_manager", cfg.FolderPath)
	}
	if cfg.WorkerConcurrency != 4 {
		t.Errorf("WorkerConcurrency = %d, ожидался 4", cfg.WorkerConcurrency)
	}
	if cfg.JobTimeout != 60*time.Second {
		t.Errorf("JobTimeout = %v, ожидался 60s", cfg.JobTimeout)
	}
	if cfg.MongoURI() != "mongodb://localhost:27017" {
		t.Errorf("MongoURI() = %q", cfg.MongoURI())
	}
	if cfg.RedisAddr() != "localhost:6379" {
		t.Errorf("RedisAddr() = %q", cfg.RedisAddr())
	}
}

// TestLoad_Overrides проверяет чтение переменных окружения.
func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DB_HOST", "mongo.internal")
	t.Setenv("DB_PORT", "27018")
	t.Setenv("REDIS_HOST", "redis.internal")
	t.Setenv("FOLDER_PATH", "/var/lib/fm")
	t.Setenv("FM_LOG_LEVEL", "debug")
	t.Setenv("FM_LOG_FORMAT", "text")
	t.Setenv("FM_WORKER_CONCURRENCY", "8")
	t.Setenv("FM_JOB_TIMEOUT", "90s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() вернул ошибку: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, ожидался 8080", cfg.Port)
	}
	if cfg.MongoURI() != "mongodb://mongo.internal:27018" {
		t.Errorf("MongoURI() = %q", cfg.MongoURI())
	}
	if cfg.RedisAddr() != "redis.internal:6379" {
		t.Errorf("RedisAddr() = %q", cfg.RedisAddr())
	}
	if cfg.FolderPath != "/var/lib/fm" {
		t.Errorf("FolderPath = %q", cfg.FolderPath)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, ожидался debug", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat = %q, ожидался text", cfg.LogFormat)
	}
	if cfg.WorkerConcurrency != 8 {
		t.Errorf("WorkerConcurrency = %d, ожидался 8", cfg.WorkerConcurrency)
	}
	if cfg.JobTimeout != 90*time.Second {
		t.Errorf("JobTimeout = %v, ожидался 90s", cfg.JobTimeout)
	}
}

// TestLoad_InvalidValues проверяет ошибки валидации.
func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"некорректный порт", "PORT", "not-a-number"},
		{"некорректный уровень логов", "FM_LOG_LEVEL", "verbose"},
		{"некорректный формат логов", "FM_LOG_FORMAT", "xml"},
		{"некорректная длительность", "FM_JOB_TIMEOUT", "fast"},
		{"нулевой параллелизм", "FM_WORKER_CONCURRENCY", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load() не вернул ошибку для %s=%q", tt.key, tt.value)
			}
		})
	}
}
