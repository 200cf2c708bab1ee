// main.go — точка входа воркера thumbnail-ов.
// Отдельный долгоживущий consumer очереди thumbnails; степень параллелизма
// независима от HTTP-сервера.
package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/bigkaa/gofilesmanager/internal/config"
	"github.com/bigkaa/gofilesmanager/internal/repository"
	"github.com/bigkaa/gofilesmanager/internal/storage/filestore"
	"github.com/bigkaa/gofilesmanager/internal/worker"
)

// connectTimeout — таймаут первичного подключения к MongoDB.
const connectTimeout = 10 * time.Second

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// 2. Настройка логгера
	logger := config.SetupLogger(cfg)
	logger.Info("thumbnailer запускается",
		slog.String("version", config.Version),
		slog.Int("concurrency", cfg.WorkerConcurrency),
	)

	// 3. Document store (MongoDB) — воркер заново авторизует каждое задание
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	repo, err := repository.Connect(ctx, cfg.MongoURI(), cfg.DBDatabase, logger)
	cancel()
	if err != nil {
		log.Fatalf("Ошибка подключения к MongoDB: %v", err)
	}
	defer func() {
		if err := repo.Close(context.Background()); err != nil {
			logger.Error("Ошибка закрытия MongoDB", slog.String("error", err.Error()))
		}
	}()

	// 4. Content root
	store, err := filestore.New(cfg.FolderPath)
	if err != nil {
		log.Fatalf("Ошибка инициализации content root: %v", err)
	}

	// 5. Обработчик и asynq-сервер
	handler := worker.NewThumbnailHandler(repo.Files(), store, logger)
	srv := worker.NewServer(cfg.RedisAddr(), cfg.WorkerConcurrency, logger)
	mux := worker.NewMux(handler)

	// 6. Запуск (блокирует до SIGINT/SIGTERM, graceful shutdown внутри)
	if err := srv.Run(mux); err != nil {
		logger.Error("Ошибка воркера", slog.String("error", err.Error()))
		log.Fatalf("Воркер завершился с ошибкой: %v", err)
	}

	logger.Info("thumbnailer остановлен")
}
