// main.go — точка входа HTTP API files manager.
// Клиенты MongoDB и Redis создаются один раз здесь и инжектируются
// в компоненты; глобального состояния нет.
package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/bigkaa/gofilesmanager/internal/api/handlers"
	"github.com/bigkaa/gofilesmanager/internal/config"
	"github.com/bigkaa/gofilesmanager/internal/queue"
	"github.com/bigkaa/gofilesmanager/internal/repository"
	"github.com/bigkaa/gofilesmanager/internal/server"
	"github.com/bigkaa/gofilesmanager/internal/service"
	"github.com/bigkaa/gofilesmanager/internal/session"
	"github.com/bigkaa/gofilesmanager/internal/storage/filestore"
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
	logger.Info("files manager запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
	)

	// 3. Document store (MongoDB)
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

	// Размер каталога на старте — полезно при диагностике после рестарта
	statsCtx, statsCancel := context.WithTimeout(context.Background(), connectTimeout)
	nbFiles, err := repo.Files().Count(statsCtx)
	if err != nil {
		logger.Warn("Не удалось подсчитать записи каталога", slog.String("error", err.Error()))
	}
	nbUsers, err := repo.Users().Count(statsCtx)
	if err != nil {
		logger.Warn("Не удалось подсчитать пользователей", slog.String("error", err.Error()))
	}
	statsCancel()
	logger.Info("Состояние document store",
		slog.Int64("files", nbFiles),
		slog.Int64("users", nbUsers),
	)

	// 4. Session store (Redis)
	sessions := session.NewRedisStore(cfg.RedisAddr(), logger)
	defer sessions.Close()

	// 5. Content root
	store, err := filestore.New(cfg.FolderPath)
	if err != nil {
		log.Fatalf("Ошибка инициализации content root: %v", err)
	}

	// 6. Очередь заданий thumbnail
	enqueuer := queue.NewAsynqEnqueuer(cfg.RedisAddr(), cfg.JobTimeout, logger)
	defer enqueuer.Close()

	// 7. Сервисный слой
	fileSvc := service.NewFileService(repo.Files(), logger)
	authSvc := service.NewAuthService(repo.Users(), sessions, logger)
	uploadSvc := service.NewUploadService(fileSvc, store, enqueuer, logger)
	cache := service.NewCacheService(cfg.CacheSize, cfg.CacheTTL)
	contentSvc := service.NewContentService(fileSvc, store, cache, logger)

	// 8. Обработчики и сервер
	healthHandler := handlers.NewHealthHandler(repo, sessions)
	apiHandler := handlers.NewAPIHandler(authSvc, fileSvc, uploadSvc, contentSvc, healthHandler, logger)

	srv := server.New(cfg, logger, apiHandler)

	// 9. Запуск сервера (блокирующий вызов с graceful shutdown)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		log.Fatalf("Сервер завершился с ошибкой: %v", err)
	}

	logger.Info("files manager остановлен")
}
