// Пакет server — HTTP-сервер files manager с graceful shutdown.
// Без TLS — HTTP внутри кластера, TLS termination на API Gateway.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"github.com/bigkaa/gofilesmanager/internal/api/handlers"
	"github.com/bigkaa/gofilesmanager/internal/api/middleware"
	"github.com/bigkaa/gofilesmanager/internal/config"
)

// Server — HTTP-сервер files manager.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт HTTP-сервер с настроенными routes и middleware.
// X-Token middleware применяется только к защищённым маршрутам;
// /connect работает по Basic auth, /files/{id}/data принимает токен
// опционально (публичные файлы доступны анонимно).
func New(cfg *config.Config, logger *slog.Logger, handler *handlers.APIHandler) *Server {
	router := chi.NewRouter()

	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestLogger(logger))

	// Открытые маршруты
	router.Get("/health/live", handler.HealthLive)
	router.Get("/health/ready", handler.HealthReady)
	router.Get("/metrics", handler.GetMetrics)
	router.Get("/connect", handler.GetConnect)
	router.Get("/files/{id}/data", handler.GetFileData)

	// Защищённые маршруты — требуют валидный X-Token
	router.Group(func(r chi.Router) {
		r.Use(middleware.XTokenAuth(handler.Auth(), logger))

		r.Get("/disconnect", handler.GetDisconnect)
		r.Post("/files", handler.PostUpload)
		r.Get("/files", handler.GetIndex)
		r.Get("/files/{id}", handler.GetShow)
		r.Put("/files/{id}/publish", handler.PutPublish)
		r.Put("/files/{id}/unpublish", handler.PutUnpublish)
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	// Канал для ошибок сервера
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
