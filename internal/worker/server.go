// server.go — asynq-сервер воркера thumbnail-ов.
// Степень параллелизма независима от параллелизма HTTP-запросов и задаётся
// отдельно (FM_WORKER_CONCURRENCY).
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/bigkaa/gofilesmanager/internal/queue"
)

// NewServer собирает asynq-сервер, слушающий очередь thumbnails.
// Run() блокирует до SIGINT/SIGTERM и выполняет graceful shutdown сам.
func NewServer(redisAddr string, concurrency int, logger *slog.Logger) *asynq.Server {
	return asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				queue.QueueThumbnails: 1,
			},
			Logger: &slogAdapter{logger: logger.With(slog.String("component", "asynq"))},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Error("Задание завершилось с ошибкой",
					slog.String("type", task.Type()),
					slog.String("error", err.Error()),
				)
			}),
		},
	)
}

// NewMux регистрирует обработчики заданий.
func NewMux(handler *ThumbnailHandler) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TypeThumbnail, handler.ProcessTask)
	return mux
}

// slogAdapter — адаптер slog под asynq.Logger.
type slogAdapter struct {
	logger *slog.Logger
}

func (a *slogAdapter) Debug(args ...interface{}) { a.logger.Debug(sprint(args...)) }
func (a *slogAdapter) Info(args ...interface{})  { a.logger.Info(sprint(args...)) }
func (a *slogAdapter) Warn(args ...interface{})  { a.logger.Warn(sprint(args...)) }
func (a *slogAdapter) Error(args ...interface{}) { a.logger.Error(sprint(args...)) }
func (a *slogAdapter) Fatal(args ...interface{}) { a.logger.Error(sprint(args...)) }

func sprint(args ...interface{}) string {
	return fmt.Sprint(args...)
}
