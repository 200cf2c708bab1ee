// Пакет queue — контракт producer→consumer для заданий генерации thumbnail-ов.
// Очередь построена на asynq (брокер — Redis): доставка at-least-once,
// retry/backoff — политика брокера, не этого кода. Единственный producer —
// upload pipeline, задание ставится строго после подтверждения вставки
// записи в каталог.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// TypeThumbnail — тип задания генерации thumbnail-ов.
const TypeThumbnail = "thumbnail:generate"

// QueueThumbnails — имя очереди заданий.
const QueueThumbnails = "thumbnails"

// maxRetry — количество повторов доставки на стороне брокера.
const maxRetry = 3

// ThumbnailPayload — полезная нагрузка задания.
// Схема фиксирована контрактом: {userId, fileId}, других полей нет.
type ThumbnailPayload struct {
	UserID string `json:"userId"`
	FileID string `json:"fileId"`
}

// NewThumbnailTask собирает задание asynq из идентификаторов.
func NewThumbnailTask(userID, fileID string) (*asynq.Task, error) {
	payload, err := json.Marshal(ThumbnailPayload{UserID: userID, FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации payload: %w", err)
	}
	return asynq.NewTask(TypeThumbnail, payload), nil
}

// Enqueuer — контракт постановки заданий для upload pipeline.
type Enqueuer interface {
	// EnqueueThumbnail ставит задание генерации thumbnail-ов для файла.
	EnqueueThumbnail(ctx context.Context, userID, fileID string) error
}

// AsynqEnqueuer — реализация Enqueuer на asynq-клиенте.
type AsynqEnqueuer struct {
	client     *asynq.Client
	jobTimeout time.Duration
	logger     *slog.Logger
}

// NewAsynqEnqueuer создаёт клиента очереди.
// jobTimeout — предельное время обработки задания воркером.
func NewAsynqEnqueuer(redisAddr string, jobTimeout time.Duration, logger *slog.Logger) *AsynqEnqueuer {
	client := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})
	return &AsynqEnqueuer{
		client:     client,
		jobTimeout: jobTimeout,
		logger:     logger.With(slog.String("component", "queue")),
	}
}

// EnqueueThumbnail ставит задание в очередь thumbnails.
func (e *AsynqEnqueuer) EnqueueThumbnail(ctx context.Context, userID, fileID string) error {
	task, err := NewThumbnailTask(userID, fileID)
	if err != nil {
		return err
	}

	info, err := e.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueThumbnails),
		asynq.MaxRetry(maxRetry),
		asynq.Timeout(e.jobTimeout),
	)
	if err != nil {
		return fmt.Errorf("ошибка постановки задания: %w", err)
	}

	e.logger.Debug("Задание поставлено в очередь",
		slog.String("task_id", info.ID),
		slog.String("file_id", fileID),
		slog.String("user_id", userID),
	)
	return nil
}

// Close закрывает подключение клиента очереди.
func (e *AsynqEnqueuer) Close() error {
	return e.client.Close()
}
