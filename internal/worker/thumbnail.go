// Пакет worker — consumer заданий генерации thumbnail-ов.
//
// Каждое задание заново авторизуется по (userId, fileId): между загрузкой и
// обработкой может пройти много времени, исходная проверка не переносится.
// Для каждого исходного изображения создаются три производные шириной
// 500/250/100 по путям <localPath>_<size>. Размеры независимы; отказ на любом
// из них проваливает задание целиком, уже записанные производные остаются —
// повторный запуск задания перегенерирует их идемпотентно.
package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/disintegration/imaging"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/gofilesmanager/internal/queue"
	"github.com/bigkaa/gofilesmanager/internal/repository"
	"github.com/bigkaa/gofilesmanager/internal/storage/filestore"
)

// thumbnailSizes — целевые ширины производных в пикселях.
var thumbnailSizes = []int{500, 250, 100}

// Prometheus-метрики воркера.
var (
	thumbnailJobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fm_thumbnail_jobs_total",
		Help: "Общее количество обработанных заданий thumbnail (по результату).",
	}, []string{"status"})

	thumbnailDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fm_thumbnail_duration_seconds",
		Help:    "Длительность обработки одного задания thumbnail.",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
	})
)

// ThumbnailHandler — обработчик заданий очереди thumbnails.
type ThumbnailHandler struct {
	files  repository.FileRepository
	store  *filestore.FileStore
	logger *slog.Logger
}

// NewThumbnailHandler создаёт обработчик заданий.
func NewThumbnailHandler(files repository.FileRepository, store *filestore.FileStore, logger *slog.Logger) *ThumbnailHandler {
	return &ThumbnailHandler{
		files:  files,
		store:  store,
		logger: logger.With(slog.String("component", "thumbnail_worker")),
	}
}

// ProcessTask обрабатывает одно задание генерации thumbnail-ов.
// Ошибки payload-а и авторизации терминальны (asynq.SkipRetry) — повтор
// не изменит результат. Ошибки ввода-вывода отдаются брокеру для retry.
func (h *ThumbnailHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	start := time.Now()

	var p queue.ThumbnailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		thumbnailJobsTotal.WithLabelValues("bad_payload").Inc()
		return fmt.Errorf("некорректный payload: %v: %w", err, asynq.SkipRetry)
	}
	if p.FileID == "" {
		thumbnailJobsTotal.WithLabelValues("bad_payload").Inc()
		return fmt.Errorf("Missing fileId: %w", asynq.SkipRetry)
	}
	if p.UserID == "" {
		thumbnailJobsTotal.WithLabelValues("bad_payload").Inc()
		return fmt.Errorf("Missing userId: %w", asynq.SkipRetry)
	}

	// Повторная авторизация: файл должен существовать и принадлежать
	// пользователю из задания
	entry, err := h.files.GetByIDAndOwner(ctx, p.FileID, p.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			thumbnailJobsTotal.WithLabelValues("not_found").Inc()
			return fmt.Errorf("File not found: %w", asynq.SkipRetry)
		}
		thumbnailJobsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("ошибка разрешения файла: %w", err)
	}

	src, err := h.store.Read(entry.LocalPath)
	if err != nil {
		thumbnailJobsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("ошибка чтения исходного blob-а: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(src))
	if err != nil {
		// Битое изображение останется битым — повтор бессмыслен
		thumbnailJobsTotal.WithLabelValues("decode_error").Inc()
		return fmt.Errorf("ошибка декодирования изображения: %v: %w", err, asynq.SkipRetry)
	}

	format, err := imaging.FormatFromFilename(entry.Name)
	if err != nil {
		format = imaging.PNG
	}

	for _, size := range thumbnailSizes {
		if err := h.writeThumbnail(img, format, entry.LocalPath, size); err != nil {
			thumbnailJobsTotal.WithLabelValues("error").Inc()
			return err
		}
	}

	duration := time.Since(start)
	thumbnailJobsTotal.WithLabelValues("success").Inc()
	thumbnailDuration.Observe(duration.Seconds())

	h.logger.Info("Производные сгенерированы",
		slog.String("file_id", p.FileID),
		slog.String("local_path", entry.LocalPath),
		slog.Duration("duration", duration),
	)
	return nil
}

// writeThumbnail генерирует одну производную заданной ширины и пишет её
// по пути <srcPath>_<size>. Высота вычисляется с сохранением пропорций.
func (h *ThumbnailHandler) writeThumbnail(img image.Image, format imaging.Format, srcPath string, size int) error {
	thumb := imaging.Resize(img, size, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, format); err != nil {
		return fmt.Errorf("ошибка кодирования производной %d: %w", size, err)
	}

	if _, err := h.store.WriteDerivative(srcPath, size, buf.Bytes()); err != nil {
		return fmt.Errorf("ошибка записи производной %d: %w", size, err)
	}
	return nil
}
