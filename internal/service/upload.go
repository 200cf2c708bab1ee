// upload.go — pipeline загрузки файлов.
//
// Порядок шагов фиксирован: валидация → запись blob-а → вставка записи
// каталога → [image] постановка задания thumbnail. Blob пишется до вставки,
// чтобы запись каталога никогда не ссылалась на отсутствующие байты; задание
// ставится после подтверждения вставки, чтобы воркер всегда мог разрешить
// файл по (userId, fileId).
package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/gofilesmanager/internal/domain/model"
	"github.com/bigkaa/gofilesmanager/internal/queue"
	"github.com/bigkaa/gofilesmanager/internal/storage/filestore"
)

// Prometheus-метрики загрузки.
var (
	uploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fm_uploads_total",
		Help: "Общее количество загрузок (по типу и результату).",
	}, []string{"type", "status"})

	uploadBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fm_upload_bytes_total",
		Help: "Общее количество принятых байт blob-ов.",
	})
)

// UploadService — приём загрузок: папок, файлов и изображений.
type UploadService struct {
	files    *FileService
	store    *filestore.FileStore
	enqueuer queue.Enqueuer
	logger   *slog.Logger
}

// NewUploadService создаёт pipeline загрузки.
func NewUploadService(files *FileService, store *filestore.FileStore, enqueuer queue.Enqueuer, logger *slog.Logger) *UploadService {
	return &UploadService{
		files:    files,
		store:    store,
		enqueuer: enqueuer,
		logger:   logger.With(slog.String("component", "upload_service")),
	}
}

// Upload обрабатывает запрос загрузки от аутентифицированного владельца.
// Data — base64 всего payload-а целиком (chunked upload вне поддержки).
func (s *UploadService) Upload(ctx context.Context, ownerID string, req CreateRequest) (*model.FileEntry, error) {
	if err := s.files.ValidateCreate(ctx, req); err != nil {
		uploadsTotal.WithLabelValues(labelType(req.Type), "validation_error").Inc()
		return nil, err
	}

	// Папка не владеет blob-ом — сразу вставка записи
	if req.Type == model.TypeFolder {
		entry, err := s.files.Create(ctx, ownerID, req, "")
		if err != nil {
			uploadsTotal.WithLabelValues(model.TypeFolder, "error").Inc()
			return nil, err
		}
		uploadsTotal.WithLabelValues(model.TypeFolder, "success").Inc()
		return entry, nil
	}

	data, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		uploadsTotal.WithLabelValues(req.Type, "validation_error").Inc()
		return nil, errMissingData
	}

	// Blob на диск до вставки записи каталога
	localPath, err := s.store.SaveBlob(data)
	if err != nil {
		uploadsTotal.WithLabelValues(req.Type, "error").Inc()
		return nil, fmt.Errorf("ошибка записи blob-а: %w", err)
	}
	uploadBytesTotal.Add(float64(len(data)))

	entry, err := s.files.Create(ctx, ownerID, req, localPath)
	if err != nil {
		uploadsTotal.WithLabelValues(req.Type, "error").Inc()
		return nil, err
	}

	// Задание thumbnail только после подтверждённой вставки
	if req.Type == model.TypeImage {
		if err := s.enqueuer.EnqueueThumbnail(ctx, ownerID, entry.ID.Hex()); err != nil {
			uploadsTotal.WithLabelValues(req.Type, "enqueue_error").Inc()
			return nil, fmt.Errorf("ошибка постановки задания thumbnail: %w", err)
		}
	}

	uploadsTotal.WithLabelValues(req.Type, "success").Inc()
	s.logger.Info("Загрузка завершена",
		slog.String("file_id", entry.ID.Hex()),
		slog.String("type", entry.Type),
		slog.Int("size", len(data)),
	)
	return entry, nil
}

// labelType возвращает тип для лейбла метрики, not_allowed для неизвестных.
func labelType(t string) string {
	if model.AllowedType(t) {
		return t
	}
	return "invalid"
}
