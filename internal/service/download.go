// download.go — чтение содержимого файлов (readContent).
//
// Pipeline: видимость через правило Get (владелец или публичный) →
// отказ для папок → содержимое из кэша или с content root → MIME по
// расширению имени записи.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/gofilesmanager/internal/storage/filestore"
)

// defaultMIME — тип по умолчанию для нераспознанных расширений.
const defaultMIME = "application/octet-stream"

// errFolderContent — попытка прочитать содержимое папки.
var errFolderContent = &ValidationError{Msg: "A folder doesn't have content"}

// Prometheus-метрики чтения контента.
var (
	downloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fm_downloads_total",
		Help: "Общее количество запросов содержимого (по результату).",
	}, []string{"status"})

	downloadBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fm_download_bytes_total",
		Help: "Общее количество отданных байт содержимого.",
	})
)

// ContentService — выдача содержимого файлов.
type ContentService struct {
	files  *FileService
	store  *filestore.FileStore
	cache  *CacheService
	logger *slog.Logger
}

// NewContentService создаёт сервис выдачи содержимого.
func NewContentService(files *FileService, store *filestore.FileStore, cache *CacheService, logger *slog.Logger) *ContentService {
	return &ContentService{
		files:  files,
		store:  store,
		cache:  cache,
		logger: logger.With(slog.String("component", "content_service")),
	}
}

// ReadContent возвращает байты файла и MIME-тип.
// requesterID пуст для анонимного запроса — тогда доступны только
// публичные файлы. Папка — ValidationError; отсутствующий на диске blob —
// ErrNotFound.
func (s *ContentService) ReadContent(ctx context.Context, requesterID, fileID string) (*Content, error) {
	entry, err := s.files.Get(ctx, requesterID, fileID)
	if err != nil {
		downloadsTotal.WithLabelValues("not_found").Inc()
		return nil, err
	}

	if !entry.HasContent() {
		downloadsTotal.WithLabelValues("folder").Inc()
		return nil, errFolderContent
	}

	// Видимость проверена — содержимое можно отдавать из кэша
	if content, ok := s.cache.Get(fileID); ok {
		downloadsTotal.WithLabelValues("success").Inc()
		downloadBytesTotal.Add(float64(len(content.Data)))
		return content, nil
	}

	if !s.store.Exists(entry.LocalPath) {
		s.logger.Warn("Blob отсутствует на content root",
			slog.String("file_id", fileID),
			slog.String("local_path", entry.LocalPath),
		)
		downloadsTotal.WithLabelValues("blob_missing").Inc()
		return nil, ErrNotFound
	}

	data, err := s.store.Read(entry.LocalPath)
	if err != nil {
		downloadsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("ошибка чтения содержимого: %w", err)
	}

	content := &Content{
		Data: data,
		MIME: mimeByName(entry.Name),
	}
	s.cache.Set(fileID, content)

	downloadsTotal.WithLabelValues("success").Inc()
	downloadBytesTotal.Add(float64(len(data)))
	return content, nil
}

// mimeByName возвращает MIME-тип по расширению имени файла.
func mimeByName(name string) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	return defaultMIME
}
