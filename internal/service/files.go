// Пакет service — бизнес-логика files manager.
// FileService — операции каталога файлов: валидация, иерархия, видимость.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bigkaa/gofilesmanager/internal/domain/model"
	"github.com/bigkaa/gofilesmanager/internal/repository"
)

// Ошибки сервисного слоя.
var (
	// ErrNotFound — ресурс отсутствует либо недоступен запрашивающему.
	// Намеренно неразличимо: существование приватных файлов не раскрывается.
	ErrNotFound = errors.New("файл не найден")
)

// ValidationError — ошибка валидации с сообщением для клиента.
// Msg — машиночитаемое сообщение wire-контракта (400-ответ).
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Сообщения валидации — фиксированный wire-контракт.
var (
	errMissingName     = &ValidationError{Msg: "Missing name"}
	errMissingType     = &ValidationError{Msg: "Missing type"}
	errMissingData     = &ValidationError{Msg: "Missing data"}
	errParentNotFound  = &ValidationError{Msg: "Parent not found"}
	errParentNotFolder = &ValidationError{Msg: "Parent is not a folder"}
)

// PageSize — фиксированный размер страницы листинга каталога.
const PageSize = 20

// CreateRequest — запрос на создание записи каталога.
type CreateRequest struct {
	// Name — имя файла/папки
	Name string
	// Type — folder, file или image
	Type string
	// ParentID — идентификатор папки-родителя, "0" или пусто для корня
	ParentID string
	// IsPublic — публичность записи (по умолчанию false)
	IsPublic bool
	// Data — base64-содержимое (обязательно для file/image)
	Data string
}

// FileService — операции каталога файлов.
type FileService struct {
	files  repository.FileRepository
	logger *slog.Logger
}

// NewFileService создаёт сервис каталога.
func NewFileService(files repository.FileRepository, logger *slog.Logger) *FileService {
	return &FileService{
		files:  files,
		logger: logger.With(slog.String("component", "file_service")),
	}
}

// ValidateCreate проверяет поля запроса и ссылку на родителя.
// Каждая причина отказа — отдельная ValidationError.
func (s *FileService) ValidateCreate(ctx context.Context, req CreateRequest) error {
	if req.Name == "" {
		return errMissingName
	}
	if req.Type == "" || !model.AllowedType(req.Type) {
		return errMissingType
	}
	if req.Type != model.TypeFolder && req.Data == "" {
		return errMissingData
	}

	parentID := normalizeParent(req.ParentID)
	if parentID == model.RootParentID {
		return nil
	}

	parent, err := s.files.GetByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errParentNotFound
		}
		return fmt.Errorf("ошибка проверки родителя: %w", err)
	}
	if parent.Type != model.TypeFolder {
		return errParentNotFolder
	}
	return nil
}

// Create валидирует запрос и вставляет запись каталога.
// localPath пуст для папок; для file/image указывает на уже записанный blob
// (запись blob-а предшествует вставке — см. UploadService).
func (s *FileService) Create(ctx context.Context, ownerID string, req CreateRequest, localPath string) (*model.FileEntry, error) {
	if err := s.ValidateCreate(ctx, req); err != nil {
		return nil, err
	}

	uid, err := parseOwnerID(ownerID)
	if err != nil {
		return nil, err
	}

	entry := &model.FileEntry{
		UserID:    uid,
		Name:      req.Name,
		Type:      req.Type,
		ParentID:  normalizeParent(req.ParentID),
		IsPublic:  req.IsPublic,
		LocalPath: localPath,
		CreatedAt: time.Now().UTC(),
	}

	inserted, err := s.files.Insert(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания записи каталога: %w", err)
	}

	s.logger.Info("Запись каталога создана",
		slog.String("file_id", inserted.ID.Hex()),
		slog.String("type", inserted.Type),
		slog.String("parent_id", inserted.ParentID),
	)
	return inserted, nil
}

// Get возвращает запись, видимую запрашивающему: владельцу — всегда,
// остальным — только публичные. Отсутствие и отказ в доступе неразличимы.
func (s *FileService) Get(ctx context.Context, requesterID, fileID string) (*model.FileEntry, error) {
	entry, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка чтения записи каталога: %w", err)
	}

	if !entry.IsPublic && !entry.OwnedBy(requesterID) {
		return nil, ErrNotFound
	}
	return entry, nil
}

// GetOwned возвращает запись только её владельцу.
// Используется операциями, меняющими состояние (publish/unpublish).
func (s *FileService) GetOwned(ctx context.Context, ownerID, fileID string) (*model.FileEntry, error) {
	entry, err := s.files.GetByIDAndOwner(ctx, fileID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка чтения записи каталога: %w", err)
	}
	return entry, nil
}

// List возвращает страницу записей владельца внутри папки.
// Страницы нумеруются с нуля; страница за последней — пустой срез.
// Порядок — порядок вставки, сортировка не гарантируется.
func (s *FileService) List(ctx context.Context, requesterID, parentID string, page int) ([]*model.FileEntry, error) {
	if page < 0 {
		page = 0
	}
	parent := normalizeParent(parentID)

	entries, err := s.files.ListByParent(ctx, requesterID, parent, int64(page)*PageSize, PageSize)
	if err != nil {
		return nil, fmt.Errorf("ошибка листинга каталога: %w", err)
	}
	return entries, nil
}

// SetPublic переключает публичность записи. Только владелец; идемпотентно.
func (s *FileService) SetPublic(ctx context.Context, requesterID, fileID string, public bool) (*model.FileEntry, error) {
	if _, err := s.GetOwned(ctx, requesterID, fileID); err != nil {
		return nil, err
	}

	entry, err := s.files.SetPublic(ctx, fileID, public)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка обновления isPublic: %w", err)
	}

	s.logger.Info("Публичность записи обновлена",
		slog.String("file_id", fileID),
		slog.Bool("is_public", public),
	)
	return entry, nil
}

// parseOwnerID преобразует hex-идентификатор владельца в ObjectID.
// ownerID приходит из разрешённой сессии; некорректный hex — внутренняя ошибка.
func parseOwnerID(ownerID string) (primitive.ObjectID, error) {
	uid, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("некорректный идентификатор владельца %q: %w", ownerID, err)
	}
	return uid, nil
}

// normalizeParent приводит parentId к единому строковому представлению:
// пустое значение и "0" означают корень.
func normalizeParent(parentID string) string {
	if parentID == "" {
		return model.RootParentID
	}
	return parentID
}
