// file.go — репозиторий каталога файлов (коллекция files).
// Идентификаторы на границе слоя — hex-строки; некорректный hex
// приравнивается к отсутствию документа (ErrNotFound).
package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bigkaa/gofilesmanager/internal/domain/model"
)

// FileRepository — интерфейс доступа к каталогу файлов.
// Документы принадлежат создавшему их пользователю и изменяются только
// через операции этого репозитория.
type FileRepository interface {
	// Insert вставляет запись и возвращает её с присвоенным идентификатором.
	Insert(ctx context.Context, entry *model.FileEntry) (*model.FileEntry, error)
	// GetByID возвращает запись по идентификатору или ErrNotFound.
	GetByID(ctx context.Context, id string) (*model.FileEntry, error)
	// GetByIDAndOwner возвращает запись по идентификатору и владельцу.
	// ErrNotFound и при отсутствии, и при несовпадении владельца.
	GetByIDAndOwner(ctx context.Context, id, ownerID string) (*model.FileEntry, error)
	// ListByParent возвращает записи владельца с указанным parentId.
	// Порядок — порядок вставки (естественный порядок коллекции).
	ListByParent(ctx context.Context, ownerID, parentID string, skip, limit int64) ([]*model.FileEntry, error)
	// SetPublic обновляет isPublic и возвращает обновлённый документ.
	SetPublic(ctx context.Context, id string, public bool) (*model.FileEntry, error)
	// Count возвращает количество записей каталога.
	Count(ctx context.Context) (int64, error)
}

// mongoFileRepo — реализация FileRepository через mongo-driver.
type mongoFileRepo struct {
	coll *mongo.Collection
}

// Insert вставляет запись и возвращает её с присвоенным _id.
func (r *mongoFileRepo) Insert(ctx context.Context, entry *model.FileEntry) (*model.FileEntry, error) {
	res, err := r.coll.InsertOne(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("ошибка вставки записи каталога: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("неожиданный тип InsertedID: %T", res.InsertedID)
	}
	entry.ID = oid
	return entry, nil
}

// GetByID возвращает запись по hex-идентификатору.
func (r *mongoFileRepo) GetByID(ctx context.Context, id string) (*model.FileEntry, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var entry model.FileEntry
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка чтения записи каталога: %w", err)
	}
	return &entry, nil
}

// GetByIDAndOwner возвращает запись по идентификатору и владельцу.
func (r *mongoFileRepo) GetByIDAndOwner(ctx context.Context, id, ownerID string) (*model.FileEntry, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	uid, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, ErrNotFound
	}

	var entry model.FileEntry
	err = r.coll.FindOne(ctx, bson.M{"_id": oid, "userId": uid}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка чтения записи каталога: %w", err)
	}
	return &entry, nil
}

// ListByParent возвращает страницу записей владельца внутри папки.
// Страница за последней записью — пустой срез, не ошибка.
func (r *mongoFileRepo) ListByParent(ctx context.Context, ownerID, parentID string, skip, limit int64) ([]*model.FileEntry, error) {
	uid, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return []*model.FileEntry{}, nil
	}

	opts := options.Find().SetSkip(skip).SetLimit(limit)
	cursor, err := r.coll.Find(ctx, bson.M{"userId": uid, "parentId": parentID}, opts)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки записей каталога: %w", err)
	}
	defer cursor.Close(ctx)

	entries := []*model.FileEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("ошибка итерации записей каталога: %w", err)
	}
	return entries, nil
}

// SetPublic обновляет isPublic и возвращает обновлённый документ.
// Операция идемпотентна: повторный вызов с тем же значением не меняет состояние.
func (r *mongoFileRepo) SetPublic(ctx context.Context, id string, public bool) (*model.FileEntry, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"isPublic": public}})
	if err != nil {
		return nil, fmt.Errorf("ошибка обновления isPublic: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}

	return r.GetByID(ctx, id)
}

// Count возвращает количество записей каталога.
func (r *mongoFileRepo) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта записей каталога: %w", err)
	}
	return n, nil
}
