// user.go — репозиторий пользователей (коллекция users, read-only).
package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bigkaa/gofilesmanager/internal/domain/model"
)

// UserRepository — интерфейс чтения пользователей.
// Запись и регистрация принадлежат внешнему сервису.
type UserRepository interface {
	// GetByCredentials возвращает пользователя по email и digest-у пароля.
	// ErrNotFound при любом несовпадении — без различения причин.
	GetByCredentials(ctx context.Context, email, passwordDigest string) (*model.User, error)
	// GetByID возвращает пользователя по hex-идентификатору.
	GetByID(ctx context.Context, id string) (*model.User, error)
	// Count возвращает количество пользователей.
	Count(ctx context.Context) (int64, error)
}

// mongoUserRepo — реализация UserRepository через mongo-driver.
type mongoUserRepo struct {
	coll *mongo.Collection
}

// GetByCredentials ищет пользователя по паре {email, password digest}.
func (r *mongoUserRepo) GetByCredentials(ctx context.Context, email, passwordDigest string) (*model.User, error) {
	var user model.User
	err := r.coll.FindOne(ctx, bson.M{"email": email, "password": passwordDigest}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка поиска пользователя: %w", err)
	}
	return &user, nil
}

// GetByID возвращает пользователя по hex-идентификатору.
func (r *mongoUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var user model.User
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка чтения пользователя: %w", err)
	}
	return &user, nil
}

// Count возвращает количество пользователей.
func (r *mongoUserRepo) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта пользователей: %w", err)
	}
	return n, nil
}
