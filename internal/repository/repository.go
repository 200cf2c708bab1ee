// Пакет repository — слой доступа к данным MongoDB для files manager.
// Коллекция files принадлежит этому сервису; коллекция users принадлежит
// сервису регистрации и читается здесь в режиме read-only.
package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Ошибки слоя репозиториев.
var (
	// ErrNotFound — документ не найден.
	ErrNotFound = errors.New("документ не найден")
)

// Имена коллекций.
const (
	filesCollection = "files"
	usersCollection = "users"
)

// pingTimeout — таймаут проверки доступности MongoDB.
const pingTimeout = 2 * time.Second

// Repository — подключение к MongoDB с явным жизненным циклом.
// Создаётся один раз при старте процесса и инжектируется в компоненты.
type Repository struct {
	client *mongo.Client
	db     *mongo.Database
	logger *slog.Logger
}

// Connect устанавливает соединение с MongoDB и проверяет его ping-ом.
func Connect(ctx context.Context, uri, database string, logger *slog.Logger) (*Repository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("MongoDB недоступна: %w", err)
	}

	logger.Info("Подключение к MongoDB установлено",
		slog.String("uri", uri),
		slog.String("database", database),
	)

	return &Repository{
		client: client,
		db:     client.Database(database),
		logger: logger.With(slog.String("component", "repository")),
	}, nil
}

// Close закрывает соединение с MongoDB.
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// CheckReady проверяет доступность MongoDB для readiness probe.
// Возвращает статус ("ok", "fail") и сообщение.
func (r *Repository) CheckReady() (status, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := r.client.Ping(ctx, readpref.Primary()); err != nil {
		return "fail", err.Error()
	}
	return "ok", ""
}

// Files создаёт репозиторий каталога файлов.
func (r *Repository) Files() FileRepository {
	return &mongoFileRepo{coll: r.db.Collection(filesCollection)}
}

// Users создаёт репозиторий пользователей.
func (r *Repository) Users() UserRepository {
	return &mongoUserRepo{coll: r.db.Collection(usersCollection)}
}
