package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bigkaa/gofilesmanager/internal/domain/model"
	"github.com/bigkaa/gofilesmanager/internal/repository"
	"github.com/bigkaa/gofilesmanager/internal/session"
)

// fakeFileRepo — in-memory реализация repository.FileRepository.
// Порядок вставки сохраняется — он же порядок листинга.
type fakeFileRepo struct {
	entries []*model.FileEntry
	// insertErr подменяет результат Insert при необходимости
	insertErr error
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{}
}

func (r *fakeFileRepo) Insert(_ context.Context, entry *model.FileEntry) (*model.FileEntry, error) {
	if r.insertErr != nil {
		return nil, r.insertErr
	}
	entry.ID = primitive.NewObjectID()
	r.entries = append(r.entries, entry)
	return entry, nil
}

func (r *fakeFileRepo) GetByID(_ context.Context, id string) (*model.FileEntry, error) {
	for _, e := range r.entries {
		if e.ID.Hex() == id {
			return e, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeFileRepo) GetByIDAndOwner(_ context.Context, id, ownerID string) (*model.FileEntry, error) {
	for _, e := range r.entries {
		if e.ID.Hex() == id && e.UserID.Hex() == ownerID {
			return e, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeFileRepo) ListByParent(_ context.Context, ownerID, parentID string, skip, limit int64) ([]*model.FileEntry, error) {
	matched := []*model.FileEntry{}
	for _, e := range r.entries {
		if e.UserID.Hex() == ownerID && e.ParentID == parentID {
			matched = append(matched, e)
		}
	}
	if skip >= int64(len(matched)) {
		return []*model.FileEntry{}, nil
	}
	matched = matched[skip:]
	if int64(len(matched)) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *fakeFileRepo) SetPublic(_ context.Context, id string, public bool) (*model.FileEntry, error) {
	for _, e := range r.entries {
		if e.ID.Hex() == id {
			e.IsPublic = public
			return e, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeFileRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.entries)), nil
}

// addEntry вставляет готовую запись напрямую (подготовка сценария).
func (r *fakeFileRepo) addEntry(entry *model.FileEntry) *model.FileEntry {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	r.entries = append(r.entries, entry)
	return entry
}

// fakeUserRepo — in-memory реализация repository.UserRepository.
type fakeUserRepo struct {
	users []*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{}
}

func (r *fakeUserRepo) GetByCredentials(_ context.Context, email, passwordDigest string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email && u.PasswordDigest == passwordDigest {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	for _, u := range r.users {
		if u.ID.Hex() == id {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

// addUser добавляет пользователя с digest-ом пароля.
func (r *fakeUserRepo) addUser(email, password string) *model.User {
	u := &model.User{
		ID:             primitive.NewObjectID(),
		Email:          email,
		PasswordDigest: sha1Hex(password),
	}
	r.users = append(r.users, u)
	return u
}

// fakeSessionStore — in-memory реализация session.Store без настоящего TTL.
type fakeSessionStore struct {
	sessions map[string]string
	ttls     map[string]time.Duration
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		sessions: map[string]string{},
		ttls:     map[string]time.Duration{},
	}
}

func (s *fakeSessionStore) Get(_ context.Context, token string) (string, error) {
	userID, ok := s.sessions[token]
	if !ok {
		return "", session.ErrNoSession
	}
	return userID, nil
}

func (s *fakeSessionStore) Set(_ context.Context, token, userID string, ttl time.Duration) error {
	s.sessions[token] = userID
	s.ttls[token] = ttl
	return nil
}

func (s *fakeSessionStore) Del(_ context.Context, token string) error {
	if _, ok := s.sessions[token]; !ok {
		return session.ErrNoSession
	}
	delete(s.sessions, token)
	return nil
}

// fakeEnqueuer — запись поставленных заданий без настоящей очереди.
type fakeEnqueuer struct {
	jobs []struct{ userID, fileID string }
	err  error
}

func (e *fakeEnqueuer) EnqueueThumbnail(_ context.Context, userID, fileID string) error {
	if e.err != nil {
		return e.err
	}
	e.jobs = append(e.jobs, struct{ userID, fileID string }{userID, fileID})
	return nil
}
