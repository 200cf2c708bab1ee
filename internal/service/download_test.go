package service

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bigkaa/gofilesmanager/internal/domain/model"
	"github.com/bigkaa/gofilesmanager/internal/storage/filestore"
)

func newContentFixture(t *testing.T) (*ContentService, *fakeFileRepo, *filestore.FileStore) {
	t.Helper()
	repo := newFakeFileRepo()
	store, err := filestore.New(t.TempDir())
	if err != nil {
		t.Fatalf("filestore.New: %v", err)
	}
	files := NewFileService(repo, discardLogger())
	cache := NewCacheService(16, time.Minute)
	return NewContentService(files, store, cache, discardLogger()), repo, store
}

func TestReadContent(t *testing.T) {
	svc, repo, store := newContentFixture(t)
	owner := primitive.NewObjectID()

	path, err := store.SaveBlob([]byte("Hello Webstack!\n"))
	if err != nil {
		t.Fatalf("SaveBlob: %v", err)
	}
	entry := repo.addEntry(&model.FileEntry{
		UserID: owner, Name: "myText.txt", Type: model.TypeFile,
		ParentID: model.RootParentID, LocalPath: path,
	})

	content, err := svc.ReadContent(context.Background(), owner.Hex(), entry.ID.Hex())
	if err != nil {
		t.Fatalf("ReadContent: %v", err)
	}
	if string(content.Data) != "Hello Webstack!\n" {
		t.Errorf("данные = %q", content.Data)
	}
	if content.MIME != "text/plain; charset=utf-8" {
		t.Errorf("MIME = %q", content.MIME)
	}
}

func TestReadContent_Visibility(t *testing.T) {
	svc, repo, store := newContentFixture(t)
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	path, err := store.SaveBlob([]byte("secret"))
	if err != nil {
		t.Fatalf("SaveBlob: %v", err)
	}
	private := repo.addEntry(&model.FileEntry{
		UserID: owner, Name: "secret.txt", Type: model.TypeFile,
		ParentID: model.RootParentID, LocalPath: path,
	})

	ctx := context.Background()

	// Приватный файл недоступен чужому и анониму
	if _, err := svc.ReadContent(ctx, stranger.Hex(), private.ID.Hex()); !errors.Is(err, ErrNotFound) {
		t.Errorf("чужой: ожидался ErrNotFound, получено %v", err)
	}
	if _, err := svc.ReadContent(ctx, "", private.ID.Hex()); !errors.Is(err, ErrNotFound) {
		t.Errorf("аноним: ожидался ErrNotFound, получено %v", err)
	}

	// После publish содержимое доступно всем
	private.IsPublic = true
	if _, err := svc.ReadContent(ctx, "", private.ID.Hex()); err != nil {
		t.Errorf("публичный файл анониму: %v", err)
	}
}

func TestReadContent_Folder(t *testing.T) {
	svc, repo, _ := newContentFixture(t)
	owner := primitive.NewObjectID()

	folder := repo.addEntry(&model.FileEntry{
		UserID: owner, Name: "docs", Type: model.TypeFolder, ParentID: model.RootParentID,
	})

	_, err := svc.ReadContent(context.Background(), owner.Hex(), folder.ID.Hex())
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Msg != "A folder doesn't have content" {
		t.Fatalf("ожидалась ValidationError о папке, получено: %v", err)
	}
}

func TestReadContent_BlobMissing(t *testing.T) {
	svc, repo, store := newContentFixture(t)
	owner := primitive.NewObjectID()

	entry := repo.addEntry(&model.FileEntry{
		UserID: owner, Name: "ghost.txt", Type: model.TypeFile,
		ParentID: model.RootParentID, LocalPath: store.Root() + "/missing",
	})

	if _, err := svc.ReadContent(context.Background(), owner.Hex(), entry.ID.Hex()); !errors.Is(err, ErrNotFound) {
		t.Errorf("отсутствующий blob: ожидался ErrNotFound, получено %v", err)
	}
}

func TestReadContent_ServesFromCache(t *testing.T) {
	svc, repo, store := newContentFixture(t)
	owner := primitive.NewObjectID()

	path, err := store.SaveBlob([]byte("cached"))
	if err != nil {
		t.Fatalf("SaveBlob: %v", err)
	}
	entry := repo.addEntry(&model.FileEntry{
		UserID: owner, Name: "c.txt", Type: model.TypeFile,
		ParentID: model.RootParentID, LocalPath: path,
	})
	ctx := context.Background()

	if _, err := svc.ReadContent(ctx, owner.Hex(), entry.ID.Hex()); err != nil {
		t.Fatalf("первое чтение: %v", err)
	}

	// Blob удалён с диска, но содержимое остаётся в кэше
	if err := os.Remove(path); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	content, err := svc.ReadContent(ctx, owner.Hex(), entry.ID.Hex())
	if err != nil {
		t.Fatalf("чтение из кэша: %v", err)
	}
	if string(content.Data) != "cached" {
		t.Errorf("данные из кэша = %q", content.Data)
	}
}

func TestMimeByName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"a.txt", "text/plain; charset=utf-8"},
		{"photo.png", "image/png"},
		{"photo.jpg", "image/jpeg"},
		{"archive.bin", defaultMIME},
		{"noext", defaultMIME},
	}
	for _, tt := range tests {
		if got := mimeByName(tt.name); got != tt.want {
			t.Errorf("mimeByName(%q) = %q, ожидалось %q", tt.name, got, tt.want)
		}
	}
}
