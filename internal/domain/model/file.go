// Пакет model — доменные модели files manager.
// FileEntry — маппинг документа коллекции files, User — коллекции users.
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Допустимые типы записей каталога.
const (
	TypeFolder = "folder"
	TypeFile   = "file"
	TypeImage  = "image"
)

// RootParentID — идентификатор виртуального корня каталога.
// Корень не хранится как документ; parentId == "0" означает запись верхнего уровня.
// parentId хранится строкой единообразно во всех операциях (create/list/filter).
const RootParentID = "0"

// AllowedType проверяет, входит ли тип в допустимый набор.
func AllowedType(t string) bool {
	switch t {
	case TypeFolder, TypeFile, TypeImage:
		return true
	}
	return false
}

// FileEntry — запись каталога файлов (документ коллекции files).
// LocalPath присутствует только у type ∈ {file, image}; папки не владеют blob-ами.
// Name и Type неизменяемы после создания; IsPublic меняется только через
// publish/unpublish. LocalPath и CreatedAt не попадают в API-ответы.
type FileEntry struct {
	// ID — идентификатор документа
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	// UserID — владелец записи
	UserID primitive.ObjectID `bson:"userId" json:"userId"`
	// Name — имя файла/папки (обязательное)
	Name string `bson:"name" json:"name"`
	// Type — folder, file или image (обязательное)
	Type string `bson:"type" json:"type"`
	// ParentID — "0" для корня, иначе hex-идентификатор папки-родителя
	ParentID string `bson:"parentId" json:"parentId"`
	// IsPublic — единственный атрибут контроля доступа помимо владения
	IsPublic bool `bson:"isPublic" json:"isPublic"`
	// LocalPath — абсолютный путь blob-а на content root (file/image)
	LocalPath string `bson:"localPath,omitempty" json:"-"`
	// CreatedAt — время создания записи
	CreatedAt time.Time `bson:"createdAt" json:"-"`
}

// HasContent возвращает true, если запись владеет blob-ом на content root.
func (f *FileEntry) HasContent() bool {
	return f.Type == TypeFile || f.Type == TypeImage
}

// OwnedBy проверяет владение записью по hex-идентификатору пользователя.
func (f *FileEntry) OwnedBy(userID string) bool {
	return f.UserID.Hex() == userID
}
