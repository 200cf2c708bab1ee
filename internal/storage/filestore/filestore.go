// Пакет filestore — операции с blob-ами на content root.
// Имена blob-ов — случайные UUID, никогда не выводятся из оригинального
// имени файла: это исключает коллизии и path traversal. Производные
// (thumbnails) хранятся рядом как <path>_<size> и никогда не перезаписывают
// оригинал.
package filestore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FileStore — управление blob-ами на диске.
type FileStore struct {
	// rootDir — корневая директория хранения (FOLDER_PATH)
	rootDir string
}

// New создаёт FileStore. Создаёт корневую директорию, если её нет.
func New(rootDir string) (*FileStore, error) {
	if err := os.MkdirAll(rootDir, 0o750); err != nil {
		return nil, fmt.Errorf("не удалось создать content root %s: %w", rootDir, err)
	}
	return &FileStore{rootDir: rootDir}, nil
}

// Root возвращает путь к content root.
func (fs *FileStore) Root() string {
	return fs.rootDir
}

// SaveBlob записывает данные под новым случайным именем и возвращает
// абсолютный путь. Паттерн: temp файл → запись → fsync → atomic rename,
// чтобы blob никогда не был виден частично записанным.
func (fs *FileStore) SaveBlob(data []byte) (string, error) {
	path := filepath.Join(fs.rootDir, uuid.New().String())
	if err := fs.writeAtomic(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// WriteDerivative записывает производную указанного blob-а и возвращает её путь.
// Производные соседствуют с оригиналом как <path>_<size>; повторная запись
// безопасна — производные идемпотентно перегенерируемы.
func (fs *FileStore) WriteDerivative(srcPath string, size int, data []byte) (string, error) {
	path := DerivativePath(srcPath, size)
	if err := fs.writeAtomic(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// Read возвращает содержимое blob-а по абсолютному пути.
func (fs *FileStore) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения blob %s: %w", path, err)
	}
	return data, nil
}

// Exists проверяет наличие blob-а на диске.
func (fs *FileStore) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// writeAtomic записывает данные через temp файл с fsync и atomic rename.
// При ошибке temp файл удаляется.
func (fs *FileStore) writeAtomic(path string, data []byte) error {
	tmpPath := path + ".tmp"

	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("ошибка создания временного файла: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка записи данных: %w", err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка fsync: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка закрытия файла: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка атомарного переименования: %w", err)
	}
	return nil
}

// DerivativePath возвращает путь производной заданного размера: <path>_<size>.
func DerivativePath(srcPath string, size int) string {
	return fmt.Sprintf("%s_%d", srcPath, size)
}
