// Package storage persists uploaded file content on the local filesystem.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LocalStorage writes files under basePath, grouped into yyyy/mm folders so a
// single directory never accumulates every upload. Physical names are random
// so uploads can never collide or traverse outside the base folder.
type LocalStorage struct {
	basePath string
	now      func() time.Time
}

func NewLocalStorage(basePath string) *LocalStorage {
	return &LocalStorage{basePath: basePath, now: time.Now}
}

// SavedFile describes where a stored file landed.
type SavedFile struct {
	// BaseFolder is the dated folder relative to the base path, e.g. "2026/09".
	BaseFolder string
	// PhysicalName is the random on-disk name, keeping the original extension.
	PhysicalName string
	// Size is the number of bytes written.
	Size int64
}

// Save streams reader to disk under the current month's folder and returns
// the generated location. The caller keeps the logical filename in its own
// records; it never reaches the filesystem.
func (s *LocalStorage) Save(_ context.Context, logicalName string, reader io.Reader) (*SavedFile, error) {
	t := s.now().UTC()
	baseFolder := fmt.Sprintf("%04d/%02d", t.Year(), int(t.Month()))

	dir := filepath.Join(s.basePath, baseFolder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create dir: %w", err)
	}

	physical := strings.ReplaceAll(uuid.NewString(), "-", "") + safeExt(logicalName)
	path := filepath.Join(dir, physical)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, reader)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("write file: %w", err)
	}

	return &SavedFile{BaseFolder: baseFolder, PhysicalName: physical, Size: size}, nil
}

// Open returns a reader for a previously saved file.
func (s *LocalStorage) Open(_ context.Context, baseFolder, physicalName string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.basePath, baseFolder, physicalName))
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	return f, nil
}

// Delete removes a stored file. Missing files are not an error so deletes
// stay idempotent.
func (s *LocalStorage) Delete(_ context.Context, baseFolder, physicalName string) error {
	path := filepath.Join(s.basePath, baseFolder, physicalName)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

// safeExt extracts a lowercase extension from the logical filename, dropping
// anything that could not be part of a plain extension.
func safeExt(name string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(name)))
	if ext == "" || ext == "." || len(ext) > 10 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
