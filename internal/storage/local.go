// Package storage persists uploaded idea attachments on the local
// filesystem and hands back the metadata the idea service records.
package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// URLPrefix is the public route attachments are served under.
const URLPrefix = "/api/uploads"

// SavedFile describes a stored attachment.
type SavedFile struct {
	Name string
	URL  string
	Type string
	Size int64
}

// LocalStore writes attachment binaries under a single directory.
type LocalStore struct {
	dir string
}

// NewLocalStore creates the uploads directory if needed and returns a store.
func NewLocalStore(dir string) (*LocalStore, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("storage: uploads directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create uploads directory: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Dir returns the directory files are written to, for static serving.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Save writes one multipart upload to disk under a collision-free name.
func (s *LocalStore) Save(fh *multipart.FileHeader) (SavedFile, error) {
	if fh == nil {
		return SavedFile{}, errors.New("storage: nil file header")
	}

	src, err := fh.Open()
	if err != nil {
		return SavedFile{}, fmt.Errorf("storage: open upload: %w", err)
	}
	defer src.Close()

	// The original client-supplied name is kept as display metadata only;
	// the stored name is always generated.
	stored := uuid.NewString() + sanitizeExt(fh.Filename)
	dstPath := filepath.Join(s.dir, stored)

	dst, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return SavedFile{}, fmt.Errorf("storage: create file: %w", err)
	}

	size, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dstPath)
		return SavedFile{}, fmt.Errorf("storage: write file: %w", err)
	}

	return SavedFile{
		Name: filepath.Base(fh.Filename),
		URL:  URLPrefix + "/" + stored,
		Type: fh.Header.Get("Content-Type"),
		Size: size,
	}, nil
}

// Remove deletes the stored file behind an attachment URL. URLs outside the
// store are ignored so callers can pass any attachment row through.
func (s *LocalStore) Remove(url string) error {
	stored, ok := strings.CutPrefix(url, URLPrefix+"/")
	if !ok || stored == "" {
		return nil
	}
	// Reject anything that could escape the uploads directory.
	if stored != path.Base(stored) {
		return nil
	}

	err := os.Remove(filepath.Join(s.dir, stored))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("storage: remove file: %w", err)
	}
	return nil
}

func sanitizeExt(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" || len(ext) > 16 || strings.ContainsAny(ext, "/\\") {
		return ""
	}
	return ext
}
