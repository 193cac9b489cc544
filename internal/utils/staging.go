package utils

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileCleanup tracks staged files that must be removed once a request is done.
type FileCleanup struct {
	paths []string
	mu    sync.Mutex
}

func NewFileCleanup() *FileCleanup {
	return &FileCleanup{
		paths: make([]string, 0),
	}
}

func (fc *FileCleanup) Add(path string) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.paths = append(fc.paths, path)
}

// Cleanup removes every tracked file and reports the removals that failed.
// Files that are already gone are not an error.
func (fc *FileCleanup) Cleanup() error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	var errs []error
	for _, path := range fc.paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	fc.paths = fc.paths[:0]
	return errors.Join(errs...)
}

// StageUpload copies an uploaded multipart file into dir and registers the copy with
// cleanup. The staged name keeps the uploaded extension so the media host can infer
// the content type.
func StageUpload(fh *multipart.FileHeader, dir string, cleanup *FileCleanup) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create staging directory %s: %w", dir, err)
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open uploaded file %s: %w", fh.Filename, err)
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	dst, err := os.CreateTemp(dir, "upload-*"+ext)
	if err != nil {
		return "", fmt.Errorf("create staging file: %w", err)
	}
	cleanup.Add(dst.Name())
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("stage %s: %w", fh.Filename, err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("stage %s: %w", fh.Filename, err)
	}
	return dst.Name(), nil
}
