package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lumora-ai/imageflow"
)

// LocalStorage writes images to a directory on disk. When a base URL is
// configured, saved files are reported at that URL; otherwise the
// filesystem path is returned.
type LocalStorage struct {
	root    string
	baseURL string
	logger  *slog.Logger
}

// NewLocal creates a LocalStorage rooted at dir, creating it if needed.
func NewLocal(dir string, baseURL string, logger *slog.Logger) (*LocalStorage, error) {
	if dir == "" {
		return nil, fmt.Errorf("local storage: %w", imageflow.ErrStorageNotConfigured)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalStorage{
		root:    dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger.With("component", "local-storage"),
	}, nil
}

// SaveFile writes the data under the storage root and returns a URL or
// path for it. Paths that would escape the root are rejected.
func (l *LocalStorage) SaveFile(ctx context.Context, data []byte, path string, contentType string) (string, error) {
	rel := filepath.Clean(strings.TrimLeft(path, "/"))
	if rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("invalid storage path %q", path)
	}

	full := filepath.Join(l.root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create parent dir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write %q: %w", full, err)
	}

	l.logger.Debug("saved image", "path", full, "bytes", len(data))

	if l.baseURL != "" {
		return l.baseURL + "/" + filepath.ToSlash(rel), nil
	}
	return full, nil
}
