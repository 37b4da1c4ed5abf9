package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Local stores objects as files under a base path served by a static file
// host at baseURL.
type Local struct {
	basePath string
	baseURL  string
}

func NewLocal(basePath, baseURL string) (*Local, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &Local{basePath: basePath, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// resolve maps a key to its on-disk path. Keys come from request bodies, so
// anything that would resolve outside the base path is refused.
func (s *Local) resolve(key string) (string, error) {
	rel := filepath.FromSlash(key)
	if key == "" || !filepath.IsLocal(rel) {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(s.basePath, rel), nil
}

func (s *Local) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	full, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory for %s: %w", key, err)
	}
	if err := os.WriteFile(full, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", key, err)
	}
	return s.URL(key), nil
}

func (s *Local) Delete(ctx context.Context, key string) error {
	full, err := s.resolve(key)
	if err != nil {
		return err
	}
	if _, err := os.Stat(full); os.IsNotExist(err) {
		return nil
	}
	return os.Remove(full)
}

func (s *Local) URL(key string) string {
	return s.baseURL + "/" + key
}
