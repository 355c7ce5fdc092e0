package storage

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemStore writes objects under a base directory. URLs are built from
// publicURL when set, otherwise they are file:// URLs to the absolute path.
type FilesystemStore struct {
	baseDir   string
	publicURL string
}

func NewFilesystemStore(baseDir, publicURL string) (*FilesystemStore, error) {
	if baseDir == "" {
		baseDir = "data/blobs"
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolve blob dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}
	return &FilesystemStore{baseDir: abs, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

func (s *FilesystemStore) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if key == "" || filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(s.baseDir, clean), nil
}

func (s *FilesystemStore) Put(ctx context.Context, key string, data []byte) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return Handle{}, err
	}
	p, err := s.path(key)
	if err != nil {
		return Handle{}, err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return Handle{}, fmt.Errorf("ensure blob dir: %w", err)
	}
	tmp := p + ".part"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return Handle{}, fmt.Errorf("write blob: %w", err)
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return Handle{}, fmt.Errorf("rename blob: %w", err)
	}
	return Handle{Key: key}, nil
}

func (s *FilesystemStore) ResolveURL(ctx context.Context, h Handle) (string, error) {
	p, err := s.path(h.Key)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(p); err != nil {
		return "", fmt.Errorf("stat blob: %w", err)
	}
	if s.publicURL != "" {
		u, err := url.Parse(s.publicURL)
		if err != nil {
			return "", fmt.Errorf("parse public url: %w", err)
		}
		u = u.JoinPath(strings.Split(h.Key, "/")...)
		return u.String(), nil
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(p)}).String(), nil
}

// Dir is the directory objects are written under.
func (s *FilesystemStore) Dir() string { return s.baseDir }
