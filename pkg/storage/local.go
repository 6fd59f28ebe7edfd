package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type localBucket struct {
	dir     string
	baseURL string
}

// NewLocalBucket writes blobs under dir; main serves dir at baseURL.
func NewLocalBucket(dir, baseURL string) (Bucket, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &localBucket{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (b *localBucket) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(b.dir, filepath.FromSlash(clean)), nil
}

func (b *localBucket) Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	p, err := b.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", fmt.Errorf("create dir: %w", err)
	}
	f, err := os.Create(p)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", key, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return b.baseURL + "/" + key, nil
}

func (b *localBucket) Delete(ctx context.Context, key string) error {
	p, err := b.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (b *localBucket) KeyForURL(url string) (string, bool) {
	return keyFromBase(b.baseURL, url)
}
