// Package storage stores public blobs (hostel photos) in an Aliyun OSS
// bucket or a local directory served over HTTP.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Eursukkul/dormmate-service/config"
)

type Bucket interface {
	// Put stores r under key and returns its public URL.
	Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	// KeyForURL maps a public URL produced by Put back to its key.
	KeyForURL(url string) (string, bool)
}

func New(cfg config.StorageConfig) (Bucket, error) {
	switch strings.ToLower(cfg.Driver) {
	case "oss":
		return NewOSSBucket(cfg)
	case "local", "":
		return NewLocalBucket(cfg.LocalDir, cfg.PublicBaseURL)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func keyFromBase(base, url string) (string, bool) {
	prefix := strings.TrimRight(base, "/") + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	if key == "" || strings.Contains(key, "..") {
		return "", false
	}
	return key, true
}
