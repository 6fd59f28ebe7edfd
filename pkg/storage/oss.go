package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Eursukkul/dormmate-service/config"
	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

type ossBucket struct {
	bucket  *oss.Bucket
	baseURL string
}

func NewOSSBucket(cfg config.StorageConfig) (Bucket, error) {
	if cfg.OSSEndpoint == "" || cfg.OSSBucket == "" {
		return nil, fmt.Errorf("oss: endpoint and bucket are required")
	}
	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey)
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}
	bkt, err := client.Bucket(cfg.OSSBucket)
	if err != nil {
		return nil, fmt.Errorf("oss bucket: %w", err)
	}

	base := cfg.PublicBaseURL
	if base == "" || strings.HasPrefix(base, "/") {
		end := strings.TrimPrefix(strings.TrimPrefix(cfg.OSSEndpoint, "https://"), "http://")
		base = fmt.Sprintf("https://%s.%s", cfg.OSSBucket, end)
	}
	return &ossBucket{bucket: bkt, baseURL: strings.TrimRight(base, "/")}, nil
}

func (b *ossBucket) Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	opts := []oss.Option{
		oss.WithContext(ctx),
		oss.ContentType(contentType),
		oss.ContentDisposition("inline"),
		oss.CacheControl("public, max-age=31536000, immutable"),
	}
	if err := b.bucket.PutObject(key, r, opts...); err != nil {
		return "", fmt.Errorf("oss put %s: %w", key, err)
	}
	return b.baseURL + "/" + key, nil
}

func (b *ossBucket) Delete(ctx context.Context, key string) error {
	if err := b.bucket.DeleteObject(key, oss.WithContext(ctx)); err != nil {
		return fmt.Errorf("oss delete %s: %w", key, err)
	}
	return nil
}

func (b *ossBucket) KeyForURL(url string) (string, bool) {
	return keyFromBase(b.baseURL, url)
}
