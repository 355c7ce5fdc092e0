package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicURL, when set, is used as the URL prefix instead of presigning.
	PublicURL string
	// Expiry bounds presigned URLs. S3 caps it at seven days.
	Expiry time.Duration
}

// MinioStore uploads to any S3-compatible bucket.
type MinioStore struct {
	client *minio.Client
	cfg    MinioConfig
}

func NewMinioStore(ctx context.Context, cfg MinioConfig) (*MinioStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio: bucket is required")
	}
	if cfg.Expiry <= 0 || cfg.Expiry > 7*24*time.Hour {
		cfg.Expiry = 7 * 24 * time.Hour
	}
	cfg.PublicURL = strings.TrimRight(cfg.PublicURL, "/")

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	ok, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !ok {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio make bucket: %w", err)
		}
	}
	return &MinioStore{client: client, cfg: cfg}, nil
}

func (s *MinioStore) Put(ctx context.Context, key string, data []byte) (Handle, error) {
	_, err := s.client.PutObject(ctx, s.cfg.Bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "image/jpeg",
	})
	if err != nil {
		return Handle{}, fmt.Errorf("minio put %s: %w", key, err)
	}
	return Handle{Key: key}, nil
}

func (s *MinioStore) ResolveURL(ctx context.Context, h Handle) (string, error) {
	if s.cfg.PublicURL != "" {
		u, err := url.Parse(s.cfg.PublicURL)
		if err != nil {
			return "", fmt.Errorf("parse public url: %w", err)
		}
		return u.JoinPath(append([]string{s.cfg.Bucket}, strings.Split(h.Key, "/")...)...).String(), nil
	}
	u, err := s.client.PresignedGetObject(ctx, s.cfg.Bucket, h.Key, s.cfg.Expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("minio presign %s: %w", h.Key, err)
	}
	return u.String(), nil
}
