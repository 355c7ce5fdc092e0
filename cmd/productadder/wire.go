package main

import (
	"context"
	"fmt"
	"path/filepath"

	"productadder/internal/config"
	"productadder/internal/repos"
	"productadder/internal/storage"
)

// openDocs opens the configured document store. The returned func releases it.
func openDocs(ctx context.Context, cfg config.Config) (repos.DocumentStore, func(), error) {
	switch cfg.DBDriver {
	case "", "sqlite":
		db, err := repos.OpenDB(cfg.DBDSN)
		if err != nil {
			return nil, nil, err
		}
		return repos.NewDocumentRepo(db), func() { _ = db.Close() }, nil
	case "mongo":
		m, err := repos.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, nil, err
		}
		return m, func() { _ = m.Close(context.Background()) }, nil
	}
	return nil, nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
}

func openStore(ctx context.Context, cfg config.Config) (storage.ObjectStore, error) {
	switch cfg.StorageDriver {
	case "", "fs":
		return storage.NewFilesystemStore(cfg.MediaDir, cfg.PublicURL)
	case "minio":
		return storage.NewMinioStore(ctx, storage.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccess,
			SecretKey: cfg.MinioSecret,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
			PublicURL: cfg.PublicURL,
			Expiry:    cfg.URLExpiry,
		})
	}
	return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
}

func absDir(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}
