// Package storage holds the object stores product images are uploaded to.
package storage

import "context"

// Handle identifies an uploaded object.
type Handle struct {
	Key string
}

// ObjectStore accepts uploads and resolves durable access URLs for them.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte) (Handle, error)
	ResolveURL(ctx context.Context, h Handle) (string, error)
}

// ImageKey is the storage key product images are namespaced under.
func ImageKey(id string) string { return "products/images/" + id }
