// Package uploader fans image buffers out to object storage concurrently.
package uploader

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"productadder/internal/domain"
	"productadder/internal/metrics"
	"productadder/internal/storage"
)

// Result is the outcome of one upload task. Stored reports whether the
// object reached storage; URL is set only when resolution succeeded too.
type Result struct {
	Key    string
	URL    string
	Stored bool
	Err    error
}

type Uploader struct {
	Store storage.ObjectStore
	NewID func() string
}

func New(store storage.ObjectStore) *Uploader {
	return &Uploader{Store: store, NewID: uuid.NewString}
}

// UploadAll starts one task per buffer and waits for every task to finish.
// Results are indexed by buffer position; parallelism is unbounded.
func (u *Uploader) UploadAll(ctx context.Context, bufs [][]byte) []Result {
	results := make([]Result, len(bufs))
	var g errgroup.Group
	for i, b := range bufs {
		i, b := i, b
		g.Go(func() error {
			results[i] = u.upload(ctx, b)
			return results[i].Err
		})
	}
	// per-task errors are kept in results
	_ = g.Wait()
	return results
}

func (u *Uploader) upload(ctx context.Context, b []byte) Result {
	key := storage.ImageKey(u.NewID())
	h, err := u.Store.Put(ctx, key, b)
	if err != nil {
		metrics.Uploads.WithLabelValues("error").Inc()
		return Result{Key: key, Err: fmt.Errorf("put %s: %w", key, err)}
	}
	url, err := u.Store.ResolveURL(ctx, h)
	if err != nil {
		metrics.Uploads.WithLabelValues("error").Inc()
		return Result{Key: key, Stored: true, Err: fmt.Errorf("resolve %s: %w", key, err)}
	}
	metrics.Uploads.WithLabelValues("ok").Inc()
	return Result{Key: key, URL: url, Stored: true}
}

// URLs applies the all-or-nothing policy: every task must have succeeded.
// Otherwise it returns no URLs and an error wrapping domain.ErrUpload.
func URLs(results []Result) ([]string, error) {
	var errs []error
	urls := make([]string, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
			continue
		}
		urls = append(urls, r.URL)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpload, errors.Join(errs...))
	}
	return urls, nil
}

// Orphans lists keys that reached storage in a fan-out that failed overall.
// These objects stay in storage.
func Orphans(results []Result) []string {
	failed := false
	for _, r := range results {
		if r.Err != nil {
			failed = true
			break
		}
	}
	if !failed {
		return nil
	}
	var keys []string
	for _, r := range results {
		if r.Stored {
			keys = append(keys, r.Key)
		}
	}
	return keys
}
