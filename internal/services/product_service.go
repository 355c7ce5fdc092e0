package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"productadder/internal/domain"
	applog "productadder/internal/log"
	"productadder/internal/metrics"
	"productadder/internal/records"
	"productadder/internal/repos"
	"productadder/internal/selection"
	"productadder/internal/uploader"
	"productadder/internal/validate"
)

// Encoder converts picked images into upload buffers.
type Encoder interface {
	EncodeAll(ctx context.Context, refs []domain.ImageRef) ([][]byte, error)
}

// Fanout uploads buffers and reports a result per buffer.
type Fanout interface {
	UploadAll(ctx context.Context, bufs [][]byte) []uploader.Result
}

// Indicator is the busy indicator shown while a save is in flight.
type Indicator interface {
	Show()
	Hide()
}

type nopIndicator struct{}

func (nopIndicator) Show() {}
func (nopIndicator) Hide() {}

type SaveResult struct {
	DocumentID string
	Product    domain.Product
}

type ProductService struct {
	Images  Encoder
	Uploads Fanout
	Docs    repos.DocumentStore
	NewID   func() string
}

func NewProductService(images Encoder, uploads Fanout, docs repos.DocumentStore) *ProductService {
	return &ProductService{Images: images, Uploads: uploads, Docs: docs, NewID: uuid.NewString}
}

// Validate reports whether the form and selection may be saved.
func (s *ProductService) Validate(f domain.Form, sel selection.State) bool {
	return validate.Product(f, sel.Images)
}

// Save runs validate, encode, upload, build and insert in that order. The
// indicator is shown once validation passes and hidden on every exit path.
// The record is only built and inserted after every upload succeeded.
func (s *ProductService) Save(ctx context.Context, f domain.Form, sel selection.State, busy Indicator) (SaveResult, error) {
	if busy == nil {
		busy = nopIndicator{}
	}
	if !s.Validate(f, sel) {
		metrics.Saves.WithLabelValues("validation").Inc()
		return SaveResult{}, domain.ErrValidation
	}

	busy.Show()
	defer busy.Hide()
	defer func(start time.Time) {
		metrics.SaveDuration.Observe(time.Since(start).Seconds())
	}(time.Now())

	bufs, err := s.Images.EncodeAll(ctx, sel.Images)
	if err != nil {
		metrics.Saves.WithLabelValues("codec").Inc()
		applog.Error(nil, "save.codec.fail", err, map[string]any{"images": len(sel.Images)})
		return SaveResult{}, err
	}

	results := s.Uploads.UploadAll(ctx, bufs)
	urls, err := uploader.URLs(results)
	if err != nil {
		metrics.Saves.WithLabelValues("upload").Inc()
		applog.Error(nil, "save.upload.fail", err, map[string]any{
			"images":  len(bufs),
			"orphans": uploader.Orphans(results),
		})
		return SaveResult{}, err
	}

	p, err := records.Build(s.NewID(), f, sel.Colors, urls)
	if err != nil {
		metrics.Saves.WithLabelValues("build").Inc()
		applog.Error(nil, "save.build.fail", err, map[string]any{"orphans": keys(results)})
		return SaveResult{}, err
	}

	id, err := s.Docs.AddDocument(ctx, domain.Products, p)
	if err != nil {
		metrics.Saves.WithLabelValues("store").Inc()
		applog.Error(nil, "save.store.fail", err, map[string]any{"product": p.ID, "orphans": keys(results)})
		return SaveResult{}, fmt.Errorf("%w: %w", domain.ErrStore, err)
	}

	metrics.Saves.WithLabelValues("ok").Inc()
	applog.Audit(nil, "product.saved", map[string]any{"product": p.ID, "document": id, "images": len(urls)})
	return SaveResult{DocumentID: id, Product: p}, nil
}

// Get reads a stored product document back.
func (s *ProductService) Get(ctx context.Context, documentID string) (domain.Product, error) {
	var p domain.Product
	if err := s.Docs.GetDocument(ctx, domain.Products, documentID, &p); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return p, err
		}
		return p, fmt.Errorf("%w: %w", domain.ErrStore, err)
	}
	return p, nil
}

func keys(results []uploader.Result) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.Key)
	}
	return out
}
