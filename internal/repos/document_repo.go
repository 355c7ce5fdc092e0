package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"

	"productadder/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DocumentStore writes documents into named collections. Document identity
// is assigned by the store.
type DocumentStore interface {
	AddDocument(ctx context.Context, collection string, doc any) (string, error)
	GetDocument(ctx context.Context, collection, id string, out any) error
}

// DocumentRepo is a DocumentStore backed by the sqlite documents table.
type DocumentRepo struct{ db *sqlx.DB }

func NewDocumentRepo(db *sqlx.DB) *DocumentRepo { return &DocumentRepo{db: db} }

func (r *DocumentRepo) AddDocument(ctx context.Context, collection string, doc any) (string, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	id := uuid.NewString()
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO documents(collection, id, body, created_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
	`, collection, id, string(body))
	if err != nil {
		return "", err
	}
	return id, nil
}

// GetDocument decodes the stored document into out. Missing documents
// return domain.ErrNotFound.
func (r *DocumentRepo) GetDocument(ctx context.Context, collection, id string, out any) error {
	var body string
	err := r.db.GetContext(ctx, &body, `
		SELECT body FROM documents WHERE collection = ? AND id = ?
	`, collection, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(body), out)
}

// Raw returns the stored JSON body as-is.
func (r *DocumentRepo) Raw(ctx context.Context, collection, id string) (string, error) {
	var body string
	err := r.db.GetContext(ctx, &body, `SELECT body FROM documents WHERE collection = ? AND id = ?`, collection, id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrNotFound
	}
	return body, err
}

func (r *DocumentRepo) Count(ctx context.Context, collection string) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM documents WHERE collection = ?`, collection)
	return n, err
}
