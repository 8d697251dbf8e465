package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/futig/consult-assistant/internal/entity"
)

// DocumentRepository defines persistence for indexed documents and their chunks
type DocumentRepository interface {
	ReplaceDocument(ctx context.Context, doc entity.Document, chunks []entity.DocumentChunk, embeddings [][]float32) (string, error)
}

var _ DocumentRepository = &DocumentPostgres{}

const (
	upsertDocumentQuery = `INSERT INTO documents (id, title, service) VALUES ($1, $2, $3)
ON CONFLICT (title) DO UPDATE SET service = EXCLUDED.service, updated_at = NOW()
RETURNING id`
	deleteChunksQuery = `DELETE FROM document_chunks WHERE document_id = $1`
	insertChunkQuery  = `INSERT INTO document_chunks (document_id, chunk_index, chunk_text, embedding) VALUES ($1, $2, $3, $4::vector)`
)

// DocumentPostgres implements DocumentRepository using PostgreSQL with pgvector
type DocumentPostgres struct {
	db *sql.DB
}

func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

// ReplaceDocument upserts the document by title and swaps its chunk set in one transaction.
// It returns the id of the stored document, which is the existing one on re-ingestion.
func (r *DocumentPostgres) ReplaceDocument(
	ctx context.Context,
	doc entity.Document,
	chunks []entity.DocumentChunk,
	embeddings [][]float32,
) (id string, err error) {
	if len(chunks) != len(embeddings) {
		return "", fmt.Errorf("%w: %d chunks with %d embeddings", entity.ErrInvalidParameter, len(chunks), len(embeddings))
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
	}()

	if err = tx.QueryRowContext(ctx, upsertDocumentQuery, doc.ID, doc.Title, toNullString(doc.Service)).Scan(&id); err != nil {
		return "", fmt.Errorf("upsert document: %w", err)
	}

	if _, err = tx.ExecContext(ctx, deleteChunksQuery, id); err != nil {
		return "", fmt.Errorf("delete previous chunks: %w", err)
	}

	for i, chunk := range chunks {
		if _, err = tx.ExecContext(ctx, insertChunkQuery, id, chunk.Index, chunk.Text, FormatVector(embeddings[i])); err != nil {
			return "", fmt.Errorf("insert chunk %d: %w", chunk.Index, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("commit transaction: %w", err)
	}

	return id, nil
}
