package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

// MatchRow is one row returned by the match_documents function.
type MatchRow struct {
	ChunkText       string
	DocumentTitle   string
	DocumentService *string
	Similarity      float64
}

// VectorRepository defines similarity search over stored chunk embeddings
type VectorRepository interface {
	MatchDocuments(ctx context.Context, embedding []float32, matchCount int, service *string) ([]MatchRow, error)
}

var _ VectorRepository = &VectorPostgres{}

const matchDocumentsQuery = `SELECT chunk_text, document_title, document_service, similarity FROM match_documents($1::vector, $2, $3)`

// VectorPostgres calls the pgvector-backed match_documents function
type VectorPostgres struct {
	db *sql.DB
}

func NewVectorPostgres(db *sql.DB) *VectorPostgres {
	return &VectorPostgres{db: db}
}

// MatchDocuments returns rows in the order the function produces them.
func (r *VectorPostgres) MatchDocuments(
	ctx context.Context,
	embedding []float32,
	matchCount int,
	service *string,
) ([]MatchRow, error) {
	rows, err := r.db.QueryContext(ctx, matchDocumentsQuery, FormatVector(embedding), matchCount, toNullString(service))
	if err != nil {
		return nil, fmt.Errorf("match documents: %w", err)
	}
	defer rows.Close()

	var result []MatchRow
	for rows.Next() {
		var (
			row     MatchRow
			svc     sql.NullString
			similar sql.NullFloat64
		)
		if err := rows.Scan(&row.ChunkText, &row.DocumentTitle, &svc, &similar); err != nil {
			return nil, fmt.Errorf("scan match row: %w", err)
		}
		row.DocumentService = fromNullString(svc)
		row.Similarity = similar.Float64
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate match rows: %w", err)
	}

	return result, nil
}

// FormatVector renders a pgvector literal such as "[0.1,0.2]".
func FormatVector(v []float32) string {
	var b strings.Builder
	b.Grow(len(v)*10 + 2)
	b.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(f), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}
