package repository

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/futig/consult-assistant/internal/entity"
)

var (
	_ VectorRepository   = &VectorMemory{}
	_ DocumentRepository = &VectorMemory{}
)

type memoryChunk struct {
	text      string
	embedding []float32
}

type memoryDocument struct {
	doc    entity.Document
	chunks []memoryChunk
}

// VectorMemory keeps documents in process. It backs mock mode when no database is configured.
type VectorMemory struct {
	mu      sync.RWMutex
	byTitle map[string]*memoryDocument
}

func NewVectorMemory() *VectorMemory {
	return &VectorMemory{byTitle: make(map[string]*memoryDocument)}
}

func (m *VectorMemory) ReplaceDocument(
	_ context.Context,
	doc entity.Document,
	chunks []entity.DocumentChunk,
	embeddings [][]float32,
) (string, error) {
	if len(chunks) != len(embeddings) {
		return "", fmt.Errorf("%w: %d chunks with %d embeddings", entity.ErrInvalidParameter, len(chunks), len(embeddings))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.byTitle[doc.Title]
	if !ok {
		stored = &memoryDocument{doc: doc}
		m.byTitle[doc.Title] = stored
	}
	stored.doc.Service = doc.Service
	stored.chunks = make([]memoryChunk, len(chunks))
	for i, c := range chunks {
		stored.chunks[i] = memoryChunk{text: c.Text, embedding: embeddings[i]}
	}

	return stored.doc.ID, nil
}

// MatchDocuments ranks by cosine similarity, highest first, like match_documents.
func (m *VectorMemory) MatchDocuments(_ context.Context, embedding []float32, matchCount int, service *string) ([]MatchRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var rows []MatchRow
	for _, d := range m.byTitle {
		if service != nil && *service != "" && (d.doc.Service == nil || *d.doc.Service != *service) {
			continue
		}
		for _, c := range d.chunks {
			rows = append(rows, MatchRow{
				ChunkText:       c.text,
				DocumentTitle:   d.doc.Title,
				DocumentService: d.doc.Service,
				Similarity:      max(0, cosine(embedding, c.embedding)),
			})
		}
	}

	slices.SortStableFunc(rows, func(a, b MatchRow) int {
		if c := cmp.Compare(b.Similarity, a.Similarity); c != 0 {
			return c
		}
		return cmp.Compare(a.DocumentTitle, b.DocumentTitle)
	})
	if matchCount > 0 && len(rows) > matchCount {
		rows = rows[:matchCount]
	}
	return rows, nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
