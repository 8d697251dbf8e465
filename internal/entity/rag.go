package entity

// EmbeddingMode selects how the provider encodes a text.
type EmbeddingMode string

const (
	EmbeddingModeDocument EmbeddingMode = "document"
	EmbeddingModeQuery    EmbeddingMode = "query"
)

// InputType returns the provider-side input type for the mode.
func (m EmbeddingMode) InputType() string {
	if m == EmbeddingModeQuery {
		return "search_query"
	}
	return "search_document"
}

// DocumentChunk is one indexed window of a source document.
type DocumentChunk struct {
	Text        string  `json:"text"`
	Index       int     `json:"index"`
	SourceTitle string  `json:"source_title"`
	Service     *string `json:"service,omitempty"`
}

// RetrievedChunk is a single similarity search hit.
type RetrievedChunk struct {
	ChunkText     string  `json:"chunk_text"`
	DocumentTitle string  `json:"document_title"`
	Service       *string `json:"service,omitempty"`
	Similarity    float64 `json:"similarity"`
}

// Document is the metadata row a set of chunks belongs to.
type Document struct {
	ID      string
	Title   string
	Service *string
}

type IngestDocumentRequest struct {
	Title   string  `json:"title"`
	Service *string `json:"service,omitempty"`
	Content string  `json:"content"`
}

type IngestDocumentResponse struct {
	DocumentID string `json:"document_id"`
	ChunkCount int    `json:"chunk_count"`
}

type SearchRequest struct {
	VisitorID string  `json:"visitor_id"`
	Query     string  `json:"query"`
	Limit     int     `json:"limit,omitempty"`
	Service   *string `json:"service,omitempty"`
}

type SearchResponse struct {
	Chunks []RetrievedChunk `json:"chunks"`
}
