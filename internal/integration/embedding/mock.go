package embedding

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"

	"github.com/futig/consult-assistant/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector produces deterministic bag-of-words vectors so that similar texts land
// close together without calling the provider.
type MockConnector struct {
	dimension int
	logger    *zap.Logger
}

func NewMockConnector(dimension int, logger *zap.Logger) *MockConnector {
	if dimension <= 0 {
		dimension = 1024
	}
	return &MockConnector{
		dimension: dimension,
		logger:    logger,
	}
}

func (m *MockConnector) Embed(ctx context.Context, texts []string, mode entity.EmbeddingMode) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: texts", entity.ErrEmptyInput)
	}

	ctxzap.Info(ctx, "[MOCK] embedding texts",
		zap.Int("text_count", len(texts)),
		zap.String("mode", string(mode)),
	)

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = m.vector(text)
	}
	return vectors, nil
}

func (m *MockConnector) vector(text string) []float32 {
	v := make([]float32, m.dimension)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(word))
		v[h.Sum32()%uint32(m.dimension)]++
	}

	var norm float64
	for _, x := range v {
		norm += float64(x * x)
	}
	if norm == 0 {
		v[0] = 1
		return v
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range v {
		v[i] *= scale
	}
	return v
}
