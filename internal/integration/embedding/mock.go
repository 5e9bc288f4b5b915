package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const mockDimension = 64

// MockConnector produces deterministic bag-of-words style vectors so that
// similar texts land close to each other without a real model.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Embed(ctx context.Context, text string) ([]float32, error) {
	return hashEmbed(text), nil
}

func (m *MockConnector) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	ctxzap.Debug(ctx, "[MOCK] computing embeddings", zap.Int("input_count", len(texts)))

	vectors := make([][]float32, 0, len(texts))
	for _, t := range texts {
		vectors = append(vectors, hashEmbed(t))
	}
	return vectors, nil
}

// hashEmbed buckets lowercased tokens into a fixed-size vector and
// normalizes it, so token overlap translates into cosine similarity.
func hashEmbed(text string) []float32 {
	vec := make([]float32, mockDimension)

	for _, token := range strings.Fields(strings.ToLower(text)) {
		token = strings.Trim(token, ".,;:!?()[]{}\"'|#*-")
		if token == "" {
			continue
		}
		h := fnv.New32a()
		h.Write([]byte(token))
		vec[h.Sum32()%mockDimension]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= scale
		}
	}

	return vec
}
