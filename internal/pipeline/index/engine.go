package index

import (
	"context"
	"fmt"
	"strings"

	"github.com/cardifyhq/cardify-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Synthesizer produces a free-text answer grounded in the given context.
type Synthesizer interface {
	Synthesize(ctx context.Context, query, context string) (string, error)
}

// nodeSeparator delimits node contents inside the synthesis context.
const nodeSeparator = "\n\n---\n\n"

// QueryEngine answers natural-language queries over an index: retrieve
// the most relevant nodes, then ground a generative answer in them.
type QueryEngine struct {
	index       *Index
	synthesizer Synthesizer
	topK        int
	logger      *zap.Logger
}

func NewQueryEngine(index *Index, synthesizer Synthesizer, topK int, logger *zap.Logger) *QueryEngine {
	return &QueryEngine{
		index:       index,
		synthesizer: synthesizer,
		topK:        topK,
		logger:      logger,
	}
}

// Query retrieves the topK most relevant nodes for the query and
// synthesizes a grounded free-text answer over them.
func (e *QueryEngine) Query(ctx context.Context, query string) (string, entity.RetrievalResult, error) {
	result, err := e.index.Query(ctx, query, e.topK)
	if err != nil {
		return "", nil, fmt.Errorf("retrieve nodes: %w", err)
	}

	ctxzap.Info(ctx, "nodes retrieved", zap.Int("hit_count", len(result)))

	contents := make([]string, 0, len(result))
	for _, hit := range result {
		contents = append(contents, hit.Node.Text)
	}
	grounding := strings.Join(contents, nodeSeparator)

	answer, err := e.synthesizer.Synthesize(ctx, query, grounding)
	if err != nil {
		return "", nil, err
	}

	return answer, result, nil
}
